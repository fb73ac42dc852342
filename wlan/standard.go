package wlan

import (
	"fmt"
	"sort"
	"strings"
)

// Standard is the canonical identifier of an IEEE 802.11 amendment.
type Standard string

const (
	Std11a     Standard = "802.11a"
	Std11b     Standard = "802.11b"
	Std11j10   Standard = "802.11j-10MHz"
	Std11j20   Standard = "802.11j-20MHz"
	Std11g     Standard = "802.11g"
	Std11n     Standard = "802.11n"
	Std11nMIMO Standard = "802.11n-MIMO"
	Std11ac    Standard = "802.11ac"
	Std11p     Standard = "802.11p"
	Std11ax    Standard = "802.11ax"
	Std11be    Standard = "802.11be"
)

type standardCodes struct {
	generator   string
	analyzer    int
	description string
}

// Generator codes are the SMW-side keys, analyzer codes the FSW :CONF:STAN values.
var standardTable = map[Standard]standardCodes{
	Std11a:     {"A", 0, "IEEE 802.11a"},
	Std11b:     {"B", 1, "IEEE 802.11b"},
	Std11j10:   {"J10", 2, "IEEE 802.11j (10 MHz)"},
	Std11j20:   {"J20", 3, "IEEE 802.11j (20 MHz)"},
	Std11g:     {"G", 4, "IEEE 802.11g"},
	Std11n:     {"N", 6, "IEEE 802.11n"},
	Std11nMIMO: {"N_MIMO", 7, "IEEE 802.11n (MIMO)"},
	Std11ac:    {"AC", 8, "IEEE 802.11ac"},
	Std11p:     {"P", 9, "IEEE 802.11p"},
	Std11ax:    {"WAX", 10, "IEEE 802.11ax"},
	Std11be:    {"WBE", 11, "IEEE 802.11be"},
}

var (
	byGenerator = map[string]Standard{}
	byAnalyzer  = map[int]Standard{}
	byName      = map[string]Standard{}
)

func init() {
	for std, c := range standardTable {
		byGenerator[c.generator] = std
		byAnalyzer[c.analyzer] = std
		byName[strings.ToLower(strings.TrimPrefix(string(std), "802.11"))] = std
	}
}

// ParseStandard resolves a user or instrument supplied name to its canonical
// identifier. It accepts "802.11ax", "IEEE 802.11ax", "11ax", "ax" and the
// generator codes ("WAX").
func ParseStandard(name string) (Standard, error) {
	s := strings.TrimSpace(name)
	if std, ok := byGenerator[strings.ToUpper(s)]; ok {
		return std, nil
	}
	key := strings.ToLower(s)
	key = strings.TrimPrefix(key, "ieee")
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "802.")
	key = strings.TrimPrefix(key, "11")
	if std, ok := byName[key]; ok {
		return std, nil
	}
	return "", &UnsupportedStandardError{Name: name}
}

// ToGeneratorCode translates a standard name to the generator vocabulary.
func ToGeneratorCode(name string) (string, error) {
	std, err := ParseStandard(name)
	if err != nil {
		return "", err
	}
	return standardTable[std].generator, nil
}

// ToAnalyzerCode translates a standard name to the analyzer :CONF:STAN index.
func ToAnalyzerCode(name string) (int, error) {
	std, err := ParseStandard(name)
	if err != nil {
		return 0, err
	}
	return standardTable[std].analyzer, nil
}

func FromGeneratorCode(code string) (Standard, error) {
	if std, ok := byGenerator[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return std, nil
	}
	return "", &UnsupportedStandardError{Name: code}
}

func FromAnalyzerCode(code int) (Standard, error) {
	if std, ok := byAnalyzer[code]; ok {
		return std, nil
	}
	return "", &UnsupportedStandardError{Name: fmt.Sprintf(":CONF:STAN %d", code)}
}

// AnalyzerCommand formats the analyzer command that selects a standard.
func AnalyzerCommand(code int) string {
	return fmt.Sprintf(":CONF:STAN %d", code)
}

// Description returns the human readable name, or the raw identifier when unknown.
func (s Standard) Description() string {
	if c, ok := standardTable[s]; ok {
		return c.description
	}
	return string(s)
}

// GeneratorCode is empty for an unknown standard.
func (s Standard) GeneratorCode() string {
	return standardTable[s].generator
}

// AnalyzerCode is -1 for an unknown standard.
func (s Standard) AnalyzerCode() int {
	if c, ok := standardTable[s]; ok {
		return c.analyzer
	}
	return -1
}

// Standards lists every known standard ordered by analyzer code.
func Standards() []Standard {
	out := make([]Standard, 0, len(standardTable))
	for std := range standardTable {
		out = append(out, std)
	}
	sort.Slice(out, func(i, j int) bool {
		return standardTable[out[i]].analyzer < standardTable[out[j]].analyzer
	})
	return out
}
