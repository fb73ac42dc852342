// Package mock serves a line oriented SCPI instrument over TCP. It stores
// every setting it is sent and answers queries for the same header, which is
// enough to exercise the generator and analyzer drivers without hardware.
package mock

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Derived computes the answer of a query from the current state.
// It runs with the instrument lock held.
type Derived func(values map[string]string) string

type Instrument struct {
	Name     string
	Identity string

	defaults map[string]string
	derived  map[string]Derived

	mu       sync.Mutex
	values   map[string]string
	history  []string
	esr      int
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

func New(name, identity string, defaults map[string]string) *Instrument {
	m := &Instrument{
		Name:     name,
		Identity: identity,
		defaults: map[string]string{},
		derived:  map[string]Derived{},
		conns:    map[net.Conn]struct{}{},
	}
	for k, v := range defaults {
		m.defaults[Normalize(k)] = v
	}
	m.reset()
	return m
}

// Normalize upper-cases a header and drops the leading colon and query mark.
func Normalize(header string) string {
	h := strings.ToUpper(strings.TrimSpace(header))
	return strings.TrimSuffix(strings.TrimPrefix(h, ":"), "?")
}

func (m *Instrument) reset() {
	m.values = make(map[string]string, len(m.defaults))
	for k, v := range m.defaults {
		m.values[k] = v
	}
}

// Derive registers a computed query. key is the full query without "?",
// including any argument, e.g. "SOURce1:BB:WLNN:FBLock1:USER1:MPDU1:DATA:LENGth MAX".
func (m *Instrument) Derive(key string, fn Derived) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.derived[Normalize(key)] = fn
}

func (m *Instrument) Set(header, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[Normalize(header)] = value
}

func (m *Instrument) Value(header string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[Normalize(header)]
	return v, ok
}

// History returns every command received, split on ';'.
func (m *Instrument) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}

// Handle executes one line and returns the response line, if any.
func (m *Instrument) Handle(line string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var answers []string
	for _, cmd := range splitCommands(line) {
		m.history = append(m.history, cmd)
		if resp, ok := m.execute(cmd); ok {
			answers = append(answers, resp)
		}
	}
	if len(answers) == 0 {
		return "", false
	}
	return strings.Join(answers, ";"), true
}

func (m *Instrument) execute(cmd string) (string, bool) {
	header, arg, _ := strings.Cut(cmd, " ")
	upper := strings.ToUpper(header)
	switch upper {
	case "*IDN?":
		return m.Identity, true
	case "*OPC":
		m.esr |= 1
		return "", false
	case "*OPC?":
		return "1", true
	case "*ESR?":
		esr := m.esr
		m.esr = 0
		return strconv.Itoa(esr), true
	case "*RST":
		m.reset()
		return "", false
	case "*CLS":
		m.esr = 0
		return "", false
	case "*WAI", "*ESE", "*SRE":
		return "", false
	}

	if strings.HasSuffix(upper, "?") {
		key := Normalize(header)
		if arg != "" {
			key += " " + strings.ToUpper(strings.TrimSpace(arg))
		}
		if fn, ok := m.derived[key]; ok {
			return fn(m.values), true
		}
		if v, ok := m.values[key]; ok {
			return v, true
		}
		log.Warnf("[mock %s] Unknown query %q", m.Name, cmd)
		return "0", true
	}

	m.values[Normalize(header)] = strings.TrimSpace(arg)
	return "", false
}

// splitCommands splits on ';' outside of quoted strings.
func splitCommands(line string) []string {
	var out []string
	var quote rune
	start := 0
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ';':
			if cmd := strings.TrimSpace(line[start:i]); cmd != "" {
				out = append(out, cmd)
			}
			start = i + 1
		}
	}
	if cmd := strings.TrimSpace(line[start:]); cmd != "" {
		out = append(out, cmd)
	}
	return out
}

// Listen binds addr ("127.0.0.1:0" picks a free port) and serves in the background.
func (m *Instrument) Listen(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()

	log.Infof("[mock %s] Listening on %s", m.Name, l.Addr())
	m.wg.Add(1)
	go m.serve(l)
	return nil
}

func (m *Instrument) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

func (m *Instrument) serve(l net.Listener) {
	defer m.wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Errorf("[mock %s] Failed to accept connection: %v", m.Name, err)
			}
			return
		}
		m.mu.Lock()
		if m.listener == nil {
			m.mu.Unlock()
			conn.Close()
			return
		}
		m.conns[conn] = struct{}{}
		m.mu.Unlock()

		m.wg.Add(1)
		go m.handleConnection(conn)
	}
}

func (m *Instrument) handleConnection(conn net.Conn) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		delete(m.conns, conn)
		m.mu.Unlock()
		conn.Close()
	}()

	log.Debugf("[mock %s] Client connected: %s", m.Name, conn.RemoteAddr())
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		resp, ok := m.Handle(scanner.Text())
		if !ok {
			continue
		}
		if _, err := conn.Write([]byte(resp + "\n")); err != nil {
			log.Debugf("[mock %s] Write failed: %v", m.Name, err)
			return
		}
	}
}

// Close stops the listener and drops open connections.
func (m *Instrument) Close() error {
	m.mu.Lock()
	l := m.listener
	m.listener = nil
	var err error
	if l != nil {
		err = l.Close()
	}
	for conn := range m.conns {
		conn.Close()
	}
	m.mu.Unlock()

	m.wg.Wait()
	return err
}
