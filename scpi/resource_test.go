package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAR(t *testing.T) (*assert.Assertions, *require.Assertions) {
	return assert.New(t), require.New(t)
}

func TestParseResource(t *testing.T) {
	assert, _ := makeAR(t)

	for addr, want := range map[string]Resource{
		"TCPIP::192.168.200.10::INSTR":    {"192.168.200.10", 5025},
		"TCPIP0::192.168.200.20::hislip0": {"192.168.200.20", 5025},
		"TCPIP::10.0.0.1::5026::SOCKET":   {"10.0.0.1", 5026},
		"127.0.0.1:5099":                  {"127.0.0.1", 5099},
		"smw200a.lab":                     {"smw200a.lab", 5025},
		"  TCPIP::fsw.lab::INSTR  ":       {"fsw.lab", 5025},
	} {
		res, err := ParseResource(addr)
		if assert.NoError(err, addr) {
			assert.Equal(want, res, addr)
		}
	}

	for _, addr := range []string{"", "GPIB0::20::INSTR", "TCPIP::::INSTR", "TCPIP::h::0::SOCKET", "host:99999"} {
		_, err := ParseResource(addr)
		assert.Error(err, addr)
	}

	assert.Equal("10.0.0.1:5025", Resource{"10.0.0.1", 5025}.String())
}

func TestParseIdentity(t *testing.T) {
	assert, require := makeAR(t)

	id, err := ParseIdentity("Rohde&Schwarz,SMW200A,1412.0000K02/101234,5.00.044\n")
	require.NoError(err)
	assert.Equal(Identity{
		Manufacturer: "Rohde&Schwarz",
		Model:        "SMW200A",
		Serial:       "1412.0000K02/101234",
		Firmware:     "5.00.044",
	}, id)
	assert.Equal("Rohde&Schwarz SMW200A, Serial: 1412.0000K02/101234", id.String())

	_, err = ParseIdentity("garbage")
	assert.Error(err)
}
