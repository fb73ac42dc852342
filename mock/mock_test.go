package mock

import (
	"bufio"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAR(t *testing.T) (*assert.Assertions, *require.Assertions) {
	return assert.New(t), require.New(t)
}

func TestHandleSetAndQuery(t *testing.T) {
	assert, _ := makeAR(t)

	m := New("test", "ACME,Box,1,2", map[string]string{"FREQ:CENT": "1e9"})

	resp, ok := m.Handle(":FREQ:CENT?")
	assert.True(ok)
	assert.Equal("1e9", resp)

	_, ok = m.Handle(":freq:cent 2.4e9")
	assert.False(ok)
	resp, _ = m.Handle("FREQ:CENT?")
	assert.Equal("2.4e9", resp)

	resp, _ = m.Handle("*IDN?")
	assert.Equal("ACME,Box,1,2", resp)

	resp, _ = m.Handle("*RST;FREQ:CENT?")
	assert.Equal("1e9", resp)

	resp, _ = m.Handle("NOPE?")
	assert.Equal("0", resp)
}

func TestHandleOPC(t *testing.T) {
	assert, _ := makeAR(t)

	m := New("test", "ACME,Box,1,2", nil)

	resp, _ := m.Handle("*ESR?")
	assert.Equal("0", resp)

	m.Handle("*ESE 1")
	m.Handle("SOME:CMD 5;*OPC")
	resp, _ = m.Handle("*ESR?")
	assert.Equal("1", resp)
	resp, _ = m.Handle("*ESR?")
	assert.Equal("0", resp, "reading *ESR? clears it")

	resp, _ = m.Handle("SOME:CMD?;*OPC?")
	assert.Equal("5;1", resp)

	assert.Equal([]string{"*ESR?", "*ESE 1", "SOME:CMD 5", "*OPC", "*ESR?", "*ESR?", "SOME:CMD?", "*OPC?"}, m.History())
}

func TestSplitCommandsQuotes(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal([]string{"INST:CRE:NEW WLAN,'W;LAN'", "*WAI"}, splitCommands("INST:CRE:NEW WLAN,'W;LAN'; *WAI"))
	assert.Equal([]string{"A", "B"}, splitCommands(";A;;B;"))
	assert.Empty(splitCommands(""))
}

func TestGeneratorDerived(t *testing.T) {
	assert, require := makeAR(t)

	m := NewGenerator(4.0)

	resp, _ := m.Handle(wlnn + "FBLock1:USER1:DATA:BPSymbol?")
	assert.Equal("39200", resp)

	resp, _ = m.Handle(wlnn + "FBLock1:USER1:MPDU1:DATA:LENGth? MAX")
	assert.Equal(strconv.Itoa(MaxMPDULength), resp)

	resp, _ = m.Handle(wlnn + "FBLock1:DATA:FDURation?")
	assert.Equal("4", resp, "no MPDUs configured yet")

	m.Handle(wlnn + "FBLock1:ITIMe 0.004")
	resp, _ = m.Handle(wlnn + "FBLock1:ITIMe?")
	assert.Equal("4", resp)

	m.Handle(wlnn + "FBLock1:USER1:MPDU1:COUNt 2")
	m.Handle(wlnn + "FBLock1:USER1:MPDU1:DATA:LENGth 4900")
	m.Handle(wlnn + "FBLock1:USER1:MPDU2:DATA:LENGth 4900")
	resp, _ = m.Handle(wlnn + "FBLock1:DATA:FDURation?")
	ms, err := strconv.ParseFloat(resp, 64)
	require.NoError(err)
	// 78400 bits over 39200 bits per symbol is 2 symbols of 13.6us after a 43.2us header.
	assert.InDelta(0.0704, ms, 1e-9)

	m.Handle(wlnn + "FBLock1:STANdard WAX")
	resp, _ = m.Handle(wlnn + "FBLock1:DATA:FDURation?")
	ms, err = strconv.ParseFloat(resp, 64)
	require.NoError(err)
	assert.InDelta(0.0672, ms, 1e-9, "40us HE header")
	m.Handle(wlnn + "FBLock1:STANdard WBE")

	m.Handle(wlnn + "BWidth BW20")
	resp, _ = m.Handle(wlnn + "FBLock1:USER1:DATA:BPSymbol?")
	assert.Equal("2340", resp)
}

func TestListenRoundTrip(t *testing.T) {
	assert, require := makeAR(t)

	m := NewAnalyzer()
	require.NoError(m.Listen("127.0.0.1:0"))
	defer m.Close()

	conn, err := net.DialTimeout("tcp", m.Addr(), time.Second)
	require.NoError(err)
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	r := bufio.NewReader(conn)
	_, err = conn.Write([]byte(":CONF:STAN 11\n:CONF:STAN?;*OPC?\n"))
	require.NoError(err)
	line, err := r.ReadString('\n')
	require.NoError(err)
	assert.Equal("11;1\n", line)

	v, ok := m.Value("CONF:STAN")
	assert.True(ok)
	assert.Equal("11", v)
}

func TestCloseDropsClients(t *testing.T) {
	assert, require := makeAR(t)

	m := NewAnalyzer()
	require.NoError(m.Listen("127.0.0.1:0"))
	conn, err := net.DialTimeout("tcp", m.Addr(), time.Second)
	require.NoError(err)
	defer conn.Close()

	_, err = conn.Write([]byte("*IDN?\n"))
	require.NoError(err)
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(err)
	assert.Equal(AnalyzerIdentity+"\n", line)

	assert.NoError(m.Close())
	assert.Empty(m.Addr())
}
