package scpi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlansync/config"
)

// Channel is the request/response surface the drivers need from an instrument.
type Channel interface {
	Write(cmd string) error
	// WriteOPC writes cmd and blocks until the instrument reports operation complete.
	WriteOPC(cmd string) error
	Query(cmd string) (string, error)
	// QueryOPC queries cmd and waits for operation complete before returning.
	QueryOPC(cmd string) (string, error)
}

var ErrNotConnected = errors.New("instrument not connected")

// ErrOPCTimeout is returned when *ESR? never reports operation complete.
var ErrOPCTimeout = errors.New("OPC timeout")

// Instrument is a SCPI instrument reached over a raw TCP socket.
type Instrument struct {
	Name     string
	Address  string
	Identity Identity

	timeout    time.Duration
	opcTimeout time.Duration
	opcPoll    time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

func New(name string, conf config.InstrumentConf) *Instrument {
	return &Instrument{
		Name:       name,
		Address:    conf.Address,
		timeout:    conf.Timeout(),
		opcTimeout: conf.OPCTimeout(),
		opcPoll:    conf.OPCPoll(),
	}
}

// Connect dials the instrument and reads its identity.
func (i *Instrument) Connect(ctx context.Context) error {
	res, err := ParseResource(i.Address)
	if err != nil {
		return err
	}

	log.Debugf("[%s] Connecting to %s (%s)", i.Name, i.Address, res)
	dialer := net.Dialer{Timeout: i.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", res.String())
	if err != nil {
		return fmt.Errorf("could not connect to %s at %s: %w", i.Name, res, err)
	}

	i.mu.Lock()
	i.conn = conn
	i.reader = bufio.NewReader(conn)
	i.mu.Unlock()

	idn, err := i.Query("*IDN?")
	if err != nil {
		i.Close()
		return err
	}
	if i.Identity, err = ParseIdentity(idn); err != nil {
		i.Close()
		return err
	}
	log.Infof("[%s] Connected to %s", i.Name, i.Identity)
	return nil
}

func (i *Instrument) send(cmd string) error {
	if i.conn == nil {
		return ErrNotConnected
	}
	if i.timeout > 0 {
		i.conn.SetDeadline(time.Now().Add(i.timeout))
	}
	if _, err := i.conn.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("%s: write %q: %w", i.Name, cmd, err)
	}
	return nil
}

func (i *Instrument) receive(cmd string) (string, error) {
	line, err := i.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%s: read response to %q: %w", i.Name, cmd, err)
	}
	return strings.TrimSpace(line), nil
}

func (i *Instrument) Write(cmd string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	log.Debugf("[%s] > %s", i.Name, cmd)
	return i.send(cmd)
}

func (i *Instrument) Query(cmd string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.query(cmd)
}

func (i *Instrument) query(cmd string) (string, error) {
	if err := i.send(cmd); err != nil {
		return "", err
	}
	resp, err := i.receive(cmd)
	if err != nil {
		return "", err
	}
	log.Debugf("[%s] < %s => %s", i.Name, cmd, resp)
	return resp, nil
}

// WriteOPC enables the OPC bit in the event status register, writes cmd
// followed by *OPC and polls *ESR? until bit 0 is set.
func (i *Instrument) WriteOPC(cmd string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	log.Debugf("[%s] > %s;*OPC", i.Name, cmd)
	if err := i.send("*ESE 1"); err != nil {
		return err
	}
	if err := i.send(cmd + ";*OPC"); err != nil {
		return err
	}

	deadline := time.Now().Add(i.opcTimeout)
	for {
		resp, err := i.query("*ESR?")
		if err != nil {
			return err
		}
		esr, err := strconv.Atoi(resp)
		if err != nil {
			return fmt.Errorf("%s: bad *ESR? response %q: %w", i.Name, resp, err)
		}
		if esr&1 == 1 {
			log.Debugf("[%s] Command '%s' completed", i.Name, cmd)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s: %w for command '%s'", i.Name, ErrOPCTimeout, cmd)
		}
		time.Sleep(i.opcPoll)
	}
}

// QueryOPC sends cmd;*OPC? and strips the trailing completion flag.
func (i *Instrument) QueryOPC(cmd string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	resp, err := i.query(cmd + ";*OPC?")
	if err != nil {
		return "", err
	}
	value, flag, found := cutLast(resp, ";")
	if !found || flag != "1" {
		return "", fmt.Errorf("%s: missing operation complete in response %q to %q", i.Name, resp, cmd)
	}
	return value, nil
}

func cutLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

func (i *Instrument) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.conn == nil {
		return nil
	}
	log.Debugf("[%s] Closing connection", i.Name)
	err := i.conn.Close()
	i.conn = nil
	i.reader = nil
	return err
}

// QueryFloat runs QueryOPC and parses a numeric response.
func QueryFloat(ch Channel, cmd string) (float64, error) {
	resp, err := ch.QueryOPC(cmd)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric response %q to %q", resp, cmd)
	}
	return v, nil
}

func QueryInt(ch Channel, cmd string) (int, error) {
	v, err := QueryFloat(ch, cmd)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// QueryBool treats "1" and "ON" as true.
func QueryBool(ch Channel, cmd string) (bool, error) {
	resp, err := ch.QueryOPC(cmd)
	if err != nil {
		return false, err
	}
	switch strings.ToUpper(strings.TrimSpace(resp)) {
	case "1", "ON":
		return true, nil
	case "0", "OFF":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean response %q to %q", resp, cmd)
}
