package scpi

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the raw SCPI socket port of R&S instruments.
const DefaultPort = 5025

// Resource is a TCP endpoint of an instrument.
type Resource struct {
	Host string
	Port int
}

func (r Resource) String() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// ParseResource accepts VISA resource strings and plain host[:port] addresses:
//
//	TCPIP::192.168.200.10::INSTR
//	TCPIP0::192.168.200.10::hislip0
//	TCPIP::192.168.200.10::5025::SOCKET
//	192.168.200.10:5025
//
// VXI-11 and HiSLIP resources are reached through the raw socket port.
func ParseResource(addr string) (Resource, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Resource{}, fmt.Errorf("empty instrument address")
	}

	if !strings.Contains(addr, "::") {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return Resource{Host: addr, Port: DefaultPort}, nil
		}
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return Resource{}, fmt.Errorf("invalid port in instrument address %q", addr)
		}
		return Resource{Host: host, Port: p}, nil
	}

	parts := strings.Split(addr, "::")
	if !strings.HasPrefix(strings.ToUpper(parts[0]), "TCPIP") || len(parts) < 2 || parts[1] == "" {
		return Resource{}, fmt.Errorf("unsupported VISA resource %q", addr)
	}
	res := Resource{Host: parts[1], Port: DefaultPort}
	if len(parts) == 4 && strings.EqualFold(parts[3], "SOCKET") {
		p, err := strconv.Atoi(parts[2])
		if err != nil || p <= 0 || p > 65535 {
			return Resource{}, fmt.Errorf("invalid port in VISA resource %q", addr)
		}
		res.Port = p
	}
	return res, nil
}

// Identity is a parsed *IDN? response.
type Identity struct {
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s %s, Serial: %s", i.Manufacturer, i.Model, i.Serial)
}

func ParseIdentity(resp string) (Identity, error) {
	fields := strings.Split(strings.TrimSpace(resp), ",")
	if len(fields) < 3 {
		return Identity{}, fmt.Errorf("malformed *IDN? response %q", resp)
	}
	id := Identity{
		Manufacturer: strings.TrimSpace(fields[0]),
		Model:        strings.TrimSpace(fields[1]),
		Serial:       strings.TrimSpace(fields[2]),
	}
	if len(fields) > 3 {
		id.Firmware = strings.TrimSpace(strings.Join(fields[3:], ","))
	}
	return id, nil
}
