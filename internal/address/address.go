package address

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DefaultHost = "0.0.0.0"

var (
	ErrNoPort  = errors.New("no port given")
	ErrBadPort = errors.New("invalid port")
)

type Address struct {
	Host string
	Port uint16
}

// Parse splits the address into the host and the port. Missing host stands for every
// interface.
func Parse(addr string) (Address, error) {
	colon := strings.LastIndexByte(addr, ':')
	if colon == -1 {
		return Address{}, ErrNoPort
	}

	host := addr[:colon]
	if len(host) == 0 {
		host = DefaultHost
	}

	port, err := strconv.ParseUint(addr[colon+1:], 10, 16)
	if err != nil {
		return Address{}, errors.Wrap(ErrBadPort, addr[colon+1:])
	}

	return Address{
		Host: strings.Trim(host, "[]"),
		Port: uint16(port),
	}, nil
}

// SetPort returns a copy of the address with the port replaced.
func (a Address) SetPort(port uint16) Address {
	a.Port = port
	return a
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}
