package netutil

import (
	"fmt"
	"net"
)

// TCPAddrAvailable reports an error when addr cannot be bound right now.
func TCPAddrAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen address %s unavailable: %w", addr, err)
	}
	return ln.Close()
}
