package netx

import (
	"fmt"
	"net"
)

// How many consecutive ports to probe before giving up.
const probeLimit = 100

// ListenFreePort binds the first available TCP port counting up from start
// and returns the listener still bound, together with the chosen port.
func ListenFreePort(start int) (net.Listener, int, error) {
	for port := start; port < start+probeLimit; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return ln, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no free tcp port in %d-%d", start, start+probeLimit-1)
}
