package hostprep

import (
	"fmt"
	"log"
)

// ReclaimPorts force-terminates whatever currently holds the given TCP
// ports, including services unrelated to the node. Callers warn the operator
// before invoking it. fuser exits non-zero when a port is already free, so
// failures are swallowed.
func ReclaimPorts(ports ...int) {
	for _, p := range ports {
		target := fmt.Sprintf("%d/tcp", p)
		log.Printf("freeing tcp port %d (fuser -k %s)", p, target)
		if err := execRun("fuser", "-k", target); err != nil {
			log.Printf("port %d already free or fuser unavailable: %v", p, err)
		}
	}
}
