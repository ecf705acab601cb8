package netx

import "testing"

// Occupying two consecutive ports must push the probe to the third.
func TestListenFreePortSkipsBoundPorts(t *testing.T) {
	ln1, p1, err := ListenFreePort(8888)
	if err != nil {
		t.Fatalf("first bind: %v", err)
	}
	defer ln1.Close()

	ln2, p2, err := ListenFreePort(p1)
	if err != nil {
		t.Fatalf("second bind: %v", err)
	}
	defer ln2.Close()
	if p2 != p1+1 {
		t.Fatalf("expected port %d after %d, got %d", p1+1, p1, p2)
	}

	ln3, p3, err := ListenFreePort(p1)
	if err != nil {
		t.Fatalf("third bind: %v", err)
	}
	defer ln3.Close()
	if p3 != p1+2 {
		t.Fatalf("expected probe to skip %d and %d and pick %d, got %d", p1, p2, p1+2, p3)
	}
}

func TestListenFreePortReturnsLiveListener(t *testing.T) {
	ln, port, err := ListenFreePort(8888)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer ln.Close()
	if ln.Addr() == nil {
		t.Fatal("listener has no address")
	}
	// The same port must be busy while the listener is held.
	ln2, retry, err := ListenFreePort(port)
	if err == nil {
		ln2.Close()
		if retry == port {
			t.Fatalf("port %d handed out twice", port)
		}
	}
}
