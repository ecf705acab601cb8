package backup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"popctl/pkg/netx"
)

const (
	// TransferPortStart is the first port probed for the download listener.
	TransferPortStart = 8888

	// TransferWindow bounds how long the download listener stays up.
	TransferWindow = 600 * time.Second
)

// Session is a one-shot download window for a single archive file. The
// listener speaks plain HTTP with no authentication and serves nothing but
// the archive; it lives at most Window.
type Session struct {
	Archive string
	Port    int
	Window  time.Duration

	srv  *http.Server
	done chan struct{}
}

// OpenSession binds the first free port at or above TransferPortStart and
// starts serving the archive file on it.
func OpenSession(archive string) (*Session, error) {
	ln, port, err := netx.ListenFreePort(TransferPortStart)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Archive: archive,
		Port:    port,
		Window:  TransferWindow,
		done:    make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/"+filepath.Base(archive), func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, archive)
	})
	s.srv = &http.Server{Handler: mux}

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("transfer listener stopped: %v", err)
		}
	}()

	log.Printf("transfer listener up port=%d archive=%s", port, filepath.Base(archive))
	return s, nil
}

// URL reports the download URL for the given host. An empty host (public IP
// lookup failed) yields a placeholder the operator has to fill in.
func (s *Session) URL(host string) string {
	if host == "" {
		host = "<this-host>"
	}
	return fmt.Sprintf("http://%s:%d/%s", host, s.Port, filepath.Base(s.Archive))
}

// Wait blocks until the operator hits Enter on confirm, the transfer window
// elapses, or ctx is canceled, whichever comes first.
func (s *Session) Wait(ctx context.Context, confirm io.Reader) {
	enter := make(chan struct{})
	if confirm != nil {
		go func() {
			br := bufio.NewReader(confirm)
			br.ReadString('\n')
			close(enter)
		}()
	}

	timer := time.NewTimer(s.Window)
	defer timer.Stop()

	select {
	case <-enter:
		log.Printf("transfer window closed by operator")
	case <-timer.C:
		log.Printf("transfer window expired after %s", s.Window)
	case <-ctx.Done():
	}
}

// Close tears the listener down immediately. In-flight downloads get cut
// off; the archive file stays on disk.
func (s *Session) Close() {
	if err := s.srv.Close(); err != nil {
		log.Printf("transfer listener close: %v", err)
	}
	<-s.done
}
