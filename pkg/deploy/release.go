package deploy

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"popctl/pkg/tarx"
)

// ReleaseURL is the pinned node release downloaded during install and
// restore. A var so tests can point it at a local server.
var ReleaseURL = "https://releases.popnetwork.io/pop-node/v0.3.2/pop-node-linux-amd64.tar.gz"

// FetchBinary downloads the node release tarball and unpacks it into the
// state directory, leaving <stateDir>/pop-node executable. No retries; a
// failed download fails the install.
func FetchBinary(ctx context.Context, stateDir string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleaseURL, nil)
	if err != nil {
		return fmt.Errorf("build release request: %w", err)
	}
	log.Printf("downloading node release url=%s", ReleaseURL)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download release: unexpected status %s", resp.Status)
	}

	if err := tarx.Extract(resp.Body, stateDir); err != nil {
		return fmt.Errorf("unpack release: %w", err)
	}
	if err := os.Chmod(filepath.Join(stateDir, BinaryName), 0o755); err != nil {
		return fmt.Errorf("mark node binary executable: %w", err)
	}
	return nil
}
