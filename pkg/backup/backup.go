// Package backup archives node state, serves archives over a short-lived
// download listener, and restores them onto a clean state directory.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"popctl/pkg/netx"
	"popctl/pkg/tarx"
)

var (
	// ErrNoInstallation reports a backup attempt against a state directory
	// with no config.json. Nothing is archived.
	ErrNoInstallation = errors.New("no node installation found")

	// ErrArchiveNotFound reports a restore pointed at a nonexistent archive.
	// The node and its state are left untouched.
	ErrArchiveNotFound = errors.New("backup archive not found")
)

// stateFiles are the files carried between hosts. The cache tree is
// reproducible and stays behind.
var stateFiles = []string{"config.json", "node_info.json", "node_info.json.bak"}

// Create archives the node state files from stateDir into a timestamped
// tar.gz under outDir and returns the archive path. config.json must exist;
// the other state files are included only when present.
func Create(stateDir, outDir string) (string, error) {
	if _, err := os.Stat(filepath.Join(stateDir, "config.json")); err != nil {
		return "", fmt.Errorf("%w in %s", ErrNoInstallation, stateDir)
	}

	staging := filepath.Join(os.TempDir(), "pop-node-backup-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o700); err != nil {
		return "", fmt.Errorf("create backup staging: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, name := range stateFiles {
		src := filepath.Join(stateDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(staging, name)); err != nil {
			return "", fmt.Errorf("stage %s: %w", name, err)
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("pop-node-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
	archive := filepath.Join(outDir, name)
	if err := tarx.CreateFromDir(archive, staging); err != nil {
		return "", err
	}
	return archive, nil
}

// Options control a backup run.
type Options struct {
	StateDir string
	OutDir   string
	Confirm  io.Reader     // operator Enter closes the window early; nil disables
	Out      io.Writer     // operator-facing messages
	LookupIP func() string // nil means netx.PublicIP
	Window   time.Duration // 0 means TransferWindow
}

// Run archives the node state, then serves the archive on a fresh port until
// the operator confirms the download or the transfer window elapses. The
// archive file stays on disk either way.
func Run(ctx context.Context, opts Options) (string, error) {
	archive, err := Create(opts.StateDir, opts.OutDir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(archive)
	if err != nil {
		return archive, fmt.Errorf("stat archive: %w", err)
	}

	ses, err := OpenSession(archive)
	if err != nil {
		return archive, fmt.Errorf("open transfer listener: %w", err)
	}
	defer ses.Close()
	if opts.Window > 0 {
		ses.Window = opts.Window
	}

	lookup := opts.LookupIP
	if lookup == nil {
		lookup = netx.PublicIP
	}
	url := ses.URL(lookup())

	fmt.Fprintf(opts.Out, "backup written: %s (%s)\n", archive, humanize.Bytes(uint64(info.Size())))
	fmt.Fprintf(opts.Out, "fetch it from another machine within %s:\n", ses.Window)
	fmt.Fprintf(opts.Out, "    curl -O %s\n", url)
	fmt.Fprintln(opts.Out, "press Enter once the download is done to close the listener.")

	ses.Wait(ctx, opts.Confirm)
	return archive, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
