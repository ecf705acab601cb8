package backup

import (
	"context"
	"fmt"
	"log"
	"os"

	"popctl/pkg/deploy"
	"popctl/pkg/engine"
	"popctl/pkg/tarx"
)

// Restore stops and removes the node container, wipes the state directory,
// unpacks the archive into it, refetches the node binary and redeploys with
// the given invite code. Failures after the wipe leave the directory
// partially restored; there is no rollback.
func Restore(ctx context.Context, rt engine.ContainerRuntime, archivePath, stateDir, invite string) error {
	if _, err := os.Stat(archivePath); err != nil {
		return fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
	}

	// The container may not exist and the daemon may be down when restoring
	// onto a fresh host; both are tolerated.
	if err := rt.Stop(ctx, deploy.ContainerName); err != nil {
		log.Printf("stop container: %v", err)
	}
	if err := rt.Remove(ctx, deploy.ContainerName); err != nil {
		log.Printf("remove container: %v", err)
	}

	log.Printf("wiping state dir=%s", stateDir)
	if err := os.RemoveAll(stateDir); err != nil {
		return fmt.Errorf("wipe state dir: %w", err)
	}
	if err := os.MkdirAll(stateDir, 0o777); err != nil {
		return fmt.Errorf("recreate state dir: %w", err)
	}
	// The node runs unprivileged inside the container and writes here.
	if err := os.Chmod(stateDir, 0o777); err != nil {
		return fmt.Errorf("open up state dir: %w", err)
	}

	if err := tarx.ExtractFile(archivePath, stateDir); err != nil {
		return fmt.Errorf("unpack archive: %w", err)
	}
	if err := deploy.FetchBinary(ctx, stateDir); err != nil {
		return err
	}
	return deploy.Deploy(ctx, rt, stateDir, invite)
}
