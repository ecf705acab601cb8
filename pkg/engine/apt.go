package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// AptGet implements PackageManager with apt-get and systemctl. apt-get update
// runs at most once per process.
type AptGet struct {
	updated bool
}

func NewAptGet() *AptGet { return &AptGet{} }

func (*AptGet) Has(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

func (a *AptGet) Install(ctx context.Context, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	if !a.updated {
		if out, err := runCombined(ctx, "apt-get", "update"); err != nil {
			return fmt.Errorf("apt-get update failed: %v output=%s", err, out)
		}
		a.updated = true
	}
	args := append([]string{"install", "-y"}, packages...)
	cmd := exec.CommandContext(ctx, "apt-get", args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("apt-get install %v failed: %v output=%s", packages, err, string(out))
	}
	return nil
}

func (*AptGet) EnableService(ctx context.Context, service string) error {
	if out, err := runCombined(ctx, "systemctl", "enable", "--now", service); err != nil {
		return fmt.Errorf("systemctl enable --now %s failed: %v output=%s", service, err, out)
	}
	return nil
}
