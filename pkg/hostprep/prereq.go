// Package hostprep prepares the host for a cache-node deployment: required
// tooling, kernel tuning and reclaiming the ports the node publishes.
package hostprep

import (
	"context"
	"fmt"
	"log"
	"os/exec"

	"popctl/pkg/engine"
)

// toolPackages maps required CLI tools to the apt packages providing them.
var toolPackages = []struct {
	Tool    string
	Package string
}{
	{"docker", "docker.io"},
	{"jq", "jq"},
	{"ss", "iproute2"},
	{"fuser", "psmisc"},
}

const runtimeService = "docker"

// EnsurePrerequisites installs any missing host tooling and, when the
// container runtime itself was absent, enables and starts its service.
// Idempotent: a host that already has everything passes through silently.
// Any failure is fatal to the install.
func EnsurePrerequisites(ctx context.Context, pm engine.PackageManager) error {
	missing := []string{}
	runtimeMissing := false
	for _, tp := range toolPackages {
		if pm.Has(tp.Tool) {
			continue
		}
		missing = append(missing, tp.Package)
		if tp.Tool == "docker" {
			runtimeMissing = true
		}
	}
	if len(missing) == 0 {
		return nil
	}
	log.Printf("installing missing packages: %v", missing)
	if err := pm.Install(ctx, missing...); err != nil {
		return fmt.Errorf("install prerequisites: %w", err)
	}
	if runtimeMissing {
		if err := pm.EnableService(ctx, runtimeService); err != nil {
			return fmt.Errorf("enable container runtime: %w", err)
		}
	}
	return nil
}

// execRun invokes a host command, folding combined output into the error.
// A var so package tests can intercept host-mutating calls.
var execRun = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v failed: %v output=%s", name, args, err, string(out))
	}
	return nil
}
