// Package engine wraps the external docker and apt tooling behind narrow
// capability interfaces so the orchestration flows can be exercised without
// a real container engine or package manager.
package engine

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// ErrNotFound reports an operation against a container that does not exist.
// Deploy treats it as "nothing to do"; everything else is fatal.
var ErrNotFound = errors.New("container not found")

// RunSpec describes a container launch.
type RunSpec struct {
	Name    string
	Image   string
	Ports   []string // "host:container"
	Volumes []string // "hostpath:containerpath"
	Env     []string // "KEY=value"
	Restart string   // docker restart policy, e.g. "unless-stopped"
}

// ContainerRuntime is the container-engine surface the deploy and restore
// flows need.
type ContainerRuntime interface {
	Stop(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Build(ctx context.Context, tag, contextDir string) error
	Run(ctx context.Context, spec RunSpec) error
	Status(ctx context.Context, name string) (string, error)
}

// PackageManager is the host tooling surface the prerequisite installer
// needs.
type PackageManager interface {
	Has(tool string) bool
	Install(ctx context.Context, packages ...string) error
	EnableService(ctx context.Context, service string) error
}

func runCombined(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
