package engine

import (
	"context"
	"fmt"
	"strings"
)

// DockerCLI drives a local docker daemon through the docker command line.
type DockerCLI struct{}

func (DockerCLI) Stop(ctx context.Context, name string) error {
	out, err := runCombined(ctx, "docker", "stop", name)
	if err != nil {
		if isNotFound(out) {
			return ErrNotFound
		}
		return fmt.Errorf("docker stop %s failed: %v output=%s", name, err, out)
	}
	return nil
}

func (DockerCLI) Remove(ctx context.Context, name string) error {
	out, err := runCombined(ctx, "docker", "rm", name)
	if err != nil {
		if isNotFound(out) {
			return ErrNotFound
		}
		return fmt.Errorf("docker rm %s failed: %v output=%s", name, err, out)
	}
	return nil
}

func (DockerCLI) Build(ctx context.Context, tag, contextDir string) error {
	out, err := runCombined(ctx, "docker", "build", "-t", tag, contextDir)
	if err != nil {
		return fmt.Errorf("docker build %s failed: %v output=%s", tag, err, out)
	}
	return nil
}

func (DockerCLI) Run(ctx context.Context, spec RunSpec) error {
	out, err := runCombined(ctx, "docker", runArgs(spec)...)
	if err != nil {
		return fmt.Errorf("docker run %s failed: %v output=%s", spec.Name, err, out)
	}
	return nil
}

func (DockerCLI) Status(ctx context.Context, name string) (string, error) {
	out, err := runCombined(ctx, "docker", "inspect", "-f", "{{.State.Status}}", name)
	if err != nil {
		if isNotFound(out) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("docker inspect %s failed: %v output=%s", name, err, out)
	}
	return out, nil
}

// runArgs assembles the docker run invocation for a RunSpec. Split out so the
// flag layout can be checked without a daemon.
func runArgs(spec RunSpec) []string {
	args := []string{"run", "-d", "--name", spec.Name}
	if spec.Restart != "" {
		args = append(args, "--restart", spec.Restart)
	}
	for _, p := range spec.Ports {
		args = append(args, "-p", p)
	}
	for _, v := range spec.Volumes {
		args = append(args, "-v", v)
	}
	for _, e := range spec.Env {
		args = append(args, "-e", e)
	}
	return append(args, spec.Image)
}

func isNotFound(out string) bool {
	return strings.Contains(out, "No such container") || strings.Contains(out, "No such object")
}
