// Package deploy builds the node image and replaces the running container.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"popctl/pkg/engine"
	"popctl/pkg/model"
	"popctl/pkg/render"
)

const (
	// ContainerName is the fixed name of the node container on the host.
	ContainerName = "pop-node"
	// ImageTag is the tag the node image is built under.
	ImageTag = "pop-node:latest"
	// BinaryName is the node executable inside the state directory and the
	// image.
	BinaryName = "pop-node"
)

// hostPorts are published 1:1; the node terminates TLS itself.
var hostPorts = []string{"80:80", "443:443"}

// Deploy replaces any existing node container with one built from the state
// directory's binary and config. Stop/remove of a container that does not
// exist is not an error; every other failure aborts the deploy.
func Deploy(ctx context.Context, rt engine.ContainerRuntime, stateDir, invite string) error {
	if err := rt.Stop(ctx, ContainerName); err != nil && !errors.Is(err, engine.ErrNotFound) {
		return fmt.Errorf("stop container: %w", err)
	}
	if err := rt.Remove(ctx, ContainerName); err != nil && !errors.Is(err, engine.ErrNotFound) {
		return fmt.Errorf("remove container: %w", err)
	}

	staging, err := stageBuildContext(stateDir)
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	log.Printf("building image %s context=%s", ImageTag, staging)
	if err := rt.Build(ctx, ImageTag, staging); err != nil {
		return fmt.Errorf("build image: %w", err)
	}

	spec := engine.RunSpec{
		Name:    ContainerName,
		Image:   ImageTag,
		Ports:   hostPorts,
		Volumes: []string{stateDir + ":" + model.DiskCachePath},
		Env:     []string{"POP_INVITE_CODE=" + invite},
		Restart: "unless-stopped",
	}
	log.Printf("starting container name=%s image=%s state=%s", ContainerName, ImageTag, stateDir)
	if err := rt.Run(ctx, spec); err != nil {
		return fmt.Errorf("run container: %w", err)
	}
	return nil
}

// stageBuildContext assembles the image build context in a throwaway temp
// directory holding only the binary, the config and the Dockerfile. The
// state directory itself is not usable as a context: it grows a multi-GB
// cache tree that would all be sent to the docker daemon.
func stageBuildContext(stateDir string) (string, error) {
	staging := filepath.Join(os.TempDir(), "pop-node-build-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("create build staging: %w", err)
	}
	if err := copyFile(filepath.Join(stateDir, BinaryName), filepath.Join(staging, BinaryName), 0o755); err != nil {
		os.RemoveAll(staging)
		return "", fmt.Errorf("stage binary: %w", err)
	}
	if err := copyFile(filepath.Join(stateDir, render.ConfigFileName), filepath.Join(staging, render.ConfigFileName), 0o644); err != nil {
		os.RemoveAll(staging)
		return "", fmt.Errorf("stage config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, render.DockerfileName), render.Dockerfile(), 0o644); err != nil {
		os.RemoveAll(staging)
		return "", fmt.Errorf("stage dockerfile: %w", err)
	}
	return staging, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
