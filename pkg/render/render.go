// Package render produces the on-disk artifacts a cache node is built from:
// the config.json consumed by the node binary and the Dockerfile that wraps
// binary and config into an image.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"popctl/pkg/model"
)

// ConfigFileName is the config artifact name inside the state directory and
// the image.
const ConfigFileName = "config.json"

// DockerfileName is the build recipe name inside the image build context.
const DockerfileName = "Dockerfile"

// Config renders the node configuration as indented JSON.
func Config(cfg model.NodeConfig) ([]byte, error) {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append(b, '\n'), nil
}

// Dockerfile renders the build recipe for the node image. The recipe is
// fixed: the binary and its config are baked in and /data is left to the
// runtime volume mount.
func Dockerfile() []byte {
	return []byte(`FROM ubuntu:22.04

RUN apt-get update && \
    apt-get install -y --no-install-recommends ca-certificates curl && \
    rm -rf /var/lib/apt/lists/*

WORKDIR /app

COPY pop-node /app/pop-node
COPY config.json /app/config.json

EXPOSE 80 443

ENTRYPOINT ["/app/pop-node"]
`)
}

// WriteConfig renders cfg and writes it to <stateDir>/config.json, creating
// the directory when missing. An existing config is overwritten.
func WriteConfig(stateDir string, cfg model.NodeConfig) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	b, err := Config(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(stateDir, ConfigFileName), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ConfigFileName, err)
	}
	return nil
}
