package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"popctl/pkg/model"
)

func TestConfigFixedServerFields(t *testing.T) {
	cfg := model.NewNodeConfig()
	cfg.PopName = "test-pop"
	cfg.CacheConfig.MemoryCacheSizeMB = 9999

	b, err := Config(cfg)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}

	var doc struct {
		Server struct {
			Host     string `json:"host"`
			Port     int    `json:"port"`
			HTTPPort int    `json:"http_port"`
			Workers  int    `json:"workers"`
		} `json:"server"`
		Cache struct {
			Path string `json:"disk_cache_path"`
		} `json:"cache_config"`
		API struct {
			BaseURL string `json:"base_url"`
		} `json:"api_endpoints"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal rendered config: %v", err)
	}

	if doc.Server.Host != "0.0.0.0" || doc.Server.Port != 443 || doc.Server.HTTPPort != 80 {
		t.Errorf("server = %+v, want 0.0.0.0:443/80", doc.Server)
	}
	if doc.Server.Workers != 0 {
		t.Errorf("workers = %d, want 0", doc.Server.Workers)
	}
	if doc.Cache.Path != "/data" {
		t.Errorf("disk_cache_path = %q, want /data", doc.Cache.Path)
	}
	if doc.API.BaseURL != model.BaseURL {
		t.Errorf("base_url = %q", doc.API.BaseURL)
	}
}

func TestConfigIsIndentedJSON(t *testing.T) {
	b, err := Config(model.NewNodeConfig())
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	s := string(b)
	if !strings.HasPrefix(s, "{\n") || !strings.HasSuffix(s, "}\n") {
		t.Errorf("config not pretty-printed:\n%s", s)
	}
	if !strings.Contains(s, `"pop_name"`) || !strings.Contains(s, `"identity_config"`) {
		t.Errorf("config missing expected keys:\n%s", s)
	}
}

func TestDockerfilePinned(t *testing.T) {
	df := string(Dockerfile())
	for _, want := range []string{
		"FROM ubuntu:22.04",
		"COPY pop-node /app/pop-node",
		"COPY config.json /app/config.json",
		"EXPOSE 80 443",
		`ENTRYPOINT ["/app/pop-node"]`,
	} {
		if !strings.Contains(df, want) {
			t.Errorf("Dockerfile missing %q:\n%s", want, df)
		}
	}
}

func TestWriteConfigCreatesStateDir(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "pop-node")
	cfg := model.NewNodeConfig()
	cfg.PopName = "written"

	if err := WriteConfig(stateDir, cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(stateDir, ConfigFileName))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want, _ := Config(cfg)
	if string(b) != string(want) {
		t.Errorf("written config differs from rendered config")
	}
}
