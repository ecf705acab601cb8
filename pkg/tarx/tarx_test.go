package tarx

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateAndExtractRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "config.json"), `{"pop_name":"x"}`, 0o644)
	writeFile(t, filepath.Join(src, "node_info.json"), `{"id":1}`, 0o600)
	if err := os.Mkdir(filepath.Join(src, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(src, "sub", "skipped.txt"), "nested", 0o644)

	archive := filepath.Join(t.TempDir(), "state.tar.gz")
	if err := CreateFromDir(archive, src); err != nil {
		t.Fatalf("create: %v", err)
	}

	dest := t.TempDir()
	if err := ExtractFile(archive, dest); err != nil {
		t.Fatalf("extract: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "config.json"))
	if err != nil {
		t.Fatalf("missing config.json: %v", err)
	}
	if string(got) != `{"pop_name":"x"}` {
		t.Fatalf("config content changed: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "node_info.json")); err != nil {
		t.Fatalf("missing node_info.json: %v", err)
	}
	// Only top-level regular files are bundled.
	if _, err := os.Stat(filepath.Join(dest, "sub")); !os.IsNotExist(err) {
		t.Fatal("nested directory should not have been archived")
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	body := []byte("evil")
	if err := tw.WriteHeader(&tar.Header{Name: "../escape.txt", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(body); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	parent := t.TempDir()
	dest := filepath.Join(parent, "dest")
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Extract(&buf, dest); err == nil {
		t.Fatal("expected error for entry escaping the destination")
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.txt")); !os.IsNotExist(err) {
		t.Fatal("escaping entry was written outside the destination")
	}
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
}
