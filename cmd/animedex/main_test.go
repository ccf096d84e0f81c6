package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainerr "animedex/internal/domain/errors"
	"animedex/internal/domain/media"
	"animedex/internal/prefs"
)

func sampleRecords() []media.Record {
	return []media.Record{
		{"id": "1", "titulo": "Naruto", "anio": float64(2002), "tipo": "TV", "genres": []any{"Action", "Adventure"}},
		{"id": "2", "titulo": "Bleach", "anio": float64(2004), "tipo": "TV", "genres": []any{"Action", "Supernatural"}},
		{"id": "3", "titulo": "Naruto Shippuden", "anio": float64(2007), "tipo": "TV", "genres": []any{"Action", "Adventure"}},
	}
}

func TestPrintSimilar(t *testing.T) {
	store := prefs.NewStore(prefs.NewMemoryStorage())
	store.ToggleDisliked("2")

	var buf bytes.Buffer
	if err := printSimilar(&buf, modeRecommend, sampleRecords(), "1", store, 10); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Naruto Shippuden") || strings.Contains(out, "Bleach") {
		t.Fatalf("recommend output:\n%s", out)
	}

	buf.Reset()
	if err := printSimilar(&buf, modeAvoid, sampleRecords(), "2", store, 10); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Naruto") {
		t.Fatalf("avoid output:\n%s", buf.String())
	}

	if err := printSimilar(&buf, modeRecommend, sampleRecords(), "nope", store, 10); err == nil {
		t.Fatal("unknown key accepted")
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "animedex.yaml")
	if err := os.WriteFile(path, []byte("catalog:\n  page_size: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path, "build"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	if !errors.Is(err, domainerr.ErrInvalid) {
		t.Fatalf("err = %v, want invalid config", err)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "animes.json")
	if err := os.WriteFile(catPath, []byte(`[{"id":1,"titulo":"Naruto","anio":2002}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "dist")
	cfgPath := filepath.Join(dir, "animedex.yaml")
	cfg := "catalog:\n  source: " + catPath + "\nblog:\n  source_dir: " + filepath.Join(dir, "blog") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", cfgPath, "build", "--out", out})
	cmd.SetOut(&stdout)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "1 titles") {
		t.Fatalf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(out, "anime", "1", "index.html")); err != nil {
		t.Fatal(err)
	}
}
