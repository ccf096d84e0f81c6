package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainerr "animedex/internal/domain/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidateCollectsFields(t *testing.T) {
	cfg := Default()
	cfg.Site.Title = " "
	cfg.Catalog.PageSize = 0
	cfg.Catalog.Source = "ftp://example.com/animes.json"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, domainerr.ErrInvalid) {
		t.Fatalf("Validate() = %v, want ErrInvalid", err)
	}
	var ve domainerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error is %T", err)
	}
	want := []string{"site.title", "catalog.source", "catalog.page_size", "log.format"}
	got := ve.Fields()
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "animedex.yaml")
	body := `
site:
  title: Mi catálogo
catalog:
  source: https://example.com/data/animes.json
  page_size: 12
enrich:
  interval: 1s
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "Mi catálogo" {
		t.Errorf("title = %q", cfg.Site.Title)
	}
	if cfg.Catalog.PageSize != 12 {
		t.Errorf("page size = %d", cfg.Catalog.PageSize)
	}
	if cfg.Enrich.Interval != time.Second {
		t.Errorf("interval = %v", cfg.Enrich.Interval)
	}
	// untouched sections keep defaults
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Catalog.PageSize != 24 {
		t.Errorf("page size = %d", cfg.Catalog.PageSize)
	}
}
