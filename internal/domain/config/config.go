package config

import (
	domainerr "animedex/internal/domain/errors"
	"gopkg.in/yaml.v3"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Blog    BlogConfig    `yaml:"blog"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Enrich  EnrichConfig  `yaml:"enrich"`
	Build   BuildConfig   `yaml:"build"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type CatalogConfig struct {
	// Source is an http(s) URL or a local path to the catalog JSON document.
	Source       string   `yaml:"source"`
	Watch        bool     `yaml:"watch"`
	PageSize     int      `yaml:"page_size"`
	MatureGenres []string `yaml:"mature_genres"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type BlogConfig struct {
	SourceDir string `yaml:"source_dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EnrichTarget struct {
	Key    string `yaml:"key"`
	Query  string `yaml:"q"`
	Type   string `yaml:"type"`
	Format string `yaml:"format"`
	Year   int    `yaml:"year"`
}

type EnrichConfig struct {
	Endpoint     string         `yaml:"endpoint"`
	File         string         `yaml:"file"`
	Interval     time.Duration  `yaml:"interval"`
	AllowedTypes []string       `yaml:"allowed_types"`
	DropMetaType string         `yaml:"drop_meta_type"`
	Targets      []EnrichTarget `yaml:"targets"`
}

type BuildConfig struct {
	PublicDir string `yaml:"public_dir"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Animedex",
			Language: "es",
		},
		Catalog: CatalogConfig{
			Source:       "public/data/animes.json",
			Watch:        true,
			PageSize:     24,
			MatureGenres: []string{"hentai", "ecchi"},
		},
		Storage: StorageConfig{Path: ".animedex/prefs.db"},
		Blog:    BlogConfig{SourceDir: "content/blog"},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", Format: "console"},
		Enrich: EnrichConfig{
			Endpoint:     "https://graphql.anilist.co",
			File:         "public/data/animes.json",
			Interval:     350 * time.Millisecond,
			AllowedTypes: []string{"TV", "Película"},
			DropMetaType: "OVA",
			Targets: []EnrichTarget{
				{Key: "Naruto", Query: "Naruto", Type: "ANIME", Format: "TV", Year: 2002},
				{Key: "One Piece", Query: "One Piece", Type: "ANIME", Format: "TV", Year: 1999},
				{Key: "Bleach", Query: "Bleach", Type: "ANIME", Format: "TV", Year: 2004},
				{Key: "Hunter x Hunter (2011)", Query: "Hunter x Hunter", Type: "ANIME", Format: "TV", Year: 2011},
				{Key: "Fullmetal Alchemist: Brotherhood", Query: "Fullmetal Alchemist: Brotherhood", Type: "ANIME", Format: "TV", Year: 2009},
			},
		},
		Build: BuildConfig{PublicDir: "dist"},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if src := strings.TrimSpace(c.Catalog.Source); src == "" {
		ve.Add("catalog.source", "must not be empty")
	} else if strings.Contains(src, "://") && !isValidAbsURL(src) {
		ve.Add("catalog.source", "must be a local path or an http(s) URL")
	}
	if c.Catalog.PageSize <= 0 {
		ve.Add("catalog.page_size", "must be positive")
	}

	if strings.TrimSpace(c.Storage.Path) == "" {
		ve.Add("storage.path", "must not be empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		ve.Add("server.addr", "must not be empty")
	}

	switch c.Log.Format {
	case "", "json", "console":
	default:
		ve.Addf("log.format", "must be 'json' or 'console', got %q", c.Log.Format)
	}

	if !isValidAbsURL(c.Enrich.Endpoint) {
		ve.Add("enrich.endpoint", "must be a valid absolute URL")
	}
	if c.Enrich.Interval < 0 {
		ve.Add("enrich.interval", "must not be negative")
	}
	for i, t := range c.Enrich.Targets {
		if strings.TrimSpace(t.Query) == "" {
			ve.Addf("enrich.targets", "entry %d: q must not be empty", i)
		}
	}

	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}

	return ve.Err()
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// 文件里出现的字段覆盖默认值
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, except a missing file yields Default().
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
