package internal

import (
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/docmirror/internal/cache"
	"github.com/starford/docmirror/internal/figma"
	"github.com/starford/docmirror/internal/miro"
	"github.com/starford/docmirror/internal/notion"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Cache  CacheConfig       `yaml:"cache"`
	HTTP   HTTPConfig        `yaml:"http"`
	Notion NotionConfig      `yaml:"notion"`
	Miro   MiroConfig        `yaml:"miro"`
	Figma  FigmaConfig       `yaml:"figma"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Vault, &c.Cache, &c.HTTP, &c.Notion, &c.Miro, &c.Figma} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CacheConfig controls when a source folder counts as fresh.
type CacheConfig struct {
	MaxAgeDays int `yaml:"max_age_days"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxAgeDays, validation.Required, validation.Min(1)),
	)
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
	)
}

// SourceConfig holds the settings every source shares.
type SourceConfig struct {
	BaseURL      string   `yaml:"base_url"`
	TokenEnv     string   `yaml:"token_env"`
	DefaultTitle string   `yaml:"default_title"`
	Folder       string   `yaml:"folder"`
	Tags         []string `yaml:"tags"`
}

func (c *SourceConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.TokenEnv, validation.Required),
		validation.Field(&c.DefaultTitle, validation.Required),
		validation.Field(&c.Folder, validation.Required, validation.By(relativeFolder)),
	)
}

// relativeFolder rejects folders that would escape the vault.
func relativeFolder(value any) error {
	s, _ := value.(string)
	clean := path.Clean(strings.ReplaceAll(s, `\`, "/"))
	if path.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("must be a folder inside the vault")
	}
	return nil
}

// NotionConfig selects the Notion page tree to mirror.
type NotionConfig struct {
	SourceConfig `yaml:",inline"`
	PageID       string `yaml:"page_id"`
	MaxDepth     int    `yaml:"max_depth"`
}

// Validate validates the Notion configuration.
func (c *NotionConfig) Validate() error {
	if err := c.SourceConfig.validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.PageID, validation.Required),
		validation.Field(&c.MaxDepth, validation.Min(0)),
	)
}

// MiroConfig selects the Miro board to mirror.
type MiroConfig struct {
	SourceConfig `yaml:",inline"`
	BoardID      string `yaml:"board_id"`
	PageSize     int    `yaml:"page_size"`
}

// Validate validates the Miro configuration.
func (c *MiroConfig) Validate() error {
	if err := c.SourceConfig.validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BoardID, validation.Required),
		validation.Field(&c.PageSize, validation.Min(1), validation.Max(50)),
	)
}

// FigmaConfig selects the Figma file to mirror.
type FigmaConfig struct {
	SourceConfig `yaml:",inline"`
	FileKey      string `yaml:"file_key"`
	NodeID       string `yaml:"node_id"`
	FileName     string `yaml:"file_name"`
}

// Validate validates the Figma configuration.
func (c *FigmaConfig) Validate() error {
	if err := c.SourceConfig.validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.FileKey, validation.Required),
		validation.Field(&c.FileName, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Cache: CacheConfig{
			MaxAgeDays: cache.DefaultMaxAgeDays,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Notion: NotionConfig{
			SourceConfig: SourceConfig{
				BaseURL:      notion.DefaultBaseURL,
				TokenEnv:     "NOTION_TOKEN",
				DefaultTitle: "Sharity Documentation",
				Folder:       "Notion",
				Tags:         []string{"sharity", "notion"},
			},
			PageID:   "2e60a5be7bbe80e68b23f1f5f158aaee",
			MaxDepth: notion.DefaultMaxDepth,
		},
		Miro: MiroConfig{
			SourceConfig: SourceConfig{
				BaseURL:      miro.DefaultBaseURL,
				TokenEnv:     "MIRO_ACCESS_TOKEN",
				DefaultTitle: "Sharity Architecture",
				Folder:       "Architecture",
				Tags:         []string{"sharity", "miro", "architecture"},
			},
			BoardID:  "uXjVGPKWI70=",
			PageSize: miro.DefaultPageSize,
		},
		Figma: FigmaConfig{
			SourceConfig: SourceConfig{
				BaseURL:      figma.DefaultBaseURL,
				TokenEnv:     "FIGMA_ACCESS_TOKEN",
				DefaultTitle: "Sharity Design",
				Folder:       "Design",
				Tags:         []string{"sharity", "figma", "design"},
			},
			FileKey:  "S74LV4AyyLLK7L2G5Y211m",
			NodeID:   "2004-4099",
			FileName: "Sharity",
		},
	}
}
