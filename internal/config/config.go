package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Config describes where the manifest builder reads its inputs and writes
// its output. Paths other than the site-path fields are relative to Root.
type Config struct {
	Root              string    `mapstructure:"root"`
	SourceDir         string    `mapstructure:"sourceDir"`
	ThumbnailsDir     string    `mapstructure:"thumbnailsDir"`
	OutputPath        string    `mapstructure:"outputPath"`
	FallbackThumbnail string    `mapstructure:"fallbackThumbnail"`
	ExtensionPriority []string  `mapstructure:"extensionPriority"`
	HrefPrefix        string    `mapstructure:"hrefPrefix"`
	ThumbnailPrefix   string    `mapstructure:"thumbnailPrefix"`
	Locale            string    `mapstructure:"locale"`
	FooterPath        string    `mapstructure:"footerPath"`
	Log               LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults mirrors the site layout the page templates expect.
var Defaults = map[string]any{
	"root":              ".",
	"sourceDir":         "projects-collection",
	"thumbnailsDir":     "assets/images/project-images/project-thumbnail-images",
	"outputPath":        "assets/data/projects.json",
	"fallbackThumbnail": "/assets/images/project-images/project-thumbnail-images/example-project1-thumbnail.png",
	"extensionPriority": []string{"png", "jpg", "jpeg", "webp", "svg"},
	"hrefPrefix":        "/projects-collection",
	"thumbnailPrefix":   "/assets/images/project-images/project-thumbnail-images",
	"locale":            "en",
	"footerPath":        "assets/data/footer.json",
	"log.level":         "info",
	"log.format":        "console",
}

// Default returns a Config populated from Defaults.
func Default() Config {
	return Config{
		Root:              Defaults["root"].(string),
		SourceDir:         Defaults["sourceDir"].(string),
		ThumbnailsDir:     Defaults["thumbnailsDir"].(string),
		OutputPath:        Defaults["outputPath"].(string),
		FallbackThumbnail: Defaults["fallbackThumbnail"].(string),
		ExtensionPriority: append([]string(nil), Defaults["extensionPriority"].([]string)...),
		HrefPrefix:        Defaults["hrefPrefix"].(string),
		ThumbnailPrefix:   Defaults["thumbnailPrefix"].(string),
		Locale:            Defaults["locale"].(string),
		FooterPath:        Defaults["footerPath"].(string),
		Log: LogConfig{
			Level:  Defaults["log.level"].(string),
			Format: Defaults["log.format"].(string),
		},
	}
}

// LocaleTag parses Locale into a language tag.
func (c Config) LocaleTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"sourceDir", c.SourceDir},
		{"thumbnailsDir", c.ThumbnailsDir},
		{"outputPath", c.OutputPath},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.key))
		}
	}

	sitePaths := []struct {
		key, value string
	}{
		{"fallbackThumbnail", c.FallbackThumbnail},
		{"hrefPrefix", c.HrefPrefix},
		{"thumbnailPrefix", c.ThumbnailPrefix},
	}
	for _, p := range sitePaths {
		if !strings.HasPrefix(p.value, "/") {
			errs = append(errs, fmt.Errorf("%s must be an absolute site path, got %q", p.key, p.value))
		}
	}

	if len(c.ExtensionPriority) == 0 {
		errs = append(errs, errors.New("extensionPriority must list at least one extension"))
	}
	for _, ext := range c.ExtensionPriority {
		if ext == "" || strings.ContainsAny(ext, "./") {
			errs = append(errs, fmt.Errorf("extensionPriority entry %q must be a bare extension", ext))
		}
	}

	if _, err := c.LocaleTag(); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
