// Package config loads relq settings from an optional YAML file and
// command-line overrides, and validates the result against an embedded CUE
// schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/relq/internal/csvio"
)

//go:embed schema.cue
var schemaCUE string

// Config holds every setting a run needs.
type Config struct {
	BaseDir   string   `yaml:"base_dir" json:"base_dir,omitempty"`
	Encoding  string   `yaml:"encoding" json:"encoding,omitempty"`
	Delimiter string   `yaml:"delimiter" json:"delimiter,omitempty"`
	History   string   `yaml:"history" json:"history,omitempty"`
	LogLevel  string   `yaml:"log_level" json:"log_level,omitempty"`
	S3        S3Config `yaml:"s3" json:"s3"`
}

// S3Config configures access to s3:// tables.
type S3Config struct {
	Region    string `yaml:"region" json:"region,omitempty"`
	Endpoint  string `yaml:"endpoint" json:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key" json:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key" json:"secret_key,omitempty"`
}

// Default returns the settings used when no file or flag says otherwise.
func Default() Config {
	return Config{
		Encoding:  csvio.EncodingUTF8,
		Delimiter: ",",
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Relative base_dir and history paths in the file are taken
// relative to the file's directory. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.BaseDir = resolve(dir, cfg.BaseDir)
	cfg.History = resolve(dir, cfg.History)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Overrides are command-line values. Empty fields leave the config as is.
type Overrides struct {
	BaseDir   string
	History   string
	Encoding  string
	Delimiter string
	Verbose   bool
}

// Apply returns cfg with the overrides applied.
func (c Config) Apply(o Overrides) Config {
	if o.BaseDir != "" {
		c.BaseDir = o.BaseDir
	}
	if o.History != "" {
		c.History = o.History
	}
	if o.Encoding != "" {
		c.Encoding = o.Encoding
	}
	if o.Delimiter != "" {
		c.Delimiter = o.Delimiter
	}
	if o.Verbose {
		c.LogLevel = "debug"
	}
	return c
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := def.Unify(ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DelimiterRune returns the input field separator.
func (c Config) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// ReaderOptions returns the CSV decoding settings.
func (c Config) ReaderOptions() csvio.ReaderOptions {
	return csvio.ReaderOptions{
		Encoding:  c.Encoding,
		Delimiter: c.DelimiterRune(),
	}
}

// Sources returns the table openers. The S3 client is built on first use.
func (c Config) Sources() *csvio.Sources {
	return &csvio.Sources{
		Files: csvio.FileOpener{BaseDir: c.BaseDir},
		S3: csvio.NewLazyS3Opener(csvio.S3Config{
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		}),
	}
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
