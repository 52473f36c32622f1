package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dataset/mongosrc"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/view"
)

// Formats accepted by Decode and Write.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

const appName = "brushlink"

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the file at path. The format follows the extension; anything
// other than .yaml and .yml is read as TOML.
func Load(path string) (Config, error) {
	if err := brerrors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, brerrors.Wrap(brerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data), FormatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FormatOf returns the format implied by a file name.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode reads a configuration on top of Default and validates it.
func Decode(r io.Reader, format string) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	expanded := envPattern.ReplaceAllStringFunc(string(raw), func(m string) string {
		return os.Getenv(envPattern.FindStringSubmatch(m)[1])
	})

	cfg := Default()
	switch format {
	case FormatTOML:
		md, err := toml.Decode(expanded, &cfg)
		if err != nil {
			return Config{}, brerrors.Wrap(brerrors.ErrCodeInvalidConfig, err, "parse toml")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Config{}, brerrors.New(brerrors.ErrCodeInvalidConfig, "unknown key %q", undec[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(strings.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, brerrors.Wrap(brerrors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return Config{}, brerrors.New(brerrors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg in the given format.
func (c Config) Write(w io.Writer, format string) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return brerrors.New(brerrors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
}

// Save writes cfg to path, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Write(&buf, FormatOf(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// DefaultPath is $XDG_CONFIG_HOME/brushlink/config.toml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", appName+".toml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml")
}

// LoadOrDefault loads path, or DefaultPath when path is empty. A missing
// default file yields Default.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultPath())
	if brerrors.Is(err, brerrors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// ViewSpecs returns the dashboard views.
func (c Config) ViewSpecs() []dashboard.ViewSpec {
	return []dashboard.ViewSpec{
		{Name: "scatter", Kind: view.Scatterplot, Options: c.Scatter.Options()},
		{Name: "parallel", Kind: view.ParallelCoordinates, Options: c.Parallel.Options()},
	}
}

// Source returns the configured dataset source. path overrides Data.Path
// and Data.Mongo when set.
func (c Config) Source(path string) (dataset.Source, error) {
	comma, err := c.Data.CommaRune()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = c.Data.Path
	}
	if path == "" && c.Data.Mongo != nil {
		m := c.Data.Mongo
		return mongosrc.Source{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
			Fields:     m.Fields,
			Required:   c.Data.Required,
			Timeout:    m.Timeout,
		}, nil
	}
	if path == "" {
		return nil, brerrors.New(brerrors.ErrCodeInvalidInput, "no dataset: pass a file or set data.path")
	}
	return dataset.FileSource{Path: path, Comma: comma, Required: c.Data.Required}, nil
}
