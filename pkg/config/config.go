// Package config reads brushlink's configuration file.
//
// The file may be TOML (the default, .toml) or YAML (.yaml, .yml). Values of
// the form ${NAME} are replaced by environment variables before decoding, so
// secrets such as a Redis password can stay out of the file:
//
//	[classifier.categorical]
//	Seasons = ["Spring", "Summer", "Autumn", "Winter"]
//	Date = []
//
//	[scatter.channels]
//	color = "Seasons"
//	x = { dim = "Hour" }
//	y = { dim = "RentedBikeCount" }
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//	password = "${REDIS_PASSWORD}"
//
// Fields left out keep the values of [Default].
package config

import (
	"fmt"
	"time"

	"github.com/matzehuels/brushlink/pkg/dimension"
	"github.com/matzehuels/brushlink/pkg/encoding"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/render/styles"
	"github.com/matzehuels/brushlink/pkg/view"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Data       DataConfig       `toml:"data" yaml:"data" json:"data"`
	Classifier ClassifierConfig `toml:"classifier" yaml:"classifier" json:"classifier"`
	Scatter    ViewConfig       `toml:"scatter" yaml:"scatter" json:"scatter"`
	Parallel   ViewConfig       `toml:"parallel" yaml:"parallel" json:"parallel"`
	Style      StyleConfig      `toml:"style" yaml:"style" json:"style"`
	Cache      CacheConfig      `toml:"cache" yaml:"cache" json:"cache"`
	Server     ServerConfig     `toml:"server" yaml:"server" json:"server"`
}

// DataConfig describes where the dataset comes from. Path and Mongo are
// alternatives; a path given on the command line wins over both.
type DataConfig struct {
	Path     string       `toml:"path,omitempty" yaml:"path,omitempty" json:"path,omitempty"`
	Comma    string       `toml:"comma,omitempty" yaml:"comma,omitempty" json:"comma,omitempty"`
	Required []string     `toml:"required" yaml:"required" json:"required"`
	Mongo    *MongoConfig `toml:"mongo,omitempty" yaml:"mongo,omitempty" json:"mongo,omitempty"`
}

// MongoConfig selects a MongoDB collection as the dataset.
type MongoConfig struct {
	URI        string        `toml:"uri" yaml:"uri" json:"uri"`
	Database   string        `toml:"database" yaml:"database" json:"database"`
	Collection string        `toml:"collection" yaml:"collection" json:"collection"`
	Fields     []string      `toml:"fields,omitempty" yaml:"fields,omitempty" json:"fields,omitempty"`
	Timeout    time.Duration `toml:"timeout,omitempty" yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ClassifierConfig lists the categorical fields. An empty list means
// lexicographic order; otherwise the list is the order.
type ClassifierConfig struct {
	Categorical map[string][]string `toml:"categorical" yaml:"categorical" json:"categorical"`
}

// ViewConfig configures one view.
type ViewConfig struct {
	Channels         view.AxisConfig `toml:"channels" yaml:"channels" json:"channels"`
	Width            float64         `toml:"width" yaml:"width" json:"width"`
	Height           float64         `toml:"height" yaml:"height" json:"height"`
	Margins          view.Margins    `toml:"margins" yaml:"margins" json:"margins"`
	Gradient         string          `toml:"gradient,omitempty" yaml:"gradient,omitempty" json:"gradient,omitempty"`
	Opacity          float64         `toml:"opacity" yaml:"opacity" json:"opacity"`
	HighlightOpacity float64         `toml:"highlight_opacity" yaml:"highlight_opacity" json:"highlight_opacity"`
	SizeMin          float64         `toml:"size_min,omitempty" yaml:"size_min,omitempty" json:"size_min,omitempty"`
	SizeMax          float64         `toml:"size_max,omitempty" yaml:"size_max,omitempty" json:"size_max,omitempty"`
}

// StyleConfig selects the SVG look.
type StyleConfig struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	// Transitions is the animation length in seconds; 0 disables it.
	Transitions float64 `toml:"transitions" yaml:"transitions" json:"transitions"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend string        `toml:"backend" yaml:"backend" json:"backend"`
	Dir     string        `toml:"dir,omitempty" yaml:"dir,omitempty" json:"dir,omitempty"`
	TTL     time.Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
	Redis   RedisConfig   `toml:"redis" yaml:"redis" json:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr" json:"addr"`
	Password string `toml:"password,omitempty" yaml:"password,omitempty" json:"-"`
	DB       int    `toml:"db" yaml:"db" json:"db"`
	Prefix   string `toml:"prefix,omitempty" yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// ServerConfig configures `brushlink serve`.
type ServerConfig struct {
	Addr        string        `toml:"addr" yaml:"addr" json:"addr"`
	SessionTTL  time.Duration `toml:"session_ttl" yaml:"session_ttl" json:"session_ttl"`
	MaxSessions int           `toml:"max_sessions" yaml:"max_sessions" json:"max_sessions"`
}

// Default returns the configuration for the Seoul bike dataset.
func Default() Config {
	categorical := dimension.DefaultClassifier().Categorical()
	for name, seq := range categorical {
		if seq == nil {
			categorical[name] = []string{}
		}
	}
	return Config{
		Data:       DataConfig{Required: []string{"Date"}},
		Classifier: ClassifierConfig{Categorical: categorical},
		Scatter:    defaultView(view.Scatterplot),
		Parallel:   defaultView(view.ParallelCoordinates),
		Style:      StyleConfig{Name: "simple"},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServerConfig{
			Addr:        ":8080",
			SessionTTL:  30 * time.Minute,
			MaxSessions: 1000,
		},
	}
}

func defaultView(k view.Kind) ViewConfig {
	g := view.DefaultGeometry(k)
	op := view.DefaultOpacity(k)
	vc := ViewConfig{
		Channels:         view.DefaultConfig(k),
		Width:            g.Width,
		Height:           g.Height,
		Margins:          g.Margins,
		Opacity:          op.Default,
		HighlightOpacity: op.Highlighted,
	}
	if k == view.Scatterplot {
		vc.Gradient = "turbo"
		vc.SizeMin, vc.SizeMax = encoding.DefaultMinSize, encoding.DefaultMaxSize
	} else {
		vc.Gradient = "plasma"
	}
	return vc
}

// Validate checks values that do not depend on a dataset.
func (c Config) Validate() error {
	if err := c.Scatter.validate(view.Scatterplot); err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	if err := c.Parallel.validate(view.ParallelCoordinates); err != nil {
		return fmt.Errorf("parallel: %w", err)
	}
	if _, err := styles.ByName(c.Style.Name); err != nil {
		return err
	}
	if c.Style.Transitions < 0 {
		return brerrors.New(brerrors.ErrCodeInvalidConfig, "style.transitions must not be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone, "":
	default:
		return brerrors.New(brerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.Data.CommaRune(); err != nil {
		return err
	}
	if m := c.Data.Mongo; m != nil {
		if err := brerrors.ValidateURI(m.URI); err != nil {
			return err
		}
		if m.Database == "" || m.Collection == "" {
			return brerrors.New(brerrors.ErrCodeInvalidConfig, "data.mongo needs database and collection")
		}
	}
	for name := range c.Classifier.Categorical {
		if err := brerrors.ValidateFieldName(name); err != nil {
			return err
		}
	}
	if c.Server.MaxSessions < 0 {
		return brerrors.New(brerrors.ErrCodeInvalidConfig, "server.max_sessions must not be negative")
	}
	return nil
}

func (vc ViewConfig) validate(k view.Kind) error {
	if err := vc.Channels.Validate(k, nil); err != nil {
		return err
	}
	if err := vc.Geometry().Validate(); err != nil {
		return err
	}
	for _, o := range []float64{vc.Opacity, vc.HighlightOpacity} {
		if o < 0 || o > 1 {
			return brerrors.New(brerrors.ErrCodeInvalidConfig, "opacity %g outside [0, 1]", o)
		}
	}
	if vc.Gradient != "" {
		if _, ok := encoding.Gradient(vc.Gradient); !ok {
			return brerrors.New(brerrors.ErrCodeInvalidConfig, "unknown gradient %q", vc.Gradient)
		}
	}
	return nil
}

// Geometry returns the configured container size.
func (vc ViewConfig) Geometry() view.Geometry {
	return view.Geometry{Width: vc.Width, Height: vc.Height, Margins: vc.Margins}
}

// Options turns the view config into view options.
func (vc ViewConfig) Options() []view.Option {
	opts := []view.Option{
		view.WithConfig(vc.Channels),
		view.WithGeometry(vc.Geometry()),
		view.WithOpacity(reconcile.Opacity{Default: vc.Opacity, Highlighted: vc.HighlightOpacity}),
		view.WithGradient(vc.Gradient),
	}
	if vc.SizeMin > 0 || vc.SizeMax > 0 {
		opts = append(opts, view.WithSizeRange(vc.SizeMin, vc.SizeMax))
	}
	return opts
}

// CommaRune returns the field delimiter; empty means ','. "\t" and "tab"
// select a tab.
func (d DataConfig) CommaRune() (rune, error) {
	switch d.Comma {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(d.Comma)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, brerrors.New(brerrors.ErrCodeInvalidConfig, "invalid data.comma %q", d.Comma)
	}
	return r[0], nil
}

// BuildClassifier builds the dimension classifier.
func (c Config) BuildClassifier() *dimension.Classifier {
	if c.Classifier.Categorical == nil {
		return dimension.DefaultClassifier()
	}
	return dimension.NewClassifier(c.Classifier.Categorical)
}
