package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/cache"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dataset/mongosrc"
	"github.com/matzehuels/brushlink/pkg/dimension"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/selection"
	"github.com/matzehuels/brushlink/pkg/view"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	if got := cfg.Scatter.Channels.X.Dim; got != "Temperature" {
		t.Errorf("Scatter.Channels.X.Dim = %q, want %q", got, "Temperature")
	}
	if got := len(cfg.Parallel.Channels.Axes); got != 3 {
		t.Errorf("len(Parallel.Channels.Axes) = %d, want 3", got)
	}
	if got := cfg.BuildClassifier().Classify("Seasons"); got != dimension.Categorical {
		t.Errorf("Classify(Seasons) = %v, want categorical", got)
	}
}

const sampleTOML = `
[data]
path = "bikes.csv"
comma = ";"

[classifier.categorical]
Weekday = ["Mon", "Tue"]

[scatter]
width = 640
opacity = 0.5

[scatter.channels]
x = { dim = "Hour" }
y = { dim = "Humidity", invert = true }

[cache]
backend = "none"
ttl = "1h"

[server]
addr = ":9090"
session_ttl = "5m"
`

func TestDecodeTOML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleTOML), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "bikes.csv", cfg.Data.Path)
	assert.Equal(t, "Hour", cfg.Scatter.Channels.X.Dim)
	assert.True(t, cfg.Scatter.Channels.Y.Invert)
	assert.Equal(t, 640.0, cfg.Scatter.Width)
	assert.Equal(t, 500.0, cfg.Scatter.Height, "unset fields keep defaults")
	assert.Equal(t, 0.5, cfg.Scatter.Opacity)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionTTL)

	c := cfg.BuildClassifier()
	assert.Equal(t, dimension.Categorical, c.Classify("Weekday"))
	assert.Equal(t, dimension.Categorical, c.Classify("Seasons"), "default entries are kept")

	comma, err := cfg.Data.CommaRune()
	require.NoError(t, err)
	if comma != ';' {
		t.Errorf("CommaRune() = %q, want ';'", comma)
	}
}

func TestDecodeYAML(t *testing.T) {
	in := `
parallel:
  channels:
    axes:
      - dim: Hour
      - dim: Temperature
        invert: true
    color: Seasons
style:
  name: dark
  transitions: 0.5
`
	cfg, err := Decode(strings.NewReader(in), FormatYAML)
	require.NoError(t, err)
	want := []view.Axis{{Dim: "Hour"}, {Dim: "Temperature", Invert: true}}
	assert.Equal(t, want, cfg.Parallel.Channels.Axes)
	assert.Equal(t, "Seasons", cfg.Parallel.Channels.Color)
	assert.Equal(t, "dark", cfg.Style.Name)
	assert.Equal(t, 0.5, cfg.Style.Transitions)
}

func TestDecodeEmptyYAML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestDecodeEnvSubstitution(t *testing.T) {
	t.Setenv("BRUSHLINK_TEST_REDIS_PW", "s3cret")
	in := "[cache]\nbackend = \"redis\"\n[cache.redis]\npassword = \"${BRUSHLINK_TEST_REDIS_PW}\"\n"
	cfg, err := Decode(strings.NewReader(in), FormatTOML)
	require.NoError(t, err)
	if cfg.Cache.Redis.Password != "s3cret" {
		t.Errorf("Redis.Password = %q, want %q", cfg.Cache.Redis.Password, "s3cret")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		in     string
		code   brerrors.Code
	}{
		{"unknown key", FormatTOML, "[scatter]\nwdith = 3\n", brerrors.ErrCodeInvalidConfig},
		{"syntax", FormatTOML, "[scatter\n", brerrors.ErrCodeInvalidConfig},
		{"unknown yaml key", FormatYAML, "bogus: 1\n", brerrors.ErrCodeInvalidConfig},
		{"bad backend", FormatTOML, "[cache]\nbackend = \"s3\"\n", brerrors.ErrCodeInvalidConfig},
		{"bad style", FormatTOML, "[style]\nname = \"neon\"\n", brerrors.ErrCodeInvalidStyle},
		{"bad gradient", FormatTOML, "[scatter]\ngradient = \"rainbow\"\n", brerrors.ErrCodeInvalidConfig},
		{"opacity", FormatTOML, "[parallel]\nopacity = 2.0\n", brerrors.ErrCodeInvalidConfig},
		{"size", FormatTOML, "[scatter]\nwidth = 0\n", brerrors.ErrCodeInvalidConfig},
		{"duplicate axis", FormatYAML, "parallel:\n  channels:\n    axes: [{dim: Hour}, {dim: Hour}]\n", brerrors.ErrCodeInvalidConfig},
		{"comma", FormatTOML, "[data]\ncomma = \"ab\"\n", brerrors.ErrCodeInvalidConfig},
		{"mongo uri", FormatTOML, "[data.mongo]\nuri = \"http://x\"\ndatabase = \"d\"\ncollection = \"c\"\n", brerrors.ErrCodeInvalidInput},
		{"format", "ini", "", brerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in), tt.format)
			require.Error(t, err)
			if got := brerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	for _, format := range []string{FormatTOML, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			cfg := Default()
			cfg.Scatter.Channels.Color = "Seasons"
			cfg.Server.SessionTTL = 10 * time.Minute

			var buf bytes.Buffer
			require.NoError(t, cfg.Write(&buf, format))
			got, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, cfg.Scatter, got.Scatter)
			assert.Equal(t, cfg.Parallel.Channels, got.Parallel.Channels)
			assert.Equal(t, cfg.Server, got.Server)
			assert.Equal(t, cfg.Cache.TTL, got.Cache.TTL)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.toml", "c.yaml"} {
		path := filepath.Join(dir, "nested", name)
		cfg := Default()
		cfg.Style.Name = "dark"
		require.NoError(t, cfg.Save(path))

		got, err := Load(path)
		require.NoError(t, err)
		if got.Style.Name != "dark" {
			t.Errorf("%s: Style.Name = %q, want dark", name, got.Style.Name)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !brerrors.Is(err, brerrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default().Style, cfg.Style)

	require.NoError(t, os.MkdirAll(filepath.Dir(DefaultPath()), 0o755))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte("[style]\nname = \"dark\"\n"), 0o644))
	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Style.Name)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"a.toml": FormatTOML,
		"a.YML":  FormatYAML,
		"a.yaml": FormatYAML,
		"a":      FormatTOML,
	}
	for in, want := range tests {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSource(t *testing.T) {
	cfg := Default()
	_, err := cfg.Source("")
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidInput))

	cfg.Data.Path = "from-config.csv"
	cfg.Data.Comma = "tab"
	src, err := cfg.Source("")
	require.NoError(t, err)
	fs, ok := src.(dataset.FileSource)
	require.True(t, ok)
	assert.Equal(t, "from-config.csv", fs.Path)
	assert.Equal(t, '\t', fs.Comma)

	src, err = cfg.Source("override.csv")
	require.NoError(t, err)
	assert.Equal(t, "file:override.csv", src.(dataset.FileSource).String())

	cfg.Data.Path = ""
	cfg.Data.Mongo = &MongoConfig{URI: "mongodb://localhost", Database: "bikes", Collection: "seoul"}
	src, err = cfg.Source("")
	require.NoError(t, err)
	ms, ok := src.(mongosrc.Source)
	require.True(t, ok)
	assert.Equal(t, "mongodb:bikes/seoul", ms.String())
}

func TestViewSpecs(t *testing.T) {
	specs := Default().ViewSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, "scatter", specs[0].Name)
	assert.Equal(t, view.ParallelCoordinates, specs[1].Kind)

	v, err := view.New(specs[1].Name, specs[1].Kind, selection.NewStore(), specs[1].Options...)
	require.NoError(t, err)
	defer v.Close()
	assert.Equal(t, Default().Parallel.Channels, v.Config())
	assert.Equal(t, Default().Parallel.Geometry(), v.Geometry())
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = CacheNone
	c, err := cfg.OpenCache(ctx)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, c)

	cfg.Cache.Backend = CacheFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(data))
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := Default().CacheDir()
	require.NoError(t, err)
	if dir != filepath.Join("/tmp/xdg", "brushlink") {
		t.Errorf("CacheDir() = %q", dir)
	}
}
