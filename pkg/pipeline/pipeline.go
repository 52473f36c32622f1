// Package pipeline runs brushlink non-interactively.
//
// A run loads a dataset, replays an interaction script against a dashboard
// and renders the requested views. The CLI render command and the HTTP
// server share this package, so both produce identical artifacts for the
// same inputs.
//
// # Stages
//
//  1. Load: read the dataset from a [dataset.Source]
//  2. Interact: apply [dashboard.Event] values in order
//  3. Render: write every view in each requested format
//
// Rendered artifacts are cached by dataset content, configuration, script
// and format. When every requested artifact is cached the script is not
// replayed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts[pipeline.ArtifactName("scatter", "svg")]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brushlink/pkg/cache"
	"github.com/matzehuels/brushlink/pkg/config"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/render/styles"
)

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures a pipeline run. It supports JSON serialization for
// API requests.
type Options struct {
	// Config holds the classifier and view settings. Nil means
	// config.Default().
	Config *config.Config `json:"config,omitempty"`

	// Views restricts rendering to the named views. Empty renders all.
	Views []string `json:"views,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Title   string   `json:"title,omitempty"`
	Indent  bool     `json:"indent,omitempty"`

	// Refresh skips cache reads. Results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Script is replayed before rendering.
	Script []dashboard.Event `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DatasetHash is the content hash of the loaded dataset.
	DatasetHash string

	// Artifacts are keyed by ArtifactName(view, format).
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Events     int
	Selected   int
	LoadTime   time.Duration
	ScriptTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	// RenderHit is true when every artifact came from the cache and the
	// script was not replayed.
	RenderHit bool
	Hits      int
	Misses    int
}

// ArtifactName is the Result.Artifacts key and default file name of a
// view rendered in format.
func ArtifactName(view, format string) string {
	return view + "." + format
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return brerrors.New(brerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == nil {
		cfg := config.Default()
		o.Config = &cfg
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = o.Config.Style.Name
	}
	if _, err := styles.ByName(o.Style); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return brerrors.New(brerrors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}

	var known []string
	for _, spec := range o.Config.ViewSpecs() {
		known = append(known, spec.Name)
	}
	if len(o.Views) == 0 {
		o.Views = known
	}
	for _, v := range o.Views {
		if !slices.Contains(known, v) {
			return brerrors.New(brerrors.ErrCodeInvalidView, "unknown view %q (must be one of: %s)", v, strings.Join(known, ", "))
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered view. The
// config and script hashes are computed once per run.
func (o *Options) ArtifactKeyOpts(view, format, configHash, scriptHash string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		View:       view,
		Format:     format,
		Style:      o.Style,
		ConfigHash: configHash,
		ScriptHash: scriptHash,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// configHash covers the settings that change a rendering.
func (o *Options) configHash() (string, error) {
	c := o.Config
	return cache.HashValue(struct {
		Categorical map[string][]string `json:"categorical"`
		Scatter     config.ViewConfig   `json:"scatter"`
		Parallel    config.ViewConfig   `json:"parallel"`
		Transitions float64             `json:"transitions"`
		Title       string              `json:"title"`
		Indent      bool                `json:"indent"`
	}{c.Classifier.Categorical, c.Scatter, c.Parallel, c.Style.Transitions, o.Title, o.Indent})
}

// scriptHash covers the script in its canonical text form.
func (o *Options) scriptHash() string {
	if len(o.Script) == 0 {
		return ""
	}
	lines := make([]string, len(o.Script))
	for i, ev := range o.Script {
		lines[i] = dashboard.FormatEvent(ev)
	}
	return cache.Hash([]byte(strings.Join(lines, "\n")))
}

func (o *Options) String() string {
	return fmt.Sprintf("views=%v formats=%v style=%s events=%d", o.Views, o.Formats, o.Style, len(o.Script))
}
