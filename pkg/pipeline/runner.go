package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brushlink/pkg/cache"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no run state; multiple goroutines can share one Runner.
// Each Execute builds its own dashboard.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → interact → render.
func (r *Runner) Execute(ctx context.Context, src dataset.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	d, err := r.newDashboard(&opts)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	if err := d.Load(ctx, src); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Records = d.Dataset().Len()
	result.DatasetHash = DatasetHash(d.Dataset())

	r.Logger.Info("loaded dataset",
		"records", result.Stats.Records,
		"fields", len(d.Dataset().Fields),
		"duration", result.Stats.LoadTime)

	configHash, err := opts.configHash()
	if err != nil {
		return nil, fmt.Errorf("hash config: %w", err)
	}
	scriptHash := opts.scriptHash()
	key := func(view, format string) string {
		return r.Keyer.ArtifactKey(result.DatasetHash, opts.ArtifactKeyOpts(view, format, configHash, scriptHash))
	}

	if !opts.Refresh {
		if r.lookupAll(ctx, &opts, key, result) {
			result.CacheInfo.RenderHit = true
			r.Logger.Info("rendered outputs from cache", "artifacts", len(result.Artifacts))
			return result, nil
		}
	}

	// Stage 2: Interact
	scriptStart := time.Now()
	if err := d.ApplyAll(ctx, opts.Script); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	result.Stats.ScriptTime = time.Since(scriptStart)
	result.Stats.Events = len(opts.Script)
	result.Stats.Selected = d.Selection().Matching(d.Dataset())

	r.Logger.Info("replayed script",
		"events", result.Stats.Events,
		"selected", result.Stats.Selected,
		"duration", result.Stats.ScriptTime)

	// Stage 3: Render
	renderStart := time.Now()
	for _, name := range opts.Views {
		if err := r.renderView(ctx, d, name, &opts, key, result); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"views", opts.Views,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// lookupAll fills result from the cache and reports whether every
// artifact was found.
func (r *Runner) lookupAll(ctx context.Context, opts *Options, key func(view, format string) string, result *Result) bool {
	found := make(map[string][]byte)
	for _, v := range opts.Views {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, key(v, format))
			if err != nil || !hit {
				return false
			}
			found[ArtifactName(v, format)] = data
		}
	}
	result.Artifacts = found
	result.CacheInfo.Hits = len(found)
	return true
}

func (r *Runner) renderView(ctx context.Context, d *dashboard.Dashboard, name string, opts *Options, key func(view, format string) string, result *Result) (err error) {
	v, err := d.View(name)
	if err != nil {
		return err
	}
	frame := v.Frame()

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, name, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, name, opts.Formats, time.Since(start), err)
	}()

	ttl := opts.Config.Cache.TTL
	for _, format := range opts.Formats {
		fill := func(context.Context) ([]byte, error) { return RenderFrame(frame, format, opts) }
		var (
			data []byte
			hit  bool
		)
		if opts.Refresh {
			data, err = fill(ctx)
			if err == nil {
				_ = r.Cache.Set(ctx, key(name, format), data, ttl)
			}
		} else {
			data, hit, err = cache.Fetch(ctx, r.Cache, key(name, format), ttl, fill)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		if hit {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}
		result.Artifacts[ArtifactName(name, format)] = data
		opts.Logger.Debug("rendered artifact", "view", name, "format", format, "bytes", len(data), "cached", hit)
	}
	return nil
}

func (r *Runner) newDashboard(opts *Options) (*dashboard.Dashboard, error) {
	return dashboard.New(
		dashboard.WithClassifier(opts.Config.BuildClassifier()),
		dashboard.WithViews(opts.Config.ViewSpecs()...),
		dashboard.WithLogger(opts.Logger),
	)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// DatasetHash hashes the fields and cell values of ds in record order.
// Identities are positional, so equal hashes imply equal identities.
func DatasetHash(ds *dataset.Dataset) string {
	h := sha256.New()
	if ds == nil {
		return hex.EncodeToString(h.Sum(nil))
	}
	for _, f := range ds.Fields {
		fmt.Fprintf(h, "%q,", f)
	}
	h.Write([]byte{'\n'})
	for _, rec := range ds.Records {
		fmt.Fprintf(h, "%d", rec.ID)
		for _, v := range rec.Values() {
			fmt.Fprintf(h, ",%d:%q", v.Kind(), v.String())
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
