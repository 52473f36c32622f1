package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/observability"
	"github.com/matzehuels/brushlink/pkg/selection"
	"github.com/matzehuels/brushlink/pkg/view"
)

// HostOrigin is the store origin of commits made by the host rather than a
// view's brush.
const HostOrigin = "host"

// ViewSpec describes one view of a dashboard.
type ViewSpec struct {
	Name    string
	Kind    view.Kind
	Options []view.Option
}

// DefaultViews returns the scatterplot and parallel-coordinates pair.
func DefaultViews() []ViewSpec {
	return []ViewSpec{
		{Name: "scatter", Kind: view.Scatterplot},
		{Name: "parallel", Kind: view.ParallelCoordinates},
	}
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithClassifier sets the classifier used to build schemas.
func WithClassifier(c *dimension.Classifier) Option {
	return func(d *Dashboard) {
		if c != nil {
			d.classifier = c
		}
	}
}

// WithViews replaces the default views.
func WithViews(specs ...ViewSpec) Option {
	return func(d *Dashboard) { d.specs = specs }
}

// WithLogger sets the logger. Views inherit it.
func WithLogger(l *log.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// Dashboard coordinates linked views over one dataset.
type Dashboard struct {
	store      *selection.Store
	classifier *dimension.Classifier
	logger     *log.Logger
	specs      []ViewSpec
	views      []*view.View
	byName     map[string]*view.View

	ds     *dataset.Dataset
	schema *dimension.Schema
}

// New builds a dashboard and its views.
func New(opts ...Option) (*Dashboard, error) {
	d := &Dashboard{
		store:      selection.NewStore(),
		classifier: dimension.DefaultClassifier(),
		logger:     log.New(io.Discard),
		specs:      DefaultViews(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.specs) == 0 {
		return nil, brerrors.New(brerrors.ErrCodeInvalidConfig, "dashboard needs at least one view")
	}

	d.byName = make(map[string]*view.View, len(d.specs))
	for _, s := range d.specs {
		if _, dup := d.byName[s.Name]; dup {
			d.Close()
			return nil, brerrors.New(brerrors.ErrCodeInvalidView, "view %q defined twice", s.Name)
		}
		vopts := append([]view.Option{view.WithLogger(d.logger)}, s.Options...)
		v, err := view.New(s.Name, s.Kind, d.store, vopts...)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("view %s: %w", s.Name, err)
		}
		d.views = append(d.views, v)
		d.byName[s.Name] = v
	}
	return d, nil
}

// Close detaches every view from the store.
func (d *Dashboard) Close() {
	for _, v := range d.views {
		v.Close()
	}
}

// Store returns the shared selection store.
func (d *Dashboard) Store() *selection.Store { return d.store }

// Classifier returns the dimension classifier.
func (d *Dashboard) Classifier() *dimension.Classifier { return d.classifier }

// Dataset returns the current dataset, nil before the first load.
func (d *Dashboard) Dataset() *dataset.Dataset { return d.ds }

// Schema returns the schema of the current dataset.
func (d *Dashboard) Schema() *dimension.Schema { return d.schema }

// Selection returns the committed selection.
func (d *Dashboard) Selection() selection.Selection { return d.store.Get() }

// Views returns the views in definition order.
func (d *Dashboard) Views() []*view.View { return d.views }

// View returns the named view.
func (d *Dashboard) View(name string) (*view.View, error) {
	v, ok := d.byName[name]
	if !ok {
		return nil, brerrors.New(brerrors.ErrCodeNotFound, "no view named %q", name)
	}
	return v, nil
}

// Frames snapshots every view.
func (d *Dashboard) Frames() []view.Frame {
	out := make([]view.Frame, len(d.views))
	for i, v := range d.views {
		out[i] = v.Frame()
	}
	return out
}

// Load reads a dataset from src and shows it in every view.
func (d *Dashboard) Load(ctx context.Context, src dataset.Source) error {
	name := sourceName(src)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	ds, err := src.Load(ctx)
	n := 0
	if ds != nil {
		n = ds.Len()
	}
	hooks.OnLoadComplete(ctx, name, n, time.Since(start), err)
	if err != nil {
		return err
	}
	d.logger.Info("dataset loaded", "source", name, "records", n, "fields", len(ds.Fields))
	return d.SetDataset(ds)
}

// SetDataset shows ds in every view. The committed selection is kept.
func (d *Dashboard) SetDataset(ds *dataset.Dataset) error {
	if ds == nil {
		return brerrors.New(brerrors.ErrCodeInvalidInput, "nil dataset")
	}
	schema := d.classifier.Schema(ds.Fields)
	d.ds, d.schema = ds, schema
	for _, v := range d.views {
		if err := v.SetDataset(ds, schema); err != nil {
			return fmt.Errorf("view %s: %w", v.Name(), err)
		}
	}
	return nil
}

// Apply dispatches one event.
func (d *Dashboard) Apply(ev Event) error {
	if c, ok := ev.(ClearEvent); ok && c.View == "" {
		d.store.Commit(HostOrigin, selection.Empty())
		return nil
	}
	v, err := d.View(ev.Target())
	if err != nil {
		return brerrors.Wrap(brerrors.ErrCodeInvalidEvent, err, "%T", ev)
	}
	d.logger.Debug("event", "view", v.Name(), "type", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case PointerEvent:
		switch e.Action {
		case PointerDown:
			v.PointerDown(e.Point)
		case PointerMove:
			v.PointerMove(e.Point)
		case PointerUp:
			v.PointerUp(e.Point)
		case PointerLeave:
			v.PointerLeave()
		default:
			return brerrors.New(brerrors.ErrCodeInvalidEvent, "unknown pointer action %d", e.Action)
		}
	case DragEvent:
		if !v.PointerDown(e.From) {
			return brerrors.New(brerrors.ErrCodeInvalidEvent, "drag on %s starts outside the plot at %v", v.Name(), e.From)
		}
		v.PointerMove(e.To)
		v.PointerUp(e.To)
	case AxisEvent:
		return d.brushAxis(v, e)
	case ConfigEvent:
		cfg := v.Config()
		if e.Config != nil {
			cfg = *e.Config
		}
		cfg.Axes = append([]view.Axis(nil), cfg.Axes...)
		for _, kv := range e.Set {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return brerrors.New(brerrors.ErrCodeInvalidEvent, "config change %q is not key=value", kv)
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
		}
		return v.SetConfig(cfg)
	case ResizeEvent:
		return v.Resize(e.Width, e.Height)
	case ClearEvent:
		if e.Axis != "" {
			v.ClearAxisBrush(e.Axis)
		} else {
			v.ClearBrush()
		}
	default:
		return brerrors.New(brerrors.ErrCodeInvalidEvent, "unsupported event %T", ev)
	}
	return nil
}

// ApplyAll dispatches events in order, stopping at the first error or when
// ctx is done.
func (d *Dashboard) ApplyAll(ctx context.Context, events []Event) error {
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Apply(ev); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

func (d *Dashboard) brushAxis(v *view.View, e AxisEvent) error {
	if v.Kind() != view.ParallelCoordinates {
		return brerrors.New(brerrors.ErrCodeInvalidEvent, "view %s has no axes to brush", v.Name())
	}
	x, ok := v.AxisPosition(e.Dim)
	if !ok {
		return brerrors.New(brerrors.ErrCodeInvalidDimension, "view %s has no axis %q", v.Name(), e.Dim)
	}
	from, to := e.From, e.To
	if e.Data {
		var okFrom, okTo bool
		from, okFrom = v.Position(e.Dim, dataset.Number(e.From))
		to, okTo = v.Position(e.Dim, dataset.Number(e.To))
		if !okFrom || !okTo {
			return brerrors.New(brerrors.ErrCodeInvalidEvent, "axis %s cannot place %g..%g", e.Dim, e.From, e.To)
		}
	}
	g := v.Geometry()
	from = min(max(from, g.Top()), g.Bottom())
	to = min(max(to, g.Top()), g.Bottom())
	if !v.PointerDown(view.Point{X: x, Y: from}) {
		return brerrors.New(brerrors.ErrCodeInvalidEvent, "axis brush on %s starts outside the plot", e.Dim)
	}
	v.PointerMove(view.Point{X: x, Y: to})
	v.PointerUp(view.Point{X: x, Y: to})
	return nil
}

func sourceName(src dataset.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
