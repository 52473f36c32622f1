package view

import (
	"errors"
	"image/color"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brushlink/pkg/brush"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/dimension"
	"github.com/matzehuels/brushlink/pkg/encoding"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/scale"
	"github.com/matzehuels/brushlink/pkg/selection"
)

// DefaultFill colors marks when no color dimension is set.
var DefaultFill = color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}

// DefaultOpacity returns the highlight rule of each chart. Parallel
// coordinates draw many overlapping lines and use lower opacities.
func DefaultOpacity(k Kind) reconcile.Opacity {
	if k == ParallelCoordinates {
		return reconcile.Opacity{Default: 0.05, Highlighted: 0.6}
	}
	return reconcile.Opacity{Default: 0.3, Highlighted: 0.8}
}

// Option configures a View.
type Option func(*View)

// WithGeometry sets the initial container size.
func WithGeometry(g Geometry) Option { return func(v *View) { v.geom = g } }

// WithOpacity sets the highlight rule.
func WithOpacity(o reconcile.Opacity) Option { return func(v *View) { v.opacity = o } }

// WithResolver sets the scale resolver.
func WithResolver(r scale.Resolver) Option { return func(v *View) { v.resolver = r } }

// WithConfig sets the initial channel assignment.
func WithConfig(c AxisConfig) Option { return func(v *View) { v.cfg = c } }

// WithGradient names the continuous color palette.
func WithGradient(name string) Option { return func(v *View) { v.gradient = name } }

// WithSizeRange sets the radius range of the size channel.
func WithSizeRange(min, max float64) Option {
	return func(v *View) { v.sizeMin, v.sizeMax = min, max }
}

// WithHitWidth sets how far from an axis a pointer may start an axis brush.
func WithHitWidth(w float64) Option { return func(v *View) { v.hitWidth = w } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// View is a linked view. It is not safe for concurrent use.
type View struct {
	name     string
	kind     Kind
	store    *selection.Store
	unsub    func()
	logger   *log.Logger
	geom     Geometry
	cfg      AxisConfig
	opacity  reconcile.Opacity
	resolver scale.Resolver
	gradient string
	sizeMin  float64
	sizeMax  float64
	hitWidth float64

	ds     *dataset.Dataset
	schema *dimension.Schema

	x, y  *scale.Scale
	axes  []*scale.Scale
	axisX []float64
	color *encoding.ColorScale
	size  *encoding.SizeScale

	scene *reconcile.Scene
	rect  *brush.RectBrush
	axis  *brush.AxisBrush
}

// New creates a view and subscribes it to store. Call Close to unsubscribe.
func New(name string, kind Kind, store *selection.Store, opts ...Option) (*View, error) {
	if err := brerrors.ValidateViewName(name); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, brerrors.New(brerrors.ErrCodeInvalidInput, "view %s: nil store", name)
	}
	v := &View{
		name:     name,
		kind:     kind,
		store:    store,
		logger:   log.New(io.Discard),
		geom:     DefaultGeometry(kind),
		cfg:      DefaultConfig(kind),
		opacity:  DefaultOpacity(kind),
		resolver: scale.Resolver{Nice: kind == Scatterplot},
		sizeMin:  encoding.DefaultMinSize,
		sizeMax:  encoding.DefaultMaxSize,
		hitWidth: 15,
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := v.geom.Validate(); err != nil {
		return nil, err
	}
	if err := v.cfg.Validate(kind, nil); err != nil {
		return nil, err
	}
	v.logger = v.logger.With("view", name)
	v.scene = reconcile.NewScene(v.origin())
	if kind == ParallelCoordinates {
		v.axis = brush.NewAxis(name, store, v, v.inIntervals)
	} else {
		v.rect = brush.NewRect(name, store, v, v.inRect)
	}
	v.unsub = store.Subscribe(v.onChange)
	return v, nil
}

// Close unsubscribes the view from its store.
func (v *View) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

// Name returns the view name.
func (v *View) Name() string { return v.name }

// Kind returns the chart kind.
func (v *View) Kind() Kind { return v.kind }

// Config returns the channel assignment.
func (v *View) Config() AxisConfig { return v.cfg }

// Geometry returns the container size.
func (v *View) Geometry() Geometry { return v.geom }

// Dataset returns the dataset being shown.
func (v *View) Dataset() *dataset.Dataset { return v.ds }

// Scene exposes the view's marks.
func (v *View) Scene() *reconcile.Scene { return v.scene }

// BrushState returns the state of the view's brush.
func (v *View) BrushState() brush.State {
	if v.axis != nil {
		return v.axis.State()
	}
	return v.rect.State()
}

// SetDataset swaps in a new dataset. A drag in progress is cancelled and
// the brush widget dropped; the store keeps its selection.
func (v *View) SetDataset(ds *dataset.Dataset, schema *dimension.Schema) error {
	v.cancelDrag()
	v.resetBrush()
	v.ds = ds
	v.schema = schema
	if ds != nil && v.cfg.Validate(v.kind, schema) != nil {
		v.logger.Warn("config does not fit dataset, keeping dimensions that exist", "config", v.cfg.String())
	}
	v.rebuild()
	return v.reconcile()
}

// SetConfig changes the channel assignment.
func (v *View) SetConfig(cfg AxisConfig) error {
	var schema *dimension.Schema
	if v.ds != nil {
		schema = v.schema
	}
	if err := cfg.Validate(v.kind, schema); err != nil {
		return err
	}
	v.cancelDrag()
	v.resetBrush()
	v.cfg = cfg
	v.rebuild()
	return v.reconcile()
}

// Resize changes the container size.
func (v *View) Resize(width, height float64) error {
	g := v.geom
	g.Width, g.Height = width, height
	if err := g.Validate(); err != nil {
		return err
	}
	v.cancelDrag()
	v.resetBrush()
	v.geom = g
	v.scene.SetOrigin(v.origin())
	v.rebuild()
	return v.reconcile()
}

// Preview shows sel on this view only. The brush calls it while dragging.
func (v *View) Preview(sel selection.Selection) {
	v.scene.Preview(sel, v.opacity)
}

// Restyle shows sel as the committed selection.
func (v *View) Restyle(sel selection.Selection) {
	v.scene.Restyle(sel, v.opacity)
}

func (v *View) onChange(c selection.Change) {
	if c.Origin != v.name {
		v.cancelDrag()
		v.resetBrush()
	}
	v.Restyle(c.Selection)
	v.logger.Debug("selection changed", "origin", c.Origin, "size", c.Selection.Len(), "revision", c.Revision)
}

func (v *View) cancelDrag() {
	if v.BrushState() != brush.Dragging {
		return
	}
	if v.axis != nil {
		v.axis.Cancel()
	} else {
		v.rect.Cancel()
	}
}

func (v *View) resetBrush() {
	if v.axis != nil {
		v.axis.Reset()
	} else {
		v.rect.Reset()
	}
}

// origin is where entering marks start: the bottom-left plot corner.
func (v *View) origin() reconcile.Point {
	return reconcile.Point{X: v.geom.Left(), Y: v.geom.Bottom()}
}

func (v *View) dimension(name string) dimension.Dimension {
	if d, ok := v.schema.Lookup(name); ok {
		return d
	}
	return dimension.Dimension{Name: name}
}

func (v *View) has(name string) bool {
	if name == "" || v.ds == nil {
		return false
	}
	_, ok := v.schema.Lookup(name)
	return ok
}

func (v *View) rebuild() {
	v.x, v.y, v.axes, v.axisX, v.color, v.size = nil, nil, nil, nil, nil, nil
	if v.ds == nil {
		return
	}
	yRange := scale.Range{Lo: v.geom.Bottom(), Hi: v.geom.Top()}
	if v.kind == ParallelCoordinates {
		var dims []Axis
		for _, a := range v.cfg.Axes {
			if v.has(a.Dim) {
				dims = append(dims, a)
			}
		}
		v.axisX, _ = scale.Points(len(dims), scale.Range{Lo: v.geom.Left(), Hi: v.geom.Right()}, scale.DefaultPadding)
		for _, a := range dims {
			v.axes = append(v.axes, v.resolver.Resolve(v.ds, v.dimension(a.Dim), yRange, a.Invert))
		}
	} else {
		if v.has(v.cfg.X.Dim) {
			v.x = v.resolver.Resolve(v.ds, v.dimension(v.cfg.X.Dim), scale.Range{Lo: v.geom.Left(), Hi: v.geom.Right()}, v.cfg.X.Invert)
		}
		if v.has(v.cfg.Y.Dim) {
			v.y = v.resolver.Resolve(v.ds, v.dimension(v.cfg.Y.Dim), yRange, v.cfg.Y.Invert)
		}
		if v.has(v.cfg.Size) {
			v.size = encoding.ResolveSize(v.ds, v.dimension(v.cfg.Size), encoding.WithSizeRange(v.sizeMin, v.sizeMax))
		}
	}
	if v.has(v.cfg.Color) {
		v.color = encoding.ResolveColor(v.ds, v.dimension(v.cfg.Color), encoding.WithGradient(v.gradient))
	}
}

func (v *View) reconcile() error {
	if v.ds == nil {
		return nil
	}
	_, err := v.scene.Reconcile(v.ds, placer{v}, v.store.Get(), v.opacity)
	if errors.Is(err, reconcile.ErrStaleScale) {
		v.logger.Warn("rebuilding stale scales", "err", err)
		v.rebuild()
		_, err = v.scene.Reconcile(v.ds, placer{v}, v.store.Get(), v.opacity)
	}
	if err != nil {
		return err
	}
	st := v.scene.Stats()
	v.logger.Debug("reconciled", "enter", st.Entered, "update", st.Updated, "exit", st.Exited, "skipped", st.Skipped)
	return nil
}

// placer adapts a view to reconcile.Placer.
type placer struct{ v *View }

func (p placer) Generation() uint64 {
	v := p.v
	switch {
	case v.kind == ParallelCoordinates && len(v.axes) > 0:
		return v.axes[0].Generation()
	case v.kind == Scatterplot && v.x != nil:
		return v.x.Generation()
	case v.ds != nil:
		// Nothing to place with; any record is skipped.
		return v.ds.Generation
	}
	return 0
}

func (p placer) Place(r dataset.Record) (reconcile.Element, bool) {
	v := p.v
	e := reconcile.Element{Fill: DefaultFill}
	if v.color != nil {
		e.Fill = v.color.Map(r.Get(v.color.Dimension().Name))
	}
	if v.kind == ParallelCoordinates {
		if len(v.axes) == 0 {
			return e, false
		}
		e.Path = make([]reconcile.Point, len(v.axes))
		for i, s := range v.axes {
			pos, ok := s.Map(r.Get(s.Dimension().Name))
			if !ok {
				return e, false
			}
			e.Path[i] = reconcile.Point{X: v.axisX[i], Y: pos}
		}
		return e, true
	}
	if v.x == nil || v.y == nil {
		return e, false
	}
	px, okx := v.x.Map(r.Get(v.cfg.X.Dim))
	py, oky := v.y.Map(r.Get(v.cfg.Y.Dim))
	if !okx || !oky {
		return e, false
	}
	e.Center = reconcile.Point{X: px, Y: py}
	e.Radius = (v.sizeMin + v.sizeMax) / 2
	if v.size != nil {
		e.Radius = v.size.Map(r.Get(v.cfg.Size))
	}
	return e, true
}
