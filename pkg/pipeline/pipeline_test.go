package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/cache"
	"github.com/matzehuels/brushlink/pkg/config"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/observability"
	"github.com/matzehuels/brushlink/pkg/render/sink"
)

const bikeCSV = `Date,RentedBikeCount,Hour,Temperature,Humidity,WindSpeed,Visibility,SolarRadiation,Rainfall,Seasons,Holiday,FunctioningDay
01/12/2017,254,0,-5.2,37,2.2,2000,0,0,Winter,No Holiday,Yes
01/12/2017,204,1,-5.5,38,0.8,2000,0,0,Winter,No Holiday,Yes
,173,2,-6,39,1,2000,0,0,Winter,No Holiday,Yes
02/06/2018,1500,12,24.1,40,1.5,1800,2.5,0,Summer,No Holiday,Yes
03/06/2018,1800,18,28.3,50,2.1,1500,1.1,0,Summer,Holiday,Yes
04/09/2018,900,9,18.0,60,1.0,1000,0.8,0,Autumn,No Holiday,No
`

func csvSource(text string) dataset.Source {
	return dataset.SourceFunc(func(ctx context.Context) (*dataset.Dataset, error) {
		return dataset.ReadCSV(ctx, strings.NewReader(text), ',', dataset.DefaultRequired...)
	})
}

func script(t *testing.T, text string) []dashboard.Event {
	t.Helper()
	evs, err := dashboard.ParseScript(strings.NewReader(text))
	require.NoError(t, err)
	return evs
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	require.NoError(t, o.ValidateAndSetDefaults())

	assert.Equal(t, []string{FormatSVG}, o.Formats)
	assert.Equal(t, "simple", o.Style)
	assert.Equal(t, DefaultScale, o.Scale)
	assert.Equal(t, []string{"scatter", "parallel"}, o.Views)
	assert.NotNil(t, o.Config)
	assert.NotNil(t, o.Logger)

	// Idempotent.
	o.Formats = nil
	require.NoError(t, o.ValidateAndSetDefaults())
	assert.Nil(t, o.Formats)
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	bad := config.Default()
	bad.Scatter.Width = -1

	tests := []struct {
		name string
		opts Options
		code brerrors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, brerrors.ErrCodeInvalidFormat},
		{"style", Options{Style: "neon"}, brerrors.ErrCodeInvalidStyle},
		{"view", Options{Views: []string{"map"}}, brerrors.ErrCodeInvalidView},
		{"scale", Options{Scale: -2}, brerrors.ErrCodeInvalidInput},
		{"config", Options{Config: &bad}, brerrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := brerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), csvSource(bikeCSV), Options{
		Formats: []string{FormatSVG, FormatJSON},
		Script:  script(t, "range parallel Temperature 15 25\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Stats.Records)
	assert.Equal(t, 1, res.Stats.Events)
	assert.Equal(t, 2, res.Stats.Selected)
	assert.Len(t, res.Artifacts, 4)
	assert.False(t, res.CacheInfo.RenderHit)

	svg := string(res.Artifacts[ArtifactName("scatter", FormatSVG)])
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "2 of 5 selected")

	doc, err := sink.ReadJSON(res.Artifacts[ArtifactName("parallel", FormatJSON)])
	require.NoError(t, err)
	assert.Equal(t, "parallel", doc.View)
	assert.Equal(t, 2, doc.Selected)
}

func TestExecuteCaches(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := func() Options {
		return Options{
			Views:   []string{"scatter"},
			Formats: []string{FormatJSON},
			Script:  script(t, "range parallel Temperature 15 25\n"),
		}
	}

	first, err := r.Execute(ctx, csvSource(bikeCSV), opts())
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.RenderHit)
	assert.Equal(t, 1, first.CacheInfo.Misses)

	second, err := r.Execute(ctx, csvSource(bikeCSV), opts())
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, 0, second.Stats.Events, "script is skipped on a full hit")
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, first.DatasetHash, second.DatasetHash)

	// A different script is a different artifact.
	o := opts()
	o.Script = script(t, "clear\n")
	third, err := r.Execute(ctx, csvSource(bikeCSV), o)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.RenderHit)
	assert.NotEqual(t, first.Artifacts, third.Artifacts)

	// Refresh re-renders.
	o = opts()
	o.Refresh = true
	fourth, err := r.Execute(ctx, csvSource(bikeCSV), o)
	require.NoError(t, err)
	assert.False(t, fourth.CacheInfo.RenderHit)
	assert.Equal(t, 1, fourth.Stats.Events)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, csvSource(bikeCSV), Options{Formats: []string{"gif"}})
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidFormat))

	_, err = r.Execute(ctx, dataset.FileSource{Path: "/does/not/exist.csv"}, Options{})
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeFileNotFound))

	_, err = r.Execute(ctx, csvSource(bikeCSV), Options{Script: script(t, "clear nowhere\n")})
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidEvent))
}

type renderHooks struct {
	observability.NoopPipelineHooks
	mu    sync.Mutex
	views []string
	errs  []error
}

func (h *renderHooks) OnRenderComplete(_ context.Context, view string, _ []string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.views = append(h.views, view)
	h.errs = append(h.errs, err)
}

func TestExecuteRenderHooks(t *testing.T) {
	hooks := &renderHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), csvSource(bikeCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"scatter", "parallel"}, hooks.views)
	assert.Equal(t, []error{nil, nil}, hooks.errs)
}

func TestDatasetHash(t *testing.T) {
	ctx := context.Background()
	a, err := csvSource(bikeCSV).Load(ctx)
	require.NoError(t, err)
	b, err := csvSource(bikeCSV).Load(ctx)
	require.NoError(t, err)
	c, err := csvSource(strings.Replace(bikeCSV, "24.1", "24.2", 1)).Load(ctx)
	require.NoError(t, err)

	if DatasetHash(a) != DatasetHash(b) {
		t.Error("DatasetHash differs for equal datasets")
	}
	if DatasetHash(a) == DatasetHash(c) {
		t.Error("DatasetHash equal for different datasets")
	}
}
