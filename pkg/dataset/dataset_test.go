package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brerrors "github.com/matzehuels/brushlink/pkg/errors"
)

const bikeCSV = `Date,RentedBikeCount,Hour,Temperature,Seasons,Holiday
01/12/2017,254,0,-5.2,Winter,No Holiday
,204,1,-5.5,Winter,No Holiday
01/12/2017,173,2,,Winter,No Holiday
01/12/2017,107,3,-6.2,Winter,Holiday
`

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		kind ValueKind
		str  string
	}{
		{"", KindMissing, ""},
		{"   ", KindMissing, ""},
		{"12", KindNumber, "12"},
		{"-5.2", KindNumber, "-5.2"},
		{" 3.5 ", KindNumber, "3.5"},
		{"Winter", KindText, "Winter"},
		{"No Holiday", KindText, "No Holiday"},
		{"NaN", KindMissing, ""},
	}
	for _, tt := range tests {
		v := Parse(tt.raw)
		if v.Kind() != tt.kind {
			t.Errorf("Parse(%q).Kind() = %v, want %v", tt.raw, v.Kind(), tt.kind)
		}
		if v.String() != tt.str {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.raw, v.String(), tt.str)
		}
	}
}

func TestValueFloat(t *testing.T) {
	if _, ok := Text("x").Float(); ok {
		t.Error("Text.Float() ok = true, want false")
	}
	if f, ok := Number(2.5).Float(); !ok || f != 2.5 {
		t.Errorf("Number(2.5).Float() = %v, %v", f, ok)
	}
	if !Missing().Equal(Value{}) {
		t.Error("zero Value should equal Missing()")
	}
}

func TestReadCSVDropsRowsBeforeAssigningIdentities(t *testing.T) {
	ds, err := ReadCSV(context.Background(), strings.NewReader(bikeCSV), 0, "Date")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "RentedBikeCount", "Hour", "Temperature", "Seasons", "Holiday"}, ds.Fields)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []Identity{0, 1, 2}, ds.Identities())

	// The row without a date is gone, so identity 1 is the third CSV row.
	r, ok := ds.Lookup(1)
	require.True(t, ok)
	count, _ := r.Get("RentedBikeCount").Float()
	assert.Equal(t, 173.0, count)
	assert.True(t, r.Get("Temperature").IsMissing())

	_, ok = ds.Lookup(99)
	assert.False(t, ok)
}

func TestReadCSVWithoutRequired(t *testing.T) {
	ds, err := ReadCSV(context.Background(), strings.NewReader(bikeCSV), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
}

func TestReadCSVHeaderCleanup(t *testing.T) {
	in := "\ufeffDate ; Hour\n2017;1\n"
	ds, err := ReadCSV(context.Background(), strings.NewReader(in), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Hour"}, ds.Fields)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""), 0)
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeInvalidFormat))
}

func TestGenerationsAreUnique(t *testing.T) {
	b, err := NewBuilder([]string{"x"})
	require.NoError(t, err)
	b.Add([]string{"1"})
	d1 := b.Build()
	d2 := b.Build()
	assert.NotEqual(t, d1.Generation, d2.Generation)
	assert.Equal(t, d1.Identities(), d2.Identities())
}

func TestBuilderRejectsDuplicateFields(t *testing.T) {
	_, err := NewBuilder([]string{"a", "a"})
	assert.Error(t, err)
}

func TestBuilderRequire(t *testing.T) {
	b, _ := NewBuilder([]string{"Date", "Hour"})
	b.Require("Date", "Unknown")
	assert.False(t, b.Add([]string{"", "1"}))
	assert.True(t, b.Add([]string{"2017", ""}))
	assert.Equal(t, 1, b.Dropped())
	assert.Equal(t, 1, b.Build().Len())
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bikes.csv")
	require.NoError(t, os.WriteFile(path, []byte(bikeCSV), 0644))

	ds, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	_, err = FileSource{Path: filepath.Join(dir, "missing.csv")}.Load(context.Background())
	assert.True(t, brerrors.Is(err, brerrors.ErrCodeFileNotFound))
}

func TestReadCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader(bikeCSV), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNilDataset(t *testing.T) {
	var d *Dataset
	assert.Equal(t, 0, d.Len())
	assert.False(t, d.HasField("x"))
	assert.Nil(t, d.Column("x"))
}
