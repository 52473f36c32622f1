package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	brerrors "github.com/matzehuels/brushlink/pkg/errors"
)

// DefaultRequired lists the fields whose empty cells drop a row.
var DefaultRequired = []string{"Date"}

// Source produces a dataset.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*Dataset, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (*Dataset, error) { return f(ctx) }

// FileSource reads delimited text with a header row from Path.
type FileSource struct {
	Path string

	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// Required overrides DefaultRequired when non-nil.
	Required []string
}

// Load opens and parses the file.
func (s FileSource) Load(ctx context.Context) (*Dataset, error) {
	if err := brerrors.ValidatePath(s.Path); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, brerrors.Wrap(brerrors.ErrCodeFileNotFound, err, "open dataset %s", s.Path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	required := s.Required
	if required == nil {
		required = DefaultRequired
	}
	return ReadCSV(ctx, f, s.Comma, required...)
}

// ReadCSV parses delimited text with a header row. A leading UTF-8 byte
// order mark and surrounding header whitespace are stripped. Rows with an
// empty cell in any required field are dropped before identities are
// assigned.
func ReadCSV(ctx context.Context, r io.Reader, comma rune, required ...string) (*Dataset, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, brerrors.New(brerrors.ErrCodeInvalidFormat, "dataset has no header row")
	}
	if err != nil {
		return nil, brerrors.Wrap(brerrors.ErrCodeInvalidFormat, err, "read header")
	}

	fields := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		fields[i] = strings.TrimSpace(h)
		if err := brerrors.ValidateFieldName(fields[i]); err != nil {
			return nil, err
		}
	}

	b, err := NewBuilder(fields)
	if err != nil {
		return nil, brerrors.Wrap(brerrors.ErrCodeInvalidFormat, err, "read header")
	}
	b.Require(required...)

	for n := 0; ; n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, brerrors.Wrap(brerrors.ErrCodeInvalidFormat, err, "read row %d", n+1)
		}
		if isBlank(row) {
			continue
		}
		b.Add(row)
	}
	return b.Build(), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s FileSource) String() string { return "file:" + s.Path }
