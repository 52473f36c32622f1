// Package mongosrc loads a dataset from a MongoDB collection.
//
// Each document becomes one record. The field list is taken from Fields when
// set, otherwise from the keys of the first document in their stored order
// ("_id" is skipped). Identities are assigned in cursor order after rows with
// empty required fields have been dropped, exactly as for CSV files.
package mongosrc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/brushlink/pkg/dataset"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
)

// Source reads every document of a collection.
type Source struct {
	URI        string
	Database   string
	Collection string

	// Fields restricts and orders the loaded fields.
	Fields []string

	// Required overrides dataset.DefaultRequired when non-nil.
	Required []string

	// Filter is passed to Find. Nil matches every document.
	Filter bson.D

	// Timeout bounds connect and read. Zero means 30 seconds.
	Timeout time.Duration
}

// Load connects, reads the collection and disconnects.
func (s Source) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := brerrors.ValidateURI(s.URI); err != nil {
		return nil, err
	}
	if s.Database == "" || s.Collection == "" {
		return nil, brerrors.New(brerrors.ErrCodeInvalidInput, "database and collection are required")
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	filter := s.Filter
	if filter == nil {
		filter = bson.D{}
	}
	coll := client.Database(s.Database).Collection(s.Collection)
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", s.Database, s.Collection, err)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s.%s: %w", s.Database, s.Collection, err)
	}

	required := s.Required
	if required == nil {
		required = dataset.DefaultRequired
	}
	return FromDocuments(docs, s.Fields, required...)
}

func (s Source) String() string { return "mongodb:" + s.Database + "/" + s.Collection }

// FromDocuments builds a dataset from decoded documents.
func FromDocuments(docs []bson.D, fields []string, required ...string) (*dataset.Dataset, error) {
	if fields == nil {
		fields = fieldsOf(docs)
	}
	b, err := dataset.NewBuilder(fields)
	if err != nil {
		return nil, brerrors.Wrap(brerrors.ErrCodeInvalidFormat, err, "collection fields")
	}
	b.Require(required...)

	pos := make(map[string]int, len(fields))
	for i, f := range fields {
		pos[f] = i
	}
	for _, doc := range docs {
		row := make([]dataset.Value, len(fields))
		for _, e := range doc {
			if i, ok := pos[e.Key]; ok {
				row[i] = toValue(e.Value)
			}
		}
		b.AddValues(row)
	}
	return b.Build(), nil
}

func fieldsOf(docs []bson.D) []string {
	if len(docs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(docs[0]))
	for _, e := range docs[0] {
		if e.Key == "_id" {
			continue
		}
		fields = append(fields, e.Key)
	}
	return fields
}

func toValue(v any) dataset.Value {
	switch x := v.(type) {
	case nil:
		return dataset.Missing()
	case float64:
		return dataset.Number(x)
	case float32:
		return dataset.Number(float64(x))
	case int32:
		return dataset.Number(float64(x))
	case int64:
		return dataset.Number(float64(x))
	case int:
		return dataset.Number(float64(x))
	case bool:
		return dataset.Text(strconv.FormatBool(x))
	case string:
		return dataset.Parse(x)
	case primitive.DateTime:
		return dataset.Text(x.Time().UTC().Format("2006-01-02"))
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return dataset.Missing()
		}
		return dataset.Number(f)
	default:
		return dataset.Text(fmt.Sprint(x))
	}
}
