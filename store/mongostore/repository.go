package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mongox "github.com/dmitrymomot/wirekit/pkg/mongo"
	"github.com/dmitrymomot/wirekit/store"
)

// Mapping converts between a domain value T and its stored document D.
type Mapping[T, D any] struct {
	ToDoc   func(T) D
	FromDoc func(D) T
	// ID returns the document _id for a value.
	ID func(T) string
	// Fields maps filter fields to document keys.
	Fields map[string]string
}

// Repository is a store.Repository over one collection.
type Repository[T, D any] struct {
	coll    *mongo.Collection
	mapping Mapping[T, D]
}

// New returns a repository over coll.
func New[T, D any](coll *mongo.Collection, m Mapping[T, D]) *Repository[T, D] {
	return &Repository[T, D]{coll: coll, mapping: m}
}

func (r *Repository[T, D]) Get(ctx context.Context, filter store.Filter) (T, error) {
	var zero T
	q, err := r.mapping.query(filter)
	if err != nil {
		return zero, err
	}
	var doc D
	if err := r.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		return zero, classify("get", r.coll.Name(), err)
	}
	return r.mapping.FromDoc(doc), nil
}

func (r *Repository[T, D]) Create(ctx context.Context, v T) error {
	_, err := r.coll.InsertOne(ctx, r.mapping.ToDoc(v))
	return classify("create", r.coll.Name(), err)
}

func (r *Repository[T, D]) Update(ctx context.Context, v T) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: r.mapping.ID(v)}}, r.mapping.ToDoc(v))
	if err != nil {
		return classify("update", r.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mongostore: update %s: %w", r.coll.Name(), store.ErrNotFound)
	}
	return nil
}

func (r *Repository[T, D]) Delete(ctx context.Context, v T) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: r.mapping.ID(v)}})
	if err != nil {
		return classify("delete", r.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongostore: delete %s: %w", r.coll.Name(), store.ErrNotFound)
	}
	return nil
}

// query translates filter into an equality document with keys in sorted
// field order. Values are compared in their string form.
func (m Mapping[T, D]) query(filter store.Filter) (bson.D, error) {
	allowed := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		allowed = append(allowed, k)
	}
	if err := filter.Only(allowed...); err != nil {
		return nil, err
	}
	q := make(bson.D, 0, len(filter))
	for _, field := range filter.Fields() {
		q = append(q, bson.E{Key: m.Fields[field], Value: fmt.Sprint(filter[field])})
	}
	return q, nil
}

func classify(op, coll string, err error) error {
	switch {
	case err == nil:
		return nil
	case mongox.IsNotFoundError(err):
		return fmt.Errorf("mongostore: %s %s: %w", op, coll, store.ErrNotFound)
	case mongox.IsDuplicateKeyError(err):
		return fmt.Errorf("mongostore: %s %s: %w: %w", op, coll, store.ErrConflict, err)
	default:
		return fmt.Errorf("mongostore: %s %s: %w", op, coll, err)
	}
}
