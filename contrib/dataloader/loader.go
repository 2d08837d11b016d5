package dataloader

import (
	"context"
	"fmt"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/compiler/gen"
	ql "github.com/syssam/gqlreq/querylanguage"
	"github.com/syssam/gqlreq/schema"
)

// DefaultMaxBatch bounds the number of keys in one filter.
const DefaultMaxBatch = 100

// Page is one decoded page of a list query.
type Page[V any] struct {
	Items     []V
	NextToken string
}

// SendFunc sends a compiled list query and decodes its connection.
type SendFunc[V any] func(context.Context, *gqlreq.Request) (Page[V], error)

// Loader loads items of one model by identifier through list queries.
type Loader[K comparable, V any] struct {
	compiler *gen.Compiler
	schema   *schema.Schema
	send     SendFunc[V]
	key      KeyFunc[K, V]
	maxBatch int
	limit    int
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	maxBatch int
	limit    int
}

// WithMaxBatch sets the maximum number of keys per list query.
func WithMaxBatch(n int) LoaderOption {
	return func(o *loaderOptions) {
		if n > 0 {
			o.maxBatch = n
		}
	}
}

// WithPageLimit sets the limit argument of every page.
func WithPageLimit(n int) LoaderOption {
	return func(o *loaderOptions) {
		o.limit = n
	}
}

// NewLoader returns a loader of the model described by s.
func NewLoader[K comparable, V any](c *gen.Compiler, s *schema.Schema, send SendFunc[V], key KeyFunc[K, V], opts ...LoaderOption) *Loader[K, V] {
	o := loaderOptions{maxBatch: DefaultMaxBatch}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[K, V]{
		compiler: c,
		schema:   s,
		send:     send,
		key:      key,
		maxBatch: o.maxBatch,
		limit:    o.limit,
	}
}

// Load loads a single item.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, error) {
	values, errs := l.LoadMany(ctx, []K{key})
	return values[0], errs[0]
}

// LoadMany loads the items of keys, in order. Duplicate keys are queried
// once. When a batch fails, every key of the batch carries its error.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, []error) {
	id, err := l.idField()
	if err != nil {
		return make([]V, len(keys)), fill(len(keys), err)
	}
	items, failed := l.collect(ctx, id, keys)
	values, errs := OrderByKeys(keys, items, l.key)
	for i, k := range keys {
		if err, ok := failed[k]; ok {
			errs[i] = err
		}
	}
	return values, errs
}

// LoadGroups loads the items whose field (a relation such as "owner" or
// any scalar field) holds one of keys, grouped per key in the order of keys.
// group extracts the field value from an item.
func (l *Loader[K, V]) LoadGroups(ctx context.Context, field string, keys []K, group KeyFunc[K, V]) ([][]V, error) {
	items, failed := l.collect(ctx, field, keys)
	for _, k := range keys {
		if err, ok := failed[k]; ok {
			return nil, err
		}
	}
	return OrderGroupsByKeys(keys, GroupByKey(items, group)), nil
}

// Batch returns the loader as a BatchFunc.
func (l *Loader[K, V]) Batch() BatchFunc[K, V] {
	return l.LoadMany
}

// Request returns the first-page list query of keys.
func (l *Loader[K, V]) Request(keys []K) (*gqlreq.Request, error) {
	id, err := l.idField()
	if err != nil {
		return nil, err
	}
	return l.request(id, keys, "")
}

func (l *Loader[K, V]) idField() (string, error) {
	ids := l.schema.IDFields()
	if len(ids) != 1 {
		return "", fmt.Errorf("dataloader: %s needs exactly one identifier field, has %d", l.schema.Name(), len(ids))
	}
	return ids[0].Name, nil
}

// collect fetches the items matching keys on field, batch by batch. Keys of
// failed batches map to the batch error.
func (l *Loader[K, V]) collect(ctx context.Context, field string, keys []K) ([]V, map[K]error) {
	var items []V
	failed := make(map[K]error)
	unique := dedupe(keys)
	for start := 0; start < len(unique); start += l.maxBatch {
		batch := unique[start:min(start+l.maxBatch, len(unique))]
		got, err := l.fetch(ctx, field, batch)
		if err != nil {
			for _, k := range batch {
				failed[k] = err
			}
			continue
		}
		items = append(items, got...)
	}
	return items, failed
}

func (l *Loader[K, V]) request(field string, keys []K, token string) (*gqlreq.Request, error) {
	vs := make([]any, len(keys))
	for i, k := range keys {
		vs[i] = k
	}
	opts := []gen.BuildOption{gen.WithSchema(l.schema)}
	if l.limit > 0 {
		opts = append(opts, gen.WithLimit(l.limit))
	}
	if token != "" {
		opts = append(opts, gen.WithNextToken(token))
	}
	return l.compiler.BuildQuery(l.schema, ql.FieldIn(field, vs...), gqlreq.QueryList, opts...)
}

// fetch sends the list query of keys and follows nextToken to the last page.
func (l *Loader[K, V]) fetch(ctx context.Context, field string, keys []K) ([]V, error) {
	var (
		items []V
		token string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := l.request(field, keys, token)
		if err != nil {
			return nil, err
		}
		page, err := l.send(ctx, r)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.NextToken == "" {
			return items, nil
		}
		token = page.NextToken
	}
}

func fill(n int, err error) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = err
	}
	return errs
}

func dedupe[K comparable](keys []K) []K {
	seen := make(map[K]bool, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
