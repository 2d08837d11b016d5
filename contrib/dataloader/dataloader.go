// Package dataloader batches identifier lookups of one model into list
// queries, for resolvers that would otherwise send one get query per item.
//
// A Loader compiles a list query filtered by "id in (...)", pages through it
// with nextToken, and returns the items in the order of the requested keys:
//
//	users := dataloader.NewLoader(compiler, userSchema,
//	    func(ctx context.Context, r *gqlreq.Request) (dataloader.Page[*User], error) {
//	        return sendAndDecode[*User](ctx, r)
//	    },
//	    func(u *User) string { return u.ID },
//	)
//	list, errs := users.LoadMany(ctx, []string{"u1", "u2"})
//
// LoadGroups does the same for the other side of a relation, e.g. the todos
// of several owners. Loader.Batch plugs into batching libraries such as
// github.com/graph-gophers/dataloader.
package dataloader

import (
	"context"
	"errors"
)

// ErrNotFound is returned for a key whose item is not in the batch result.
var ErrNotFound = errors.New("dataloader: item not found")

// KeyFunc extracts a key from an item.
type KeyFunc[K comparable, V any] func(V) K

// BatchFunc loads a batch of items by their keys. Both returned slices
// have the length of keys.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, []error)

// OrderByKeys aligns items with keys. A key without an item gets the zero
// value and ErrNotFound. When several items share a key, the last one wins.
func OrderByKeys[K comparable, V any](keys []K, items []V, key KeyFunc[K, V]) ([]V, []error) {
	byKey := make(map[K]V, len(items))
	for _, item := range items {
		byKey[key(item)] = item
	}
	out := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, k := range keys {
		item, ok := byKey[k]
		if !ok {
			errs[i] = ErrNotFound
			continue
		}
		out[i] = item
	}
	return out, errs
}

// GroupByKey buckets items by key, keeping their relative order.
func GroupByKey[K comparable, V any](items []V, key KeyFunc[K, V]) map[K][]V {
	groups := make(map[K][]V)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// OrderGroupsByKeys aligns groups with keys. Keys without a group get nil.
func OrderGroupsByKeys[K comparable, V any](keys []K, groups map[K][]V) [][]V {
	out := make([][]V, len(keys))
	for i, k := range keys {
		out[i] = groups[k]
	}
	return out
}

type ctxKey struct{}

// WithLoaders attaches a set of loaders to the context, usually once per
// incoming request.
func WithLoaders[T any](ctx context.Context, loaders T) context.Context {
	return context.WithValue(ctx, ctxKey{}, loaders)
}

// For returns the loaders attached to the context, or the zero value.
func For[T any](ctx context.Context) T {
	loaders, _ := ctx.Value(ctxKey{}).(T)
	return loaders
}
