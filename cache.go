package gqlreq

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching compiled requests.
// Users may implement it with their preferred store; MemoryCache is the
// in-process default. Values are opaque encoded requests (see EncodeRequest).
type Cache interface {
	// Get retrieves a value from the cache.
	Get(key string) ([]byte, bool)

	// Set stores a value in the cache.
	Set(key string, value []byte)

	// Delete removes a value from the cache.
	Delete(key string)

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(prefix string)

	// Clear removes all values from the cache.
	Clear()
}

// CacheKey identifies a compiled request.
type CacheKey struct {
	Model     string
	Schema    string // Shape of the schema: target names, types, identifiers
	Operation Operation
	Verb      string
	Predicate string // Unambiguous form of the filter predicate, empty if none
	Options   string // Canonical form of per-call options (id, limit, token)
}

// String returns the string representation of the cache key.
// Keys of the same model share the "<model>:" prefix.
func (k CacheKey) String() string {
	return k.Model + ":" + k.Schema + ":" + string(k.Operation) + ":" + k.Verb + ":" + k.Predicate + ":" + k.Options
}

// MemoryCache is a concurrency-safe in-memory Cache.
// A zero MemoryCache is ready to use and unbounded.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
	max   int
}

// NewMemoryCache returns a MemoryCache holding at most max entries.
// When full, Set evicts an arbitrary entry. A max of zero means unbounded.
func NewMemoryCache(max int) *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte), max: max}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string][]byte)
	}
	if _, ok := c.items[key]; !ok && c.max > 0 && len(c.items) >= c.max {
		for k := range c.items {
			delete(c.items, k)
			break
		}
	}
	c.items[key] = value
}

// Delete implements Cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

// Clear implements Cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// cachedRequest is the encoded form of a Request. The response type is
// not encodable and is restored by the caller.
type cachedRequest struct {
	Document      string     `msgpack:"d"`
	OperationName string     `msgpack:"n"`
	Operation     Operation  `msgpack:"o"`
	Verb          string     `msgpack:"v"`
	Model         string     `msgpack:"m"`
	Variables     []Variable `msgpack:"vars"`
}

// EncodeRequest encodes a request for storage in a Cache.
func EncodeRequest(r *Request) ([]byte, error) {
	b, err := msgpack.Marshal(&cachedRequest{
		Document:      r.Document,
		OperationName: r.OperationName,
		Operation:     r.Operation,
		Verb:          r.Verb,
		Model:         r.Model,
		Variables:     r.Variables,
	})
	if err != nil {
		return nil, fmt.Errorf("gqlreq: encoding %s: %w", r.OperationName, err)
	}
	return b, nil
}

// DecodeRequest decodes a request produced by EncodeRequest and sets its
// response type. Numeric variable values may come back with a different
// Go width; their JSON encoding is unchanged.
func DecodeRequest(b []byte, responseType reflect.Type) (*Request, error) {
	var c cachedRequest
	if err := msgpack.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("gqlreq: decoding cached request: %w", err)
	}
	return &Request{
		Document:      c.Document,
		OperationName: c.OperationName,
		Operation:     c.Operation,
		Verb:          c.Verb,
		Model:         c.Model,
		Variables:     c.Variables,
		ResponseType:  responseType,
	}, nil
}
