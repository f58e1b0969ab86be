package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is an in-memory Client used by tests. It honours the same
// contract as MongoClient, including the atomicity of IncrementWhere, and is
// safe for concurrent use.
type MemoryClient struct {
	mu          sync.RWMutex
	collections map[string]map[string]Doc
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{collections: make(map[string]map[string]Doc)}
}

func (c *MemoryClient) List(ctx context.Context, collection string, filter Filter) ([]Doc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var docs []Doc
	for _, doc := range c.collections[collection] {
		if matches(doc, filter) {
			docs = append(docs, cloneDoc(doc))
		}
	}
	return docs, nil
}

func (c *MemoryClient) Get(ctx context.Context, collection, id string) (Doc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (c *MemoryClient) Create(ctx context.Context, collection string, doc Doc) (Doc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := cloneDoc(doc)
	id, _ := stored["id"].(string)
	if id == "" {
		id = uuid.NewString()
		stored["id"] = id
	}

	if c.collections[collection] == nil {
		c.collections[collection] = make(map[string]Doc)
	}
	c.collections[collection][id] = stored
	return cloneDoc(stored), nil
}

func (c *MemoryClient) Update(ctx context.Context, collection, id string, fields Doc) (Doc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	patched := cloneDoc(fields)
	for k, v := range patched {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return cloneDoc(doc), nil
}

func (c *MemoryClient) Delete(ctx context.Context, collection, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.collections[collection], id)
	return nil
}

func (c *MemoryClient) IncrementWhere(ctx context.Context, collection, id, field string, delta, floor int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.collections[collection][id]
	if !ok {
		return false, ErrNotFound
	}
	cur, ok := asInt(doc[field])
	if !ok {
		return false, nil
	}
	if cur+delta < floor {
		return false, nil
	}
	doc[field] = float64(cur + delta)
	return true, nil
}

func matches(doc Doc, filter Filter) bool {
	for k, want := range filter {
		if !equalValue(doc[k], want) {
			return false
		}
	}
	return true
}

// equalValue compares with numeric coercion, since stored documents carry
// JSON float64s while filters may use Go ints.
func equalValue(got, want any) bool {
	if g, ok := asInt(got); ok {
		if w, ok := asInt(want); ok {
			return g == w
		}
	}
	return got == want
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	}
	return 0, false
}
