package detection

import (
	"fmt"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
)

// LoaderFunc decodes the image stored at path.
type LoaderFunc func(path string) (image.Image, error)

type conditionKey struct {
	path  string
	ratio float64
}

// ConditionCache keeps derived condition images across detections. Entries
// are keyed by path and scale ratio and evicted least recently used first.
type ConditionCache struct {
	entries *lru.Cache[conditionKey, *imaging.ConditionImage]
}

// NewConditionCache creates a cache holding at most size conditions.
func NewConditionCache(size int) (*ConditionCache, error) {
	entries, err := lru.New[conditionKey, *imaging.ConditionImage](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create condition cache: %w", err)
	}
	return &ConditionCache{entries: entries}, nil
}

// Get returns the condition for path at ratio, building it with load on a
// miss.
//
// Parameters:
//   - path: The condition image file; it is the cache key together with
//     ratio.
//   - ratio: The scale ratio the condition is derived for.
//   - load: Decodes path on a cache miss.
//
// Returns:
//   - *imaging.ConditionImage: The derived condition, shared with later
//     calls.
//   - error: Non-nil if load fails or the image cannot be derived.
//
// # Errors
//
//   - Returns the load error unchanged if the file cannot be read
//   - Returns a wrapped error if the decoded image is empty
//
// Failed loads are not cached.
func (c *ConditionCache) Get(path string, ratio float64, load LoaderFunc) (*imaging.ConditionImage, error) {
	key := conditionKey{path: path, ratio: ratio}
	if cond, ok := c.entries.Get(key); ok {
		return cond, nil
	}

	img, err := load(path)
	if err != nil {
		return nil, err
	}
	cond, err := imaging.NewConditionImage(img, ratio)
	if err != nil {
		return nil, fmt.Errorf("failed to load condition %s: %w", path, err)
	}
	c.entries.Add(key, cond)
	return cond, nil
}

// Evict drops every entry for path.
func (c *ConditionCache) Evict(path string) {
	for _, key := range c.entries.Keys() {
		if key.path == path {
			c.entries.Remove(key)
		}
	}
}

// Purge empties the cache.
func (c *ConditionCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached conditions.
func (c *ConditionCache) Len() int {
	return c.entries.Len()
}
