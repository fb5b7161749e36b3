package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache keeps decoded images keyed by file path.
//
// Condition images are read once and reused across detections, while screen
// frames are usually written to the same path over and over, so they go
// through Reload which always reads the file again and refreshes the entry.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Entries stay in memory until Evict or Clear. A screen frame reloaded at the
// same path replaces its previous entry.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	cond, err := cache.Load("/conditions/ok_button.png")
//	if err != nil {
//	    return err
//	}
//	frame, err := cache.Reload("/tmp/screen.png") // always fresh
//	cache.Evict("/conditions/ok_button.png")      // after rewriting the file
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
//
// The returned cache is ready for immediate use and is safe for concurrent
// access.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, decoding it from disk on first use.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats
//     are PNG, JPEG and GIF.
//
// Returns:
//   - image.Image: The decoded image, shared with later Load calls. Callers
//     must not modify it.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) are separate entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, JPEG or GIF image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	return c.Reload(path)
}

// Reload decodes path from disk regardless of the cache content and stores
// the result.
//
// Parameters:
//   - path: File path to the image, as for Load.
//
// Returns:
//   - image.Image: The freshly decoded image.
//   - error: Non-nil if the file cannot be opened or decoded. The previous
//     entry for path, if any, is kept in that case.
func (c *ImageCache) Reload(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"` // from the file extension: png, jpeg, gif or unknown
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the cache and describes it.
//
// Parameters:
//   - cache: The image cache to load through.
//   - path: File path to the image.
//
// Returns:
//   - *ImageInfo: Dimensions, format and file size. Format is derived from
//     the file extension, not the file content.
//   - error: Non-nil if the image cannot be loaded or the file stat fails.
//
// # Errors
//
//   - Returns the Load error if the file cannot be opened or decoded
//   - Returns error if os.Stat fails on path
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of the image at path.
//
// Parameters:
//   - cache: The image cache to load through.
//   - path: File path to the image.
//
// Returns:
//   - *DimensionsResult: Width and height in pixels.
//   - error: Non-nil if the image cannot be loaded.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
