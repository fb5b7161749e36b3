package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropColor extracts the part of img inside r as a new image anchored at
// (0,0). A region not intersecting the image yields an empty image; it
// never fails, callers check for emptiness.
func CropColor(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	if img == nil {
		return &image.NRGBA{}
	}
	return imaging.Crop(img, r)
}

// CropGray returns a view of img restricted to r. The view shares pixels with
// img and keeps img's coordinates. A region not intersecting the image
// yields an empty image.
func CropGray(img *image.Gray, r image.Rectangle) *image.Gray {
	if img == nil {
		return &image.Gray{}
	}
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return &image.Gray{}
	}
	return img.SubImage(r).(*image.Gray)
}

// CropResult describes a crop written to disk.
type CropResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SaveCrop writes the (x1,y1)-(x2,y2) region of img to path. This is how
// condition images are authored from a captured screen.
//
// Parameters:
//   - img: Source image, usually a screen frame.
//   - x1, y1: Top-left corner, inclusive, in img coordinates.
//   - x2, y2: Bottom-right corner, exclusive.
//   - path: Destination file. The format is picked from its extension;
//     PNG is lossless and recommended for conditions.
//
// Returns:
//   - *CropResult: The written path and the crop size.
//   - error: Non-nil if the region is invalid or the file cannot be written.
//
// # Errors
//
//   - Returns error if the region extends outside img.Bounds()
//   - Returns error if x1 >= x2 or y1 >= y2
//   - Returns error if the extension is unsupported or the write fails
//
// # Example Usage
//
//	res, err := imaging.SaveCrop(frame, 200, 300, 250, 350, "/conditions/ok_button.png")
//	if err != nil {
//	    return err
//	}
//	// res.Width == 50, res.Height == 50
func SaveCrop(img image.Image, x1, y1, x2, y2 int, path string) (*CropResult, error) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	if err := imaging.Save(cropped, path); err != nil {
		return nil, fmt.Errorf("failed to save crop: %w", err)
	}

	return &CropResult{
		Path:   path,
		Width:  cropped.Bounds().Dx(),
		Height: cropped.Bounds().Dy(),
	}, nil
}
