//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/screen-detect-mcp/internal/match"
)

// Engine is a Tesseract client bound to a set of languages. It is not safe
// for concurrent use.
type Engine struct {
	client         *gosseract.Client
	languages      []string
	tessdataPrefix string
	img            image.Image
}

// NewEngine initializes Tesseract for languages. An empty tessdataPrefix
// uses the system default location.
func NewEngine(languages []string, tessdataPrefix string) (*Engine, error) {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	client := gosseract.NewClient()
	if tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(tessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set languages: %w", err)
	}
	// Screens hold scattered labels rather than paragraphs.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	blank := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}
	data, err := encodePNG(blank)
	if err == nil {
		err = client.SetImageFromBytes(data)
	}
	if err == nil {
		_, err = client.Text()
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize tesseract: %w", err)
	}

	return &Engine{client: client, languages: languages, tessdataPrefix: tessdataPrefix}, nil
}

// SetImage replaces the image words are recognized on.
func (e *Engine) SetImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("ocr: empty image")
	}
	e.img = img
	return nil
}

// RecognizeWords runs OCR on the part of the image inside area and returns
// the words found, in reading order, with boxes in image coordinates.
// Blank words are dropped.
func (e *Engine) RecognizeWords(area image.Rectangle) ([]match.Word, error) {
	if e.img == nil {
		return nil, ErrNoImage
	}
	area = area.Intersect(e.img.Bounds())
	if area.Empty() {
		return nil, nil
	}

	data, err := encodePNG(imaging.Crop(e.img, area))
	if err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	words := make([]match.Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, match.Word{
			Text:       text,
			Confidence: box.Confidence,
			Bounds:     box.Box.Add(area.Min),
		})
	}
	return words, nil
}

// Info describes the engine.
func (e *Engine) Info() Info {
	return Info{
		Available:      true,
		Version:        e.client.Version(),
		Languages:      e.languages,
		TessdataPrefix: e.tessdataPrefix,
	}
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	return e.client.Close()
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
