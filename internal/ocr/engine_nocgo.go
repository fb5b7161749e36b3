//go:build !cgo

package ocr

import (
	"image"

	"github.com/ironsheep/screen-detect-mcp/internal/match"
)

// Engine is unavailable without cgo.
type Engine struct{}

// NewEngine always fails with ErrUnavailable.
func NewEngine(languages []string, tessdataPrefix string) (*Engine, error) {
	return nil, ErrUnavailable
}

func (e *Engine) SetImage(img image.Image) error { return ErrUnavailable }

func (e *Engine) RecognizeWords(area image.Rectangle) ([]match.Word, error) {
	return nil, ErrUnavailable
}

func (e *Engine) Info() Info { return Info{Error: ErrUnavailable.Error()} }

func (e *Engine) Close() error { return nil }
