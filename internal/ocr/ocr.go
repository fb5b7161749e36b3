package ocr

import "errors"

var (
	// ErrUnavailable is returned by NewEngine when the binary was built
	// without Tesseract support.
	ErrUnavailable = errors.New("ocr: tesseract support not compiled in")

	// ErrNoImage is returned by RecognizeWords before any SetImage.
	ErrNoImage = errors.New("ocr: no image set")
)

// DefaultLanguages is used when no language is configured.
var DefaultLanguages = []string{"eng"}

// Info describes the OCR subsystem.
type Info struct {
	Available      bool     `json:"available"`
	Version        string   `json:"version,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	TessdataPrefix string   `json:"tessdata_prefix,omitempty"`
	Error          string   `json:"error,omitempty"`
}
