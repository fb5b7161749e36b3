// Package ocr recognizes words on screen images using Tesseract, via
// gosseract/v2.
//
// Engine implements match.TextRecognizer. The image handed to SetImage is
// kept in memory and every RecognizeWords call runs Tesseract on the
// requested sub-rectangle only, then offsets the word boxes back into the
// coordinates of the full image.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A custom tessdata directory can be passed to NewEngine. Binaries built
// without cgo carry no OCR support; NewEngine then returns ErrUnavailable.
//
// # Initialization
//
// gosseract initializes Tesseract lazily. NewEngine runs one recognition on
// a blank image so that a missing library or language fails at construction
// rather than on the first detection.
package ocr
