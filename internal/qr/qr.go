package qr

import (
	"errors"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultModulePixels is the edge length of one QR module in the written PNG.
const DefaultModulePixels = 10

var ErrEmptyData = errors.New("qr: empty data")

// PNG encodes content into a size x size PNG.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyData
	}
	return qrcode.Encode(content, qrcode.Low, size)
}

// WriteFile encodes content at pixelsPerModule and writes the PNG to path.
// The quiet zone is the library's fixed four modules.
func WriteFile(content, path string, pixelsPerModule int) error {
	if content == "" {
		return ErrEmptyData
	}
	if pixelsPerModule <= 0 {
		pixelsPerModule = DefaultModulePixels
	}
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return err
	}
	// negative size means pixels per module
	return q.WriteFile(-pixelsPerModule, path)
}

// Encoder writes QR images into a single output directory.
type Encoder struct {
	Dir          string
	ModulePixels int
}

func NewEncoder(dir string, modulePixels int) *Encoder {
	return &Encoder{Dir: dir, ModulePixels: modulePixels}
}

// Render writes the image for data as Dir/filename.
func (e *Encoder) Render(data, filename string) error {
	return WriteFile(data, filepath.Join(e.Dir, filename), e.ModulePixels)
}
