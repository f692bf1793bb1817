package easel

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// FormatPDF names the PDF export format.
const FormatPDF = "pdf"

// ErrUnsupportedFormat is returned for an export format easel cannot encode.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedExtensions lists the file extensions accepted by Save.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff", ".pdf"}

// FormatFromPath returns the export format matching the extension of path.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	format := strings.TrimPrefix(ext, ".")
	if format == FormatPDF {
		return format, nil
	}
	if _, err := imaging.FormatFromExtension(format); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// Encode writes img to w in the named format. An empty format selects PNG.
func Encode(w io.Writer, img image.Image, format string) error {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "" {
		format = "png"
	}
	if format == FormatPDF {
		return encodePDF(w, img)
	}
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return imaging.Encode(w, img, f, imaging.JPEGQuality(100))
}

// encodePDF writes a single page PDF sized to the image in points,
// with the image embedded as PNG.
func encodePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return err
	}
	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)
	pdf.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")

	return pdf.Output(w)
}
