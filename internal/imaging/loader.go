package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrUnsupportedFormat is returned when an input is rejected by format
	// validation before any decoding is attempted.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDecode is returned when image bytes cannot be decoded.
	ErrDecode = errors.New("image decode failed")
)

// formatsByExt maps lower-case file extensions to decoder format names.
var formatsByExt = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// KnownFormat reports whether name is a format this package can decode.
func KnownFormat(name string) bool {
	for _, f := range formatsByExt {
		if f == name {
			return true
		}
	}
	return false
}

// FormatFromName returns the format implied by a file name's extension, or
// "unknown".
func FormatFromName(name string) string {
	if f, ok := formatsByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return "unknown"
}

// FormatValidator restricts inputs to an enumerated set of raster formats.
//
// The check is by file name extension. With VerifyContent set, the format
// sniffed from the data header must also match; a header that cannot be
// sniffed at all is left for the decoder to reject.
type FormatValidator struct {
	// Accepted lists decoder format names ("png", "jpeg", ...).
	Accepted []string

	// VerifyContent additionally compares the sniffed header format.
	VerifyContent bool
}

// Validate checks a named input and returns its format.
//
// Returns an error wrapping ErrUnsupportedFormat when the name has no
// accepted extension, or when VerifyContent is set and the data header
// declares a different format.
func (v FormatValidator) Validate(name string, data []byte) (string, error) {
	format := FormatFromName(name)
	if !v.accepts(format) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	if v.VerifyContent {
		if _, sniffed, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && sniffed != format {
			return "", fmt.Errorf("%w: %q has %s extension but %s content", ErrUnsupportedFormat, name, format, sniffed)
		}
	}

	return format, nil
}

func (v FormatValidator) accepts(format string) bool {
	for _, a := range v.Accepted {
		if strings.EqualFold(a, format) {
			return true
		}
	}
	return false
}

// Decode reads an image from r.
//
// Returns an error wrapping ErrDecode if the stream is not a decodable image
// in one of the registered formats.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Open decodes the image file at path.
//
// A missing or unreadable file is reported as a plain I/O error; a file that
// exists but cannot be decoded wraps ErrDecode.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// ToGray converts an image to 8-bit luminance.
//
// Uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B) on the
// non-premultiplied colour; alpha is ignored. The result has its origin at
// (0, 0).
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	nrgba := imaging.Grayscale(img)
	bounds := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+bounds.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format sniffed from the file header ("png", "jpeg", ...).
	Format string `json:"format"`

	// ExtensionFormat is the format implied by the file extension; it may
	// disagree with Format.
	ExtensionFormat string `json:"extension_format"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads only the image header and returns its metadata.
func LoadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &ImageInfo{
		Width:           cfg.Width,
		Height:          cfg.Height,
		Format:          format,
		ExtensionFormat: FormatFromName(path),
		FileSizeBytes:   stat.Size(),
	}, nil
}
