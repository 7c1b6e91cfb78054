// Package texprep prepares texture images for the split meshes: each image is
// upscaled with nearest-neighbour sampling and optionally flipped vertically,
// then written back over the source file in its original format.
package texprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/objsplit/internal/fsutil"
)

// ErrUnsupportedFormat is returned for images that cannot be re-encoded.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options controls the transform.
type Options struct {
	Scale        int      // Integer upscale factor, at least 1
	FlipVertical bool     // Mirror rows top to bottom
	Extensions   []string // File extensions processed by ProcessDir; empty means all
}

// DefaultOptions returns the standard texture preparation: 10x, flipped.
func DefaultOptions() Options {
	return Options{Scale: 10, FlipVertical: true}
}

// Result describes a processed file.
type Result struct {
	Path   string
	Format string
	Before image.Point
	After  image.Point
}

// Transform scales src by an integer factor with nearest-neighbour sampling and
// optionally flips it vertically. The result is always anchored at (0, 0).
func Transform(src image.Image, scale int, flip bool) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	if flip {
		flipVertical(dst)
	}
	return dst
}

// flipVertical mirrors the rows of img in place.
func flipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowSize := img.Bounds().Dx() * 4
	tmp := make([]byte, rowSize)

	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		bottomY := h - 1 - y
		bottom := img.Pix[bottomY*img.Stride : bottomY*img.Stride+rowSize]

		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Process decodes an image from r, transforms it and encodes it to w in the
// same format. It returns the format name and the source and output sizes.
func Process(r io.Reader, w io.Writer, opts Options) (Result, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return Result{}, fmt.Errorf("decoding image: %w", err)
	}

	dst := Transform(src, opts.Scale, opts.FlipVertical)
	if err := encode(w, dst, format); err != nil {
		return Result{}, err
	}

	return Result{
		Format: format,
		Before: src.Bounds().Size(),
		After:  dst.Bounds().Size(),
	}, nil
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// ProcessFile transforms an image file in place. The file is only replaced
// once the new image has been fully encoded.
func ProcessFile(path string, opts Options) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var buf bytes.Buffer
	res, err := Process(bytes.NewReader(data), &buf, opts)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ProcessDir transforms every matching file directly inside dir, in name
// order. A failing file does not stop the others; all failures are combined
// into the returned error.
func ProcessDir(dir string, opts Options) ([]Result, error) {
	if opts.Scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", opts.Scale)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !matchExtension(e.Name(), opts.Extensions) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var results []Result
	var errs error
	for _, name := range names {
		res, err := ProcessFile(filepath.Join(dir, name), opts)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func matchExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
