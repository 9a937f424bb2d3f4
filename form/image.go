package form

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bytespark/pdfdeck/deck"
)

// MaxUploadBytes bounds how much of an attachment is read.
const MaxUploadBytes = 10 << 20

var (
	ErrImageRead     = errors.New("form: could not read image")
	ErrImageTooLarge = errors.New("form: image exceeds upload limit")
)

// ImageLimits are the largest pixel sizes stored per slot. Bigger uploads
// are downsized to fit, keeping the aspect ratio.
type ImageLimits struct {
	CenterW, CenterH int
	LogoW, LogoH     int
}

// DefaultImageLimits keep twice the drawn size (500x200 and 200x80 points)
// so images stay sharp in print.
var DefaultImageLimits = ImageLimits{CenterW: 1000, CenterH: 400, LogoW: 400, LogoH: 160}

func (l ImageLimits) bounds(slot deck.ImageSlot) (int, int) {
	if slot == deck.SlotCompanyLogo {
		return l.LogoW, l.LogoH
	}
	return l.CenterW, l.CenterH
}

// Normalize reads an uploaded image and prepares it for storage in a
// Document. PNG, JPEG, GIF, BMP, TIFF and WebP are accepted. Images larger
// than maxW x maxH are downsized; a non-positive bound disables that axis.
// PNG and JPEG uploads that fit are stored byte for byte; everything else is
// re-encoded, JPEG as JPEG and the rest as PNG.
func Normalize(r io.Reader, maxW, maxH int) (deck.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return deck.Image{}, fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	if len(data) > MaxUploadBytes {
		return deck.Image{}, ErrImageTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return deck.Image{}, fmt.Errorf("%w: %v", ErrImageRead, err)
	}

	b := img.Bounds()
	resize := (maxW > 0 && b.Dx() > maxW) || (maxH > 0 && b.Dy() > maxH)
	if !resize {
		switch format {
		case "png":
			return deck.Image{MIMEType: "image/png", Data: data}, nil
		case "jpeg":
			return deck.Image{MIMEType: "image/jpeg", Data: data}, nil
		}
	} else {
		w, h := maxW, maxH
		if w <= 0 {
			w = b.Dx()
		}
		if h <= 0 {
			h = b.Dy()
		}
		img = imaging.Fit(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return deck.Image{}, fmt.Errorf("form: encoding image: %w", err)
		}
		return deck.Image{MIMEType: "image/jpeg", Data: buf.Bytes()}, nil
	}
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return deck.Image{}, fmt.Errorf("form: encoding image: %w", err)
	}
	return deck.Image{MIMEType: "image/png", Data: buf.Bytes()}, nil
}
