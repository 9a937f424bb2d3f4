package deck

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// Image is an embedded image: the bytes travel with the Document rather
// than as a reference to a file or URL.
type Image struct {
	MIMEType string // e.g. "image/png"
	Data     []byte
}

// DataURI encodes the image as "data:<mime>;base64,<payload>".
func (img Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
}

// ParseDataURI decodes a base64 data URI produced by DataURI or a browser
// file reader.
func ParseDataURI(s string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return Image{}, ErrImageRef
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("deck: malformed data URI")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Image{}, fmt.Errorf("deck: data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("deck: decoding data URI: %w", err)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return Image{MIMEType: mime, Data: data}, nil
}

// Format returns the short image type understood by PDF writers
// ("PNG", "JPG", "GIF"), or "" for anything else.
func (img Image) Format() string {
	switch strings.ToLower(img.MIMEType) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// Size returns the pixel dimensions of the image without decoding it fully.
func (img Image) Size() (w, h int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return 0, 0, fmt.Errorf("deck: reading image size: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Key returns a stable content hash, suitable as a registration name.
func (img Image) Key() string {
	sum := sha256.Sum256(img.Data)
	return hex.EncodeToString(sum[:8])
}

func (img *Image) clone() *Image {
	if img == nil {
		return nil
	}
	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	return &Image{MIMEType: img.MIMEType, Data: data}
}
