// Package imaging decodes the transportable image payloads accepted by the
// service and normalizes them for the face recognition library, which only
// consumes JPEG data.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
)

// jpegQuality is used when a non-JPEG upload has to be transcoded.
const jpegQuality = 90

// DecodeBase64 decodes a base64 image payload. Both bare base64 and
// data-URI payloads (data:image/png;base64,....) are accepted.
func DecodeBase64(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI image payload")
		}
		payload = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return decoded, nil
}

// NormalizeJPEG validates that data is a decodable still image and returns
// it as JPEG bytes. JPEG input passes through untouched; PNG input is
// transcoded.
func NormalizeJPEG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format - must be JPEG or PNG: %w", err)
	}

	if format == "jpeg" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to transcode %s image to JPEG: %w", format, err)
	}
	return buf.Bytes(), nil
}
