package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

func GetExtensionFromMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/svg+xml":
		return "svg"
	default:
		return "bin"
	}
}

// DecodeDataURL splits a base64 data URL such as "data:image/png;base64,...".
// A bare base64 string is accepted and reported as image/png.
func DecodeDataURL(payload string) (string, []byte, error) {
	mimeType := "image/png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		i := strings.Index(payload, ";base64,")
		if i < 0 {
			return "", nil, fmt.Errorf("data URL sem base64")
		}
		mimeType = payload[len("data:"):i]
		data = payload[i+8:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("erro ao decodificar base64: %w", err)
	}
	return mimeType, raw, nil
}
