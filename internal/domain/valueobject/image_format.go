package valueobject

import (
	"fmt"
	"path"
	"strings"
)

// ImageFormat — формат загружаемой картинки. Доска принимает только jpg/jpeg/png.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// DetectImageFormat определяет формат по content type, при его отсутствии —
// по расширению имени файла.
func DetectImageFormat(contentType, filename string) (ImageFormat, error) {
	switch normalizeMediaType(contentType) {
	case "image/jpeg", "image/jpg":
		return FormatJPEG, nil
	case "image/png":
		return FormatPNG, nil
	}

	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	}

	return "", fmt.Errorf("unsupported image format: content type %q, filename %q", contentType, filename)
}

func (f ImageFormat) Extension() string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

func (f ImageFormat) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

func normalizeMediaType(contentType string) string {
	mediaType := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}
