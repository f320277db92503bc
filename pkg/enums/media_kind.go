package enums

import "fmt"

// MediaKind distinguishes image uploads from video uploads.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func (m MediaKind) IsValid() bool {
	switch m {
	case MediaKindImage, MediaKindVideo:
		return true
	}
	return false
}

func (m MediaKind) String() string {
	return string(m)
}

func ParseMediaKind(value string) (MediaKind, error) {
	kind := MediaKind(value)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid media kind %q", value)
	}
	return kind, nil
}

// MediaKindForMime derives the kind from an upload's mime type.
func MediaKindForMime(mimeType string) MediaKind {
	if len(mimeType) >= 6 && mimeType[:6] == "video/" {
		return MediaKindVideo
	}
	return MediaKindImage
}
