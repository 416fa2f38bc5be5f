package store

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/golden-glimpses/models"
)

// encodeMedia serialises the media list for the JSONB/TEXT column. A nil
// list is stored as an empty array.
func encodeMedia(items []models.MediaItem) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}

	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingMedia, err)
	}
	return string(b), nil
}

func decodeMedia(raw []byte) ([]models.MediaItem, error) {
	items := make([]models.MediaItem, 0)
	if len(raw) == 0 {
		return items, nil
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingMedia, err)
	}
	return items, nil
}
