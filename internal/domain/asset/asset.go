package asset

import "fmt"

type Kind string

const (
	KindRaw   Kind = "RAW"
	KindFinal Kind = "FINAL"

	idPrefix = "IMG_"
	idFormat = "IMG_%03d"
)

// Asset is one catalog entry. Immutable once uploaded; the catalog only
// ever grows.
type Asset struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Kind Kind   `json:"type"`
}

// UploadInput describes one file the photographer intends to upload.
type UploadInput struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

// AllocateID produces the id for the next catalog entry. Ids are
// allocated in catalog order and never reused, so appends after the
// initial upload continue the sequence.
func AllocateID(catalogSize int) string {
	return fmt.Sprintf(idFormat, catalogSize+1)
}

// Validate rejects assets that cannot be rendered or referenced.
func (a Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("asset id required")
	}
	if a.URL == "" {
		return fmt.Errorf("asset url required")
	}
	switch a.Kind {
	case KindRaw, KindFinal:
		return nil
	default:
		return fmt.Errorf("invalid asset kind: %s", a.Kind)
	}
}
