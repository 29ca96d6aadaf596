package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateID(t *testing.T) {
	assert.Equal(t, "IMG_001", AllocateID(0))
	assert.Equal(t, "IMG_013", AllocateID(12))
	assert.Equal(t, "IMG_100", AllocateID(99))
}

func TestAssetValidate(t *testing.T) {
	valid := Asset{ID: "IMG_001", URL: "https://cdn.example.com/IMG_001", Kind: KindRaw}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Asset{URL: "https://x", Kind: KindRaw}.Validate())
	assert.Error(t, Asset{ID: "IMG_001", Kind: KindRaw}.Validate())
	assert.Error(t, Asset{ID: "IMG_001", URL: "https://x", Kind: Kind("THUMB")}.Validate())
}
