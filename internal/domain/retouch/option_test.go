package retouch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAll(t *testing.T) {
	assert.NoError(t, ValidateAll(nil))
	assert.NoError(t, ValidateAll([]string{"skin_smoothing", "color_grading"}))

	assert.Error(t, ValidateAll([]string{"hdr_bloom"}))
	assert.Error(t, ValidateAll([]string{"skin_smoothing", "skin_smoothing"}))
}

func TestCatalogIsValid(t *testing.T) {
	for _, option := range Catalog() {
		assert.NoError(t, option.Validate())
	}
}
