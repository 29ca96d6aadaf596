package selection

import (
	"testing"

	"select-studio/internal/domain/asset"
	"select-studio/internal/domain/project"
	"select-studio/internal/quota"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) []asset.Asset {
	ids := catalogOf(n)
	assets := make([]asset.Asset, n)
	for i, id := range ids {
		assets[i] = asset.Asset{
			ID:   id,
			URL:  "https://cdn.example.com/" + id,
			Name: id + ".jpg",
			Kind: asset.KindRaw,
		}
	}
	return assets
}

func TestBuildView_Counts(t *testing.T) {
	catalog := testCatalog(10)
	l := NewLedger(quota.TierClassic, 1, catalogOf(10))
	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))
	require.NoError(t, l.Select("IMG_002", []string{"color_grading"}))

	v := BuildView(l, catalog, project.ModeEdit)

	assert.Equal(t, 2, v.SelectedCount)
	assert.Equal(t, 13, v.MaxImages)
	assert.Equal(t, 2, v.MaxRetouches)
	assert.Equal(t, 2, v.UsedRetouches)
	assert.Equal(t, 1, v.ExtraRetouches)
	assert.InDelta(t, 100.0*2/13, v.PercentFull, 0.001)
	assert.Len(t, v.Assets, 10)
}

func TestBuildView_AssetBadges(t *testing.T) {
	catalog := testCatalog(3)
	l := NewLedger(quota.TierClassic, 0, catalogOf(3))
	require.NoError(t, l.Select("IMG_002", []string{"skin_smoothing"}))
	_, err := l.BulkApply(nil)
	require.NoError(t, err)

	v := BuildView(l, catalog, project.ModeEdit)

	// IMG_001 came in through bulk: selected, no retouch.
	assert.True(t, v.Assets[0].Selected)
	assert.False(t, v.Assets[0].HasRetouch)

	// IMG_002 keeps its individually chosen option.
	assert.True(t, v.Assets[1].Selected)
	assert.True(t, v.Assets[1].HasRetouch)
	assert.Equal(t, []string{"skin_smoothing"}, v.Assets[1].Options)
}

func TestBuildView_PercentFullClamped(t *testing.T) {
	l := NewLedger(quota.TierMini, 0, catalogOf(6))
	for _, id := range catalogOf(6) {
		l.entries[id] = nil
	}

	v := BuildView(l, testCatalog(6), project.ModeView)

	assert.Equal(t, 100.0, v.PercentFull)
}

func TestBuildView_Affordances(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(5))

	v := BuildView(l, testCatalog(5), project.ModeEdit)
	assert.False(t, v.CanSubmit, "empty selection cannot submit")
	assert.True(t, v.ShowBulk)

	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))
	v = BuildView(l, testCatalog(5), project.ModeEdit)
	assert.True(t, v.CanSubmit)

	v = BuildView(l, testCatalog(5), project.ModeView)
	assert.False(t, v.CanSubmit)
	assert.False(t, v.ShowBulk)
}
