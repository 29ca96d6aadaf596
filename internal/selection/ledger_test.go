package selection

import (
	"fmt"
	"testing"

	"select-studio/internal/quota"
	apperrors "select-studio/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogOf(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("IMG_%03d", i+1)
	}
	return ids
}

// assertInvariants checks the quota invariants that must hold after
// every mutation, successful or not.
func assertInvariants(t *testing.T, l *Ledger) {
	t.Helper()
	q := l.Quotas()
	assert.LessOrEqual(t, l.SelectedCount(), q.MaxImages)
	assert.LessOrEqual(t, l.UsedRetouches(), q.MaxRetouches)
}

func TestLedger_SelectWithinQuota(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(20))

	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))

	options, selected := l.Options("IMG_001")
	assert.True(t, selected)
	assert.Equal(t, []string{"skin_smoothing"}, options)
	assert.Equal(t, 1, l.SelectedCount())
	assertInvariants(t, l)
}

func TestLedger_SelectUnknownAsset(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(3))

	err := l.Select("IMG_999", []string{"skin_smoothing"})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, l.SelectedCount())
}

func TestLedger_SelectRequiresOptionFirstTime(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(3))

	err := l.Select("IMG_001", nil)

	assert.ErrorIs(t, err, apperrors.ErrEmptyOptions)
	assert.Equal(t, 0, l.SelectedCount())
}

func TestLedger_RetouchQuotaEnforced(t *testing.T) {
	// Classic with two extra units: 14 images, 3 retouches.
	l := NewLedger(quota.TierClassic, 2, catalogOf(20))

	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))
	require.NoError(t, l.Select("IMG_002", []string{"color_grading"}))
	require.NoError(t, l.Select("IMG_003", []string{"teeth_whitening"}))

	// Fourth retouch exceeds the budget of 3.
	err := l.Select("IMG_004", []string{"body_shaping"})
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	_, selected := l.Options("IMG_004")
	assert.False(t, selected)
	assertInvariants(t, l)
}

func TestLedger_UpdateExcludesOwnEntryFromBudget(t *testing.T) {
	// Mini tier has 0 retouches; one extra unit gives exactly 1.
	l := NewLedger(quota.TierMini, 1, catalogOf(5))

	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))

	// Swapping the single option on the same entry must not count the
	// entry's current usage against itself.
	require.NoError(t, l.Select("IMG_001", []string{"color_grading"}))

	options, _ := l.Options("IMG_001")
	assert.Equal(t, []string{"color_grading"}, options)
	assertInvariants(t, l)
}

func TestLedger_ImageQuotaEnforced(t *testing.T) {
	l := NewLedger(quota.TierMini, 0, catalogOf(10))

	for i := 1; i <= 6; i++ {
		// Mini has no retouch budget; bulk-style empty entries are not
		// available through Select, so use Restore-shaped data instead.
		l.entries[fmt.Sprintf("IMG_%03d", i)] = nil
	}

	err := l.Select("IMG_007", []string{"skin_smoothing"})
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assertInvariants(t, l)
}

func TestLedger_DeselectIsIdempotent(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(3))

	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))
	l.Deselect("IMG_001")
	l.Deselect("IMG_001")
	l.Deselect("IMG_999")

	assert.Equal(t, 0, l.SelectedCount())
}

func TestLedger_BulkApplyPartial(t *testing.T) {
	// Classic: 12 image slots over a 20-asset catalog.
	l := NewLedger(quota.TierClassic, 0, catalogOf(20))

	touched, err := l.BulkApply(nil)

	require.NoError(t, err)
	assert.Equal(t, 12, touched)
	assert.Equal(t, 12, l.SelectedCount())

	// Catalog order: the first twelve assets were taken.
	_, selected := l.Options("IMG_012")
	assert.True(t, selected)
	_, selected = l.Options("IMG_013")
	assert.False(t, selected)
	assertInvariants(t, l)
}

func TestLedger_BulkApplyOverwritesExisting(t *testing.T) {
	l := NewLedger(quota.TierPlus, 0, catalogOf(4))

	require.NoError(t, l.Select("IMG_002", []string{"skin_smoothing", "color_grading"}))

	touched, err := l.BulkApply([]string{"teeth_whitening"})

	require.NoError(t, err)
	assert.Equal(t, 3, touched) // budget of 3 retouches, one per asset

	options, _ := l.Options("IMG_002")
	assert.Equal(t, []string{"teeth_whitening"}, options)
	assertInvariants(t, l)
}

func TestLedger_BulkApplyFailsWhenOverwriteExceedsBudget(t *testing.T) {
	// Plus: 3 retouches. Two selected entries at two options each would
	// need 4 on overwrite alone.
	l := NewLedger(quota.TierPlus, 0, catalogOf(5))
	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))
	require.NoError(t, l.Select("IMG_002", []string{"color_grading"}))

	before := l.Snapshot()
	touched, err := l.BulkApply([]string{"skin_smoothing", "teeth_whitening"})

	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.Equal(t, 0, touched)
	assert.Equal(t, before, l.Snapshot())
}

func TestLedger_GrowAndShrinkQuota(t *testing.T) {
	l := NewLedger(quota.TierMini, 0, catalogOf(10))

	assert.Equal(t, 1, l.GrowQuota())
	assert.Equal(t, 2, l.GrowQuota())
	assert.Equal(t, quota.Quotas{MaxImages: 8, MaxRetouches: 2}, l.Quotas())

	count, err := l.ShrinkQuota()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLedger_ShrinkFailsWithoutExtras(t *testing.T) {
	l := NewLedger(quota.TierMini, 0, catalogOf(3))

	_, err := l.ShrinkQuota()

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestLedger_ShrinkFailsWhenUnitInUse(t *testing.T) {
	// Mini + 1 extra: 7 images, 1 retouch. Using the retouch pins the unit.
	l := NewLedger(quota.TierMini, 1, catalogOf(10))
	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))

	_, err := l.ShrinkQuota()

	assert.ErrorIs(t, err, apperrors.ErrQuotaInUse)
	assert.Equal(t, 1, l.Extra())
	assertInvariants(t, l)
}

func TestRestore_RoundTrip(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(5))
	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))
	_, err := l.BulkApply(nil)
	require.NoError(t, err)

	restored, err := Restore(quota.TierClassic, 0, catalogOf(5), l.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, l.Snapshot(), restored.Snapshot())
	assert.Equal(t, l.SelectedCount(), restored.SelectedCount())
}

func TestRestore_AllowsEmptyOptionEntries(t *testing.T) {
	// Bulk-created entries carry no options and must survive a reload.
	restored, err := Restore(quota.TierClassic, 0, catalogOf(3), map[string][]string{
		"IMG_001": {},
		"IMG_002": nil,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, restored.SelectedCount())
}

func TestRestore_RejectsQuotaViolations(t *testing.T) {
	over := map[string][]string{}
	for _, id := range catalogOf(7) {
		over[id] = nil
	}

	_, err := Restore(quota.TierMini, 0, catalogOf(10), over)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	_, err = Restore(quota.TierMini, 0, catalogOf(10), map[string][]string{
		"IMG_001": {"skin_smoothing"},
	})
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
}

func TestRestore_RejectsUnknownAssets(t *testing.T) {
	_, err := Restore(quota.TierClassic, 0, catalogOf(3), map[string][]string{
		"IMG_099": {"skin_smoothing"},
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedger_SnapshotIsDeepCopy(t *testing.T) {
	l := NewLedger(quota.TierClassic, 0, catalogOf(3))
	require.NoError(t, l.Select("IMG_001", []string{"skin_smoothing"}))

	snapshot := l.Snapshot()
	snapshot["IMG_001"][0] = "mutated"

	options, _ := l.Options("IMG_001")
	assert.Equal(t, []string{"skin_smoothing"}, options)
}
