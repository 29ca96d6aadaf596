package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffective_BaseBudgets(t *testing.T) {
	tests := []struct {
		name         string
		tier         Tier
		maxImages    int
		maxRetouches int
	}{
		{"mini", TierMini, 6, 0},
		{"classic", TierClassic, 12, 1},
		{"plus", TierPlus, 18, 3},
		{"premium", TierPremium, 24, 5},
		{"studio", TierStudio, 30, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Effective(tt.tier, 0)
			assert.Equal(t, tt.maxImages, q.MaxImages)
			assert.Equal(t, tt.maxRetouches, q.MaxRetouches)
		})
	}
}

func TestEffective_ExtraUnitsRaiseBothBudgets(t *testing.T) {
	q := Effective(TierClassic, 2)

	assert.Equal(t, 14, q.MaxImages)
	assert.Equal(t, 3, q.MaxRetouches)
}

func TestEffective_UnknownTierFallsBack(t *testing.T) {
	assert.Equal(t, Effective(TierMini, 0), Effective(Tier(99), 0))
	assert.Equal(t, Effective(TierMini, 0), Effective(Tier(-1), 0))
}

func TestEffective_NegativeExtraClamped(t *testing.T) {
	assert.Equal(t, Effective(TierPlus, 0), Effective(TierPlus, -3))
}

func TestBaseQuotas(t *testing.T) {
	assert.Equal(t, 12, BaseImages(TierClassic))
	assert.Equal(t, 1, BaseRetouches(TierClassic))
	assert.Equal(t, 6, BaseImages(Tier(42)))
}
