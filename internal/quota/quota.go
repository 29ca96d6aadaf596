package quota

// Tier is an enumerated package level fixing base image and retouch quotas.
type Tier int

const (
	TierMini Tier = iota
	TierClassic
	TierPlus
	TierPremium
	TierStudio

	TierCount = 5
)

// DefaultTier is used when persisted data carries an unknown or missing
// tier index (fail-soft, never an error).
const DefaultTier = TierMini

type base struct {
	images    int
	retouches int
}

var tierTable = [TierCount]base{
	TierMini:    {images: 6, retouches: 0},
	TierClassic: {images: 12, retouches: 1},
	TierPlus:    {images: 18, retouches: 3},
	TierPremium: {images: 24, retouches: 5},
	TierStudio:  {images: 30, retouches: 8},
}

// Quotas is the effective selection budget for a project.
type Quotas struct {
	MaxImages    int `json:"max_images"`
	MaxRetouches int `json:"max_retouches"`
}

// BaseImages returns the base image quota for a tier.
func BaseImages(tier Tier) int {
	return tierTable[normalize(tier)].images
}

// BaseRetouches returns the base retouch quota for a tier.
func BaseRetouches(tier Tier) int {
	return tierTable[normalize(tier)].retouches
}

// Effective derives the quotas for a tier with purchased extra-retouch
// units. Each unit raises both budgets by one: an extra image slot
// bundled with an extra retouch.
func Effective(tier Tier, extra int) Quotas {
	if extra < 0 {
		extra = 0
	}

	b := tierTable[normalize(tier)]
	return Quotas{
		MaxImages:    b.images + extra,
		MaxRetouches: b.retouches + extra,
	}
}

func normalize(tier Tier) Tier {
	if tier < 0 || tier >= TierCount {
		return DefaultTier
	}
	return tier
}
