package selection

import (
	apperrors "select-studio/pkg/errors"

	"select-studio/internal/quota"
)

const (
	msgAssetNotInCatalog      = "asset not in catalog"
	msgImageQuotaReached      = "image quota reached"
	msgRetouchQuotaExceeded   = "retouch quota exceeded"
	msgRetouchOptionRequired  = "at least one retouch option required"
	msgNoExtraUnitsToRemove   = "no extra retouch units to remove"
	msgExtraUnitInUse         = "extra retouch unit is in use by current selection"
	msgPersistedOverImageMax  = "persisted selections exceed image quota"
	msgPersistedOverRetouches = "persisted selections exceed retouch quota"
)

// Ledger owns the asset-id -> retouch-option mapping for one editing
// session and enforces the quota invariants on every mutation. A
// mutation either passes all checks and commits whole, or leaves the
// ledger untouched and returns an error.
//
// The ledger is not safe for concurrent use; each request builds its
// own from the persisted project record.
type Ledger struct {
	tier    quota.Tier
	extra   int
	catalog []string
	known   map[string]struct{}
	entries map[string][]string
}

// NewLedger creates an empty ledger over the given catalog.
func NewLedger(tier quota.Tier, extra int, catalog []string) *Ledger {
	if extra < 0 {
		extra = 0
	}

	known := make(map[string]struct{}, len(catalog))
	for _, id := range catalog {
		known[id] = struct{}{}
	}

	return &Ledger{
		tier:    tier,
		extra:   extra,
		catalog: append([]string(nil), catalog...),
		known:   known,
		entries: make(map[string][]string),
	}
}

// Restore rebuilds a ledger from persisted selections. Entries restored
// through the bulk path may legitimately carry zero options, so the
// empty-options rule is not applied here; the quota invariants are.
func Restore(tier quota.Tier, extra int, catalog []string, selections map[string][]string) (*Ledger, error) {
	l := NewLedger(tier, extra, catalog)
	q := l.Quotas()

	used := 0
	for id, options := range selections {
		if _, ok := l.known[id]; !ok {
			return nil, apperrors.NotFound(msgAssetNotInCatalog)
		}
		used += len(options)
	}

	if len(selections) > q.MaxImages {
		return nil, apperrors.QuotaExceeded(msgPersistedOverImageMax)
	}
	if used > q.MaxRetouches {
		return nil, apperrors.QuotaExceeded(msgPersistedOverRetouches)
	}

	for id, options := range selections {
		l.entries[id] = append([]string(nil), options...)
	}

	return l, nil
}

// Quotas returns the effective budget for the current extra-unit count.
func (l *Ledger) Quotas() quota.Quotas {
	return quota.Effective(l.tier, l.extra)
}

// Extra returns the current extra-retouch unit count.
func (l *Ledger) Extra() int {
	return l.extra
}

// SelectedCount returns the number of selected assets.
func (l *Ledger) SelectedCount() int {
	return len(l.entries)
}

// Options returns the chosen options for an asset, if selected.
func (l *Ledger) Options(assetID string) ([]string, bool) {
	options, ok := l.entries[assetID]
	if !ok {
		return nil, false
	}
	return append([]string(nil), options...), true
}

// UsedRetouches sums the option counts across all entries.
func (l *Ledger) UsedRetouches() int {
	return l.usedExcluding("")
}

// UsedRetouchesExcluding sums option counts across all entries except
// the named one, the budget an in-progress edit of that entry is
// validated against.
func (l *Ledger) UsedRetouchesExcluding(assetID string) int {
	return l.usedExcluding(assetID)
}

func (l *Ledger) usedExcluding(assetID string) int {
	used := 0
	for id, options := range l.entries {
		if id == assetID {
			continue
		}
		used += len(options)
	}
	return used
}

// Select inserts or overwrites one entry. A first-time selection must
// carry at least one retouch option; the bulk path is the only way to
// create option-less entries.
func (l *Ledger) Select(assetID string, options []string) error {
	if _, ok := l.known[assetID]; !ok {
		return apperrors.NotFound(msgAssetNotInCatalog)
	}

	q := l.Quotas()
	_, exists := l.entries[assetID]

	if !exists && len(l.entries) >= q.MaxImages {
		return apperrors.QuotaExceeded(msgImageQuotaReached)
	}
	if len(options)+l.usedExcluding(assetID) > q.MaxRetouches {
		return apperrors.QuotaExceeded(msgRetouchQuotaExceeded)
	}
	if !exists && len(options) == 0 {
		return apperrors.EmptyOptions(msgRetouchOptionRequired)
	}

	l.entries[assetID] = append([]string(nil), options...)
	return nil
}

// Deselect removes an entry. Removing an absent entry is a no-op.
func (l *Ledger) Deselect(assetID string) {
	delete(l.entries, assetID)
}

// BulkApply applies one option set across the catalog: existing entries
// are overwritten (no empty-options rule on this path), unselected
// assets are selected in catalog order until either budget runs out.
// Returns the number of assets touched so callers can report partial
// application. Fails without changes when overwriting the existing
// entries alone would exceed the retouch budget.
func (l *Ledger) BulkApply(options []string) (int, error) {
	q := l.Quotas()
	perAsset := len(options)

	if perAsset*len(l.entries) > q.MaxRetouches {
		return 0, apperrors.QuotaExceeded(msgRetouchQuotaExceeded)
	}

	touched := 0
	for _, id := range l.catalog {
		if _, selected := l.entries[id]; selected {
			l.entries[id] = append([]string(nil), options...)
			touched++
			continue
		}

		if len(l.entries) >= q.MaxImages {
			continue
		}
		if perAsset > 0 && perAsset*(len(l.entries)+1) > q.MaxRetouches {
			continue
		}

		l.entries[id] = append([]string(nil), options...)
		touched++
	}

	return touched, nil
}

// GrowQuota adds one purchased extra-retouch unit and returns the new
// count. Persistence is the coordinator's job.
func (l *Ledger) GrowQuota() int {
	l.extra++
	return l.extra
}

// ShrinkQuota removes one extra-retouch unit. The shrunk budget is
// checked against current usage before the decrement so the ledger
// never ends up in a quota-violating state.
func (l *Ledger) ShrinkQuota() (int, error) {
	if l.extra == 0 {
		return 0, apperrors.BadRequest(msgNoExtraUnitsToRemove)
	}

	q := quota.Effective(l.tier, l.extra-1)
	if len(l.entries) > q.MaxImages || l.UsedRetouches() > q.MaxRetouches {
		return l.extra, apperrors.QuotaInUse(msgExtraUnitInUse)
	}

	l.extra--
	return l.extra, nil
}

// setExtra restores a known-good extra count. Used only by the
// coordinator's compensating rollback after a failed persist.
func (l *Ledger) setExtra(extra int) {
	if extra < 0 {
		extra = 0
	}
	l.extra = extra
}

// Snapshot returns a deep copy of the selection map, the shape the
// project store persists.
func (l *Ledger) Snapshot() map[string][]string {
	snapshot := make(map[string][]string, len(l.entries))
	for id, options := range l.entries {
		snapshot[id] = append([]string(nil), options...)
	}
	return snapshot
}
