package project

import (
	"fmt"
	"time"

	"select-studio/internal/domain/asset"
	"select-studio/internal/quota"

	"github.com/google/uuid"
)

// Status is the persisted lifecycle stage of a project. Transitions are
// monotonic: SELECTION -> PROCESSING -> COMPLETED, no regression.
type Status string

const (
	StatusSelection  Status = "SELECTION"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"

	errInvalidStatusFmt = "invalid project status: %s"
)

var statusRank = map[Status]int{
	StatusSelection:  0,
	StatusProcessing: 1,
	StatusCompleted:  2,
}

// Validate validates the status.
func (s Status) Validate() error {
	if _, ok := statusRank[s]; !ok {
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
	return nil
}

// CanTransitionTo reports whether moving to next is a forward transition.
// A status may be rewritten to itself (last write wins on the same stage).
func (s Status) CanTransitionTo(next Status) bool {
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to >= from
}

// Mode is the derived, never-persisted client session mode.
type Mode string

const (
	ModeEdit     Mode = "edit"
	ModeView     Mode = "view"
	ModeDownload Mode = "download"
)

// DeriveMode maps (status, admin flag, explicit view flag) to the single
// session mode. Every caller goes through this function so the mapping
// cannot drift; it is computed once at load and never toggled mid-session.
func DeriveMode(status Status, isAdmin, viewFlag bool) Mode {
	if status == StatusCompleted && !isAdmin {
		return ModeDownload
	}
	if isAdmin || viewFlag || status != StatusSelection {
		return ModeView
	}
	return ModeEdit
}

type Project struct {
	ID             uuid.UUID           `json:"id"`
	Email          string              `json:"email"`
	PackageTier    quota.Tier          `json:"package_tier"`
	ExtraRetouches int                 `json:"extra_retouches"`
	Status         Status              `json:"status"`
	Assets         []asset.Asset       `json:"assets"`
	Selections     map[string][]string `json:"selections"`
	FinalAssets    []asset.Asset       `json:"final_assets,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Quotas derives the effective selection budget from the persisted tier
// and extra-retouch count.
func (p *Project) Quotas() quota.Quotas {
	return quota.Effective(p.PackageTier, p.ExtraRetouches)
}

// AssetIDs returns the catalog ids in catalog order.
func (p *Project) AssetIDs() []string {
	ids := make([]string, len(p.Assets))
	for i, a := range p.Assets {
		ids[i] = a.ID
	}
	return ids
}

type CreateProjectInput struct {
	Email       string
	PackageTier quota.Tier
	Assets      []asset.Asset
}
