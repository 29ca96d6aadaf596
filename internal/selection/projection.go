package selection

import (
	"select-studio/internal/domain/asset"
	"select-studio/internal/domain/project"
)

const maxPercent = 100.0

// AssetView is the renderable state of one catalog entry.
type AssetView struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Name       string     `json:"name"`
	Kind       asset.Kind `json:"type"`
	Selected   bool       `json:"selected"`
	HasRetouch bool       `json:"has_retouch"`
	Options    []string   `json:"options,omitempty"`
}

// View is the full renderable gallery state, a pure function of ledger,
// catalog and mode. Rendering reads this snapshot; it never reaches into
// the ledger.
type View struct {
	Mode           project.Mode `json:"mode"`
	SelectedCount  int          `json:"selected_count"`
	MaxImages      int          `json:"max_images"`
	MaxRetouches   int          `json:"max_retouches"`
	UsedRetouches  int          `json:"used_retouches"`
	ExtraRetouches int          `json:"extra_retouches"`
	PercentFull    float64      `json:"percent_full"`
	CanSubmit      bool         `json:"can_submit"`
	ShowBulk       bool         `json:"show_bulk"`
	Assets         []AssetView  `json:"assets"`
}

// BuildView derives the gallery projection. Recomputed after every
// ledger mutation; holds no state of its own.
func BuildView(l *Ledger, catalog []asset.Asset, mode project.Mode) View {
	q := l.Quotas()
	count := l.SelectedCount()

	percent := 0.0
	if q.MaxImages > 0 {
		percent = float64(count) / float64(q.MaxImages) * 100
		if percent > maxPercent {
			percent = maxPercent
		}
	}

	views := make([]AssetView, len(catalog))
	for i, a := range catalog {
		options, selected := l.Options(a.ID)
		views[i] = AssetView{
			ID:         a.ID,
			URL:        a.URL,
			Name:       a.Name,
			Kind:       a.Kind,
			Selected:   selected,
			HasRetouch: len(options) > 0,
			Options:    options,
		}
	}

	return View{
		Mode:           mode,
		SelectedCount:  count,
		MaxImages:      q.MaxImages,
		MaxRetouches:   q.MaxRetouches,
		UsedRetouches:  l.UsedRetouches(),
		ExtraRetouches: l.Extra(),
		PercentFull:    percent,
		CanSubmit:      mode == project.ModeEdit && count > 0,
		// Bulk retouch on a single-image quota is meaningless.
		ShowBulk: mode == project.ModeEdit && q.MaxImages > 1,
		Assets:   views,
	}
}
