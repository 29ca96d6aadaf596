package handler

import (
	"net/http"

	"select-studio/internal/auth"
	"select-studio/internal/domain/project"
	"select-studio/internal/domain/retouch"
	"select-studio/internal/selection"
	apperrors "select-studio/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GalleryHandler serves the client-facing gallery. The project id in the
// URL is the capability: whoever holds the link can view and, while the
// project is in selection, edit.
type GalleryHandler struct {
	projects       ProjectGetter
	downloads      Downloader
	coordinators   *selection.Manager
	unitPriceCents int64
}

func NewGalleryHandler(projects ProjectGetter, downloads Downloader, coordinators *selection.Manager, unitPriceCents int64) *GalleryHandler {
	return &GalleryHandler{
		projects:       projects,
		downloads:      downloads,
		coordinators:   coordinators,
		unitPriceCents: unitPriceCents,
	}
}

type GalleryResponse struct {
	ProjectID string              `json:"project_id"`
	Status    project.Status      `json:"status"`
	View      selection.View      `json:"view"`
	Options   []retouch.Option    `json:"retouch_options"`
	Checkout  *selection.Checkout `json:"checkout,omitempty"`
}

type SaveDraftRequest struct {
	Selections map[string][]string `json:"selections"`
}

type SelectAssetRequest struct {
	Options []string `json:"options"`
}

type BulkApplyRequest struct {
	Options []string `json:"options"`
}

type BulkApplyResponse struct {
	Touched     int `json:"touched"`
	CatalogSize int `json:"catalog_size"`
}

type SubmitRequest struct {
	Selections      map[string][]string `json:"selections"`
	ConfirmCheckout bool                `json:"confirm_checkout"`
}

type SubmitResponse struct {
	Status project.Status `json:"status"`
}

type ExtraRetouchResponse struct {
	ExtraRetouches int `json:"extra_retouches"`
	MaxImages      int `json:"max_images"`
	MaxRetouches   int `json:"max_retouches"`
}

type DownloadEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (h *GalleryHandler) GetGallery(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	viewFlag := c.QueryParam(queryView) == "true"
	mode := project.DeriveMode(p.Status, auth.IsAdmin(c), viewFlag)

	l, err := h.restoreLedger(p)
	if err != nil {
		return err
	}

	resp := GalleryResponse{
		ProjectID: p.ID.String(),
		Status:    p.Status,
		View:      selection.BuildView(l, p.Assets, mode),
		Options:   retouch.Catalog(),
	}

	if p.ExtraRetouches > 0 {
		resp.Checkout = &selection.Checkout{
			ExtraRetouches: p.ExtraRetouches,
			UnitPriceCents: h.unitPriceCents,
			TotalCents:     int64(p.ExtraRetouches) * h.unitPriceCents,
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// SaveDraft replaces the draft selection map wholesale. The incoming map
// is rebuilt through a fresh ledger so a tampered or stale payload can
// never persist a quota-violating state.
func (h *GalleryHandler) SaveDraft(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	var req SaveDraftRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	for _, options := range req.Selections {
		if err := retouch.ValidateAll(options); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	l, err := selection.Restore(p.PackageTier, p.ExtraRetouches, p.AssetIDs(), req.Selections)
	if err != nil {
		return err
	}

	if err := h.coordinators.For(p).SaveDraft(c.Request().Context(), p, l.Snapshot()); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "draft saved")
}

// SelectAsset inserts or updates a single selection entry and persists
// the updated draft.
func (h *GalleryHandler) SelectAsset(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	var req SelectAssetRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := retouch.ValidateAll(req.Options); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	l, err := h.restoreLedger(p)
	if err != nil {
		return err
	}

	if err := l.Select(c.Param(paramAssetID), req.Options); err != nil {
		return err
	}

	if err := h.coordinators.For(p).SaveDraft(c.Request().Context(), p, l.Snapshot()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.clientView(p, l))
}

// DeselectAsset removes one selection entry and persists the updated
// draft. Deselecting an unselected asset succeeds without effect.
func (h *GalleryHandler) DeselectAsset(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	l, err := h.restoreLedger(p)
	if err != nil {
		return err
	}

	l.Deselect(c.Param(paramAssetID))

	if err := h.coordinators.For(p).SaveDraft(c.Request().Context(), p, l.Snapshot()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.clientView(p, l))
}

// BulkApply spreads one option set across the catalog under quota and
// reports how many assets it reached, so the client can tell the user
// "applied to N of M photos" when the budget cut the pass short.
func (h *GalleryHandler) BulkApply(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	var req BulkApplyRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := retouch.ValidateAll(req.Options); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	l, err := h.restoreLedger(p)
	if err != nil {
		return err
	}

	touched, err := l.BulkApply(req.Options)
	if err != nil {
		return err
	}

	if err := h.coordinators.For(p).SaveDraft(c.Request().Context(), p, l.Snapshot()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BulkApplyResponse{
		Touched:     touched,
		CatalogSize: len(p.Assets),
	})
}

// Submit runs the final, irreversible submit. When the project owns paid
// extra-retouch units and the body does not confirm the checkout, the
// response is a 409 carrying the computed price and nothing changes.
func (h *GalleryHandler) Submit(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	var req SubmitRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	for _, options := range req.Selections {
		if err := retouch.ValidateAll(options); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	l, err := selection.Restore(p.PackageTier, p.ExtraRetouches, p.AssetIDs(), req.Selections)
	if err != nil {
		return err
	}

	if l.SelectedCount() == 0 {
		return apperrors.BadRequest(msgEmptySelection)
	}

	checkout, err := h.coordinators.For(p).SubmitFinal(c.Request().Context(), p, l.Snapshot(), req.ConfirmCheckout)
	if err != nil {
		return err
	}

	if checkout != nil {
		return c.JSON(http.StatusConflict, checkout)
	}

	return c.JSON(http.StatusOK, SubmitResponse{Status: p.Status})
}

// BuyExtraRetouch purchases one extra-retouch unit.
func (h *GalleryHandler) BuyExtraRetouch(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	l, err := h.restoreLedger(p)
	if err != nil {
		return err
	}

	count, err := h.coordinators.For(p).BuyExtraRetouch(c.Request().Context(), p, l)
	if err != nil {
		return err
	}

	q := l.Quotas()
	return c.JSON(http.StatusOK, ExtraRetouchResponse{
		ExtraRetouches: count,
		MaxImages:      q.MaxImages,
		MaxRetouches:   q.MaxRetouches,
	})
}

// RemoveExtraRetouch returns one extra-retouch unit, provided the
// current selection does not depend on it.
func (h *GalleryHandler) RemoveExtraRetouch(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	l, err := h.restoreLedger(p)
	if err != nil {
		return err
	}

	count, err := h.coordinators.For(p).RemoveExtraRetouch(c.Request().Context(), p, l)
	if err != nil {
		return err
	}

	q := l.Quotas()
	return c.JSON(http.StatusOK, ExtraRetouchResponse{
		ExtraRetouches: count,
		MaxImages:      q.MaxImages,
		MaxRetouches:   q.MaxRetouches,
	})
}

// ListDownloads hands out presigned URLs for the delivered finals.
func (h *GalleryHandler) ListDownloads(c echo.Context) error {
	p, err := h.loadProject(c)
	if err != nil {
		return err
	}

	if p.Status != project.StatusCompleted {
		return respondError(c, http.StatusForbidden, msgDownloadsNotReady)
	}

	urls, err := h.downloads.DownloadURLs(c.Request().Context(), p.ID.String(), p.FinalAssets)
	if err != nil {
		return apperrors.RemoteFailure(msgDownloadURLsFail, err)
	}

	entries := make([]DownloadEntry, len(p.FinalAssets))
	for i, a := range p.FinalAssets {
		entries[i] = DownloadEntry{ID: a.ID, Name: a.Name, URL: urls[a.ID]}
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *GalleryHandler) loadProject(c echo.Context) (*project.Project, error) {
	id, err := uuid.Parse(c.Param(paramProjectID))
	if err != nil {
		return nil, apperrors.BadRequest(msgInvalidProjectID)
	}

	return h.projects.GetByID(c.Request().Context(), id)
}

func (h *GalleryHandler) restoreLedger(p *project.Project) (*selection.Ledger, error) {
	return selection.Restore(p.PackageTier, p.ExtraRetouches, p.AssetIDs(), p.Selections)
}

func (h *GalleryHandler) clientView(p *project.Project, l *selection.Ledger) selection.View {
	mode := project.DeriveMode(p.Status, false, false)
	return selection.BuildView(l, p.Assets, mode)
}
