package handler

import (
	"net/http"
	"strings"

	"select-studio/internal/domain/asset"
	"select-studio/internal/domain/project"
	"select-studio/internal/notify"
	"select-studio/internal/quota"
	"select-studio/internal/storage/s3"
	"select-studio/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the photographer's side: project creation, catalog
// growth and final delivery.
type AdminHandler struct {
	projects ProjectRepository
	uploads  UploadPreparer
	notifier Notifier
}

func NewAdminHandler(projects ProjectRepository, uploads UploadPreparer, notifier Notifier) *AdminHandler {
	return &AdminHandler{
		projects: projects,
		uploads:  uploads,
		notifier: notifier,
	}
}

type CreateProjectRequest struct {
	Email       string              `json:"email"`
	PackageTier *int                `json:"package_tier"`
	Files       []asset.UploadInput `json:"files"`
}

type CreateProjectResponse struct {
	Project *project.Project  `json:"project"`
	Uploads []s3.UploadTarget `json:"uploads"`
}

type AppendAssetsRequest struct {
	Files []asset.UploadInput `json:"files"`
}

type DeliverFinalsRequest struct {
	Files []asset.UploadInput `json:"files"`
}

func (h *AdminHandler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	// Projects created without an explicit tier get the classic package,
	// matching the longstanding booking default.
	tier := quota.TierClassic
	if req.PackageTier != nil {
		if *req.PackageTier < 0 || *req.PackageTier >= quota.TierCount {
			return respondError(c, http.StatusBadRequest, msgInvalidPackageTier)
		}
		tier = quota.Tier(*req.PackageTier)
	}

	if err := validateUploadInputs(req.Files); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	p, err := h.projects.Create(ctx, project.CreateProjectInput{
		Email:       req.Email,
		PackageTier: tier,
	})
	if err != nil {
		c.Logger().Errorf("Failed to create project: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateProjectFail)
	}

	targets, err := h.uploads.PrepareUploads(ctx, p.ID.String(), 0, req.Files, asset.KindRaw)
	if err != nil {
		c.Logger().Errorf("Failed to prepare uploads for project %s: %v", p.ID, err)
		if deleteErr := h.projects.Delete(ctx, p.ID); deleteErr != nil {
			c.Logger().Errorf("Failed to rollback project %s after upload preparation failure: %v", p.ID, deleteErr)
		}
		return respondError(c, http.StatusInternalServerError, msgPrepareUploadsFail)
	}

	assets := targetAssets(targets)
	if err := h.projects.AppendAssets(ctx, p.ID, assets); err != nil {
		c.Logger().Errorf("Failed to attach assets to project %s: %v", p.ID, err)
		if deleteErr := h.projects.Delete(ctx, p.ID); deleteErr != nil {
			c.Logger().Errorf("Failed to rollback project %s after asset attach failure: %v", p.ID, deleteErr)
		}
		return respondError(c, http.StatusInternalServerError, msgAppendAssetsFail)
	}
	p.Assets = assets

	if err := h.notifier.Notify(ctx, notify.EventUploadReady, p); err != nil {
		c.Logger().Errorf("Upload-ready notification for project %s failed (non-fatal): %v", p.ID, err)
	}

	return c.JSON(http.StatusCreated, CreateProjectResponse{
		Project: p,
		Uploads: targets,
	})
}

func (h *AdminHandler) ListProjects(c echo.Context) error {
	projects, err := h.projects.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to list projects: %v", err)
		return respondError(c, http.StatusInternalServerError, msgListProjectsFail)
	}

	return c.JSON(http.StatusOK, projects)
}

func (h *AdminHandler) GetProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	p, err := h.projects.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, p)
}

// AppendAssets grows the catalog after the initial upload. Ids continue
// the existing sequence; nothing already uploaded is touched.
func (h *AdminHandler) AppendAssets(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	var req AppendAssetsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := validateUploadInputs(req.Files); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	p, err := h.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	targets, err := h.uploads.PrepareUploads(ctx, p.ID.String(), len(p.Assets), req.Files, asset.KindRaw)
	if err != nil {
		c.Logger().Errorf("Failed to prepare uploads for project %s: %v", p.ID, err)
		return respondError(c, http.StatusInternalServerError, msgPrepareUploadsFail)
	}

	if err := h.projects.AppendAssets(ctx, p.ID, targetAssets(targets)); err != nil {
		c.Logger().Errorf("Failed to append assets to project %s: %v", p.ID, err)
		return respondError(c, http.StatusInternalServerError, msgAppendAssetsFail)
	}

	return c.JSON(http.StatusOK, targets)
}

// DeliverFinals attaches the finished images, completes the project and
// tells the client their gallery is ready for download.
func (h *AdminHandler) DeliverFinals(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	var req DeliverFinalsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := validateUploadInputs(req.Files); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	p, err := h.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	targets, err := h.uploads.PrepareUploads(ctx, p.ID.String(), 0, req.Files, asset.KindFinal)
	if err != nil {
		c.Logger().Errorf("Failed to prepare final uploads for project %s: %v", p.ID, err)
		return respondError(c, http.StatusInternalServerError, msgPrepareUploadsFail)
	}

	finals := targetAssets(targets)
	if err := h.projects.DeliverFinals(ctx, p.ID, finals); err != nil {
		c.Logger().Errorf("Failed to deliver finals for project %s: %v", p.ID, err)
		return respondError(c, http.StatusInternalServerError, msgDeliverFinalsFail)
	}

	p.Status = project.StatusCompleted
	p.FinalAssets = finals
	if err := h.notifier.Notify(ctx, notify.EventFinalDelivery, p); err != nil {
		c.Logger().Errorf("Final-delivery notification for project %s failed (non-fatal): %v", p.ID, err)
	}

	return c.JSON(http.StatusOK, targets)
}

func validateUploadInputs(files []asset.UploadInput) error {
	if err := validator.UploadBatchSize(len(files)); err != nil {
		return err
	}

	for _, f := range files {
		if err := validator.FileName(f.Name); err != nil {
			return err
		}
		if err := validator.ContentType(f.ContentType); err != nil {
			return err
		}
	}

	return nil
}

func targetAssets(targets []s3.UploadTarget) []asset.Asset {
	assets := make([]asset.Asset, len(targets))
	for i, t := range targets {
		assets[i] = t.Asset
	}
	return assets
}
