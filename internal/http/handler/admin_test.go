package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"select-studio/internal/domain/asset"
	"select-studio/internal/domain/project"
	"select-studio/internal/notify"
	"select-studio/internal/quota"
	"select-studio/internal/storage/s3"
	apperrors "select-studio/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProjectRepo struct {
	prepared map[uuid.UUID]*project.Project
	deleted  []uuid.UUID
	finals   []asset.Asset

	appendErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{prepared: map[uuid.UUID]*project.Project{}}
}

func (r *fakeProjectRepo) Create(_ context.Context, input project.CreateProjectInput) (*project.Project, error) {
	p := &project.Project{
		ID:          uuid.New(),
		Email:       input.Email,
		PackageTier: input.PackageTier,
		Status:      project.StatusSelection,
		Selections:  map[string][]string{},
	}
	r.prepared[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	p, ok := r.prepared[id]
	if !ok {
		return nil, apperrors.NotFound("project not found")
	}
	return p, nil
}

func (r *fakeProjectRepo) List(_ context.Context) ([]*project.Project, error) {
	var out []*project.Project
	for _, p := range r.prepared {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	delete(r.prepared, id)
	return nil
}

func (r *fakeProjectRepo) AppendAssets(_ context.Context, id uuid.UUID, assets []asset.Asset) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	p, ok := r.prepared[id]
	if !ok {
		return apperrors.NotFound("project not found")
	}
	p.Assets = append(p.Assets, assets...)
	return nil
}

func (r *fakeProjectRepo) DeliverFinals(_ context.Context, id uuid.UUID, finals []asset.Asset) error {
	p, ok := r.prepared[id]
	if !ok {
		return apperrors.NotFound("project not found")
	}
	r.finals = finals
	p.Status = project.StatusCompleted
	p.FinalAssets = finals
	return nil
}

type fakeUploads struct {
	err error
}

func (f *fakeUploads) PrepareUploads(_ context.Context, projectID string, catalogSize int, inputs []asset.UploadInput, kind asset.Kind) ([]s3.UploadTarget, error) {
	if f.err != nil {
		return nil, f.err
	}
	targets := make([]s3.UploadTarget, len(inputs))
	for i, input := range inputs {
		id := asset.AllocateID(catalogSize + i)
		targets[i] = s3.UploadTarget{
			Asset: asset.Asset{
				ID:   id,
				URL:  "https://bucket.example.com/projects/" + projectID + "/" + id,
				Name: input.Name,
				Kind: kind,
			},
			UploadURL: "https://signed.example.com/" + id,
		}
	}
	return targets, nil
}

type capturingNotifier struct {
	events []string
}

func (n *capturingNotifier) Notify(_ context.Context, kind string, _ *project.Project) error {
	n.events = append(n.events, kind)
	return nil
}

func adminContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateProject(t *testing.T) {
	repo := newFakeProjectRepo()
	notifier := &capturingNotifier{}
	h := NewAdminHandler(repo, &fakeUploads{}, notifier)

	c, rec := adminContext(http.MethodPost, "/api/projects",
		`{"email":"anna@example.com","package_tier":2,"files":[{"name":"a.jpg","content_type":"image/jpeg"},{"name":"b.jpg","content_type":"image/jpeg"}]}`)

	require.NoError(t, h.CreateProject(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateProjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, quota.TierPlus, resp.Project.PackageTier)
	assert.Len(t, resp.Uploads, 2)
	assert.Equal(t, "IMG_001", resp.Uploads[0].Asset.ID)
	assert.Equal(t, "IMG_002", resp.Uploads[1].Asset.ID)
	assert.Equal(t, []string{notify.EventUploadReady}, notifier.events)
}

func TestCreateProject_DefaultsToClassicTier(t *testing.T) {
	repo := newFakeProjectRepo()
	h := NewAdminHandler(repo, &fakeUploads{}, &capturingNotifier{})

	c, rec := adminContext(http.MethodPost, "/api/projects",
		`{"email":"anna@example.com","files":[{"name":"a.jpg","content_type":"image/jpeg"}]}`)

	require.NoError(t, h.CreateProject(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateProjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, quota.TierClassic, resp.Project.PackageTier)
}

func TestCreateProject_InvalidTier(t *testing.T) {
	h := NewAdminHandler(newFakeProjectRepo(), &fakeUploads{}, &capturingNotifier{})

	c, rec := adminContext(http.MethodPost, "/api/projects",
		`{"email":"anna@example.com","package_tier":9,"files":[{"name":"a.jpg","content_type":"image/jpeg"}]}`)

	require.NoError(t, h.CreateProject(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProject_RollsBackOnUploadFailure(t *testing.T) {
	repo := newFakeProjectRepo()
	h := NewAdminHandler(repo, &fakeUploads{err: errors.New("presign failed")}, &capturingNotifier{})

	c, rec := adminContext(http.MethodPost, "/api/projects",
		`{"email":"anna@example.com","files":[{"name":"a.jpg","content_type":"image/jpeg"}]}`)

	require.NoError(t, h.CreateProject(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, repo.deleted, 1)
	assert.Empty(t, repo.prepared)
}

func TestAppendAssets_ContinuesIDSequence(t *testing.T) {
	repo := newFakeProjectRepo()
	h := NewAdminHandler(repo, &fakeUploads{}, &capturingNotifier{})

	p, err := repo.Create(context.Background(), project.CreateProjectInput{Email: "anna@example.com", PackageTier: quota.TierClassic})
	require.NoError(t, err)
	p.Assets = []asset.Asset{{ID: "IMG_001"}, {ID: "IMG_002"}}

	c, rec := adminContext(http.MethodPost, "/api/projects/"+p.ID.String()+"/assets",
		`{"files":[{"name":"c.jpg","content_type":"image/jpeg"}]}`)
	c.SetParamNames(paramID)
	c.SetParamValues(p.ID.String())

	require.NoError(t, h.AppendAssets(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var targets []s3.UploadTarget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &targets))
	require.Len(t, targets, 1)
	assert.Equal(t, "IMG_003", targets[0].Asset.ID)
}

func TestDeliverFinals(t *testing.T) {
	repo := newFakeProjectRepo()
	notifier := &capturingNotifier{}
	h := NewAdminHandler(repo, &fakeUploads{}, notifier)

	p, err := repo.Create(context.Background(), project.CreateProjectInput{Email: "anna@example.com", PackageTier: quota.TierClassic})
	require.NoError(t, err)

	c, rec := adminContext(http.MethodPost, "/api/projects/"+p.ID.String()+"/deliver",
		`{"files":[{"name":"final.jpg","content_type":"image/jpeg"}]}`)
	c.SetParamNames(paramID)
	c.SetParamValues(p.ID.String())

	require.NoError(t, h.DeliverFinals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, project.StatusCompleted, p.Status)
	require.Len(t, repo.finals, 1)
	assert.Equal(t, asset.KindFinal, repo.finals[0].Kind)
	assert.Equal(t, []string{notify.EventFinalDelivery}, notifier.events)
}

func TestDeliverFinals_RedeliveryAllowed(t *testing.T) {
	repo := newFakeProjectRepo()
	h := NewAdminHandler(repo, &fakeUploads{}, &capturingNotifier{})

	p, err := repo.Create(context.Background(), project.CreateProjectInput{Email: "anna@example.com", PackageTier: quota.TierClassic})
	require.NoError(t, err)
	p.Status = project.StatusCompleted

	// Completed to completed is a permitted self-transition; the
	// photographer can replace a botched delivery.
	c, rec := adminContext(http.MethodPost, "/api/projects/"+p.ID.String()+"/deliver",
		`{"files":[{"name":"final_v2.jpg","content_type":"image/jpeg"}]}`)
	c.SetParamNames(paramID)
	c.SetParamValues(p.ID.String())

	require.NoError(t, h.DeliverFinals(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
