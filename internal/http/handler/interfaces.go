package handler

import (
	"context"

	"select-studio/internal/domain/asset"
	"select-studio/internal/domain/project"
	"select-studio/internal/storage/s3"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// GalleryHandler interfaces
type ProjectGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type Downloader interface {
	DownloadURLs(ctx context.Context, projectID string, assets []asset.Asset) (map[string]string, error)
}

// AdminHandler interfaces
type ProjectRepository interface {
	Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	List(ctx context.Context) ([]*project.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AppendAssets(ctx context.Context, projectID uuid.UUID, assets []asset.Asset) error
	DeliverFinals(ctx context.Context, projectID uuid.UUID, finals []asset.Asset) error
}

type UploadPreparer interface {
	PrepareUploads(ctx context.Context, projectID string, catalogSize int, inputs []asset.UploadInput, kind asset.Kind) ([]s3.UploadTarget, error)
}

type Notifier interface {
	Notify(ctx context.Context, kind string, p *project.Project) error
}

// AuthHandler interfaces
type TokenGenerator interface {
	Generate(email string) (string, error)
}

type Authenticator interface {
	Authenticate(email, password string) error
	Email() string
}
