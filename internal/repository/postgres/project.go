package postgres

import (
	"context"
	"encoding/json"

	"select-studio/internal/domain/asset"
	"select-studio/internal/domain/project"
	"select-studio/internal/quota"
	apperrors "select-studio/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProjectRepository is the project store: one row per project, with the
// asset catalog, selection map and final deliveries as JSONB documents.
// Writes are last-write-wins by design.
type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error) {
	// A nil slice marshals to JSON null, which would poison later
	// jsonb concatenation on append.
	if input.Assets == nil {
		input.Assets = []asset.Asset{}
	}

	assetsDoc, err := json.Marshal(input.Assets)
	if err != nil {
		return nil, errFailedEncodeDocument(err)
	}

	selectionsDoc, err := json.Marshal(map[string][]string{})
	if err != nil {
		return nil, errFailedEncodeDocument(err)
	}

	query := `
		INSERT INTO projects (id, email, package_tier, extra_retouches, status, assets, selections)
		VALUES ($1, $2, $3, 0, $4, $5, $6)
		RETURNING id, email, package_tier, extra_retouches, status, assets, selections, final_assets, created_at, updated_at
	`

	row := r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.Email, int(input.PackageTier), string(project.StatusSelection), assetsDoc, selectionsDoc,
	)

	p, err := scanProject(row)
	if err != nil {
		return nil, errFailedCreateProject(err)
	}

	return p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `
		SELECT id, email, package_tier, extra_retouches, status, assets, selections, final_assets, created_at, updated_at
		FROM projects WHERE id = $1
	`

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedGetProject(err)
	}

	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	query := `
		SELECT id, email, package_tier, extra_retouches, status, assets, selections, final_assets, created_at, updated_at
		FROM projects ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListProjects(err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errFailedScanProject(err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// Delete removes a project row. Used only as a compensating action when
// upload URL generation fails after the row was created.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteProject(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}

// PersistSelections overwrites the selection document. With finalize set
// the project also advances to PROCESSING; the status guard keeps the
// transition monotonic, so a second finalize reports the lock instead of
// rewriting history.
func (r *ProjectRepository) PersistSelections(ctx context.Context, projectID uuid.UUID, selections map[string][]string, finalize bool) error {
	if selections == nil {
		selections = map[string][]string{}
	}

	doc, err := json.Marshal(selections)
	if err != nil {
		return errFailedEncodeDocument(err)
	}

	query := `
		UPDATE projects
		SET selections = $2,
		    status = CASE WHEN $3 THEN $4 ELSE status END,
		    updated_at = now()
		WHERE id = $1 AND (NOT $3 OR status = $5)
	`

	tag, err := r.db.Pool.Exec(ctx, query, projectID, doc, finalize,
		string(project.StatusProcessing), string(project.StatusSelection))
	if err != nil {
		return errFailedPersistSelection(err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, projectID); err != nil {
			return err
		}
		return apperrors.Locked(errProjectNotInSelection)
	}

	return nil
}

func (r *ProjectRepository) PersistExtraRetouches(ctx context.Context, projectID uuid.UUID, count int) error {
	query := `UPDATE projects SET extra_retouches = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, projectID, count)
	if err != nil {
		return errFailedPersistExtras(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}

// AppendAssets grows the catalog. Append-only: existing entries are
// never rewritten.
func (r *ProjectRepository) AppendAssets(ctx context.Context, projectID uuid.UUID, assets []asset.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	doc, err := json.Marshal(assets)
	if err != nil {
		return errFailedEncodeDocument(err)
	}

	query := `UPDATE projects SET assets = assets || $2::jsonb, updated_at = now() WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, projectID, doc)
	if err != nil {
		return errFailedAppendAssets(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}

// DeliverFinals attaches the finished images and completes the project.
func (r *ProjectRepository) DeliverFinals(ctx context.Context, projectID uuid.UUID, finals []asset.Asset) error {
	doc, err := json.Marshal(finals)
	if err != nil {
		return errFailedEncodeDocument(err)
	}

	query := `
		UPDATE projects
		SET final_assets = $2, status = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, projectID, doc, string(project.StatusCompleted))
	if err != nil {
		return errFailedDeliverFinals(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		p             project.Project
		tier          int
		status        string
		assetsDoc     []byte
		selectionsDoc []byte
		finalsDoc     []byte
	)

	err := row.Scan(&p.ID, &p.Email, &tier, &p.ExtraRetouches, &status,
		&assetsDoc, &selectionsDoc, &finalsDoc, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.PackageTier = quota.Tier(tier)
	p.Status = project.Status(status)

	if len(assetsDoc) > 0 {
		if err := json.Unmarshal(assetsDoc, &p.Assets); err != nil {
			return nil, errFailedDecodeDocument(err)
		}
	}

	p.Selections = map[string][]string{}
	if len(selectionsDoc) > 0 {
		if err := json.Unmarshal(selectionsDoc, &p.Selections); err != nil {
			return nil, errFailedDecodeDocument(err)
		}
	}

	if len(finalsDoc) > 0 {
		if err := json.Unmarshal(finalsDoc, &p.FinalAssets); err != nil {
			return nil, errFailedDecodeDocument(err)
		}
	}

	return &p, nil
}
