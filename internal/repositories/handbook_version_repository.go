package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/handbook-service/internal/models"
)

type HandbookVersionRepository interface {
	Create(ctx context.Context, v *models.HandbookVersion) error
	GetByID(ctx context.Context, id int64) (*models.HandbookVersion, error)
	ListByHandbookIDs(ctx context.Context, handbookIDs []int64) ([]*models.HandbookVersion, error)
	GetLatest(ctx context.Context, handbookID int64) (*models.HandbookVersion, error)
	ListLatestCreatedAtOrBefore(ctx context.Context, handbookIDs []int64, at time.Time) ([]*models.HandbookVersion, error)
	ListByLabel(ctx context.Context, handbookID int64, label string) ([]*models.HandbookVersion, error)
	ListByLabels(ctx context.Context, labels []string, handbookID *int64) ([]*models.HandbookVersion, error)
	UpdateIfVersion(ctx context.Context, v *models.HandbookVersion, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.HandbookVersion) error) error
}

type handbookVersionRepo struct {
	*BaseVersionedRepo[*models.HandbookVersion]
	db DB
}

func NewHandbookVersionRepository(db DB) HandbookVersionRepository {
	r := &handbookVersionRepo{db: db}
	selectStmt := baseSelectVersion() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanVersion)
	return r
}

// Create expects Stamp to have been called; created/updated are stored as given.
func (r *handbookVersionRepo) Create(ctx context.Context, v *models.HandbookVersion) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO handbook_versions (
			handbook_id, version, starting_date, created, updated, row_version
		) VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING id, row_version
	`, v.HandbookID, v.Version, v.StartingDate, v.Created, v.Updated)
	if err := row.Scan(&v.ID, &v.RowVersion); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *handbookVersionRepo) ListByHandbookIDs(ctx context.Context, handbookIDs []int64) ([]*models.HandbookVersion, error) {
	return r.list(ctx,
		baseSelectVersion()+" WHERE handbook_id = ANY($1) ORDER BY handbook_id, created, id",
		handbookIDs,
	)
}

func (r *handbookVersionRepo) GetLatest(ctx context.Context, handbookID int64) (*models.HandbookVersion, error) {
	row := r.db.QueryRow(ctx,
		baseSelectVersion()+" WHERE handbook_id=$1 ORDER BY created DESC, id DESC LIMIT 1",
		handbookID,
	)
	return r.scanVersion(row)
}

// ListLatestCreatedAtOrBefore returns, per handbook, the newest version created
// no later than at. Handbooks with no such version are absent from the result.
func (r *handbookVersionRepo) ListLatestCreatedAtOrBefore(ctx context.Context, handbookIDs []int64, at time.Time) ([]*models.HandbookVersion, error) {
	return r.list(ctx, `
		SELECT DISTINCT ON (handbook_id)
			id, handbook_id, version, starting_date, created, updated, row_version
		FROM handbook_versions
		WHERE handbook_id = ANY($1) AND created <= $2
		ORDER BY handbook_id, created DESC, id DESC
	`, handbookIDs, at)
}

func (r *handbookVersionRepo) ListByLabel(ctx context.Context, handbookID int64, label string) ([]*models.HandbookVersion, error) {
	return r.list(ctx,
		baseSelectVersion()+" WHERE handbook_id=$1 AND version=$2 ORDER BY created, id",
		handbookID, label,
	)
}

// ListByLabels resolves version labels. A nil handbookID searches every handbook.
func (r *handbookVersionRepo) ListByLabels(ctx context.Context, labels []string, handbookID *int64) ([]*models.HandbookVersion, error) {
	if handbookID == nil {
		return r.list(ctx, baseSelectVersion()+" WHERE version = ANY($1) ORDER BY id", labels)
	}
	return r.list(ctx,
		baseSelectVersion()+" WHERE version = ANY($1) AND handbook_id=$2 ORDER BY id",
		labels, *handbookID,
	)
}

// UpdateIfVersion replaces owner, label and starting date. created is never written.
func (r *handbookVersionRepo) UpdateIfVersion(ctx context.Context, v *models.HandbookVersion, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE handbook_versions SET
			handbook_id=$1,
			version=$2,
			starting_date=$3,
			updated=$4,
			row_version=row_version+1
		WHERE id=$5 AND row_version=$6
	`, v.HandbookID, v.Version, v.StartingDate, v.Updated, v.ID, expected)
	return tag, mapPgError(err)
}

func (r *handbookVersionRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.HandbookVersion) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *handbookVersionRepo) list(ctx context.Context, sql string, args ...any) ([]*models.HandbookVersion, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.HandbookVersion
	for rows.Next() {
		v, err := r.scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func baseSelectVersion() string {
	return `
		SELECT id, handbook_id, version, starting_date, created, updated, row_version
		FROM handbook_versions`
}

func (r *handbookVersionRepo) scanVersion(row pgx.Row) (*models.HandbookVersion, error) {
	var v models.HandbookVersion
	err := row.Scan(&v.ID, &v.HandbookID, &v.Version, &v.StartingDate, &v.Created, &v.Updated, &v.RowVersion)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.StartingDate = v.StartingDate.UTC()
	v.Created = v.Created.UTC()
	v.Updated = v.Updated.UTC()
	return &v, nil
}
