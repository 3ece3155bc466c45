package repositories

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/handbook-service/internal/models"
)

type HandbookRepository interface {
	Create(ctx context.Context, h *models.Handbook) error
	GetByID(ctx context.Context, id int64) (*models.Handbook, error)
	GetByShortName(ctx context.Context, shortName string) (*models.Handbook, error)
	List(ctx context.Context, limit, offset int) ([]*models.Handbook, error)
	UpdateIfVersion(ctx context.Context, h *models.Handbook, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Handbook) error) error
}

type handbookRepo struct {
	*BaseVersionedRepo[*models.Handbook]
	db DB
}

func NewHandbookRepository(db DB) HandbookRepository {
	r := &handbookRepo{db: db}
	selectStmt := baseSelectHandbook() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanHandbook)
	return r
}

func (r *handbookRepo) Create(ctx context.Context, h *models.Handbook) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO handbooks (name, short_name, description, row_version)
		VALUES ($1, $2, $3, 1)
		RETURNING id, row_version
	`, h.Name, h.ShortName, h.Description)
	return row.Scan(&h.ID, &h.RowVersion)
}

func (r *handbookRepo) GetByShortName(ctx context.Context, shortName string) (*models.Handbook, error) {
	row := r.db.QueryRow(ctx, baseSelectHandbook()+" WHERE short_name=$1 ORDER BY id LIMIT 1", shortName)
	return r.scanHandbook(row)
}

func (r *handbookRepo) List(ctx context.Context, limit, offset int) ([]*models.Handbook, error) {
	rows, err := r.db.Query(ctx, baseSelectHandbook()+" ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Handbook
	for rows.Next() {
		h, err := r.scanHandbook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *handbookRepo) UpdateIfVersion(ctx context.Context, h *models.Handbook, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE handbooks SET
			name=$1,
			short_name=$2,
			description=$3,
			row_version=row_version+1
		WHERE id=$4 AND row_version=$5
	`, h.Name, h.ShortName, h.Description, h.ID, expected)
}

func (r *handbookRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Handbook) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func baseSelectHandbook() string {
	return `
		SELECT id, name, short_name, description, row_version
		FROM handbooks`
}

func (r *handbookRepo) scanHandbook(row pgx.Row) (*models.Handbook, error) {
	var h models.Handbook
	if err := row.Scan(&h.ID, &h.Name, &h.ShortName, &h.Description, &h.RowVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}
