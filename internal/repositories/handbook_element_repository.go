package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/handbook-service/internal/models"
)

type HandbookElementRepository interface {
	Create(ctx context.Context, e *models.HandbookElement) error
	GetByID(ctx context.Context, id int64) (*models.HandbookElement, error)
	// ListByVersion pages through a version's elements ordered by id.
	// limit <= 0 returns every element.
	ListByVersion(ctx context.Context, versionID int64, limit, offset int) ([]*models.HandbookElement, error)
	GetInVersion(ctx context.Context, versionID, elementID int64) (*models.HandbookElement, error)
	UpdateIfVersion(ctx context.Context, e *models.HandbookElement, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.HandbookElement) error) error
}

type handbookElementRepo struct {
	*BaseVersionedRepo[*models.HandbookElement]
	db DB
}

func NewHandbookElementRepository(db DB) HandbookElementRepository {
	r := &handbookElementRepo{db: db}
	selectStmt := baseSelectElement("e.id=$1")
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanElement)
	return r
}

// Create inserts the element and its version links in one transaction.
func (r *handbookElementRepo) Create(ctx context.Context, e *models.HandbookElement) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO handbook_elements (element_code, element_value, row_version)
			VALUES ($1, $2, 1)
			RETURNING id, row_version
		`, e.ElementCode, e.ElementValue)
		if err := row.Scan(&e.ID, &e.RowVersion); err != nil {
			return err
		}
		return linkVersions(ctx, tx, e.ID, e.VersionIDs)
	})
}

func (r *handbookElementRepo) ListByVersion(ctx context.Context, versionID int64, limit, offset int) ([]*models.HandbookElement, error) {
	// LIMIT NULL means no limit in Postgres.
	lim := pgtype.Int8{Status: pgtype.Null}
	if limit > 0 {
		lim = pgtype.Int8{Int: int64(limit), Status: pgtype.Present}
	}

	q := baseSelectElement("e.id IN (SELECT element_id FROM handbook_element_versions WHERE version_id=$1)") +
		" ORDER BY e.id LIMIT $2 OFFSET $3"
	rows, err := r.db.Query(ctx, q, versionID, lim, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.HandbookElement
	for rows.Next() {
		e, err := r.scanElement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *handbookElementRepo) GetInVersion(ctx context.Context, versionID, elementID int64) (*models.HandbookElement, error) {
	q := baseSelectElement("e.id=$2 AND EXISTS (SELECT 1 FROM handbook_element_versions WHERE version_id=$1 AND element_id=e.id)")
	return r.scanElement(r.db.QueryRow(ctx, q, versionID, elementID))
}

// UpdateIfVersion replaces code, value and the full set of version links.
func (r *handbookElementRepo) UpdateIfVersion(ctx context.Context, e *models.HandbookElement, expected int64) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		tag, err = tx.Exec(ctx, `
			UPDATE handbook_elements SET
				element_code=$1,
				element_value=$2,
				row_version=row_version+1
			WHERE id=$3 AND row_version=$4
		`, e.ElementCode, e.ElementValue, e.ID, expected)
		if err != nil || tag.RowsAffected() != 1 {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM handbook_element_versions WHERE element_id=$1`, e.ID); err != nil {
			return err
		}
		return linkVersions(ctx, tx, e.ID, e.VersionIDs)
	})
	return tag, err
}

func (r *handbookElementRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.HandbookElement) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func linkVersions(ctx context.Context, tx pgx.Tx, elementID int64, versionIDs []int64) error {
	if len(versionIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO handbook_element_versions (element_id, version_id)
		SELECT $1, v FROM unnest($2::bigint[]) AS v
		ON CONFLICT DO NOTHING
	`, elementID, versionIDs)
	if err != nil {
		return fmt.Errorf("link element %d to versions: %w", elementID, mapPgError(err))
	}
	return nil
}

func baseSelectElement(where string) string {
	return `
		SELECT
			e.id, e.element_code, e.element_value, e.row_version,
			COALESCE(
				(SELECT array_agg(ev.version_id ORDER BY ev.version_id)
				 FROM handbook_element_versions ev WHERE ev.element_id = e.id),
				'{}'
			)
		FROM handbook_elements e
		WHERE ` + where
}

func (r *handbookElementRepo) scanElement(row pgx.Row) (*models.HandbookElement, error) {
	var e models.HandbookElement
	var versionIDs pgtype.Int8Array
	if err := row.Scan(&e.ID, &e.ElementCode, &e.ElementValue, &e.RowVersion, &versionIDs); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := versionIDs.AssignTo(&e.VersionIDs); err != nil {
		return nil, fmt.Errorf("decode version ids of element %d: %w", e.ID, err)
	}
	if e.VersionIDs == nil {
		e.VersionIDs = []int64{}
	}
	return &e, nil
}
