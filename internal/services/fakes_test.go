package services

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgconn"

	"github.com/poofware/handbook-service/internal/models"
	"github.com/poofware/handbook-service/internal/repositories"
	"github.com/poofware/handbook-service/internal/utils"
)

// In-memory repositories. Updates go through the real optimistic-locking loop.

type fakeHandbookRepo struct {
	rows     map[int64]*models.Handbook
	nextID   int64
	conflict bool
}

func newFakeHandbookRepo(hbs ...*models.Handbook) *fakeHandbookRepo {
	r := &fakeHandbookRepo{rows: map[int64]*models.Handbook{}}
	for _, h := range hbs {
		r.rows[h.ID] = h
		if h.ID > r.nextID {
			r.nextID = h.ID
		}
	}
	return r
}

func (r *fakeHandbookRepo) Create(_ context.Context, h *models.Handbook) error {
	r.nextID++
	h.ID = r.nextID
	h.RowVersion = 1
	cp := *h
	r.rows[h.ID] = &cp
	return nil
}

func (r *fakeHandbookRepo) GetByID(_ context.Context, id int64) (*models.Handbook, error) {
	h, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (r *fakeHandbookRepo) GetByShortName(_ context.Context, shortName string) (*models.Handbook, error) {
	for _, h := range r.sorted() {
		if h.ShortName == shortName {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeHandbookRepo) List(_ context.Context, limit, offset int) ([]*models.Handbook, error) {
	all := r.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *fakeHandbookRepo) UpdateIfVersion(_ context.Context, h *models.Handbook, expected int64) (pgconn.CommandTag, error) {
	cur, ok := r.rows[h.ID]
	if !ok || cur.RowVersion != expected || r.conflict {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *h
	cp.RowVersion = expected + 1
	r.rows[h.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeHandbookRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Handbook) error) error {
	return repositories.WithRetry[*models.Handbook](ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *fakeHandbookRepo) sorted() []*models.Handbook {
	out := make([]*models.Handbook, 0, len(r.rows))
	for _, h := range r.rows {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeVersionRepo struct {
	rows      []*models.HandbookVersion
	handbooks map[int64]bool
	nextID    int64
}

func (r *fakeVersionRepo) Create(_ context.Context, v *models.HandbookVersion) error {
	if r.handbooks != nil && !r.handbooks[v.HandbookID] {
		return utils.ErrForeignKeyViolation
	}
	r.nextID++
	v.ID = r.nextID
	v.RowVersion = 1
	cp := *v
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeVersionRepo) GetByID(_ context.Context, id int64) (*models.HandbookVersion, error) {
	for _, v := range r.rows {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeVersionRepo) ListByHandbookIDs(_ context.Context, ids []int64) ([]*models.HandbookVersion, error) {
	var out []*models.HandbookVersion
	for _, v := range r.rows {
		for _, id := range ids {
			if v.HandbookID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) GetLatest(_ context.Context, handbookID int64) (*models.HandbookVersion, error) {
	var best *models.HandbookVersion
	for _, v := range r.rows {
		if v.HandbookID != handbookID {
			continue
		}
		if best == nil || v.Created.After(best.Created) || (v.Created.Equal(best.Created) && v.ID > best.ID) {
			best = v
		}
	}
	return best, nil
}

func (r *fakeVersionRepo) ListLatestCreatedAtOrBefore(_ context.Context, ids []int64, at time.Time) ([]*models.HandbookVersion, error) {
	var out []*models.HandbookVersion
	for _, id := range ids {
		var best *models.HandbookVersion
		for _, v := range r.rows {
			if v.HandbookID != id || v.Created.After(at) {
				continue
			}
			if best == nil || v.Created.After(best.Created) {
				best = v
			}
		}
		if best != nil {
			out = append(out, best)
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) ListByLabel(_ context.Context, handbookID int64, label string) ([]*models.HandbookVersion, error) {
	var out []*models.HandbookVersion
	for _, v := range r.rows {
		if v.HandbookID == handbookID && v.Version == label {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) ListByLabels(_ context.Context, labels []string, handbookID *int64) ([]*models.HandbookVersion, error) {
	var out []*models.HandbookVersion
	for _, v := range r.rows {
		if handbookID != nil && v.HandbookID != *handbookID {
			continue
		}
		for _, l := range labels {
			if v.Version == l {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) UpdateIfVersion(_ context.Context, v *models.HandbookVersion, expected int64) (pgconn.CommandTag, error) {
	if r.handbooks != nil && !r.handbooks[v.HandbookID] {
		return nil, utils.ErrForeignKeyViolation
	}
	for i, cur := range r.rows {
		if cur.ID == v.ID && cur.RowVersion == expected {
			cp := *v
			cp.Created = cur.Created
			cp.RowVersion = expected + 1
			r.rows[i] = &cp
			return pgconn.CommandTag("UPDATE 1"), nil
		}
	}
	return pgconn.CommandTag("UPDATE 0"), nil
}

func (r *fakeVersionRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.HandbookVersion) error) error {
	return repositories.WithRetry[*models.HandbookVersion](ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}

type fakeElementRepo struct {
	rows   []*models.HandbookElement
	nextID int64
}

func (r *fakeElementRepo) Create(_ context.Context, e *models.HandbookElement) error {
	r.nextID++
	e.ID = r.nextID
	e.RowVersion = 1
	cp := *e
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeElementRepo) GetByID(_ context.Context, id int64) (*models.HandbookElement, error) {
	for _, e := range r.rows {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeElementRepo) ListByVersion(_ context.Context, versionID int64, limit, offset int) ([]*models.HandbookElement, error) {
	var all []*models.HandbookElement
	for _, e := range r.rows {
		for _, vid := range e.VersionIDs {
			if vid == versionID {
				all = append(all, e)
				break
			}
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeElementRepo) GetInVersion(ctx context.Context, versionID, elementID int64) (*models.HandbookElement, error) {
	elems, _ := r.ListByVersion(ctx, versionID, 0, 0)
	for _, e := range elems {
		if e.ID == elementID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeElementRepo) UpdateIfVersion(_ context.Context, e *models.HandbookElement, expected int64) (pgconn.CommandTag, error) {
	for i, cur := range r.rows {
		if cur.ID == e.ID && cur.RowVersion == expected {
			cp := *e
			cp.RowVersion = expected + 1
			r.rows[i] = &cp
			return pgconn.CommandTag("UPDATE 1"), nil
		}
	}
	return pgconn.CommandTag("UPDATE 0"), nil
}

func (r *fakeElementRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.HandbookElement) error) error {
	return repositories.WithRetry[*models.HandbookElement](ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}
