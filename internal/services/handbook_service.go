package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/models"
	"github.com/poofware/handbook-service/internal/repositories"
	"github.com/poofware/handbook-service/internal/utils"
)

// HandbookService covers handbooks and their versions.
type HandbookService interface {
	ListHandbooks(ctx context.Context, page dtos.PageQuery) (*dtos.HandbooksFullResponse, error)
	ListHandbooksShort(ctx context.Context, page dtos.PageQuery) (*dtos.HandbooksShortResponse, error)
	ActualForDate(ctx context.Context, at time.Time, page dtos.PageQuery) (*dtos.HandbooksActualResponse, error)

	CreateHandbook(ctx context.Context, in dtos.HandbookInput) (*dtos.Handbook, error)
	UpdateHandbook(ctx context.Context, id int64, in dtos.HandbookInput) (*dtos.Handbook, error)
	CreateVersion(ctx context.Context, in dtos.HandbookVersionInput) (*dtos.HandbookVersion, error)
	UpdateVersion(ctx context.Context, id int64, in dtos.HandbookVersionInput) (*dtos.HandbookVersion, error)
}

type handbookService struct {
	handbooks repositories.HandbookRepository
	versions  repositories.HandbookVersionRepository
	now       func() time.Time
}

func NewHandbookService(
	handbooks repositories.HandbookRepository,
	versions repositories.HandbookVersionRepository,
) HandbookService {
	return &handbookService{handbooks: handbooks, versions: versions, now: utils.DBNow}
}

// ----------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------

func (s *handbookService) ListHandbooks(ctx context.Context, page dtos.PageQuery) (*dtos.HandbooksFullResponse, error) {
	hbs, err := s.handbooks.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list handbooks: %w", err)
	}

	byHandbook := map[int64][]*models.HandbookVersion{}
	if len(hbs) > 0 {
		versions, err := s.versions.ListByHandbookIDs(ctx, handbookIDs(hbs))
		if err != nil {
			return nil, fmt.Errorf("list versions: %w", err)
		}
		for _, v := range versions {
			byHandbook[v.HandbookID] = append(byHandbook[v.HandbookID], v)
		}
	}

	resp := &dtos.HandbooksFullResponse{Handbooks: make([]dtos.HandbookFull, 0, len(hbs))}
	for _, h := range hbs {
		resp.Handbooks = append(resp.Handbooks, dtos.NewHandbookFull(h, byHandbook[h.ID]))
	}
	return resp, nil
}

func (s *handbookService) ListHandbooksShort(ctx context.Context, page dtos.PageQuery) (*dtos.HandbooksShortResponse, error) {
	hbs, err := s.handbooks.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list handbooks: %w", err)
	}
	resp := &dtos.HandbooksShortResponse{Handbooks: make([]dtos.Handbook, 0, len(hbs))}
	for _, h := range hbs {
		resp.Handbooks = append(resp.Handbooks, dtos.NewHandbook(h))
	}
	return resp, nil
}

// ActualForDate pages through handbooks and picks, for each, the version with
// the latest created time not after at. Handbooks with none are skipped.
func (s *handbookService) ActualForDate(ctx context.Context, at time.Time, page dtos.PageQuery) (*dtos.HandbooksActualResponse, error) {
	resp := &dtos.HandbooksActualResponse{Versions: []dtos.HandbookVersionDeep{}}

	hbs, err := s.handbooks.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list handbooks: %w", err)
	}
	if len(hbs) == 0 {
		return resp, nil
	}

	latest, err := s.versions.ListLatestCreatedAtOrBefore(ctx, handbookIDs(hbs), at)
	if err != nil {
		return nil, fmt.Errorf("list versions actual at %s: %w", at.Format(time.RFC3339), err)
	}
	byHandbook := make(map[int64]*models.HandbookVersion, len(latest))
	for _, v := range latest {
		byHandbook[v.HandbookID] = v
	}

	for _, h := range hbs {
		if v, ok := byHandbook[h.ID]; ok {
			resp.Versions = append(resp.Versions, dtos.NewHandbookVersionDeep(v, h))
		}
	}
	return resp, nil
}

// ----------------------------------------------------------------------
// Writes
// ----------------------------------------------------------------------

func (s *handbookService) CreateHandbook(ctx context.Context, in dtos.HandbookInput) (*dtos.Handbook, error) {
	h := &models.Handbook{Name: in.Name, ShortName: in.ShortName, Description: in.Description}
	if err := s.handbooks.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create handbook: %w", err)
	}
	utils.Logger.WithField("handbook_id", h.ID).Infof("Created handbook %q", h.ShortName)
	out := dtos.NewHandbook(h)
	return &out, nil
}

func (s *handbookService) UpdateHandbook(ctx context.Context, id int64, in dtos.HandbookInput) (*dtos.Handbook, error) {
	var updated *models.Handbook
	err := s.handbooks.UpdateWithRetry(ctx, id, func(h *models.Handbook) error {
		h.Name = in.Name
		h.ShortName = in.ShortName
		h.Description = in.Description
		updated = h
		return nil
	})
	if err != nil {
		return nil, updateError("handbook", id, utils.ErrHandbookNotFound, err)
	}
	out := dtos.NewHandbook(updated)
	return &out, nil
}

func (s *handbookService) CreateVersion(ctx context.Context, in dtos.HandbookVersionInput) (*dtos.HandbookVersion, error) {
	v := &models.HandbookVersion{HandbookID: in.HandbookIdentifier, Version: in.Version}
	if in.StartingDate != nil {
		v.StartingDate = in.StartingDate.UTC()
	}
	v.Stamp(s.now())

	if err := s.versions.Create(ctx, v); err != nil {
		if errors.Is(err, utils.ErrForeignKeyViolation) {
			return nil, unknownHandbookError(err)
		}
		return nil, fmt.Errorf("create version: %w", err)
	}
	utils.Logger.WithFields(logrus.Fields{
		"handbook_id": v.HandbookID,
		"version_id":  v.ID,
	}).Infof("Created handbook version %q", v.Version)
	out := dtos.NewHandbookVersion(v)
	return &out, nil
}

// UpdateVersion replaces label, owner and starting date. Without a starting
// date the version goes back to starting at its creation time.
func (s *handbookService) UpdateVersion(ctx context.Context, id int64, in dtos.HandbookVersionInput) (*dtos.HandbookVersion, error) {
	now := s.now()
	var updated *models.HandbookVersion
	err := s.versions.UpdateWithRetry(ctx, id, func(v *models.HandbookVersion) error {
		v.HandbookID = in.HandbookIdentifier
		v.Version = in.Version
		if in.StartingDate != nil {
			v.StartingDate = in.StartingDate.UTC()
		} else {
			v.StartingDate = v.Created
		}
		v.Updated = now
		updated = v
		return nil
	})
	if err != nil {
		return nil, updateError("handbook version", id, utils.ErrVersionNotFound, err)
	}
	out := dtos.NewHandbookVersion(updated)
	return &out, nil
}

func handbookIDs(hbs []*models.Handbook) []int64 {
	ids := make([]int64, 0, len(hbs))
	for _, h := range hbs {
		ids = append(ids, h.ID)
	}
	return ids
}
