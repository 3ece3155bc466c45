package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/metrics"
	"github.com/poofware/handbook-service/internal/models"
	"github.com/poofware/handbook-service/internal/repositories"
	"github.com/poofware/handbook-service/internal/utils"
)

// ElementService reads, reconciles and writes handbook elements.
type ElementService interface {
	RecentElements(ctx context.Context, handbookID int64, page dtos.PageQuery) (*dtos.RecentElementsResponse, error)
	VersionElements(ctx context.Context, handbookID int64, label string, page dtos.PageQuery) (*dtos.VersionElementsResponse, error)

	ValidateRecent(ctx context.Context, handbookID int64, received []dtos.ElementSnapshot) (*dtos.BulkValidationResponse, error)
	ValidateElement(ctx context.Context, handbookID int64, label string, received dtos.ElementSnapshot) (*dtos.ElementValidationResponse, error)

	CreateElement(ctx context.Context, in dtos.HandbookElementInput) (*dtos.HandbookElement, error)
	UpdateElement(ctx context.Context, id int64, in dtos.HandbookElementInput) (*dtos.HandbookElement, error)
}

type elementService struct {
	versions repositories.HandbookVersionRepository
	elements repositories.HandbookElementRepository
}

func NewElementService(
	versions repositories.HandbookVersionRepository,
	elements repositories.HandbookElementRepository,
) ElementService {
	return &elementService{versions: versions, elements: elements}
}

// ----------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------

func (s *elementService) RecentElements(ctx context.Context, handbookID int64, page dtos.PageQuery) (*dtos.RecentElementsResponse, error) {
	latest, err := s.versions.GetLatest(ctx, handbookID)
	if err != nil {
		return nil, fmt.Errorf("latest version of handbook %d: %w", handbookID, err)
	}
	if latest == nil {
		return nil, utils.NewNotFound(fmt.Sprintf("handbook %d has no versions", handbookID), utils.ErrVersionNotFound)
	}

	elems, err := s.elements.ListByVersion(ctx, latest.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("elements of version %d: %w", latest.ID, err)
	}
	return &dtos.RecentElementsResponse{Elements: dtos.NewHandbookElements(elems)}, nil
}

func (s *elementService) VersionElements(ctx context.Context, handbookID int64, label string, page dtos.PageQuery) (*dtos.VersionElementsResponse, error) {
	v, err := s.versionByLabel(ctx, handbookID, label)
	if err != nil {
		return nil, err
	}
	elems, err := s.elements.ListByVersion(ctx, v.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("elements of version %d: %w", v.ID, err)
	}
	return &dtos.VersionElementsResponse{Elements: dtos.NewHandbookElements(elems)}, nil
}

// ----------------------------------------------------------------------
// Reconciliation
// ----------------------------------------------------------------------

// ValidateRecent reconciles against every element of the latest version. A
// handbook without versions reconciles against an empty set.
func (s *elementService) ValidateRecent(ctx context.Context, handbookID int64, received []dtos.ElementSnapshot) (*dtos.BulkValidationResponse, error) {
	var server []*models.HandbookElement

	latest, err := s.versions.GetLatest(ctx, handbookID)
	if err != nil {
		return nil, fmt.Errorf("latest version of handbook %d: %w", handbookID, err)
	}
	if latest != nil {
		server, err = s.elements.ListByVersion(ctx, latest.ID, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("elements of version %d: %w", latest.ID, err)
		}
	}

	res := ReconcileElements(server, received)
	switch {
	case res.IDError != "":
		metrics.ObserveReconciliation(metrics.KindBulk, metrics.ResultNoMatch)
	case res.Empty():
		metrics.ObserveReconciliation(metrics.KindBulk, metrics.ResultMatch)
	default:
		metrics.ObserveReconciliation(metrics.KindBulk, metrics.ResultMismatch)
	}
	return &dtos.BulkValidationResponse{ValidationErrors: res}, nil
}

func (s *elementService) ValidateElement(ctx context.Context, handbookID int64, label string, received dtos.ElementSnapshot) (*dtos.ElementValidationResponse, error) {
	v, err := s.versionByLabel(ctx, handbookID, label)
	if err != nil {
		return nil, err
	}
	server, err := s.elements.GetInVersion(ctx, v.ID, received.ID)
	if err != nil {
		return nil, fmt.Errorf("element %d in version %d: %w", received.ID, v.ID, err)
	}

	res := ReconcileElement(server, received)
	switch {
	case res.IDError != "":
		metrics.ObserveReconciliation(metrics.KindSingle, metrics.ResultNoMatch)
	case res.Empty():
		metrics.ObserveReconciliation(metrics.KindSingle, metrics.ResultMatch)
	default:
		metrics.ObserveReconciliation(metrics.KindSingle, metrics.ResultMismatch)
	}
	return &dtos.ElementValidationResponse{ValidationErrors: res}, nil
}

// versionByLabel requires exactly one version with the label in the handbook.
func (s *elementService) versionByLabel(ctx context.Context, handbookID int64, label string) (*models.HandbookVersion, error) {
	matches, err := s.versions.ListByLabel(ctx, handbookID, label)
	if err != nil {
		return nil, fmt.Errorf("versions %q of handbook %d: %w", label, handbookID, err)
	}
	switch len(matches) {
	case 0:
		return nil, utils.NewNotFound(
			fmt.Sprintf("handbook %d has no version %q", handbookID, label), utils.ErrVersionNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, utils.NewConflict(utils.ErrCodeAmbiguousVersion,
			fmt.Sprintf("handbook %d has %d versions labelled %q", handbookID, len(matches), label),
			utils.ErrAmbiguousVersion)
	}
}

// ----------------------------------------------------------------------
// Writes
// ----------------------------------------------------------------------

func (s *elementService) CreateElement(ctx context.Context, in dtos.HandbookElementInput) (*dtos.HandbookElement, error) {
	versionIDs, err := s.resolveLabels(ctx, in.Handbook, in.HandbookIdentifier)
	if err != nil {
		return nil, err
	}

	e := &models.HandbookElement{ElementCode: in.ElementCode, ElementValue: in.ElementValue, VersionIDs: versionIDs}
	if err := s.elements.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create element: %w", err)
	}
	utils.Logger.WithFields(logrus.Fields{
		"element_id":  e.ID,
		"version_ids": e.VersionIDs,
	}).Infof("Created handbook element %q", e.ElementCode)
	out := dtos.NewHandbookElement(e)
	return &out, nil
}

func (s *elementService) UpdateElement(ctx context.Context, id int64, in dtos.HandbookElementInput) (*dtos.HandbookElement, error) {
	versionIDs, err := s.resolveLabels(ctx, in.Handbook, in.HandbookIdentifier)
	if err != nil {
		return nil, err
	}

	var updated *models.HandbookElement
	err = s.elements.UpdateWithRetry(ctx, id, func(e *models.HandbookElement) error {
		e.ElementCode = in.ElementCode
		e.ElementValue = in.ElementValue
		e.VersionIDs = versionIDs
		updated = e
		return nil
	})
	if err != nil {
		return nil, updateError("handbook element", id, utils.ErrElementNotFound, err)
	}
	out := dtos.NewHandbookElement(updated)
	return &out, nil
}

// resolveLabels maps version labels to version ids. Every label must match at
// least one version; a label shared by several versions links to all of them.
func (s *elementService) resolveLabels(ctx context.Context, labels []string, handbookID *int64) ([]int64, error) {
	wanted := slices.Clone(labels)
	slices.Sort(wanted)
	wanted = slices.Compact(wanted)

	versions, err := s.versions.ListByLabels(ctx, wanted, handbookID)
	if err != nil {
		return nil, fmt.Errorf("resolve version labels: %w", err)
	}

	found := make(map[string]struct{}, len(versions))
	ids := make([]int64, 0, len(versions))
	for _, v := range versions {
		found[v.Version] = struct{}{}
		ids = append(ids, v.ID)
	}

	var unknown []string
	for _, l := range wanted {
		if _, ok := found[l]; !ok {
			unknown = append(unknown, l)
		}
	}
	if len(unknown) > 0 {
		return nil, utils.NewBadRequest(
			utils.ErrCodeUnknownVersions,
			"handbook lists version labels that do not exist",
			dtos.UnknownVersionLabels{Labels: unknown},
			utils.ErrUnknownVersionLabels,
		)
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}
