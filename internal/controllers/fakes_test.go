package controllers

import (
	"context"
	"time"

	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/models"
	"github.com/poofware/handbook-service/internal/services"
)

type fakeHandbookService struct {
	err error

	gotPage dtos.PageQuery
	gotAt   time.Time
	gotID   int64
	calls   int
}

func (f *fakeHandbookService) ListHandbooks(_ context.Context, page dtos.PageQuery) (*dtos.HandbooksFullResponse, error) {
	f.calls++
	f.gotPage = page
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.HandbooksFullResponse{Handbooks: []dtos.HandbookFull{}}, nil
}

func (f *fakeHandbookService) ListHandbooksShort(_ context.Context, page dtos.PageQuery) (*dtos.HandbooksShortResponse, error) {
	f.calls++
	f.gotPage = page
	return &dtos.HandbooksShortResponse{Handbooks: []dtos.Handbook{{ID: 1, Name: "Currencies", ShortName: "CUR", Description: "ISO codes"}}}, f.err
}

func (f *fakeHandbookService) ActualForDate(_ context.Context, at time.Time, page dtos.PageQuery) (*dtos.HandbooksActualResponse, error) {
	f.calls++
	f.gotAt = at
	f.gotPage = page
	return &dtos.HandbooksActualResponse{Versions: []dtos.HandbookVersionDeep{}}, f.err
}

func (f *fakeHandbookService) CreateHandbook(_ context.Context, in dtos.HandbookInput) (*dtos.Handbook, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.Handbook{ID: 1, Name: in.Name, ShortName: in.ShortName, Description: in.Description}, nil
}

func (f *fakeHandbookService) UpdateHandbook(_ context.Context, id int64, in dtos.HandbookInput) (*dtos.Handbook, error) {
	f.calls++
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.Handbook{ID: id, Name: in.Name, ShortName: in.ShortName, Description: in.Description}, nil
}

func (f *fakeHandbookService) CreateVersion(_ context.Context, in dtos.HandbookVersionInput) (*dtos.HandbookVersion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	return &dtos.HandbookVersion{ID: 1, Version: in.Version, StartingDate: now, Created: now, Updated: now, HandbookIdentifier: in.HandbookIdentifier}, nil
}

func (f *fakeHandbookService) UpdateVersion(_ context.Context, id int64, in dtos.HandbookVersionInput) (*dtos.HandbookVersion, error) {
	f.calls++
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.HandbookVersion{ID: id, Version: in.Version, HandbookIdentifier: in.HandbookIdentifier}, nil
}

// fakeElementService reconciles against a fixed server set with the real
// reconciliation functions.
type fakeElementService struct {
	server []*models.HandbookElement
	err    error

	gotLabel string
	gotPage  dtos.PageQuery
	calls    int
}

func (f *fakeElementService) RecentElements(_ context.Context, _ int64, page dtos.PageQuery) (*dtos.RecentElementsResponse, error) {
	f.calls++
	f.gotPage = page
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.RecentElementsResponse{Elements: dtos.NewHandbookElements(f.server)}, nil
}

func (f *fakeElementService) VersionElements(_ context.Context, _ int64, label string, page dtos.PageQuery) (*dtos.VersionElementsResponse, error) {
	f.calls++
	f.gotLabel = label
	f.gotPage = page
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.VersionElementsResponse{Elements: dtos.NewHandbookElements(f.server)}, nil
}

func (f *fakeElementService) ValidateRecent(_ context.Context, _ int64, received []dtos.ElementSnapshot) (*dtos.BulkValidationResponse, error) {
	f.calls++
	return &dtos.BulkValidationResponse{ValidationErrors: services.ReconcileElements(f.server, received)}, f.err
}

func (f *fakeElementService) ValidateElement(_ context.Context, _ int64, label string, received dtos.ElementSnapshot) (*dtos.ElementValidationResponse, error) {
	f.calls++
	f.gotLabel = label
	if f.err != nil {
		return nil, f.err
	}
	var match *models.HandbookElement
	for _, e := range f.server {
		if e.ID == received.ID {
			match = e
		}
	}
	return &dtos.ElementValidationResponse{ValidationErrors: services.ReconcileElement(match, received)}, nil
}

func (f *fakeElementService) CreateElement(_ context.Context, in dtos.HandbookElementInput) (*dtos.HandbookElement, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.HandbookElement{ID: 1, ElementCode: in.ElementCode, ElementValue: in.ElementValue, Handbook: []int64{1}}, nil
}

func (f *fakeElementService) UpdateElement(_ context.Context, id int64, in dtos.HandbookElementInput) (*dtos.HandbookElement, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.HandbookElement{ID: id, ElementCode: in.ElementCode, ElementValue: in.ElementValue, Handbook: []int64{1}}, nil
}

var (
	_ services.HandbookService = (*fakeHandbookService)(nil)
	_ services.ElementService  = (*fakeElementService)(nil)
)
