package app

import (
	"context"
	"fmt"

	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/utils"
)

const seedShortName = "CUR"

var seedElements = []struct{ code, value string }{
	{"USD", "US Dollar"},
	{"EUR", "Euro"},
	{"RUB", "Russian Ruble"},
	{"GBP", "Pound Sterling"},
}

/*
SeedTestData inserts a demo Currencies handbook with one version and a few
elements. It is a no-op when a handbook with short name CUR already exists.
*/
func SeedTestData(ctx context.Context, a *App) error {
	existing, err := a.Handbooks.GetByShortName(ctx, seedShortName)
	if err != nil {
		return fmt.Errorf("check existing seed handbook: %w", err)
	}
	if existing != nil {
		utils.Logger.Info("seed data already present; skipping seeding")
		return nil
	}

	hb, err := a.HandbookService.CreateHandbook(ctx, dtos.HandbookInput{
		Name:        "Currencies",
		ShortName:   seedShortName,
		Description: "ISO codes",
	})
	if err != nil {
		return fmt.Errorf("seed handbook: %w", err)
	}

	v, err := a.HandbookService.CreateVersion(ctx, dtos.HandbookVersionInput{
		HandbookIdentifier: hb.ID,
		Version:            "2024-01",
	})
	if err != nil {
		return fmt.Errorf("seed version: %w", err)
	}

	for _, e := range seedElements {
		if _, err := a.ElementService.CreateElement(ctx, dtos.HandbookElementInput{
			Handbook:           []string{v.Version},
			HandbookIdentifier: utils.Ptr(hb.ID),
			ElementCode:        e.code,
			ElementValue:       e.value,
		}); err != nil {
			return fmt.Errorf("seed element %s: %w", e.code, err)
		}
	}

	utils.Logger.Infof("Seeded handbook %q (id=%d) with %d elements", hb.ShortName, hb.ID, len(seedElements))
	return nil
}
