package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/utils"
)

// updateError maps the outcomes of a repository UpdateWithRetry call.
// notFound is the sentinel reported when the row does not exist.
func updateError(entity string, id int64, notFound, err error) error {
	if err == nil {
		return nil
	}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return utils.NewNotFound(fmt.Sprintf("%s %d not found", entity, id), fmt.Errorf("%w: %w", notFound, err))
	case errors.Is(err, utils.ErrRowVersionConflict):
		return utils.NewConflict(utils.ErrCodeRowVersionConflict,
			fmt.Sprintf("%s %d is being modified concurrently, retry later", entity, id), err)
	case errors.Is(err, utils.ErrForeignKeyViolation):
		return unknownHandbookError(err)
	}
	return fmt.Errorf("update %s %d: %w", entity, id, err)
}

func unknownHandbookError(err error) error {
	return utils.NewBadRequest(
		utils.ErrCodeValidation,
		"handbook_identifier does not reference an existing handbook",
		[]dtos.FieldError{{Field: "handbook_identifier", Rule: "exists"}},
		err,
	)
}
