package services

import (
	"fmt"
	"slices"

	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/models"
)

const noMatchingIDs = "no matching id's"

/*
ReconcileElements compares a client snapshot with the authoritative element set.

  - missing_id lists ids the client sent that the server does not have;
  - unexpected_id lists server ids the client did not send;
  - with no common id the result carries only the id-level error;
  - otherwise each common server element whose code (value) appears nowhere
    in the client list is reported in code_errors (value_errors).

Code and value membership is checked against the whole client list, not the
element with the same id.
*/
func ReconcileElements(server []*models.HandbookElement, received []dtos.ElementSnapshot) dtos.BulkValidationErrors {
	var out dtos.BulkValidationErrors

	receivedIDs := make(map[int64]struct{}, len(received))
	receivedCodes := make(map[string]struct{}, len(received))
	receivedValues := make(map[string]struct{}, len(received))
	for _, r := range received {
		receivedIDs[r.ID] = struct{}{}
		receivedCodes[r.ElementCode] = struct{}{}
		receivedValues[r.ElementValue] = struct{}{}
	}

	serverIDs := make(map[int64]struct{}, len(server))
	var common []*models.HandbookElement
	for _, e := range server {
		if _, dup := serverIDs[e.ID]; dup {
			continue
		}
		serverIDs[e.ID] = struct{}{}
		if _, ok := receivedIDs[e.ID]; ok {
			common = append(common, e)
		} else {
			out.UnexpectedID = append(out.UnexpectedID, e.ID)
		}
	}
	for id := range receivedIDs {
		if _, ok := serverIDs[id]; !ok {
			out.MissingID = append(out.MissingID, id)
		}
	}
	slices.Sort(out.MissingID)
	slices.Sort(out.UnexpectedID)

	if len(common) == 0 {
		out.IDError = noMatchingIDs
		return out
	}

	for _, e := range common {
		if _, ok := receivedCodes[e.ElementCode]; !ok {
			out.CodeErrors = append(out.CodeErrors, dtos.ElementCodeError{Element: dtos.NewHandbookElement(e)})
		}
		if _, ok := receivedValues[e.ElementValue]; !ok {
			out.ValueErrors = append(out.ValueErrors, dtos.ElementValueError{Element: dtos.NewHandbookElement(e)})
		}
	}
	return out
}

// ReconcileElement compares one client element with its server counterpart.
// A nil server element means the id is not part of the requested version.
func ReconcileElement(server *models.HandbookElement, received dtos.ElementSnapshot) dtos.ElementValidationErrors {
	if server == nil {
		return dtos.ElementValidationErrors{IDError: fmt.Sprintf("no such id %d", received.ID)}
	}
	var out dtos.ElementValidationErrors
	if server.ElementCode != received.ElementCode {
		out.ElementCodeError = server.ElementCode
	}
	if server.ElementValue != received.ElementValue {
		out.ElementValueError = server.ElementValue
	}
	return out
}
