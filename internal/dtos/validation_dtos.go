package dtos

// ElementSnapshot is an element as held by a client. Only id, code and value
// take part in reconciliation; any extra keys are ignored.
type ElementSnapshot struct {
	ID           int64  `json:"id"`
	ElementCode  string `json:"element_code"`
	ElementValue string `json:"element_value"`
}

// ValidateRecentRequest is the body of POST /element/validate_recent/{id}/.
// A nil Elements means the key was absent; an empty list is allowed.
type ValidateRecentRequest struct {
	Elements *[]ElementSnapshot `json:"elements" validate:"required"`
}

// ValidateElementRequest is the body of POST /element/validate/{id}/.
type ValidateElementRequest struct {
	Version *string          `json:"version" validate:"required"`
	Element *ElementSnapshot `json:"element" validate:"required"`
}

type ElementCodeError struct {
	Element HandbookElement `json:"element_code_error"`
}

type ElementValueError struct {
	Element HandbookElement `json:"element_value_error"`
}

// BulkValidationErrors is empty when the client snapshot agrees with the server.
type BulkValidationErrors struct {
	IDError      string              `json:"id_error,omitempty"`
	MissingID    []int64             `json:"missing_id,omitempty"`
	UnexpectedID []int64             `json:"unexpected_id,omitempty"`
	CodeErrors   []ElementCodeError  `json:"code_errors,omitempty"`
	ValueErrors  []ElementValueError `json:"value_errors,omitempty"`
}

func (e BulkValidationErrors) Empty() bool {
	return e.IDError == "" && len(e.MissingID) == 0 && len(e.UnexpectedID) == 0 &&
		len(e.CodeErrors) == 0 && len(e.ValueErrors) == 0
}

// ElementValidationErrors carries the server-side code/value on mismatch.
type ElementValidationErrors struct {
	IDError           string `json:"id_error,omitempty"`
	ElementCodeError  string `json:"element_code_error,omitempty"`
	ElementValueError string `json:"element_value_error,omitempty"`
}

func (e ElementValidationErrors) Empty() bool {
	return e.IDError == "" && e.ElementCodeError == "" && e.ElementValueError == ""
}

type BulkValidationResponse struct {
	ValidationErrors BulkValidationErrors `json:"validation_errors"`
}

type ElementValidationResponse struct {
	ValidationErrors ElementValidationErrors `json:"validation_errors"`
}
