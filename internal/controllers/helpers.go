package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/utils"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Accepted layouts for the date query parameter, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// decodeAndValidate reads a JSON body into dst and runs the validator. It
// writes the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Request failed validation", fieldErrors(err), err,
		)
		return false
	}
	return true
}

// fieldErrors flattens validator output to {field, rule} pairs. The leading
// struct name is dropped so fields read like JSON paths.
func fieldErrors(err error) []dtos.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dtos.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, dtos.FieldError{Field: field, Rule: fe.Tag()})
	}
	return out
}

// parsePage resolves limit and offset independently. Missing, non-numeric or
// out-of-range values fall back to the defaults; limit is capped at MaxLimit.
func parsePage(r *http.Request, p config.Pagination) dtos.PageQuery {
	q := r.URL.Query()
	page := dtos.PageQuery{Limit: p.DefaultLimit, Offset: p.DefaultOffset}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n >= 1 {
		page.Limit = min(n, p.MaxLimit)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n >= 0 {
		page.Offset = n
	}
	return page
}

// pathID parses a positive integer mux variable. It writes a 400 and returns
// false when the value is not usable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			fmt.Sprintf("Invalid %s %q", name, raw), nil, err,
		)
		return 0, false
	}
	return id, true
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q, expected YYYY-MM-DD HH:MM:SS", s)
}
