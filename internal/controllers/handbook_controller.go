package controllers

import (
	"net/http"

	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/services"
	"github.com/poofware/handbook-service/internal/utils"
)

type HandbookController struct {
	svc  services.HandbookService
	page config.Pagination
}

func NewHandbookController(s services.HandbookService, page config.Pagination) *HandbookController {
	return &HandbookController{svc: s, page: page}
}

// ----------------------------------------------------------------
// GET /handbook/
// ----------------------------------------------------------------
func (c *HandbookController) ListHandbooksHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.svc.ListHandbooks(r.Context(), parsePage(r, c.page))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /handbook/short/
// ----------------------------------------------------------------
func (c *HandbookController) ListHandbooksShortHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.svc.ListHandbooksShort(r.Context(), parsePage(r, c.page))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /handbook/actual?date=
// ----------------------------------------------------------------
func (c *HandbookController) ActualForDateHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("date") {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing date query parameter", nil,
		)
		return
	}
	at, err := parseDate(q.Get("date"))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil, err,
		)
		return
	}

	resp, err := c.svc.ActualForDate(r.Context(), at, parsePage(r, c.page))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /post_handbook/
// ----------------------------------------------------------------
func (c *HandbookController) CreateHandbookHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateHandbookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.svc.CreateHandbook(r.Context(), *req.Handbook)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, out)
}

// ----------------------------------------------------------------
// PUT /handbook/{id}/
// ----------------------------------------------------------------
func (c *HandbookController) UpdateHandbookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.CreateHandbookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.svc.UpdateHandbook(r.Context(), id, *req.Handbook)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// POST /post_handbook_version/
// ----------------------------------------------------------------
func (c *HandbookController) CreateVersionHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateHandbookVersionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.svc.CreateVersion(r.Context(), *req.HandbookVersion)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, out)
}

// ----------------------------------------------------------------
// PUT /handbook_version/{id}/
// ----------------------------------------------------------------
func (c *HandbookController) UpdateVersionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.CreateHandbookVersionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.svc.UpdateVersion(r.Context(), id, *req.HandbookVersion)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
