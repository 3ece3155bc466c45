package controllers

import (
	"net/http"

	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/dtos"
	"github.com/poofware/handbook-service/internal/services"
	"github.com/poofware/handbook-service/internal/utils"
)

type ElementController struct {
	svc  services.ElementService
	page config.Pagination
}

func NewElementController(s services.ElementService, page config.Pagination) *ElementController {
	return &ElementController{svc: s, page: page}
}

// ----------------------------------------------------------------
// GET /element/actual/{handbook_id}/
// ----------------------------------------------------------------
func (c *ElementController) RecentElementsHandler(w http.ResponseWriter, r *http.Request) {
	handbookID, ok := pathID(w, r, "handbook_id")
	if !ok {
		return
	}
	resp, err := c.svc.RecentElements(r.Context(), handbookID, parsePage(r, c.page))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /element/version/{handbook_id}/?version=
// ----------------------------------------------------------------
func (c *ElementController) VersionElementsHandler(w http.ResponseWriter, r *http.Request) {
	handbookID, ok := pathID(w, r, "handbook_id")
	if !ok {
		return
	}
	q := r.URL.Query()
	if !q.Has("version") {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing version query parameter", nil,
		)
		return
	}
	resp, err := c.svc.VersionElements(r.Context(), handbookID, q.Get("version"), parsePage(r, c.page))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /element/validate_recent/{handbook_id}/
// ----------------------------------------------------------------
func (c *ElementController) ValidateRecentHandler(w http.ResponseWriter, r *http.Request) {
	handbookID, ok := pathID(w, r, "handbook_id")
	if !ok {
		return
	}
	var req dtos.ValidateRecentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.svc.ValidateRecent(r.Context(), handbookID, *req.Elements)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /element/validate/{handbook_id}/
// ----------------------------------------------------------------
func (c *ElementController) ValidateElementHandler(w http.ResponseWriter, r *http.Request) {
	handbookID, ok := pathID(w, r, "handbook_id")
	if !ok {
		return
	}
	var req dtos.ValidateElementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.svc.ValidateElement(r.Context(), handbookID, *req.Version, *req.Element)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /post_handbook_element/
// ----------------------------------------------------------------
func (c *ElementController) CreateElementHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateHandbookElementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.svc.CreateElement(r.Context(), *req.HandbookElement)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, out)
}

// ----------------------------------------------------------------
// PUT /handbook_element/{id}/
// ----------------------------------------------------------------
func (c *ElementController) UpdateElementHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.CreateHandbookElementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.svc.UpdateElement(r.Context(), id, *req.HandbookElement)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
