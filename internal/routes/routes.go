package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poofware/handbook-service/internal/controllers"
	"github.com/poofware/handbook-service/internal/middleware"
)

const (
	// Ops
	Health  = "/health"
	Metrics = "/metrics"

	// Handbooks
	Handbooks       = "/handbook/"
	HandbooksShort  = "/handbook/short/"
	HandbooksActual = "/handbook/actual"

	// Elements
	ElementsRecent  = "/element/actual/{handbook_id:[0-9]+}/"
	ElementsVersion = "/element/version/{handbook_id:[0-9]+}/"
	ValidateRecent  = "/element/validate_recent/{handbook_id:[0-9]+}/"
	ValidateElement = "/element/validate/{handbook_id:[0-9]+}/"

	// Creates
	PostHandbook        = "/post_handbook/"
	PostHandbookVersion = "/post_handbook_version/"
	PostHandbookElement = "/post_handbook_element/"

	// Full-replace updates
	HandbookByID        = "/handbook/{id:[0-9]+}/"
	HandbookVersionByID = "/handbook_version/{id:[0-9]+}/"
	HandbookElementByID = "/handbook_element/{id:[0-9]+}/"
)

// Controllers groups what NewRouter mounts.
type Controllers struct {
	Health   *controllers.HealthController
	Handbook *controllers.HandbookController
	Element  *controllers.ElementController
}

func NewRouter(c Controllers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Instrument)

	router.HandleFunc(Health, c.Health.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(Metrics, promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc(Handbooks, c.Handbook.ListHandbooksHandler).Methods(http.MethodGet)
	router.HandleFunc(HandbooksShort, c.Handbook.ListHandbooksShortHandler).Methods(http.MethodGet)
	router.HandleFunc(HandbooksActual, c.Handbook.ActualForDateHandler).Methods(http.MethodGet)

	router.HandleFunc(ElementsRecent, c.Element.RecentElementsHandler).Methods(http.MethodGet)
	router.HandleFunc(ElementsVersion, c.Element.VersionElementsHandler).Methods(http.MethodGet)
	router.HandleFunc(ValidateRecent, c.Element.ValidateRecentHandler).Methods(http.MethodPost)
	router.HandleFunc(ValidateElement, c.Element.ValidateElementHandler).Methods(http.MethodPost)

	router.HandleFunc(PostHandbook, c.Handbook.CreateHandbookHandler).Methods(http.MethodPost)
	router.HandleFunc(PostHandbookVersion, c.Handbook.CreateVersionHandler).Methods(http.MethodPost)
	router.HandleFunc(PostHandbookElement, c.Element.CreateElementHandler).Methods(http.MethodPost)

	router.HandleFunc(HandbookByID, c.Handbook.UpdateHandbookHandler).Methods(http.MethodPut)
	router.HandleFunc(HandbookVersionByID, c.Handbook.UpdateVersionHandler).Methods(http.MethodPut)
	router.HandleFunc(HandbookElementByID, c.Element.UpdateElementHandler).Methods(http.MethodPut)

	return router
}
