package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sitecrew/sitecrew-backend-go/internal/domain/site"
	"github.com/sitecrew/sitecrew-backend-go/internal/handler/http/middleware"
	"github.com/sitecrew/sitecrew-backend-go/internal/handler/http/response"
)

type SiteHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type siteHandlerImpl struct {
	siteService site.SiteService
}

func NewSiteHandler(siteService site.SiteService) SiteHandler {
	return &siteHandlerImpl{siteService: siteService}
}

func (h *siteHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.siteService.GetSite(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *siteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := site.SiteFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Search:    optionalQuery(r, "search"),
		Page:      page,
		Limit:     limit,
	}

	result, err := h.siteService.ListSites(r.Context(), middleware.UserIDFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *siteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req site.CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.siteService.CreateSite(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Site created", result)
}

func (h *siteHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req site.UpdateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.siteService.UpdateSite(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Site updated", result)
}

func (h *siteHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.siteService.DeleteSite(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Site deleted", nil)
}
