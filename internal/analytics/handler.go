package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crossdept/feedback-platform/internal/transport"
	"github.com/crossdept/feedback-platform/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetDepartmentScore(w http.ResponseWriter, r *http.Request) {
	deptID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	score, err := h.Service.DepartmentScore(deptID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) GetCategoryScore(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.WriteError(w, http.StatusBadRequest, "category name is required")
		return
	}

	score, err := h.Service.CategoryScore(name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	deptID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	q := r.URL.Query()

	filter := Filter{SearchTerm: q.Get("search")}

	switch band := RatingBand(q.Get("band")); band {
	case BandAny, BandLow, BandMedium, BandHigh:
		filter.Band = band
	default:
		h.WriteError(w, http.StatusBadRequest, "band must be one of: low, medium, high")
		return
	}

	switch sortBy := SortBy(q.Get("sort")); sortBy {
	case SortByDate, SortByRating:
		filter.SortBy = sortBy
	case "":
		filter.SortBy = SortByDate
	default:
		h.WriteError(w, http.StatusBadRequest, "sort must be one of: date, rating")
		return
	}

	page := Page{}
	if raw := q.Get("limit"); raw != "" {
		page.Limit, err = strconv.Atoi(raw)
		if err != nil || page.Limit <= 0 {
			h.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}
	if raw := q.Get("offset"); raw != "" {
		page.Offset, err = strconv.Atoi(raw)
		if err != nil || page.Offset < 0 {
			h.WriteError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
	}

	result, err := h.Service.FilteredSurveys(deptID, filter, page)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
