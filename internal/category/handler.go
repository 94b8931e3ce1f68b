package category

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crossdept/feedback-platform/internal/transport"
	"github.com/crossdept/feedback-platform/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAllCategories() ([]*Category, error)
	GetCategoryByID(id int64) (*Category, error)
	ApplicableTo(targetDeptID int64) ([]*Category, error)
	CreateCategory(dto CreateCategoryDTO) (*Category, error)
	UpdateCategory(id int64, dto CreateCategoryDTO) (*Category, error)
	DeleteCategory(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	// ?target=<deptID> narrows the list to the categories a survey of that
	// department must answer
	if targetStr := r.URL.Query().Get("target"); targetStr != "" {
		targetID, err := strconv.ParseInt(targetStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid target department ID")
			return
		}
		categories, err := h.Service.ApplicableTo(targetID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.writeCategoryList(w, categories)
		return
	}

	categories, err := h.Service.GetAllCategories()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeCategoryList(w, categories)
}

func (h *Handler) writeCategoryList(w http.ResponseWriter, categories []*Category) {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = c.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.CreateCategory(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, cat.ToResponse())
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.UpdateCategory(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cat.ToResponse())
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.Service.DeleteCategory(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
