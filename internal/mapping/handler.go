package mapping

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crossdept/feedback-platform/internal/department"
	"github.com/crossdept/feedback-platform/internal/transport"
	"github.com/crossdept/feedback-platform/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CanEvaluate(fromDeptID, toDeptID int64) (bool, error)
	PermittedTargets(fromDeptID int64) ([]*department.Department, error)
	Grant(dto GrantDTO) (*Grant, error)
	Revoke(fromDeptID, toDeptID int64) error
	GetAllGrants() ([]*Grant, error)
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

func (h *Handler) GetGrants(w http.ResponseWriter, r *http.Request) {
	grants, err := h.Service.GetAllGrants()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, grants)
}

func (h *Handler) GetPermittedTargets(w http.ResponseWriter, r *http.Request) {
	fromDeptID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	targets, err := h.Service.PermittedTargets(fromDeptID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]TargetResponse, len(targets))
	for i, t := range targets {
		responses[i] = TargetResponse{ID: t.ID, Name: t.Name, Description: t.Description}
	}
	h.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) GrantMapping(w http.ResponseWriter, r *http.Request) {
	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("GrantMapping: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.Service.Grant(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, grant)
}

func (h *Handler) RevokeMapping(w http.ResponseWriter, r *http.Request) {
	fromDeptID, err := strconv.ParseInt(chi.URLParam(r, "fromID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid source department ID")
		return
	}
	toDeptID, err := strconv.ParseInt(chi.URLParam(r, "toID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid target department ID")
		return
	}

	if err := h.Service.Revoke(fromDeptID, toDeptID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
