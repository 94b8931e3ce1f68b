package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crossdept/feedback-platform/internal"
	"github.com/crossdept/feedback-platform/internal/transport"
	"github.com/crossdept/feedback-platform/internal/user"
	"github.com/crossdept/feedback-platform/pkg/logger"
)

type UserLookup interface {
	GetUserByID(id int64) (*user.User, error)
}

type SwitchDTO struct {
	DepartmentID int64 `json:"department_id"`
}

type ActingDepartmentResponse struct {
	DepartmentID int64 `json:"department_id"`
	IsHome       bool  `json:"is_home"`
}

type Handler struct {
	*transport.BaseHandler
	Switcher *Switcher
	Users    UserLookup
}

func NewHandler(switcher *Switcher, users UserLookup) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Switcher:    switcher,
		Users:       users,
	}
}

func (h *Handler) GetActingDepartment(w http.ResponseWriter, r *http.Request) {
	u, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	deptID := h.Switcher.ActingDepartment(sessionID, u)
	h.WriteJSON(w, http.StatusOK, ActingDepartmentResponse{
		DepartmentID: deptID,
		IsHome:       deptID == u.DepartmentID,
	})
}

func (h *Handler) SwitchDepartment(w http.ResponseWriter, r *http.Request) {
	u, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var dto SwitchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.DepartmentID == 0 {
		h.WriteError(w, http.StatusBadRequest, "department_id is required")
		return
	}

	if err := h.Switcher.SwitchTo(sessionID, u, dto.DepartmentID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ActingDepartmentResponse{
		DepartmentID: dto.DepartmentID,
		IsHome:       dto.DepartmentID == u.DepartmentID,
	})
}

func (h *Handler) ResetDepartment(w http.ResponseWriter, r *http.Request) {
	u, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	h.Switcher.ResetToHome(sessionID)
	h.WriteJSON(w, http.StatusOK, ActingDepartmentResponse{
		DepartmentID: u.DepartmentID,
		IsHome:       true,
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*user.User, string, bool) {
	userID := internal.UserIDFromContext(r.Context())
	sessionID := internal.SessionIDFromContext(r.Context())
	if userID == 0 || sessionID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}

	u, err := h.Users.GetUserByID(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, "", false
	}
	return u, sessionID, true
}
