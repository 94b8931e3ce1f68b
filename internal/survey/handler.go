package survey

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crossdept/feedback-platform/internal"
	"github.com/crossdept/feedback-platform/internal/transport"
	"github.com/crossdept/feedback-platform/internal/user"
	"github.com/crossdept/feedback-platform/pkg/logger"
	"github.com/go-chi/chi"
)

type UserLookup interface {
	GetUserByID(id int64) (*user.User, error)
}

type SwitcherAPI interface {
	ActingDepartment(sessionID string, u *user.User) int64
}

type Handler struct {
	*transport.BaseHandler
	Service  *Service
	Users    UserLookup
	Switcher SwitcherAPI
}

func NewHandler(service *Service, users UserLookup, switcher SwitcherAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Users:       users,
		Switcher:    switcher,
	}
}

func (h *Handler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	sessionID := internal.SessionIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Users.GetUserByID(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto SubmitSurveyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitSurvey: invalid request body", "error", err, "user_id", userID)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// the acting department is resolved per request from session state and
	// passed in explicitly, so the service never reads ambient session data
	actingDeptID := h.Switcher.ActingDepartment(sessionID, u)

	record, err := h.Service.Submit(r.Context(), u, actingDeptID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitSurvey: record created",
		"record_id", record.ID,
		"user_id", userID,
		"to_department_id", dto.ToDepartmentID)

	h.WriteJSON(w, http.StatusCreated, record.ToResponse())
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid survey ID")
		return
	}

	record, err := h.Service.GetRecordByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record.ToResponse())
}
