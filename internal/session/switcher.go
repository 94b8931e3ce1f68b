// Package session holds the per-session acting-department state. A head of
// department can act on behalf of any department in their affiliation set;
// everyone else always acts for their home department. The state is keyed by
// session id, never by user id, so two concurrent sessions of the same user
// do not see each other's switches.
package session

import (
	"log/slog"
	"sync"

	"github.com/crossdept/feedback-platform/internal"
	"github.com/crossdept/feedback-platform/internal/user"
)

var (
	ErrNotHOD        = internal.NewPermissionError("only a head of department may switch acting department", internal.ErrCodeHODRoleRequired)
	ErrNotAffiliated = internal.NewPermissionError("department is not in the user's affiliation set", internal.ErrCodeNotAffiliated)
)

// Switcher is the department context state machine. A session is in the
// Home state until a successful SwitchTo, and returns to Home on
// ResetToHome. There is no implicit expiry; logout is expected to reset.
type Switcher struct {
	mu     sync.RWMutex
	acting map[string]int64 // session id -> acting department id
	logger *slog.Logger
}

func NewSwitcher(logger *slog.Logger) *Switcher {
	return &Switcher{
		acting: make(map[string]int64),
		logger: logger,
	}
}

// ActingDepartment resolves the department the session currently acts for.
// Sessions that never switched, and sessions whose stored department fell
// out of the user's allowed set (affiliations were edited mid-session), fall
// back to the home department.
func (s *Switcher) ActingDepartment(sessionID string, u *user.User) int64 {
	s.mu.RLock()
	deptID, ok := s.acting[sessionID]
	s.mu.RUnlock()

	if !ok {
		return u.DepartmentID
	}
	if !u.CanActFor(deptID) {
		return u.DepartmentID
	}
	return deptID
}

// SwitchTo moves the session into ActingAs(departmentID). Switching to the
// current acting department is a no-op. Switching outside the affiliation
// set is a permission error, never a silent correction.
func (s *Switcher) SwitchTo(sessionID string, u *user.User, departmentID int64) error {
	if !u.IsHOD() {
		return ErrNotHOD
	}
	if !u.CanActFor(departmentID) {
		s.logger.Warn("acting department switch rejected",
			"user_id", u.ID,
			"session_id", sessionID,
			"department_id", departmentID)
		return ErrNotAffiliated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.acting[sessionID]; ok && current == departmentID {
		return nil
	}

	s.acting[sessionID] = departmentID
	s.logger.Info("acting department switched",
		"user_id", u.ID,
		"session_id", sessionID,
		"department_id", departmentID)
	return nil
}

// ResetToHome forces the session back to the Home state. Safe to call for
// sessions that never switched.
func (s *Switcher) ResetToHome(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.acting, sessionID)
}
