package survey

import (
	"log/slog"

	"github.com/crossdept/feedback-platform/internal/user"
)

// EligibilityRepositoryAPI is the persisted surveyed-department set. Marking
// is add-if-absent: the unique key makes a repeat mark a no-op and a
// concurrent duplicate a conflict.
type EligibilityRepositoryAPI interface {
	HasSurveyed(userID int64, cycle string, departmentID int64) (bool, error)
	MarkSurveyed(userID int64, cycle string, departmentID int64) error
}

// Tracker answers "may this user still survey that department" on the read
// side. It is advisory only: the commit path re-validates through the atomic
// eligibility insert, because two requests can both pass here before either
// writes.
type Tracker struct {
	repo   EligibilityRepositoryAPI
	cycle  string
	logger *slog.Logger
}

func NewTracker(repo EligibilityRepositoryAPI, cycle string, logger *slog.Logger) *Tracker {
	return &Tracker{
		repo:   repo,
		cycle:  cycle,
		logger: logger,
	}
}

func (t *Tracker) Cycle() string {
	return t.cycle
}

// IsEligible is false when the target is the user's own acting department or
// the user already surveyed the target this cycle.
func (t *Tracker) IsEligible(u *user.User, actingDeptID, toDeptID int64) (bool, error) {
	if toDeptID == actingDeptID {
		return false, nil
	}

	surveyed, err := t.repo.HasSurveyed(u.ID, t.cycle, toDeptID)
	if err != nil {
		t.logger.Error("failed to check surveyed set", "error", err, "user_id", u.ID, "department_id", toDeptID)
		return false, err
	}
	return !surveyed, nil
}

// MarkSurveyed appends the department to the user's surveyed set. Marking an
// already-present department is a no-op, not an error.
func (t *Tracker) MarkSurveyed(u *user.User, toDeptID int64) error {
	return t.repo.MarkSurveyed(u.ID, t.cycle, toDeptID)
}
