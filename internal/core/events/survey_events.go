package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeSurveySubmitted = "survey.submitted"

// NewSurveySubmitted is published after a survey record commits, so read-side
// caches can drop everything derived from the old record set.
func NewSurveySubmitted(recordID, fromDepartmentID, toDepartmentID, submittedByID int64) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeSurveySubmitted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"record_id":          recordID,
			"from_department_id": fromDepartmentID,
			"to_department_id":   toDepartmentID,
			"submitted_by_id":    submittedByID,
		},
	}
}
