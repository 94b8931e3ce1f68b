package postgres

import (
	"errors"
	"strings"

	"github.com/crossdept/feedback-platform/internal"
	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
	"github.com/crossdept/feedback-platform/internal/survey"
	"gorm.io/gorm"
)

type SurveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// CreateWithEligibility inserts the eligibility row and the record in one
// transaction. The eligibility insert goes first: its unique key over
// (user_id, cycle, department_id) is the authoritative duplicate guard, so
// the loser of a concurrent race fails here and the whole transaction rolls
// back before any record is written.
func (r *SurveyRepository) CreateWithEligibility(record *surveyDatamodel.Record, eligibility *surveyDatamodel.Eligibility) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(eligibility).Error; err != nil {
			if isDuplicateKey(err) {
				return survey.ErrAlreadySurveyed
			}
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		return err
	}
	return nil
}

func (r *SurveyRepository) GetByID(id int64) (*surveyDatamodel.Record, error) {
	var record surveyDatamodel.Record
	err := r.db.Preload("Responses").Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// HasSurveyed implements survey.EligibilityRepositoryAPI.
func (r *SurveyRepository) HasSurveyed(userID int64, cycle string, departmentID int64) (bool, error) {
	var count int64
	err := r.db.Model(&surveyDatamodel.Eligibility{}).
		Where("user_id = ? AND cycle = ? AND department_id = ?", userID, cycle, departmentID).
		Count(&count).Error
	return count > 0, err
}

// MarkSurveyed is add-if-absent: a duplicate insert is swallowed so marking
// stays idempotent.
func (r *SurveyRepository) MarkSurveyed(userID int64, cycle string, departmentID int64) error {
	err := r.db.Create(&surveyDatamodel.Eligibility{
		UserID:       userID,
		Cycle:        cycle,
		DepartmentID: departmentID,
	}).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite in tests reports constraint violations as plain errors
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
