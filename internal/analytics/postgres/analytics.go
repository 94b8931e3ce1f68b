package postgres

import (
	"github.com/crossdept/feedback-platform/internal/analytics"
	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
	"github.com/crossdept/feedback-platform/internal/survey"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) analytics.RepositoryAPI {
	return &AnalyticsRepository{db: db}
}

type recordNameRow struct {
	ID                 int64
	SubmitterName      string
	FromDepartmentName string
	ToDepartmentName   string
}

func (r *AnalyticsRepository) ListByTarget(toDeptID int64) ([]*analytics.RecordView, error) {
	var records []*surveyDatamodel.Record
	err := r.db.Preload("Responses").
		Where("to_department_id = ?", toDeptID).
		Order("submitted_at DESC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}

	var nameRows []recordNameRow
	err = r.db.Model(&surveyDatamodel.Record{}).
		Select("survey_records.id AS id, users.name AS submitter_name, from_dept.name AS from_department_name, to_dept.name AS to_department_name").
		Joins("JOIN users ON users.id = survey_records.submitted_by_id").
		Joins("JOIN departments from_dept ON from_dept.id = survey_records.from_department_id").
		Joins("JOIN departments to_dept ON to_dept.id = survey_records.to_department_id").
		Where("survey_records.id IN ?", ids).
		Scan(&nameRows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[int64]recordNameRow, len(nameRows))
	for _, row := range nameRows {
		names[row.ID] = row
	}

	views := make([]*analytics.RecordView, len(records))
	for i, rec := range records {
		row := names[rec.ID]
		views[i] = &analytics.RecordView{
			Record:             *survey.FromDataModel(rec),
			SubmitterName:      row.SubmitterName,
			FromDepartmentName: row.FromDepartmentName,
			ToDepartmentName:   row.ToDepartmentName,
		}
	}
	return views, nil
}

func (r *AnalyticsRepository) ListRatingsByCategory(categoryName string) ([]int, error) {
	var ratings []int
	err := r.db.Model(&surveyDatamodel.Response{}).
		Where("category_name = ?", categoryName).
		Order("id ASC").
		Pluck("rating", &ratings).Error
	return ratings, err
}

var _ analytics.RepositoryAPI = (*AnalyticsRepository)(nil)
