package category

import "time"

// SurveyCategory is the persistence model for a rateable dimension. A nil
// ScopeDepartmentID means the category applies to every target department;
// otherwise it applies only when that department is the survey target.
type SurveyCategory struct {
	ID                int64     `gorm:"primaryKey"`
	Name              string    `gorm:"column:name;uniqueIndex:idx_categories_name_scope;not null"`
	Description       string    `gorm:"column:description"`
	ScopeDepartmentID *int64    `gorm:"column:scope_department_id;uniqueIndex:idx_categories_name_scope"`
	CreatedAt         time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time `gorm:"column:updated_at;default:now()"`
}

func (SurveyCategory) TableName() string {
	return "categories"
}
