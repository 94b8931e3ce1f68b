package department

import "time"

// Department is the persistence model for an evaluable organizational unit.
type Department struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex:idx_departments_name;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Department) TableName() string {
	return "departments"
}

// Mapping is one directional evaluation grant: FromDepartmentID may survey
// ToDepartmentID. The pair is unique; self rows are rejected before they
// ever reach the database.
type Mapping struct {
	ID               int64     `gorm:"primaryKey"`
	FromDepartmentID int64     `gorm:"column:from_department_id;uniqueIndex:idx_department_mappings_pair;not null"`
	ToDepartmentID   int64     `gorm:"column:to_department_id;uniqueIndex:idx_department_mappings_pair;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;default:now()"`
}

func (Mapping) TableName() string {
	return "department_mappings"
}
