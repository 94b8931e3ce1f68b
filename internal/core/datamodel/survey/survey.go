package survey

import "time"

// Record is one immutable submitted survey from one department about
// another. Responses live in their own table so category scores can be
// computed without unpacking a JSON blob.
type Record struct {
	ID               int64      `gorm:"primaryKey"`
	FromDepartmentID int64      `gorm:"column:from_department_id;not null;index"`
	ToDepartmentID   int64      `gorm:"column:to_department_id;not null;index"`
	SubmittedByID    int64      `gorm:"column:submitted_by_id;not null"`
	Cycle            string     `gorm:"column:cycle;not null;default:default"`
	SubmittedAt      time.Time  `gorm:"column:submitted_at;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;default:now()"`
	Responses        []Response `gorm:"foreignKey:SurveyRecordID"`
}

func (Record) TableName() string {
	return "survey_records"
}

type Response struct {
	ID             int64   `gorm:"primaryKey"`
	SurveyRecordID int64   `gorm:"column:survey_record_id;not null;index"`
	CategoryID     int64   `gorm:"column:category_id;not null"`
	CategoryName   string  `gorm:"column:category_name;not null"`
	Rating         int     `gorm:"column:rating;not null"`
	Expectations   string  `gorm:"column:expectations"`
	Priority       *string `gorm:"column:priority"`
}

func (Response) TableName() string {
	return "survey_responses"
}

// Eligibility is the atomic duplicate-submission guard. The unique index
// over (user_id, cycle, department_id) is what makes two concurrent
// submissions for the same target resolve to exactly one winner.
type Eligibility struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;uniqueIndex:idx_surveyed_departments_key;not null"`
	Cycle        string    `gorm:"column:cycle;uniqueIndex:idx_surveyed_departments_key;not null"`
	DepartmentID int64     `gorm:"column:department_id;uniqueIndex:idx_surveyed_departments_key;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (Eligibility) TableName() string {
	return "surveyed_departments"
}
