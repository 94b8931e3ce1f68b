package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;default:user"`
	DepartmentID int64     `gorm:"column:department_id;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

// Affiliation links a head-of-department user to a department they may act
// for. Regular users only ever act for their home department.
type Affiliation struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;uniqueIndex:idx_user_affiliations_pair;not null"`
	DepartmentID int64     `gorm:"column:department_id;uniqueIndex:idx_user_affiliations_pair;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (Affiliation) TableName() string {
	return "user_affiliations"
}
