package postgres

import (
	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
	userDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/user"
	"github.com/crossdept/feedback-platform/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAll() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) AffiliationIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.Affiliation{}).
		Where("user_id = ?", userID).
		Order("department_id ASC").
		Pluck("department_id", &ids).Error
	return ids, err
}

func (r *UserRepository) ReplaceAffiliations(userID int64, departmentIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.Affiliation{}).Error; err != nil {
			return err
		}
		for _, deptID := range departmentIDs {
			if err := tx.Create(&userDatamodel.Affiliation{UserID: userID, DepartmentID: deptID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) SurveyedDepartmentIDs(userID int64, cycle string) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&surveyDatamodel.Eligibility{}).
		Where("user_id = ? AND cycle = ?", userID, cycle).
		Order("department_id ASC").
		Pluck("department_id", &ids).Error
	return ids, err
}
