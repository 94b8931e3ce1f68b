package postgres

import (
	categoryDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/category"
	departmentDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/department"
	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
	userDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/user"
	"github.com/crossdept/feedback-platform/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll() ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByID(id int64) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.Where("id = ?", id).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

// GetByName matches case-insensitively so "Finance" and "finance" collide.
func (r *DepartmentRepository) GetByName(name string) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(dept *departmentDatamodel.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) Update(dept *departmentDatamodel.Department) error {
	return r.db.Save(dept).Error
}

func (r *DepartmentRepository) Delete(id int64) error {
	return r.db.Delete(&departmentDatamodel.Department{}, id).Error
}

// IsReferenced reports whether any mapping, scoped category, user or survey
// record still points at the department.
func (r *DepartmentRepository) IsReferenced(id int64) (bool, error) {
	var count int64

	err := r.db.Model(&departmentDatamodel.Mapping{}).
		Where("from_department_id = ? OR to_department_id = ?", id, id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.Model(&categoryDatamodel.SurveyCategory{}).
		Where("scope_department_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.Model(&userDatamodel.User{}).
		Where("department_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.Model(&surveyDatamodel.Record{}).
		Where("from_department_id = ? OR to_department_id = ?", id, id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
