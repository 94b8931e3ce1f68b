package postgres

import (
	departmentDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/department"
	"github.com/crossdept/feedback-platform/internal/mapping"
	"gorm.io/gorm"
)

type MappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) mapping.RepositoryAPI {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) Exists(fromDeptID, toDeptID int64) (bool, error) {
	var count int64
	err := r.db.Model(&departmentDatamodel.Mapping{}).
		Where("from_department_id = ? AND to_department_id = ?", fromDeptID, toDeptID).
		Count(&count).Error
	return count > 0, err
}

func (r *MappingRepository) TargetsOf(fromDeptID int64) ([]*departmentDatamodel.Department, error) {
	var targets []*departmentDatamodel.Department
	err := r.db.
		Joins("JOIN department_mappings ON department_mappings.to_department_id = departments.id").
		Where("department_mappings.from_department_id = ?", fromDeptID).
		Order("departments.name ASC").
		Find(&targets).Error
	return targets, err
}

func (r *MappingRepository) Create(m *departmentDatamodel.Mapping) error {
	return r.db.Create(m).Error
}

func (r *MappingRepository) Delete(fromDeptID, toDeptID int64) (bool, error) {
	result := r.db.
		Where("from_department_id = ? AND to_department_id = ?", fromDeptID, toDeptID).
		Delete(&departmentDatamodel.Mapping{})
	return result.RowsAffected > 0, result.Error
}

func (r *MappingRepository) GetAll() ([]*departmentDatamodel.Mapping, error) {
	var mappings []*departmentDatamodel.Mapping
	err := r.db.Order("from_department_id ASC, to_department_id ASC").Find(&mappings).Error
	return mappings, err
}
