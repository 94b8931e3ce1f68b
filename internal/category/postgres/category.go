package postgres

import (
	"github.com/crossdept/feedback-platform/internal/category"
	categoryDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]*categoryDatamodel.SurveyCategory, error) {
	var categories []*categoryDatamodel.SurveyCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(id int64) (*categoryDatamodel.SurveyCategory, error) {
	var cat categoryDatamodel.SurveyCategory
	err := r.db.Where("id = ?", id).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByNameInScope(name string, scopeDeptID *int64) (*categoryDatamodel.SurveyCategory, error) {
	var cat categoryDatamodel.SurveyCategory
	query := r.db.Where("LOWER(name) = LOWER(?)", name)
	if scopeDeptID == nil {
		query = query.Where("scope_department_id IS NULL")
	} else {
		query = query.Where("scope_department_id = ?", *scopeDeptID)
	}
	err := query.First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// GetApplicableTo returns global categories plus those scoped to the target.
func (r *CategoryRepository) GetApplicableTo(targetDeptID int64) ([]*categoryDatamodel.SurveyCategory, error) {
	var categories []*categoryDatamodel.SurveyCategory
	err := r.db.
		Where("scope_department_id IS NULL OR scope_department_id = ?", targetDeptID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Create(cat *categoryDatamodel.SurveyCategory) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *categoryDatamodel.SurveyCategory) error {
	return r.db.Save(cat).Error
}

func (r *CategoryRepository) Delete(id int64) error {
	return r.db.Delete(&categoryDatamodel.SurveyCategory{}, id).Error
}
