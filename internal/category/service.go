package category

import (
	"log/slog"
	"strings"

	"github.com/crossdept/feedback-platform/internal"
	categoryDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/category"
)

var (
	ErrCategoryNotFound = internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	ErrDuplicateName    = internal.NewConflictError("a category with this name already exists in the same scope", internal.ErrCodeDuplicateName)
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.SurveyCategory, error)
	GetByID(id int64) (*categoryDatamodel.SurveyCategory, error)
	GetByNameInScope(name string, scopeDeptID *int64) (*categoryDatamodel.SurveyCategory, error)
	GetApplicableTo(targetDeptID int64) ([]*categoryDatamodel.SurveyCategory, error)
	Create(cat *categoryDatamodel.SurveyCategory) error
	Update(cat *categoryDatamodel.SurveyCategory) error
	Delete(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories() ([]*Category, error) {
	dataCategories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}
	return FromDataModelSlice(dataCategories), nil
}

func (s *Service) GetCategoryByID(id int64) (*Category, error) {
	dataCat, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataCat == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(dataCat), nil
}

// ApplicableTo returns the categories a survey targeting the department must
// answer: every global one plus the ones scoped to exactly that department.
func (s *Service) ApplicableTo(targetDeptID int64) ([]*Category, error) {
	dataCategories, err := s.repo.GetApplicableTo(targetDeptID)
	if err != nil {
		s.logger.Error("failed to get applicable categories", "error", err, "target_department_id", targetDeptID)
		return nil, err
	}
	return FromDataModelSlice(dataCategories), nil
}

func (s *Service) CreateCategory(dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	name := strings.TrimSpace(dto.Name)
	existing, err := s.repo.GetByNameInScope(name, dto.ScopeDepartmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	cat := NewCategory(name, strings.TrimSpace(dto.Description), dto.ScopeDepartmentID)
	dataCat := ToDataModel(cat)
	if err := s.repo.Create(dataCat); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", name)
		return nil, err
	}

	s.logger.Info("category created", "category_id", dataCat.ID, "name", name, "scoped", dto.ScopeDepartmentID != nil)
	return FromDataModel(dataCat), nil
}

func (s *Service) UpdateCategory(id int64, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dataCat, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataCat == nil {
		return nil, ErrCategoryNotFound
	}

	name := strings.TrimSpace(dto.Name)
	existing, err := s.repo.GetByNameInScope(name, dto.ScopeDepartmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrDuplicateName
	}

	dataCat.Name = name
	dataCat.Description = strings.TrimSpace(dto.Description)
	dataCat.ScopeDepartmentID = dto.ScopeDepartmentID
	if err := s.repo.Update(dataCat); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, err
	}

	return FromDataModel(dataCat), nil
}

func (s *Service) DeleteCategory(id int64) error {
	dataCat, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dataCat == nil {
		return ErrCategoryNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return err
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
