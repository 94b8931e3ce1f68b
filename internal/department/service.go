package department

import (
	"log/slog"
	"strings"

	"github.com/crossdept/feedback-platform/internal"
	departmentDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/department"
)

var (
	ErrDepartmentNotFound = internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	ErrDuplicateName      = internal.NewConflictError("a department with this name already exists", internal.ErrCodeDuplicateName)
	ErrDepartmentInUse    = internal.NewConflictError("department is referenced by mappings, categories, users or surveys", internal.ErrCodeDepartmentInUse)
)

type RepositoryAPI interface {
	GetAll() ([]*departmentDatamodel.Department, error)
	GetByID(id int64) (*departmentDatamodel.Department, error)
	GetByName(name string) (*departmentDatamodel.Department, error)
	Create(dept *departmentDatamodel.Department) error
	Update(dept *departmentDatamodel.Department) error
	Delete(id int64) error
	IsReferenced(id int64) (bool, error)
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

func (s *Service) GetAllDepartments() ([]*Department, error) {
	dataDepartments, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, err
	}

	return FromDataModelSlice(dataDepartments), nil
}

func (s *Service) GetDepartmentByID(id int64) (*Department, error) {
	dataDept, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get department", "error", err, "department_id", id)
		return nil, err
	}
	if dataDept == nil {
		return nil, ErrDepartmentNotFound
	}
	return FromDataModel(dataDept), nil
}

func (s *Service) CreateDepartment(dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	name := strings.TrimSpace(dto.Name)
	existing, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Error("failed to check department name", "error", err, "name", name)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	dept := NewDepartment(name, strings.TrimSpace(dto.Description))
	dataDept := ToDataModel(dept)
	if err := s.repo.Create(dataDept); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", name)
		return nil, err
	}

	s.logger.Info("department created", "department_id", dataDept.ID, "name", name)
	return FromDataModel(dataDept), nil
}

func (s *Service) UpdateDepartment(id int64, dto UpdateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dataDept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataDept == nil {
		return nil, ErrDepartmentNotFound
	}

	name := strings.TrimSpace(dto.Name)
	if !strings.EqualFold(name, dataDept.Name) {
		existing, err := s.repo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateName
		}
	}

	dataDept.Name = name
	dataDept.Description = strings.TrimSpace(dto.Description)
	if err := s.repo.Update(dataDept); err != nil {
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return nil, err
	}

	s.logger.Info("department updated", "department_id", id, "name", name)
	return FromDataModel(dataDept), nil
}

// DeleteDepartment refuses to delete while anything still references the
// department. Historical survey records therefore never end up pointing at
// a department that no longer exists.
func (s *Service) DeleteDepartment(id int64) error {
	dataDept, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dataDept == nil {
		return ErrDepartmentNotFound
	}

	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		s.logger.Error("failed to check department references", "error", err, "department_id", id)
		return err
	}
	if referenced {
		s.logger.Warn("delete refused: department still referenced", "department_id", id)
		return ErrDepartmentInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete department", "error", err, "department_id", id)
		return err
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}
