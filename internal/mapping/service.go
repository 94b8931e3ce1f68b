package mapping

import (
	"log/slog"

	"github.com/crossdept/feedback-platform/internal"
	departmentDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/department"
	"github.com/crossdept/feedback-platform/internal/department"
)

var (
	ErrSelfMapping   = internal.NewValidationError("a department cannot be granted evaluation rights over itself", internal.ErrCodeSelfMapping)
	ErrGrantNotFound = internal.NewNotFoundError("no such evaluation grant", internal.ErrCodeNotPermitted)
)

type RepositoryAPI interface {
	Exists(fromDeptID, toDeptID int64) (bool, error)
	TargetsOf(fromDeptID int64) ([]*departmentDatamodel.Department, error)
	Create(mapping *departmentDatamodel.Mapping) error
	Delete(fromDeptID, toDeptID int64) (bool, error)
	GetAll() ([]*departmentDatamodel.Mapping, error)
}

type DepartmentLookup interface {
	GetDepartmentByID(id int64) (*department.Department, error)
}

// Service is the directional permission graph between departments. Grants
// are admin-authored; the graph may be arbitrarily dense and a department
// with no targets is simply unable to survey anyone.
type Service struct {
	repo        RepositoryAPI
	departments DepartmentLookup
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, departments DepartmentLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		logger:      logger,
	}
}

func (s *Service) CanEvaluate(fromDeptID, toDeptID int64) (bool, error) {
	if fromDeptID == toDeptID {
		return false, nil
	}
	return s.repo.Exists(fromDeptID, toDeptID)
}

func (s *Service) PermittedTargets(fromDeptID int64) ([]*department.Department, error) {
	dataTargets, err := s.repo.TargetsOf(fromDeptID)
	if err != nil {
		s.logger.Error("failed to load permitted targets", "error", err, "from_department_id", fromDeptID)
		return nil, err
	}
	return department.FromDataModelSlice(dataTargets), nil
}

func (s *Service) Grant(dto GrantDTO) (*Grant, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if dto.FromDepartmentID == dto.ToDepartmentID {
		return nil, ErrSelfMapping
	}

	// both endpoints must exist
	if _, err := s.departments.GetDepartmentByID(dto.FromDepartmentID); err != nil {
		return nil, err
	}
	if _, err := s.departments.GetDepartmentByID(dto.ToDepartmentID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(dto.FromDepartmentID, dto.ToDepartmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		// granting twice is a no-op, the grant is already in place
		mappings, err := s.repo.GetAll()
		if err != nil {
			return nil, err
		}
		for _, m := range mappings {
			if m.FromDepartmentID == dto.FromDepartmentID && m.ToDepartmentID == dto.ToDepartmentID {
				return FromDataModel(m), nil
			}
		}
	}

	dataMapping := &departmentDatamodel.Mapping{
		FromDepartmentID: dto.FromDepartmentID,
		ToDepartmentID:   dto.ToDepartmentID,
	}
	if err := s.repo.Create(dataMapping); err != nil {
		s.logger.Error("failed to create mapping",
			"error", err,
			"from_department_id", dto.FromDepartmentID,
			"to_department_id", dto.ToDepartmentID)
		return nil, err
	}

	s.logger.Info("evaluation right granted",
		"from_department_id", dto.FromDepartmentID,
		"to_department_id", dto.ToDepartmentID)
	return FromDataModel(dataMapping), nil
}

func (s *Service) Revoke(fromDeptID, toDeptID int64) error {
	if fromDeptID == toDeptID {
		return ErrSelfMapping
	}

	deleted, err := s.repo.Delete(fromDeptID, toDeptID)
	if err != nil {
		s.logger.Error("failed to revoke mapping",
			"error", err,
			"from_department_id", fromDeptID,
			"to_department_id", toDeptID)
		return err
	}
	if !deleted {
		return ErrGrantNotFound
	}

	s.logger.Info("evaluation right revoked",
		"from_department_id", fromDeptID,
		"to_department_id", toDeptID)
	return nil
}

func (s *Service) GetAllGrants() ([]*Grant, error) {
	mappings, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list mappings", "error", err)
		return nil, err
	}
	return FromDataModelSlice(mappings), nil
}
