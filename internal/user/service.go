package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/crossdept/feedback-platform/internal"
	userDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound   = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrDuplicateEmail = internal.NewConflictError("a user with this email already exists", internal.ErrCodeDuplicateEmail)
	ErrNotHOD         = internal.NewValidationError("affiliations are only valid for the hod role", internal.ErrCodeHODRoleRequired)
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	GetAll() ([]*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	AffiliationIDs(userID int64) ([]int64, error)
	ReplaceAffiliations(userID int64, departmentIDs []int64) error
	SurveyedDepartmentIDs(userID int64, cycle string) ([]int64, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	cycle      string
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, cycle string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		cycle:      cycle,
		logger:     logger,
	}
}

// GetUserByID loads the user with the affiliation set and the surveyed set
// for the active cycle, which is the shape every core operation expects.
func (s *Service) GetUserByID(id int64) (*User, error) {
	dataUser, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrUserNotFound
	}
	return s.hydrate(dataUser)
}

func (s *Service) GetUserByEmail(email string) (*User, error) {
	dataUser, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrUserNotFound
	}
	return s.hydrate(dataUser)
}

func (s *Service) GetAllUsers() ([]*User, error) {
	dataUsers, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	users := make([]*User, len(dataUsers))
	for i, du := range dataUsers {
		u, err := s.hydrate(du)
		if err != nil {
			return nil, err
		}
		users[i] = u
	}
	return users, nil
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	dataUser := &userDatamodel.User{
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: string(hash),
		Role:         dto.Role,
		DepartmentID: dto.DepartmentID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(dataUser); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, err
	}

	if dto.Role == RoleHOD && len(dto.AffiliationIDs) > 0 {
		if err := s.repo.ReplaceAffiliations(dataUser.ID, dto.AffiliationIDs); err != nil {
			s.logger.Error("failed to set affiliations", "error", err, "user_id", dataUser.ID)
			return nil, err
		}
	}

	s.logger.Info("user created", "user_id", dataUser.ID, "email", email, "role", dto.Role)
	return s.hydrate(dataUser)
}

// SetAffiliations replaces a HOD's department affiliation set.
func (s *Service) SetAffiliations(userID int64, dto SetAffiliationsDTO) (*User, error) {
	dataUser, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if dataUser == nil {
		return nil, ErrUserNotFound
	}
	if dataUser.Role != RoleHOD {
		return nil, ErrNotHOD
	}

	if err := s.repo.ReplaceAffiliations(userID, dto.AffiliationIDs); err != nil {
		s.logger.Error("failed to replace affiliations", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("affiliations updated", "user_id", userID, "count", len(dto.AffiliationIDs))
	return s.hydrate(dataUser)
}

func (s *Service) DeactivateUser(userID int64) error {
	dataUser, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if dataUser == nil {
		return ErrUserNotFound
	}

	dataUser.IsActive = false
	dataUser.UpdatedAt = time.Now()
	if err := s.repo.Update(dataUser); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user deactivated", "user_id", userID)
	return nil
}

func (s *Service) hydrate(dataUser *userDatamodel.User) (*User, error) {
	affiliations, err := s.repo.AffiliationIDs(dataUser.ID)
	if err != nil {
		return nil, err
	}
	surveyed, err := s.repo.SurveyedDepartmentIDs(dataUser.ID, s.cycle)
	if err != nil {
		return nil, err
	}
	return FromDataModelWithSets(dataUser, affiliations, surveyed), nil
}
