package survey

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crossdept/feedback-platform/internal"
	"github.com/crossdept/feedback-platform/internal/category"
	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
	"github.com/crossdept/feedback-platform/internal/core/events"
	"github.com/crossdept/feedback-platform/internal/department"
	"github.com/crossdept/feedback-platform/internal/user"
)

var (
	ErrSelfSurvey       = internal.NewPermissionError("a department cannot survey itself", internal.ErrCodeSelfSurvey)
	ErrNotEligible      = internal.NewPermissionError("this department has already been surveyed by the user", internal.ErrCodeNotEligible)
	ErrNotPermitted     = internal.NewPermissionError("the acting department is not permitted to evaluate the target department", internal.ErrCodeNotPermitted)
	ErrActingNotAllowed = internal.NewPermissionError("user may not act for this department", internal.ErrCodeNotAffiliated)
	ErrAlreadySurveyed  = internal.NewConflictError("already surveyed", internal.ErrCodeAlreadySurveyed)
	ErrSurveyNotFound   = internal.NewNotFoundError("survey record not found", internal.ErrCodeSurveyNotFound)
)

// RepositoryAPI persists survey records. CreateWithEligibility runs the
// record insert and the eligibility insert as one transaction; the unique
// eligibility key turns a concurrent duplicate into ErrAlreadySurveyed and
// rolls the record back.
type RepositoryAPI interface {
	CreateWithEligibility(record *surveyDatamodel.Record, eligibility *surveyDatamodel.Eligibility) error
	GetByID(id int64) (*surveyDatamodel.Record, error)
}

type MappingAPI interface {
	CanEvaluate(fromDeptID, toDeptID int64) (bool, error)
}

type CategoryAPI interface {
	ApplicableTo(targetDeptID int64) ([]*category.Category, error)
}

type DepartmentAPI interface {
	GetDepartmentByID(id int64) (*department.Department, error)
}

type Service struct {
	repo        RepositoryAPI
	eligibility *Tracker
	mappings    MappingAPI
	categories  CategoryAPI
	departments DepartmentAPI
	bus         *events.EventBus
	logger      *slog.Logger
}

func NewService(
	repo RepositoryAPI,
	eligibility *Tracker,
	mappings MappingAPI,
	categories CategoryAPI,
	departments DepartmentAPI,
	bus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		eligibility: eligibility,
		mappings:    mappings,
		categories:  categories,
		departments: departments,
		bus:         bus,
		logger:      logger,
	}
}

// Submit runs the full validation pipeline and persists the record. The
// checks run in a fixed order and stop at the first failure: eligibility,
// mapping, completeness, low-rating justification, rating domain. Nothing is
// persisted on any failing path.
func (s *Service) Submit(ctx context.Context, u *user.User, actingDeptID int64, dto SubmitSurveyDTO) (*Record, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if actingDeptID == 0 {
		actingDeptID = u.DepartmentID
	}
	if !u.CanActFor(actingDeptID) {
		s.logger.Warn("submit rejected: user cannot act for department",
			"user_id", u.ID, "acting_department_id", actingDeptID)
		return nil, ErrActingNotAllowed
	}

	// a submission against a deleted department is rejected, not dropped
	if _, err := s.departments.GetDepartmentByID(dto.ToDepartmentID); err != nil {
		return nil, err
	}

	// 1. eligibility
	if dto.ToDepartmentID == actingDeptID {
		return nil, ErrSelfSurvey
	}
	eligible, err := s.eligibility.IsEligible(u, actingDeptID, dto.ToDepartmentID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	// 2. mapping
	permitted, err := s.mappings.CanEvaluate(actingDeptID, dto.ToDepartmentID)
	if err != nil {
		return nil, err
	}
	if !permitted {
		return nil, ErrNotPermitted
	}

	// 3-5. responses against the applicable catalog
	applicable, err := s.categories.ApplicableTo(dto.ToDepartmentID)
	if err != nil {
		return nil, err
	}
	responses, err := s.validateResponses(applicable, dto.Responses)
	if err != nil {
		return nil, err
	}

	record := &Record{
		FromDepartmentID: actingDeptID,
		ToDepartmentID:   dto.ToDepartmentID,
		SubmittedByID:    u.ID,
		Cycle:            s.eligibility.Cycle(),
		SubmittedAt:      time.Now(),
		Responses:        responses,
	}

	dataRecord := ToDataModel(record)
	dataEligibility := &surveyDatamodel.Eligibility{
		UserID:       u.ID,
		Cycle:        s.eligibility.Cycle(),
		DepartmentID: dto.ToDepartmentID,
	}

	if err := s.repo.CreateWithEligibility(dataRecord, dataEligibility); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
			s.logger.Info("submit lost duplicate race",
				"user_id", u.ID, "to_department_id", dto.ToDepartmentID)
			return nil, err
		}
		s.logger.Error("failed to persist survey record",
			"error", err, "user_id", u.ID, "to_department_id", dto.ToDepartmentID)
		return nil, err
	}

	s.logger.Info("survey submitted",
		"record_id", dataRecord.ID,
		"user_id", u.ID,
		"from_department_id", actingDeptID,
		"to_department_id", dto.ToDepartmentID,
		"responses", len(responses))

	if s.bus != nil {
		event := events.NewSurveySubmitted(dataRecord.ID, actingDeptID, dto.ToDepartmentID, u.ID)
		if err := s.bus.PublishSync(ctx, event); err != nil {
			// the record is committed; cache invalidation failure is not a
			// submission failure
			s.logger.Warn("survey.submitted event failed", "error", err, "record_id", dataRecord.ID)
		}
	}

	return FromDataModel(dataRecord), nil
}

// validateResponses enforces completeness, justification and the rating
// domain against the applicable categories. Entries for categories that do
// not apply to the target are ignored entirely.
func (s *Service) validateResponses(applicable []*category.Category, submitted map[string]ResponseDTO) ([]Response, error) {
	// 3. completeness
	var missing []string
	for _, cat := range applicable {
		if _, ok := submitted[cat.Name]; !ok {
			missing = append(missing, cat.Name)
		}
	}
	if len(missing) > 0 {
		return nil, internal.NewValidationError(
			fmt.Sprintf("missing ratings for categories: %v", missing),
			internal.ErrCodeIncompleteResponses)
	}

	// 4. low-rating justification
	for _, cat := range applicable {
		resp := submitted[cat.Name]
		if resp.Rating <= JustificationThreshold && resp.Expectations == "" {
			return nil, internal.NewValidationError(
				fmt.Sprintf("category %q: ratings of %d or below require an expectations note", cat.Name, JustificationThreshold),
				internal.ErrCodeMissingJustification)
		}
	}

	// 5. rating domain
	for _, cat := range applicable {
		resp := submitted[cat.Name]
		if !IsValidRating(resp.Rating) {
			return nil, internal.NewValidationError(
				fmt.Sprintf("category %q: rating %d is not on the 20-100 five-point scale", cat.Name, resp.Rating),
				internal.ErrCodeInvalidRating)
		}
	}

	responses := make([]Response, 0, len(applicable))
	for _, cat := range applicable {
		resp := submitted[cat.Name]
		responses = append(responses, Response{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Rating:       resp.Rating,
			Expectations: resp.Expectations,
			Priority:     resp.Priority,
		})
	}
	return responses, nil
}

func (s *Service) GetRecordByID(id int64) (*Record, error) {
	dataRecord, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataRecord == nil {
		return nil, ErrSurveyNotFound
	}
	return FromDataModel(dataRecord), nil
}
