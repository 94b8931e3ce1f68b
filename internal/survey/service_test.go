package survey_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/crossdept/feedback-platform/internal"
	"github.com/crossdept/feedback-platform/internal/category"
	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
	"github.com/crossdept/feedback-platform/internal/core/events"
	"github.com/crossdept/feedback-platform/internal/department"
	"github.com/crossdept/feedback-platform/internal/survey"
	"github.com/crossdept/feedback-platform/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSurveyService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Survey Service Suite")
}

// mockSurveyRepository backs both the record store and the eligibility set.
// A mutex plus a keyed map reproduce the database's unique-index behavior so
// concurrent submissions resolve to one winner here too.
type mockSurveyRepository struct {
	mu       sync.Mutex
	records  map[int64]*surveyDatamodel.Record
	surveyed map[string]bool
	nextID   int64

	failCreate error
}

func newMockSurveyRepository() *mockSurveyRepository {
	return &mockSurveyRepository{
		records:  make(map[int64]*surveyDatamodel.Record),
		surveyed: make(map[string]bool),
		nextID:   1,
	}
}

func eligibilityKey(userID int64, cycle string, departmentID int64) string {
	return fmt.Sprintf("%d/%s/%d", userID, cycle, departmentID)
}

func (m *mockSurveyRepository) CreateWithEligibility(record *surveyDatamodel.Record, eligibility *surveyDatamodel.Eligibility) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate != nil {
		return m.failCreate
	}

	key := eligibilityKey(eligibility.UserID, eligibility.Cycle, eligibility.DepartmentID)
	if m.surveyed[key] {
		return survey.ErrAlreadySurveyed
	}
	m.surveyed[key] = true

	record.ID = m.nextID
	m.nextID++
	m.records[record.ID] = record
	return nil
}

func (m *mockSurveyRepository) GetByID(id int64) (*surveyDatamodel.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, survey.ErrSurveyNotFound
	}
	return record, nil
}

func (m *mockSurveyRepository) HasSurveyed(userID int64, cycle string, departmentID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surveyed[eligibilityKey(userID, cycle, departmentID)], nil
}

func (m *mockSurveyRepository) MarkSurveyed(userID int64, cycle string, departmentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surveyed[eligibilityKey(userID, cycle, departmentID)] = true
	return nil
}

type mockMappings struct {
	grants map[string]bool
}

func (m *mockMappings) allow(from, to int64) {
	m.grants[fmt.Sprintf("%d->%d", from, to)] = true
}

func (m *mockMappings) CanEvaluate(fromDeptID, toDeptID int64) (bool, error) {
	return m.grants[fmt.Sprintf("%d->%d", fromDeptID, toDeptID)], nil
}

type mockCategories struct {
	categories []*category.Category
}

func (m *mockCategories) ApplicableTo(targetDeptID int64) ([]*category.Category, error) {
	var applicable []*category.Category
	for _, cat := range m.categories {
		if cat.AppliesTo(targetDeptID) {
			applicable = append(applicable, cat)
		}
	}
	return applicable, nil
}

type mockDepartments struct {
	departments map[int64]*department.Department
}

func (m *mockDepartments) GetDepartmentByID(id int64) (*department.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, department.ErrDepartmentNotFound
}

var _ = Describe("SurveyService", func() {
	var (
		service     *survey.Service
		repo        *mockSurveyRepository
		mappings    *mockMappings
		categories  *mockCategories
		departments *mockDepartments
		bus         *events.EventBus
		logger      *slog.Logger
		submitter   *user.User
	)

	scopeID := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		repo = newMockSurveyRepository()
		mappings = &mockMappings{grants: make(map[string]bool)}
		departments = &mockDepartments{departments: map[int64]*department.Department{
			1: {ID: 1, Name: "Engineering"},
			2: {ID: 2, Name: "Human Resources"},
			3: {ID: 3, Name: "Finance"},
		}}
		categories = &mockCategories{categories: []*category.Category{
			{ID: 10, Name: "Responsiveness"},
			{ID: 11, Name: "Quality of Work"},
			{ID: 12, Name: "Recruitment Support", ScopeDepartmentID: scopeID(2)},
		}}
		bus = events.NewEventBus(logger)

		tracker := survey.NewTracker(repo, "2025-h2", logger)
		service = survey.NewService(repo, tracker, mappings, categories, departments, bus, logger)

		submitter = &user.User{
			ID:           100,
			Email:        "dev@crossdept.local",
			Role:         user.RoleUser,
			DepartmentID: 1,
			IsActive:     true,
		}

		mappings.allow(1, 2)
		mappings.allow(1, 3)
	})

	validSubmission := func(toDeptID int64) survey.SubmitSurveyDTO {
		responses := map[string]survey.ResponseDTO{
			"Responsiveness":  {Rating: 80},
			"Quality of Work": {Rating: 100},
		}
		if toDeptID == 2 {
			responses["Recruitment Support"] = survey.ResponseDTO{Rating: 80}
		}
		return survey.SubmitSurveyDTO{ToDepartmentID: toDeptID, Responses: responses}
	}

	Describe("Submit", func() {
		Context("with a valid submission", func() {
			It("persists the record and marks the target surveyed", func() {
				record, err := service.Submit(context.Background(), submitter, 0, validSubmission(2))

				Expect(err).ToNot(HaveOccurred())
				Expect(record.ID).ToNot(BeZero())
				Expect(record.FromDepartmentID).To(Equal(int64(1)))
				Expect(record.ToDepartmentID).To(Equal(int64(2)))
				Expect(record.Responses).To(HaveLen(3))

				surveyed, err := repo.HasSurveyed(submitter.ID, "2025-h2", 2)
				Expect(err).ToNot(HaveOccurred())
				Expect(surveyed).To(BeTrue())
			})

			It("defaults the acting department to the user's home department", func() {
				record, err := service.Submit(context.Background(), submitter, 0, validSubmission(3))

				Expect(err).ToNot(HaveOccurred())
				Expect(record.FromDepartmentID).To(Equal(submitter.DepartmentID))
			})

			It("ignores extra responses for categories that do not apply", func() {
				dto := validSubmission(3)
				dto.Responses["Recruitment Support"] = survey.ResponseDTO{Rating: 999}

				record, err := service.Submit(context.Background(), submitter, 0, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(record.Responses).To(HaveLen(2))
			})
		})

		Context("when the target is the acting department", func() {
			It("rejects the self-survey", func() {
				_, err := service.Submit(context.Background(), submitter, 0, validSubmission(1))

				Expect(err).To(Equal(survey.ErrSelfSurvey))
			})
		})

		Context("when the target was already surveyed", func() {
			It("rejects the duplicate", func() {
				_, err := service.Submit(context.Background(), submitter, 0, validSubmission(2))
				Expect(err).ToNot(HaveOccurred())

				_, err = service.Submit(context.Background(), submitter, 0, validSubmission(2))
				Expect(err).To(Equal(survey.ErrNotEligible))
			})
		})

		Context("when no mapping permits the evaluation", func() {
			It("rejects with a permission error", func() {
				hrUser := &user.User{ID: 200, Role: user.RoleUser, DepartmentID: 2, IsActive: true}

				_, err := service.Submit(context.Background(), hrUser, 0, validSubmission(3))

				Expect(err).To(Equal(survey.ErrNotPermitted))
			})

			It("checks eligibility before the mapping", func() {
				// department 3 never got a grant toward 2, and the user
				// already surveyed 2: the duplicate answer wins
				financeUser := &user.User{ID: 300, Role: user.RoleUser, DepartmentID: 3, IsActive: true}
				Expect(repo.MarkSurveyed(financeUser.ID, "2025-h2", 2)).To(Succeed())

				_, err := service.Submit(context.Background(), financeUser, 0, validSubmission(2))

				Expect(err).To(Equal(survey.ErrNotEligible))
			})
		})

		Context("when responses are incomplete", func() {
			It("names the missing categories", func() {
				dto := survey.SubmitSurveyDTO{
					ToDepartmentID: 2,
					Responses: map[string]survey.ResponseDTO{
						"Responsiveness": {Rating: 80},
					},
				}

				_, err := service.Submit(context.Background(), submitter, 0, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeIncompleteResponses))
				Expect(appErr.Message).To(ContainSubstring("Quality of Work"))
			})

			It("does not require scoped categories for other targets", func() {
				dto := survey.SubmitSurveyDTO{
					ToDepartmentID: 3,
					Responses: map[string]survey.ResponseDTO{
						"Responsiveness":  {Rating: 80},
						"Quality of Work": {Rating: 100},
					},
				}

				_, err := service.Submit(context.Background(), submitter, 0, dto)

				Expect(err).ToNot(HaveOccurred())
			})
		})

		Context("when a low rating has no expectations note", func() {
			It("rejects ratings on the threshold", func() {
				dto := validSubmission(2)
				dto.Responses["Responsiveness"] = survey.ResponseDTO{Rating: 60}

				_, err := service.Submit(context.Background(), submitter, 0, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeMissingJustification))
			})

			It("accepts a low rating with a note", func() {
				dto := validSubmission(2)
				dto.Responses["Responsiveness"] = survey.ResponseDTO{
					Rating:       20,
					Expectations: "Responses took weeks, a day or two would be workable",
				}

				_, err := service.Submit(context.Background(), submitter, 0, dto)

				Expect(err).ToNot(HaveOccurred())
			})
		})

		Context("when a rating is off the scale", func() {
			It("rejects intermediate values", func() {
				dto := validSubmission(2)
				dto.Responses["Quality of Work"] = survey.ResponseDTO{Rating: 75}

				_, err := service.Submit(context.Background(), submitter, 0, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRating))
			})

			It("checks justification before the rating domain", func() {
				// 15 is both off-scale and below the threshold; the missing
				// note is reported first
				dto := validSubmission(2)
				dto.Responses["Quality of Work"] = survey.ResponseDTO{Rating: 15}

				_, err := service.Submit(context.Background(), submitter, 0, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeMissingJustification))
			})
		})

		Context("when the target department does not exist", func() {
			It("returns not found", func() {
				_, err := service.Submit(context.Background(), submitter, 0, validSubmission(99))

				Expect(err).To(Equal(department.ErrDepartmentNotFound))
			})
		})

		Context("when the user cannot act for the chosen department", func() {
			It("rejects a non-affiliated acting department", func() {
				_, err := service.Submit(context.Background(), submitter, 3, validSubmission(2))

				Expect(err).To(Equal(survey.ErrActingNotAllowed))
			})

			It("allows an affiliated head of department", func() {
				hod := &user.User{
					ID:             400,
					Role:           user.RoleHOD,
					DepartmentID:   1,
					IsActive:       true,
					AffiliationIDs: []int64{3},
				}
				mappings.allow(3, 2)

				record, err := service.Submit(context.Background(), hod, 3, validSubmission(2))

				Expect(err).ToNot(HaveOccurred())
				Expect(record.FromDepartmentID).To(Equal(int64(3)))
			})
		})

		Context("when submissions race for the same target", func() {
			It("lets exactly one in and rejects the rest as conflicts", func() {
				const attempts = 8

				var wg sync.WaitGroup
				errs := make([]error, attempts)
				for i := 0; i < attempts; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						_, errs[i] = service.Submit(context.Background(), submitter, 0, validSubmission(2))
					}(i)
				}
				wg.Wait()

				var successes, conflicts int
				for _, err := range errs {
					switch {
					case err == nil:
						successes++
					case err == survey.ErrAlreadySurveyed || err == survey.ErrNotEligible:
						conflicts++
					default:
						Fail(fmt.Sprintf("unexpected error: %v", err))
					}
				}

				Expect(successes).To(Equal(1))
				Expect(conflicts).To(Equal(attempts - 1))
				Expect(repo.records).To(HaveLen(1))
			})
		})

		Context("when the transaction fails", func() {
			It("persists nothing", func() {
				repo.failCreate = fmt.Errorf("connection reset")

				_, err := service.Submit(context.Background(), submitter, 0, validSubmission(2))

				Expect(err).To(HaveOccurred())
				Expect(repo.records).To(BeEmpty())
			})
		})
	})

	Describe("GetRecordByID", func() {
		It("returns not found for an unknown id", func() {
			_, err := service.GetRecordByID(12345)

			Expect(err).To(Equal(survey.ErrSurveyNotFound))
		})
	})
})
