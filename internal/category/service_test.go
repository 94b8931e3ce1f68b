package category_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/crossdept/feedback-platform/internal/category"
	categoryDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

type mockCategoryRepository struct {
	categories map[int64]*categoryDatamodel.SurveyCategory
	nextID     int64
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[int64]*categoryDatamodel.SurveyCategory),
		nextID:     1,
	}
}

func (m *mockCategoryRepository) GetAll() ([]*categoryDatamodel.SurveyCategory, error) {
	var all []*categoryDatamodel.SurveyCategory
	for _, cat := range m.categories {
		all = append(all, cat)
	}
	return all, nil
}

func (m *mockCategoryRepository) GetByID(id int64) (*categoryDatamodel.SurveyCategory, error) {
	return m.categories[id], nil
}

func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *mockCategoryRepository) GetByNameInScope(name string, scopeDeptID *int64) (*categoryDatamodel.SurveyCategory, error) {
	for _, cat := range m.categories {
		if cat.Name == name && sameScope(cat.ScopeDepartmentID, scopeDeptID) {
			return cat, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetApplicableTo(targetDeptID int64) ([]*categoryDatamodel.SurveyCategory, error) {
	var applicable []*categoryDatamodel.SurveyCategory
	for _, cat := range m.categories {
		if cat.ScopeDepartmentID == nil || *cat.ScopeDepartmentID == targetDeptID {
			applicable = append(applicable, cat)
		}
	}
	return applicable, nil
}

func (m *mockCategoryRepository) Create(cat *categoryDatamodel.SurveyCategory) error {
	cat.ID = m.nextID
	m.nextID++
	m.categories[cat.ID] = cat
	return nil
}

func (m *mockCategoryRepository) Update(cat *categoryDatamodel.SurveyCategory) error {
	m.categories[cat.ID] = cat
	return nil
}

func (m *mockCategoryRepository) Delete(id int64) error {
	delete(m.categories, id)
	return nil
}

var _ = Describe("CategoryService", func() {
	var (
		service *category.Service
		repo    *mockCategoryRepository
	)

	scope := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = newMockCategoryRepository()
		service = category.NewService(repo, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})

	Describe("CreateCategory", func() {
		It("creates a global category", func() {
			cat, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})

			Expect(err).ToNot(HaveOccurred())
			Expect(cat.IsGlobal()).To(BeTrue())
		})

		It("rejects a duplicate name in the same scope", func() {
			_, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).To(Equal(category.ErrDuplicateName))
		})

		It("allows the same name in different scopes", func() {
			_, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Turnaround"})
			Expect(err).ToNot(HaveOccurred())

			scoped, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Turnaround", ScopeDepartmentID: scope(3)})
			Expect(err).ToNot(HaveOccurred())
			Expect(scoped.IsGlobal()).To(BeFalse())
		})

		It("rejects a blank name", func() {
			_, err := service.CreateCategory(category.CreateCategoryDTO{Name: "   "})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ApplicableTo", func() {
		BeforeEach(func() {
			_, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CreateCategory(category.CreateCategoryDTO{Name: "Recruitment Support", ScopeDepartmentID: scope(2)})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CreateCategory(category.CreateCategoryDTO{Name: "Expense Turnaround", ScopeDepartmentID: scope(3)})
			Expect(err).ToNot(HaveOccurred())
		})

		It("includes globals plus the target's scoped categories", func() {
			applicable, err := service.ApplicableTo(2)

			Expect(err).ToNot(HaveOccurred())
			names := make([]string, len(applicable))
			for i, cat := range applicable {
				names[i] = cat.Name
			}
			Expect(names).To(ConsistOf("Responsiveness", "Recruitment Support"))
		})

		It("excludes categories scoped to other departments", func() {
			applicable, err := service.ApplicableTo(1)

			Expect(err).ToNot(HaveOccurred())
			Expect(applicable).To(HaveLen(1))
			Expect(applicable[0].Name).To(Equal("Responsiveness"))
		})
	})

	Describe("UpdateCategory", func() {
		It("rejects renaming onto an existing name in the same scope", func() {
			_, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).ToNot(HaveOccurred())
			second, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Communication"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UpdateCategory(second.ID, category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).To(Equal(category.ErrDuplicateName))
		})

		It("allows keeping the current name", func() {
			cat, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).ToNot(HaveOccurred())

			updated, err := service.UpdateCategory(cat.ID, category.CreateCategoryDTO{Name: "Responsiveness", Description: "Reaction speed"})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Description).To(Equal("Reaction speed"))
		})

		It("returns not found for an unknown id", func() {
			_, err := service.UpdateCategory(42, category.CreateCategoryDTO{Name: "Anything"})

			Expect(err).To(Equal(category.ErrCategoryNotFound))
		})
	})

	Describe("DeleteCategory", func() {
		It("removes the category", func() {
			cat, err := service.CreateCategory(category.CreateCategoryDTO{Name: "Responsiveness"})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteCategory(cat.ID)).To(Succeed())

			_, err = service.GetCategoryByID(cat.ID)
			Expect(err).To(Equal(category.ErrCategoryNotFound))
		})

		It("returns not found for an unknown id", func() {
			Expect(service.DeleteCategory(42)).To(Equal(category.ErrCategoryNotFound))
		})
	})
})
