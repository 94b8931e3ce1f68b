package user_test

import (
	"log/slog"
	"os"
	"testing"

	userDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/user"
	"github.com/crossdept/feedback-platform/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

type mockUserRepository struct {
	users        map[int64]*userDatamodel.User
	affiliations map[int64][]int64
	surveyed     map[int64][]int64
	nextID       int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:        make(map[int64]*userDatamodel.User),
		affiliations: make(map[int64][]int64),
		surveyed:     make(map[int64][]int64),
		nextID:       1,
	}
}

func (m *mockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetAll() ([]*userDatamodel.User, error) {
	var all []*userDatamodel.User
	for _, u := range m.users {
		all = append(all, u)
	}
	return all, nil
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Update(u *userDatamodel.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) AffiliationIDs(userID int64) ([]int64, error) {
	return m.affiliations[userID], nil
}

func (m *mockUserRepository) ReplaceAffiliations(userID int64, departmentIDs []int64) error {
	m.affiliations[userID] = departmentIDs
	return nil
}

func (m *mockUserRepository) SurveyedDepartmentIDs(userID int64, cycle string) ([]int64, error) {
	return m.surveyed[userID], nil
}

var _ = Describe("UserService", func() {
	var (
		service *user.Service
		repo    *mockUserRepository
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		// cost 4 keeps the bcrypt work factor cheap for tests
		service = user.NewService(repo, 4, "2025-h2", slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})

	Describe("CreateUser", func() {
		It("creates an active user with a hashed password", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Email:        "Dev@CrossDept.local",
				Name:         "Developer",
				Password:     "long-enough",
				Role:         user.RoleUser,
				DepartmentID: 1,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.IsActive).To(BeTrue())
			Expect(u.Email).To(Equal("dev@crossdept.local"))
			Expect(repo.users[u.ID].PasswordHash).ToNot(Equal("long-enough"))
		})

		It("rejects a duplicate email regardless of case", func() {
			_, err := service.CreateUser(user.CreateUserDTO{
				Email: "dev@crossdept.local", Name: "A", Password: "long-enough", Role: user.RoleUser, DepartmentID: 1,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateUser(user.CreateUserDTO{
				Email: "DEV@crossdept.local", Name: "B", Password: "long-enough", Role: user.RoleUser, DepartmentID: 1,
			})
			Expect(err).To(Equal(user.ErrDuplicateEmail))
		})

		It("stores affiliations for a head of department", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Email: "hod@crossdept.local", Name: "HOD", Password: "long-enough",
				Role: user.RoleHOD, DepartmentID: 1, AffiliationIDs: []int64{2, 3},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.AffiliationIDs).To(ConsistOf(int64(2), int64(3)))
		})

		It("rejects affiliations on a regular user", func() {
			_, err := service.CreateUser(user.CreateUserDTO{
				Email: "dev@crossdept.local", Name: "Dev", Password: "long-enough",
				Role: user.RoleUser, DepartmentID: 1, AffiliationIDs: []int64{2},
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetAffiliations", func() {
		It("replaces the affiliation set of a HOD", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Email: "hod@crossdept.local", Name: "HOD", Password: "long-enough",
				Role: user.RoleHOD, DepartmentID: 1, AffiliationIDs: []int64{2},
			})
			Expect(err).ToNot(HaveOccurred())

			updated, err := service.SetAffiliations(u.ID, user.SetAffiliationsDTO{AffiliationIDs: []int64{3}})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.AffiliationIDs).To(ConsistOf(int64(3)))
		})

		It("rejects a non-HOD target", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Email: "dev@crossdept.local", Name: "Dev", Password: "long-enough",
				Role: user.RoleUser, DepartmentID: 1,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.SetAffiliations(u.ID, user.SetAffiliationsDTO{AffiliationIDs: []int64{2}})
			Expect(err).To(Equal(user.ErrNotHOD))
		})
	})

	Describe("DeactivateUser", func() {
		It("marks the user inactive", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Email: "dev@crossdept.local", Name: "Dev", Password: "long-enough",
				Role: user.RoleUser, DepartmentID: 1,
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeactivateUser(u.ID)).To(Succeed())

			reloaded, err := service.GetUserByID(u.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(reloaded.IsActive).To(BeFalse())
		})

		It("returns not found for an unknown user", func() {
			Expect(service.DeactivateUser(42)).To(Equal(user.ErrUserNotFound))
		})
	})

	Describe("CanActFor", func() {
		It("always allows the home department", func() {
			u := &user.User{Role: user.RoleUser, DepartmentID: 1}
			Expect(u.CanActFor(1)).To(BeTrue())
			Expect(u.CanActFor(2)).To(BeFalse())
		})

		It("allows a HOD their affiliations too", func() {
			u := &user.User{Role: user.RoleHOD, DepartmentID: 1, AffiliationIDs: []int64{2}}
			Expect(u.CanActFor(1)).To(BeTrue())
			Expect(u.CanActFor(2)).To(BeTrue())
			Expect(u.CanActFor(3)).To(BeFalse())
		})

		It("ignores affiliations on a non-HOD user", func() {
			u := &user.User{Role: user.RoleUser, DepartmentID: 1, AffiliationIDs: []int64{2}}
			Expect(u.CanActFor(2)).To(BeFalse())
		})
	})
})
