package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/crossdept/feedback-platform/internal/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockUserLookup struct {
	byEmail map[string]*user.User
	byID    map[int64]*user.User
	err     error
}

func newMockUserLookup() *mockUserLookup {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	users := []*user.User{
		{ID: 1, Email: "dev@crossdept.local", Role: user.RoleUser, DepartmentID: 1, IsActive: true, PasswordHash: string(hash)},
		{ID: 2, Email: "hod@crossdept.local", Role: user.RoleHOD, DepartmentID: 1, IsActive: true, PasswordHash: string(hash)},
		{ID: 3, Email: "gone@crossdept.local", Role: user.RoleUser, DepartmentID: 1, IsActive: false, PasswordHash: string(hash)},
	}

	m := &mockUserLookup{
		byEmail: make(map[string]*user.User),
		byID:    make(map[int64]*user.User),
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserLookup) GetUserByEmail(email string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserLookup) GetUserByID(id int64) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service *Service
		users   *mockUserLookup
	)

	ginkgo.BeforeEach(func() {
		users = newMockUserLookup()
		tokenGen := NewJWTTokenGenerator(
			"test-access-secret-test-access-secret",
			"test-refresh-secret-test-refresh-secret",
			15*time.Minute,
			24*time.Hour,
		)
		service = NewService(users, tokenGen)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("returns a token pair with a session id", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "dev@crossdept.local",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
				gomega.Expect(claims.SessionID()).ToNot(gomega.BeEmpty())
			})

			ginkgo.It("mints a fresh session id per login", func() {
				first, err := service.Authenticate(LoginDTO{Email: "dev@crossdept.local", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				second, err := service.Authenticate(LoginDTO{Email: "dev@crossdept.local", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				firstClaims, err := service.ValidateAccessToken(first.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				secondClaims, err := service.ValidateAccessToken(second.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				gomega.Expect(firstClaims.SessionID()).ToNot(gomega.Equal(secondClaims.SessionID()))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("rejects an unknown email", func() {
				_, err := service.Authenticate(LoginDTO{Email: "nobody@crossdept.local", Password: "any"})
				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("rejects a wrong password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "dev@crossdept.local", Password: "wrong"})
				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("does not leak whether the account exists", func() {
				_, unknownErr := service.Authenticate(LoginDTO{Email: "nobody@crossdept.local", Password: "x"})
				_, wrongErr := service.Authenticate(LoginDTO{Email: "dev@crossdept.local", Password: "x"})
				gomega.Expect(unknownErr).To(gomega.Equal(wrongErr))
			})
		})

		ginkgo.Context("when the user is inactive", func() {
			ginkgo.It("rejects the login", func() {
				_, err := service.Authenticate(LoginDTO{Email: "gone@crossdept.local", Password: "correct_password"})
				gomega.Expect(err).To(gomega.Equal(ErrUserInactive))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("requires an email", func() {
				_, err := service.Authenticate(LoginDTO{Password: "x"})
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("requires a password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "dev@crossdept.local"})
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("keeps the session id across a refresh", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "hod@crossdept.local", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			originalClaims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshedClaims, err := service.ValidateAccessToken(refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshedClaims.SessionID()).To(gomega.Equal(originalClaims.SessionID()))
		})

		ginkgo.It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("rejects a refresh for a deactivated user", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "dev@crossdept.local", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			users.byID[1].IsActive = false

			_, err = service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).To(gomega.Equal(ErrUserInactive))
		})
	})
})
