package analytics_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/crossdept/feedback-platform/internal/analytics"
	"github.com/crossdept/feedback-platform/internal/core/events"
	"github.com/crossdept/feedback-platform/internal/survey"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAnalyticsService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Analytics Service Suite")
}

type mockAnalyticsRepository struct {
	recordsByTarget   map[int64][]*analytics.RecordView
	ratingsByCategory map[string][]int
	listCalls         int
}

func newMockAnalyticsRepository() *mockAnalyticsRepository {
	return &mockAnalyticsRepository{
		recordsByTarget:   make(map[int64][]*analytics.RecordView),
		ratingsByCategory: make(map[string][]int),
	}
}

func (m *mockAnalyticsRepository) ListByTarget(toDeptID int64) ([]*analytics.RecordView, error) {
	m.listCalls++
	return m.recordsByTarget[toDeptID], nil
}

func (m *mockAnalyticsRepository) ListRatingsByCategory(categoryName string) ([]int, error) {
	return m.ratingsByCategory[categoryName], nil
}

func view(id int64, submittedAt time.Time, submitter, fromDept string, ratings ...int) *analytics.RecordView {
	responses := make([]survey.Response, len(ratings))
	for i, r := range ratings {
		responses[i] = survey.Response{CategoryName: "Responsiveness", Rating: r}
	}
	return &analytics.RecordView{
		Record: survey.Record{
			ID:          id,
			SubmittedAt: submittedAt,
			Responses:   responses,
		},
		SubmitterName:      submitter,
		FromDepartmentName: fromDept,
	}
}

var _ = Describe("AnalyticsService", func() {
	var (
		service *analytics.Service
		repo    *mockAnalyticsRepository
		logger  *slog.Logger
		base    time.Time
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		repo = newMockAnalyticsRepository()
		service = analytics.NewService(repo, logger)
		base = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	})

	Describe("DepartmentScore", func() {
		It("averages the per-record means, not the raw ratings", func() {
			// record one: mean 90 over two responses; record two: mean 20
			// over one response. Pooling the ratings would give 66.67; the
			// mean of means is 55.
			repo.recordsByTarget[2] = []*analytics.RecordView{
				view(1, base, "A", "Engineering", 80, 100),
				view(2, base, "B", "Finance", 20),
			}

			score, err := service.DepartmentScore(2)

			Expect(err).ToNot(HaveOccurred())
			Expect(score.HasData).To(BeTrue())
			Expect(score.SurveyCount).To(Equal(2))
			Expect(score.Score).To(BeNumerically("~", 55.0, 1e-9))
		})

		It("reports no data instead of a zero score", func() {
			score, err := service.DepartmentScore(7)

			Expect(err).ToNot(HaveOccurred())
			Expect(score.HasData).To(BeFalse())
			Expect(score.SurveyCount).To(BeZero())
		})

		It("caches until a submission invalidates", func() {
			bus := events.NewEventBus(logger)
			service.RegisterInvalidation(bus)

			repo.recordsByTarget[2] = []*analytics.RecordView{view(1, base, "A", "Engineering", 80)}

			_, err := service.DepartmentScore(2)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.DepartmentScore(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.listCalls).To(Equal(1))

			err = bus.PublishSync(context.Background(), events.NewSurveySubmitted(9, 1, 2, 100))
			Expect(err).ToNot(HaveOccurred())

			_, err = service.DepartmentScore(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.listCalls).To(Equal(2))
		})
	})

	Describe("CategoryScore", func() {
		It("averages every rating for the category", func() {
			repo.ratingsByCategory["Responsiveness"] = []int{20, 40, 60, 80, 100}

			score, err := service.CategoryScore("Responsiveness")

			Expect(err).ToNot(HaveOccurred())
			Expect(score.HasData).To(BeTrue())
			Expect(score.ResponseCount).To(Equal(5))
			Expect(score.Score).To(BeNumerically("~", 60.0, 1e-9))
		})

		It("reports no data for an unrated category", func() {
			score, err := service.CategoryScore("Communication")

			Expect(err).ToNot(HaveOccurred())
			Expect(score.HasData).To(BeFalse())
		})
	})

	Describe("FilteredSurveys", func() {
		BeforeEach(func() {
			repo.recordsByTarget[2] = []*analytics.RecordView{
				view(1, base.Add(1*time.Hour), "Alice", "Engineering", 100, 80), // mean 90
				view(2, base.Add(2*time.Hour), "Bob", "Finance", 60, 60),        // mean 60
				view(3, base.Add(3*time.Hour), "Carol", "Engineering", 20, 40),  // mean 30
				view(4, base.Add(3*time.Hour), "Dave", "Facilities", 80, 80),    // mean 80
			}
		})

		It("sorts by date descending with id breaking ties", func() {
			page, err := service.FilteredSurveys(2, analytics.Filter{}, analytics.Page{})

			Expect(err).ToNot(HaveOccurred())
			ids := []int64{page.Records[0].ID, page.Records[1].ID, page.Records[2].ID, page.Records[3].ID}
			Expect(ids).To(Equal([]int64{3, 4, 2, 1}))
		})

		It("sorts by rating descending", func() {
			page, err := service.FilteredSurveys(2, analytics.Filter{SortBy: analytics.SortByRating}, analytics.Page{})

			Expect(err).ToNot(HaveOccurred())
			ids := []int64{page.Records[0].ID, page.Records[1].ID, page.Records[2].ID, page.Records[3].ID}
			Expect(ids).To(Equal([]int64{1, 4, 2, 3}))
		})

		It("filters by rating band boundaries", func() {
			low, err := service.FilteredSurveys(2, analytics.Filter{Band: analytics.BandLow}, analytics.Page{})
			Expect(err).ToNot(HaveOccurred())
			Expect(low.Total).To(Equal(1))
			Expect(low.Records[0].ID).To(Equal(int64(3)))

			// 60 sits in the medium band, not low
			medium, err := service.FilteredSurveys(2, analytics.Filter{Band: analytics.BandMedium}, analytics.Page{})
			Expect(err).ToNot(HaveOccurred())
			Expect(medium.Total).To(Equal(1))
			Expect(medium.Records[0].ID).To(Equal(int64(2)))

			// 80 sits in the high band
			high, err := service.FilteredSurveys(2, analytics.Filter{Band: analytics.BandHigh}, analytics.Page{})
			Expect(err).ToNot(HaveOccurred())
			Expect(high.Total).To(Equal(2))
		})

		It("matches the search term case-insensitively", func() {
			page, err := service.FilteredSurveys(2, analytics.Filter{SearchTerm: "engineering"}, analytics.Page{})

			Expect(err).ToNot(HaveOccurred())
			Expect(page.Total).To(Equal(2))
		})

		It("searches the expectations text", func() {
			repo.recordsByTarget[2][1].Responses[0].Expectations = "Faster expense turnaround would help"

			page, err := service.FilteredSurveys(2, analytics.Filter{SearchTerm: "turnaround"}, analytics.Page{})

			Expect(err).ToNot(HaveOccurred())
			Expect(page.Total).To(Equal(1))
			Expect(page.Records[0].ID).To(Equal(int64(2)))
		})

		It("keeps page boundaries stable across calls", func() {
			first, err := service.FilteredSurveys(2, analytics.Filter{}, analytics.Page{Limit: 2})
			Expect(err).ToNot(HaveOccurred())
			second, err := service.FilteredSurveys(2, analytics.Filter{}, analytics.Page{Limit: 2, Offset: 2})
			Expect(err).ToNot(HaveOccurred())

			Expect(first.Records).To(HaveLen(2))
			Expect(second.Records).To(HaveLen(2))
			Expect(first.Total).To(Equal(4))

			seen := map[int64]bool{}
			for _, r := range append(first.Records, second.Records...) {
				Expect(seen[r.ID]).To(BeFalse())
				seen[r.ID] = true
			}
		})

		It("returns an empty page past the end", func() {
			page, err := service.FilteredSurveys(2, analytics.Filter{}, analytics.Page{Limit: 10, Offset: 10})

			Expect(err).ToNot(HaveOccurred())
			Expect(page.Records).To(BeEmpty())
			Expect(page.Total).To(Equal(4))
		})
	})
})
