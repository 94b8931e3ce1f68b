package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/crossdept/feedback-platform/internal/core/events"
)

type RepositoryAPI interface {
	ListByTarget(toDeptID int64) ([]*RecordView, error)
	ListRatingsByCategory(categoryName string) ([]int, error)
}

// Service computes department and category rollups on demand. Scores are
// cached until the next submission; reads always see either the pre- or the
// post-submission record set, never a half-written record, because records
// commit atomically with their responses.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger

	mu             sync.RWMutex
	deptScoreCache map[int64]DepartmentScore
	categoryCache  map[string]CategoryScore
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		logger:         logger,
		deptScoreCache: make(map[int64]DepartmentScore),
		categoryCache:  make(map[string]CategoryScore),
	}
}

// RegisterInvalidation drops cached scores whenever a new survey commits.
func (s *Service) RegisterInvalidation(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeSurveySubmitted, func(ctx context.Context, event events.Event) error {
		s.InvalidateCache()
		return nil
	})
}

func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deptScoreCache = make(map[int64]DepartmentScore)
	s.categoryCache = make(map[string]CategoryScore)
}

// DepartmentScore is the mean of per-record means across every record
// targeting the department. The per-record means feed in unrounded.
func (s *Service) DepartmentScore(deptID int64) (DepartmentScore, error) {
	s.mu.RLock()
	cached, ok := s.deptScoreCache[deptID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	records, err := s.repo.ListByTarget(deptID)
	if err != nil {
		s.logger.Error("failed to load records for department score", "error", err, "department_id", deptID)
		return DepartmentScore{}, err
	}

	score := DepartmentScore{DepartmentID: deptID, SurveyCount: len(records)}
	if len(records) > 0 {
		sum := 0.0
		for _, r := range records {
			sum += r.MeanRating()
		}
		score.Score = sum / float64(len(records))
		score.HasData = true
	}

	s.mu.Lock()
	s.deptScoreCache[deptID] = score
	s.mu.Unlock()
	return score, nil
}

// CategoryScore is the arithmetic mean of every rating given for the
// category, regardless of which department was surveyed.
func (s *Service) CategoryScore(categoryName string) (CategoryScore, error) {
	s.mu.RLock()
	cached, ok := s.categoryCache[categoryName]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ratings, err := s.repo.ListRatingsByCategory(categoryName)
	if err != nil {
		s.logger.Error("failed to load ratings for category score", "error", err, "category", categoryName)
		return CategoryScore{}, err
	}

	score := CategoryScore{CategoryName: categoryName, ResponseCount: len(ratings)}
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		score.Score = float64(sum) / float64(len(ratings))
		score.HasData = true
	}

	s.mu.Lock()
	s.categoryCache[categoryName] = score
	s.mu.Unlock()
	return score, nil
}

// FilteredSurveys returns one page of the filtered, sorted listing for a
// target department. Sorting breaks ties by record id so page boundaries
// stay put across repeated calls over the same record set.
func (s *Service) FilteredSurveys(toDeptID int64, filter Filter, page Page) (*SurveyPage, error) {
	records, err := s.repo.ListByTarget(toDeptID)
	if err != nil {
		s.logger.Error("failed to load records for listing", "error", err, "department_id", toDeptID)
		return nil, err
	}

	filtered := make([]*RecordView, 0, len(records))
	for _, r := range records {
		if filter.matches(r) {
			filtered = append(filtered, r)
		}
	}

	switch filter.SortBy {
	case SortByRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			mi, mj := filtered[i].MeanRating(), filtered[j].MeanRating()
			if mi != mj {
				return mi > mj
			}
			return filtered[i].ID < filtered[j].ID
		})
	default: // date, newest first
		sort.SliceStable(filtered, func(i, j int) bool {
			if !filtered[i].SubmittedAt.Equal(filtered[j].SubmittedAt) {
				return filtered[i].SubmittedAt.After(filtered[j].SubmittedAt)
			}
			return filtered[i].ID < filtered[j].ID
		})
	}

	total := len(filtered)
	limit := page.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &SurveyPage{
		Records: filtered[start:end],
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}
