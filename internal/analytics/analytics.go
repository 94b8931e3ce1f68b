package analytics

import (
	"strings"

	"github.com/crossdept/feedback-platform/internal/survey"
)

// DepartmentScore is the rollup for one evaluated department. HasData is the
// no-data sentinel: a department nobody surveyed reports no score rather
// than a misleading zero.
type DepartmentScore struct {
	DepartmentID int64   `json:"department_id"`
	Score        float64 `json:"score"`
	SurveyCount  int     `json:"survey_count"`
	HasData      bool    `json:"has_data"`
}

// CategoryScore is the rollup for one category across every department.
type CategoryScore struct {
	CategoryName  string  `json:"category_name"`
	Score         float64 `json:"score"`
	ResponseCount int     `json:"response_count"`
	HasData       bool    `json:"has_data"`
}

// RecordView is a survey record enriched with the display names search and
// listing need.
type RecordView struct {
	survey.Record
	SubmitterName      string `json:"submitter_name"`
	FromDepartmentName string `json:"from_department_name"`
	ToDepartmentName   string `json:"to_department_name"`
}

type RatingBand string

const (
	BandAny    RatingBand = ""
	BandLow    RatingBand = "low"    // record mean < 60
	BandMedium RatingBand = "medium" // 60 <= record mean < 80
	BandHigh   RatingBand = "high"   // record mean >= 80
)

func (b RatingBand) Matches(mean float64) bool {
	switch b {
	case BandLow:
		return mean < 60
	case BandMedium:
		return mean >= 60 && mean < 80
	case BandHigh:
		return mean >= 80
	default:
		return true
	}
}

type SortBy string

const (
	SortByDate   SortBy = "date"
	SortByRating SortBy = "rating"
)

// Filter narrows and orders a survey listing. SearchTerm matches
// case-insensitively against submitter name, source department name and any
// response's expectations text.
type Filter struct {
	SearchTerm string
	Band       RatingBand
	SortBy     SortBy
}

func (f Filter) matches(v *RecordView) bool {
	if !f.Band.Matches(v.MeanRating()) {
		return false
	}
	if f.SearchTerm == "" {
		return true
	}

	term := strings.ToLower(f.SearchTerm)
	if strings.Contains(strings.ToLower(v.SubmitterName), term) {
		return true
	}
	if strings.Contains(strings.ToLower(v.FromDepartmentName), term) {
		return true
	}
	for _, resp := range v.Responses {
		if strings.Contains(strings.ToLower(resp.Expectations), term) {
			return true
		}
	}
	return false
}

type Page struct {
	Limit  int
	Offset int
}

// SurveyPage is one stable slice of the filtered, sorted listing.
type SurveyPage struct {
	Records []*RecordView `json:"records"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}
