package domain

import (
	"github.com/Gorgija/ehour/internal/daterange"
)

// Criteria selects the hours that feed an aggregate report. Empty id lists
// mean no restriction.
type Criteria struct {
	Range      daterange.Range `json:"range"`
	UserIDs    []int64         `json:"user_ids,omitempty"`
	ProjectIDs []int64         `json:"project_ids,omitempty"`
}

// AggregateElement is the hour total booked on one assignment within the
// criteria, with its turnover.
type AggregateElement struct {
	AssignmentID int64    `json:"assignment_id"`
	UserID       int64    `json:"user_id"`
	UserFullName string   `json:"user_full_name"`
	ProjectID    int64    `json:"project_id"`
	ProjectCode  string   `json:"project_code"`
	ProjectName  string   `json:"project_name"`
	Role         string   `json:"role,omitempty"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
	Hours        float64  `json:"hours"`
	Turnover     float64  `json:"turnover"`
}

type AggregateReport struct {
	Criteria      Criteria           `json:"criteria"`
	Elements      []AggregateElement `json:"elements"`
	TotalHours    float64            `json:"total_hours"`
	TotalTurnover float64            `json:"total_turnover"`
}

// IsEmptyAggregateList reports whether the elements carry no hours at all.
func IsEmptyAggregateList(elements []AggregateElement) bool {
	var total float64
	for _, e := range elements {
		total += e.Hours
	}
	return total == 0
}
