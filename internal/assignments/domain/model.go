package domain

import (
	"time"

	"github.com/Gorgija/ehour/internal/daterange"
)

// Assignment type codes.
const (
	TypeDate  = "DATE"
	TypeFixed = "FIXED"
	TypeFlex  = "FLEX"
)

// ProjectAssignmentType is static reference data describing how an
// assignment is bounded: by dates only, or by an hour allotment.
type ProjectAssignmentType struct {
	ID   int    `json:"id" yaml:"id"`
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

func (t ProjectAssignmentType) IsAllotted() bool {
	return t.Code == TypeFixed || t.Code == TypeFlex
}

func (t ProjectAssignmentType) IsFlex() bool {
	return t.Code == TypeFlex
}

// ProjectAssignment links a user to a project for a date span.
//
// Deletable is derived at read time from the aggregation store and has no
// column; writes go through AssignmentInput.
type ProjectAssignment struct {
	ID             int64                 `json:"id"`
	UserID         int64                 `json:"user_id"`
	UserFullName   string                `json:"user_full_name,omitempty"`
	ProjectID      int64                 `json:"project_id"`
	ProjectCode    string                `json:"project_code,omitempty"`
	ProjectName    string                `json:"project_name,omitempty"`
	Type           ProjectAssignmentType `json:"type"`
	Role           string                `json:"role,omitempty"`
	HourlyRate     *float64              `json:"hourly_rate,omitempty"`
	Start          *time.Time            `json:"start,omitempty"`
	End            *time.Time            `json:"end,omitempty"`
	Active         bool                  `json:"active"`
	AllottedHours  *float64              `json:"allotted_hours,omitempty"`
	AllowedOverrun *float64              `json:"allowed_overrun,omitempty"`
	NotifyPM       bool                  `json:"notify_pm"`
	Deletable      bool                  `json:"deletable"`
}

// Span is the assignment's own date range.
func (a ProjectAssignment) Span() daterange.Range {
	return daterange.New(a.Start, a.End)
}

// CurrentlyActive applies the hide-inactive rule: active, already started and
// not yet ended at now.
func (a ProjectAssignment) CurrentlyActive(now time.Time) bool {
	if !a.Active {
		return false
	}
	if a.Start != nil && !a.Start.Before(now) {
		return false
	}
	if a.End != nil && !a.End.After(now) {
		return false
	}
	return true
}

// AssignmentInput carries the persisted fields of an assignment.
type AssignmentInput struct {
	UserID         int64      `json:"user_id"`
	ProjectID      int64      `json:"project_id"`
	TypeID         int        `json:"type_id"`
	Role           string     `json:"role"`
	HourlyRate     *float64   `json:"hourly_rate"`
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
	Active         bool       `json:"active"`
	AllottedHours  *float64   `json:"allotted_hours"`
	AllowedOverrun *float64   `json:"allowed_overrun"`
	NotifyPM       bool       `json:"notify_pm"`
}

// AssignmentHours is one row of the aggregation store: the hours recorded
// against a single assignment.
type AssignmentHours struct {
	AssignmentID int64   `json:"assignment_id"`
	Hours        float64 `json:"hours"`
}
