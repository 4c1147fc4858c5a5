package domain

import (
	"time"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/daterange"
)

// MaxHoursPerDay bounds a single entry.
const MaxHoursPerDay = 24.0

// Entry is the hours one user booked on one assignment for one day.
type Entry struct {
	AssignmentID int64     `json:"assignment_id"`
	Date         time.Time `json:"date"`
	Hours        float64   `json:"hours"`
	Comment      string    `json:"comment,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EntryInput is a booking request. Zero hours with no comment clears the day.
type EntryInput struct {
	AssignmentID int64     `json:"assignment_id"`
	Date         time.Time `json:"date"`
	Hours        float64   `json:"hours"`
	Comment      string    `json:"comment"`
}

func (in EntryInput) Clears() bool {
	return in.Hours == 0 && in.Comment == ""
}

// AssignmentMonth is one bookable assignment with its entries in the month.
type AssignmentMonth struct {
	Assignment assigndomain.ProjectAssignment `json:"assignment"`
	Entries    []Entry                        `json:"entries"`
	Hours      float64                        `json:"hours"`
}

// MonthOverview is a user's timesheet for one calendar month.
type MonthOverview struct {
	UserID      int64              `json:"user_id"`
	Month       string             `json:"month"`
	Range       daterange.Range    `json:"range"`
	Assignments []AssignmentMonth  `json:"assignments"`
	DailyTotals map[string]float64 `json:"daily_totals"`
	TotalHours  float64            `json:"total_hours"`
}
