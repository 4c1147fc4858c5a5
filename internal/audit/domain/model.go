package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/Gorgija/ehour/internal/daterange"
)

// MaxAuditCount is the largest count FindAuditCount can report.
const MaxAuditCount int64 = math.MaxInt64

// Action types recorded by the audit middleware.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditEntry is one recorded administrative action.
type AuditEntry struct {
	ID           int64           `json:"id"`
	UserID       *int64          `json:"user_id,omitempty"`
	UserFullName string          `json:"user_full_name"`
	Date         time.Time       `json:"date"`
	Action       string          `json:"action"`
	Page         string          `json:"page"`
	Parameters   json.RawMessage `json:"parameters,omitempty"`
	Success      bool            `json:"success"`
	ActionType   string          `json:"action_type"`
	RequestID    string          `json:"request_id,omitempty"`
}

// AuditReportRequest filters the audit trail. Blank Action and Name match
// everything; Offset and Max only apply to paged queries.
type AuditReportRequest struct {
	Action string          `json:"action,omitempty"`
	Name   string          `json:"name,omitempty"`
	Range  daterange.Range `json:"range"`
	Offset *int            `json:"offset,omitempty"`
	Max    *int            `json:"max,omitempty"`
}

// AuditPage is one page of entries plus the total matching the filter.
type AuditPage struct {
	Entries []AuditEntry `json:"entries"`
	Total   int64        `json:"total"`
}
