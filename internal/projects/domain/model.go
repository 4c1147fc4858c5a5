package domain

import "time"

// ProjectManager is the user responsible for a project.
type ProjectManager struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// Project is the read model of a project. Deletable is derived from booked
// hours and never stored.
type Project struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Contact        string          `json:"contact"`
	Active         bool            `json:"active"`
	DefaultProject bool            `json:"default_project"`
	ProjectManager *ProjectManager `json:"project_manager,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Deletable      bool            `json:"deletable"`
}

// ProjectInput carries the writable fields of a project. A blank Code is
// generated from the name.
type ProjectInput struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Contact          string `json:"contact"`
	Active           bool   `json:"active"`
	DefaultProject   bool   `json:"default_project"`
	ProjectManagerID *int64 `json:"project_manager_id"`
}
