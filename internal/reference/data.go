// Package reference loads the static roles and assignment types and serves
// them through a redis read-through cache.
package reference

import (
	"fmt"
	"os"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	userdomain "github.com/Gorgija/ehour/internal/users/domain"
	"gopkg.in/yaml.v3"
)

// Data is the content of the reference YAML file.
type Data struct {
	Roles           []userdomain.Role                    `yaml:"roles"`
	AssignmentTypes []assigndomain.ProjectAssignmentType `yaml:"assignment_types"`
}

// Load reads and validates the reference file at path.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parse reference data: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Validate rejects empty or duplicated entries.
func (d Data) Validate() error {
	roles := make(map[string]bool, len(d.Roles))
	for _, r := range d.Roles {
		if r.Role == "" {
			return fmt.Errorf("reference data: role without code")
		}
		if roles[r.Role] {
			return fmt.Errorf("reference data: duplicate role %s", r.Role)
		}
		roles[r.Role] = true
	}

	ids := make(map[int]bool, len(d.AssignmentTypes))
	codes := make(map[string]bool, len(d.AssignmentTypes))
	for _, t := range d.AssignmentTypes {
		switch t.Code {
		case assigndomain.TypeDate, assigndomain.TypeFixed, assigndomain.TypeFlex:
		default:
			return fmt.Errorf("reference data: unknown assignment type code %q", t.Code)
		}
		if ids[t.ID] || codes[t.Code] {
			return fmt.Errorf("reference data: duplicate assignment type %d/%s", t.ID, t.Code)
		}
		ids[t.ID] = true
		codes[t.Code] = true
	}
	return nil
}
