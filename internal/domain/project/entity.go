package project

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ClientApprovers is the set of client-side user ids with approval
// authority over a project's entries, stored as a JSONB array.
type ClientApprovers []string

func (a ClientApprovers) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(ClientApprovers{})
	}
	return json.Marshal(a)
}

func (a *ClientApprovers) Scan(value interface{}) error {
	if value == nil {
		*a = ClientApprovers{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return errors.New("unsupported type for ClientApprovers")
}

// Contains reports whether the approver is named on the project.
func (a ClientApprovers) Contains(approverID string) bool {
	for _, id := range a {
		if id == approverID {
			return true
		}
	}
	return false
}

type Project struct {
	ID              string
	TenantID        string
	ClientID        *string
	Name            string
	HourlyRate      *float64
	ClientApprovers ClientApprovers
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
