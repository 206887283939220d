package project

import (
	"context"
	"errors"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository exposes the reads the engine needs; project CRUD is
// managed elsewhere.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string, tenantID string) (Project, error)

	// GetRates returns project id -> hourly rate for the given projects.
	// Projects without a rate are omitted.
	GetRates(ctx context.Context, tenantID string, ids []string) (map[string]float64, error)
}
