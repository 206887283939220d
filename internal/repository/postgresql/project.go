package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/project"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
)

type projectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepository{db: db}
}

// GetByID implements project.ProjectRepository.
func (r *projectRepository) GetByID(ctx context.Context, id string, tenantID string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, client_id, name, hourly_rate, client_approvers, created_at, updated_at
		FROM projects
		WHERE id = $1 AND tenant_id = $2
	`

	var p project.Project
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&p.ID, &p.TenantID, &p.ClientID, &p.Name, &p.HourlyRate, &p.ClientApprovers,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// GetRates implements project.ProjectRepository.
func (r *projectRepository) GetRates(ctx context.Context, tenantID string, ids []string) (map[string]float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, hourly_rate
		FROM projects
		WHERE tenant_id = $1
		  AND id = ANY($2)
		  AND hourly_rate IS NOT NULL
	`

	rows, err := q.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query project rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var id string
		var rate float64
		if err := rows.Scan(&id, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan project rate: %w", err)
		}
		rates[id] = rate
	}

	return rates, nil
}
