package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/exception"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
)

type exceptionRuleRepository struct {
	db *database.DB
}

func NewExceptionRuleRepository(db *database.DB) exception.RuleRepository {
	return &exceptionRuleRepository{db: db}
}

// GetByTenantAndType implements exception.RuleRepository.
func (r *exceptionRuleRepository) GetByTenantAndType(ctx context.Context, tenantID string, t exception.Type) (exception.AutoApprovalRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tenant_id, type, auto_approve, requires_document
		FROM exception_auto_approval_rules
		WHERE tenant_id = $1 AND type = $2
	`

	var rule exception.AutoApprovalRule
	err := q.QueryRow(ctx, query, tenantID, t).Scan(
		&rule.TenantID, &rule.Type, &rule.AutoApprove, &rule.RequiresDocument,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return exception.AutoApprovalRule{}, exception.ErrRuleNotFound
		}
		return exception.AutoApprovalRule{}, fmt.Errorf("failed to get auto-approval rule: %w", err)
	}

	return rule, nil
}

// ListByTenant implements exception.RuleRepository.
func (r *exceptionRuleRepository) ListByTenant(ctx context.Context, tenantID string) ([]exception.AutoApprovalRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tenant_id, type, auto_approve, requires_document
		FROM exception_auto_approval_rules
		WHERE tenant_id = $1
		ORDER BY type
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-approval rules: %w", err)
	}
	defer rows.Close()

	var rules []exception.AutoApprovalRule
	for rows.Next() {
		var rule exception.AutoApprovalRule
		if err := rows.Scan(&rule.TenantID, &rule.Type, &rule.AutoApprove, &rule.RequiresDocument); err != nil {
			return nil, fmt.Errorf("failed to scan auto-approval rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
