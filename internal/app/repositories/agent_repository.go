package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/dberrors"
	"github.com/yigit/edupath/internal/pkg/helpers"
	"github.com/yigit/edupath/internal/pkg/logger"
)

// PostgresAgentRepository handles agent database operations
type PostgresAgentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAgentRepository creates a new PostgresAgentRepository
func NewAgentRepository(db *pgxpool.Pool) *PostgresAgentRepository {
	return &PostgresAgentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var agentColumns = []string{"id", "name", "email", "phone", "country", "commission_rate", "is_active", "created_at", "updated_at"}

func scanAgent(row pgx.Row) (*models.Agent, error) {
	a := &models.Agent{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Country, &a.CommissionRate, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PostgresAgentRepository) Create(ctx context.Context, agent *models.Agent) (int64, error) {
	sql, args, err := r.sb.Insert("agents").
		Columns("name", "email", "phone", "country", "commission_rate", "is_active").
		Values(agent.Name, strings.ToLower(agent.Email), agent.Phone, agent.Country, agent.CommissionRate, agent.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create agent query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "agents_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", agent.Email).Msg("Error executing create agent query")
		return 0, fmt.Errorf("error creating agent: %w", err)
	}
	return agent.ID, nil
}

func (r *PostgresAgentRepository) GetByID(ctx context.Context, id int64) (*models.Agent, error) {
	sql, args, err := r.sb.Select(agentColumns...).From("agents").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get agent query: %w", err)
	}

	agent, err := scanAgent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAgentNotFound
		}
		return nil, fmt.Errorf("error getting agent: %w", err)
	}
	return agent, nil
}

func (r *PostgresAgentRepository) List(ctx context.Context, search string) ([]*models.Agent, error) {
	query := r.sb.Select(agentColumns...).From("agents").OrderBy("name ASC")
	if strings.TrimSpace(search) != "" {
		pattern := helpers.LikePattern(search)
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"country": pattern},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list agents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list agents query")
		return nil, fmt.Errorf("error querying agents: %w", err)
	}
	defer rows.Close()

	agents := []*models.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning agent row: %w", err)
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

func (r *PostgresAgentRepository) Update(ctx context.Context, agent *models.Agent) error {
	sql, args, err := r.sb.Update("agents").
		SetMap(map[string]interface{}{
			"name":            agent.Name,
			"email":           strings.ToLower(agent.Email),
			"phone":           agent.Phone,
			"country":         agent.Country,
			"commission_rate": agent.CommissionRate,
			"is_active":       agent.IsActive,
			"updated_at":      squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": agent.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update agent query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "agents_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("agentID", agent.ID).Msg("Error executing update agent query")
		return fmt.Errorf("error updating agent: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAgentNotFound
	}
	return nil
}

func (r *PostgresAgentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("agents").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete agent query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting agent: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAgentNotFound
	}
	return nil
}

func (r *PostgresAgentRepository) CountActive(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("agents").Where(squirrel.Eq{"is_active": true}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count agents query: %w", err)
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting agents: %w", err)
	}
	return count, nil
}
