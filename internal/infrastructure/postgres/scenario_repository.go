package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

var _ repository.ScenarioRepository = (*ScenarioRepo)(nil)

// ScenarioRepo dimensión dim_scenario. Las migraciones siembran Actual y Budget.
type ScenarioRepo struct {
	q Querier
}

func NewScenarioRepository(q Querier) *ScenarioRepo {
	return &ScenarioRepo{q: q}
}

func (r *ScenarioRepo) Create(ctx context.Context, s *entity.Scenario) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO dim_scenario (scenario_name, description) VALUES ($1, $2) RETURNING scenario_key`,
		s.Name, s.Description,
	).Scan(&s.Key)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert scenario: %w", err)
	}
	return nil
}

// GetByName búsqueda exacta (sensible a mayúsculas).
func (r *ScenarioRepo) GetByName(ctx context.Context, name string) (*entity.Scenario, error) {
	var s entity.Scenario
	err := r.q.QueryRow(ctx,
		`SELECT scenario_key, scenario_name, description FROM dim_scenario WHERE scenario_name = $1`,
		name,
	).Scan(&s.Key, &s.Name, &s.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	return &s, nil
}

func (r *ScenarioRepo) Update(ctx context.Context, s *entity.Scenario) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE dim_scenario SET scenario_name = $2, description = $3 WHERE scenario_key = $1`,
		s.Key, s.Name, s.Description,
	)
	if err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
