package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

var _ repository.ConfigRepository = (*ConfigRepo)(nil)

// ConfigRepo implementación del puerto ConfigRepository sobre PostgreSQL.
type ConfigRepo struct {
	q Querier
}

// NewConfigRepository construye el adaptador para configuración persistida.
func NewConfigRepository(q Querier) *ConfigRepo {
	return &ConfigRepo{q: q}
}

// Get obtiene un par clave/valor, nil si la clave no existe.
func (r *ConfigRepo) Get(key string) (*entity.Config, error) {
	var c entity.Config
	err := r.q.QueryRow(context.Background(),
		`SELECT key, value FROM config WHERE key = $1`, key,
	).Scan(&c.Key, &c.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get config: %w", err)
	}
	return &c, nil
}

// Set escribe el valor de una clave (upsert).
func (r *ConfigRepo) Set(key, value string) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO config (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	return nil
}
