package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fpessolano/fantasyfootball/internal/domain/league"
	"github.com/fpessolano/fantasyfootball/internal/domain/schedule"
)

// Store persists saved games and the schedule cache in Postgres. It is the
// shared-database alternative to the default bolt file backend and serves
// the same narrow contract.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// SaveNames lists stored save names, most recently written last.
func (s *Store) SaveNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name FROM saves ORDER BY updated_at, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan save name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadSave returns the save stored under name, or nil when absent.
func (s *Store) ReadSave(ctx context.Context, name string) (*league.SavedGame, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data FROM saves WHERE name = $1
	`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save %q: %w", name, err)
	}

	sg := &league.SavedGame{}
	if err := json.Unmarshal(data, sg); err != nil {
		return nil, fmt.Errorf("decode save %q: %w", name, err)
	}
	return sg, nil
}

// WriteSave upserts sg under name.
func (s *Store) WriteSave(ctx context.Context, name string, sg *league.SavedGame) error {
	if name == "" || sg == nil {
		return fmt.Errorf("write save: empty name or snapshot")
	}
	data, err := json.Marshal(sg)
	if err != nil {
		return fmt.Errorf("encode save %q: %w", name, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO saves (name, league_id, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET league_id = EXCLUDED.league_id, data = EXCLUDED.data, updated_at = now()
	`, name, sg.ID, data)
	if err != nil {
		return fmt.Errorf("write save %q: %w", name, err)
	}
	return nil
}

// DeleteSave removes a save; deleting an absent name is not an error.
func (s *Store) DeleteSave(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM saves WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete save %q: %w", name, err)
	}
	return nil
}

// Schedules returns every cached opponent matrix for the given padded
// participant count, in insertion order.
func (s *Store) Schedules(ctx context.Context, teamCount int) ([][][]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT matrix FROM schedule_cache WHERE team_count = $1 ORDER BY id
	`, teamCount)
	if err != nil {
		return nil, fmt.Errorf("list schedules for %d teams: %w", teamCount, err)
	}
	defer rows.Close()

	matrices := make([][][]int, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		var m [][]int
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		matrices = append(matrices, m)
	}
	return matrices, rows.Err()
}

// AppendSchedule caches a matrix under its participant count unless an
// identical one is already stored.
func (s *Store) AppendSchedule(ctx context.Context, teamCount int, matrix [][]int) error {
	existing, err := s.Schedules(ctx, teamCount)
	if err != nil {
		return err
	}
	for _, m := range existing {
		if schedule.Equal(m, matrix) {
			return nil
		}
	}

	data, err := json.Marshal(matrix)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO schedule_cache (team_count, matrix) VALUES ($1, $2)
	`, teamCount, data)
	if err != nil {
		return fmt.Errorf("append schedule for %d teams: %w", teamCount, err)
	}
	return nil
}
