package wordlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// PostgresSource reads the lists from a table shaped as
//
//	CREATE TABLE words (list TEXT NOT NULL, term TEXT NOT NULL, position INT NOT NULL DEFAULT 0);
type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, conStr string) (*PostgresSource, error) {
	db, err := pgxpool.Connect(ctx, conStr)
	if err != nil {
		return nil, err
	}

	return &PostgresSource{db: db}, nil
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresSource) Close() {
	s.db.Close()
}

// Load fetches every list in one query, ordered so that the abusive list keeps
// its configured order.
func (s *PostgresSource) Load(ctx context.Context) (*Lists, error) {
	rows, err := s.db.Query(ctx, `
		SELECT list, term
		FROM words
		ORDER BY list, position, term
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	raw := make(map[string][]string)
	for rows.Next() {
		var list, term string
		if err := rows.Scan(&list, &term); err != nil {
			return nil, err
		}
		raw[list] = append(raw[list], term)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lists := New(raw)
	if err := lists.Validate(); err != nil {
		return nil, err
	}

	return lists, nil
}
