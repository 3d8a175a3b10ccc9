package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tokano3/warikanbot/internal/ledger"
)

// Store mirrors appended meal records into Postgres so operators can query
// them without opening the spreadsheet.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// RunMigrations runs database migrations
func (s *Store) RunMigrations(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS meals (
			id BIGSERIAL PRIMARY KEY,
			meal_date DATE NOT NULL,
			purchaser TEXT NOT NULL,
			total_bill DOUBLE PRECISION NOT NULL,
			participants TEXT[] NOT NULL,
			individual_share DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_meals_meal_date ON meals(meal_date);
	`)
	return err
}

func (s *Store) Append(ctx context.Context, rec ledger.Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO meals (meal_date, purchaser, total_bill, participants, individual_share)
         VALUES ($1, $2, $3, $4, $5)`,
		rec.Date, rec.Purchaser, rec.TotalBill, rec.Participants, rec.IndividualShare,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal record: %w", err)
	}
	return nil
}

// Meal is one mirrored row, as served by the ops API.
type Meal struct {
	ID              int64     `json:"id"`
	Date            time.Time `json:"date"`
	Purchaser       string    `json:"purchaser"`
	TotalBill       float64   `json:"total_bill"`
	Participants    []string  `json:"participants"`
	IndividualShare float64   `json:"individual_share"`
}

// Recent returns the latest mirrored records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Meal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, meal_date, purchaser, total_bill, participants, individual_share
         FROM meals
         ORDER BY id DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		var m Meal
		if err := rows.Scan(&m.ID, &m.Date, &m.Purchaser, &m.TotalBill, &m.Participants, &m.IndividualShare); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}
