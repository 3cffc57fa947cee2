package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	drv "github.com/go-sql-driver/mysql"

	"travel_planner/internal/domain"
)

const errDupEntry = 1062

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo is the mysql-backed domain.RatingStore.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects and pings; dsn is a go-sql-driver DSN.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func (r *Repo) Append(ctx context.Context, d domain.Destination) error {
	args := []any{
		d.City,
		d.CityKey(),
		d.Country,
		d.Region,
		valStr(d.ShortDescription),
		d.BudgetLevel,
	}
	for _, c := range domain.Categories() {
		args = append(args, d.Scores.Get(c))
	}
	if _, err := r.db.ExecContext(ctx, insertRatingSQL, args...); err != nil {
		var me *drv.MySQLError
		if errors.As(err, &me) && me.Number == errDupEntry {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, d.City)
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, listRatingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get looks a rating up by city, case-insensitively.
func (r *Repo) Get(ctx context.Context, city string) (domain.Destination, error) {
	d, err := scanDestination(r.db.QueryRowContext(ctx, getRatingSQL, domain.CityKey(city)))
	if err == sql.ErrNoRows {
		return domain.Destination{}, domain.ErrNotFound
	}
	return d, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDestination(s scanner) (domain.Destination, error) {
	var (
		d      domain.Destination
		desc   sql.NullString
		scores [domain.NumCategories]float64
	)
	dest := []any{&d.City, &d.Country, &d.Region, &desc, &d.BudgetLevel}
	for i := range scores {
		dest = append(dest, &scores[i])
	}
	if err := s.Scan(dest...); err != nil {
		return domain.Destination{}, err
	}
	if desc.Valid {
		d.ShortDescription = desc.String
	}
	d.Scores = domain.Affinity(scores)
	return d, nil
}
