package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goodfoods/concierge/src/domain"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS restaurants (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			area TEXT NOT NULL,
			city TEXT NOT NULL,
			cuisine TEXT NOT NULL,
			features TEXT[] NOT NULL DEFAULT '{}',
			avg_price_per_person INT NOT NULL,
			seating_capacity INT NOT NULL,
			opening_time TEXT NOT NULL,
			closing_time TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS reservations (
			id BIGSERIAL PRIMARY KEY,
			restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
			customer_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			party_size INT NOT NULL,
			at TIMESTAMPTZ NOT NULL,
			special_requests TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_reservations_slot
			ON reservations(restaurant_id, at) WHERE status = 'active';
		CREATE INDEX IF NOT EXISTS idx_reservations_phone ON reservations(phone);
	`)
	return err
}

func (s *PostgresStore) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, area, city, cuisine, features, avg_price_per_person,
		       seating_capacity, opening_time, closing_time
		FROM restaurants WHERE id = $1`, id)
	var r domain.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Area, &r.City, &r.Cuisine, &r.Features,
		&r.AvgPricePerPerson, &r.SeatingCapacity, &r.OpeningTime, &r.ClosingTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, area, city, cuisine, features, avg_price_per_person,
		       seating_capacity, opening_time, closing_time
		FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Area, &r.City, &r.Cuisine, &r.Features,
			&r.AvgPricePerPerson, &r.SeatingCapacity, &r.OpeningTime, &r.ClosingTime); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SeedRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range restaurants {
		_, err := tx.Exec(ctx, `
			INSERT INTO restaurants (id, name, area, city, cuisine, features,
				avg_price_per_person, seating_capacity, opening_time, closing_time)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			r.ID, r.Name, r.Area, r.City, r.Cuisine, r.Features,
			r.AvgPricePerPerson, r.SeatingCapacity, r.OpeningTime, r.ClosingTime)
		if err != nil {
			return fmt.Errorf("seed restaurant %d: %w", r.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO reservations (restaurant_id, customer_name, phone, party_size,
			at, special_requests, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		r.RestaurantID, r.CustomerName, r.Phone, r.PartySize,
		r.At.UTC(), r.SpecialRequests, string(r.Status))
	if err := row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (s *PostgresStore) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, customer_name, phone, party_size, at,
		       special_requests, status, created_at, updated_at
		FROM reservations WHERE id = $1`, id)
	r, err := scanPgReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE reservations
		SET party_size = $2, at = $3, status = $4, updated_at = now()
		WHERE id = $1`,
		r.ID, r.PartySize, r.At.UTC(), string(r.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ReservationsByPhone(ctx context.Context, phone string) ([]domain.Reservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, restaurant_id, customer_name, phone, party_size, at,
		       special_requests, status, created_at, updated_at
		FROM reservations WHERE phone = $1 ORDER BY at DESC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		r, err := scanPgReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ActivePartySum(ctx context.Context, restaurantID int64, at time.Time) (int, error) {
	var sum int
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(party_size), 0) FROM reservations
		WHERE restaurant_id = $1 AND at = $2 AND status = 'active'`,
		restaurantID, at.UTC()).Scan(&sum)
	return sum, err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPgReservation(row pgx.Row) (domain.Reservation, error) {
	var r domain.Reservation
	var status string
	err := row.Scan(&r.ID, &r.RestaurantID, &r.CustomerName, &r.Phone, &r.PartySize,
		&r.At, &r.SpecialRequests, &status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return domain.Reservation{}, err
	}
	r.Status = domain.ReservationStatus(status)
	return r, nil
}

var _ Store = (*PostgresStore)(nil)
