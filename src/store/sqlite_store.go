package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goodfoods/concierge/src/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database. This is the
// default durable backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL keeps concurrent read-only tools from tripping over writers.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS restaurants (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		area TEXT NOT NULL,
		city TEXT NOT NULL,
		cuisine TEXT NOT NULL,
		features TEXT,
		avg_price_per_person INTEGER NOT NULL,
		seating_capacity INTEGER NOT NULL,
		opening_time TEXT NOT NULL,
		closing_time TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
		customer_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		party_size INTEGER NOT NULL,
		at TEXT NOT NULL,
		special_requests TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations(restaurant_id, at) WHERE status = 'active';
	CREATE INDEX IF NOT EXISTS idx_reservations_phone ON reservations(phone);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, area, city, cuisine, features, avg_price_per_person,
		       seating_capacity, opening_time, closing_time
		FROM restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, area, city, cuisine, features, avg_price_per_person,
		       seating_capacity, opening_time, closing_time
		FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SeedRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range restaurants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO restaurants (id, name, area, city, cuisine, features,
				avg_price_per_person, seating_capacity, opening_time, closing_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Area, r.City, r.Cuisine, strings.Join(r.Features, ","),
			r.AvgPricePerPerson, r.SeatingCapacity, r.OpeningTime, r.ClosingTime)
		if err != nil {
			return fmt.Errorf("seed restaurant %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reservations (restaurant_id, customer_name, phone, party_size,
			at, special_requests, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RestaurantID, r.CustomerName, r.Phone, r.PartySize,
		r.At.UTC().Format(time.RFC3339), r.SpecialRequests, string(r.Status),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return domain.Reservation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Reservation{}, err
	}
	r.ID = id
	return r, nil
}

func (s *SQLiteStore) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, customer_name, phone, party_size, at,
		       special_requests, status, created_at, updated_at
		FROM reservations WHERE id = ?`, id)
	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reservations
		SET party_size = ?, at = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		r.PartySize, r.At.UTC().Format(time.RFC3339), string(r.Status),
		time.Now().UTC().Format(time.RFC3339), r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ReservationsByPhone(ctx context.Context, phone string) ([]domain.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, customer_name, phone, party_size, at,
		       special_requests, status, created_at, updated_at
		FROM reservations WHERE phone = ? ORDER BY at DESC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ActivePartySum(ctx context.Context, restaurantID int64, at time.Time) (int, error) {
	var sum int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(party_size), 0) FROM reservations
		WHERE restaurant_id = ? AND at = ? AND status = 'active'`,
		restaurantID, at.UTC().Format(time.RFC3339)).Scan(&sum)
	return sum, err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (domain.Restaurant, error) {
	var r domain.Restaurant
	var features sql.NullString
	err := row.Scan(&r.ID, &r.Name, &r.Area, &r.City, &r.Cuisine, &features,
		&r.AvgPricePerPerson, &r.SeatingCapacity, &r.OpeningTime, &r.ClosingTime)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if features.Valid && features.String != "" {
		r.Features = strings.Split(features.String, ",")
	}
	return r, nil
}

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var r domain.Reservation
	var at, created, updated, status string
	var special sql.NullString
	err := row.Scan(&r.ID, &r.RestaurantID, &r.CustomerName, &r.Phone, &r.PartySize,
		&at, &special, &status, &created, &updated)
	if err != nil {
		return domain.Reservation{}, err
	}
	if r.At, err = time.Parse(time.RFC3339, at); err != nil {
		return domain.Reservation{}, fmt.Errorf("parse reservation time: %w", err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, created)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	r.SpecialRequests = special.String
	r.Status = domain.ReservationStatus(status)
	return r, nil
}

var _ Store = (*SQLiteStore)(nil)
