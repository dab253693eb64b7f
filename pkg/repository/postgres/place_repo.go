package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placeshare/places/pkg/place"
)

// PlaceRepository implements place.Repository backed by PostgreSQL (pgx).
//
// The cross-entity writes (place row + owner's places array) run in a
// single transaction, so readers never observe one side without the other.
type PlaceRepository struct {
	pool *pgxpool.Pool
}

func NewPlaceRepository(pool *pgxpool.Pool) (*PlaceRepository, error) {
	r := &PlaceRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PlaceRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS places (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	address TEXT NOT NULL,
	lat DOUBLE PRECISION NOT NULL,
	lng DOUBLE PRECISION NOT NULL,
	image TEXT NOT NULL DEFAULT '',
	creator UUID NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_places_creator ON places(creator);
`)
	return err
}

func (r *PlaceRepository) Create(ctx context.Context, p place.Place) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO places (id, title, description, address, lat, lng, image, creator, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, p.ID, p.Title, p.Description, p.Address, p.Location.Lat, p.Location.Lng, p.ImageRef, p.CreatorID, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return place.ErrOwnerNotFound
		}
		return err
	}

	cmd, err := tx.Exec(ctx, `
UPDATE users SET places = array_append(places, $1) WHERE id = $2
`, p.ID, p.CreatorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return place.ErrOwnerNotFound
	}
	return tx.Commit(ctx)
}

func (r *PlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (place.Place, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, title, description, address, lat, lng, image, creator, created_at
FROM places WHERE id = $1
`, id)
	return scanPlace(row)
}

func (r *PlaceRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]place.Place, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, title, description, address, lat, lng, image, creator, created_at
FROM places WHERE creator = $1 ORDER BY created_at
`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []place.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PlaceRepository) Update(ctx context.Context, p place.Place) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE places SET title = $1, description = $2 WHERE id = $3
`, p.Title, p.Description, p.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return place.ErrNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id, creatorID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The delete goes first and is the race arbiter: of two concurrent
	// deletes only one sees an affected row, so the owner's array is
	// never decremented twice.
	cmd, err := tx.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return place.ErrNotFound
	}
	_, err = tx.Exec(ctx, `
UPDATE users SET places = array_remove(places, $1) WHERE id = $2
`, id, creatorID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanPlace(row pgx.Row) (place.Place, error) {
	var p place.Place
	var createdAt time.Time
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng, &p.ImageRef, &p.CreatorID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return place.Place{}, place.ErrNotFound
		}
		return place.Place{}, err
	}
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
