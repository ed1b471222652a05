package postgresrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS restaurant_tables (
	id UUID PRIMARY KEY,
	restaurant_id UUID NOT NULL,
	number INT NOT NULL CHECK (number > 0),
	capacity INT NOT NULL CHECK (capacity BETWEEN 1 AND 12),
	zone TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'available',
	occupancy_reservation_id UUID,
	occupancy_start TIMESTAMPTZ,
	occupancy_guests INT,
	avg_occupancy_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_maintenance TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (restaurant_id, number)
);

CREATE TABLE IF NOT EXISTS reservations (
	id UUID PRIMARY KEY,
	restaurant_id UUID NOT NULL,
	customer_id UUID NOT NULL,
	table_id UUID REFERENCES restaurant_tables(id),
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	duration_minutes INT NOT NULL,
	adults INT NOT NULL CHECK (adults >= 1),
	children INT NOT NULL DEFAULT 0 CHECK (children >= 0),
	status TEXT NOT NULL,
	source TEXT NOT NULL,
	cancel_reason TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	staff_notes TEXT NOT NULL DEFAULT '',
	kitchen_notes TEXT NOT NULL DEFAULT '',
	special_requirements TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	seated_at TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	CHECK (end_time > start_time)
);

ALTER TABLE reservations ADD COLUMN IF NOT EXISTS staff_notes TEXT NOT NULL DEFAULT '';
ALTER TABLE reservations ADD COLUMN IF NOT EXISTS kitchen_notes TEXT NOT NULL DEFAULT '';
ALTER TABLE reservations ADD COLUMN IF NOT EXISTS special_requirements TEXT[] NOT NULL DEFAULT '{}';

CREATE INDEX IF NOT EXISTS idx_reservations_restaurant_start ON reservations(restaurant_id, start_time);
CREATE INDEX IF NOT EXISTS idx_reservations_table_status ON reservations(table_id, status);
CREATE INDEX IF NOT EXISTS idx_reservations_customer ON reservations(customer_id);

CREATE TABLE IF NOT EXISTS customer_stats (
	customer_id UUID PRIMARY KEY,
	total_reservations INT NOT NULL DEFAULT 0,
	canceled_reservations INT NOT NULL DEFAULT 0,
	no_shows INT NOT NULL DEFAULT 0,
	last_visit TIMESTAMPTZ
);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const op = "postgresrepo.Migrate"

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
