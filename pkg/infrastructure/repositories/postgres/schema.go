package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             BIGINT  PRIMARY KEY,
	sku            TEXT    NOT NULL UNIQUE,
	name           TEXT    NOT NULL DEFAULT '',
	is_subassembly BOOLEAN NOT NULL DEFAULT FALSE,
	standard_cost  NUMERIC(18,4) NOT NULL DEFAULT 0,
	purchase_price NUMERIC(18,4) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bom_items (
	id                   BIGINT PRIMARY KEY,
	parent_product_id    BIGINT NOT NULL,
	component_product_id BIGINT NOT NULL,
	quantity             NUMERIC(18,6) NOT NULL,
	waste_percentage     NUMERIC(9,4)  NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_bom_items_parent ON bom_items (parent_product_id);

CREATE TABLE IF NOT EXISTS inventory_items (
	product_id        BIGINT PRIMARY KEY,
	quantity_on_hand  NUMERIC(18,6) NOT NULL DEFAULT 0,
	reserved_quantity NUMERIC(18,6) NOT NULL DEFAULT 0,
	safety_stock      NUMERIC(18,6) NOT NULL DEFAULT 0,
	last_updated      TIMESTAMPTZ   NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS work_orders (
	id           BIGINT PRIMARY KEY,
	order_number TEXT          NOT NULL UNIQUE,
	product_id   BIGINT        NOT NULL,
	quantity     NUMERIC(18,6) NOT NULL,
	status       TEXT          NOT NULL,
	created_date TIMESTAMPTZ   NOT NULL DEFAULT now(),
	start_date   TIMESTAMPTZ,
	due_date     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS material_requirements (
	id                   BIGSERIAL PRIMARY KEY,
	run_id               TEXT          NOT NULL,
	product_id           BIGINT        NOT NULL,
	required_quantity    NUMERIC(18,6) NOT NULL,
	required_date        TIMESTAMPTZ   NOT NULL,
	requirement_type     SMALLINT      NOT NULL,
	reference            TEXT          NOT NULL DEFAULT '',
	is_processed         BOOLEAN       NOT NULL DEFAULT FALSE,
	source_work_order_id BIGINT,
	level                INTEGER       NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_material_requirements_date ON material_requirements (required_date);
`

// Migrate creates the planning tables when they do not exist
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
