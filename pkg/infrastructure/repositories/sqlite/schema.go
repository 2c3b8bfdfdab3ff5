package sqlite

// schema is applied on open; decimals are stored as TEXT to keep them exact
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             INTEGER PRIMARY KEY,
	sku            TEXT    NOT NULL UNIQUE,
	name           TEXT    NOT NULL DEFAULT '',
	is_subassembly BOOLEAN NOT NULL DEFAULT 0,
	standard_cost  TEXT    NOT NULL DEFAULT '0',
	purchase_price TEXT    NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS bom_items (
	id                   INTEGER PRIMARY KEY,
	parent_product_id    INTEGER NOT NULL,
	component_product_id INTEGER NOT NULL,
	quantity             TEXT    NOT NULL,
	waste_percentage     TEXT    NOT NULL DEFAULT '0'
);
CREATE INDEX IF NOT EXISTS idx_bom_items_parent ON bom_items (parent_product_id);

CREATE TABLE IF NOT EXISTS inventory_items (
	product_id        INTEGER PRIMARY KEY,
	quantity_on_hand  TEXT      NOT NULL DEFAULT '0',
	reserved_quantity TEXT      NOT NULL DEFAULT '0',
	safety_stock      TEXT      NOT NULL DEFAULT '0',
	last_updated      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS work_orders (
	id           INTEGER PRIMARY KEY,
	order_number TEXT      NOT NULL UNIQUE,
	product_id   INTEGER   NOT NULL,
	quantity     TEXT      NOT NULL,
	status       TEXT      NOT NULL,
	created_date TIMESTAMP NOT NULL,
	start_date   TIMESTAMP,
	due_date     TIMESTAMP
);

CREATE TABLE IF NOT EXISTS material_requirements (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id               TEXT      NOT NULL,
	product_id           INTEGER   NOT NULL,
	required_quantity    TEXT      NOT NULL,
	required_date        TIMESTAMP NOT NULL,
	requirement_type     INTEGER   NOT NULL,
	reference            TEXT      NOT NULL DEFAULT '',
	is_processed         BOOLEAN   NOT NULL DEFAULT 0,
	source_work_order_id INTEGER,
	level                INTEGER   NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_material_requirements_date ON material_requirements (required_date);
`
