package rollback_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/pgforge/config"
	"github.com/stokaro/pgforge/core/catalog"
	"github.com/stokaro/pgforge/core/extractor"
	"github.com/stokaro/pgforge/core/object"
	"github.com/stokaro/pgforge/core/renderer"
	"github.com/stokaro/pgforge/migration/rollback"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		obj      object.Object
		expected string
		manual   bool
	}{
		{
			name:     "extension",
			obj:      object.Object{Kind: object.KindExtension, Name: "pgvector"},
			expected: `DROP EXTENSION IF EXISTS "pgvector" CASCADE;`,
		},
		{
			name:     "extension with dash",
			obj:      object.Object{Kind: object.KindExtension, Name: "uuid-ossp"},
			expected: `DROP EXTENSION IF EXISTS "uuid-ossp" CASCADE;`,
		},
		{
			name:     "table",
			obj:      object.Object{Kind: object.KindTable, Name: "feed_sources"},
			expected: "DROP TABLE IF EXISTS feed_sources CASCADE;",
		},
		{
			name:     "index",
			obj:      object.Object{Kind: object.KindIndex, Name: "idx_job_queue_status"},
			expected: "DROP INDEX IF EXISTS idx_job_queue_status;",
		},
		{
			name:     "function",
			obj:      object.Object{Kind: object.KindFunction, Name: "touch_updated_at"},
			expected: "DROP FUNCTION IF EXISTS touch_updated_at CASCADE;",
		},
		{
			name:     "trigger",
			obj:      object.Object{Kind: object.KindTrigger, Name: "trg_a", Dependent: "orders"},
			expected: "DROP TRIGGER IF EXISTS trg_a ON orders;",
		},
		{
			name:     "trigger without table",
			obj:      object.Object{Kind: object.KindTrigger, Name: "trg_a"},
			expected: "-- TODO: Manual rollback required for TRIGGER trg_a",
			manual:   true,
		},
		{
			name:     "view",
			obj:      object.Object{Kind: object.KindView, Name: "active_feeds"},
			expected: "DROP VIEW IF EXISTS active_feeds CASCADE;",
		},
		{
			name:     "materialized view",
			obj:      object.Object{Kind: object.KindMaterializedView, Name: "daily_rollup"},
			expected: "DROP MATERIALIZED VIEW IF EXISTS daily_rollup CASCADE;",
		},
		{
			name:     "seed",
			obj:      object.Object{Kind: object.KindSeed, Name: "sectors"},
			expected: "-- Manual rollback required for seed data in table sectors",
			manual:   true,
		},
		{
			name:     "unknown",
			obj:      object.Unknown(),
			expected: "-- TODO: Manual rollback required for UNKNOWN unknown",
			manual:   true,
		},
		{
			name:     "plpgsql is dropped like any other extension",
			obj:      object.Object{Kind: object.KindExtension, Name: "plpgsql"},
			expected: `DROP EXTENSION IF EXISTS "plpgsql" CASCADE;`,
		},
	}

	r := rollback.NewRenderer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			stmt := r.Render(tt.obj)
			c.Assert(stmt.SQL, qt.Equals, tt.expected)
			c.Assert(stmt.Manual, qt.Equals, tt.manual)
		})
	}
}

func TestRenderer_KeptExtensions(t *testing.T) {
	c := qt.New(t)

	r := rollback.NewRenderer(config.KeepExtensions("plpgsql"))
	stmt := r.Render(object.Object{Kind: object.KindExtension, Name: "plpgsql"})
	c.Assert(stmt.SQL, qt.Equals, `-- Extension "plpgsql" is kept by configuration, not dropped`)
	c.Assert(stmt.Manual, qt.IsTrue)

	c.Assert(r.Render(object.Object{Kind: object.KindExtension, Name: "vector"}).Manual, qt.IsFalse)
}

func TestRoundTrip_FromDefinition(t *testing.T) {
	tests := []struct {
		def      catalog.Definition
		expected string
	}{
		{
			def: catalog.Definition{Number: "001", Name: "enable_pgvector_extension", Kind: object.KindExtension,
				Content: map[string]string{"extension": "pgvector", "description": "d", "details": "d"}},
			expected: `DROP EXTENSION IF EXISTS "pgvector" CASCADE;`,
		},
		{
			def: catalog.Definition{Number: "011", Name: "create_orders_table", Kind: object.KindTable,
				Content: map[string]string{"table_name": "orders", "description": "Create table for orders", "comment": "Orders", "columns": "    id INT"}},
			expected: "DROP TABLE IF EXISTS orders CASCADE;",
		},
		{
			def: catalog.Definition{Number: "021", Name: "create_orders_index", Kind: object.KindIndex,
				Content: map[string]string{"index_name": "idx_orders_created", "table_name": "orders", "index_def": "(created_at)", "description": "d"}},
			expected: "DROP INDEX IF EXISTS idx_orders_created;",
		},
		{
			def: catalog.Definition{Number: "031", Name: "create_touch_function", Kind: object.KindFunction,
				Content: map[string]string{"function_name": "touch()", "function_body": "RETURNS TRIGGER AS $$ BEGIN RETURN NEW; END; $$ LANGUAGE plpgsql;", "description": "d"}},
			expected: "DROP FUNCTION IF EXISTS touch CASCADE;",
		},
		{
			def: catalog.Definition{Number: "041", Name: "create_orders_touch_trigger", Kind: object.KindTrigger,
				Content: map[string]string{"trigger_name": "trg_orders_touch", "trigger_timing": "BEFORE", "trigger_event": "UPDATE", "table_name": "orders", "function_name": "touch", "description": "d"}},
			expected: "DROP TRIGGER IF EXISTS trg_orders_touch ON orders;",
		},
	}

	r := rollback.NewRenderer(nil)
	for _, tt := range tests {
		t.Run(string(tt.def.Kind), func(t *testing.T) {
			c := qt.New(t)

			sql, err := renderer.Render(tt.def)
			c.Assert(err, qt.IsNil)

			stmt := r.Render(extractor.Extract(sql))
			c.Assert(stmt.Manual, qt.IsFalse)
			c.Assert(stmt.SQL, qt.Equals, tt.expected)
		})
	}
}

func TestRoundTrip_HandWritten(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected string
	}{
		{
			name:     "view",
			sql:      "-- Active feeds\nCREATE VIEW active_feeds AS SELECT * FROM feed_sources WHERE is_active;",
			expected: "DROP VIEW IF EXISTS active_feeds CASCADE;",
		},
		{
			name:     "materialized view",
			sql:      "CREATE MATERIALIZED VIEW daily_rollup AS SELECT 1;",
			expected: "DROP MATERIALIZED VIEW IF EXISTS daily_rollup CASCADE;",
		},
		{
			name:     "seed",
			sql:      "INSERT INTO sectors (sector_name) VALUES ('Energy');",
			expected: "-- Manual rollback required for seed data in table sectors",
		},
		{
			name:     "unnamed index",
			sql:      "CREATE INDEX ON orders (created_at);",
			expected: "-- TODO: Manual rollback required for UNKNOWN unknown",
		},
		{
			name:     "unnamed unique concurrent index",
			sql:      "CREATE UNIQUE INDEX CONCURRENTLY ON orders (id);",
			expected: "-- TODO: Manual rollback required for UNKNOWN unknown",
		},
	}

	r := rollback.NewRenderer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			stmt := r.Render(extractor.Extract(tt.sql))
			c.Assert(stmt.SQL, qt.Equals, tt.expected)
		})
	}
}

func TestSeedNeverDeletes(t *testing.T) {
	c := qt.New(t)

	stmt := rollback.NewRenderer(nil).Render(extractor.Extract("INSERT INTO sectors (id, name) VALUES (1, 'a');"))
	c.Assert(stmt.Manual, qt.IsTrue)
	upper := strings.ToUpper(stmt.SQL)
	c.Assert(strings.HasPrefix(upper, "--"), qt.IsTrue)
	c.Assert(strings.Contains(upper, "DROP "), qt.IsFalse)
	c.Assert(strings.Contains(upper, "DELETE "), qt.IsFalse)
}
