package rollback

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stokaro/pgforge/config"
	"github.com/stokaro/pgforge/core/object"
)

// Statement is the inverse of one migration.
type Statement struct {
	SQL string
	// Manual is true when SQL is only a comment and the rollback has to be
	// written by hand.
	Manual bool
}

var dropTemplates = map[object.Kind]string{
	object.KindTable:            "DROP TABLE IF EXISTS %s CASCADE;",
	object.KindIndex:            "DROP INDEX IF EXISTS %s;",
	object.KindFunction:         "DROP FUNCTION IF EXISTS %s CASCADE;",
	object.KindView:             "DROP VIEW IF EXISTS %s CASCADE;",
	object.KindMaterializedView: "DROP MATERIALIZED VIEW IF EXISTS %s CASCADE;",
}

// Renderer turns extracted objects into rollback statements.
type Renderer struct {
	opts *config.RollbackOptions
}

// NewRenderer creates a renderer. A nil opts keeps no extension.
func NewRenderer(opts *config.RollbackOptions) *Renderer {
	if opts == nil {
		opts = config.DefaultRollbackOptions()
	}
	return &Renderer{opts: opts}
}

// Render returns the statement undoing the creation of obj. It has no side
// effects and never fails: objects it cannot invert get a comment asking for
// a manual rollback.
func (r *Renderer) Render(obj object.Object) Statement {
	switch obj.Kind {
	case object.KindExtension:
		if r.opts.Keeps(obj.Name) {
			return manual(fmt.Sprintf("-- Extension %s is kept by configuration, not dropped", pgx.Identifier{obj.Name}.Sanitize()))
		}
		return Statement{SQL: fmt.Sprintf("DROP EXTENSION IF EXISTS %s CASCADE;", pgx.Identifier{obj.Name}.Sanitize())}
	case object.KindTrigger:
		if obj.Dependent != "" {
			return Statement{SQL: fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s;", obj.Name, obj.Dependent)}
		}
	case object.KindSeed:
		// deleting rows is not a safe inverse of inserting them
		return manual("-- Manual rollback required for seed data in table " + obj.Name)
	default:
		if tmpl, ok := dropTemplates[obj.Kind]; ok {
			return Statement{SQL: fmt.Sprintf(tmpl, obj.Name)}
		}
	}
	return manual(fmt.Sprintf("-- TODO: Manual rollback required for %s %s", obj.Kind.Label(), obj.Name))
}

func manual(sql string) Statement {
	return Statement{SQL: sql, Manual: true}
}
