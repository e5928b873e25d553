package catalog_test

import (
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-extras/go-kit/must"

	"github.com/stokaro/pgforge/core/catalog"
	"github.com/stokaro/pgforge/core/object"
)

func tableDef(number, name, tableName string) catalog.Definition {
	return catalog.Definition{
		Number: number,
		Name:   name,
		Kind:   object.KindTable,
		Content: map[string]string{
			"description": "Create " + tableName,
			"table_name":  tableName,
			"columns":     "    id SERIAL PRIMARY KEY",
			"comment":     tableName + " table",
		},
	}
}

func TestNew_OrdersByNumber(t *testing.T) {
	c := qt.New(t)

	cat, err := catalog.New(
		tableDef("003", "create_c", "c"),
		tableDef("001", "create_a", "a"),
		tableDef("002", "create_b", "b"),
	)
	c.Assert(err, qt.IsNil)
	c.Assert(cat.Len(), qt.Equals, 3)

	var numbers []string
	for def := range cat.All() {
		numbers = append(numbers, def.Number)
	}
	c.Assert(numbers, qt.DeepEquals, []string{"001", "002", "003"})

	defs := cat.Definitions()
	c.Assert(defs[0].FileName(), qt.Equals, "001_create_a.sql")
	c.Assert(defs[2].FileName(), qt.Equals, "003_create_c.sql")
}

func TestNew_MissingColumns(t *testing.T) {
	c := qt.New(t)

	def := tableDef("001", "create_users", "users")
	delete(def.Content, "columns")

	cat, err := catalog.New(def)
	c.Assert(cat, qt.IsNil)

	var defErr *catalog.DefinitionError
	c.Assert(errors.As(err, &defErr), qt.IsTrue)
	c.Assert(defErr.Number, qt.Equals, "001")
	c.Assert(defErr.Name, qt.Equals, "create_users")
	c.Assert(defErr.Reason, qt.Contains, "columns")
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		defs   []catalog.Definition
		reason string
	}{
		{
			name:   "duplicate number",
			defs:   []catalog.Definition{tableDef("001", "create_a", "a"), tableDef("001", "create_b", "b")},
			reason: "already used by 001_create_a",
		},
		{
			name:   "number not zero padded",
			defs:   []catalog.Definition{tableDef("1", "create_a", "a")},
			reason: "three digits",
		},
		{
			name:   "empty name",
			defs:   []catalog.Definition{tableDef("001", "", "a")},
			reason: "name",
		},
		{
			name: "unsupported kind",
			defs: []catalog.Definition{{
				Number: "001",
				Name:   "create_policy",
				Kind:   object.Kind("policy"),
			}},
			reason: `unsupported kind "policy"`,
		},
		{
			name: "unknown kind is not accepted",
			defs: []catalog.Definition{{
				Number: "001",
				Name:   "mystery",
				Kind:   object.KindUnknown,
			}},
			reason: "unsupported kind",
		},
		{
			name: "blank trigger content",
			defs: []catalog.Definition{{
				Number: "021",
				Name:   "create_trigger",
				Kind:   object.KindTrigger,
				Content: map[string]string{
					"description":    "Touch updated_at",
					"trigger_name":   "trg_touch",
					"trigger_timing": "BEFORE",
					"trigger_event":  "UPDATE",
					"table_name":     "  ",
					"function_name":  "touch",
				},
			}},
			reason: "table_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			_, err := catalog.New(tt.defs...)
			c.Assert(err, qt.IsNotNil)

			var defErr *catalog.DefinitionError
			c.Assert(errors.As(err, &defErr), qt.IsTrue)
			c.Assert(err, qt.ErrorMatches, "(?s).*"+escape(tt.reason)+".*")
		})
	}
}

func TestNew_ReportsEveryOffendingEntry(t *testing.T) {
	c := qt.New(t)

	bad1 := tableDef("001", "create_a", "a")
	delete(bad1.Content, "comment")
	bad2 := tableDef("002", "create_b", "b")
	delete(bad2.Content, "table_name")

	_, err := catalog.New(bad1, bad2, tableDef("003", "create_c", "c"))
	c.Assert(err, qt.IsNotNil)
	c.Assert(err.Error(), qt.Contains, "001_create_a")
	c.Assert(err.Error(), qt.Contains, "002_create_b")
	c.Assert(strings.Contains(err.Error(), "003_create_c"), qt.IsFalse)
}

func TestNew_KindsWithoutTemplateNeedNoContent(t *testing.T) {
	c := qt.New(t)

	cat, err := catalog.New(
		catalog.Definition{Number: "050", Name: "create_summary_view", Kind: object.KindView},
		catalog.Definition{Number: "051", Name: "create_rollup", Kind: object.KindMaterializedView},
		catalog.Definition{Number: "090", Name: "seed_sectors", Kind: object.KindSeed},
	)
	c.Assert(err, qt.IsNil)
	c.Assert(cat.Len(), qt.Equals, 3)
}

func TestCatalog_Immutable(t *testing.T) {
	c := qt.New(t)

	def := tableDef("001", "create_a", "a")
	cat := must.Must(catalog.New(def))

	def.Content["table_name"] = "changed"
	got, ok := cat.Lookup("001")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.Content["table_name"], qt.Equals, "a")

	got.Content["table_name"] = "changed again"
	again, _ := cat.Lookup("001")
	c.Assert(again.Content["table_name"], qt.Equals, "a")

	_, ok = cat.Lookup("999")
	c.Assert(ok, qt.IsFalse)
}

func TestDefault(t *testing.T) {
	c := qt.New(t)

	cat := catalog.Default()
	c.Assert(cat.Len(), qt.Equals, 12)

	defs := cat.Definitions()
	c.Assert(defs[0].FileName(), qt.Equals, "001_enable_uuid_extension.sql")
	c.Assert(defs[0].Content["extension"], qt.Equals, "uuid-ossp")
	c.Assert(defs[len(defs)-1].FileName(), qt.Equals, "017_create_kg_relationship_types_table.sql")

	for def := range cat.All() {
		if def.Number <= "005" {
			c.Assert(def.Kind, qt.Equals, object.KindExtension)
		} else {
			c.Assert(def.Kind, qt.Equals, object.KindTable)
		}
	}
}

func TestRequiredKeys(t *testing.T) {
	c := qt.New(t)

	c.Assert(catalog.RequiredKeys(object.KindTable), qt.DeepEquals,
		[]string{"description", "table_name", "columns", "comment"})
	c.Assert(catalog.RequiredKeys(object.KindSeed), qt.HasLen, 0)

	keys := catalog.RequiredKeys(object.KindIndex)
	keys[0] = "mutated"
	c.Assert(catalog.RequiredKeys(object.KindIndex)[0], qt.Equals, "description")
}

func escape(s string) string {
	r := strings.NewReplacer(`(`, `\(`, `)`, `\)`, `.`, `\.`)
	return r.Replace(s)
}
