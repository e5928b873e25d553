// Package extractor recovers the identity of the primary schema object a
// migration creates from the migration's SQL text.
//
// Extraction works on SQL text, not on catalog definitions, and accepts files
// edited by hand. Each file is assumed to have one primary object; when
// several constructs are present the first kind in the priority list wins,
// regardless of where it appears in the text.
package extractor

import (
	"regexp"
	"strings"

	"github.com/stokaro/pgforge/core/object"
	"github.com/stokaro/pgforge/core/sqlutil"
)

// ident matches a possibly schema-qualified, possibly quoted identifier.
const ident = `((?:"[^"]+"|[A-Za-z_][A-Za-z0-9_$]*)(?:\.(?:"[^"]+"|[A-Za-z_][A-Za-z0-9_$]*))?)`

type rule struct {
	kind    object.Kind
	pattern *regexp.Regexp
	build   func(kind object.Kind, m []string) (object.Object, bool)
}

func named(kind object.Kind, m []string) (object.Object, bool) {
	return object.Object{Kind: kind, Name: m[1]}, true
}

// indexKeywords can stand where an index name would, in an unnamed
// CREATE INDEX.
var indexKeywords = []string{"ON", "ONLY", "CONCURRENTLY"}

func indexNamed(kind object.Kind, m []string) (object.Object, bool) {
	for _, kw := range indexKeywords {
		if strings.EqualFold(m[1], kw) {
			return object.Object{}, false
		}
	}
	return named(kind, m)
}

// rules is ordered by priority.
var rules = []rule{
	{
		kind:    object.KindExtension,
		pattern: regexp.MustCompile(`(?i)\bCREATE\s+EXTENSION\s+(?:IF\s+NOT\s+EXISTS\s+)?"?([^";\s]+)"?`),
		build:   named,
	},
	{
		kind:    object.KindTable,
		pattern: regexp.MustCompile(`(?i)\bCREATE\s+(?:(?:TEMP|TEMPORARY|UNLOGGED)\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + ident),
		build:   named,
	},
	{
		kind:    object.KindIndex,
		pattern: regexp.MustCompile(`(?i)\bCREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:CONCURRENTLY\s+)?(?:IF\s+NOT\s+EXISTS\s+)?` + ident + `\s+ON\b`),
		build:   indexNamed,
	},
	{
		kind:    object.KindFunction,
		pattern: regexp.MustCompile(`(?i)\bCREATE\s+(?:OR\s+REPLACE\s+)?FUNCTION\s+` + ident),
		build:   named,
	},
	{
		kind:    object.KindTrigger,
		pattern: regexp.MustCompile(`(?is)\bCREATE\s+(?:OR\s+REPLACE\s+)?TRIGGER\s+` + ident + `[^;]*?\bON\s+` + ident),
		build: func(kind object.Kind, m []string) (object.Object, bool) {
			return object.Object{Kind: kind, Name: m[1], Dependent: m[2]}, true
		},
	},
	{
		kind:    object.KindView,
		pattern: regexp.MustCompile(`(?i)\bCREATE\s+(?:OR\s+REPLACE\s+)?(MATERIALIZED\s+)?VIEW\s+(?:IF\s+NOT\s+EXISTS\s+)?` + ident),
		build: func(kind object.Kind, m []string) (object.Object, bool) {
			if m[1] != "" {
				kind = object.KindMaterializedView
			}
			return object.Object{Kind: kind, Name: m[2]}, true
		},
	},
	{
		kind:    object.KindSeed,
		pattern: regexp.MustCompile(`(?i)\bINSERT\s+INTO\s+` + ident),
		build:   named,
	},
}

// Extract returns the primary object created by sql. Comments are ignored.
// When nothing matches it returns object.Unknown(); extraction never fails.
func Extract(sql string) object.Object {
	stripped := sqlutil.StripComments(sql)
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}
		if obj, ok := r.build(r.kind, m); ok {
			return obj
		}
	}
	return object.Unknown()
}

// Description returns the first "-- " comment line of sql, used as the
// human-readable title of the migration. It falls back to
// "Rollback {fileName}".
func Description(sql, fileName string) string {
	if desc, ok := sqlutil.FirstComment(sql); ok && strings.TrimSpace(desc) != "" {
		return desc
	}
	return "Rollback " + fileName
}
