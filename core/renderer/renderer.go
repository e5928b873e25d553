// Package renderer turns catalog definitions into forward migration SQL.
//
// Each kind with a built-in template is rendered by strict placeholder
// substitution: every {placeholder} in the template must be resolved from the
// definition's content, otherwise rendering fails with a *RenderError. Kinds
// without a template (views, materialized views and seeds) render as an
// explicit TODO placeholder so partially staged catalogs can still be
// generated.
package renderer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/lib/pq"

	"github.com/stokaro/pgforge/core/catalog"
	"github.com/stokaro/pgforge/core/object"
)

const extensionTemplate = `-- {description}
-- {details}
CREATE EXTENSION IF NOT EXISTS "{extension}";`

const tableTemplate = `-- {description}
CREATE TABLE IF NOT EXISTS {table_name} (
{columns}
);

-- Add table comment
COMMENT ON TABLE {table_name} IS {comment};`

const indexTemplate = `-- {description}
CREATE INDEX IF NOT EXISTS {index_name} ON {table_name}{index_def};`

const functionTemplate = `-- {description}
CREATE OR REPLACE FUNCTION {function_name}
{function_body}`

const triggerTemplate = `-- {description}
CREATE TRIGGER {trigger_name}
    {trigger_timing} {trigger_event} ON {table_name}
    FOR EACH ROW EXECUTE FUNCTION {function_name}();`

type template struct {
	text string
	// filters transform a content value before substitution
	filters map[string]func(string) string
}

var templates = map[object.Kind]template{
	object.KindExtension: {text: extensionTemplate},
	object.KindTable: {
		text: tableTemplate,
		filters: map[string]func(string) string{
			"comment": pq.QuoteLiteral,
		},
	},
	object.KindIndex:    {text: indexTemplate},
	object.KindFunction: {text: functionTemplate},
	object.KindTrigger:  {text: triggerTemplate},
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// RenderError reports a template placeholder that the definition's content
// could not resolve.
type RenderError struct {
	Number  string
	Name    string
	Missing []string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render migration %s_%s: unresolved placeholders: %s",
		e.Number, e.Name, strings.Join(e.Missing, ", "))
}

// RenderedMigration is a definition rendered to SQL, ready to be written once.
type RenderedMigration struct {
	FileName string
	SQL      string
}

// HasTemplate reports whether kind renders from a built-in template rather
// than a TODO placeholder.
func HasTemplate(kind object.Kind) bool {
	_, ok := templates[kind]
	return ok
}

// Render returns the forward SQL for def. It has no side effects.
func Render(def catalog.Definition) (string, error) {
	tmpl, ok := templates[def.Kind]
	if !ok {
		return fmt.Sprintf("-- TODO: Implement %s migration", def.Kind), nil
	}

	var missing []string
	// Single pass over the template: substituted values are never rescanned,
	// so braces inside content (e.g. DEFAULT '{}') are left alone.
	sql := placeholderRe.ReplaceAllStringFunc(tmpl.text, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := def.Content[key]
		if !ok {
			if !slices.Contains(missing, key) {
				missing = append(missing, key)
			}
			return match
		}
		if filter, ok := tmpl.filters[key]; ok {
			return filter(value)
		}
		return value
	})

	if len(missing) > 0 {
		return "", &RenderError{Number: def.Number, Name: def.Name, Missing: missing}
	}
	return sql, nil
}

// RenderMigration renders def and pairs the SQL with its file name.
func RenderMigration(def catalog.Definition) (*RenderedMigration, error) {
	sql, err := Render(def)
	if err != nil {
		return nil, err
	}
	return &RenderedMigration{
		FileName: def.FileName(),
		SQL:      sql,
	}, nil
}
