// Package catalog holds the ordered set of migration definitions that drives
// forward generation.
//
// A catalog is validated once, at construction, and is read-only afterwards.
// Definitions are iterated in ascending number order, which is the order
// migrations are applied in; rollback runs walk the same numbers backwards.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// DefinitionError reports a malformed catalog entry.
type DefinitionError struct {
	Number string
	Name   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid migration definition %s_%s: %s", e.Number, e.Name, e.Reason)
}

// Catalog is an immutable, ordered collection of migration definitions.
type Catalog struct {
	definitions []Definition
	byNumber    map[string]int
}

// New validates the given definitions and returns them as a catalog ordered
// by number. Every offending entry is reported as a *DefinitionError; the
// returned error joins all of them.
func New(defs ...Definition) (*Catalog, error) {
	var errs []error
	seen := make(map[string]Definition, len(defs))

	for _, def := range defs {
		if err := def.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, ok := seen[def.Number]; ok {
			errs = append(errs, def.errorf("number %s already used by %s", def.Number, prev))
			continue
		}
		seen[def.Number] = def
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c := &Catalog{
		definitions: make([]Definition, 0, len(defs)),
		byNumber:    make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		c.definitions = append(c.definitions, def.clone())
	}
	// Numbers are fixed width, so lexical order is numeric order
	slices.SortFunc(c.definitions, func(a, b Definition) int {
		return strings.Compare(a.Number, b.Number)
	})
	for i, def := range c.definitions {
		c.byNumber[def.Number] = i
	}
	return c, nil
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.definitions)
}

// Definitions returns a copy of the definitions in ascending number order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.definitions))
	for i, def := range c.definitions {
		out[i] = def.clone()
	}
	return out
}

// All iterates the definitions in ascending number order.
func (c *Catalog) All() iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		for _, def := range c.definitions {
			if !yield(def.clone()) {
				return
			}
		}
	}
}

// Lookup returns the definition with the given number.
func (c *Catalog) Lookup(number string) (Definition, bool) {
	i, ok := c.byNumber[number]
	if !ok {
		return Definition{}, false
	}
	return c.definitions[i].clone(), true
}
