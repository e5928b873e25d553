// Package object defines the vocabulary shared by the forward and rollback
// generators: the kinds of schema objects a migration can create and the
// identity of an object recovered from SQL text.
package object

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies the type of schema object a migration creates.
type Kind string

const (
	KindExtension        Kind = "extension"
	KindTable            Kind = "table"
	KindIndex            Kind = "index"
	KindFunction         Kind = "function"
	KindTrigger          Kind = "trigger"
	KindView             Kind = "view"
	KindMaterializedView Kind = "materialized_view"
	KindSeed             Kind = "seed"

	// KindUnknown is produced by extraction only, never accepted in a catalog.
	KindUnknown Kind = "unknown"
)

// UnknownName is the object name reported when extraction finds nothing.
const UnknownName = "unknown"

// Kinds returns every kind a catalog definition may use, in template order.
func Kinds() []Kind {
	return []Kind{
		KindExtension,
		KindTable,
		KindIndex,
		KindFunction,
		KindTrigger,
		KindView,
		KindMaterializedView,
		KindSeed,
	}
}

// Valid reports whether k may be used in a catalog definition.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

var upper = cases.Upper(language.Und)

// Label returns the display form of the kind, e.g. "MATERIALIZED VIEW".
func (k Kind) Label() string {
	return upper.String(strings.ReplaceAll(string(k), "_", " "))
}

func (k Kind) String() string {
	return string(k)
}

// Object is the identity of the primary schema object created by a
// migration, as recovered from its SQL text.
type Object struct {
	Kind Kind
	Name string
	// Dependent is the table a trigger is attached to. Empty for all other kinds.
	Dependent string
}

// Unknown returns the object reported when no known construct is found.
func Unknown() Object {
	return Object{Kind: KindUnknown, Name: UnknownName}
}

// IsUnknown reports whether extraction failed to identify the object.
func (o Object) IsUnknown() bool {
	return o.Kind == KindUnknown
}

// Key identifies the object for collision detection across migrations.
func (o Object) Key() string {
	key := string(o.Kind) + ":" + strings.ToLower(o.Name)
	if o.Dependent != "" {
		key += "@" + strings.ToLower(o.Dependent)
	}
	return key
}

func (o Object) String() string {
	if o.Dependent != "" {
		return o.Kind.Label() + " " + o.Name + " ON " + o.Dependent
	}
	return o.Kind.Label() + " " + o.Name
}
