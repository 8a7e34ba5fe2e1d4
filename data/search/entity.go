package search

import "slices"

// Indexable is implemented by every type that can be stored in a search index.
type Indexable interface {
	// SearchableAs returns the index name shared by all instances of the type.
	SearchableAs() string

	// SearchKey returns the unique identifier of the instance.
	SearchKey() string

	// ToSearchableMap returns the document body sent to the engine.
	ToSearchableMap() map[string]any
}

// FieldSearchable is implemented by types that declare free-text fields.
type FieldSearchable interface {
	SearchableFields() []string
}

// SearchableFieldsOf returns the free-text fields of entity, or an empty list
// when the type does not declare any.
func SearchableFieldsOf(entity Indexable) []string {
	fs, ok := entity.(FieldSearchable)
	if !ok {
		return []string{}
	}
	fields := fs.SearchableFields()
	if fields == nil {
		return []string{}
	}
	return slices.Clone(fields)
}

// EntityType is a static description of an indexable type. It stands in for
// a type when only its index metadata is needed, e.g. to create or flush an
// index from the command line.
type EntityType struct {
	Name   string   `json:"type" yaml:"type" mapstructure:"type" validate:"required"`
	Index  string   `json:"index" yaml:"index" mapstructure:"index"`
	Fields []string `json:"searchable_fields" yaml:"searchable_fields" mapstructure:"searchable_fields"`
}

func (e EntityType) SearchableAs() string {
	if e.Index != "" {
		return e.Index
	}
	return e.Name
}

// SearchKey is empty; an EntityType describes a type, not an instance.
func (e EntityType) SearchKey() string { return "" }

func (e EntityType) ToSearchableMap() map[string]any { return nil }

func (e EntityType) SearchableFields() []string { return e.Fields }

var (
	_ Indexable       = EntityType{}
	_ FieldSearchable = EntityType{}
)
