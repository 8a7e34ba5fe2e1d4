package search

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Default analysis settings applied to every index.
const (
	DefaultAnalyzer     = "default"
	DefaultAnalyzerType = "custom"
	DefaultTokenizer    = "standard"
	WordsSplitter       = "words_splitter"
)

// TokenFilter is a custom token filter declared in the index settings.
type TokenFilter struct {
	Name             string `json:"-"`
	Type             string `json:"type"`
	CatenateAll      bool   `json:"catenate_all"`
	PreserveOriginal bool   `json:"preserve_original"`
}

// IndexDefinition describes the analysis settings of an index.
type IndexDefinition struct {
	Name         string
	Analyzer     string
	AnalyzerType string
	Tokenizer    string
	TokenFilters []string
	CharFilters  []string
	Filters      []TokenFilter
}

// Validate checks that the definition can be sent to an engine.
func (d *IndexDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidDefinition)
	}
	if d.Analyzer == "" {
		return fmt.Errorf("%w: analyzer name is required", ErrInvalidDefinition)
	}
	if d.Tokenizer == "" {
		return fmt.Errorf("%w: tokenizer is required", ErrInvalidDefinition)
	}
	seen := make(map[string]struct{}, len(d.Filters))
	for _, f := range d.Filters {
		if f.Name == "" || f.Type == "" {
			return fmt.Errorf("%w: token filter needs a name and a type", ErrInvalidDefinition)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: token filter %q declared twice", ErrInvalidDefinition, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

type analyzerSettings struct {
	Filter     []string `json:"filter"`
	CharFilter []string `json:"char_filter"`
	Type       string   `json:"type"`
	Tokenizer  string   `json:"tokenizer"`
}

type createBody struct {
	Settings struct {
		Index struct {
			Analysis struct {
				Filter   map[string]TokenFilter      `json:"filter"`
				Analyzer map[string]analyzerSettings `json:"analyzer"`
			} `json:"analysis"`
		} `json:"index"`
	} `json:"settings"`
}

// CreateBody returns the JSON body of the index creation request.
func (d *IndexDefinition) CreateBody() ([]byte, error) {
	var body createBody
	analysis := &body.Settings.Index.Analysis

	analysis.Filter = make(map[string]TokenFilter, len(d.Filters))
	for _, f := range d.Filters {
		analysis.Filter[f.Name] = f
	}

	tokenFilters, charFilters := d.TokenFilters, d.CharFilters
	if tokenFilters == nil {
		tokenFilters = []string{}
	}
	if charFilters == nil {
		charFilters = []string{}
	}
	analysis.Analyzer = map[string]analyzerSettings{
		d.Analyzer: {
			Filter:     tokenFilters,
			CharFilter: charFilters,
			Type:       d.AnalyzerType,
			Tokenizer:  d.Tokenizer,
		},
	}
	return json.Marshal(body)
}

// DefinitionBuilder is a fluent builder for index definitions.
type DefinitionBuilder struct {
	def IndexDefinition
}

// NewIndexDefinition starts a definition with the default analyzer and no filters.
func NewIndexDefinition(name string) *DefinitionBuilder {
	return &DefinitionBuilder{
		def: IndexDefinition{
			Name:         name,
			Analyzer:     DefaultAnalyzer,
			AnalyzerType: DefaultAnalyzerType,
			Tokenizer:    DefaultTokenizer,
		},
	}
}

// Analyzer sets the analyzer name and type.
func (b *DefinitionBuilder) Analyzer(name, typ string) *DefinitionBuilder {
	b.def.Analyzer, b.def.AnalyzerType = name, typ
	return b
}

// Tokenizer sets the analyzer tokenizer.
func (b *DefinitionBuilder) Tokenizer(name string) *DefinitionBuilder {
	b.def.Tokenizer = name
	return b
}

// TokenFilter appends token filter names to the analyzer chain.
func (b *DefinitionBuilder) TokenFilter(names ...string) *DefinitionBuilder {
	b.def.TokenFilters = append(b.def.TokenFilters, names...)
	return b
}

// CharFilter appends char filter names to the analyzer chain.
func (b *DefinitionBuilder) CharFilter(names ...string) *DefinitionBuilder {
	b.def.CharFilters = append(b.def.CharFilters, names...)
	return b
}

// WordDelimiter declares a word_delimiter token filter.
func (b *DefinitionBuilder) WordDelimiter(name string, catenateAll, preserveOriginal bool) *DefinitionBuilder {
	b.def.Filters = append(b.def.Filters, TokenFilter{
		Name:             name,
		Type:             "word_delimiter",
		CatenateAll:      catenateAll,
		PreserveOriginal: preserveOriginal,
	})
	return b
}

func (b *DefinitionBuilder) snapshot() *IndexDefinition {
	def := b.def
	def.TokenFilters = slices.Clone(b.def.TokenFilters)
	def.CharFilters = slices.Clone(b.def.CharFilters)
	def.Filters = slices.Clone(b.def.Filters)
	return &def
}

// Build validates and returns a copy of the definition.
func (b *DefinitionBuilder) Build() (*IndexDefinition, error) {
	def := b.snapshot()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// MustBuild calls Build and panics on error.
func (b *DefinitionBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// DefaultDefinition returns the standard analysis settings for an index:
// lowercase plus a word splitter that keeps the original token, over
// html-stripped input. The result is validated when it is applied.
func DefaultDefinition(name string) *IndexDefinition {
	return NewIndexDefinition(name).
		TokenFilter("lowercase", WordsSplitter).
		CharFilter("html_strip").
		WordDelimiter(WordsSplitter, true, true).
		snapshot()
}

// DefinitionFor returns the default definition for the index of entity.
func DefinitionFor(entity Indexable) *IndexDefinition {
	return DefaultDefinition(entity.SearchableAs())
}
