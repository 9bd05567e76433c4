package db

import (
	"strconv"
	"strings"
)

// IndexBuilder is a fluent builder for document index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index over hashes.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix sets the key prefix the index covers.
func (b *IndexBuilder) Prefix(prefix string) *IndexBuilder {
	b.def.Prefix = prefix
	return b
}

// Text adds a TEXT field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldText})
	return b
}

// VectorHNSW adds a FLOAT32 HNSW vector field.
func (b *IndexBuilder) VectorHNSW(name string, dim int, distance DistanceMetric, m, efConstruction int) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name: name,
		Type: IndexFieldVector,
		Vector: &VectorParams{
			Algorithm:      VectorHNSW,
			Dim:            dim,
			Distance:       distance,
			M:              m,
			EFConstruction: efConstruction,
		},
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a debug representation resembling the FT.CREATE command.
func (idx *IndexDefinition) String() string {
	parts := []string{"FT.CREATE", idx.Name, "ON", "HASH"}
	if idx.Prefix != "" {
		parts = append(parts, "PREFIX", "1", idx.Prefix)
	}
	parts = append(parts, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name, f.Type.String())
		if f.Vector != nil {
			parts = append(parts, string(f.Vector.Algorithm), "DIM", strconv.Itoa(f.Vector.Dim), string(f.Vector.Distance))
		}
	}
	return strings.Join(parts, " ")
}
