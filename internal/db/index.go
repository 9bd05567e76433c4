package db

import (
	"errors"
	"fmt"
)

// DistanceMetric used by FT.SEARCH vector similarity queries.
type DistanceMetric string

const (
	// DistanceCosine is one minus the cosine similarity; lower is closer.
	DistanceCosine DistanceMetric = "COSINE"
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
)

// VectorAlgorithm selects the vector indexing algorithm.
type VectorAlgorithm string

// VectorHNSW is the only algorithm the document index is built with.
const VectorHNSW VectorAlgorithm = "HNSW"

// VectorType is the on-wire component type.
const VectorType = "FLOAT32"

// IndexFieldType enumerates the field types a document index declares.
type IndexFieldType int

const (
	// IndexFieldText is a full-text field holding the document body.
	IndexFieldText IndexFieldType = iota
	// IndexFieldVector is a vector field holding the embedding.
	IndexFieldVector
)

// String returns the FT.CREATE keyword for the field type.
func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldText:
		return "TEXT"
	case IndexFieldVector:
		return "VECTOR"
	default:
		return fmt.Sprintf("IndexFieldType(%d)", int(t))
	}
}

// VectorParams are the HNSW settings of a vector field.
type VectorParams struct {
	Algorithm      VectorAlgorithm
	Dim            int
	Distance       DistanceMetric
	M              int // max edges per node
	EFConstruction int // build-time candidate list size
}

// IndexField describes a single schema field.
type IndexField struct {
	Name   string
	Type   IndexFieldType
	Vector *VectorParams // set for IndexFieldVector only
}

// IndexDefinition is an FT index over hashes under a key prefix.
// An index is immutable once created; changing the dimension means drop and recreate.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if idx.Prefix == "" {
		return errors.New("key prefix is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("field name is required at index %d", i)
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Type == IndexFieldVector {
			if f.Vector == nil || f.Vector.Dim <= 0 {
				return errors.New("vector field requires positive DIM")
			}
		}
	}
	return nil
}

// VectorDim returns the dimension of the first vector field, 0 when there is none.
func (idx *IndexDefinition) VectorDim() int {
	for i := range idx.Fields {
		if v := idx.Fields[i].Vector; idx.Fields[i].Type == IndexFieldVector && v != nil {
			return v.Dim
		}
	}
	return 0
}

// IndexInfo is the subset of FT.INFO the service reports.
type IndexInfo struct {
	Name         string
	NumDocs      int64
	Indexing     bool
	PercentIndex float64
	Attributes   []string
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
