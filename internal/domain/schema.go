package domain

import "strings"

// IndexSchema names the search index and the hash layout of stored documents.
type IndexSchema struct {
	Name           string // e.g. "idx:documents"
	KeyPrefix      string // e.g. "doc:"
	TextField      string
	VectorField    string
	ScoreAlias     string
	Dim            int
	M              int
	EFConstruction int
	Dialect        int
}

// Key returns the store key of document id.
func (s IndexSchema) Key(id string) string { return s.KeyPrefix + id }

// ID strips the key prefix; keys outside the prefix are returned unchanged.
func (s IndexSchema) ID(key string) string { return strings.TrimPrefix(key, s.KeyPrefix) }

// IndexStatus describes the live state of the search index.
type IndexStatus struct {
	Name       string
	Exists     bool
	NumDocs    int64
	Indexing   bool
	Percent    float64
	Attributes []string
}
