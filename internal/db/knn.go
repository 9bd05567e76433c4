package db

import (
	"fmt"
	"strconv"
)

// DefaultDialect is the lowest query dialect that accepts KNN parameters.
const DefaultDialect = 2

// KNNQuery is a fully resolved vector similarity query. Build it with NewKNN.
type KNNQuery struct {
	IndexName   string
	VectorField string
	TextField   string
	ScoreAlias  string
	Blob        []byte // little-endian float32 vector
	K           int
	Dialect     int
}

// KNNBuilder assembles a KNNQuery.
type KNNBuilder struct {
	q KNNQuery
}

// NewKNN starts a KNN query against index.
func NewKNN(index string) *KNNBuilder {
	return &KNNBuilder{q: KNNQuery{
		IndexName:  index,
		ScoreAlias: "score",
		Dialect:    DefaultDialect,
	}}
}

// Vector binds the vector field and the encoded query vector.
func (b *KNNBuilder) Vector(field string, blob []byte) *KNNBuilder {
	b.q.VectorField = field
	b.q.Blob = blob
	return b
}

// Return selects the text field to return alongside the distance.
func (b *KNNBuilder) Return(textField string) *KNNBuilder {
	b.q.TextField = textField
	return b
}

// ScoreAs names the distance alias.
func (b *KNNBuilder) ScoreAs(alias string) *KNNBuilder {
	b.q.ScoreAlias = alias
	return b
}

// K sets the neighbour count.
func (b *KNNBuilder) K(k int) *KNNBuilder {
	b.q.K = k
	return b
}

// Dialect sets the query dialect.
func (b *KNNBuilder) Dialect(d int) *KNNBuilder {
	b.q.Dialect = d
	return b
}

// Build validates the query. k <= 0 is rejected, never clamped.
func (b *KNNBuilder) Build() (*KNNQuery, error) {
	q := b.q
	switch {
	case q.K <= 0:
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidQuery, q.K)
	case !IsValidIdentifier(q.IndexName):
		return nil, fmt.Errorf("%w: invalid index name %q", ErrInvalidQuery, q.IndexName)
	case q.VectorField == "":
		return nil, fmt.Errorf("%w: vector field is required", ErrInvalidQuery)
	case len(q.Blob) == 0 || len(q.Blob)%4 != 0:
		return nil, fmt.Errorf("%w: vector blob of %d bytes is not a float32 sequence", ErrInvalidQuery, len(q.Blob))
	case q.TextField == "":
		return nil, fmt.Errorf("%w: text field is required", ErrInvalidQuery)
	case q.TextField == q.VectorField:
		return nil, fmt.Errorf("%w: vector field must not be returned", ErrInvalidQuery)
	case q.ScoreAlias == "" || q.ScoreAlias == q.VectorField:
		return nil, fmt.Errorf("%w: invalid score alias %q", ErrInvalidQuery, q.ScoreAlias)
	case q.Dialect < DefaultDialect:
		return nil, fmt.Errorf("%w: dialect %d does not support KNN params", ErrInvalidQuery, q.Dialect)
	}
	return &q, nil
}

// Clause returns the ANN clause, e.g. "*=>[KNN 2 @vector_field $BLOB AS score]".
func (q *KNNQuery) Clause() string {
	return "*=>[KNN " + strconv.Itoa(q.K) + " @" + q.VectorField + " $BLOB AS " + q.ScoreAlias + "]"
}

// Args renders the FT.SEARCH arguments. The blob is passed as a binary parameter.
func (q *KNNQuery) Args() []string {
	k := strconv.Itoa(q.K)
	return []string{
		q.IndexName,
		q.Clause(),
		"RETURN", "2", q.TextField, q.ScoreAlias,
		"SORTBY", q.ScoreAlias, "ASC",
		"LIMIT", "0", k,
		"PARAMS", "2", "BLOB", string(q.Blob),
		"DIALECT", strconv.Itoa(q.Dialect),
	}
}
