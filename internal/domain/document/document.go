package document

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/vecrag/internal/domain"
)

// MaxIDLength bounds the caller-assigned identifier (it becomes part of the store key).
const MaxIDLength = 512

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 163840 // 160KB

// Document is a text plus its embedding, keyed by a caller-assigned identifier.
type Document struct {
	id     string
	text   string
	vector []float32
}

// New validates the identifier and text and creates a Document without a vector.
func New(id, text string) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if len(text) > MaxTextSize {
		return Document{}, domain.NewInvalidRequest("text", fmt.Sprintf("too large (max %d bytes)", MaxTextSize))
	}
	return Document{id: id, text: text}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, text string, vector []float32) Document {
	return Document{id: id, text: text, vector: vector}
}

// ValidateID checks a caller-assigned document identifier.
func ValidateID(id string) error {
	if id == "" {
		return domain.NewInvalidRequest("id", "is required")
	}
	if len(id) > MaxIDLength {
		return domain.NewInvalidRequest("id", fmt.Sprintf("too long (max %d)", MaxIDLength))
	}
	if strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return domain.NewInvalidRequest("id", "must not contain whitespace or control characters")
	}
	return nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Text returns the document text.
func (d *Document) Text() string { return d.text }

// Vector returns the embedding vector, nil until one is attached.
func (d *Document) Vector() []float32 { return d.vector }

// WithVector returns a copy carrying v. It fails fast when len(v) != dim.
func (d *Document) WithVector(v []float32, dim int) (Document, error) {
	if err := domain.CheckDimension("vector", v, dim); err != nil {
		return Document{}, fmt.Errorf("document %s: %w", d.id, err)
	}
	return Document{id: d.id, text: d.text, vector: v}, nil
}
