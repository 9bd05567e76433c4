package document

import (
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/vector"
)

// toHash flattens a document into the two hash fields the index covers.
func toHash(schema domain.IndexSchema, doc *domdoc.Document) map[string]string {
	return map[string]string{
		schema.TextField:   doc.Text(),
		schema.VectorField: vector.EncodeString(doc.Vector()),
	}
}

// fromHash hydrates a document from HGETALL output.
func fromHash(schema domain.IndexSchema, id string, m map[string]string) (domdoc.Document, error) {
	var vec []float32
	if raw, ok := m[schema.VectorField]; ok {
		v, err := vector.DecodeString(raw)
		if err != nil {
			return domdoc.Document{}, &domain.MalformedReplyError{
				Reason: fmt.Sprintf("document %s: vector field", id),
				Err:    err,
			}
		}
		vec = v
	}
	return domdoc.Reconstruct(id, m[schema.TextField], vec), nil
}
