package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
// The query must come from db.KNNBuilder.Build, which validates it.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q == nil {
		return nil, db.ErrInvalidQuery
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(q.Args()...).Build()
	msg, err := s.do(ctx, cmd).ToMessage()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return &db.SearchResult{}, nil
		}
		if isRedisErr(err, unknownIndexErrs...) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNReply(&msg, replyFields{text: q.TextField, score: q.ScoreAlias})
}
