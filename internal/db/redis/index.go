package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// Server error fragments for a missing index across Redis Stack, Redis 8 and valkey-search.
var unknownIndexErrs = []string{"unknown index name", "no such index", "index with name"}

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. Documents under its prefix are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, unknownIndexErrs...) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, unknownIndexErrs...) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// IndexInfo returns document count, indexing state and attribute names from FT.INFO.
func (s *Store) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, unknownIndexErrs...) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	if len(raw)%2 != 0 {
		return nil, &db.ReplyError{Op: db.OpIndexInfo, Reason: "odd number of elements"}
	}

	info := &db.IndexInfo{Name: name}
	for i := 0; i+1 < len(raw); i += 2 {
		key, ok := scalarString(&raw[i])
		if !ok {
			continue
		}
		val := &raw[i+1]
		switch key {
		case "num_docs":
			if v, ok := scalarString(val); ok {
				info.NumDocs, _ = strconv.ParseInt(v, 10, 64)
			}
		case "indexing":
			if v, ok := scalarString(val); ok {
				info.Indexing = v != "0" && v != ""
			}
		case "percent_indexed":
			if v, ok := scalarString(val); ok {
				info.PercentIndex, _ = strconv.ParseFloat(v, 64)
			}
		case "attributes":
			info.Attributes = parseAttributeNames(val)
		}
	}
	return info, nil
}

func parseAttributeNames(m *rueidis.RedisMessage) []string {
	attrs, err := m.ToArray()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for i := range attrs {
		pairs, err := attrs[i].ToArray()
		if err != nil {
			continue
		}
		for j := 0; j+1 < len(pairs); j += 2 {
			if k, _ := scalarString(&pairs[j]); k == "attribute" {
				if v, ok := scalarString(&pairs[j+1]); ok {
					names = append(names, v)
				}
				break
			}
		}
	}
	return names
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx == nil {
		return nil, errors.New("index definition is required")
	}
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "HASH", "PREFIX", "1", idx.Prefix, "SCHEMA"}
	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}
	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	switch f.Type {
	case db.IndexFieldText:
		return []string{f.Name, "TEXT"}, nil
	case db.IndexFieldVector:
		return buildVectorFieldArgs(f)
	default:
		return nil, errors.New("unknown field type for " + f.Name)
	}
}

func buildVectorFieldArgs(f *db.IndexField) ([]string, error) {
	v := f.Vector
	if v == nil || v.Dim <= 0 {
		return nil, errors.New("vector DIM must be positive")
	}

	distance := v.Distance
	if distance == "" {
		distance = db.DistanceCosine
	}

	attrs := []string{
		"TYPE", db.VectorType,
		"DIM", strconv.Itoa(v.Dim),
		"DISTANCE_METRIC", string(distance),
	}
	if v.M > 0 {
		attrs = append(attrs, "M", strconv.Itoa(v.M))
	}
	if v.EFConstruction > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(v.EFConstruction))
	}

	result := make([]string, 0, 4+len(attrs))
	result = append(result, f.Name, "VECTOR", string(db.VectorHNSW), strconv.Itoa(len(attrs)))
	result = append(result, attrs...)
	return result, nil
}
