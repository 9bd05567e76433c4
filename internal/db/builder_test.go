package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Documents(t *testing.T) {
	idx := NewIndex("idx:documents").
		Prefix("doc:").
		Text("text_field").
		VectorHNSW("vector_field", 1536, DistanceCosine, 16, 200).
		MustBuild()

	if idx.Name != "idx:documents" {
		t.Errorf("name = %q, want idx:documents", idx.Name)
	}
	if idx.Prefix != "doc:" {
		t.Errorf("prefix = %q, want doc:", idx.Prefix)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "text_field" || idx.Fields[0].Type != IndexFieldText {
		t.Errorf("field[0] = %+v, want text_field TEXT", idx.Fields[0])
	}
	f := idx.Fields[1]
	if f.Type != IndexFieldVector || f.Vector == nil {
		t.Fatalf("field[1] = %+v, want vector", f)
	}
	if f.Vector.Algorithm != VectorHNSW {
		t.Errorf("algo = %q, want HNSW", f.Vector.Algorithm)
	}
	if f.Vector.Dim != 1536 {
		t.Errorf("dim = %d, want 1536", f.Vector.Dim)
	}
	if f.Vector.Distance != DistanceCosine {
		t.Errorf("distance = %q, want COSINE", f.Vector.Distance)
	}
	if f.Vector.M != 16 || f.Vector.EFConstruction != 200 {
		t.Errorf("M/EF = %d/%d, want 16/200", f.Vector.M, f.Vector.EFConstruction)
	}
	if idx.VectorDim() != 1536 {
		t.Errorf("VectorDim() = %d, want 1536", idx.VectorDim())
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Prefix("doc:").Text("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no prefix",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Text("x").Build()
			},
			wantErr: "key prefix is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Prefix("doc:").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "vector without dim",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Prefix("doc:").VectorHNSW("v", 0, DistanceCosine, 16, 200).Build()
			},
			wantErr: "positive DIM",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Prefix("doc:").Text("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Prefix("doc:").Text("f").VectorHNSW("f", 4, DistanceCosine, 16, 200).Build()
			},
			wantErr: "duplicate field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").
		Prefix("doc:").
		Text("body").
		VectorHNSW("vec", 512, DistanceCosine, 16, 200).
		MustBuild()

	s := idx.String()
	want := "FT.CREATE my-idx ON HASH PREFIX 1 doc: SCHEMA body TEXT vec VECTOR HNSW DIM 512 COSINE"
	if s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}

func TestIndexDefinition_VectorDimWithoutVector(t *testing.T) {
	idx := NewIndex("t").Prefix("p:").Text("body").MustBuild()
	if idx.VectorDim() != 0 {
		t.Errorf("VectorDim() = %d, want 0", idx.VectorDim())
	}
}

func TestIndexFieldType_String(t *testing.T) {
	if IndexFieldText.String() != "TEXT" || IndexFieldVector.String() != "VECTOR" {
		t.Error("unexpected keyword")
	}
	if IndexFieldType(9).String() != "IndexFieldType(9)" {
		t.Errorf("unknown = %q", IndexFieldType(9).String())
	}
}
