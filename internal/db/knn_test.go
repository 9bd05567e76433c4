package db

import (
	"errors"
	"testing"
)

func validKNN() *KNNBuilder {
	return NewKNN("idx:documents").
		Vector("vector_field", []byte{0, 0, 128, 63, 0, 0, 0, 64}).
		Return("text_field").
		K(2)
}

func TestKNNBuilder_Args(t *testing.T) {
	q, err := validKNN().Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"idx:documents",
		"*=>[KNN 2 @vector_field $BLOB AS score]",
		"RETURN", "2", "text_field", "score",
		"SORTBY", "score", "ASC",
		"LIMIT", "0", "2",
		"PARAMS", "2", "BLOB", "\x00\x00\x80\x3f\x00\x00\x00\x40",
		"DIALECT", "2",
	}
	got := q.Args()
	if len(got) != len(want) {
		t.Fatalf("args len = %d, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKNNBuilder_NeverReturnsVector(t *testing.T) {
	q, err := validKNN().Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := q.Args()
	for i, a := range args {
		if a == "RETURN" {
			n := args[i+1]
			if n != "2" {
				t.Fatalf("RETURN count = %s", n)
			}
			for _, f := range args[i+2 : i+4] {
				if f == "vector_field" {
					t.Fatal("vector field requested back")
				}
			}
		}
	}
}

func TestKNNBuilder_CustomAliasAndDialect(t *testing.T) {
	q, err := validKNN().ScoreAs("dist").Dialect(3).K(5).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Clause() != "*=>[KNN 5 @vector_field $BLOB AS dist]" {
		t.Errorf("Clause() = %q", q.Clause())
	}
	args := q.Args()
	if args[len(args)-1] != "3" {
		t.Errorf("dialect = %q, want 3", args[len(args)-1])
	}
	if args[8] != "dist" {
		t.Errorf("SORTBY field = %q, want dist", args[8])
	}
}

func TestKNNBuilder_BuildDoesNotAlias(t *testing.T) {
	b := validKNN()
	q1, _ := b.Build()
	q2, _ := b.K(7).Build()
	if q1.K != 2 || q2.K != 7 {
		t.Errorf("K = %d/%d, want 2/7", q1.K, q2.K)
	}
}

func TestKNNBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name string
		b    *KNNBuilder
	}{
		{"k_zero", validKNN().K(0)},
		{"k_negative", validKNN().K(-3)},
		{"bad_index", NewKNN("bad index").Vector("v", []byte{0, 0, 0, 0}).Return("t").K(1)},
		{"no_vector_field", NewKNN("idx").Vector("", []byte{0, 0, 0, 0}).Return("t").K(1)},
		{"empty_blob", NewKNN("idx").Vector("v", nil).Return("t").K(1)},
		{"unaligned_blob", NewKNN("idx").Vector("v", []byte{0, 0, 0}).Return("t").K(1)},
		{"no_text_field", NewKNN("idx").Vector("v", []byte{0, 0, 0, 0}).K(1)},
		{"returns_vector", NewKNN("idx").Vector("v", []byte{0, 0, 0, 0}).Return("v").K(1)},
		{"empty_alias", validKNN().ScoreAs("")},
		{"dialect_one", validKNN().Dialect(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := tc.b.Build()
			if !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
			if q != nil {
				t.Error("expected nil query")
			}
		})
	}
}
