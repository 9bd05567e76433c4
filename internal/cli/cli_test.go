package cli

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/domain/search"
	"github.com/kailas-cloud/vecrag/internal/version"
)

func TestVersionCommand_SkipsConfig(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--config", "/does/not/exist.yaml"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "vecrag "+version.Version) {
		t.Errorf("output = %q", out.String())
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name string
		hit  search.Hit
		want string
	}{
		{"scored", search.NewHit("a", "t", 0.12345), "0.1235"},
		{"unscored", search.NewHit("b", "t", math.NaN()), "n/a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatScore(tc.hit); got != tc.want {
				t.Errorf("formatScore = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short", "hello world", 20, "hello world"},
		{"flattens whitespace", "a\n\tb   c", 20, "a b c"},
		{"truncates runes", "ñandú ñandú", 5, "ñandú..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := preview(tc.text, tc.n); got != tc.want {
				t.Errorf("preview = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrintHits_Empty(t *testing.T) {
	var out bytes.Buffer
	printHits(&out, nil)
	if !strings.Contains(out.String(), "No documents found") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.bin"), []byte("beta"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Ingest.Includes = []string{"**/*.txt"}
	cfg.Ingest.Excludes = nil

	tests := []struct {
		name    string
		dir     string
		samples bool
		wantN   int
		wantErr bool
	}{
		{name: "samples", samples: true, wantN: 5},
		{name: "dir", dir: dir, wantN: 1},
		{name: "neither", wantErr: true},
		{name: "missing dir", dir: filepath.Join(dir, "nope"), wantErr: true},
		{name: "file not dir", dir: filepath.Join(dir, "a.txt"), wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ingestDir, ingestSamples = tc.dir, tc.samples
			t.Cleanup(func() { ingestDir, ingestSamples = "", false })

			docs, err := collectDocuments()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(docs) != tc.wantN {
				t.Errorf("len = %d, want %d", len(docs), tc.wantN)
			}
		})
	}
}

func TestTopK(t *testing.T) {
	cfg.Search.DefaultK = 2

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"omitted uses default", nil, 2},
		{"explicit value", []string{"-k", "5"}, 5},
		{"explicit zero kept", []string{"-k", "0"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "search"}
			var k int
			cmd.Flags().IntVarP(&k, "top-k", "k", 0, "")
			if err := cmd.ParseFlags(tc.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			queryK = k
			t.Cleanup(func() { queryK = 0 })

			if got := topK(cmd); got != tc.want {
				t.Errorf("topK = %d, want %d", got, tc.want)
			}
		})
	}
}
