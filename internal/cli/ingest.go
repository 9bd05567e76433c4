package cli

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/source"
)

var (
	ingestDir     string
	ingestSamples bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Embed and store documents",
	Long: `Embed documents and store them in the index, creating the index if needed.

Examples:
  vecrag ingest --samples     # Five demo documents
  vecrag ingest --dir ./docs  # Every file matching ingest.includes`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "directory to ingest")
	ingestCmd.Flags().BoolVar(&ingestSamples, "samples", false, "ingest the built-in sample corpus")
	ingestCmd.MarkFlagsMutuallyExclusive("dir", "samples")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	docs, err := collectDocuments()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to ingest")
		return nil
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	bar := newBar(len(docs), "[cyan]Ingesting[reset]")
	var barMu sync.Mutex
	progress := func(dombatch.Result) {
		barMu.Lock()
		defer barMu.Unlock()
		_ = bar.Add(1)
	}

	results := a.Ingest.Ingest(cmd.Context(), docs, progress)
	sum := dombatch.Summarize(results)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nIngest complete:\n")
	fmt.Fprintf(out, "  Documents: %d\n", sum.Total)
	fmt.Fprintf(out, "  Created:   %d\n", sum.Created)
	fmt.Fprintf(out, "  Updated:   %d\n", sum.Updated)
	fmt.Fprintf(out, "  Failed:    %d\n", sum.Failed)

	if sum.Failed == 0 {
		return nil
	}
	fmt.Fprintf(out, "\nErrors:\n")
	for _, r := range results {
		if r.Err() != nil {
			fmt.Fprintf(out, "  - %s: %v\n", r.ID(), r.Err())
		}
	}
	return fmt.Errorf("%d of %d documents failed", sum.Failed, sum.Total)
}

func collectDocuments() ([]domdoc.Document, error) {
	if ingestDir == "" {
		if !ingestSamples {
			return nil, errors.New("one of --dir or --samples is required")
		}
		return source.Samples(), nil
	}

	info, err := os.Stat(ingestDir)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", ingestDir)
	}
	docs, err := source.Files(ingestDir, cfg.Ingest.Includes, cfg.Ingest.Excludes)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", ingestDir, err)
	}
	return docs, nil
}

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}
