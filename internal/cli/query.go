package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/domain/search"
	"github.com/kailas-cloud/vecrag/internal/source"
)

var (
	queryText string
	queryK    int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the documents nearest to a query",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question from the nearest documents",
	Args:  cobra.NoArgs,
	RunE:  runAsk,
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, askCmd} {
		c.Flags().StringVarP(&queryText, "query", "q", source.DefaultQuery, "query text")
		c.Flags().IntVarP(&queryK, "top-k", "k", 0, "number of documents (default from search.default_k)")
		rootCmd.AddCommand(c)
	}
}

// topK applies search.default_k only when -k was not given; an explicit 0 is
// left for retrieval to reject.
func topK(cmd *cobra.Command) int {
	if cmd.Flags().Changed("top-k") {
		return queryK
	}
	return cfg.Search.DefaultK
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	hits, err := a.Retrieval.Search(cmd.Context(), queryText, topK(cmd))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printHits(cmd.OutOrStdout(), hits)
	return nil
}

func runAsk(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ans, err := a.Answer.Ask(cmd.Context(), queryText, topK(cmd))
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ans.Text)
	fmt.Fprintln(out, "\nSources:")
	printHits(out, ans.Sources)
	return nil
}

func printHits(w io.Writer, hits []search.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No documents found")
		return
	}
	for i, h := range hits {
		fmt.Fprintf(w, "%d. %s (score %s)\n   %s\n", i+1, h.ID(), formatScore(h), preview(h.Text(), 120))
	}
}

func formatScore(h search.Hit) string {
	if !h.HasScore() {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", h.Score())
}

// preview flattens text to one line of at most n runes.
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
