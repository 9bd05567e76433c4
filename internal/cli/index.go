package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the search index",
}

var indexEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the index if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Index.EnsureIndex(cmd.Context()); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Index %s ready\n", cfg.Index.Name)
		return nil
	},
}

var indexDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the index; stored documents are kept",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		dropped, err := a.Index.Drop(cmd.Context())
		if err != nil {
			return fmt.Errorf("drop index: %w", err)
		}
		if dropped {
			fmt.Fprintf(cmd.OutOrStdout(), "Index %s dropped\n", cfg.Index.Name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Index %s does not exist\n", cfg.Index.Name)
		}
		return nil
	},
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show index status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Index.Describe(cmd.Context())
		if err != nil {
			return fmt.Errorf("describe index: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Index:      %s\n", st.Name)
		if !st.Exists {
			fmt.Fprintln(out, "Status:     missing")
			return nil
		}
		fmt.Fprintf(out, "Documents:  %d\n", st.NumDocs)
		fmt.Fprintf(out, "Indexing:   %v (%.0f%%)\n", st.Indexing, st.Percent*100)
		fmt.Fprintf(out, "Attributes: %s\n", strings.Join(st.Attributes, ", "))
		return nil
	},
}

func init() {
	indexCmd.AddCommand(indexEnsureCmd, indexDropCmd, indexInfoCmd)
	rootCmd.AddCommand(indexCmd)
}
