package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/oophub/internal/search"
)

// SearchCmd returns the `oophub search <query>` command.
func SearchCmd() *cobra.Command {
	var (
		limit int
		local bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search categories, topics and sections",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("query is required")
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = e.cfg.SearchLimit
			}

			var results []search.Result
			if local || e.cfg.SearchMode == search.ModeLocal {
				categories, err := e.client.GetCategories(cmd.Context())
				if err != nil {
					return fmt.Errorf("list categories: %w", err)
				}
				topics, err := e.client.GetAllTopics(cmd.Context())
				if err != nil {
					return fmt.Errorf("list topics: %w", err)
				}
				results = search.Local(search.Dataset{Categories: categories, Topics: topics}, query)
				if len(results) > limit {
					results = results[:limit]
				}
			} else {
				resp, err := e.client.Search(cmd.Context(), query, limit)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				results = search.Flatten(resp)
			}

			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of hits (defaults to search_limit)")
	cmd.Flags().BoolVar(&local, "local", false, "fuzzy-match the catalog locally instead of asking the server")
	return cmd
}

func printResults(out io.Writer, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return
	}
	for i, g := range search.GroupResults(results) {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, g.Label)
		for _, item := range g.Items {
			line := fmt.Sprintf("  %s  %s", item.ID, item.Title)
			if item.Meta != "" {
				line += "  (" + item.Meta + ")"
			}
			fmt.Fprintln(out, line)
		}
	}
}
