package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ncobase/herosearch/data/search"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	where   []string
	sort    []string
	page    int
	perPage int
	json    bool
}

func newSearchCommand(a *app) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search <type> [query]",
		Short: "Search the index of an entity type",
		Long: `Search the index of an entity type and print the matching ids in rank order.

Filters replace the free-text query. Sorting defaults to id descending.`,
		Example: `  herosearch search post "hello wor"
  herosearch search post --where status=published --sort created_at:desc --page 2 --per-page 20`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			if len(args) == 2 {
				req = req.Search(args[1])
			}

			return a.run(cmd.Context(), func(ctx context.Context) error {
				d, entity, err := a.connect(ctx, args[0])
				if err != nil {
					return err
				}
				req.Entity = entity

				var rs *search.ResultSet
				if cmd.Flags().Changed("page") || cmd.Flags().Changed("per-page") {
					rs, err = d.Engine.Paginate(ctx, req, f.perPage, f.page)
				} else {
					rs, err = d.Engine.Search(ctx, req)
				}
				if err != nil {
					return err
				}
				if rs.ScrollID != "" {
					if err := d.Engine.ClearScroll(ctx, rs.ScrollID); err != nil {
						a.log.WithError(err).Warn("failed to clear scroll cursor")
					}
				}
				return printResult(cmd, rs, f.json)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&f.where, "where", "w", nil, "filter as field=value (repeatable)")
	cmd.Flags().StringArrayVarP(&f.sort, "sort", "s", nil, "sort as field[:asc|desc] (repeatable)")
	cmd.Flags().IntVar(&f.page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", 15, "results per page")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	return cmd
}

// request builds a request without entity from the flags.
func (f *searchFlags) request() (search.Request, error) {
	var req search.Request

	for _, w := range f.where {
		field, value, ok := strings.Cut(w, "=")
		if !ok || field == "" {
			return req, fmt.Errorf("invalid --where %q, expected field=value", w)
		}
		req = req.Where(field, value)
	}

	for _, s := range f.sort {
		field, dir, _ := strings.Cut(s, ":")
		if field == "" {
			return req, fmt.Errorf("invalid --sort %q, expected field[:asc|desc]", s)
		}
		switch search.Direction(strings.ToLower(dir)) {
		case "", search.Asc:
			req = req.OrderBy(field, search.Asc)
		case search.Desc:
			req = req.OrderBy(field, search.Desc)
		default:
			return req, fmt.Errorf("invalid --sort direction %q", dir)
		}
	}
	return req, nil
}

func printResult(cmd *cobra.Command, rs *search.ResultSet, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"total": rs.Total, "ids": rs.IDs})
	}

	fmt.Fprintf(out, "%d total\n", rs.Total)
	for _, id := range rs.IDs {
		fmt.Fprintln(out, id)
	}
	return nil
}
