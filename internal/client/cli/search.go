package cli

import (
	"context"
	"fmt"
	"strconv"
)

const searchPageSize = 10

// Search lists directory profiles: search [term] [page].
func (a *App) Search(ctx context.Context, args []string) error {
	var (
		term string
		page = 1
	)
	if len(args) > 0 {
		term = args[0]
	}
	if len(args) > 1 {
		p, err := strconv.Atoi(args[1])
		if err != nil || p < 1 {
			return fmt.Errorf("page must be a positive number, got %q", args[1])
		}
		page = p
	}

	res, err := a.api.Search(ctx, term, page, searchPageSize)
	if err != nil {
		return err
	}

	if len(res.Users) == 0 {
		fmt.Fprintln(a.out, "No profiles found")
	}
	for _, u := range res.Users {
		fmt.Fprintf(a.out, "@%-30s %s\n", u.Username, u.DisplayName)
	}
	fmt.Fprintf(a.out, "page %d/%d, %d total\n", res.Pagination.Page, res.Pagination.TotalPages, res.Pagination.Total)
	return nil
}
