package chatjpt

import (
	"net/url"
	"strconv"
)

// ListParams selects one page of a cursor-paginated listing.
// Zero values are omitted from the query.
type ListParams struct {
	// After is the ID of the last item of the previous page.
	After string
	// Limit is the page size.
	Limit int
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.After != "" {
		q.Set("after", p.After)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}
