package query

import "fmt"

const (
	defaultPagingLimit = 1000
)

// PaginateQuery returns a paginated query string for the given input options.
//
// The input query string is expected as follows:
//
//	"SELECT ... WHERE (...)" <- these brackets are not optional
//
// Cursor, ordering and limit clauses are appended with positional arguments
// numbered after the existing opts.
func PaginateQuery(query string, opts []interface{},
	cursor Cursor, limit uint64, direction Ordering) (string, []interface{}) {

	comparison, order := ">", "ASC"
	if direction == Descending {
		comparison, order = "<", "DESC"
	}

	if len(cursor) > 0 {
		opts = append(opts, cursor.ToUint64())
		query += fmt.Sprintf(" AND id %s $%d", comparison, len(opts))
	}

	query += " ORDER BY id " + order

	if limit > 0 {
		opts = append(opts, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(opts))
	}

	return query, opts
}

// DefaultPaginationHandler resolves paging options, rejecting limits above
// the default page size
func DefaultPaginationHandler(opts ...Option) (*QueryOptions, error) {
	req := QueryOptions{
		Limit:     defaultPagingLimit,
		SortBy:    Ascending,
		Supported: CanLimitResults | CanSortBy | CanQueryByCursor,
	}
	if err := req.Apply(opts...); err != nil {
		return nil, err
	}

	if req.Limit == 0 || req.Limit > defaultPagingLimit {
		return nil, ErrQueryNotSupported
	}

	return &req, nil
}
