package store

import "context"

// Scalar reads the first column of the first row. An empty result surfaces
// the backend's no-rows error.
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (v T, err error) {
	err = q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// Many maps every row through scan. Rows are closed on return and the
// iterator's error is reported after the last row.
func Many[T any](ctx context.Context, q Querier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Column reads a single-column result, such as a distinct listing.
func Column[T any](ctx context.Context, q Querier, sql string, args ...any) ([]T, error) {
	return Many(ctx, q, func(r Row) (v T, err error) {
		err = r.Scan(&v)
		return v, err
	}, sql, args...)
}
