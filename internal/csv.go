package internal

import (
	"encoding/csv"
	"io"
	"iter"

	"github.com/cockroachdb/errors"
)

type Result[T any] struct {
	Value T
	Error error
}

// ParseCSV yields one mapped record per CSV row. When hasHeader is true the
// first row is passed to fromCSV alongside every record instead of being
// yielded itself. Iteration stops after the first error.
func ParseCSV[T any](reader io.Reader, hasHeader bool, fromCSV func(record, headers []string) (T, error)) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		r := csv.NewReader(reader)
		r.Comment = '#'
		r.TrimLeadingSpace = true

		var headers []string
		if hasHeader {
			var err error
			if headers, err = r.Read(); err != nil {
				yield(Result[T]{Error: errors.Wrap(err, "failed to read CSV header")})
				return
			}
		}

		for {
			record, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Result[T]{Error: errors.Wrap(err, "failed to read CSV record")})
				return
			}

			value, err := fromCSV(record, headers)
			if err != nil {
				yield(Result[T]{Error: err})
				return
			}
			if !yield(Result[T]{Value: value}) {
				return
			}
		}
	}
}
