package internal

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	name  string
	value int
}

func rowFromCSV(record, headers []string) (row, error) {
	value, err := strconv.Atoi(record[1])
	if err != nil {
		return row{}, err
	}
	return row{name: record[0], value: value}, nil
}

func TestParseCSV(t *testing.T) {
	t.Run("Skips header and comments", func(t *testing.T) {
		input := "# a comment\nname,value\na, 1\nb,2\n"

		var rows []row
		for result := range ParseCSV(strings.NewReader(input), true, rowFromCSV) {
			require.NoError(t, result.Error)
			rows = append(rows, result.Value)
		}
		assert.Equal(t, []row{{"a", 1}, {"b", 2}}, rows)
	})

	t.Run("Passes headers through", func(t *testing.T) {
		var seen []string
		for result := range ParseCSV(strings.NewReader("x,y\n1,2\n"), true, func(record, headers []string) ([]string, error) {
			seen = headers
			return record, nil
		}) {
			require.NoError(t, result.Error)
		}
		assert.Equal(t, []string{"x", "y"}, seen)
	})

	t.Run("Stops at first mapping error", func(t *testing.T) {
		var results []Result[row]
		for result := range ParseCSV(strings.NewReader("a,1\nb,oops\nc,3\n"), false, rowFromCSV) {
			results = append(results, result)
		}
		require.Len(t, results, 2)
		assert.NoError(t, results[0].Error)
		assert.Error(t, results[1].Error)
	})

	t.Run("Empty input yields nothing", func(t *testing.T) {
		count := 0
		for range ParseCSV(strings.NewReader(""), false, rowFromCSV) {
			count++
		}
		assert.Zero(t, count)
	})
}
