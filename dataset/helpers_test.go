package dataset

import (
	"testing"

	"github.com/carbocation/pathogenx/table"
	"github.com/stretchr/testify/require"
)

// mustTable builds a table from rows of "id, values..." with the given columns.
func mustTable(t *testing.T, columns []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New(columns...)
	require.NoError(t, err)
	for _, row := range rows {
		values := make([]table.Value, len(row)-1)
		for i, cell := range row[1:] {
			values[i] = table.Parse(cell)
		}
		require.NoError(t, tbl.Append(row[0], values...))
	}
	return tbl
}

func texts(values []table.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
