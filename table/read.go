package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pathogenx"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// ReadOptions controls how a delimited table is parsed.
type ReadOptions struct {
	// Delimiter separating fields. Zero means detect from the data.
	Delimiter rune

	// IDColumn names the sample identifier column. If empty, IDIndex is used.
	IDColumn string

	// IDIndex is the zero-based position of the identifier column when
	// IDColumn is empty.
	IDIndex int

	// Comment, if nonzero, marks lines to skip.
	Comment rune
}

// Read parses a delimited table with a header row. One column holds the sample
// identifier; every other column becomes a categorical column.
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	br := bufio.NewReader(r)

	delim := opts.Delimiter
	if delim == 0 {
		delim = pathogenx.DetermineDelimiter(br)
		log.Debugf("Determined table delimiter to be %q", string(delim))
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.Comment = opts.Comment
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("Header parsing error: %v", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idCol := opts.IDIndex
	if opts.IDColumn != "" {
		idCol = -1
		for i, name := range header {
			if name == opts.IDColumn {
				idCol = i
				break
			}
		}
		if idCol < 0 {
			return nil, fmt.Errorf("%w: identifier column %q", ErrColumnNotFound, opts.IDColumn)
		}
	}
	if idCol < 0 || idCol >= len(header) {
		return nil, fmt.Errorf("%w: identifier column index %d with %d columns", ErrColumnNotFound, idCol, len(header))
	}

	columns := make([]string, 0, len(header)-1)
	for i, name := range header {
		if i != idCol {
			columns = append(columns, name)
		}
	}

	t, err := New(columns...)
	if err != nil {
		return nil, err
	}

	values := make([]Value, len(columns))
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrMalformed, line, len(row), len(header))
		}

		id := strings.TrimSpace(row[idCol])
		if id == "" {
			return nil, fmt.Errorf("%w: line %d has an empty sample identifier", ErrMalformed, line)
		}

		j := 0
		for i, cell := range row {
			if i == idCol {
				continue
			}
			values[j] = Parse(cell)
			j++
		}
		if err := t.Append(id, values...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return t, nil
}
