package distance

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pathogenx"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// Read parses a distance file in the given layout. It returns the matrix and
// the sample labels in matrix index order.
func Read(r io.Reader, layout Layout) (*Matrix, []string, error) {
	br := bufio.NewReader(r)

	delim := layout.Delimiter
	if delim == 0 {
		delim = pathogenx.DetermineDelimiter(br)
		log.Debugf("Determined distance delimiter to be %q", string(delim))
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	switch layout.Shape {
	case Square:
		return readSquare(cr)
	case Long:
		return readLong(cr, layout)
	}

	return nil, nil, fmt.Errorf("unknown distance shape %d", layout.Shape)
}

func readSquare(cr *csv.Reader) (*Matrix, []string, error) {
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: empty distance file", ErrAlignment)
	} else if err != nil {
		return nil, nil, pfx.Err(err)
	}
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("%w: square header has %d fields", ErrAlignment, len(header))
	}

	labels := make([]string, len(header)-1)
	for i, name := range header[1:] {
		labels[i] = strings.TrimSpace(name)
	}
	n := len(labels)

	b := NewBuilder(n)
	row := 0
	for ; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, pfx.Err(err)
		}
		if row >= n {
			return nil, nil, fmt.Errorf("%w: square matrix has more than %d rows", ErrAlignment, n)
		}
		if len(record) != n+1 {
			return nil, nil, fmt.Errorf("%w: row %d has %d fields, expected %d", ErrAlignment, row+1, len(record), n+1)
		}
		if name := strings.TrimSpace(record[0]); name != labels[row] {
			return nil, nil, fmt.Errorf("%w: row %d is labelled %q but column %d is %q", ErrAlignment, row+1, name, row+1, labels[row])
		}

		for j, cell := range record[1:] {
			if j == row {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			d, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: non-numeric distance %q between %s and %s", ErrAlignment, cell, labels[row], labels[j])
			}
			if err := b.Add(row, j, d); err != nil {
				return nil, nil, err
			}
		}
	}
	if row != n {
		return nil, nil, fmt.Errorf("%w: square matrix has %d rows but %d columns", ErrAlignment, row, n)
	}

	return b.Build(), labels, nil
}

func readLong(cr *csv.Reader, layout Layout) (*Matrix, []string, error) {
	width := 0
	for _, c := range layout.Columns {
		if c < 0 {
			return nil, nil, fmt.Errorf("invalid distance column %d", c)
		}
		if c+1 > width {
			width = c + 1
		}
	}

	index := make(map[string]int)
	var labels []string
	lookup := func(name string) int {
		i, exists := index[name]
		if !exists {
			i = len(labels)
			index[name] = i
			labels = append(labels, name)
		}
		return i
	}

	var edges []Edge
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, pfx.Err(err)
		}
		if line == 1 && layout.Header {
			continue
		}
		if len(record) < width {
			return nil, nil, fmt.Errorf("%w: line %d has %d fields, need at least %d", ErrAlignment, line, len(record), width)
		}

		a := strings.TrimSpace(record[layout.Columns[0]])
		b := strings.TrimSpace(record[layout.Columns[1]])
		cell := strings.TrimSpace(record[layout.Columns[2]])
		d, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d has non-numeric distance %q", ErrAlignment, line, cell)
		}

		edges = append(edges, Edge{I: lookup(a), J: lookup(b), D: d})
	}

	m, err := FromTriplets(len(labels), edges)
	if err != nil {
		return nil, nil, err
	}

	return m, labels, nil
}
