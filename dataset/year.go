package dataset

import (
	"regexp"
	"strconv"

	"github.com/araddon/dateparse"
	"github.com/carbocation/pathogenx/table"
	log "github.com/sirupsen/logrus"
)

var yearRegex = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// DeriveYear parses the dates in column and appends their years as a derived
// column named as (default "<column>_year"). Values that are already a bare
// year, or that contain a plausible year, are accepted; anything else becomes
// missing.
func (d *Dataset) DeriveYear(column, as string) error {
	src, err := d.Column(column)
	if err != nil {
		return err
	}
	if as == "" {
		as = column + "_year"
	}

	out := make([]table.Value, len(src))
	unparsed := 0
	for i, v := range src {
		if v.IsMissing() {
			continue
		}
		year, ok := parseYear(v.String())
		if !ok {
			unparsed++
			continue
		}
		out[i] = table.StringValue(strconv.Itoa(year))
	}
	if unparsed > 0 {
		log.Warnf("%s: %d values of %q could not be read as dates", d.name, unparsed, column)
	}

	return d.AddColumn(as, out)
}

func parseYear(s string) (int, bool) {
	if len(s) == 4 {
		if y, err := strconv.Atoi(s); err == nil {
			return y, true
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Year(), true
	}
	if m := yearRegex.FindString(s); m != "" {
		y, _ := strconv.Atoi(m)
		return y, true
	}
	return 0, false
}
