package prevalence

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/carbocation/pathogenx/table"
	"github.com/carbocation/pfx"
)

// Row is one aggregation group.
type Row struct {
	// Strata holds the group's value for each strata column, in Config order.
	Strata []table.Value

	Count       int
	Denominator int
	Prevalence  float64

	// Adjusted fields are set only when the calculation had adjustment
	// columns.
	AdjustedCount       float64
	AdjustedDenominator int
	AdjustedPrevalence  float64

	// Intervals are set only when Config.ConfidenceLevel is nonzero.
	Interval         Interval
	AdjustedInterval Interval

	// Ranks are 1-based within the denominator partition, 1 being the
	// highest prevalence. Zero unless Config.Rank is set.
	Rank         int
	AdjustedRank int

	// Distinct holds one distinct-value count per Config.NDistinct column.
	Distinct []int

	partition int32
}

// Result is the output of one prevalence calculation.
type Result struct {
	// Config is the configuration after defaults were resolved against the
	// dataset.
	Config Config
	Rows   []Row
}

// Adjusted reports whether rows carry adjusted counts.
func (r *Result) Adjusted() bool {
	return len(r.Config.AdjustFor) > 0
}

func (r *Result) intervals() bool {
	return r.Config.ConfidenceLevel > 0
}

// Header returns the column names of Records.
func (r *Result) Header() []string {
	header := append([]string{}, r.Config.Strata...)
	header = append(header, "count", "denominator", "prevalence")

	if r.Adjusted() {
		header = append(header, "adjusted_count", "adjusted_denominator", "adjusted_prevalence")
	}
	if r.intervals() {
		header = append(header, "prevalence_se", "prevalence_lower", "prevalence_upper")
		if r.Adjusted() {
			header = append(header, "adjusted_prevalence_se", "adjusted_prevalence_lower", "adjusted_prevalence_upper")
		}
	}
	if r.Config.Rank {
		header = append(header, "rank")
		if r.Adjusted() {
			header = append(header, "adjusted_rank")
		}
	}
	for _, col := range r.Config.NDistinct {
		header = append(header, "n_distinct_"+col)
	}

	return header
}

// Records formats every row as strings, in Header order. Missing strata
// values are empty.
func (r *Result) Records() [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make([]string, 0, len(row.Strata)+16)
		for _, v := range row.Strata {
			rec = append(rec, v.String())
		}
		rec = append(rec, strconv.Itoa(row.Count), strconv.Itoa(row.Denominator), formatFloat(row.Prevalence))

		if r.Adjusted() {
			rec = append(rec, formatFloat(row.AdjustedCount), strconv.Itoa(row.AdjustedDenominator), formatFloat(row.AdjustedPrevalence))
		}
		if r.intervals() {
			rec = append(rec, formatFloat(row.Interval.SE), formatFloat(row.Interval.Lower), formatFloat(row.Interval.Upper))
			if r.Adjusted() {
				rec = append(rec, formatFloat(row.AdjustedInterval.SE), formatFloat(row.AdjustedInterval.Lower), formatFloat(row.AdjustedInterval.Upper))
			}
		}
		if r.Config.Rank {
			rec = append(rec, strconv.Itoa(row.Rank))
			if r.Adjusted() {
				rec = append(rec, strconv.Itoa(row.AdjustedRank))
			}
		}
		for _, d := range row.Distinct {
			rec = append(rec, strconv.Itoa(d))
		}

		out = append(out, rec)
	}

	return out
}

// WriteTSV writes the header and all records, tab-delimited.
func (r *Result) WriteTSV(w io.Writer) error {
	return writeTSV(w, r.Header(), r.Records())
}

func writeTSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}
	if err := cw.WriteAll(records); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
