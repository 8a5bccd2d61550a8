package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// ManifestEntry is one row of a tab-delimited manifest listing the files of
// several datasets.
type ManifestEntry struct {
	Name      string `csv:"name"`
	Genotypes string `csv:"genotypes"`
	Metadata  string `csv:"metadata"`
	Distances string `csv:"distances"`
}

// Sources converts the entry, filling reader settings from template.
func (m ManifestEntry) Sources(template Sources) Sources {
	out := template
	out.Name = m.Name
	out.Genotypes = m.Genotypes
	out.Metadata = m.Metadata
	out.Distances = m.Distances
	return out
}

// ReadManifest parses a manifest with a header naming the columns name,
// genotypes, metadata and distances. Lines starting with # are ignored.
func ReadManifest(r io.Reader) ([]ManifestEntry, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.LazyQuotes = true

	entries := []*ManifestEntry{}
	if err := gocsv.UnmarshalCSV(cr, &entries); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	seen := make(map[string]struct{})
	out := make([]ManifestEntry, 0, len(entries))
	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Genotypes = strings.TrimSpace(e.Genotypes)
		e.Metadata = strings.TrimSpace(e.Metadata)
		e.Distances = strings.TrimSpace(e.Distances)

		if e.Name == "" || e.Genotypes == "" {
			return nil, fmt.Errorf("manifest: entry %d needs both a name and a genotype file", i+1)
		}
		if _, exists := seen[e.Name]; exists {
			return nil, fmt.Errorf("manifest: dataset %q is listed twice", e.Name)
		}
		seen[e.Name] = struct{}{}
		out = append(out, *e)
	}

	return out, nil
}
