// Package dataset joins genotype calls, optional sample metadata and an
// optional pairwise distance matrix into a single sample-aligned view.
//
// The sample order fixed at construction is the canonical order: it never
// changes for the lifetime of a Dataset, and index i of the attached distance
// matrix always refers to Samples()[i]. Source columns are read-only; derived
// columns (clusters, parsed years) are appended and may be replaced whole.
package dataset

import (
	"fmt"

	"github.com/carbocation/pathogenx/cluster"
	"github.com/carbocation/pathogenx/distance"
	"github.com/carbocation/pathogenx/table"
	log "github.com/sirupsen/logrus"
)

const (
	// ClusterColumn is the derived column holding cluster labels.
	ClusterColumn = "Cluster"
	// NameColumn holds the dataset name for every sample, which lets several
	// datasets be stratified against each other once concatenated.
	NameColumn = "Dataset"

	defaultName = "unknown"
)

// Dataset is a set of samples joined across genotype, metadata and distance
// inputs, in one canonical sample order.
type Dataset struct {
	name    string
	samples []string
	index   map[string]int

	columns         []string
	values          map[string][]table.Value
	genotypeColumns []string
	metadataColumns []string
	derived         map[string]bool

	distances *distance.Matrix

	clusters   cluster.Assignment
	clusterKey string
}

type options struct {
	metadata      *table.Table
	distances     *distance.Matrix
	labels        []string
	name          string
	completeCases bool
}

// Option configures New.
type Option func(*options)

// WithMetadata left-joins metadata onto the genotype rows by sample identifier.
func WithMetadata(t *table.Table) Option {
	return func(o *options) { o.metadata = t }
}

// WithDistances attaches a distance matrix. labels names the sample at each
// matrix index; the matrix is realigned to the genotype order. With nil
// labels, the matrix must already be indexed in genotype order.
func WithDistances(m *distance.Matrix, labels []string) Option {
	return func(o *options) {
		o.distances = m
		o.labels = labels
	}
}

// WithName sets the value of the Dataset column.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// CompleteCases drops samples that have no metadata row instead of keeping
// them with missing metadata values.
func CompleteCases() Option {
	return func(o *options) { o.completeCases = true }
}

// New builds a Dataset whose canonical order is the genotype table's row order
// (minus samples dropped by CompleteCases).
func New(genotypes *table.Table, opts ...Option) (*Dataset, error) {
	if genotypes == nil {
		return nil, fmt.Errorf("dataset: genotypes are required")
	}

	o := options{name: defaultName}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dataset{
		name:    o.name,
		values:  make(map[string][]table.Value),
		derived: make(map[string]bool),
	}

	// Decide which samples survive the join.
	keep := make([]int, 0, genotypes.Len())
	metaRow := make([]int, 0, genotypes.Len())
	for i, id := range genotypes.Samples() {
		row := -1
		if o.metadata != nil {
			if r, exists := o.metadata.Index(id); exists {
				row = r
			}
		}
		if row < 0 && o.completeCases && o.metadata != nil {
			continue
		}
		keep = append(keep, i)
		metaRow = append(metaRow, row)
	}
	if o.completeCases && len(keep) < genotypes.Len() {
		log.Infof("%s: dropped %d of %d samples without metadata", d.name, genotypes.Len()-len(keep), genotypes.Len())
	}

	d.samples = make([]string, len(keep))
	d.index = make(map[string]int, len(keep))
	for k, i := range keep {
		id := genotypes.Samples()[i]
		d.samples[k] = id
		d.index[id] = k
	}

	// Genotype columns.
	for _, name := range genotypes.Columns() {
		if name == NameColumn {
			return nil, fmt.Errorf("%w: genotype column %q is reserved", ErrColumnConflict, name)
		}
		src, _ := genotypes.Column(name)
		col := make([]table.Value, len(keep))
		for k, i := range keep {
			col[k] = src[i]
		}
		d.addSource(name, col)
		d.genotypeColumns = append(d.genotypeColumns, name)
	}

	nameCol := make([]table.Value, len(keep))
	for k := range nameCol {
		nameCol[k] = table.StringValue(d.name)
	}
	d.addSource(NameColumn, nameCol)
	d.metadataColumns = append(d.metadataColumns, NameColumn)

	// Metadata columns.
	if o.metadata != nil {
		matched := 0
		for _, r := range metaRow {
			if r >= 0 {
				matched++
			}
		}
		if unmatched := o.metadata.Len() - matched; unmatched > 0 {
			log.Debugf("%s: %d metadata rows have no genotype record and were ignored", d.name, unmatched)
		}

		for _, name := range o.metadata.Columns() {
			if _, exists := d.values[name]; exists {
				return nil, fmt.Errorf("%w: metadata column %q is already a genotype column", ErrColumnConflict, name)
			}
			src, _ := o.metadata.Column(name)
			col := make([]table.Value, len(keep))
			for k, r := range metaRow {
				if r >= 0 {
					col[k] = src[r]
				}
			}
			d.addSource(name, col)
			d.metadataColumns = append(d.metadataColumns, name)
		}
	}

	if o.distances != nil {
		m, err := align(o.distances, o.labels, genotypes, d.samples)
		if err != nil {
			return nil, err
		}
		d.distances = m
	}

	return d, nil
}

// align reindexes m onto the canonical sample order.
func align(m *distance.Matrix, labels []string, genotypes *table.Table, samples []string) (*distance.Matrix, error) {
	if labels == nil {
		if m.Dim() != genotypes.Len() {
			return nil, fmt.Errorf("%w: matrix has dimension %d but there are %d genotype records", distance.ErrAlignment, m.Dim(), genotypes.Len())
		}
		labels = genotypes.Samples()
	}
	if len(labels) != m.Dim() {
		return nil, fmt.Errorf("%w: %d labels for a matrix of dimension %d", distance.ErrAlignment, len(labels), m.Dim())
	}

	position := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, exists := position[l]; exists {
			return nil, fmt.Errorf("%w: sample %q labels more than one matrix index", distance.ErrAlignment, l)
		}
		if _, exists := genotypes.Index(l); !exists {
			return nil, fmt.Errorf("%w: matrix sample %q has no genotype record", distance.ErrAlignment, l)
		}
		position[l] = i
	}

	order := make([]int, len(samples))
	for k, id := range samples {
		i, exists := position[id]
		if !exists {
			return nil, fmt.Errorf("%w: sample %q is missing from the distance matrix", distance.ErrAlignment, id)
		}
		order[k] = i
	}

	return m.Select(order)
}

func (d *Dataset) addSource(name string, col []table.Value) {
	d.columns = append(d.columns, name)
	d.values[name] = col
}

func (d *Dataset) String() string {
	with := "without"
	if d.distances != nil {
		with = "with"
	}
	return fmt.Sprintf("Dataset(%s: %d samples %s distances, %d genotype columns, %d metadata columns, %d derived columns)",
		d.name, len(d.samples), with, len(d.genotypeColumns), len(d.metadataColumns), len(d.derived))
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.samples) }

// Samples returns the canonical sample order. The slice must not be modified.
func (d *Dataset) Samples() []string { return d.samples }

// Index returns the canonical position of a sample.
func (d *Dataset) Index(id string) (int, bool) {
	i, exists := d.index[id]
	return i, exists
}

// Columns returns every column name: genotype, metadata, then derived.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// GenotypeColumns returns the columns read from the genotype table.
func (d *Dataset) GenotypeColumns() []string {
	return append([]string(nil), d.genotypeColumns...)
}

// MetadataColumns returns the columns read from the metadata table.
func (d *Dataset) MetadataColumns() []string {
	return append([]string(nil), d.metadataColumns...)
}

// HasColumn reports whether name is a genotype, metadata or derived column.
func (d *Dataset) HasColumn(name string) bool {
	_, exists := d.values[name]
	return exists
}

// IsDerived reports whether name is a derived column.
func (d *Dataset) IsDerived(name string) bool {
	return d.derived[name]
}

// Column returns the values of a column in canonical order. The slice must not
// be modified.
func (d *Dataset) Column(name string) ([]table.Value, error) {
	col, exists := d.values[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", table.ErrColumnNotFound, name)
	}
	return col, nil
}

// HasDistances reports whether a distance matrix is attached.
func (d *Dataset) HasDistances() bool { return d.distances != nil }

// Distances returns the aligned distance matrix, or nil.
func (d *Dataset) Distances() *distance.Matrix { return d.distances }

// AddColumn appends a derived column, or replaces a derived column of the same
// name. Source columns cannot be replaced.
func (d *Dataset) AddColumn(name string, values []table.Value) error {
	if len(values) != len(d.samples) {
		return fmt.Errorf("dataset: column %q has %d values for %d samples", name, len(values), len(d.samples))
	}
	if _, exists := d.values[name]; exists {
		if !d.derived[name] {
			return fmt.Errorf("%w: %q is a source column", ErrColumnConflict, name)
		}
		d.values[name] = values
		return nil
	}

	d.columns = append(d.columns, name)
	d.values[name] = values
	d.derived[name] = true
	return nil
}
