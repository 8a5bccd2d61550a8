package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pathogenx"
	"github.com/carbocation/pathogenx/dataset"
	"github.com/carbocation/pathogenx/distance"
	"github.com/carbocation/pathogenx/table"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// inputFlags are shared by every command that loads datasets.
type inputFlags struct {
	manifest        string
	idColumn        string
	delimiter       string
	distanceLayout  string
	distanceColumns []int
	completeCases   bool
	yearFrom        []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.manifest, "manifest", "", "Tab-delimited file with columns name, genotypes, metadata and distances, one dataset per line. Replaces the positional arguments.")
	fs.StringVar(&f.idColumn, "id-column", "", "Name of the sample identifier column in genotype and metadata files. Default: the first column.")
	fs.StringVar(&f.delimiter, "delimiter", "", "Field delimiter of genotype and metadata files. Default: detected from the data.")
	fs.StringVar(&f.distanceLayout, "distance-layout", "square", fmt.Sprintf("Layout of the distance file. One of: %s", distance.LayoutNames()))
	fs.IntSliceVar(&f.distanceColumns, "distance-columns", nil, "Zero-based columns of the two sample names and the distance in a long distance file, e.g. 0,1,2. Overrides the layout's columns.")
	fs.BoolVar(&f.completeCases, "complete-cases", false, "Drop samples without a metadata record instead of keeping them with missing values.")
	fs.StringSliceVar(&f.yearFrom, "year-from", nil, "Date columns from which to derive a <column>_year column usable as a stratum.")
}

// template returns the reader settings shared by every dataset.
func (f *inputFlags) template() (dataset.Sources, error) {
	src := dataset.Sources{CompleteCases: f.completeCases}

	opts := table.ReadOptions{IDColumn: f.idColumn}
	if f.delimiter != "" {
		d := []rune(f.delimiter)
		if f.delimiter == `\t` {
			d = []rune{'\t'}
		}
		if len(d) != 1 {
			return src, fmt.Errorf("--delimiter must be a single character, got %q", f.delimiter)
		}
		opts.Delimiter = d[0]
	}
	src.GenotypeOptions = opts
	src.MetadataOptions = opts

	layout, err := distance.LookupLayout(f.distanceLayout)
	if err != nil {
		return src, err
	}
	if len(f.distanceColumns) > 0 {
		if len(f.distanceColumns) != 3 {
			return src, fmt.Errorf("--distance-columns needs exactly 3 positions, got %v", f.distanceColumns)
		}
		if layout.Shape != distance.Long {
			return src, fmt.Errorf("--distance-columns only applies to long distance layouts, not %q", f.distanceLayout)
		}
		copy(layout.Columns[:], f.distanceColumns)
	}
	src.DistanceLayout = layout

	return src, nil
}

// sources turns either the manifest or up to three positional paths
// (genotypes, metadata, distances) into dataset sources. An empty positional
// path skips that input.
func (f *inputFlags) sources(ctx context.Context, args []string, client *storage.Client) ([]dataset.Sources, error) {
	template, err := f.template()
	if err != nil {
		return nil, err
	}

	if f.manifest == "" {
		if len(args) == 0 || args[0] == "" {
			return nil, fmt.Errorf("a genotype file or --manifest is required")
		}
		src := template
		src.Genotypes = args[0]
		if len(args) > 1 {
			src.Metadata = args[1]
		}
		if len(args) > 2 {
			src.Distances = args[2]
		}
		return []dataset.Sources{src}, nil
	}

	if len(args) > 0 {
		return nil, fmt.Errorf("positional inputs %v cannot be combined with --manifest", args)
	}

	manifestPath, err := pathogenx.ExpandHome(f.manifest)
	if err != nil {
		return nil, err
	}
	in, err := pathogenx.Open(ctx, manifestPath, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	entries, err := dataset.ReadManifest(in)
	if err != nil {
		return nil, err
	}

	out := make([]dataset.Sources, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Sources(template))
	}
	return out, nil
}

// load reads every dataset named on the command line. A storage client is
// created only when some input lives in Google Storage.
func (f *inputFlags) load(ctx context.Context, args []string) ([]*dataset.Dataset, error) {
	var client *storage.Client
	defer func() {
		if client != nil {
			client.Close()
		}
	}()
	connect := func(paths ...string) error {
		if client != nil || !pathogenx.NeedsGoogleStorage(paths...) {
			return nil
		}
		c, err := storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		client = c
		return nil
	}

	if err := connect(append([]string{f.manifest}, args...)...); err != nil {
		return nil, err
	}
	sources, err := f.sources(ctx, args, client)
	if err != nil {
		return nil, err
	}

	var paths []string
	for i := range sources {
		for _, p := range []*string{&sources[i].Genotypes, &sources[i].Metadata, &sources[i].Distances} {
			if *p == "" || pathogenx.IsGoogleStoragePath(*p) {
				continue
			}
			if *p, err = pathogenx.ExpandHome(*p); err != nil {
				return nil, err
			}
		}
		paths = append(paths, sources[i].Genotypes, sources[i].Metadata, sources[i].Distances)
	}
	if err := connect(paths...); err != nil {
		return nil, err
	}

	out := make([]*dataset.Dataset, 0, len(sources))
	for _, src := range sources {
		ds, err := dataset.Load(ctx, src, client)
		if err != nil {
			return nil, err
		}
		for _, col := range f.yearFrom {
			if err := ds.DeriveYear(col, ""); err != nil {
				return nil, err
			}
		}
		log.WithFields(log.Fields{
			"genotype_columns": ds.GenotypeColumns(),
			"metadata_columns": ds.MetadataColumns(),
		}).Infoln("Loaded", ds)
		out = append(out, ds)
	}

	return out, nil
}
