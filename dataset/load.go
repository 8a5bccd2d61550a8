package dataset

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pathogenx"
	"github.com/carbocation/pathogenx/distance"
	"github.com/carbocation/pathogenx/table"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// Sources names the files that make up one dataset. Only Genotypes is
// required. Paths may be local or gs:// objects, optionally compressed.
type Sources struct {
	Name      string
	Genotypes string
	Metadata  string
	Distances string

	GenotypeOptions table.ReadOptions
	MetadataOptions table.ReadOptions
	DistanceLayout  distance.Layout

	CompleteCases bool
}

// Load reads every source and builds the Dataset. client may be nil when no
// source lives in Google Storage.
func Load(ctx context.Context, src Sources, client *storage.Client) (*Dataset, error) {
	if src.Genotypes == "" {
		return nil, fmt.Errorf("dataset %q: a genotype file is required", src.Name)
	}

	genotypes, err := readTable(ctx, src.Genotypes, src.GenotypeOptions, client)
	if err != nil {
		return nil, err
	}
	log.Infof("Read %d genotype records with %d columns from %s", genotypes.Len(), len(genotypes.Columns()), src.Genotypes)

	opts := []Option{}
	if src.Name != "" {
		opts = append(opts, WithName(src.Name))
	}
	if src.CompleteCases {
		opts = append(opts, CompleteCases())
	}

	if src.Metadata != "" {
		metadata, err := readTable(ctx, src.Metadata, src.MetadataOptions, client)
		if err != nil {
			return nil, err
		}
		log.Infof("Read %d metadata records with %d columns from %s", metadata.Len(), len(metadata.Columns()), src.Metadata)
		opts = append(opts, WithMetadata(metadata))
	}

	if src.Distances != "" {
		in, err := pathogenx.Open(ctx, src.Distances, client)
		if err != nil {
			return nil, err
		}
		defer in.Close()

		m, labels, err := distance.Read(in, src.DistanceLayout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Distances, err)
		}
		log.Infof("Read %d pairwise distances over %d samples from %s", m.NNZ(), m.Dim(), src.Distances)
		opts = append(opts, WithDistances(m, labels))
	}

	return New(genotypes, opts...)
}

func readTable(ctx context.Context, path string, opts table.ReadOptions, client *storage.Client) (*table.Table, error) {
	in, err := pathogenx.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	t, err := table.Read(in, opts)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return t, nil
}
