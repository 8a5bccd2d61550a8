package pathogenx

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// Input is an opened, possibly decompressed, data source. Close releases the
// underlying file or object reader.
type Input struct {
	io.Reader
	Path     string
	DataType DataType
	closer   io.Closer
}

func (in *Input) Close() error {
	if in.closer == nil {
		return nil
	}
	return in.closer.Close()
}

// Open opens a local path or gs:// object and transparently decompresses it.
// client may be nil when no Google Storage paths are used.
func Open(ctx context.Context, path string, client *storage.Client) (*Input, error) {
	rc, size, err := MaybeOpenFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, err
	}

	r, dt, err := MaybeDecompress(rc)
	if err != nil {
		rc.Close()
		return nil, pfx.Err(err)
	}

	log.WithFields(log.Fields{
		"path":   path,
		"bytes":  size,
		"format": dt.String(),
	}).Debug("opened input")

	return &Input{Reader: r, Path: path, DataType: dt, closer: rc}, nil
}

// NeedsGoogleStorage reports whether any of paths requires a storage client.
func NeedsGoogleStorage(paths ...string) bool {
	for _, p := range paths {
		if IsGoogleStoragePath(p) {
			return true
		}
	}
	return false
}
