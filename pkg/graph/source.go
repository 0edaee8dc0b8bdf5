package graph

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// SourceOptions configures how a graph URI is opened.
type SourceOptions struct {
	Duplicates DuplicatePolicy
	S3         S3Options
	Postgres   PostgresOptions
}

// Open loads a graph from a local path, an s3:// object or a postgres:// table.
// Paths and object keys ending in ".snappy" are decoded as snappy framed streams.
func Open(ctx context.Context, uri string, opts SourceOptions) (*Graph, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return OpenFile(uri, opts.Duplicates)
	}

	switch u.Scheme {
	case "file":
		return OpenFile(u.Path, opts.Duplicates)
	case "s3":
		return openS3(ctx, u, opts)
	case "postgres", "postgresql":
		return openPostgres(ctx, u, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURI, u.Scheme)
	}
}

// OpenFile memory-maps a local edge list and parses it.
func OpenFile(path string, policy DuplicatePolicy) (*Graph, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer reader.Close()

	var r io.Reader = io.NewSectionReader(reader, 0, int64(reader.Len()))
	return ReadEdgeList(decoderFor(path, r), path, policy)
}

// decoderFor wraps r in a snappy decoder when name says the content is compressed.
func decoderFor(name string, r io.Reader) io.Reader {
	if strings.HasSuffix(name, ".snappy") {
		return snappy.NewReader(r)
	}
	return r
}
