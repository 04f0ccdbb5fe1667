package storagesvc

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const (
	gcsScheme = "gs://"

	// MaxObjectSize caps the size of outlines read from a bucket.
	MaxObjectSize = 5 << 20
)

var ErrObjectTooLarge = errors.New("object too large")

// GCSReader reads objects out of Google Cloud Storage.
type GCSReader struct {
	client *storage.Client
}

// NewGCSReader creates a read-only client. Application default credentials are used when credentialsFile is empty.
func NewGCSReader(ctx context.Context, credentialsFile string) (*GCSReader, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadOnly)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &GCSReader{client: client}, nil
}

// ReadObject reads the whole object at uri, eg. gs://bucket/outlines/jazz.md
func (r *GCSReader) ReadObject(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	rdr, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", uri)
	}
	defer func() { _ = rdr.Close() }()

	return readLimited(rdr, MaxObjectSize)
}

func (r *GCSReader) Close() error {
	return r.client.Close()
}

// ParseURI splits gs://bucket/object into its bucket and object names.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, gcsScheme) {
		return "", "", errors.Errorf("invalid GCS URI %q: expected %sbucket/object", uri, gcsScheme)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GCS URI %q: expected %sbucket/object", uri, gcsScheme)
	}
	return parts[0], parts[1], nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading object")
	}
	if int64(len(data)) > limit {
		return nil, ErrObjectTooLarge
	}
	return data, nil
}
