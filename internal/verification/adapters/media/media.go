// Package media implements the media store port against S3-compatible
// object storage. Merchant uploads arrive as URLs on third-party hosts;
// re-hosting gives the directory a durable copy that outlives the source.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"shopdir/internal/verification/ports"
)

// maxMediaBytes bounds a single re-hosted file.
const maxMediaBytes = 50 << 20

// Store re-hosts files into a MinIO/S3 bucket.
type Store struct {
	client     *minio.Client
	httpClient *http.Client
	bucket     string
	baseURL    string
}

// New connects to the object storage endpoint.
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool, timeout time.Duration) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &Store{
		client:     client,
		httpClient: &http.Client{Timeout: timeout},
		bucket:     bucket,
		baseURL:    scheme + "://" + endpoint,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// UploadFromURL downloads the source file and stores a copy under the given
// folder, returning the durable URL.
func (s *Store) UploadFromURL(ctx context.Context, sourceURL, folder string) (ports.Upload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return ports.Upload{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ports.Upload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.Upload{}, fmt.Errorf("source fetch returned status %d", resp.StatusCode)
	}

	objectName := folder + "/" + uuid.NewString() + extensionOf(sourceURL)
	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		io.LimitReader(resp.Body, maxMediaBytes), -1,
		minio.PutObjectOptions{ContentType: resp.Header.Get("Content-Type")})
	if err != nil {
		return ports.Upload{}, fmt.Errorf("store object: %w", err)
	}

	return ports.Upload{
		URL:      s.baseURL + "/" + s.bucket + "/" + objectName,
		PublicID: objectName,
	}, nil
}

func extensionOf(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if len(ext) > 8 {
		return ""
	}
	return ext
}
