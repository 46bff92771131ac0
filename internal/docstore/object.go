package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore keeps each document as a JSON object in a single bucket of an
// S3-compatible store. Used when the server runs on a host without a
// persistent disk.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &ObjectStore{client: client, bucket: bucket}, nil
}

func (s *ObjectStore) key(name string) string {
	return name + ".json"
}

func (s *ObjectStore) Load(ctx context.Context, name string, seed []byte) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err == nil {
		return data, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	// A concurrent initializer writes the same seed bytes, so the race is
	// harmless.
	if err := s.Save(ctx, name, seed); err != nil {
		return nil, err
	}
	return append([]byte(nil), seed...), nil
}

func (s *ObjectStore) Save(ctx context.Context, name string, doc []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("save document %s: %w", name, err)
	}
	return nil
}
