// Package storage provides a file store abstraction over S3 with an
// in-memory implementation for tests and local development.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/henderiw/rangekit/pkg/localtime"
)

// S3 keys must not exceed 1024 bytes.
const maxKeyLength = 1024

var (
	// ErrKeyDoesNotExist is returned when fetching a key that is not
	// in the bucket.
	ErrKeyDoesNotExist = errors.New("key does not exist")

	// ErrFileExists is returned when storing a file without overwrite
	// at a key that is already taken.
	ErrFileExists = errors.New("file already exists")
)

// S3Object identifies a stored object.
type S3Object struct {
	Bucket    string
	Key       string
	VersionID string
}

func (o S3Object) String() string {
	return path.Join(o.Bucket, o.Key)
}

// FileStore is the contract shared by the S3-backed and in-memory
// stores.
type FileStore interface {
	// StoreFile uploads contents under the key path derived from
	// namespace and filename. Without overwrite, storing to an
	// existing key fails with ErrFileExists.
	StoreFile(ctx context.Context, namespace, filename string, contents io.Reader, overwrite bool) (S3Object, error)

	// StoreVersionedFile uploads contents under keyPath with a
	// content-hash version inserted before the extension. Storing the
	// same contents twice is a no-op returning the existing object.
	StoreVersionedFile(ctx context.Context, keyPath string, contents []byte) (S3Object, error)

	// FetchFile returns a reader over the object at keyPath. The
	// caller must close it.
	FetchFile(ctx context.Context, keyPath string) (io.ReadCloser, error)

	// FetchFileContents returns the full contents of the object at
	// keyPath.
	FetchFileContents(ctx context.Context, keyPath string) ([]byte, error)

	// Exists reports whether an object is stored at keyPath.
	Exists(ctx context.Context, keyPath string) (bool, error)

	// ListKeys returns the objects whose keys start with namespace.
	ListKeys(ctx context.Context, namespace string) ([]S3Object, error)

	// ListFiles returns the key paths under namespace.
	ListFiles(ctx context.Context, namespace string) ([]string, error)

	// FetchURL returns a presigned GET URL for the object at keyPath.
	FetchURL(ctx context.Context, keyPath string, expiresIn time.Duration) (string, error)

	// GetSizeInBytes returns the stored size of the object at keyPath.
	GetSizeInBytes(ctx context.Context, keyPath string) (int64, error)

	// GetLastModified returns when the object at keyPath was last
	// written.
	GetLastModified(ctx context.Context, keyPath string) (time.Time, error)

	// Copy duplicates obj to destination within the store's bucket.
	Copy(ctx context.Context, obj S3Object, destination string) (S3Object, error)

	// Rename moves obj to destination within the store's bucket.
	Rename(ctx context.Context, obj S3Object, destination string) (S3Object, error)

	// Delete removes obj from the store.
	Delete(ctx context.Context, obj S3Object) error

	// MakeKeyPath returns the key path the store would use for
	// namespace and filepath.
	MakeKeyPath(namespace, filepath string) (string, error)
}

func validateBucketName(bucket string) error {
	if len(bucket) < 3 || len(bucket) > 63 {
		return errors.Errorf(
			"bucket name must be between 3 and 63 characters in length: %q", bucket)
	}
	return nil
}

// makeKeyPath joins namespace and filepath, optionally inserting
// today's date so that repeated uploads of the same filename are
// bucketed by day: "namespace/2021/07/20/file.csv".
func makeKeyPath(namespace, filepath string, dateInKeyPath bool) (string, error) {
	namespace = strings.TrimRight(namespace, "/")

	parts := make([]string, 0, 3)
	if namespace != "" {
		parts = append(parts, namespace)
	}
	if dateInKeyPath {
		today := localtime.Today(time.UTC)
		parts = append(parts, fmt.Sprintf("%04d/%02d/%02d", today.Year, today.Month, today.Day))
	}
	if filepath != "" {
		parts = append(parts, filepath)
	}

	keyPath := path.Join(parts...)
	if len(keyPath) > maxKeyLength {
		return "", errors.Errorf(
			"generated key path must not exceed %d characters in length", maxKeyLength)
	}
	return keyPath, nil
}

// versionedKeyPath inserts a digest of contents before the key's
// extension, so "reports/daily.csv" becomes
// "reports/daily.<digest>.csv".
func versionedKeyPath(keyPath string, contents []byte) (key, digest string) {
	sum := sha256.Sum256(contents)
	digest = hex.EncodeToString(sum[:])[:12]
	ext := path.Ext(keyPath)
	return strings.TrimSuffix(keyPath, ext) + "." + digest + ext, digest
}
