package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/henderiw/rangekit/pkg/localtime"
)

type memObject struct {
	contents     []byte
	lastModified time.Time
}

// MemoryFileStore is a map-backed FileStore for tests and local
// development. It is safe for concurrent use.
type MemoryFileStore struct {
	bucket           string
	useDateInKeyPath bool

	mu      sync.RWMutex
	objects map[string]memObject
}

var _ FileStore = (*MemoryFileStore)(nil)

// MemoryOption configures a MemoryFileStore.
type MemoryOption func(*MemoryFileStore)

// WithoutMemoryDateInKeyPath disables the date bucketing in
// MakeKeyPath.
func WithoutMemoryDateInKeyPath() MemoryOption {
	return func(s *MemoryFileStore) { s.useDateInKeyPath = false }
}

// NewMemoryFileStore returns an empty in-memory FileStore.
func NewMemoryFileStore(bucket string, opts ...MemoryOption) (*MemoryFileStore, error) {
	if err := validateBucketName(bucket); err != nil {
		return nil, err
	}
	s := &MemoryFileStore{
		bucket:           bucket,
		useDateInKeyPath: true,
		objects:          map[string]memObject{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *MemoryFileStore) String() string {
	return fmt.Sprintf("in-memory file store for bucket %s", s.bucket)
}

// Clear drops all stored objects.
func (s *MemoryFileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = map[string]memObject{}
}

func (s *MemoryFileStore) MakeKeyPath(namespace, filepath string) (string, error) {
	return makeKeyPath(namespace, filepath, s.useDateInKeyPath)
}

func (s *MemoryFileStore) StoreFile(ctx context.Context, namespace, filename string, contents io.Reader, overwrite bool) (S3Object, error) {
	keyPath, err := s.MakeKeyPath(namespace, filename)
	if err != nil {
		return S3Object{}, err
	}
	data, err := io.ReadAll(contents)
	if err != nil {
		return S3Object{}, errors.Wrapf(err, "reading contents for %q", keyPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[keyPath]; ok && !overwrite {
		return S3Object{}, errors.Wrapf(ErrFileExists, "key %q", keyPath)
	}
	s.objects[keyPath] = memObject{contents: data, lastModified: localtime.Clock()}
	return S3Object{Bucket: s.bucket, Key: keyPath}, nil
}

func (s *MemoryFileStore) StoreVersionedFile(ctx context.Context, keyPath string, contents []byte) (S3Object, error) {
	versionedKey, digest := versionedKeyPath(keyPath, contents)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[versionedKey]; !ok {
		s.objects[versionedKey] = memObject{
			contents:     append([]byte(nil), contents...),
			lastModified: localtime.Clock(),
		}
	}
	return S3Object{Bucket: s.bucket, Key: versionedKey, VersionID: digest}, nil
}

func (s *MemoryFileStore) FetchFile(ctx context.Context, keyPath string) (io.ReadCloser, error) {
	contents, err := s.FetchFileContents(ctx, keyPath)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(contents)), nil
}

func (s *MemoryFileStore) FetchFileContents(ctx context.Context, keyPath string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[keyPath]
	if !ok {
		return nil, errors.Wrapf(ErrKeyDoesNotExist, "key %q", keyPath)
	}
	return append([]byte(nil), obj.contents...), nil
}

func (s *MemoryFileStore) Exists(ctx context.Context, keyPath string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[keyPath]
	return ok, nil
}

func (s *MemoryFileStore) ListKeys(ctx context.Context, namespace string) ([]S3Object, error) {
	keys, err := s.ListFiles(ctx, namespace)
	if err != nil {
		return nil, err
	}
	out := make([]S3Object, 0, len(keys))
	for _, key := range keys {
		out = append(out, S3Object{Bucket: s.bucket, Key: key})
	}
	return out, nil
}

func (s *MemoryFileStore) ListFiles(ctx context.Context, namespace string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, namespace) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryFileStore) FetchURL(ctx context.Context, keyPath string, expiresIn time.Duration) (string, error) {
	exists, err := s.Exists(ctx, keyPath)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.Wrapf(ErrKeyDoesNotExist, "key %q", keyPath)
	}
	expires := localtime.Clock().Add(expiresIn).UTC()
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s?expires=%d",
		s.bucket, keyPath, expires.Unix()), nil
}

func (s *MemoryFileStore) GetSizeInBytes(ctx context.Context, keyPath string) (int64, error) {
	contents, err := s.FetchFileContents(ctx, keyPath)
	if err != nil {
		return 0, err
	}
	return int64(len(contents)), nil
}

func (s *MemoryFileStore) GetLastModified(ctx context.Context, keyPath string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[keyPath]
	if !ok {
		return time.Time{}, errors.Wrapf(ErrKeyDoesNotExist, "key %q", keyPath)
	}
	return obj.lastModified, nil
}

func (s *MemoryFileStore) Copy(ctx context.Context, obj S3Object, destination string) (S3Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.objects[obj.Key]
	if !ok {
		return S3Object{}, errors.Wrapf(ErrKeyDoesNotExist, "key %q", obj.Key)
	}
	s.objects[destination] = memObject{
		contents:     append([]byte(nil), src.contents...),
		lastModified: localtime.Clock(),
	}
	return S3Object{Bucket: s.bucket, Key: destination}, nil
}

func (s *MemoryFileStore) Rename(ctx context.Context, obj S3Object, destination string) (S3Object, error) {
	renamed, err := s.Copy(ctx, obj, destination)
	if err != nil {
		return S3Object{}, err
	}
	if err := s.Delete(ctx, obj); err != nil {
		return S3Object{}, err
	}
	return renamed, nil
}

func (s *MemoryFileStore) Delete(ctx context.Context, obj S3Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[obj.Key]; !ok {
		return errors.Wrapf(ErrKeyDoesNotExist, "key %q", obj.Key)
	}
	delete(s.objects, obj.Key)
	return nil
}
