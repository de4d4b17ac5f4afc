package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 implements s3API over a map.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	modified map[string]time.Time
	pageSize int
	putCalls int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects:  map[string][]byte{},
		modified: map[string]time.Time{},
		pageSize: 1000,
	}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	contents, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	f.objects[aws.ToString(params.Key)] = contents
	f.modified[aws.ToString(params.Key)] = time.Now()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contents, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(string(contents))),
		ContentLength: aws.Int64(int64(len(contents))),
	}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contents, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(contents))),
		LastModified:  aws.Time(f.modified[aws.ToString(params.Key)]),
	}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	offset := 0
	if token := aws.ToString(params.ContinuationToken); token != "" {
		var err error
		if offset, err = strconv.Atoi(token); err != nil {
			return nil, err
		}
	}

	end := offset + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, key := range keys[offset:end] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(key)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	parts := strings.SplitN(aws.ToString(params.CopySource), "/", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("bad copy source %q", aws.ToString(params.CopySource))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contents, ok := f.objects[parts[1]]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	f.objects[aws.ToString(params.Key)] = append([]byte(nil), contents...)
	f.modified[aws.ToString(params.Key)] = time.Now()
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(params.Key))
	delete(f.modified, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported")
}

func (f *fakeS3) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported")
}

func (f *fakeS3) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported")
}

func (f *fakeS3) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported")
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s?X-Amz-Signature=fake",
			aws.ToString(params.Bucket), aws.ToString(params.Key)),
	}, nil
}

func newS3Store(t *testing.T, client s3API, opts ...S3Option) *S3FileStore {
	t.Helper()
	opts = append([]S3Option{WithS3Client(client), WithoutDateInKeyPath()}, opts...)
	store, err := NewS3FileStore(context.Background(), "test-bucket", opts...)
	require.NoError(t, err)
	return store
}

func TestNewS3FileStoreValidatesBucket(t *testing.T) {
	_, err := NewS3FileStore(context.Background(), "ab", WithS3Client(newFakeS3()))
	assert.Error(t, err)
}

func TestS3StoreAndFetch(t *testing.T) {
	ctx := context.Background()
	store := newS3Store(t, newFakeS3())

	obj, err := store.StoreFile(ctx, "docs", "a.txt", strings.NewReader("hello"), false)
	require.NoError(t, err)
	assert.Equal(t, S3Object{Bucket: "test-bucket", Key: "docs/a.txt"}, obj)

	contents, err := store.FetchFileContents(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), contents)

	exists, err := store.Exists(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := store.GetSizeInBytes(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	modified, err := store.GetLastModified(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.False(t, modified.IsZero())

	_, err = store.StoreFile(ctx, "docs", "a.txt", strings.NewReader("again"), false)
	assert.ErrorIs(t, err, ErrFileExists)

	_, err = store.StoreFile(ctx, "docs", "a.txt", strings.NewReader("again"), true)
	require.NoError(t, err)
}

func TestS3MissingKey(t *testing.T) {
	ctx := context.Background()
	store := newS3Store(t, newFakeS3())

	_, err := store.FetchFileContents(ctx, "nope")
	assert.ErrorIs(t, err, ErrKeyDoesNotExist)

	_, err = store.GetLastModified(ctx, "nope")
	assert.ErrorIs(t, err, ErrKeyDoesNotExist)

	exists, err := store.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestS3StoreVersionedFile(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store := newS3Store(t, client)

	obj, err := store.StoreVersionedFile(ctx, "reports/daily.csv", []byte("v1"))
	require.NoError(t, err)
	assert.Contains(t, obj.Key, obj.VersionID)

	// Unchanged contents are not re-uploaded.
	again, err := store.StoreVersionedFile(ctx, "reports/daily.csv", []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, obj, again)
	assert.Equal(t, 1, client.putCalls)

	changed, err := store.StoreVersionedFile(ctx, "reports/daily.csv", []byte("v2"))
	require.NoError(t, err)
	assert.NotEqual(t, obj.Key, changed.Key)
	assert.Equal(t, 2, client.putCalls)
}

func TestS3ListKeysPaginates(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	client.pageSize = 2
	store := newS3Store(t, client)

	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		_, err := store.StoreFile(ctx, "docs", name, strings.NewReader("x"), false)
		require.NoError(t, err)
	}
	_, err := store.StoreFile(ctx, "other", "z.txt", strings.NewReader("x"), false)
	require.NoError(t, err)

	keys, err := store.ListFiles(ctx, "docs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/a.txt", "docs/b.txt", "docs/c.txt", "docs/d.txt", "docs/e.txt"}, keys)

	objects, err := store.ListKeys(ctx, "docs/")
	require.NoError(t, err)
	assert.Len(t, objects, 5)
}

func TestS3CopyRenameDelete(t *testing.T) {
	ctx := context.Background()
	store := newS3Store(t, newFakeS3())

	obj, err := store.StoreFile(ctx, "docs", "a.txt", strings.NewReader("hello"), false)
	require.NoError(t, err)

	copied, err := store.Copy(ctx, obj, "docs/b.txt")
	require.NoError(t, err)
	contents, err := store.FetchFileContents(ctx, copied.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), contents)

	renamed, err := store.Rename(ctx, copied, "docs/c.txt")
	require.NoError(t, err)
	exists, err := store.Exists(ctx, "docs/b.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Delete(ctx, renamed))
	exists, err = store.Exists(ctx, renamed.Key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestS3FetchURL(t *testing.T) {
	ctx := context.Background()

	store := newS3Store(t, newFakeS3(), WithPresigner(fakePresigner{}))
	url, err := store.FetchURL(ctx, "docs/a.txt", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://test-bucket.s3.amazonaws.com/docs/a.txt?X-Amz-Signature=fake", url)

	bare := newS3Store(t, newFakeS3())
	_, err = bare.FetchURL(ctx, "docs/a.txt", time.Minute)
	assert.Error(t, err)
}
