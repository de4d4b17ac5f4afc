package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// s3API is the subset of the S3 client the store relies on, so tests
// can substitute a mock.
type s3API interface {
	manager.UploadAPIClient

	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput,
		optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput,
		optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3FileStore is a FileStore backed by an S3 bucket.
type S3FileStore struct {
	bucket           string
	client           s3API
	presigner        s3Presigner
	uploader         *manager.Uploader
	useDateInKeyPath bool
}

var _ FileStore = (*S3FileStore)(nil)

// S3Option configures an S3FileStore.
type S3Option func(*S3FileStore)

// WithS3Client substitutes the S3 client, typically with a mock.
func WithS3Client(client s3API) S3Option {
	return func(s *S3FileStore) { s.client = client }
}

// WithPresigner substitutes the presigning client used by FetchURL.
func WithPresigner(p s3Presigner) S3Option {
	return func(s *S3FileStore) { s.presigner = p }
}

// WithoutDateInKeyPath disables the date bucketing in MakeKeyPath.
func WithoutDateInKeyPath() S3Option {
	return func(s *S3FileStore) { s.useDateInKeyPath = false }
}

// NewS3FileStore returns a FileStore over the given bucket. Unless a
// client is injected, credentials and region are resolved from the
// default AWS config chain.
func NewS3FileStore(ctx context.Context, bucket string, opts ...S3Option) (*S3FileStore, error) {
	if err := validateBucketName(bucket); err != nil {
		return nil, err
	}
	s := &S3FileStore{bucket: bucket, useDateInKeyPath: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "loading AWS config")
		}
		client := s3.NewFromConfig(cfg)
		s.client = client
		if s.presigner == nil {
			s.presigner = s3.NewPresignClient(client)
		}
	}
	s.uploader = manager.NewUploader(s.client)
	return s, nil
}

func (s *S3FileStore) String() string {
	return fmt.Sprintf("S3 file store for bucket %s", s.bucket)
}

func (s *S3FileStore) MakeKeyPath(namespace, filepath string) (string, error) {
	return makeKeyPath(namespace, filepath, s.useDateInKeyPath)
}

func (s *S3FileStore) StoreFile(ctx context.Context, namespace, filename string, contents io.Reader, overwrite bool) (S3Object, error) {
	keyPath, err := s.MakeKeyPath(namespace, filename)
	if err != nil {
		return S3Object{}, err
	}
	if !overwrite {
		exists, err := s.Exists(ctx, keyPath)
		if err != nil {
			return S3Object{}, err
		}
		if exists {
			return S3Object{}, errors.Wrapf(ErrFileExists, "key %q", keyPath)
		}
	}
	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(keyPath),
		Body:   contents,
	}); err != nil {
		return S3Object{}, errors.Wrapf(err, "uploading %q", keyPath)
	}
	return S3Object{Bucket: s.bucket, Key: keyPath}, nil
}

func (s *S3FileStore) StoreVersionedFile(ctx context.Context, keyPath string, contents []byte) (S3Object, error) {
	versionedKey, digest := versionedKeyPath(keyPath, contents)

	obj := S3Object{Bucket: s.bucket, Key: versionedKey, VersionID: digest}

	// Identical contents hash to the same key, so a second store of
	// the same version is a no-op.
	exists, err := s.Exists(ctx, versionedKey)
	if err != nil {
		return S3Object{}, err
	}
	if exists {
		return obj, nil
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(versionedKey),
		Body:   bytes.NewReader(contents),
	}); err != nil {
		return S3Object{}, errors.Wrapf(err, "uploading %q", versionedKey)
	}
	return obj, nil
}

func (s *S3FileStore) FetchFile(ctx context.Context, keyPath string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(keyPath),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, errors.Wrapf(ErrKeyDoesNotExist, "key %q", keyPath)
		}
		return nil, errors.Wrapf(err, "fetching %q", keyPath)
	}
	return out.Body, nil
}

func (s *S3FileStore) FetchFileContents(ctx context.Context, keyPath string) ([]byte, error) {
	body, err := s.FetchFile(ctx, keyPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	contents, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", keyPath)
	}
	return contents, nil
}

func (s *S3FileStore) Exists(ctx context.Context, keyPath string) (bool, error) {
	_, err := s.head(ctx, keyPath)
	if err != nil {
		if errors.Is(err, ErrKeyDoesNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3FileStore) ListKeys(ctx context.Context, namespace string) ([]S3Object, error) {
	var out []S3Object
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(namespace),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "listing keys under %q", namespace)
		}
		for _, obj := range page.Contents {
			out = append(out, S3Object{Bucket: s.bucket, Key: aws.ToString(obj.Key)})
		}
	}
	return out, nil
}

func (s *S3FileStore) ListFiles(ctx context.Context, namespace string) ([]string, error) {
	objects, err := s.ListKeys(ctx, namespace)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (s *S3FileStore) FetchURL(ctx context.Context, keyPath string, expiresIn time.Duration) (string, error) {
	if s.presigner == nil {
		return "", errors.New("no presigner configured")
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(keyPath),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", errors.Wrapf(err, "presigning %q", keyPath)
	}
	return req.URL, nil
}

func (s *S3FileStore) GetSizeInBytes(ctx context.Context, keyPath string) (int64, error) {
	head, err := s.head(ctx, keyPath)
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(head.ContentLength), nil
}

func (s *S3FileStore) GetLastModified(ctx context.Context, keyPath string) (time.Time, error) {
	head, err := s.head(ctx, keyPath)
	if err != nil {
		return time.Time{}, err
	}
	return aws.ToTime(head.LastModified), nil
}

func (s *S3FileStore) Copy(ctx context.Context, obj S3Object, destination string) (S3Object, error) {
	if _, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(path.Join(obj.Bucket, obj.Key)),
		Key:        aws.String(destination),
	}); err != nil {
		return S3Object{}, errors.Wrapf(err, "copying %q to %q", obj.Key, destination)
	}
	return S3Object{Bucket: s.bucket, Key: destination}, nil
}

func (s *S3FileStore) Rename(ctx context.Context, obj S3Object, destination string) (S3Object, error) {
	renamed, err := s.Copy(ctx, obj, destination)
	if err != nil {
		return S3Object{}, err
	}
	if err := s.Delete(ctx, obj); err != nil {
		return S3Object{}, err
	}
	return renamed, nil
}

func (s *S3FileStore) Delete(ctx context.Context, obj S3Object) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	}); err != nil {
		return errors.Wrapf(err, "deleting %q", obj.Key)
	}
	return nil
}

func (s *S3FileStore) head(ctx context.Context, keyPath string) (*s3.HeadObjectOutput, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(keyPath),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return nil, errors.Wrapf(ErrKeyDoesNotExist, "key %q", keyPath)
		}
		return nil, errors.Wrapf(err, "heading %q", keyPath)
	}
	return out, nil
}
