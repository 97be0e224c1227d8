package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"sealpost/internal/sealpost"
)

// Environment variables for static S3 credentials. When unset, the default
// AWS credential chain applies.
const (
	EnvS3AccessKey = "SEALPOST_S3_ACCESS_KEY"
	EnvS3SecretKey = "SEALPOST_S3_SECRET_KEY"
)

// S3Store stores artifacts as S3 objects under an optional key prefix,
// with the same <name> / <name>.salt pairing as the filesystem store.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Store creates an S3-backed artifact store for the given bucket.
func NewS3Store(ctx context.Context, bucket, prefix, region string) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if access, secret := os.Getenv(EnvS3AccessKey), os.Getenv(EnvS3SecretKey); access != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(access, secret, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("artifact: loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

// key returns the object key for an artifact name.
func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Put uploads a ciphertext and its salt. The salt is uploaded first so a
// ciphertext is never observable without its salt.
func (s *S3Store) Put(name string, ciphertext, salt []byte) error {
	if err := s.upload(name+SaltSuffix, salt); err != nil {
		return err
	}
	return s.upload(name, ciphertext)
}

// Ciphertext returns the stored ciphertext bytes for name.
func (s *S3Store) Ciphertext(name string) ([]byte, error) {
	data, err := s.download(name)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("artifact: ciphertext not found: %s", name)
		}
		return nil, fmt.Errorf("artifact: fetching ciphertext: %w", err)
	}
	return data, nil
}

// Salt returns the salt paired with name's ciphertext.
func (s *S3Store) Salt(name string) ([]byte, error) {
	data, err := s.download(name + SaltSuffix)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", sealpost.ErrMissingSalt, name)
		}
		return nil, fmt.Errorf("artifact: fetching salt: %w", err)
	}
	return data, nil
}

func (s *S3Store) upload(name string, data []byte) error {
	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("artifact: uploading %s: %w", name, err)
	}
	return nil
}

func (s *S3Store) download(name string) ([]byte, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Compile-time check that S3Store implements the ArtifactStore interface.
var _ sealpost.ArtifactStore = (*S3Store)(nil)
