package formdef

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"formprefill/pkg/platform/sentinel"
)

// maxDefinitionSize caps how much of a definition file is read.
const maxDefinitionSize = 1 << 20

// Storage reads files of the form storage by storage-relative path.
type Storage interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// cleanRelative normalizes name and rejects paths escaping the root.
func cleanRelative(name string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(name))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("empty path: %w", sentinel.ErrMalformed)
	}
	if !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", fmt.Errorf("path %q outside storage: %w", name, sentinel.ErrMalformed)
	}
	return cleaned, nil
}

// DirStorage reads files below a local directory.
type DirStorage struct {
	root string
}

func NewDirStorage(root string) *DirStorage {
	return &DirStorage{root: root}
}

func (s *DirStorage) Read(_ context.Context, name string) ([]byte, error) {
	rel, err := cleanRelative(name)
	if err != nil {
		return nil, err
	}
	return readLimited(filepath.Join(s.root, filepath.FromSlash(rel)))
}

func readLimited(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", file, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	data, err := readDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

// readDefinition reads r fully and rejects content over maxDefinitionSize.
func readDefinition(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDefinitionSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDefinitionSize {
		return nil, fmt.Errorf("definition too large (over %d bytes): %w", maxDefinitionSize, sentinel.ErrMalformed)
	}
	return data, nil
}

// ObjectGetter is the part of the S3 client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Storage reads files from a bucket, optionally below a key prefix.
type S3Storage struct {
	client ObjectGetter
	bucket string
	prefix string
}

func NewS3Storage(client ObjectGetter, bucket, prefix string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Storage) Read(ctx context.Context, name string) ([]byte, error) {
	rel, err := cleanRelative(name)
	if err != nil {
		return nil, err
	}
	key := rel
	if s.prefix != "" {
		key = s.prefix + "/" + rel
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w: %w", s.bucket, key, sentinel.ErrUnavailable, err)
	}
	defer out.Body.Close()

	data, err := readDefinition(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

// S3Config configures NewS3Client.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for S3 or an S3 compatible store. Static
// credentials are used when both keys are set, the default chain otherwise.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
