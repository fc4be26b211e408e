package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

// S3API is the subset of *s3.Client the backend uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config carries the settings needed to reach an S3-compatible store.
type S3Config struct {
	Region       string
	User         string
	Password     string
	BaseEndpoint string
	Bucket       string
	Prefix       string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Backend stores files under <prefix>/<owner>/<filename> in one bucket.
type S3Backend struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Backend builds an S3 client with static credentials and path-style
// addressing, which MinIO and most S3-compatible servers expect.
func NewS3Backend(ctx context.Context, c S3Config) (*S3Backend, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.User, c.Password, "")),
	)
	if err != nil {
		return nil, unavailable("load aws config", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return NewS3BackendWithClient(client, c.Bucket, c.Prefix), nil
}

func NewS3BackendWithClient(client S3API, bucket, prefix string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (b *S3Backend) ownerPrefix(owner string) string {
	if b.prefix == "" {
		return owner + "/"
	}
	return b.prefix + "/" + owner + "/"
}

func (b *S3Backend) key(owner, name string) string {
	return b.ownerPrefix(owner) + name
}

func (b *S3Backend) Put(ctx context.Context, owner, name string, content []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(b.key(owner, name)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return unavailable("put object", err)
	}
	return nil
}

func (b *S3Backend) Get(ctx context.Context, owner, name string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(owner, name)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, unavailable("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, unavailable("read object", err)
	}
	return data, nil
}

func (b *S3Backend) Exists(ctx context.Context, owner, name string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(owner, name)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, unavailable("head object", err)
	}
	return true, nil
}

func (b *S3Backend) List(ctx context.Context, owner string) ([]models.FileInfo, error) {
	prefix := b.ownerPrefix(owner)
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	var files []models.FileInfo
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, unavailable("list objects", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			// nested keys are not files of this namespace
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			files = append(files, models.FileInfo{Name: name, Size: aws.ToInt64(obj.Size)})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}

// Rename copies then deletes; S3 has no native rename.
func (b *S3Backend) Rename(ctx context.Context, owner, oldName, newName string) error {
	src := b.key(owner, oldName)
	_, err := b.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(b.bucket),
		CopySource: aws.String(b.bucket + "/" + url.PathEscape(src)),
		Key:        aws.String(b.key(owner, newName)),
	})
	if err != nil {
		if isNotFound(err) {
			return common.ErrorNotFound
		}
		return unavailable("copy object", err)
	}

	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(src),
	}); err != nil {
		return unavailable("delete renamed object", err)
	}
	return nil
}

// Delete checks existence first because DeleteObject succeeds for missing keys.
func (b *S3Backend) Delete(ctx context.Context, owner, name string) error {
	ok, err := b.Exists(ctx, owner, name)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}

	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(owner, name)),
	}); err != nil {
		return unavailable("delete object", err)
	}
	return nil
}

func (b *S3Backend) Owners(ctx context.Context) ([]string, error) {
	root := ""
	if b.prefix != "" {
		root = b.prefix + "/"
	}

	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(root),
		Delimiter: aws.String("/"),
	})

	var owners []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, unavailable("list owners", err)
		}
		for _, cp := range page.CommonPrefixes {
			owner := path.Base(strings.TrimSuffix(aws.ToString(cp.Prefix), "/"))
			if owner != "" && owner != "." {
				owners = append(owners, owner)
			}
		}
	}
	sort.Strings(owners)

	return owners, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	return strings.Contains(err.Error(), "StatusCode: 404")
}

func (b *S3Backend) String() string {
	return fmt.Sprintf("s3://%s/%s", b.bucket, b.prefix)
}
