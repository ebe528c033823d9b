package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"retro_site_builder/internal/types"
	"retro_site_builder/internal/utils"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough is configured to try an S3 export.
func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// S3Exporter puts each file under <session>/<export id>/ in one bucket. The
// bucket is created on first use.
type S3Exporter struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewS3Exporter(cfg S3Config) (*S3Exporter, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Exporter{client: client, bucketName: bucket, region: region}, nil
}

func (s *S3Exporter) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Exporter) Export(ctx context.Context, sessionID string, files []types.GeneratedFile) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Result{}, fmt.Errorf("session id is required")
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("nothing to export")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return Result{}, fmt.Errorf("ensure bucket: %w", err)
	}

	id := newExportID()
	prefix := sessionID + "/" + id
	res := Result{ID: id, Target: "s3", Location: fmt.Sprintf("s3://%s/%s/", s.bucketName, prefix)}

	for _, f := range files {
		name, err := cleanName(f.Filename)
		if err != nil {
			return Result{}, err
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = utils.ContentTypeFor(name)
		}
		body := []byte(f.Content)
		_, err = s.client.PutObject(ctx, s.bucketName, prefix+"/"+name, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return Result{}, fmt.Errorf("put %s: %w", name, err)
		}
		res.Files = append(res.Files, name)
	}

	log.Printf("Exported %d files for session %s to %s", len(res.Files), sessionID, res.Location)
	return res, nil
}
