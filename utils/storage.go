package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStore abstracts the bucket we keep uploaded images in. Two backends
// exist: Google Cloud Storage and Cloudflare R2 (S3-compatible). Pick one
// with STORAGE_BACKEND=gcs|r2.
type ObjectStore interface {
	// UploadImage stores the file under <prefix>/<ownerID>/ and returns the
	// public URL it will be served from.
	UploadImage(ctx context.Context, prefix, ownerID string, fileHeader *multipart.FileHeader) (string, error)

	// DeleteObjects removes the named objects, skipping empty names. The
	// first failure is returned but remaining objects are still attempted.
	DeleteObjects(ctx context.Context, objectNames []string) error

	// ObjectNameFromURL recovers the object name from a public URL this
	// store produced.
	ObjectNameFromURL(raw string) (string, error)
}

func NewObjectStore(ctx context.Context) (ObjectStore, error) {
	switch strings.ToLower(os.Getenv("STORAGE_BACKEND")) {
	case "", "gcs":
		return newGCSStore(ctx)
	case "r2":
		return newR2Store(ctx)
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want gcs or r2)", os.Getenv("STORAGE_BACKEND"))
	}
}

// buildObjectName gives every upload a unique, sanitized key.
func buildObjectName(prefix, ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%s/%d-%s%s", prefix, SanitizeObjectName(ownerID), time.Now().UTC().Unix(), uuid.New().String(), ext)
}

func contentTypeFor(fileHeader *multipart.FileHeader) string {
	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(fileHeader.Filename)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

type gcsStore struct {
	client *storage.Client
	bucket string
}

func newGCSStore(ctx context.Context) (*gcsStore, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET env var")
	}

	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	if err != nil {
		return nil, err
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

func (s *gcsStore) UploadImage(ctx context.Context, prefix, ownerID string, fileHeader *multipart.FileHeader) (string, error) {
	objectName := buildObjectName(prefix, ownerID, fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	writer := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentTypeFor(fileHeader)
	writer.CacheControl = "no-cache"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

func (s *gcsStore) DeleteObjects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		err := s.client.Bucket(s.bucket).Object(obj).Delete(ctx)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

func (s *gcsStore) ObjectNameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	// style 1: storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		prefix := s.bucket + "/"
		if !strings.HasPrefix(path, prefix) {
			return "", fmt.Errorf("url bucket mismatch")
		}
		return strings.TrimPrefix(path, prefix), nil
	}

	// style 2: <bucket>.storage.googleapis.com/<object>
	if host == strings.ToLower(s.bucket)+".storage.googleapis.com" {
		if path == "" {
			return "", fmt.Errorf("missing object path")
		}
		return path, nil
	}

	return "", fmt.Errorf("not a gcs public url")
}

type r2Store struct {
	s3     *s3.Client
	bucket string
	domain string
}

func newR2Store(ctx context.Context) (*r2Store, error) {
	bucket := os.Getenv("R2_BUCKET")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	endpoint := os.Getenv("R2_ENDPOINT") // https://<account-id>.r2.cloudflarestorage.com

	if bucket == "" || accessKey == "" || secretKey == "" || endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &r2Store{
		s3:     client,
		bucket: bucket,
		domain: strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"),
	}, nil
}

func (s *r2Store) UploadImage(ctx context.Context, prefix, ownerID string, fileHeader *multipart.FileHeader) (string, error) {
	objectName := buildObjectName(prefix, ownerID, fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(objectName),
		Body:         file,
		ContentType:  aws.String(contentTypeFor(fileHeader)),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fileHeader.Filename, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.domain, s.bucket, objectName), nil
}

func (s *r2Store) DeleteObjects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

// ObjectNameFromURL supports both custom domain (R2_PUBLIC_DOMAIN) and
// r2.dev subdomain URLs.
func (s *r2Store) ObjectNameFromURL(raw string) (string, error) {
	if s.domain != "" && strings.HasPrefix(raw, s.domain+"/"+s.bucket+"/") {
		return strings.TrimPrefix(raw, s.domain+"/"), nil
	}

	// r2.dev style: https://<bucket>.<account>.r2.dev/<object>
	// Just strip the scheme + host and return the path
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(raw, prefix) {
			withoutScheme := strings.TrimPrefix(raw, prefix)
			slash := strings.Index(withoutScheme, "/")
			if slash == -1 {
				return "", fmt.Errorf("no object path in url")
			}
			return withoutScheme[slash+1:], nil
		}
	}

	return "", fmt.Errorf("not a recognised R2 public url")
}
