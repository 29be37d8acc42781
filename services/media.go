package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

// MediaKind is the upload folder a file belongs to.
type MediaKind string

const (
	MediaProjects MediaKind = "projects"
	MediaBlog     MediaKind = "blog"
	MediaAbout    MediaKind = "about"
	MediaResumes  MediaKind = "resumes"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaProjects, MediaBlog, MediaAbout, MediaResumes:
		return true
	}
	return false
}

// StoredMedia is where an uploaded file ended up. Path is what content rows
// store; URL is what clients fetch.
type StoredMedia struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type MediaStore interface {
	Save(ctx context.Context, kind MediaKind, filename, contentType string, body io.Reader) (StoredMedia, error)
	URL(p string) string
}

// mediaKey builds "<kind>/<uuid>-<slug>.<ext>" so uploads never collide.
func mediaKey(kind MediaKind, filename string) (string, error) {
	if !kind.Valid() {
		return "", errs.NewValidationError("kind", "must be one of projects, blog, about, resumes")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	base := models.Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return path.Join(string(kind), uuid.NewString()+"-"+base+ext), nil
}

func joinURL(base, p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// LocalMediaStore writes uploads under a root directory served at baseURL.
type LocalMediaStore struct {
	root    string
	baseURL string
	logger  zerolog.Logger
}

func NewLocalMediaStore(root, baseURL string) *LocalMediaStore {
	return &LocalMediaStore{
		root:    root,
		baseURL: baseURL,
		logger:  log.With().Str("service", "localMedia").Logger(),
	}
}

func (s *LocalMediaStore) Save(ctx context.Context, kind MediaKind, filename, _ string, body io.Reader) (StoredMedia, error) {
	key, err := mediaKey(kind, filename)
	if err != nil {
		return StoredMedia{}, err
	}
	if err := ctx.Err(); err != nil {
		return StoredMedia{}, err
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return StoredMedia{}, fmt.Errorf("creating media directory: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return StoredMedia{}, fmt.Errorf("creating media file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return StoredMedia{}, fmt.Errorf("writing media file: %w", err)
	}
	s.logger.Info().Str("path", key).Int64("bytes", n).Msg("Stored upload")
	return StoredMedia{Path: key, URL: s.URL(key)}, nil
}

func (s *LocalMediaStore) URL(p string) string {
	return joinURL(s.baseURL, p)
}

// Handler serves stored files. Directory listings are not exposed.
func (s *LocalMediaStore) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// S3API is the part of the S3 client used for uploads.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3MediaStore uploads to a bucket. Objects are addressed through baseURL
// when set, otherwise through the bucket's virtual-hosted endpoint.
type S3MediaStore struct {
	client  S3API
	bucket  string
	prefix  string
	baseURL string
	logger  zerolog.Logger
}

func NewS3Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

func NewS3MediaStore(client S3API, bucket, prefix, baseURL string) (*S3MediaStore, error) {
	if bucket == "" {
		return nil, errs.NewConfigMissingError("MEDIA_S3_BUCKET")
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3MediaStore{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: baseURL,
		logger:  log.With().Str("service", "s3Media").Logger(),
	}, nil
}

func (s *S3MediaStore) Save(ctx context.Context, kind MediaKind, filename, contentType string, body io.Reader) (StoredMedia, error) {
	key, err := mediaKey(kind, filename)
	if err != nil {
		return StoredMedia{}, err
	}
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return StoredMedia{}, fmt.Errorf("uploading %s to s3: %w", key, err)
	}
	s.logger.Info().Str("bucket", s.bucket).Str("key", key).Msg("Stored upload")
	return StoredMedia{Path: key, URL: s.URL(key)}, nil
}

func (s *S3MediaStore) URL(p string) string {
	return joinURL(s.baseURL, p)
}
