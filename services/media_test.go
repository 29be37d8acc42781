package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

func TestLocalMediaStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewLocalMediaStore(root, "/media/")

	stored, err := store.Save(context.Background(), MediaResumes, "Jonas CV (2026).PDF", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Path, "resumes/"))
	assert.True(t, strings.HasSuffix(stored.Path, "-jonas-cv-2026.pdf"), stored.Path)
	assert.Equal(t, "/media/"+stored.Path, stored.URL)

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(content))
}

func TestMediaStoreRejectsUnknownKind(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir(), "/media")
	_, err := store.Save(context.Background(), MediaKind("../etc"), "x.png", "", strings.NewReader(""))
	v, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "kind", v.Field)
}

func TestMediaURL(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir(), "https://cdn.example.com/media/")
	assert.Equal(t, "https://cdn.example.com/media/about/me.jpg", store.URL("about/me.jpg"))
	assert.Equal(t, "https://elsewhere.example.com/a.jpg", store.URL("https://elsewhere.example.com/a.jpg"))
	assert.Empty(t, store.URL(""))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3MediaStoreSave(t *testing.T) {
	client := &fakeS3{}
	store, err := NewS3MediaStore(client, "portfolio-media", "/uploads/", "")
	require.NoError(t, err)

	stored, err := store.Save(context.Background(), MediaProjects, "screenshot.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "portfolio-media", aws.ToString(client.input.Bucket))
	assert.Equal(t, stored.Path, aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, "png", client.body)
	assert.True(t, strings.HasPrefix(stored.Path, "uploads/projects/"))
	assert.Equal(t, "https://portfolio-media.s3.amazonaws.com/"+stored.Path, stored.URL)

	_, err = NewS3MediaStore(client, "", "", "")
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
}
