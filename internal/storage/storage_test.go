package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neillmakeup/studio-api/internal/config"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	st := NewLocal(dir, "/assets/")

	url, err := st.Put(context.Background(), "gallery/mariage.jpg", "image/jpeg", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/assets/gallery/mariage.jpg", url)

	got, err := os.ReadFile(filepath.Join(dir, "gallery", "mariage.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	require.NoError(t, st.Delete(context.Background(), "gallery/mariage.jpg"))
	require.NoError(t, st.Delete(context.Background(), "gallery/mariage.jpg"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	st := NewLocal(t.TempDir(), "/assets")
	_, err := st.Put(context.Background(), "../../etc/passwd", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

type fakeS3 struct {
	puts    map[string]string
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PutBuildsPublicURL(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	st := &S3{client: fake, bucket: "studio", baseURL: "https://cdn.neillmakeup.fr"}

	url, err := st.Put(context.Background(), "/shooting.webp", "image/webp", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.neillmakeup.fr/shooting.webp", url)
	assert.Equal(t, "img", fake.puts["shooting.webp"])

	require.NoError(t, st.Delete(context.Background(), "shooting.webp"))
	assert.Equal(t, []string{"shooting.webp"}, fake.deleted)
}

func TestNewSelectsBackend(t *testing.T) {
	st, err := New(config.UploadsConfig{Backend: "local", Dir: t.TempDir(), PublicPrefix: "/assets"}, config.S3Config{})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, st)

	_, err = New(config.UploadsConfig{Backend: "s3"}, config.S3Config{})
	assert.Error(t, err)

	st, err = New(config.UploadsConfig{Backend: "s3"}, config.S3Config{Bucket: "b", Region: "eu-west-3", Endpoint: "http://minio:9000"})
	require.NoError(t, err)
	assert.IsType(t, &S3{}, st)

	_, err = New(config.UploadsConfig{Backend: "ftp"}, config.S3Config{})
	assert.Error(t, err)
}
