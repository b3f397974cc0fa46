package upload

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/storage"
)

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	m.objects[key] = data
	return "/assets/" + key, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

var _ storage.Store = (*memStore)(nil)

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 32))))
	return buf.Bytes()
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "maquillage-mariee.png", Filename("IMG_01.PNG", "Maquillage Mariée"))
	assert.Equal(t, "img-01.jpg", Filename("IMG_01.jpg", ""))
	assert.Equal(t, "photo.jpg", Filename("photo", ""))
}

func TestSaveStoresFileAndVariant(t *testing.T) {
	st := &memStore{objects: map[string][]byte{}}
	svc := NewService(st, Options{MaxBytes: 5 << 20, WebPVariants: true, VariantWidth: 32}, nil)

	f, err := svc.SaveBytes(context.Background(), "look.png", "Look Soirée", pngData(t))
	require.NoError(t, err)

	assert.Equal(t, "look-soiree.png", f.Filename)
	assert.Equal(t, "/assets/look-soiree.png", f.URL)
	assert.Equal(t, "/assets/look-soiree.webp", f.WebPURL)
	assert.Equal(t, "image/png", f.MimeType)
	assert.Contains(t, st.objects, "look-soiree.webp")
}

func TestSaveRenamesMismatchedExtension(t *testing.T) {
	st := &memStore{objects: map[string][]byte{}}
	svc := NewService(st, Options{MaxBytes: 5 << 20}, nil)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16)), nil))

	f, err := svc.SaveBytes(context.Background(), "look.png", "", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "look.jpg", f.Filename)
	assert.Equal(t, "image/jpeg", f.MimeType)
	assert.Contains(t, st.objects, "look.jpg")
	assert.NotContains(t, st.objects, "look.png")
}

func TestCheckRejects(t *testing.T) {
	svc := NewService(&memStore{objects: map[string][]byte{}}, Options{MaxBytes: 100}, nil)

	_, err := svc.Check("doc.pdf", []byte("%PDF-1.4"))
	assert.True(t, httperr.IsBusiness(err, "invalid_file_type"))

	_, err = svc.Check("fake.png", []byte("just some text, not an image"))
	assert.True(t, httperr.IsBusiness(err, "invalid_file_type"))

	_, err = svc.Check("big.png", make([]byte, 101))
	assert.True(t, httperr.IsBusiness(err, "file_too_large"))

	_, err = svc.Check("empty.png", nil)
	assert.True(t, httperr.IsBusiness(err, "missing_file"))
}
