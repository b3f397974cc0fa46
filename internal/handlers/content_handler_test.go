package handlers_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/testutil"
)

func TestReviewScopeAndRatingAreValidated(t *testing.T) {
	e := newEnv(t)
	svc := testutil.CreateService(t, e.db, "Maquillage Mariée", "maquillage-mariee")

	w := e.asAdmin(http.MethodPost, "/api/admin/reviews", map[string]any{
		"author": "Léa", "comment": "Parfait", "rating": 5, "global": true, "service_id": svc.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_scope", decode(t, w)["error_code"])

	w = e.asAdmin(http.MethodPost, "/api/admin/reviews", map[string]any{
		"author": "Léa", "comment": "Parfait", "rating": 6, "global": true,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_rating", decode(t, w)["error_code"])

	w = e.asAdmin(http.MethodPost, "/api/admin/reviews", map[string]any{
		"author": "Léa", "comment": "Parfait", "rating": 5, "formation_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.asAdmin(http.MethodPost, "/api/admin/reviews", map[string]any{
		"author": "Léa", "comment": "Parfait", "rating": 5, "service_id": svc.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(1), count(t, e.db, &models.Review{}))
}

func TestReviewPatchKeepsSingleTarget(t *testing.T) {
	e := newEnv(t)
	review := models.Review{Author: "Léa", Comment: "Parfait", Rating: 5, Global: true}
	require.NoError(t, e.db.Create(&review).Error)
	path := fmt.Sprintf("/api/admin/reviews?id=%d", review.ID)

	w := e.asAdmin(http.MethodPatch, path, map[string]any{"services_global": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.asAdmin(http.MethodPatch, path, map[string]any{"global": false, "services_global": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, false, body["global"])
	assert.Equal(t, true, body["services_global"])
}

func TestPublicFAQFollowsScope(t *testing.T) {
	e := newEnv(t)
	svc := testutil.CreateService(t, e.db, "Maquillage Mariée", "maquillage-mariee")
	require.NoError(t, e.db.Create(&models.FAQ{Question: "Site", Answer: "a", Global: true}).Error)
	require.NoError(t, e.db.Create(&models.FAQ{Question: "Prestations", Answer: "b", ServicesGlobal: true}).Error)
	require.NoError(t, e.db.Create(&models.FAQ{Question: "Mariée", Answer: "c", ServiceID: &svc.ID}).Error)

	w := e.do(http.MethodGet, "/api/public/faq", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Site")
	assert.NotContains(t, w.Body.String(), "Prestations")

	w = e.do(http.MethodGet, fmt.Sprintf("/api/public/faq?serviceId=%d", svc.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Prestations")
	assert.Contains(t, w.Body.String(), "Mariée")
	assert.NotContains(t, w.Body.String(), "Site")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGalleryUploadStoresFileAndRow(t *testing.T) {
	e := newEnv(t)

	req := multipartRequest(t, "/api/admin/gallery/upload", "IMG_0042.PNG", pngBytes(t), map[string]string{
		"title":  "Mariée Juin",
		"global": "true",
	})
	w := e.send(req, e.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/assets/mariee-juin.png", decode(t, w)["image_url"])

	_, err := os.Stat(filepath.Join(e.uploads, "mariee-juin.png"))
	assert.NoError(t, err)

	var item models.GalleryItem
	require.NoError(t, e.db.First(&item).Error)
	assert.True(t, item.Global)
	require.NotNil(t, item.UploadedBy)
	assert.Equal(t, e.admin.ID, *item.UploadedBy)
}

func TestUploadRejectsWrongType(t *testing.T) {
	e := newEnv(t)

	req := multipartRequest(t, "/api/admin/uploads", "notes.txt", []byte("hello"), nil)
	w := e.send(req, e.adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_file_type", decode(t, w)["error_code"])

	req = multipartRequest(t, "/api/admin/uploads", "fake.png", []byte("not really a png"), nil)
	w = e.send(req, e.adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_file_type", decode(t, w)["error_code"])
}

func TestContactStoresAndNotifies(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/public/contact", map[string]any{"name": "Léa", "email": "lea@example.fr"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_fields", decode(t, w)["error_code"])

	w = e.do(http.MethodPost, "/api/public/contact", map[string]any{
		"name": "Léa", "email": " Lea@Example.fr ", "message": "Disponible le 12 ?",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, e.notes.count())

	var msg models.ContactMessage
	require.NoError(t, e.db.First(&msg).Error)
	assert.Equal(t, "lea@example.fr", msg.Email)

	w = e.asAdmin(http.MethodGet, "/api/admin/contact", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}
