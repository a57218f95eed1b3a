package images_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/modules/images"
	"github.com/dmitrymomot/opsdesk/pkg/cookie"
	"github.com/dmitrymomot/opsdesk/pkg/file"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
)

var (
	pngData  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	jpegData = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 32)...)
	gifData  = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
)

type harness struct {
	dir      string
	sessions *session.Manager
	router   http.Handler
}

func newHarness(t *testing.T, files map[string][]byte) *harness {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	store, err := file.NewLocalStorage(dir)
	require.NoError(t, err)

	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)
	sessions := session.New(cookies)

	svc := images.NewService(store, rbac.Default())
	return &harness{dir: dir, sessions: sessions, router: sessions.Middleware(nil)(svc.Handle())}
}

func (h *harness) do(t *testing.T, method, target string, body []byte, role rbac.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if role != "" {
		rec := httptest.NewRecorder()
		_, err := h.sessions.Issue(rec, httptest.NewRequest(http.MethodGet, "/", nil), session.Identity{UserID: "65f000000000000000000001", Username: "u", Role: role})
		require.NoError(t, err)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestServe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		files      map[string][]byte
		code       string
		wantStatus int
		wantType   string
		wantBody   []byte
	}{
		{
			name:       "jpg wins over later extensions",
			files:      map[string][]byte{"1001.png": pngData, "1001.jpg": jpegData},
			code:       "1001",
			wantStatus: http.StatusOK,
			wantType:   "image/jpeg",
			wantBody:   jpegData,
		},
		{
			name:       "jpeg before png",
			files:      map[string][]byte{"1002.png": pngData, "1002.jpeg": jpegData},
			code:       "1002",
			wantStatus: http.StatusOK,
			wantType:   "image/jpeg",
			wantBody:   jpegData,
		},
		{
			name:       "gif as last resort",
			files:      map[string][]byte{"1003.gif": gifData},
			code:       "1003",
			wantStatus: http.StatusOK,
			wantType:   "image/gif",
			wantBody:   gifData,
		},
		{
			name:       "no image",
			files:      map[string][]byte{"1004.bmp": pngData},
			code:       "1004",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non numeric code",
			code:       "abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "traversal attempt",
			code:       "..%2Fsecret",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, tt.files)

			rec := h.do(t, http.MethodGet, "/"+tt.code, nil, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, images.CacheControl, rec.Header().Get("Cache-Control"))
			assert.Equal(t, tt.wantBody, rec.Body.Bytes())
		})
	}
}

func TestUpload(t *testing.T) {
	t.Parallel()

	t.Run("requires items.write", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, nil)
		assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPut, "/2001", pngData, "").Code)
		assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodPut, "/2001", pngData, rbac.RoleUser).Code)
	})

	t.Run("replaces other extensions", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, map[string][]byte{"2002.jpg": jpegData})

		rec := h.do(t, http.MethodPut, "/2002", pngData, rbac.RoleAdmin)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.FileExists(t, filepath.Join(h.dir, "2002.png"))
		assert.NoFileExists(t, filepath.Join(h.dir, "2002.jpg"))

		rec = h.do(t, http.MethodGet, "/2002", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	})

	t.Run("rejects non images", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, nil)
		rec := h.do(t, http.MethodPut, "/2003", []byte("hello, world"), rbac.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, nil)
		rec := h.do(t, http.MethodPut, "/2004", nil, rbac.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete removes every extension", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, map[string][]byte{"2005.jpg": jpegData, "2005.gif": gifData})
		rec := h.do(t, http.MethodDelete, "/2005", nil, rbac.RoleAdmin)
		require.Equal(t, http.StatusNoContent, rec.Code)

		store, err := file.NewLocalStorage(h.dir)
		require.NoError(t, err)
		for _, ext := range images.Extensions {
			assert.False(t, store.Exists(context.Background(), "2005"+ext))
		}
	})
}

func TestDeleteMissingImage(t *testing.T) {
	t.Parallel()
	h := newHarness(t, map[string][]byte{"2006.png": pngData})

	rec := h.do(t, http.MethodDelete, "/2007", nil, rbac.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodDelete, "/2006", nil, rbac.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodDelete, "/2006", nil, rbac.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServicePanicsWithoutStorage(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { images.NewService(nil, rbac.Default()) })
}
