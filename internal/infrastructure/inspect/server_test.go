package inspect

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Surfaces(t *testing.T) {
	srv := NewServer(":0", Sources{
		Surfaces: func() []entity.SurfaceRecord {
			return []entity.SurfaceRecord{{ID: "a", Rect: entity.Rect{W: 10, H: 5}, Locator: "x", Visible: true}}
		},
	})

	rec := get(t, srv.Handler(), "/surfaces")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out []Surface
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, entity.NodeID("a"), out[0].ID)
	assert.True(t, out[0].Visible)
}

func TestServer_Layout(t *testing.T) {
	srv := NewServer(":0", Sources{
		Layout: func() any { return map[string]string{"id": "root"} },
	})

	rec := get(t, srv.Handler(), "/layout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"root"}`, rec.Body.String())
}

func TestServer_MissingSource(t *testing.T) {
	srv := NewServer(":0", Sources{})

	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/layout").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/tiles").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/surfaces").Code)
}

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name     string
		validate func() error
		want     int
	}{
		{name: "no validator", want: http.StatusOK},
		{name: "valid tree", validate: func() error { return nil }, want: http.StatusOK},
		{name: "invalid tree", validate: func() error { return errors.New("broken") }, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(":0", Sources{Validate: tt.validate})
			assert.Equal(t, tt.want, get(t, srv.Handler(), "/healthz").Code)
		})
	}
}
