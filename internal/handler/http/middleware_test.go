// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/service"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// echoUser writes the user id found in the request context.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	w.Write([]byte("user=" + userID))
})

// ── auth ──

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantBody   string
	}{
		{"bearer header", "Bearer good", "", http.StatusOK, "user=user-1"},
		{"lower-case scheme", "bearer good", "", http.StatusOK, "user=user-1"},
		{"query token", "", "?token=good", http.StatusOK, "user=user-1"},
		{"missing", "", "", http.StatusUnauthorized, ErrEmptyAuthorizationHeader.Error()},
		{"no scheme", "good", "", http.StatusUnauthorized, ErrInvalidAuthorizationHeader.Error()},
		{"empty token", "Bearer ", "", http.StatusUnauthorized, ErrInvalidAuthorizationHeader.Error()},
		{"rejected token", "Bearer bad", "", http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			m.auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{UserID: "user-1"}, nil).AnyTimes()
			m.auth.EXPECT().ParseToken(gomock.Any(), "bad").Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid).AnyTimes()

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.auth(echoUser).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	h, m := newMockedHandler(t)
	m.auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{UserID: "user-1"}, nil)
	m.auth.EXPECT().ParseToken(gomock.Any(), "bad").Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)
	handler := h.optionalAuth(echoUser)

	anonymous := httptest.NewRecorder()
	handler.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.Equal(t, "user=", anonymous.Body.String())

	identified := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(identified, req)
	assert.Equal(t, "user=user-1", identified.Body.String())

	rejected := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/?token=bad", nil)
	handler.ServeHTTP(rejected, req)
	assert.Equal(t, http.StatusUnauthorized, rejected.Code)
}

// ── withTraceID ──

func newBufferedHandler(buf *bytes.Buffer) *Handler {
	return &Handler{logger: &logger.Logger{Logger: zerolog.New(buf)}}
}

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when missing", "", false},
		{"propagated", "trace-abc", true},
		{"replaced when oversized", strings.Repeat("x", maxTraceIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newBufferedHandler(&buf)

			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromRequest(r).Info().Msg("inside")
				seen = w.Header().Get(traceIDHeader)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(traceIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rec, req)

			traceID := rec.Header().Get(traceIDHeader)
			require.NotEmpty(t, traceID)
			assert.Equal(t, traceID, seen)
			assert.Contains(t, buf.String(), `"trace_id":"`+traceID+`"`)
			if tt.keep {
				assert.Equal(t, tt.incoming, traceID)
			} else {
				assert.NotEqual(t, tt.incoming, traceID)
				assert.LessOrEqual(t, len(traceID), maxTraceIDLength)
			}
		})
	}
}

// ── withLogging / responseWriter ──

func TestWithLogging_RecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	h := newBufferedHandler(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("12345"))
	})

	req := httptest.NewRequest(http.MethodPost, "/brew?x=1", nil)
	req = req.WithContext(h.logger.WithContext(req.Context()))
	rec := httptest.NewRecorder()
	h.withLogging(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code, "only the first status is sent")
	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"size":5`)
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"uri":"/brew?x=1"`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestWithLogging_ServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newBufferedHandler(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(h.logger.WithContext(req.Context()))
	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestResponseWriter_ImplicitStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	n, err := w.Write([]byte("abc"))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, rec, w.Unwrap())
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	_, _, err := w.Hijack()

	assert.ErrorIs(t, err, http.ErrNotSupported)
	assert.Zero(t, w.status)
}

// ── withGZip ──

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

var echoBody = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Write([]byte("got:" + string(body)))
})

func TestWithGZip_CompressesImplicitStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "deflate, gzip")
	rec := httptest.NewRecorder()

	withGZip(echoBody).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "got:", gunzip(t, rec.Body.Bytes()))
}

func TestWithGZip_DecompressesRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipBytes(t, `{"a":1}`)))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()

	withGZip(echoBody).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, `got:{"a":1}`, rec.Body.String())
}

func TestWithGZip_InvalidRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()

	withGZip(echoBody).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithGZip_SkipsWebsocketUpgrade(t *testing.T) {
	var passed http.ResponseWriter
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { passed = w })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Upgrade", "WebSocket")
	rec := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rec, req)

	assert.Same(t, rec, passed)
}

// ── CheckHTTPMethod ──

func TestRouteHandles(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/version/", func(http.ResponseWriter, *http.Request) {})
	router.Post("/api/capsules", func(http.ResponseWriter, *http.Request) {})

	routes := router.Routes()
	assert.True(t, routeHandles(routes, "/api/version/", http.MethodGet))
	assert.False(t, routeHandles(routes, "/api/version/", http.MethodPost))
	assert.False(t, routeHandles(routes, "/api/other", http.MethodGet))
}
