package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func newSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	return recorder
}

func spanAttribute(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing(t *testing.T) {
	t.Run("records one server span per request", func(t *testing.T) {
		recorder := newSpanRecorder(t)
		handler := Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/recalls/initiate", nil))

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "POST /api/recalls/initiate", spans[0].Name())
		status, ok := spanAttribute(spans[0], "http.status_code")
		require.True(t, ok)
		assert.Equal(t, int64(http.StatusCreated), status.AsInt64())
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("marks server errors on the span", func(t *testing.T) {
		recorder := newSpanRecorder(t)
		handler := Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/recalls/", nil))

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("honors a caller-supplied id", func(t *testing.T) {
		var handled bool
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handled = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/recalls/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.True(t, handled)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	})

	t.Run("assigns one when missing", func(t *testing.T) {
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recalls/", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
