package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guardian/internal/recall"
	"guardian/internal/recall/events"
	recallservice "guardian/internal/recall/service"
	recallstore "guardian/internal/recall/store"
	"guardian/internal/transport/http/mocks"
	dErrors "guardian/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/recall-mocks.go -package=mocks Service

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := recallservice.New(recallstore.NewMemoryStore(), events.NoopPublisher{}, logger, nil)
	return NewRouter(New(svc, logger, nil, nil, 0))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeRecall(t *testing.T, w *httptest.ResponseRecorder) recall.Recall {
	t.Helper()
	var r recall.Recall
	require.NoError(t, json.NewDecoder(w.Body).Decode(&r))
	return r
}

func validInitiateBody() InitiateRecallRequest {
	return InitiateRecallRequest{
		ProductName: "Organic Baby Spinach",
		BatchID:     "FS-2025-Q3-B7",
		Reason:      "Potential contamination",
		InitiatedBy: "qc_manager",
		Distributors: []DistributorInputRequest{
			{DistributorID: "D1", DistributorName: "East Dist", QuantityDistributed: 50},
			{DistributorID: "D2", DistributorName: "West Dist", QuantityDistributed: 50},
		},
	}
}

func TestHandleInitiate(t *testing.T) {
	t.Run("creates a recall", func(t *testing.T) {
		router := newTestRouter(t)
		w := doJSON(t, router, http.MethodPost, "/api/recalls/initiate", validInitiateBody())

		require.Equal(t, http.StatusCreated, w.Code)
		r := decodeRecall(t, w)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, recall.StatusInitiated, r.Status)
		assert.Equal(t, int64(100), r.TotalQuantityDistributed)
	})

	t.Run("rejects a missing distributor list", func(t *testing.T) {
		router := newTestRouter(t)
		body := validInitiateBody()
		body.Distributors = nil
		w := doJSON(t, router, http.MethodPost, "/api/recalls/initiate", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var envelope map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
		assert.Equal(t, "bad_request", envelope["error"])
		assert.Contains(t, envelope["error_description"], "distributors")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/recalls/initiate", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects non-JSON content types", func(t *testing.T) {
		router := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/recalls/initiate", bytes.NewReader([]byte("productName=x")))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestHandleGet(t *testing.T) {
	router := newTestRouter(t)

	t.Run("unknown recall is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recalls/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns the aggregate", func(t *testing.T) {
		created := decodeRecall(t, doJSON(t, router, http.MethodPost, "/api/recalls/initiate", validInitiateBody()))
		w := doJSON(t, router, http.MethodGet, "/api/recalls/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, created.ID, decodeRecall(t, w).ID)
	})
}

func TestHandleList(t *testing.T) {
	router := newTestRouter(t)

	t.Run("empty list is an empty array", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/recalls/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
	})

	t.Run("newest first", func(t *testing.T) {
		first := decodeRecall(t, doJSON(t, router, http.MethodPost, "/api/recalls/initiate", validInitiateBody()))
		second := decodeRecall(t, doJSON(t, router, http.MethodPost, "/api/recalls/initiate", validInitiateBody()))

		w := doJSON(t, router, http.MethodGet, "/api/recalls/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var recalls []recall.Recall
		require.NoError(t, json.NewDecoder(w.Body).Decode(&recalls))
		require.Len(t, recalls, 2)
		assert.Equal(t, second.ID, recalls[0].ID)
		assert.Equal(t, first.ID, recalls[1].ID)
	})
}

func TestLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	created := decodeRecall(t, doJSON(t, router, http.MethodPost, "/api/recalls/initiate", validInitiateBody()))
	base := "/api/recalls/" + created.ID

	w := doJSON(t, router, http.MethodPost, base+"/notifications/sent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recall.StatusNotificationsSent, decodeRecall(t, w).Status)

	w = doJSON(t, router, http.MethodPost, base+"/acknowledge", AcknowledgeRequest{DistributorID: "D1"})
	require.Equal(t, http.StatusOK, w.Code)

	// Acknowledging the same distributor again conflicts.
	w = doJSON(t, router, http.MethodPost, base+"/acknowledge", AcknowledgeRequest{DistributorID: "D1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/acknowledge", AcknowledgeRequest{DistributorID: "D2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recall.StatusReturnsInProgress, decodeRecall(t, w).Status)

	// Closing before returns complete conflicts.
	w = doJSON(t, router, http.MethodPost, base+"/close", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/returns", ReturnsUpdateRequest{DistributorID: "D1", QuantityReturned: 50})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, base+"/returns", ReturnsUpdateRequest{DistributorID: "D2", QuantityReturned: 50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100), decodeRecall(t, w).TotalQuantityReturned)

	w = doJSON(t, router, http.MethodPost, base+"/close", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recall.StatusClosed, decodeRecall(t, w).Status)
}

func TestRequestValidation(t *testing.T) {
	router := newTestRouter(t)
	created := decodeRecall(t, doJSON(t, router, http.MethodPost, "/api/recalls/initiate", validInitiateBody()))
	base := "/api/recalls/" + created.ID

	t.Run("acknowledge requires a distributor id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, base+"/acknowledge", AcknowledgeRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns update rejects negative quantities", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, base+"/returns", ReturnsUpdateRequest{DistributorID: "D1", QuantityReturned: -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("commands against unknown recalls are 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/recalls/nope/close", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func newMockRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger, nil, nil, 0).Register(r)
	return r, mockService
}

func TestActorAttribution(t *testing.T) {
	aggregate := &recall.Recall{ID: "r1"}

	t.Run("notifications route acts as the notifications service", func(t *testing.T) {
		router, mockService := newMockRouter(t)
		mockService.EXPECT().
			MarkNotificationsSent(gomock.Any(), "r1", "notifications-service").
			Return(aggregate, nil)
		w := doJSON(t, router, http.MethodPost, "/api/recalls/r1/notifications/sent", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("acknowledge route acts as the distributor portal", func(t *testing.T) {
		router, mockService := newMockRouter(t)
		mockService.EXPECT().
			AcknowledgeDistributor(gomock.Any(), "r1", "D1", "distributor-portal").
			Return(aggregate, nil)
		w := doJSON(t, router, http.MethodPost, "/api/recalls/r1/acknowledge", AcknowledgeRequest{DistributorID: "D1"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns route acts as the warehouse", func(t *testing.T) {
		router, mockService := newMockRouter(t)
		mockService.EXPECT().
			UpdateReturns(gomock.Any(), "r1", "D1", int64(25), "warehouse").
			Return(aggregate, nil)
		w := doJSON(t, router, http.MethodPost, "/api/recalls/r1/returns", ReturnsUpdateRequest{DistributorID: "D1", QuantityReturned: 25})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("close route acts as the recall manager", func(t *testing.T) {
		router, mockService := newMockRouter(t)
		mockService.EXPECT().
			TryClose(gomock.Any(), "r1", "recall-manager").
			Return(aggregate, nil)
		w := doJSON(t, router, http.MethodPost, "/api/recalls/r1/close", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestInternalErrorsAreSanitized(t *testing.T) {
	router, mockService := newMockRouter(t)
	mockService.EXPECT().
		List(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInternal, "connection refused on 10.0.0.5"))

	w := doJSON(t, router, http.MethodGet, "/api/recalls/", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var envelope map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, "internal_error", envelope["error"])
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}
