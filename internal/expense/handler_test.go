package expense

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porpartes/porpartes/pkg/middleware"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _, _, _ := newTestService()
	mux := http.NewServeMux()
	mux.Handle("/", middleware.ActorMiddleware(NewHandler(svc).Routes()))
	return mux, svc
}

func doJSON(t *testing.T, h http.Handler, method, path string, actorID int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if actorID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(actorID, 10))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreate(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/", 10, map[string]any{
		"group_id":   1,
		"name":       "Dinner",
		"total":      30,
		"payer_id":   10,
		"split_type": "EQUAL",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Total  float64 `json:"total"`
			Shares []struct {
				Amount float64 `json:"amount"`
			} `json:"shares"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 30.0, envelope.Data.Total)
	require.Len(t, envelope.Data.Shares, 3)
	assert.Equal(t, 10.0, envelope.Data.Shares[0].Amount)
}

func TestHandlerCreateMissingFields(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/", 10, map[string]any{"name": "Dinner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Error.Details, "group_id")
	assert.Contains(t, envelope.Error.Details, "total")
	assert.NotContains(t, envelope.Error.Details, "name")
}

func TestHandlerErrorStatuses(t *testing.T) {
	h, svc := newTestRouter(t)

	created, err := svc.Create(t.Context(), &CreateExpenseRequest{
		GroupID: 1, Name: "Dinner", Total: 30, PayerID: 10, SplitType: "EQUAL",
	})
	require.NoError(t, err)
	path := "/" + strconv.FormatInt(created.ID, 10)

	tests := []struct {
		name     string
		method   string
		path     string
		actorID  int64
		body     any
		wantCode int
	}{
		{"get missing expense", http.MethodGet, "/999", 0, nil, http.StatusNotFound},
		{"update without actor", http.MethodPut, path, 0, map[string]any{"name": "x"}, http.StatusUnauthorized},
		{"update by stranger", http.MethodPut, path, 20, map[string]any{"name": "x"}, http.StatusForbidden},
		{"delete without actor", http.MethodDelete, path, 0, nil, http.StatusUnauthorized},
		{"list all as non-admin", http.MethodGet, "/", 10, nil, http.StatusForbidden},
		{"sum mismatch", http.MethodPost, "/", 10, map[string]any{
			"group_id": 1, "name": "Taxi", "total": 25, "payer_id": 10,
			"split_type": "MANUAL",
			"shares":     []map[string]any{{"user_id": 10, "amount": 10}},
		}, http.StatusBadRequest},
		{"non-member share", http.MethodPost, "/", 10, map[string]any{
			"group_id": 1, "name": "Taxi", "total": 25, "payer_id": 10,
			"split_type": "MANUAL",
			"shares":     []map[string]any{{"user_id": 40, "amount": 25}},
		}, http.StatusBadRequest},
		{"unknown split type", http.MethodPost, "/", 10, map[string]any{
			"group_id": 1, "name": "Taxi", "total": 25, "payer_id": 10,
			"split_type": "WEIGHTED",
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.actorID, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandlerUpdateAndDelete(t *testing.T) {
	h, svc := newTestRouter(t)

	created, err := svc.Create(t.Context(), &CreateExpenseRequest{
		GroupID: 1, Name: "Dinner", Total: 30, PayerID: 10, SplitType: "EQUAL",
	})
	require.NoError(t, err)
	path := "/" + strconv.FormatInt(created.ID, 10)

	rec := doJSON(t, h, http.MethodPut, path, 10, map[string]any{"remove_participant_id": 20})
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Total float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 20.0, envelope.Data.Total)

	rec = doJSON(t, h, http.MethodDelete, path, 99, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, path, 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
