package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	"github.com/smallbiznis/housing/internal/inference"
	"github.com/smallbiznis/housing/internal/observability"
	"github.com/smallbiznis/housing/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHousingService struct {
	createReq   *housingdomain.CreateRequest
	updateCalls int
	items       []housingdomain.HousingResponse
	err         error
}

func (f *fakeHousingService) Create(ctx context.Context, req housingdomain.CreateRequest) (*housingdomain.HousingResponse, error) {
	f.createReq = &req
	if f.err != nil {
		return nil, f.err
	}
	price := float64(req.Rooms) * 1000
	return &housingdomain.HousingResponse{ID: 1, Rooms: req.Rooms, Price: &price}, nil
}

func (f *fakeHousingService) List(ctx context.Context) ([]housingdomain.HousingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return housingdomain.ToResponses(nil), nil
}

func (f *fakeHousingService) GetByID(ctx context.Context, id string) (*housingdomain.HousingResponse, error) {
	if _, err := housingdomain.ParseID(id); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &housingdomain.HousingResponse{ID: 1, Rooms: 2}, nil
}

func (f *fakeHousingService) Update(ctx context.Context, req housingdomain.UpdateRequest) (*housingdomain.HousingResponse, error) {
	f.updateCalls++
	if f.err != nil {
		return nil, f.err
	}
	price := float64(req.Rooms) * 1000
	return &housingdomain.HousingResponse{ID: 1, Rooms: req.Rooms, Price: &price}, nil
}

func (f *fakeHousingService) Delete(ctx context.Context, id string) error {
	return f.err
}

type envelopeBody struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Content json.RawMessage   `json:"content"`
	Errors  []ValidationError `json:"errors"`
}

func newTestEngine(svc housingdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(observability.Config{}, nil)
	NewServer(ServerParams{Gin: engine, HousingSvc: svc})
	return engine
}

func doRequest(t *testing.T, engine http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelopeBody) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelopeBody
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestIndex(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"title":"HOUSING API VERSION 1.0","message":"Welcome to the housing price API."}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateHousing(t *testing.T) {
	svc := &fakeHousingService{}
	engine := newTestEngine(svc)

	rec, env := doRequest(t, engine, http.MethodPost, "/housing", `{"rooms": 3}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, msgCreated, env.Message)
	assert.JSONEq(t, `{"id":1,"rooms":3,"price":3000}`, string(env.Content))
	require.NotNil(t, svc.createReq)
	assert.Equal(t, 3, svc.createReq.Rooms)
}

func TestCreateHousingValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantCode  string
	}{
		{name: "missing rooms", body: `{}`, wantField: "rooms", wantCode: "required"},
		{name: "zero rooms", body: `{"rooms": 0}`, wantField: "rooms", wantCode: "min"},
		{name: "too many rooms", body: `{"rooms": 1001}`, wantField: "rooms", wantCode: "max"},
		{name: "string rooms", body: `{"rooms": "three"}`, wantField: "rooms", wantCode: "invalid_type"},
		{name: "fractional rooms", body: `{"rooms": 2.5}`, wantField: "rooms", wantCode: "invalid_type"},
		{name: "malformed json", body: `{"rooms":`, wantField: "request", wantCode: "invalid_request"},
		{name: "empty body", body: ``, wantField: "request", wantCode: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeHousingService{}
			engine := newTestEngine(svc)

			rec, env := doRequest(t, engine, http.MethodPost, "/housing", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Status)
			assert.Equal(t, msgValidationError, env.Message)
			assert.Equal(t, "null", string(env.Content))
			require.Len(t, env.Errors, 1)
			assert.Equal(t, tt.wantField, env.Errors[0].Field)
			assert.Equal(t, tt.wantCode, env.Errors[0].Code)
			assert.Nil(t, svc.createReq)
		})
	}
}

func TestCreateHousingPredictionFailure(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{err: fmt.Errorf("rooms=3: %w", inference.ErrPrediction)})

	rec, env := doRequest(t, engine, http.MethodPost, "/housing", `{"rooms": 3}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Status)
	assert.Equal(t, msgInternalError, env.Message)
	assert.Equal(t, "null", string(env.Content))
}

func TestListHousingEmptyIsArray(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{})

	rec, env := doRequest(t, engine, http.MethodGet, "/housing", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, msgList, env.Message)
	assert.Equal(t, "[]", string(env.Content))
}

func TestGetHousingNotFound(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{err: housingdomain.ErrNotFound})

	rec, env := doRequest(t, engine, http.MethodGet, "/housing/999", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Status)
	assert.Equal(t, msgNotFound, env.Message)
	assert.Equal(t, "null", string(env.Content))
}

func TestGetHousingInvalidID(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{})

	rec, env := doRequest(t, engine, http.MethodGet, "/housing/abc", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "id", env.Errors[0].Field)
	assert.Equal(t, "invalid_id", env.Errors[0].Code)
}

func TestUpdateHousing(t *testing.T) {
	svc := &fakeHousingService{}
	engine := newTestEngine(svc)

	rec, env := doRequest(t, engine, http.MethodPut, "/housing/1", `{"rooms": 6}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgUpdated, env.Message)
	assert.JSONEq(t, `{"id":1,"rooms":6,"price":6000}`, string(env.Content))
}

func TestUpdateHousingInvalidIDSkipsService(t *testing.T) {
	svc := &fakeHousingService{}
	engine := newTestEngine(svc)

	rec, _ := doRequest(t, engine, http.MethodPut, "/housing/abc", `{"rooms": 6}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.updateCalls)
}

func TestDeleteHousing(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{})

	rec, env := doRequest(t, engine, http.MethodDelete, "/housing/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, msgDeleted, env.Message)
	assert.Equal(t, "null", string(env.Content))
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := newTestEngine(&fakeHousingService{})

	req := httptest.NewRequest(http.MethodGet, "/housing", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "not found", err: housingdomain.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: msgNotFound},
		{name: "invalid rooms", err: housingdomain.ErrInvalidRooms, wantStatus: http.StatusBadRequest, wantMsg: msgValidationError},
		{name: "rate limited", err: ratelimit.ErrTooManyRequests, wantStatus: http.StatusTooManyRequests, wantMsg: msgTooManyRequests},
		{name: "prediction", err: inference.ErrPrediction, wantStatus: http.StatusInternalServerError, wantMsg: msgInternalError},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantMsg: msgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Status)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Nil(t, env.Content)
		})
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	errType, code := classifyErrorForLog(housingdomain.ErrInvalidRooms)
	assert.Equal(t, "validation_error", errType)
	assert.Equal(t, "invalid_rooms", code)

	errType, code = classifyErrorForLog(fmt.Errorf("wrap: %w", inference.ErrPrediction))
	assert.Equal(t, "internal_error", errType)
	assert.Equal(t, "prediction_failed", code)

	errType, _ = classifyErrorForLog(housingdomain.ErrNotFound)
	assert.Equal(t, "not_found", errType)
}
