package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/pkg/errors"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

type testLogger struct {
	count int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) log(format string, args ...interface{}) {
	_ = fmt.Sprintf(format, args...)
	atomic.AddInt32(&l.count, 1)
}

// ---------------------------------------------------------------------------
// Constructor Tests
// ---------------------------------------------------------------------------

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.BaseURL())
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "sakurascope-go-sdk/")
}

func TestNewClient_BaseURLTrailingSlash(t *testing.T) {
	c, err := NewClient("https://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.BaseURL())
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://invalid", "invalid-url"} {
		_, err := NewClient(raw)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest), "base url %q", raw)
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	custom := &http.Client{Timeout: 10 * time.Second}
	logger := &testLogger{}
	c, err := NewClient("http://api.example.com",
		WithHTTPClient(custom),
		WithTimeout(2*time.Second),
		WithLogger(logger),
		WithRetryMax(5),
		WithRetryWait(10*time.Millisecond, 20*time.Millisecond),
		WithUserAgent("screener/1.0"),
	)
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.Equal(t, logger, c.logger)
	assert.Equal(t, 5, c.retryMax)
	assert.Equal(t, 10*time.Millisecond, c.retryWaitMin)
	assert.Equal(t, 20*time.Millisecond, c.retryWaitMax)
	assert.Equal(t, "screener/1.0", c.userAgent)
}

func TestNewClient_IgnoresInvalidOptions(t *testing.T) {
	c, err := NewClient("http://api.example.com",
		WithHTTPClient(nil),
		WithTimeout(0),
		WithLogger(nil),
		WithRetryMax(-1),
		WithRetryWait(0, time.Second),
		WithUserAgent(""),
	)
	require.NoError(t, err)
	assert.NotNil(t, c.httpClient)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
	assert.Equal(t, 3, c.retryMax)
	assert.Equal(t, 500*time.Millisecond, c.retryWaitMin)
	assert.Contains(t, c.userAgent, "sakurascope-go-sdk/")
}

// ---------------------------------------------------------------------------
// HTTP Execution Tests
// ---------------------------------------------------------------------------

func TestClient_Do_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "alive", "version": "1.2.3"}`))
	})
	var resp Liveness
	require.NoError(t, c.get(context.Background(), "healthz", &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestClient_Do_RequestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "sakurascope-go-sdk/")
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, c.post(context.Background(), "/test", map[string]string{"k": "v"}, nil))
}

func TestClient_Do_GetHasNoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, int64(0), r.ContentLength)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, c.get(context.Background(), "/test", nil))
}

func TestClient_Do_RequestIDUnique(t *testing.T) {
	ids := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.get(context.Background(), "/test", nil))
	require.NoError(t, c.get(context.Background(), "/test", nil))
	close(ids)

	assert.NotEqual(t, <-ids, <-ids)
}

func TestClient_Do_4xxError(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code": "SAK_002", "message": "invalid review", "detail": "rating out of range"}`))
	})
	err := c.get(context.Background(), "/test", nil)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, errors.ErrCodeReviewInvalid, apiErr.ErrorCode())
	assert.Equal(t, "invalid review", apiErr.Message)
	assert.Equal(t, "rating out of range", apiErr.Detail)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.True(t, apiErr.IsInvalidInput())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_PlainTextError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	})
	err := c.get(context.Background(), "/missing", nil)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "404 page not found", apiErr.Message)
}

func TestClient_Do_5xxRetry(t *testing.T) {
	var calls int32
	logger := &testLogger{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, WithRetryWait(time.Millisecond, 2*time.Millisecond), WithLogger(logger))

	require.NoError(t, c.get(context.Background(), "/test", nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Positive(t, atomic.LoadInt32(&logger.count))
}

func TestClient_Do_5xxRetryExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryMax(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	err := c.get(context.Background(), "/test", nil)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_429RetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	start := time.Now()
	require.NoError(t, c.get(context.Background(), "/test", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestClient_Do_429WithoutRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	err := c.get(context.Background(), "/test", nil)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsRateLimited())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, err := NewClient(server.URL, WithRetryMax(1), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)
	err = c.get(context.Background(), "/test", nil)
	require.Error(t, err)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.ErrorIs(t, c.get(ctx, "/test", nil), context.Canceled)
}

func TestClient_Do_ContextTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, c.get(ctx, "/test", nil), context.DeadlineExceeded)
}

func TestClient_Do_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	var resp Liveness
	err := c.get(context.Background(), "/test", &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestClient_Post_EchoesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})
	type payload struct {
		Keyword string `json:"keyword"`
	}
	var res payload
	require.NoError(t, c.post(context.Background(), "/echo", payload{Keyword: "earbuds"}, &res))
	assert.Equal(t, "earbuds", res.Keyword)
}

// ---------------------------------------------------------------------------
// APIError Tests
// ---------------------------------------------------------------------------

func TestAPIError_Methods(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
	assert.True(t, (&APIError{StatusCode: 400}).IsInvalidInput())
	assert.True(t, (&APIError{StatusCode: 429}).IsRateLimited())
	assert.True(t, (&APIError{StatusCode: 500}).IsServerError())
	assert.True(t, (&APIError{StatusCode: 503}).IsServerError())
	assert.False(t, (&APIError{StatusCode: 400}).IsServerError())

	msg := (&APIError{Code: "SAK_001", StatusCode: 422, Message: "invalid product", RequestID: "req-1"}).Error()
	assert.Equal(t, "sakurascope: SAK_001 (HTTP 422): invalid product [request_id=req-1]", msg)

	withDetail := (&APIError{Code: "COMMON_002", StatusCode: 400, Message: "bad request", Detail: "max", RequestID: "r"}).Error()
	assert.Contains(t, withDetail, "(max)")
}

func TestAsAPIError_Wrapped(t *testing.T) {
	inner := &APIError{StatusCode: 502}
	got, ok := AsAPIError(fmt.Errorf("screening: %w", inner))
	require.True(t, ok)
	assert.Same(t, inner, got)

	_, ok = AsAPIError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestCalculateBackoff_Bounded(t *testing.T) {
	c, err := NewClient("http://api.example.com", WithRetryWait(100*time.Millisecond, 300*time.Millisecond))
	require.NoError(t, err)

	first := c.calculateBackoff(1)
	assert.GreaterOrEqual(t, first, 100*time.Millisecond)
	assert.Less(t, first, 125*time.Millisecond)

	capped := c.calculateBackoff(10)
	assert.GreaterOrEqual(t, capped, 300*time.Millisecond)
	assert.Less(t, capped, 375*time.Millisecond)
}

func TestProduct_OptionalFieldsOmitted(t *testing.T) {
	raw, err := json.Marshal(Product{ASIN: "B0TEST0001"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"asin": "B0TEST0001"}`, string(raw))

	raw, err = json.Marshal(Product{ASIN: "B0TEST0001", Rating: Float(4.5), ReviewsCount: Int(12)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"asin": "B0TEST0001", "rating": 4.5, "reviews_count": 12}`, string(raw))
}

//Personal.AI order the ending
