package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tableside/internal/feedback"
	"tableside/internal/httpclient"
	"tableside/internal/localstore"
	"tableside/internal/mocks"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newClient(doer *mocks.HTTPDoer, storage localstore.Store, reporter feedback.Reporter) *httpclient.Client {
	return httpclient.NewClient("http://api.test", storage, reporter,
		httpclient.WithHTTPDoer(doer),
		httpclient.WithRetries(3, time.Millisecond),
		httpclient.WithTimeout(time.Second),
	)
}

func TestRequest_Success(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(newResponse(200, `{"code":200,"data":{"id":7,"name":"Demo"}}`), nil).Once()

	client := newClient(doer, localstore.NewMemoryStore(), nil)

	data, err := client.Request(context.Background(), httpclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/stores/7",
	})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Demo"}`, string(data))
}

func TestRequest_EnvelopeCodeZeroIsSuccess(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(newResponse(200, `{"code":0,"data":[1,2]}`), nil).Once()

	client := newClient(doer, localstore.NewMemoryStore(), nil)

	data, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/x"})

	assert.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(data))
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	storage := localstore.NewMemoryStore()
	storage.Set(localstore.KeyAuthToken, "tok-123")

	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Authorization") == "Bearer tok-123" &&
			req.Header.Get("Content-Type") == "application/json"
	})).Return(newResponse(200, `{"code":200,"data":null}`), nil).Once()

	client := newClient(doer, storage, nil)

	_, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/x"})
	assert.NoError(t, err)
}

func TestRequest_BusinessErrorNotRetried(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(newResponse(200, `{"code":5001,"message":"table is locked"}`), nil).Once()

	reporter := mocks.NewReporter(t)
	reporter.On("Report", "table is locked", false).Once()

	client := newClient(doer, localstore.NewMemoryStore(), reporter)

	_, err := client.Request(context.Background(), httpclient.Descriptor{Method: "POST", Path: "/x"})

	var be *httpclient.BusinessError
	assert.ErrorAs(t, err, &be)
	assert.Equal(t, 5001, be.Code)
}

func TestRequest_RetryBudgetExhausted(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	// 1 initial attempt + 3 retries, never more.
	doer.On("Do", mock.Anything).Return(nil, context.DeadlineExceeded).Times(4)

	reporter := mocks.NewReporter(t)
	reporter.On("Report", mock.AnythingOfType("string"), true).Once()

	client := newClient(doer, localstore.NewMemoryStore(), reporter)

	_, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/slow"})

	assert.ErrorIs(t, err, httpclient.ErrTimeout)
}

func TestRequest_MalformedEnvelopeNotRetried(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	// A success status with a truncated body: resending cannot help, so
	// exactly one attempt is allowed.
	doer.On("Do", mock.Anything).Return(newResponse(200, `{"code":200,"data":`), nil).Once()

	client := newClient(doer, localstore.NewMemoryStore(), nil)

	_, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/x"})

	assert.ErrorIs(t, err, httpclient.ErrProtocol)
}

func TestRequest_RetryableStatusThenSuccess(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(newResponse(http.StatusServiceUnavailable, ""), nil).Once()
	doer.On("Do", mock.Anything).Return(newResponse(200, `{"code":200,"data":"ok"}`), nil).Once()

	client := newClient(doer, localstore.NewMemoryStore(), nil)

	data, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/x"})

	assert.NoError(t, err)
	assert.JSONEq(t, `"ok"`, string(data))
}

func TestRequest_NonRetryableStatusFailsImmediately(t *testing.T) {
	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(newResponse(http.StatusForbidden, ""), nil).Once()

	reporter := mocks.NewReporter(t)
	reporter.On("Report", "You do not have permission to do that", false).Once()

	client := newClient(doer, localstore.NewMemoryStore(), reporter)

	_, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/x"})

	var he *httpclient.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestRequest_UnauthorizedInvalidatesCredential(t *testing.T) {
	storage := localstore.NewMemoryStore()
	storage.Set(localstore.KeyAuthToken, "stale")

	doer := mocks.NewHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(newResponse(http.StatusUnauthorized, ""), nil).Once()

	reporter := mocks.NewReporter(t)
	reporter.On("Report", mock.AnythingOfType("string"), false).Once()

	client := newClient(doer, storage, reporter)

	_, err := client.Request(context.Background(), httpclient.Descriptor{Method: "GET", Path: "/x"})
	assert.Error(t, err)

	_, err = storage.Get(localstore.KeyAuthToken)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", httpclient.ErrTimeout, true},
		{"deadline", context.DeadlineExceeded, true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"retryable status", &httpclient.HTTPError{Status: 502}, true},
		{"non-retryable status", &httpclient.HTTPError{Status: 404}, false},
		{"business error", &httpclient.BusinessError{Code: 5001}, false},
		{"protocol error", fmt.Errorf("bad envelope: %w", httpclient.ErrProtocol), false},
		{"nil", nil, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, httpclient.Retryable(testCase.err))
		})
	}
}
