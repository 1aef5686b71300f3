package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/internal/client/domain/entities"
)

func TestRequestReplay(t *testing.T) {
	orig := NewRequest(http.MethodGet, "/issues/").WithQuery("role", "lecturer").WithQuery("empty", "")
	orig.Header.Set("X-Custom", "1")

	replayed := orig.replay("new-token")

	assert.True(t, replayed.Retried())
	assert.False(t, orig.Retried(), "original request is not modified")
	assert.Equal(t, "Bearer new-token", replayed.Header.Get(headerAuthorization))
	assert.Empty(t, orig.Header.Get(headerAuthorization))
	assert.Equal(t, "1", replayed.Header.Get("X-Custom"))
	assert.False(t, orig.Query.Has("empty"))

	replayed.Query.Add("role", "student")
	assert.Equal(t, []string{"lecturer"}, orig.Query["role"])
}

func TestExtractDetail(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want string
	}{
		{name: "detail", body: `{"detail":"Not found."}`, want: "Not found."},
		{name: "error", body: `{"error":"Invalid role"}`, want: "Invalid role"},
		{name: "field errors sorted", body: `{"username":["taken"],"email":["bad"]}`, want: "email: bad; username: taken"},
		{name: "string field", body: `{"college":"College is required."}`, want: "college: College is required."},
		{name: "plain text", body: "Bad Gateway", want: "Bad Gateway"},
		{name: "empty", body: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractDetail([]byte(tc.body)))
		})
	}

	t.Run("long body is truncated", func(t *testing.T) {
		got := extractDetail([]byte(strings.Repeat("x", 500)))
		assert.Len(t, got, maxDetailLen+len("..."))
	})
}

func TestRedaction(t *testing.T) {
	rl := &resty.RequestLog{
		Header: http.Header{headerAuthorization: []string{"Bearer secret-access"}},
		Body:   `{"username":"student1","password":"password123","refresh": "secret-refresh"}`,
	}
	require.NoError(t, redactRequestLog(rl))

	assert.Equal(t, "Bearer "+redacted, rl.Header.Get(headerAuthorization))
	assert.NotContains(t, rl.Body, "password123")
	assert.NotContains(t, rl.Body, "secret-refresh")
	assert.Contains(t, rl.Body, `"username":"student1"`)

	resp := &resty.ResponseLog{Body: `{"access":"a.b.c","refresh":"d.e.f"}`}
	require.NoError(t, redactResponseLog(resp))
	assert.Equal(t, `{"access":"[REDACTED]","refresh":"[REDACTED]"}`, resp.Body)
}

var errClearFailed = errors.New("clear failed")

type brokenStore struct{}

func (brokenStore) Get(context.Context) (*entities.CredentialPair, error) { return nil, nil }

func (brokenStore) Set(context.Context, *entities.CredentialPair) error { return nil }

func (brokenStore) Clear(context.Context) error { return errClearFailed }

func TestTerminateNotifiesOnClearFailure(t *testing.T) {
	terminator := NewSessionTerminator(brokenStore{}, nil)

	var got []EndReason
	terminator.OnSessionEnded(func(_ context.Context, reason EndReason) { got = append(got, reason) })

	err := terminator.Terminate(context.Background(), ReasonRefreshFailed)
	require.ErrorIs(t, err, errClearFailed)
	assert.Equal(t, []EndReason{ReasonRefreshFailed}, got)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeRequest(http.MethodGet, http.StatusOK)
		m.observeRefresh(RefreshSucceeded)
		m.observeReplay()
		m.observeSessionEnd(ReasonLogout)
	})
}
