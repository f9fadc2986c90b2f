package router

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/biodraft/internal/db/memstorage"
	"github.com/patric-chuzhbe/biodraft/internal/generator"
	"github.com/patric-chuzhbe/biodraft/internal/ipchecker"
	"github.com/patric-chuzhbe/biodraft/internal/logger"
	"github.com/patric-chuzhbe/biodraft/internal/metrics"
	"github.com/patric-chuzhbe/biodraft/internal/service"
)

const testTrustedSubnet = "192.168.1.0/24"

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Openid    string    `json:"openid"`
	Nickname  string    `json:"nickname"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type biographyPayload struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTestServer(t *testing.T, trustedSubnet string) *httptest.Server {
	t.Helper()

	require.NoError(t, logger.Init("debug"))

	storage, err := memstorage.New()
	require.NoError(t, err)

	checker, err := ipchecker.New(trustedSubnet)
	require.NoError(t, err)

	mux := New(
		service.New(storage),
		generator.NewCanned(),
		checker,
		metrics.New(),
	)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func parseEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func createTestUser(t *testing.T, srv *httptest.Server) userPayload {
	t.Helper()

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(`{"openid": "wx-100", "nickname": "Ada"}`).
		Post(srv.URL + "/api/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	require.True(t, env.Success)

	var usr userPayload
	require.NoError(t, json.Unmarshal(env.Data, &usr))
	return usr
}

func createTestBiography(t *testing.T, srv *httptest.Server, userID, title string) biographyPayload {
	t.Helper()

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(fmt.Sprintf(`{"user_id": %q, "title": %q}`, userID, title)).
		Post(srv.URL + "/api/biographies")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	require.True(t, env.Success)

	var bio biographyPayload
	require.NoError(t, json.Unmarshal(env.Data, &bio))
	return bio
}

func TestPostApiusers(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedOK   bool
	}{
		{
			name:         "positive",
			body:         `{"openid": "wx-1", "nickname": "Ada", "avatar": "https://cdn.example.com/a.png"}`,
			expectedCode: http.StatusOK,
			expectedOK:   true,
		},
		{
			name:         "avatar is optional",
			body:         `{"openid": "wx-2", "nickname": "Ben"}`,
			expectedCode: http.StatusOK,
			expectedOK:   true,
		},
		{
			name:         "missing nickname",
			body:         `{"openid": "wx-3"}`,
			expectedCode: http.StatusBadRequest,
			expectedOK:   false,
		},
		{
			name:         "missing openid",
			body:         `{"nickname": "Cleo"}`,
			expectedCode: http.StatusBadRequest,
			expectedOK:   false,
		},
		{
			name:         "malformed JSON",
			body:         `{"openid": `,
			expectedCode: http.StatusBadRequest,
			expectedOK:   false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetBody(testCase.body).
				Post(srv.URL + "/api/users")
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedCode, resp.StatusCode())

			env := parseEnvelope(t, resp.Body())
			assert.Equal(t, testCase.expectedOK, env.Success)
			assert.False(t, env.Timestamp.IsZero())

			if testCase.expectedOK {
				var usr userPayload
				require.NoError(t, json.Unmarshal(env.Data, &usr))
				assert.NotEmpty(t, usr.ID)
				assert.Equal(t, usr.CreatedAt, usr.UpdatedAt)
			} else {
				assert.Equal(t, "null", string(env.Data))
			}
		})
	}
}

func TestGetApiuser(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	created := createTestUser(t, srv)

	resp, err := resty.New().R().Get(srv.URL + "/api/users/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	require.True(t, env.Success)

	var fetched userPayload
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, created, fetched)
}

func TestGetApiuserNotFound(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	resp, err := resty.New().R().Get(srv.URL + "/api/users/1b9c3a10-0000-4000-8000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	assert.False(t, env.Success)
	assert.Equal(t, "user not found", env.Message)
}

func TestGetApiuserIsIdempotent(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	created := createTestUser(t, srv)

	var payloads []string
	for i := 0; i < 3; i++ {
		resp, err := resty.New().R().Get(srv.URL + "/api/users/" + created.ID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())

		env := parseEnvelope(t, resp.Body())
		payloads = append(payloads, string(env.Data))
	}

	// Envelopes differ only in their timestamp; the data payload is stable.
	assert.Equal(t, payloads[0], payloads[1])
	assert.Equal(t, payloads[1], payloads[2])
}

func TestPostApibiographies(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	owner := createTestUser(t, srv)

	testCases := []struct {
		name         string
		body         string
		expectedCode int
	}{
		{
			name:         "positive",
			body:         fmt.Sprintf(`{"user_id": %q, "title": "Life"}`, owner.ID),
			expectedCode: http.StatusOK,
		},
		{
			name:         "unknown user",
			body:         `{"user_id": "ghost", "title": "Life"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing title",
			body:         fmt.Sprintf(`{"user_id": %q}`, owner.ID),
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetBody(testCase.body).
				Post(srv.URL + "/api/biographies")
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedCode, resp.StatusCode())

			env := parseEnvelope(t, resp.Body())
			if testCase.expectedCode == http.StatusOK {
				require.True(t, env.Success)

				var bio biographyPayload
				require.NoError(t, json.Unmarshal(env.Data, &bio))
				assert.Equal(t, "Draft", bio.Status)
				assert.Equal(t, "", bio.Content)
				assert.Equal(t, owner.ID, bio.UserID)
			} else {
				assert.False(t, env.Success)
			}
		})
	}
}

func TestGetApibiographiesList(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	first := createTestUser(t, srv)
	second := createTestUser(t, srv)

	wantIDs := map[string]bool{}
	for i := 0; i < 3; i++ {
		bio := createTestBiography(t, srv, first.ID, fmt.Sprintf("Volume %d", i+1))
		wantIDs[bio.ID] = true
		createTestBiography(t, srv, second.ID, "Noise")
	}

	resp, err := resty.New().R().Get(srv.URL + "/api/biographies?user_id=" + first.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	require.True(t, env.Success)

	var bios []biographyPayload
	require.NoError(t, json.Unmarshal(env.Data, &bios))
	require.Len(t, bios, 3)
	for _, bio := range bios {
		assert.True(t, wantIDs[bio.ID])
	}
}

func TestGetApibiographiesMissingUserIDParam(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	resp, err := resty.New().R().Get(srv.URL + "/api/biographies")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	assert.False(t, env.Success)
}

func TestGetApibiographiesEmptyList(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	loner := createTestUser(t, srv)

	resp, err := resty.New().R().Get(srv.URL + "/api/biographies?user_id=" + loner.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	require.True(t, env.Success)
	assert.Equal(t, "[]", strings.TrimSpace(string(env.Data)))
}

func TestGetApibiographyNotFound(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	resp, err := resty.New().R().Get(srv.URL + "/api/biographies/2c7fd0aa-0000-4000-8000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	assert.False(t, env.Success)
	assert.Equal(t, "biography not found", env.Message)
}

func TestPostApibiographyUpdate(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	owner := createTestUser(t, srv)
	created := createTestBiography(t, srv, owner.ID, "Life")

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(`{"content": "chapter one"}`).
		Post(srv.URL + "/api/biographies/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env := parseEnvelope(t, resp.Body())
	require.True(t, env.Success)

	var updated biographyPayload
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "chapter one", updated.Content)
	assert.Equal(t, "Life", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// The stored copy reflects the update.
	resp, err = resty.New().R().Get(srv.URL + "/api/biographies/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	env = parseEnvelope(t, resp.Body())
	var fetched biographyPayload
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, "chapter one", fetched.Content)
}

func TestPostApibiographyUpdateNotFound(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(`{"title": "x"}`).
		Post(srv.URL + "/api/biographies/3d8ec1bb-0000-4000-8000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestPostApiaiEndpoints(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	testCases := []struct {
		name string
		path string
	}{
		{name: "outline", path: "/api/ai/generate-outline"},
		{name: "content", path: "/api/ai/generate-content"},
		{name: "interview questions", path: "/api/ai/interview-questions"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetBody(`{"subject": "grandmother", "era": "1950s"}`).
				Post(srv.URL + testCase.path)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode())

			env := parseEnvelope(t, resp.Body())
			require.True(t, env.Success)

			var text string
			require.NoError(t, json.Unmarshal(env.Data, &text))
			assert.NotEmpty(t, text)
		})
	}
}

func TestGetRootBanner(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	resp, err := resty.New().R().Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, string(resp.Body()), "Biography writing assistant")
}

func TestGetPing(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)

	resp, err := resty.New().R().Get(srv.URL + "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestGetApiinternalstats(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	owner := createTestUser(t, srv)
	createTestBiography(t, srv, owner.ID, "Life")

	testCases := []struct {
		name         string
		realIP       string
		expectedCode int
	}{
		{name: "inside subnet", realIP: "192.168.1.10", expectedCode: http.StatusOK},
		{name: "outside subnet", realIP: "10.0.0.1", expectedCode: http.StatusForbidden},
		{name: "no client IP header", realIP: "", expectedCode: http.StatusForbidden},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			req := resty.New().R()
			if testCase.realIP != "" {
				req.SetHeader("X-Real-IP", testCase.realIP)
			}

			resp, err := req.Get(srv.URL + "/api/internal/stats")
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedCode, resp.StatusCode())

			if testCase.expectedCode == http.StatusOK {
				env := parseEnvelope(t, resp.Body())
				require.True(t, env.Success)

				var stats struct {
					Users       int64 `json:"users"`
					Biographies int64 `json:"biographies"`
					Authors     int64 `json:"authors"`
				}
				require.NoError(t, json.Unmarshal(env.Data, &stats))
				assert.Equal(t, int64(1), stats.Users)
				assert.Equal(t, int64(1), stats.Biographies)
				assert.Equal(t, int64(1), stats.Authors)
			}
		})
	}
}

func TestGetApiinternalstatsDisabledWithoutSubnet(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := resty.New().R().
		SetHeader("X-Real-IP", "192.168.1.10").
		Get(srv.URL + "/api/internal/stats")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
}

func TestGzippedResponse(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	created := createTestUser(t, srv)

	request, err := http.NewRequest(http.MethodGet, srv.URL+"/api/users/"+created.ID, nil)
	require.NoError(t, err)
	request.Header.Set("Accept-Encoding", "gzip")

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, "gzip", response.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(response.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)

	env := parseEnvelope(t, body)
	assert.True(t, env.Success)
}

func TestGetMetrics(t *testing.T) {
	srv := newTestServer(t, testTrustedSubnet)
	createTestUser(t, srv)

	resp, err := resty.New().R().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "biodraft_http_requests_total")
}
