package server_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunt-ops/hunt-manager/pkg/blob"
	"github.com/hunt-ops/hunt-manager/pkg/store"
	"github.com/hunt-ops/hunt-manager/pkg/store/sqlite"
	"github.com/hunt-ops/hunt-manager/server"
)

func newTestServer(t *testing.T) (*httptest.Server, *blob.Memory) {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "hunt-manager.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	blobs := blob.NewMemory()
	srv := server.NewServer(server.Options{}, s, blobs)
	ts := httptest.NewServer(srv.Mux(t.Context()))
	t.Cleanup(ts.Close)
	return ts, blobs
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func uploadPhoto(t *testing.T, method, url string, content []byte, filename string, out any) int {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, raw
}

// Test_I_EvidenceScenario walks the happy path end to end: a hunt begun
// with two teams, a first upload, a swap, and checks at most one record
// per pair ever exists while the blob always resolves to the latest bytes.
func Test_I_EvidenceScenario(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	ts, blobs := newTestServer(t)

	// Begin the hunt.
	var hunt store.StartedHunt
	code := doJSON(t, http.MethodPost, ts.URL+"/api/startedHunts", map[string]any{
		"template": map[string]any{
			"title": "Campus hunt",
			"tasks": []map[string]string{
				{"description": "Take a picture of a fountain"},
			},
		},
		"numTeams": 2,
	}, &hunt)
	require.Equal(http.StatusCreated, code)
	taskID := hunt.Template.Tasks[0].ID

	var teams []store.Team
	code = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/teams/startedHunt/%s", ts.URL, hunt.ID), nil, &teams)
	require.Equal(http.StatusOK, code)
	require.Len(teams, 2)
	t1 := teams[0]

	// First upload for (T1, K1) with bytes A.
	var sub store.Submission
	code = uploadPhoto(t, http.MethodPost,
		fmt.Sprintf("%s/api/submissions/team/%s/task/%s", ts.URL, t1.ID, taskID),
		[]byte("A"), "a.png", &sub)
	require.Equal(http.StatusCreated, code)

	var listed []store.Submission
	code = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/submissions/team/%s", ts.URL, t1.ID), nil, &listed)
	require.Equal(http.StatusOK, code)
	require.Len(listed, 1)

	status, raw := get(t, fmt.Sprintf("%s/api/submissions/%s/photo", ts.URL, sub.ID))
	require.Equal(http.StatusOK, status)
	assert.Equal([]byte("A"), raw)

	// Re-upload for the same pair with bytes B: still one record, now
	// resolving to B.
	var swapped store.Submission
	code = uploadPhoto(t, http.MethodPost,
		fmt.Sprintf("%s/api/submissions/team/%s/task/%s", ts.URL, t1.ID, taskID),
		[]byte("B"), "b.png", &swapped)
	require.Equal(http.StatusCreated, code)
	assert.Equal(sub.ID, swapped.ID)

	code = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/submissions/team/%s", ts.URL, t1.ID), nil, &listed)
	require.Equal(http.StatusOK, code)
	require.Len(listed, 1)

	status, raw = get(t, fmt.Sprintf("%s/api/submissions/%s/photo", ts.URL, swapped.ID))
	require.Equal(http.StatusOK, status)
	assert.Equal([]byte("B"), raw)

	// The raw photo route serves the same bytes.
	status, raw = get(t, fmt.Sprintf("%s/photos/%s", ts.URL, swapped.PhotoRef))
	require.Equal(http.StatusOK, status)
	assert.Equal([]byte("B"), raw)

	// Only one blob remains: the previous one was reclaimed on swap.
	assert.Equal(1, blobs.Len())
}

func Test_I_EndHuntOverHTTP(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	ts, blobs := newTestServer(t)

	var hunt store.StartedHunt
	code := doJSON(t, http.MethodPost, ts.URL+"/api/startedHunts", map[string]any{
		"template": map[string]any{
			"title": "Campus hunt",
			"tasks": []map[string]string{
				{"description": "Take a picture of a fountain"},
			},
		},
		"numTeams": 1,
	}, &hunt)
	require.Equal(http.StatusCreated, code)

	var teams []store.Team
	code = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/teams/startedHunt/%s", ts.URL, hunt.ID), nil, &teams)
	require.Equal(http.StatusOK, code)
	require.Len(teams, 1)

	var sub store.Submission
	code = uploadPhoto(t, http.MethodPost,
		fmt.Sprintf("%s/api/submissions/team/%s/task/%s", ts.URL, teams[0].ID, hunt.Template.Tasks[0].ID),
		[]byte("pic"), "pic.jpg", &sub)
	require.Equal(http.StatusCreated, code)

	// End the hunt: teams, submissions and blobs all go.
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/startedHunts/%s", ts.URL, hunt.ID), nil)
	require.NoError(err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(err)
	require.NoError(res.Body.Close())
	require.Equal(http.StatusNoContent, res.StatusCode)

	status, _ := get(t, fmt.Sprintf("%s/api/startedHunts/%s", ts.URL, hunt.ID))
	assert.Equal(http.StatusNotFound, status)
	status, _ = get(t, fmt.Sprintf("%s/api/teams/%s", ts.URL, teams[0].ID))
	assert.Equal(http.StatusNotFound, status)
	status, _ = get(t, fmt.Sprintf("%s/api/submissions/%s", ts.URL, sub.ID))
	assert.Equal(http.StatusNotFound, status)
	assert.Zero(blobs.Len())

	var empty []store.Submission
	code = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/submissions/startedHunt/%s", ts.URL, hunt.ID), nil, &empty)
	require.Equal(http.StatusOK, code)
	assert.Empty(empty)
}

func Test_I_ErrorSurface(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	ts, _ := newTestServer(t)

	// Malformed id -> 400.
	status, _ := get(t, ts.URL+"/api/submissions/not-an-id")
	assert.Equal(http.StatusBadRequest, status)

	// Well-formed but absent -> 404.
	status, _ = get(t, ts.URL+"/api/submissions/0123456789abcdef0123456789abcdef")
	assert.Equal(http.StatusNotFound, status)

	// Unknown sub-resource -> 404 with the usual JSON error shape.
	status, raw := get(t, ts.URL+"/api/submissions/0123456789abcdef0123456789abcdef/thumbnail")
	assert.Equal(http.StatusNotFound, status)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.NotEmpty(errBody["error"])

	// Out-of-range numTeams -> 400 before anything is created.
	var body map[string]string
	code := doJSON(t, http.MethodPost, ts.URL+"/api/startedHunts", map[string]any{
		"template": map[string]any{
			"title": "Campus hunt",
			"tasks": []map[string]string{{"description": "x"}},
		},
		"numTeams": 11,
	}, &body)
	assert.Equal(http.StatusBadRequest, code)
	assert.NotEmpty(body["error"])

	status, _ = get(t, ts.URL+"/healthcheck")
	assert.Equal(http.StatusOK, status)
}
