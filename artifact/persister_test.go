package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(_ context.Context, name string, data []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[name] = data
	return nil
}

func (s *fakeStore) URL(name string) string {
	return "https://charts.example.org/" + name
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func TestPersister_Persist(t *testing.T) {
	chartServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer chartServer.Close()

	store := newFakeStore()
	persister := NewPersister(store, WithClock(fixedClock(1700000000)))

	stableURL, err := persister.Persist(context.Background(), chartServer.URL+"/chart?c=%7B%7D")
	require.NoError(t, err)

	assert.Equal(t, "https://charts.example.org/chart_1700000000", stableURL)
	assert.Equal(t, []byte("png-bytes"), store.objects["chart_1700000000"])
}

func TestPersister_FetchFailure(t *testing.T) {
	chartServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer chartServer.Close()

	store := newFakeStore()
	persister := NewPersister(store)

	_, err := persister.Persist(context.Background(), chartServer.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch chart")
	assert.Empty(t, store.objects)
}

func TestPersister_UploadFailure(t *testing.T) {
	chartServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer chartServer.Close()

	store := newFakeStore()
	store.putErr = fmt.Errorf("bucket gone")
	persister := NewPersister(store)

	_, err := persister.Persist(context.Background(), chartServer.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload chart")
}

func TestS3Store_URL(t *testing.T) {
	store := NewS3Store("my-charts", "")
	assert.Equal(t, "https://my-charts.s3.amazonaws.com/chart_42", store.URL("chart_42"))

	store.Endpoint = "http://127.0.0.1:9000"
	assert.Equal(t, "http://127.0.0.1:9000/my-charts/chart_42", store.URL("chart_42"))
}

func TestS3Store_Put(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	store := NewS3Store("my-charts", "")
	store.Endpoint = server.URL

	err := store.Put(context.Background(), "chart_42", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/my-charts/chart_42", gotPath)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, []byte("png-bytes"), gotBody)
}

func TestS3Store_PutRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "AccessDenied")
	}))
	defer server.Close()

	store := NewS3Store("my-charts", "")
	store.Endpoint = server.URL

	err := store.Put(context.Background(), "chart_42", []byte("png-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
