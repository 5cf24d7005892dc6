package s3store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noSuchKey = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeBucket serves the path-style subset of the S3 API the store uses.
type fakeBucket struct {
	name string

	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket(name string) *fakeBucket {
	return &fakeBucket{name: name, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, "/")
	if p == f.name && r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	if !strings.HasPrefix(p, f.name+"/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	key := strings.TrimPrefix(p, f.name+"/")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"fake"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, noSuchKey)
			return
		}
		w.Header().Set("Content-Type", f.types[key])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T) (*BlobStore, *fakeBucket) {
	t.Helper()
	bucket := newFakeBucket("pictures")
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	s, err := Connect(context.Background(), Options{
		Bucket:    "pictures",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
		Prefix:    "profile-pictures",
	})
	require.NoError(t, err)
	return s, bucket
}

func TestBlobStore_RoundTrip(t *testing.T) {
	s, bucket := newTestStore(t)
	ctx := context.Background()

	picture := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	require.NoError(t, s.Put(ctx, 3, picture))

	bucket.mu.Lock()
	stored := bucket.objects["profile-pictures/3"]
	storedType := bucket.types["profile-pictures/3"]
	bucket.mu.Unlock()
	assert.Equal(t, picture, stored)
	assert.Equal(t, "image/jpeg", storedType)

	got, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, picture, got)
}

func TestBlobStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), 404)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBlobStore_Ping(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestBlobStore_Key(t *testing.T) {
	assert.Equal(t, "profile-pictures/12", New(nil, "b", "profile-pictures").key(12))
	assert.Equal(t, "12", New(nil, "b", "").key(12))
}
