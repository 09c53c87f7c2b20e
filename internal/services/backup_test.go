package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"imob-followup/config"
	"imob-followup/internal/models"
)

type fakeS3 struct {
	mutex   sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3(t *testing.T) (*httptest.Server, *fakeS3) {
	t.Helper()
	f := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.mutex.Lock()
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		f.mutex.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, f
}

func TestS3BackupArchive(t *testing.T) {
	srv, fake := newFakeS3(t)
	b, err := NewS3Backup(config.BackupConfig{
		Bucket: "imob", Region: "us-east-1", Endpoint: srv.URL,
		AccessKey: "key", SecretKey: "secret", Prefix: "contacts",
	})
	require.NoError(t, err)
	b.now = func() time.Time { return time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC) }

	require.NoError(t, b.Archive(context.Background(), []models.Contact{seededContact()}))

	path := "/imob/contacts/20240615T140000.000Z.json"
	require.Contains(t, fake.objects, path)
	require.Equal(t, "application/json", fake.types[path])

	var stored []models.Contact
	require.NoError(t, json.Unmarshal(fake.objects[path], &stored))
	require.Len(t, stored, 1)
	require.Equal(t, "c1", stored[0].ID)
}

func TestS3BackupRequiresBucket(t *testing.T) {
	_, err := NewS3Backup(config.BackupConfig{Region: "us-east-1"})
	require.Error(t, err)
}

func TestS3BackupUploadError(t *testing.T) {
	srv, _ := newFakeS3(t)
	srv.Close()

	b, err := NewS3Backup(config.BackupConfig{
		Bucket: "imob", Region: "us-east-1", Endpoint: srv.URL, AccessKey: "key", SecretKey: "secret",
	})
	require.NoError(t, err)
	require.Error(t, b.Archive(context.Background(), nil))
}
