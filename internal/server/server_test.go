package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/server/mocks"
	"github.com/thoreinstein/lighthub/internal/settings"
	"github.com/thoreinstein/lighthub/internal/store"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return New(cfg, st, logging.ForTest(t)), st
}

func do(t *testing.T, h http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestBackupDownloadAndRestore(t *testing.T) {
	srv, st := newTestServer(t, DefaultConfig())
	_, err := st.SetAlias("kitchen", alias.Identity{DeviceID: 0x10, GroupID: 1, DeviceType: alias.DeviceRGBCCT})
	require.NoError(t, err)
	require.NoError(t, st.UpdateSettings(func(s *settings.Settings) error {
		s.Brightness = 55
		return nil
	}))

	rec := do(t, srv.Handler(), http.MethodGet, "/backup", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	backup := rec.Body.Bytes()
	assert.Equal(t, container.Magic, binary.NativeEndian.Uint32(backup[:4]))

	other, target := newTestServer(t, DefaultConfig())
	rec = do(t, other.Handler(), http.MethodPost, "/backup", bytes.NewReader(backup), "application/octet-stream")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	assert.Equal(t, 55, target.Settings().Brightness)
	assert.True(t, st.Aliases().Equal(target.Aliases()))
}

func TestRestore_Multipart(t *testing.T) {
	src, _ := newTestServer(t, DefaultConfig())
	backup := do(t, src.Handler(), http.MethodGet, "/backup", nil, "").Body.Bytes()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("comment", "ignored"))
	fw, err := mw.CreateFormFile("file", "backup.bin")
	require.NoError(t, err)
	_, err = fw.Write(backup)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	srv, _ := newTestServer(t, DefaultConfig())
	rec := do(t, srv.Handler(), http.MethodPost, "/backup", &body, mw.FormDataContentType())
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRestore_MultipartWithoutFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("comment", "no file"))
	require.NoError(t, mw.Close())

	srv, _ := newTestServer(t, DefaultConfig())
	rec := do(t, srv.Handler(), http.MethodPost, "/backup", &body, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "no backup file")
}

func TestRestore_InvalidFile(t *testing.T) {
	srv, st := newTestServer(t, DefaultConfig())
	_, err := st.SetAlias("keep", alias.Identity{DeviceID: 1, DeviceType: alias.DeviceRGB})
	require.NoError(t, err)

	tests := map[string][]byte{
		"empty":         {},
		"short":         {0x01, 0xC3},
		"wrong family":  binary.NativeEndian.AppendUint32(nil, 0x11223301),
		"wrong version": binary.NativeEndian.AppendUint32(nil, 0x92A7C302),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPost, "/backup", bytes.NewReader(body), "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
			assert.Equal(t, []string{"keep"}, st.Aliases().Names())
		})
	}
}

func TestRestore_TooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 16
	srv, _ := newTestServer(t, cfg)

	body := append(binary.NativeEndian.AppendUint32(nil, container.Magic), 0x00)
	body = append(body, strings.Repeat("x", 64)...)
	rec := do(t, srv.Handler(), http.MethodPost, "/backup", bytes.NewReader(body), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBackup_StorageFailures(t *testing.T) {
	m := mocks.NewMockStore(t)
	m.EXPECT().WriteBackup(mock.Anything).Return(0, errors.New("disk gone"))
	m.EXPECT().RestoreBackup(mock.Anything, mock.Anything).
		Return(container.OutcomeInvalidFile, errors.Mark(errors.New("no space"), store.ErrArtifact))
	srv := New(DefaultConfig(), m, logging.ForTest(t))

	rec := do(t, srv.Handler(), http.MethodGet, "/backup", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, decodeError(t, rec))

	rec = do(t, srv.Handler(), http.MethodPost, "/backup", strings.NewReader("x"), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBackup_FailureAfterStreaming(t *testing.T) {
	m := mocks.NewMockStore(t)
	m.EXPECT().WriteBackup(mock.Anything).RunAndReturn(func(w io.Writer) (int64, error) {
		n, _ := w.Write([]byte{0x01, 0xC3, 0xA7, 0x92})
		return int64(n), errors.New("disk gone")
	})
	srv := New(DefaultConfig(), m, logging.ForTest(t))

	// Headers are already sent; the client sees a truncated body.
	rec := do(t, srv.Handler(), http.MethodGet, "/backup", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 4, rec.Body.Len())
}

func TestRestore_PartialRestore(t *testing.T) {
	m := mocks.NewMockStore(t)
	m.EXPECT().RestoreBackup(mock.Anything, mock.Anything).
		Return(container.OutcomeInvalidFile, container.ErrSettingsOpen)
	srv := New(DefaultConfig(), m, logging.ForTest(t))

	rec := do(t, srv.Handler(), http.MethodPost, "/backup", strings.NewReader("x"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), container.ErrSettingsOpen.Error())
}

func TestAlias_StorageFailure(t *testing.T) {
	m := mocks.NewMockStore(t)
	m.EXPECT().SetAlias("porch", alias.Identity{DeviceID: 1, GroupID: 0, DeviceType: alias.DeviceRGBW}).
		Return(alias.Entry{}, errors.New("read-only file system"))
	m.EXPECT().DeleteAlias("porch").Return(errors.Wrap(alias.ErrNotFound, "porch"))
	srv := New(DefaultConfig(), m, logging.ForTest(t))

	rec := do(t, srv.Handler(), http.MethodPut, "/aliases/porch", strings.NewReader(`{"device_id":1,"device_type":"rgbw"}`), "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, srv.Handler(), http.MethodDelete, "/aliases/porch", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAliases(t *testing.T) {
	srv, st := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	rec := do(t, h, http.MethodPut, "/aliases/porch", strings.NewReader(`{"device_id":4660,"group_id":3,"device_type":"fut089"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var e alias.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "porch", e.Name)
	assert.Equal(t, alias.DeviceFUT089, e.DeviceType)

	got, ok := st.Aliases().Get("porch")
	require.True(t, ok)
	assert.Equal(t, uint16(4660), got.DeviceID)

	rec = do(t, h, http.MethodGet, "/aliases", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "porch", list[0]["alias"])
	assert.Equal(t, "fut089", list[0]["device_type"])

	rec = do(t, h, http.MethodDelete, "/aliases/porch", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodDelete, "/aliases/porch", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAlias_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	tests := map[string]string{
		"not json":       `{`,
		"missing fields": `{"group_id":1}`,
		"unknown type":   `{"device_id":1,"device_type":"lamp"}`,
		"unknown field":  `{"device_id":1,"device_type":"rgb","color":"red"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPut, "/aliases/x", strings.NewReader(body), "application/json")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	long := strings.Repeat("a", alias.MaxNameLen+1)
	rec := do(t, srv.Handler(), http.MethodPut, "/aliases/"+long, strings.NewReader(`{"device_id":1,"device_type":"rgb"}`), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSettings_Redacted(t *testing.T) {
	srv, st := newTestServer(t, DefaultConfig())
	require.NoError(t, st.UpdateSettings(func(s *settings.Settings) error {
		s.AdminPassword = "secret"
		return nil
	}))

	rec := do(t, srv.Handler(), http.MethodGet, "/settings", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "********", got["admin_password"])
}

func TestPatchSettings(t *testing.T) {
	srv, st := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	rec := do(t, h, http.MethodPatch, "/settings", strings.NewReader(`{"brightness":30,"mqtt_password":"pw"}`), mediaMergePatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, 30, got["brightness"], 0)
	assert.Equal(t, "********", got["mqtt_password"])
	assert.Equal(t, "pw", st.Settings().MQTTPassword)

	rec = do(t, h, http.MethodPatch, "/settings", strings.NewReader(`[{"op":"replace","path":"/hostname","value":"den"}]`), mediaJSONPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "den", st.Settings().Hostname)
	assert.Equal(t, 30, st.Settings().Brightness)
}

func TestPatchSettings_Rejected(t *testing.T) {
	srv, st := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	rec := do(t, h, http.MethodPatch, "/settings", strings.NewReader(`{"brightness":"max"}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPatch, "/settings", strings.NewReader(`[{"op":"test","path":"/brightness","value":0}]`), mediaJSONPatch)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPatch, "/settings", strings.NewReader(`brightness=1`), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	big := `{"hostname":"` + strings.Repeat("x", settings.MaxFileSize) + `"}`
	rec = do(t, h, http.MethodPatch, "/settings", strings.NewReader(big), mediaMergePatch)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	assert.Equal(t, settings.Default(), st.Settings())
}

func TestPatchSettings_StorageFailure(t *testing.T) {
	m := mocks.NewMockStore(t)
	m.EXPECT().PatchSettings(settings.MergePatch, mock.Anything).Return(nil, errors.New("disk full"))
	srv := New(DefaultConfig(), m, logging.ForTest(t))

	rec := do(t, srv.Handler(), http.MethodPatch, "/settings", strings.NewReader(`{"brightness":1}`), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "disk full", decodeError(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	rec := do(t, srv.Handler(), http.MethodPatch, "/backup", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/settings")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
