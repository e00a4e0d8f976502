package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/settings"
)

// uploadField is the multipart form field holding the container.
const uploadField = "file"

var errNoUpload = errors.New("no backup file in request")

// handleCreateBackup streams a freshly encoded container.
func (s *Server) handleCreateBackup(w http.ResponseWriter, _ *http.Request) {
	dw := &deferredWriter{w: w}
	n, err := s.store.WriteBackup(dw)
	if err != nil {
		s.logger.Error("creating backup failed", "error", err)
		if !dw.started {
			writeError(w, http.StatusInternalServerError, "failed to create backup")
		}
		return
	}
	if !dw.started {
		// Nothing streamed; still send headers for an empty body.
		dw.start()
	}
	s.logger.Debug("backup sent", "bytes", n)
}

// deferredWriter sets the download headers on the first write, so a
// failure before any output can still answer with a JSON error.
type deferredWriter struct {
	w       http.ResponseWriter
	started bool
}

func (d *deferredWriter) start() {
	d.started = true
	h := d.w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Disposition", `attachment; filename="lighthub-backup.bin"`)
	d.w.WriteHeader(http.StatusOK)
}

func (d *deferredWriter) Write(p []byte) (int, error) {
	if !d.started {
		d.start()
	}
	return d.w.Write(p)
}

// handleRestoreBackup restores a container from the request body.
func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	body, err := uploadReader(r)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	outcome, err := s.store.RestoreBackup(r.Context(), body)
	status := restoreStatus(outcome, err)
	if status == http.StatusOK {
		writeJSON(w, http.StatusOK, successResponse{Success: true})
		return
	}
	msg := "restore failed"
	if err != nil {
		msg = err.Error()
	}
	s.logger.Warn("restore failed", "outcome", outcome.String(), "error", err)
	writeError(w, status, msg)
}

// uploadReader returns the container stream: the "file" part of a
// multipart form, or the raw body otherwise.
func uploadReader(r *http.Request) (io.Reader, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errors.Wrap(err, "reading multipart body")
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, errNoUpload
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading multipart body")
		}
		if part.FormName() == uploadField {
			return part, nil
		}
	}
}

func (s *Server) handleListAliases(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Aliases().Entries())
}

// aliasRequest is the body of PUT /aliases/{name}.
type aliasRequest struct {
	DeviceID   *uint16           `json:"device_id"`
	GroupID    uint8             `json:"group_id"`
	DeviceType *alias.DeviceType `json:"device_type"`
}

func (s *Server) handleUpdateAlias(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req aliasRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.DeviceID == nil || req.DeviceType == nil {
		writeError(w, http.StatusBadRequest, "device_id and device_type are required")
		return
	}

	e, err := s.store.SetAlias(name, alias.Identity{
		DeviceID:   *req.DeviceID,
		GroupID:    req.GroupID,
		DeviceType: *req.DeviceType,
	})
	if err != nil {
		writeError(w, aliasStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteAlias(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.store.DeleteAlias(name); err != nil {
		writeError(w, aliasStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, s.store.Settings().Redacted())
}

// Patch media types accepted by PATCH /settings. Plain JSON is read as a
// merge patch.
const (
	mediaJSONPatch  = "application/json-patch+json"
	mediaMergePatch = "application/merge-patch+json"
)

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var kind settings.PatchKind
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case mediaJSONPatch:
		kind = settings.JSONPatch
	case mediaMergePatch, "application/json", "":
		kind = settings.MergePatch
	default:
		writeError(w, http.StatusUnsupportedMediaType, "unsupported patch type "+mediaType)
		return
	}

	patch, err := io.ReadAll(http.MaxBytesReader(w, r.Body, settings.MaxFileSize))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	next, err := s.store.PatchSettings(kind, patch)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, settings.ErrInvalidPatch) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("patching settings failed", "error", err)
		writeError(w, status, err.Error())
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, next.Redacted())
}
