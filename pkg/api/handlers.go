package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/cartsave/pkg/archive"
	"github.com/ssargent/cartsave/pkg/save"
)

// Server holds the API server state
type Server struct {
	archive IArchive
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server. archive may be nil, in which case the
// backup endpoints answer 503 and repairs are not archived.
func NewServer(archive IArchive, config ServerConfig, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{
		archive: archive,
		config:  config,
		metrics: metrics,
	}
}

// readImage reads the request body up to the configured limit.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := s.config.MaxImageSize
	if limit <= 0 {
		limit = 1 << 20
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		sendError(w, "Image too large or unreadable", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	if len(data) == 0 {
		sendError(w, "Request body is empty", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// openImage opens data and maps save errors to HTTP statuses.
func (s *Server) openImage(w http.ResponseWriter, data []byte, opts save.Options) (save.Save, bool) {
	sv, err := save.Open(data, opts)
	if err == nil {
		return sv, true
	}

	s.metrics.RecordImage("", 0)
	logrus.WithError(err).WithField("size", len(data)).Info("rejected image")
	switch {
	case errors.Is(err, save.ErrUnrecognizedFormat):
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, save.ErrCorrupt):
		sendError(w, err.Error(), http.StatusConflict)
	default:
		sendError(w, err.Error(), http.StatusBadRequest)
	}
	return nil, false
}

// options returns the configured open options with a ?region override.
func (s *Server) options(r *http.Request) (save.Options, error) {
	opts := s.config.Save
	if q := r.URL.Query().Get("region"); q != "" {
		region, err := save.ParseRegion(q)
		if err != nil {
			return opts, err
		}
		opts.Region = region
	}
	return opts, nil
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"archive": s.archive != nil,
	})
}

// handleInspect godoc
//
//	@Summary		Inspect a save image
//	@Description	Detect the format of an uploaded image and report its slots, checksum failures and party.
//	@Tags			images
//	@Accept			octet-stream
//	@Produce		json
//	@Param			region	query		string	false	"auto, international or japanese"
//	@Param			body	body		[]byte	true	"Raw save image"
//	@Success		200		{object}	save.Report
//	@Failure		409		{object}	APIResponse
//	@Failure		413		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/images/inspect [post]
//	@Security		ApiKeyAuth
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, ok := s.readImage(w, r)
	if !ok {
		return
	}
	sv, ok := s.openImage(w, data, opts)
	if !ok {
		return
	}

	report := save.Inspect(sv)
	s.metrics.RecordImage(report.Format, len(report.Failures))
	sendSuccess(w, report)
}

// handleRepair godoc
//
//	@Summary		Repair a save image
//	@Description	Recompute every checksum of the active data and return the fixed image. The original is archived first when backups are enabled.
//	@Tags			images
//	@Accept			octet-stream
//	@Produce		octet-stream,json
//	@Param			region	query		string	false	"auto, international or japanese"
//	@Param			name	query		string	false	"Name stored with the backup"
//	@Param			format	query		string	false	"json to get a RepairResult instead of the image"
//	@Param			body	body		[]byte	true	"Raw save image"
//	@Success		200		{string}	byte
//	@Success		200		{object}	RepairResult
//	@Failure		422		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Router			/images/repair [post]
//	@Security		ApiKeyAuth
func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	// A repair exists to fix corrupt images.
	opts.RefuseCorrupt = false

	data, ok := s.readImage(w, r)
	if !ok {
		return
	}
	sv, ok := s.openImage(w, data, opts)
	if !ok {
		return
	}

	failures := sv.Validate()
	format := sv.Format().Name()
	s.metrics.RecordImage(format, len(failures))

	result := RepairResult{Format: format, Repaired: failures}
	if s.config.BackupOnWrite && s.archive != nil {
		id, err := s.archive.Put(data, archive.Meta{
			Name:     r.URL.Query().Get("name"),
			Format:   format,
			Source:   "api",
			Failures: len(failures),
		})
		s.metrics.RecordBackup("put", err == nil)
		if err != nil {
			logrus.WithError(err).Error("failed to archive original image")
			sendError(w, "Failed to archive original image", http.StatusInternalServerError)
			return
		}
		result.BackupID = id.String()
	}

	logrus.WithFields(logrus.Fields{
		"format":   format,
		"repaired": len(failures),
		"backup":   result.BackupID,
	}).Info("repaired image")

	if r.URL.Query().Get("format") == "json" {
		sendSuccess(w, result)
		return
	}
	w.Header().Set("X-Cartsave-Format", format)
	w.Header().Set("X-Cartsave-Repaired", strconv.Itoa(len(failures)))
	if result.BackupID != "" {
		w.Header().Set("X-Cartsave-Backup-ID", result.BackupID)
	}
	sendImage(w, "", sv.Bytes())
}

func (s *Server) requireArchive(w http.ResponseWriter) bool {
	if s.archive == nil {
		sendError(w, "Backup archive is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleListBackups godoc
//
//	@Summary		List backups
//	@Description	List archived images, oldest first
//	@Tags			backups
//	@Produce		json
//	@Success		200	{array}		archive.Meta
//	@Failure		503	{object}	APIResponse
//	@Router			/backups [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	if !s.requireArchive(w) {
		return
	}
	list, err := s.archive.List()
	s.metrics.RecordBackup("list", err == nil)
	if err != nil {
		sendError(w, "Failed to list backups: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []archive.Meta{}
	}
	sendSuccess(w, list)
}

// handleGetBackup godoc
//
//	@Summary		Download a backup
//	@Description	Return the archived image bytes
//	@Tags			backups
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Backup id"
//	@Success		200	{string}	byte
//	@Failure		404	{object}	APIResponse
//	@Router			/backups/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetBackup(w http.ResponseWriter, r *http.Request) {
	if !s.requireArchive(w) {
		return
	}
	id, err := archive.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Backup not found", http.StatusNotFound)
		return
	}

	meta, err := s.archive.Meta(id)
	if err == nil {
		var data []byte
		data, err = s.archive.Get(id)
		if err == nil {
			s.metrics.RecordBackup("get", true)
			sendImage(w, meta.Name, data)
			return
		}
	}

	s.metrics.RecordBackup("get", false)
	if errors.Is(err, archive.ErrNotFound) {
		sendError(w, "Backup not found", http.StatusNotFound)
		return
	}
	sendError(w, "Failed to read backup: "+err.Error(), http.StatusInternalServerError)
}

// handleDeleteBackup godoc
//
//	@Summary		Delete a backup
//	@Tags			backups
//	@Produce		json
//	@Param			id	path		string	true	"Backup id"
//	@Success		200	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/backups/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteBackup(w http.ResponseWriter, r *http.Request) {
	if !s.requireArchive(w) {
		return
	}
	id, err := archive.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Backup not found", http.StatusNotFound)
		return
	}

	err = s.archive.Delete(id)
	s.metrics.RecordBackup("delete", err == nil)
	switch {
	case errors.Is(err, archive.ErrNotFound):
		sendError(w, "Backup not found", http.StatusNotFound)
	case err != nil:
		sendError(w, "Failed to delete backup: "+err.Error(), http.StatusInternalServerError)
	default:
		sendSuccess(w, map[string]string{"message": "Backup deleted", "id": id.String()})
	}
}
