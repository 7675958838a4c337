package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/export"
	"github.com/spigell/talentscout/internal/store"
)

// decodeRecord maps a loosely typed JSON payload onto a record. submittedAt
// accepts any RFC 3339 timestamp, including JavaScript's toISOString output.
func decodeRecord(payload map[string]any) (application.Record, error) {
	var rec application.Record

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     &rec,
	})
	if err != nil {
		return rec, err
	}
	if err := decoder.Decode(payload); err != nil {
		return rec, err
	}

	if strings.TrimSpace(rec.ID) == "" {
		return rec, errors.New("id is required")
	}
	if rec.SubmittedAt.IsZero() {
		return rec, errors.New("submittedAt is required")
	}

	return rec, nil
}

func (s *Server) authorized(r *http.Request) bool {
	if s.deps.Token == "" {
		return true
	}
	return r.Header.Get("Authorization") == fmt.Sprintf("Bearer %s", s.deps.Token)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		s.respondError(w, http.StatusServiceUnavailable, "application log is not configured")
		return
	}
	if !s.authorized(r) {
		s.respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := decodeRecord(payload)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid application: %v", err))
		return
	}

	if err := s.deps.Store.Save(r.Context(), rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.respondError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error("failed to store application", zap.String("application", rec.ID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store application")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"status": "success", "id": rec.ID})
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		s.respondError(w, http.StatusServiceUnavailable, "application log is not configured")
		return
	}
	if !s.authorized(r) {
		s.respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	records, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list applications", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	if records == nil {
		records = []application.Record{}
	}

	s.respondGzipJSON(w, r, records)
}

func (s *Server) handleExportLogs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		s.respondError(w, http.StatusServiceUnavailable, "application log is not configured")
		return
	}
	if !s.authorized(r) {
		s.respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	records, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list applications", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.xlsx"`)
	if err := export.WriteExcel(records, w); err != nil {
		s.logger.Error("failed to export applications", zap.Error(err))
	}
}
