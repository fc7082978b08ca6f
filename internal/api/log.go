package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bureauram/ldgateway/internal/auth"
	"github.com/bureauram/ldgateway/internal/server"
	"github.com/bureauram/ldgateway/pkg/models"
)

// AuditLogHandler serves the audit log, newest entries first, one fixed-size
// page per request. Pages are addressed by a zero-based "page" query
// parameter and authorized with the same API key as the gateway itself.
func AuditLogHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := srv.Logger.With("request_id", uuid.New().String())

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		opts, err := srv.Settings.Load()
		if err != nil {
			log.Error("error loading gateway settings", "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if !auth.NewGuard(opts.APIKey).Authorize(r.URL.Query().Get(ParamAPIKey)) {
			log.Warn("rejected audit log request with invalid API key")
			http.Error(w, msgWrongAPIKey, http.StatusUnauthorized)
			return
		}

		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			parsed, err := strconv.Atoi(p)
			if err != nil || parsed < 0 {
				http.Error(w, "Invalid page parameter", http.StatusBadRequest)
				return
			}
			page = parsed
		}

		entries, err := models.GetAuditLogPage(srv.DB, page, models.DefaultAuditLogPageSize)
		if err != nil {
			log.Error("error reading audit log page", "page", page, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			log.Error("error encoding audit log page", "error", err)
		}
	})
}
