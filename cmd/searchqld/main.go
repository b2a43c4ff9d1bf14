// Command searchqld serves a small HTTP API for parsing search queries
// against a field catalog.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quillhq/searchql"
	"github.com/quillhq/searchql/catalog"
	"github.com/quillhq/searchql/internal/obslog"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const requestIDHeader = "X-Request-Id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type server struct {
	log         obslog.Logger
	baseCatalog *catalog.Config
}

type parseRequest struct {
	Query       string `json:"query"`
	CatalogYAML string `json:"catalogYaml,omitempty"`
}

type parseResponse struct {
	Document    json.RawMessage `json:"document"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cfg := s.baseCatalog
	if req.CatalogYAML != "" {
		loaded, err := catalog.Load(bytes.NewReader([]byte(req.CatalogYAML)))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid catalog: %v", err))
			return
		}
		cfg = loaded
	}

	doc, diags := searchql.ParseDiagnostic(req.Query, cfg)
	docJSON, err := searchql.MarshalJSON(doc)
	if err != nil {
		s.log.Error("failed to marshal parsed document", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = d.Error()
	}

	// Parsing never fails, even for filters that validate as invalid —
	// the annotated document is still a 200; callers inspect Invalid
	// per-filter rather than relying on the HTTP status.
	writeJSON(w, http.StatusOK, parseResponse{Document: docJSON, Diagnostics: messages})
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	log := obslog.New(*logLevel)
	s := &server{log: log, baseCatalog: catalog.Default()}

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestIDMiddleware)
	r.Post("/v1/parse", s.handleParse)

	addr := fmt.Sprintf(":%d", *port)
	log.Info("searchqld listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
