// Package httpapi exposes a thin JSON search surface over a query.Engine
// using CORS headers and stdlib net/http. The graphical search UI itself
// is out of scope; this is only the data-contract endpoint a UI would call.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/SoulShadow8326/soulsearch/internal/query"
)

// SearchResponse is the wire shape returned by GET /search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchResult is one ranked hit as seen by HTTP clients.
type SearchResult struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
}

// Server wraps a query.Engine behind an HTTP mux.
type Server struct {
	engine *query.Engine
	log    zerolog.Logger
	mux    *http.ServeMux
}

// New builds a Server ready to ListenAndServe, registering /search.
func New(engine *query.Engine, log zerolog.Logger) *Server {
	s := &Server{engine: engine, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("/search", s.handleSearch)
	return s
}

// ListenAndServe starts the HTTP server on addr (e.g. ":8080").
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Msg("starting search server")
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}

	k := 10
	if ks := r.URL.Query().Get("k"); ks != "" {
		if parsed, err := strconv.Atoi(ks); err == nil && parsed > 0 {
			k = parsed
		}
	}

	results, err := s.engine.Search(q, k)
	if err != nil {
		s.log.Error().Err(err).Str("query", q).Msg("search failed")
		http.Error(w, "internal search error", http.StatusInternalServerError)
		return
	}

	resp := SearchResponse{Query: q, Results: make([]SearchResult, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, SearchResult{
			URL:          res.URL,
			Title:        s.engine.Title(res.URL),
			Score:        res.Score,
			MatchedTerms: res.MatchedTerms,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to encode search response")
	}
}
