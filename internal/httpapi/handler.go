// Package httpapi exposes the classification service over HTTP.
//
// Every parameter travels in the query string. Responses are JSON unless
// the client sends "Accept: application/cbor".
package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"genresim/internal/domain"
)

var errMissingParam = errors.New("missing required parameter")

const defaultProfileTerms = 10

type handler struct {
	svc    domain.ClassificationService
	logger *slog.Logger
}

// NewHandler returns the routed API wrapped in the access log.
func NewHandler(svc domain.ClassificationService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handler{svc: svc, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /termFrequencies", h.termFrequencies)
	mux.HandleFunc("GET /similarityScore", h.similarityScore)
	mux.HandleFunc("GET /genreDocuments", h.genreDocuments)
	mux.HandleFunc("GET /nClosestGenres", h.nClosestGenres)
	mux.HandleFunc("PUT /genreDocument", h.putGenreDocument)
	mux.HandleFunc("DELETE /genreDocument", h.deleteGenreDocument)
	mux.HandleFunc("GET /genres", h.genres)
	mux.HandleFunc("GET /genreProfile", h.genreProfile)
	return accessLog(logger.With("component", "access-log"), mux)
}

// termFrequencies reports raw counts, so weights are rendered as integers.
func (h *handler) termFrequencies(w http.ResponseWriter, r *http.Request) {
	tf := h.svc.TermFrequencies(r.URL.Query().Get("documentText"))
	counts := make(map[string]int, len(tf))
	for term, weight := range tf {
		counts[term] = int(weight)
	}
	h.respond(w, r, counts)
}

func (h *handler) similarityScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	score, err := h.svc.SimilarityScore(q.Get("documentText1"), q.Get("documentText2"))
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, r, score)
}

func (h *handler) genreDocuments(w http.ResponseWriter, r *http.Request) {
	genre, err := required(r, "genre")
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	ids, err := h.svc.DocumentsInGenre(r.Context(), genre)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, r, ids)
}

func (h *handler) nClosestGenres(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	count, err := strconv.Atoi(q.Get("count"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("count: %w", err))
		return
	}
	genres, err := h.svc.NearestGenres(q.Get("documentText"), count)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, r, genres)
}

func (h *handler) putGenreDocument(w http.ResponseWriter, r *http.Request) {
	genre, id, err := genreAndID(r)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	text := r.URL.Query().Get("documentText")
	if err := h.svc.AddDocumentToGenre(r.Context(), genre, id, text); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, r, struct{}{})
}

func (h *handler) deleteGenreDocument(w http.ResponseWriter, r *http.Request) {
	genre, id, err := genreAndID(r)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.RemoveDocumentFromGenre(r.Context(), genre, id); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, r, struct{}{})
}

func (h *handler) genres(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Genres())
}

// genreProfile lists a genre's dominant terms; count defaults to 10.
func (h *handler) genreProfile(w http.ResponseWriter, r *http.Request) {
	genre, err := required(r, "genre")
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	count := defaultProfileTerms
	if raw := r.URL.Query().Get("count"); raw != "" {
		if count, err = strconv.Atoi(raw); err != nil {
			h.fail(w, http.StatusBadRequest, fmt.Errorf("count: %w", err))
			return
		}
	}
	h.respond(w, r, h.svc.GenreProfile(genre, count))
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := encode(w, r, v); err != nil {
		h.logger.Error("could not write response", "path", r.URL.Path, "error", err)
	}
}

func (h *handler) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func required(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w %q", errMissingParam, name)
	}
	return v, nil
}

func genreAndID(r *http.Request) (string, string, error) {
	genre, err := required(r, "genre")
	if err != nil {
		return "", "", err
	}
	id, err := required(r, "docId")
	if err != nil {
		return "", "", err
	}
	return genre, id, nil
}
