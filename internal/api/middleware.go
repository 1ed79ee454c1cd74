package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// requireAPIKey rejects requests without the configured X-API-Key header.
// When no key is configured the check is disabled, which keeps local
// development friction-free.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.API.Key != "" && r.Header.Get("X-API-Key") != s.cfg.API.Key {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cachedResponse is a rendered response held in the read cache.
type cachedResponse struct {
	status int
	body   []byte
}

// responseRecorder buffers a handler's output so it can be cached.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// cached serves GET responses from the in-memory cache, keyed by the full
// request URI. Only successful responses are cached.
func (s *Server) cached(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cache == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if entry, found := s.cache.Get(key); found {
			cached := entry.(cachedResponse)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(cached.status)
			w.Write(cached.body)
			return
		}

		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if recorder.status == http.StatusOK {
			s.cache.SetDefault(key, cachedResponse{
				status: recorder.status,
				body:   recorder.body.Bytes(),
			})
		}
	})
}

// logRequests logs every request with its duration and status.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
	})
}
