package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"go-predecode/pkg/ingest/logfile"
	"go-predecode/pkg/predecode"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodeResult is one line of a decode response
type DecodeResult struct {
	Event *predecode.Event `json:"event,omitempty"`
	Error string           `json:"error,omitempty"`
}

func respJSON(rw http.ResponseWriter, code int, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	rw.Write(encoded)
}

func respError(rw http.ResponseWriter, code int, msg string) {
	respJSON(rw, code, map[string]string{"error": msg})
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		respJSON(rw, http.StatusOK, map[string]string{
			"/":        "API routes listing",
			"/decode":  "POST raw queue records, one per line; ?location=<name> wraps bare log lines",
			"/stats":   "decoded records per weekday and hour",
			"/metrics": "prometheus metrics",
		})
	}
}

func (s *Server) handleDecode() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if s.Decoder == nil {
			respError(rw, http.StatusServiceUnavailable, "decoder not initialized")
			return
		}
		location := r.URL.Query().Get("location")

		// whole body is read first, a cut off record must never be decoded
		body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, MaxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respError(rw, http.StatusRequestEntityTooLarge, err.Error())
				return
			}
			respError(rw, http.StatusBadRequest, err.Error())
			return
		}

		results := make([]DecodeResult, 0)
		for _, line := range bytes.Split(body, []byte{'\n'}) {
			line = bytes.TrimSuffix(line, []byte{'\r'})
			if len(line) == 0 {
				continue
			}
			raw := logfile.Envelope(location, line, location != "")
			ev, err := s.Decoder.Decode(raw)
			if err != nil {
				if s.Collector != nil {
					s.Collector.EnvelopeError()
				}
				results = append(results, DecodeResult{Error: err.Error()})
				continue
			}
			if s.Hourly != nil {
				s.Hourly.Add(ev.Time.Weekday(), ev.Time.Hour())
			}
			if s.Collector != nil {
				s.Collector.Observe(ev)
			}
			results = append(results, DecodeResult{Event: ev})
		}
		respJSON(rw, http.StatusOK, results)
	}
}

func (s *Server) handleStats() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if s.Hourly == nil {
			respError(rw, http.StatusServiceUnavailable, "statistics not enabled")
			return
		}
		respJSON(rw, http.StatusOK, map[string]interface{}{
			"total":  s.Hourly.Total(),
			"hourly": s.Hourly.Table(),
		})
	}
}
