package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/pluscode-etl/pkg/olc"
)

type areaJSON struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type pointJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type codeResponse struct {
	Code   string    `json:"code"`
	Length int       `json:"length"`
	Area   areaJSON  `json:"area"`
	Center pointJSON `json:"center"`
}

type validateResponse struct {
	Code   string `json:"code"`
	Valid  bool   `json:"valid"`
	Short  bool   `json:"short"`
	Full   bool   `json:"full"`
	Reason string `json:"reason,omitempty"`
}

type shortenResponse struct {
	Code  string `json:"code"`
	Short string `json:"short"`
}

type recoverResponse struct {
	Short string `json:"short"`
	Code  string `json:"code"`
}

type containsResponse struct {
	Code     string  `json:"code"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Contains bool    `json:"contains"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// errBadParam marks request parameter problems, reported as 400.
var errBadParam = errors.New("bad parameter")

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := pointParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	length := olc.DefaultCodeLength
	if v := r.URL.Query().Get("length"); v != "" {
		length, err = strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: length %q", errBadParam, v))
			return
		}
	}

	code, err := olc.Encode(lat, lng, length)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCode(w, r, code)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCode(w, r, code)
}

func (s *Server) writeCode(w http.ResponseWriter, r *http.Request, code string) {
	area, err := olc.Decode(code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lat, lng := area.Center()
	writeJSON(w, http.StatusOK, codeResponse{
		Code:   strings.ToUpper(code),
		Length: area.Len,
		Area:   areaJSON{South: area.LatLo, West: area.LngLo, North: area.LatHi, East: area.LngHi},
		Center: pointJSON{Lat: lat, Lng: lng},
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := validateResponse{
		Code:  code,
		Valid: olc.IsValid(code),
		Short: olc.IsShort(code),
		Full:  olc.IsFull(code),
	}
	switch {
	case !resp.Valid:
		resp.Reason = olc.Check(code).Error()
	case !resp.Short && !resp.Full:
		resp.Reason = olc.CheckFull(code).Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShorten(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lat, lng, err := pointParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	short, err := olc.Shorten(code, lat, lng)
	if err != nil {
		if errors.Is(err, olc.ErrNotCloseEnough) {
			s.countShorten("too_far")
		} else {
			s.countShorten("error")
		}
		s.writeError(w, r, err)
		return
	}
	s.countShorten("shortened")
	writeJSON(w, http.StatusOK, shortenResponse{Code: strings.ToUpper(code), Short: short})
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lat, lng, err := pointParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	full, err := olc.RecoverNearest(code, lat, lng)
	if err != nil {
		s.countRecover("error")
		s.writeError(w, r, err)
		return
	}
	s.countRecover("recovered")
	writeJSON(w, http.StatusOK, recoverResponse{Short: code, Code: full})
}

func (s *Server) handleContains(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lat, lng, err := pointParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, containsResponse{
		Code:     code,
		Lat:      lat,
		Lng:      lng,
		Contains: olc.Contains(code, lat, lng),
	})
}

func (s *Server) countShorten(outcome string) {
	if s.metrics != nil {
		s.metrics.Shorten.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) countRecover(outcome string) {
	if s.metrics != nil {
		s.metrics.Recover.WithLabelValues(outcome).Inc()
	}
}

// writeError maps parameter errors to 400 and codec errors to 422.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadParam):
		status = http.StatusBadRequest
	case errors.Is(err, olc.ErrInvalidArgument),
		errors.Is(err, olc.ErrInvalidCode),
		errors.Is(err, olc.ErrNotFull),
		errors.Is(err, olc.ErrNotShort),
		errors.Is(err, olc.ErrPadded),
		errors.Is(err, olc.ErrNotCloseEnough):
		status = http.StatusUnprocessableEntity
	default:
		s.logger.Error("codec request failed", "error", err, "request_id", requestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID(r.Context())})
}

func codeParam(r *http.Request) (string, error) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		return "", fmt.Errorf("%w: code is required", errBadParam)
	}
	return code, nil
}

func pointParams(r *http.Request) (lat, lng float64, err error) {
	if lat, err = floatParam(r, "lat"); err != nil {
		return 0, 0, err
	}
	if lng, err = floatParam(r, "lng"); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, fmt.Errorf("%w: %s is required", errBadParam, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", errBadParam, name, v)
	}
	return f, nil
}
