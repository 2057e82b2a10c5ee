package server

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/service"
)

const maxBodyBytes = 1 << 20

type rankRequest struct {
	Booking core.BookingContext `json:"booking"`
	// Top > 0 时按概率降序只返回前 Top 个
	Top int `json:"top"`
	// Curated 为 true 时走后处理 Pipeline，忽略 Top
	Curated bool `json:"curated"`
}

type rankResponse struct {
	Hotel           string                `json:"hotel"`
	Recommendations []core.Recommendation `json:"recommendations"`
}

type upsaleRequest struct {
	Booking  core.BookingContext `json:"booking"`
	Bought   []string            `json:"bought"`
	Selected [][]string          `json:"selected"`
}

type upsaleResponse struct {
	Hotel      string                 `json:"hotel"`
	Candidates []core.UpsaleCandidate `json:"candidates"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		recs []core.Recommendation
		err  error
	)
	switch {
	case req.Curated:
		recs, err = s.rec.CuratedBundles(r.Context(), req.Booking)
	case req.Top > 0:
		recs, err = s.rec.TopBundles(r.Context(), req.Booking, req.Top)
	default:
		recs, err = s.rec.RankBundles(r.Context(), req.Booking)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{Hotel: req.Booking.Hotel, Recommendations: recs})
}

func (s *Server) handleUpsale(w http.ResponseWriter, r *http.Request) {
	var req upsaleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	bought := append(append([]string(nil), req.Bought...), service.BoughtItems(req.Selected)...)
	cands, err := s.rec.Upsale(r.Context(), req.Booking, bought)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upsaleResponse{Hotel: req.Booking.Hotel, Candidates: cands})
}

func (s *Server) handleHotels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"hotels": s.rec.Hotels()})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeValidation, "malformed request body", err)
	}
	return nil
}

// statusOf 把领域错误码映射为 HTTP 状态码。
func statusOf(err error) (int, string) {
	de := core.GetDomainError(err)
	if de == nil {
		return http.StatusInternalServerError, "INTERNAL"
	}
	switch de.Code {
	case core.ErrorCodeValidation:
		return http.StatusBadRequest, de.Code
	case core.ErrorCodeModelInference:
		return http.StatusBadGateway, de.Code
	case core.ErrorCodeNotFound:
		return http.StatusNotFound, de.Code
	case core.ErrorCodeUnavailable:
		return http.StatusServiceUnavailable, de.Code
	default:
		return http.StatusInternalServerError, de.Code
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Str("code", code).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: err.Error()}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
