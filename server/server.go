// Package server 把 Recommender 暴露为 HTTP/JSON 接口。
//
//	POST /v1/rank     {"booking": {...}, "top": 3}
//	POST /v1/rank     {"booking": {...}, "curated": true}
//	POST /v1/upsale   {"booking": {...}, "bought": ["Spa"], "selected": [["Spa", "Buffet"]]}
//	GET  /v1/hotels
//	GET  /healthz
//	GET  /metrics
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/bundlerec/service"
)

// Server 持有路由依赖。
type Server struct {
	rec       *service.Recommender
	logger    zerolog.Logger
	gatherer  prometheus.Gatherer
	rateLimit int
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With().Str("component", "http").Logger()
	}
}

// WithGatherer 设置 /metrics 暴露的指标来源，默认 prometheus.DefaultGatherer。
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRateLimit 设置每个客户端 IP 每分钟的请求上限，<= 0 不限流。
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		s.rateLimit = perMinute
	}
}

func New(rec *service.Recommender, opts ...Option) *Server {
	s := &Server{
		rec:      rec,
		logger:   zerolog.Nop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler 构建路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		if s.rateLimit > 0 {
			r.Use(httprate.Limit(s.rateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
						Code: "RATE_LIMITED", Message: "too many requests",
					}})
				}),
			))
		}
		r.Post("/rank", s.handleRank)
		r.Post("/upsale", s.handleUpsale)
		r.Get("/hotels", s.handleHotels)
	})
	return r
}

// requestLogger 用 zerolog 记录每个请求。
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			evt := s.logger.Info()
			if ww.Status() >= http.StatusInternalServerError {
				evt = s.logger.Error()
			}
			evt.Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
