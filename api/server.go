// Package api - Thin read-only HTTP layer over a built engine.
// The API only decodes requests, calls the engine and serialises results;
// it never mutates the catalog, so one engine can serve concurrent requests.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"craft-cost/core/cost"
	"craft-cost/core/diff"
	"craft-cost/core/engine"
	"craft-cost/core/output"
	"craft-cost/internal/errors"
)

// Server is the API server
type Server struct {
	engine  *engine.Engine
	mux     *http.ServeMux
	version string
	opts    output.Options
	logger  *zap.Logger
}

// NewServer creates a server for a loaded engine
func NewServer(eng *engine.Engine, version string, opts output.Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:  eng,
		mux:     http.NewServeMux(),
		version: version,
		opts:    opts,
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /estimate", s.handleEstimate)
	s.mux.HandleFunc("POST /diff", s.handleDiff)
	s.mux.HandleFunc("GET /products", s.handleProducts)
	s.mux.HandleFunc("GET /order", s.handleOrder)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleEstimate handles POST /estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Product) == "" {
		s.writeError(w, "VALIDATION_ERROR", "product is required", http.StatusBadRequest)
		return
	}

	rate := s.rate(req.SuccessRate)
	est, err := s.engine.Cost(ctx, req.Product, rate)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	resp := &EstimateResponse{EstimateView: output.NewEstimateView(est, s.opts)}
	if req.Tree {
		resp.Tree, err = s.engine.Tree(ctx, est.Product.ID, rate)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
	}
	resp.DurationMs = time.Since(start).Milliseconds()
	s.writeJSON(w, resp, http.StatusOK)
}

// handleDiff handles POST /diff
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.executeDiff(r.Context(), &req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, resp, http.StatusOK)
}

func (s *Server) executeDiff(ctx context.Context, req *DiffRequest) (*DiffResponse, error) {
	base, err := s.engine.Cost(ctx, req.Product, cost.ClampSuccessRate(req.BaseRate))
	if err != nil {
		return nil, err
	}
	head, err := s.engine.Cost(ctx, base.Product.ID, cost.ClampSuccessRate(req.HeadRate))
	if err != nil {
		return nil, err
	}

	d := diff.NewDiffer(decimal.Zero).Diff(base.Result, head.Result)
	resp := &DiffResponse{
		ProductID:    base.Product.ID,
		TotalBefore:  d.TotalBefore,
		TotalAfter:   d.TotalAfter,
		TotalDelta:   d.TotalDelta,
		DeltaPercent: d.DeltaPercent.Round(2),
		Changes:      []DiffChange{},
	}
	for _, group := range [][]*diff.MaterialDiff{d.Added, d.Removed, d.Changed} {
		for _, md := range group {
			resp.Changes = append(resp.Changes, DiffChange{
				MaterialID:    md.MaterialID,
				Name:          output.LocalizedName(md.Name, s.opts.Variant),
				Change:        md.ChangeType.String(),
				CostDelta:     md.CostDelta,
				QuantityDelta: md.QuantityDelta,
			})
		}
	}
	return resp, nil
}

// handleProducts handles GET /products
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	profession := r.URL.Query().Get("profession")

	products := []ProductSummary{}
	for _, p := range s.engine.Products() {
		if profession != "" && p.Profession != profession {
			continue
		}
		products = append(products, ProductSummary{
			ID:          p.ID,
			Name:        output.LocalizedName(p.Name, s.opts.Variant),
			Profession:  p.Profession,
			Level:       p.Level,
			Coefficient: p.Coefficient,
			Lines:       len(p.Lines),
		})
	}
	s.writeJSON(w, products, http.StatusOK)
}

// handleOrder handles GET /order
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	resp := OrderResponse{Order: []string{}, Cyclic: []string{}}
	for _, p := range s.engine.Ordered() {
		resp.Order = append(resp.Order, p.ID)
	}
	resp.Cyclic = append(resp.Cyclic, s.engine.Cyclic()...)
	s.writeJSON(w, resp, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"version":   s.version,
		"materials": s.engine.Catalog().Len(),
		"recipes":   s.engine.Recipes().Len(),
		"time":      time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "craft-cost",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) rate(requested *decimal.Decimal) decimal.Decimal {
	if requested == nil {
		return cost.ClampSuccessRate(s.engine.Config().DefaultSuccessRate)
	}
	return cost.ClampSuccessRate(*requested)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorBody{Error: ErrorDetail{Code: code, Message: message}}, status)
}

// writeEngineError maps domain error types to status codes
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsType(err, errors.TypeNotFound):
		s.writeError(w, string(errors.TypeNotFound), err.Error(), http.StatusNotFound)
	case errors.IsType(err, errors.TypeInput):
		s.writeError(w, string(errors.TypeInput), err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.writeError(w, "ENGINE_ERROR", err.Error(), http.StatusInternalServerError)
	}
}

// ServeHTTP implements http.Handler and logs every request
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
