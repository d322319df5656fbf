package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cytodiag/chart"
)

const maxPredictBody = 64 << 10

func RegisterHandlers(mux *http.ServeMux, app *App) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/fields", app.handleFields)
	mux.Handle("POST /api/predict", RequestSizeMiddleware(maxPredictBody)(http.HandlerFunc(app.handlePredict)))
	mux.HandleFunc("GET /api/chart.svg", app.handleChart(chart.SVG))
	mux.HandleFunc("GET /api/chart.png", app.handleChart(chart.PNG))
	mux.HandleFunc("GET /api/dataset/summary", app.handleSummary)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func (a *App) handleFields(w http.ResponseWriter, r *http.Request) {
	locale := a.locale(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	a.respond(w, r, map[string]interface{}{
		"locale":      locale,
		"descriptors": a.Collector.Descriptors(),
		"controls":    a.Collector.Controls(locale),
	})
}

// PredictRequest carries slider positions keyed by field.
type PredictRequest struct {
	Values map[string]float64 `json:"values"`
	Lang   string             `json:"lang"`
}

func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", errBadInput, err))
		return
	}

	locale := a.locale(req.Lang, r.Header.Get("Accept-Language"))
	eval, err := a.Evaluate(r.Context(), a.Collector.Collect(req.Values), locale)
	if err != nil {
		a.logger().Error("evaluation failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		respondError(w, err)
		return
	}
	a.respond(w, r, eval)
}

func (a *App) handleChart(format chart.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		v, err := a.Collector.FromQuery(q)
		if err != nil {
			respondError(w, fmt.Errorf("%w: %v", errBadInput, err))
			return
		}
		locale := a.locale(q.Get("lang"), r.Header.Get("Accept-Language"))

		scaled, err := a.Normalizer.Normalize(v)
		if err != nil {
			respondError(w, err)
			return
		}
		radar, err := chart.Build(scaled, locale)
		if err != nil {
			respondError(w, err)
			return
		}

		opts := chart.DefaultOptions()
		if width, err := strconv.Atoi(q.Get("width")); err == nil && width >= 200 && width <= 2000 {
			opts.Height = opts.Height * width / opts.Width
			opts.Width = width
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		if err := chart.Render(w, radar, format, opts); err != nil {
			a.logger().Error("render chart failed", zap.Error(err))
		}
	}
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil {
		respondError(w, fmt.Errorf("%w: dataset summary", errUnavailable))
		return
	}
	summary, err := a.Store.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	a.respond(w, r, summary)
}

// respond writes data as JSON and logs when it cannot be encoded.
func (a *App) respond(w http.ResponseWriter, r *http.Request, data interface{}) {
	if err := respondJSON(w, data); err != nil {
		a.logger().Error("encode response",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

// respondJSON 统一JSON响应
// The body is encoded before anything is written, so a value that has no JSON
// form (NaN, Inf) turns into a 500 instead of an empty 200.
func respondJSON(w http.ResponseWriter, data interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		err = fmt.Errorf("encode response: %w", err)
		respondError(w, err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(buf.Bytes())
	return err
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadInput):
		status = http.StatusBadRequest
	case errors.Is(err, errUnavailable):
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
