package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"cytodiag/i18n"
	"cytodiag/input"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Texts      i18n.Texts
	Locales    []string
	Controls   []input.Control
	Evaluation *Evaluation
	ChartURL   string
}

// RegisterPage mounts the dashboard page and its static assets.
func RegisterPage(mux *http.ServeMux, app *App) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("GET /{$}", app.handlePage)
}

// handlePage renders the dashboard for the slider positions in the query.
// Without a query every slider sits at its dataset mean.
func (a *App) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := a.Collector.FromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	locale := a.locale(q.Get("lang"), r.Header.Get("Accept-Language"))

	eval, err := a.Evaluate(r.Context(), v, locale)
	if err != nil {
		a.logger().Error("render page failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		http.Error(w, "prediction unavailable", http.StatusInternalServerError)
		return
	}

	controls := a.Collector.Controls(locale)
	for i := range controls {
		controls[i].Value = eval.Inputs[controls[i].Key]
	}

	data := pageData{
		Texts:      i18n.Lookup(locale),
		Locales:    []string{i18n.Indonesian, i18n.English},
		Controls:   controls,
		Evaluation: eval,
		ChartURL:   chartURL(eval.Inputs, locale),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		a.logger().Error("execute template", zap.Error(err))
	}
}

func chartURL(inputs map[string]float64, locale string) string {
	q := url.Values{}
	for key, value := range inputs {
		q.Set(key, strconv.FormatFloat(value, 'g', -1, 64))
	}
	q.Set("lang", locale)
	return "/api/chart.svg?" + q.Encode()
}
