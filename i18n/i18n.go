// Package i18n holds the dashboard's display texts and picks a locale for a
// request.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale identifiers understood by the dashboard.
const (
	Indonesian = "id"
	English    = "en"
)

var supported = []language.Tag{
	language.Indonesian,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Texts is every user-facing string of one locale.
type Texts struct {
	Locale        string
	Title         string
	Description   string
	SidebarHeader string
	PanelHeader   string
	PanelLead     string
	Benign        string
	Malignant     string
	ProbBenign    string
	ProbMalignant string
	Disclaimer    string
	Traces        map[string]string
	Bases         map[string]string
	Groups        map[string]string
}

var catalog = map[string]Texts{
	Indonesian: {
		Locale:        Indonesian,
		Title:         "Prediksi Kanker Payudara",
		Description:   "Hubungkan aplikasi ini dengan laboratorium sitologi Anda untuk membantu mendiagnosis kanker payudara dari sampel jaringan Anda. Aplikasi ini menggunakan model pembelajaran mesin untuk memprediksi apakah massa payudara bersifat jinak atau ganas berdasarkan pengukuran dari laboratorium. Anda juga dapat mengatur nilai-nilai pengukuran secara manual melalui slider di sidebar.",
		SidebarHeader: "Pengukuran Inti Sel",
		PanelHeader:   "Prediksi Kluster Sel",
		PanelLead:     "Hasil prediksi kluster sel adalah:",
		Benign:        "Jinak",
		Malignant:     "Ganas",
		ProbBenign:    "Probabilitas jinak",
		ProbMalignant: "Probabilitas ganas",
		Disclaimer:    "Aplikasi ini dapat membantu tenaga medis dalam melakukan diagnosis, namun tidak dapat menggantikan diagnosis dari tenaga profesional.",
		Traces: map[string]string{
			"mean":  "Nilai Rata-rata",
			"se":    "Standard Error",
			"worst": "Nilai Terburuk",
		},
		Bases: map[string]string{
			"radius":            "Radius",
			"texture":           "Tekstur",
			"perimeter":         "Perimeter",
			"area":              "Luas",
			"smoothness":        "Kelembutan",
			"compactness":       "Kekompakan",
			"concavity":         "Kekonkavan",
			"concave points":    "Titik Cekung",
			"symmetry":          "Simetri",
			"fractal_dimension": "Dimensi Fraktal",
		},
		Groups: map[string]string{
			"mean":  "rata-rata",
			"se":    "se",
			"worst": "terburuk",
		},
	},
	English: {
		Locale:        English,
		Title:         "Breast Cancer Predictor",
		Description:   "Connect this app to your cytology lab to help diagnose breast cancer from your tissue sample. The app uses a machine learning model to predict whether a breast mass is benign or malignant based on the measurements it receives from the lab. You can also adjust the measurements by hand using the sliders in the sidebar.",
		SidebarHeader: "Cell Nuclei Measurements",
		PanelHeader:   "Cell Cluster Prediction",
		PanelLead:     "The cell cluster is:",
		Benign:        "Benign",
		Malignant:     "Malignant",
		ProbBenign:    "Probability of being benign",
		ProbMalignant: "Probability of being malignant",
		Disclaimer:    "This app can assist medical professionals in making a diagnosis, but should not be used as a substitute for a professional diagnosis.",
		Traces: map[string]string{
			"mean":  "Mean Value",
			"se":    "Standard Error",
			"worst": "Worst Value",
		},
		Bases: map[string]string{
			"radius":            "Radius",
			"texture":           "Texture",
			"perimeter":         "Perimeter",
			"area":              "Area",
			"smoothness":        "Smoothness",
			"compactness":       "Compactness",
			"concavity":         "Concavity",
			"concave points":    "Concave Points",
			"symmetry":          "Symmetry",
			"fractal_dimension": "Fractal Dimension",
		},
		Groups: map[string]string{
			"mean":  "mean",
			"se":    "se",
			"worst": "worst",
		},
	},
}

// Supported reports whether locale has a catalog entry.
func Supported(locale string) bool {
	_, ok := catalog[locale]
	return ok
}

// Lookup returns the texts of locale, falling back to Indonesian.
func Lookup(locale string) Texts {
	if t, ok := catalog[locale]; ok {
		return t
	}
	return catalog[Indonesian]
}

// Match picks the best supported locale for the given preferences. An
// explicit query value wins over the Accept-Language header; fallback is used
// when nothing matches.
func Match(query, acceptLanguage, fallback string) string {
	if Supported(query) {
		return query
	}
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// FieldLabel renders the slider label of a measurement, e.g. "Radius (mean)".
func (t Texts) FieldLabel(base, group string) string {
	name, ok := t.Bases[base]
	if !ok {
		name = base
	}
	suffix, ok := t.Groups[group]
	if !ok {
		suffix = group
	}
	return fmt.Sprintf("%s (%s)", name, suffix)
}

// DiagnosisName returns the localized class name of label.
func (t Texts) DiagnosisName(label int) string {
	if label == 1 {
		return t.Malignant
	}
	return t.Benign
}

// FormatProbability prints p with the locale's decimal separator.
func (t Texts) FormatProbability(p float64) string {
	printer := message.NewPrinter(language.Make(t.Locale))
	return printer.Sprintf("%.4f", p)
}
