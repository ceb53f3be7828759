// Package web holds the server-rendered back-office pages.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/pkg/pdf"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"usd": pdf.FormatUSD,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("Jan 2, 2006")
	},
}

// Templates parses the embedded page templates
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// LoginPage is the data for login.html
type LoginPage struct {
	SiteName   string
	Error      string
	Configured bool
}

// DashboardPage is the data for dashboard.html
type DashboardPage struct {
	SiteName      string
	NewLeadCount  int
	ApprovedCount int
	PendingReview int
	Investors     int
	PendingLOIs   []*models.LetterOfIntent
	NewLeads      []*models.Lead
}
