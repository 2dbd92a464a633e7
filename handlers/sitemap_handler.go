package handlers

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/data"
	"github.com/sebastien-chopin-dev/rne-dashboard/middleware"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one <url> entry of a sitemap.
type URL struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   float64  `xml:"priority,omitempty"`
}

// URLSet is the sitemap document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// GetSitemap lists the dashboard page once per department. The document is
// rebuilt per request from the cached selector options and is never cached
// itself: its base may come from the client-supplied Host header.
func (d *Dashboard) GetSitemap(w http.ResponseWriter, r *http.Request) {
	opts, err := data.LoadOptions(r.Context(), d.Service.Source())
	if err != nil {
		d.fail(w, r, err)
		return
	}

	content, err := buildSitemap(d.baseURL(r), opts.Departments.Labels)
	if err != nil {
		config.Log.Error("error generating sitemap",
			zap.String("request_id", middleware.RequestID(r.Context())), zap.Error(err))
		http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(content)
}

func buildSitemap(base string, labels []string) ([]byte, error) {
	set := URLSet{XMLNS: sitemapNamespace}
	for _, label := range labels {
		loc := base + "/"
		priority := 0.8
		if label == models.AllDepartmentsLabel {
			priority = 1.0
		} else {
			loc += "?" + url.Values{"departement": {label}}.Encode()
		}
		set.URLs = append(set.URLs, URL{Loc: loc, ChangeFreq: "monthly", Priority: priority})
	}

	output, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}

// baseURL prefers the configured public URL and falls back to the host the
// request was addressed to.
func (d *Dashboard) baseURL(r *http.Request) string {
	if d.PublicURL != "" {
		return strings.TrimSuffix(d.PublicURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
