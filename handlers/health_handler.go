package handlers

import (
	"net/http"
	"time"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

type HealthResponse struct {
	Status        string `json:"status"`
	Source        string `json:"source"`
	SourceStatus  string `json:"source_status"`
	Rows          int    `json:"rows,omitempty"`
	LoadDuration  string `json:"load_duration,omitempty"`
	PostgresState string `json:"postgres,omitempty"`
	MongoState    string `json:"mongo,omitempty"`
	Error         string `json:"error,omitempty"`
}

func GetHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// GetDetailedHealth reads one column of the source end to end.
func (d *Dashboard) GetDetailedHealth(w http.ResponseWriter, r *http.Request) {
	src := d.Service.Source()
	response := HealthResponse{
		Status: "ok",
		Source: src.Name(),
	}

	start := time.Now()
	records, err := src.Load(r.Context(), []models.Column{models.ColDepartmentCode})
	if err != nil {
		response.Status = "error"
		response.SourceStatus = "load_error"
		response.Error = err.Error()
	} else {
		response.SourceStatus = "readable"
		response.Rows = len(records)
		response.LoadDuration = time.Since(start).String()
	}

	if config.DB != nil {
		response.PostgresState = "connected"
		if err := config.DB.PingContext(r.Context()); err != nil {
			response.PostgresState = "connection_error"
		}
	}
	if config.MongoClient != nil {
		response.MongoState = "connected"
		if err := config.MongoClient.Ping(r.Context(), nil); err != nil {
			response.MongoState = "connection_error"
		}
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}
