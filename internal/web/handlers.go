package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/logging"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/pipeline"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/web/templates"
)

// errNoRuns is returned by /api/runs/last before the first run finishes.
var errNoRuns = errors.New("no run recorded yet")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Running: s.runs.Running(),
		Time:    timeNow().UTC(),
	})
}

// datasetView describes one registered dataset.
type datasetView struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	SheetIndex  int      `json:"sheetIndex"`
	TargetTable string   `json:"targetTable"`
	Columns     []string `json:"columns"`
	DBColumns   []string `json:"dbColumns"`
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	views := make([]datasetView, len(defs))
	for i, def := range defs {
		views[i] = datasetView{
			Key:         def.Info.Key,
			Label:       def.Info.Label,
			SheetIndex:  def.Info.SheetIndex,
			TargetTable: def.Info.TargetTable,
			Columns:     def.ExpectedColumns(),
			DBColumns:   def.DBColumns(),
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runs.History())
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	last, ok := s.runs.Last()
	if !ok {
		s.respondError(w, r, errNoRuns, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

// triggerResponse is returned when a run is started in the background.
type triggerResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message,omitempty"`
}

// handleTriggerRun starts a run. With ?wait=true the request blocks and
// returns the summary; concurrent requests share one run either way.
func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		summary, err := s.runs.Run(r.Context())
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	}

	err := s.runs.Trigger(r.Context())
	switch {
	case err == nil:
		log.Info("run triggered")
		writeJSON(w, http.StatusAccepted, triggerResponse{Started: true})
	case errors.Is(err, pipeline.ErrRunInProgress):
		writeJSON(w, http.StatusAccepted, triggerResponse{Message: core.MapError(err).Message})
	default:
		s.respondError(w, r, err, http.StatusBadRequest)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := templates.StatusData{
		Running:  s.runs.Running(),
		Datasets: core.All(),
		History:  s.runs.History(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.StatusPage(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render status page", "error", err)
	}
}
