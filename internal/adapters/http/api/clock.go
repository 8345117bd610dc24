package api

import (
	"net/http"
)

// clockResponse describes the current civil day and its reset countdown.
type clockResponse struct {
	Today    string `json:"today"`
	Header   string `json:"header"`
	Zone     string `json:"zone"`
	Degraded bool   `json:"degraded"`
	ResetsIn string `json:"resets_in"`
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
}

// ClockHandler serves clock information.
type ClockHandler struct {
	deps Dependencies
}

// NewClockHandler creates a new clock handler.
func NewClockHandler(deps Dependencies) *ClockHandler {
	return &ClockHandler{deps: deps}
}

// HandleClock handles GET /clock?testdate=YYYY-MM-DD. The header follows the
// override when it is valid; the countdown always refers to the real day.
func (h *ClockHandler) HandleClock(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Clock()
	today := c.Resolve(r.URL.Query().Get("testdate"))
	cd := c.CountdownToMidnight()

	writeJSON(w, http.StatusOK, clockResponse{
		Today:    today,
		Header:   c.HeaderFor(today),
		Zone:     c.Zone(),
		Degraded: c.Degraded(),
		ResetsIn: cd.Text,
		Hours:    cd.Hours,
		Minutes:  cd.Minutes,
	})
}
