// Package telemetry counts pipeline activity for the /metrics endpoint and
// periodic logs.
package telemetry

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

type Telemetry struct {
	Logger *log.Logger

	SearchRequests prometheus.Counter
	SearchFailures prometheus.Counter
	Scrapes        prometheus.Counter
	ScrapeFailures prometheus.Counter
	LLMRequests    prometheus.Counter
	BackfillRuns   prometheus.Counter
}

// New registers the pipeline counters with reg. Passing a fresh registry in
// tests keeps them isolated; the serve command passes the default one.
func New(reg prometheus.Registerer, logger *log.Logger) *Telemetry {
	t := &Telemetry{
		Logger: logger,
		SearchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptoscout_search_requests_total",
			Help: "Search queries issued against the web-search provider.",
		}),
		SearchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptoscout_search_failures_total",
			Help: "Search queries that failed after retries.",
		}),
		Scrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptoscout_scrapes_total",
			Help: "URLs scraped successfully.",
		}),
		ScrapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptoscout_scrape_failures_total",
			Help: "URLs where every extraction strategy failed.",
		}),
		LLMRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptoscout_llm_requests_total",
			Help: "Calls made to the generation collaborator.",
		}),
		BackfillRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptoscout_backfill_runs_total",
			Help: "Coverage backfill passes executed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(t.SearchRequests, t.SearchFailures, t.Scrapes, t.ScrapeFailures, t.LLMRequests, t.BackfillRuns)
	}
	return t
}

// The Count helpers tolerate a nil receiver so pipeline call sites need no
// telemetry guard.

func (t *Telemetry) CountSearch() {
	if t != nil {
		t.SearchRequests.Inc()
	}
}

func (t *Telemetry) CountSearchFailure() {
	if t != nil {
		t.SearchFailures.Inc()
	}
}

func (t *Telemetry) CountScrape() {
	if t != nil {
		t.Scrapes.Inc()
	}
}

func (t *Telemetry) CountScrapeFailure() {
	if t != nil {
		t.ScrapeFailures.Inc()
	}
}

func (t *Telemetry) CountLLMRequest() {
	if t != nil {
		t.LLMRequests.Inc()
	}
}

func (t *Telemetry) CountBackfill() {
	if t != nil {
		t.BackfillRuns.Inc()
	}
}
