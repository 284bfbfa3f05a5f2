// Package pipeline wires the scrape: fetch, table extraction, field
// normalization, CSV persistence, and chart rendering.
package pipeline

import (
	"net/http"
	"time"

	"warstats/internal/dataset"
	"warstats/internal/limiter"
)

// Options configures a run.
// Retries is the number of retries after the first attempt; Delay spaces
// request attempts. MinDeaths filters the total-deaths chart and TopN caps
// the number of bars per chart. An empty ChartDir skips chart rendering.
type Options struct {
	URL        string
	OutputCSV  string
	ChartDir   string
	Timeout    time.Duration
	Retries    int
	Delay      time.Duration
	UserAgent  string
	MinDeaths  float64
	TopN       int
	HTTPClient *http.Client
	Clock      limiter.Timer
}

// Summary describes a completed run. MeanDeathPct is absent when no country
// carried a parseable average-percentage figure.
type Summary struct {
	URL          string
	CSVPath      string
	GeneratedAt  string
	Countries    int
	MeanDeathPct dataset.Figure
	Charts       []string
}

const (
	defaultOutputCSV = "casualties.csv"
	defaultTopN      = 12
	defaultMinDeaths = 250000
	defaultUserAgent = "warstats/1.0"
)

func withDefaults(opts Options) Options {
	if opts.OutputCSV == "" {
		opts.OutputCSV = defaultOutputCSV
	}

	if opts.MinDeaths <= 0 {
		opts.MinDeaths = defaultMinDeaths
	}

	if opts.TopN < 1 {
		opts.TopN = defaultTopN
	}

	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	if opts.Clock == nil {
		opts.Clock = limiter.NewClock()
	}

	return opts
}
