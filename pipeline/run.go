package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"warstats/internal/dataset"
	"warstats/internal/fetcher"
	"warstats/internal/limiter"
	"warstats/internal/normalize"
	"warstats/internal/parser"
)

// Run fetches the casualty table, normalizes every cell, writes the cleaned
// CSV, and renders the summary charts. Each cell is normalized independently
// of any other; absent values stay absent all the way to the file.
func Run(ctx context.Context, opts Options) (Summary, error) {
	opts = withDefaults(opts)

	if opts.URL == "" {
		return Summary{}, errors.New("url is required")
	}

	if opts.HTTPClient == nil {
		return Summary{}, errors.New("http client is required")
	}

	pace := limiter.New(opts.Delay, opts.Clock)
	fetch := fetcher.New(opts.HTTPClient, opts.Timeout, opts.UserAgent, pace, opts.Retries, opts.Clock)

	body, err := fetch.Fetch(ctx, opts.URL)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch %s: %w", opts.URL, err)
	}

	table, err := parser.ExtractTable(body)
	if err != nil {
		return Summary{}, fmt.Errorf("extract table: %w", err)
	}

	cols, err := locateColumns(table.Header)
	if err != nil {
		return Summary{}, err
	}

	records := buildRecords(table.Rows, cols)
	if len(records) == 0 {
		return Summary{}, errors.New("no usable rows in table")
	}

	if err := dataset.WriteCSV(opts.OutputCSV, records); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		URL:          opts.URL,
		CSVPath:      opts.OutputCSV,
		GeneratedAt:  opts.Clock.Now().UTC().Format(time.RFC3339),
		Countries:    len(records),
		MeanDeathPct: meanDeathPct(records),
	}

	if opts.ChartDir != "" {
		charts, err := renderCharts(opts, records)
		if err != nil {
			return Summary{}, fmt.Errorf("render charts: %w", err)
		}

		summary.Charts = charts
	}

	return summary, nil
}

func buildRecords(rows [][]string, cols columnIndexes) []dataset.Record {
	records := make([]dataset.Record, 0, len(rows))

	for _, row := range rows {
		country := normalize.Label(row[cols.country])
		if country == "" {
			continue
		}

		records = append(records, dataset.Record{
			Country:                          country,
			TotalPop1939:                     figure(row[cols.totalPop]),
			MilitaryDeaths:                   figure(row[cols.military]),
			CivilianDeathsDueToMilitary:      figure(row[cols.civilianMilitary]),
			CivilianDeathsDueToDiseaseFamine: figure(row[cols.civilianFamine]),
			TotalDeaths:                      figure(row[cols.totalDeaths]),
			DeathPctOf1939Pop:                figure(row[cols.deathPct]),
			AverageDeathPctOf1939Pop:         figure(row[cols.avgDeathPct]),
		})
	}

	return records
}

func figure(cell string) dataset.Figure {
	return dataset.NewFigure(normalize.Number(cell))
}

// meanDeathPct averages the average-percentage column over countries where
// it is present; the result is absent when no country has one.
func meanDeathPct(records []dataset.Record) dataset.Figure {
	values := []float64{}
	for _, record := range records {
		if record.AverageDeathPctOf1939Pop.Valid {
			values = append(values, record.AverageDeathPctOf1939Pop.Value)
		}
	}

	if len(values) == 0 {
		return dataset.Figure{}
	}

	return dataset.Figure{Value: stat.Mean(values, nil), Valid: true}
}
