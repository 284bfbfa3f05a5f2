package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"warstats/internal/chart"
	"warstats/internal/dataset"
)

const (
	totalDeathsChart      = "total_deaths.png"
	deathPctChart         = "death_pct.png"
	militaryCivilianChart = "military_vs_civilian.png"
)

func renderCharts(opts Options, records []dataset.Record) ([]string, error) {
	if err := os.MkdirAll(opts.ChartDir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	totalPath := filepath.Join(opts.ChartDir, totalDeathsChart)
	pctPath := filepath.Join(opts.ChartDir, deathPctChart)
	groupedPath := filepath.Join(opts.ChartDir, militaryCivilianChart)

	labels, military, civilian := militaryCivilianSeries(records, opts.TopN)

	var group errgroup.Group
	group.Go(func() error {
		return chart.SaveBars(
			totalPath,
			fmt.Sprintf("Total deaths by country (at least %.0f)", opts.MinDeaths),
			"Deaths",
			totalDeathBars(records, opts.MinDeaths, opts.TopN),
		)
	})
	group.Go(func() error {
		return chart.SaveBars(
			pctPath,
			"Average deaths as % of 1939 population",
			"% of population",
			deathPctBars(records, opts.TopN),
		)
	})
	group.Go(func() error {
		return chart.SaveGroupedBars(
			groupedPath,
			"Military vs civilian deaths",
			"Deaths",
			labels,
			chart.Series{Name: "Military", Values: military},
			chart.Series{Name: "Civilian", Values: civilian},
		)
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return []string{totalPath, pctPath, groupedPath}, nil
}

// totalDeathBars keeps countries whose total deaths are present and at or
// above minDeaths. Absent figures never pass the threshold.
func totalDeathBars(records []dataset.Record, minDeaths float64, topN int) []chart.Bar {
	bars := []chart.Bar{}
	for _, record := range records {
		if !record.TotalDeaths.Valid || record.TotalDeaths.Value < minDeaths {
			continue
		}

		bars = append(bars, chart.Bar{Label: record.Country, Value: record.TotalDeaths.Value})
	}

	return topBars(bars, topN)
}

func deathPctBars(records []dataset.Record, topN int) []chart.Bar {
	bars := []chart.Bar{}
	for _, record := range records {
		if !record.AverageDeathPctOf1939Pop.Valid {
			continue
		}

		bars = append(bars, chart.Bar{Label: record.Country, Value: record.AverageDeathPctOf1939Pop.Value})
	}

	return topBars(bars, topN)
}

// militaryCivilianSeries pairs military and summed civilian deaths for the
// countries with the highest present total deaths. Countries missing either
// side are skipped rather than drawn as zero.
func militaryCivilianSeries(records []dataset.Record, topN int) ([]string, []float64, []float64) {
	ranked := make([]dataset.Record, 0, len(records))
	for _, record := range records {
		if !record.TotalDeaths.Valid || !record.MilitaryDeaths.Valid {
			continue
		}

		if _, present := record.CivilianDeaths(); !present {
			continue
		}

		ranked = append(ranked, record)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalDeaths.Value > ranked[j].TotalDeaths.Value
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	labels := make([]string, 0, len(ranked))
	military := make([]float64, 0, len(ranked))
	civilian := make([]float64, 0, len(ranked))
	for _, record := range ranked {
		civilianTotal, _ := record.CivilianDeaths()
		labels = append(labels, record.Country)
		military = append(military, record.MilitaryDeaths.Value)
		civilian = append(civilian, civilianTotal)
	}

	return labels, military, civilian
}

func topBars(bars []chart.Bar, topN int) []chart.Bar {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Value > bars[j].Value
	})

	if len(bars) > topN {
		bars = bars[:topN]
	}

	return bars
}
