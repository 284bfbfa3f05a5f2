package pipeline

import (
	"fmt"
	"strings"
)

// columnIndexes locates each record field in the scraped table. The page's
// header strings have shifted over time, so columns are matched by keyword
// rather than exact text; -1 marks a column not found.
type columnIndexes struct {
	country          int
	totalPop         int
	military         int
	civilianMilitary int
	civilianFamine   int
	totalDeaths      int
	deathPct         int
	avgDeathPct      int
}

func locateColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{
		country:          -1,
		totalPop:         -1,
		military:         -1,
		civilianMilitary: -1,
		civilianFamine:   -1,
		totalDeaths:      -1,
		deathPct:         -1,
		avgDeathPct:      -1,
	}

	for i, text := range header {
		key := strings.ToLower(strings.Join(strings.Fields(text), " "))

		// Most specific patterns first: several headers share the words
		// "population", "military" and "deaths".
		switch {
		case cols.avgDeathPct < 0 && strings.Contains(key, "average"):
			cols.avgDeathPct = i
		case cols.deathPct < 0 && strings.Contains(key, "%"):
			cols.deathPct = i
		case cols.totalPop < 0 && strings.Contains(key, "population"):
			cols.totalPop = i
		case cols.totalDeaths < 0 && strings.Contains(key, "total deaths"):
			cols.totalDeaths = i
		case cols.civilianFamine < 0 && strings.Contains(key, "civilian") &&
			(strings.Contains(key, "famine") || strings.Contains(key, "disease")):
			cols.civilianFamine = i
		case cols.civilianMilitary < 0 && strings.Contains(key, "civilian"):
			cols.civilianMilitary = i
		case cols.military < 0 && strings.Contains(key, "military deaths"):
			cols.military = i
		case cols.country < 0 && strings.Contains(key, "country"):
			cols.country = i
		}
	}

	missing := missingColumns(cols)
	if len(missing) > 0 {
		return columnIndexes{}, fmt.Errorf("table is missing columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func missingColumns(cols columnIndexes) []string {
	named := []struct {
		idx  int
		name string
	}{
		{cols.country, "country"},
		{cols.totalPop, "total population"},
		{cols.military, "military deaths"},
		{cols.civilianMilitary, "civilian deaths (military activity)"},
		{cols.civilianFamine, "civilian deaths (famine and disease)"},
		{cols.totalDeaths, "total deaths"},
		{cols.deathPct, "deaths as % of population"},
		{cols.avgDeathPct, "average deaths as % of population"},
	}

	missing := []string{}
	for _, column := range named {
		if column.idx < 0 {
			missing = append(missing, column.name)
		}
	}

	return missing
}
