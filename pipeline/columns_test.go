package pipeline

import (
	"strings"
	"testing"
)

func TestLocateColumns(t *testing.T) {
	t.Parallel()

	header := []string{
		"Country",
		"Total population 1/1/1939",
		"Military deaths from all causes",
		"Civilian deaths due to military activity and crimes against humanity",
		"Civilian deaths due to war-related famine and disease",
		"Total deaths",
		"Deaths as % of 1939 population",
		"Average deaths as % of 1939 population",
	}

	cols, err := locateColumns(header)
	if err != nil {
		t.Fatalf("locateColumns returned error: %v", err)
	}

	want := columnIndexes{
		country:          0,
		totalPop:         1,
		military:         2,
		civilianMilitary: 3,
		civilianFamine:   4,
		totalDeaths:      5,
		deathPct:         6,
		avgDeathPct:      7,
	}
	if cols != want {
		t.Fatalf("columns = %+v\nwant %+v", cols, want)
	}
}

func TestLocateColumnsReordered(t *testing.T) {
	t.Parallel()

	header := []string{
		"Total deaths",
		"Country",
		"Average deaths as % of population",
		"Deaths as % of 1939 population",
		"Civilian deaths due to war-related famine and disease",
		"Civilian deaths due to military activity",
		"Military deaths from all causes",
		"Total population 1/1/1939",
	}

	cols, err := locateColumns(header)
	if err != nil {
		t.Fatalf("locateColumns returned error: %v", err)
	}

	if cols.country != 1 || cols.totalDeaths != 0 || cols.avgDeathPct != 2 || cols.totalPop != 7 {
		t.Fatalf("columns = %+v", cols)
	}
	if cols.civilianFamine != 4 || cols.civilianMilitary != 5 || cols.military != 6 || cols.deathPct != 3 {
		t.Fatalf("columns = %+v", cols)
	}
}

func TestLocateColumnsMissing(t *testing.T) {
	t.Parallel()

	header := []string{"Country", "Total deaths"}

	_, err := locateColumns(header)
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "military deaths") {
		t.Fatalf("error %q should name the missing columns", err)
	}
}
