package pipeline

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"warstats/internal/chart"
	"warstats/internal/dataset"
)

type fixtureTransport struct {
	status int
	body   []byte
}

func (ft fixtureTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: ft.status,
		Body:       io.NopCloser(strings.NewReader(string(ft.body))),
		Header:     http.Header{},
	}, nil
}

func newFixtureClient(t *testing.T) *http.Client {
	t.Helper()

	path := filepath.Join("..", "testdata", "parser", "casualties.html")
	body, err := os.ReadFile(path)
	require.NoError(t, err)

	return &http.Client{Transport: fixtureTransport{status: http.StatusOK, body: body}}
}

func TestRunWritesCleanedCSV(t *testing.T) {
	t.Parallel()

	outputCSV := filepath.Join(t.TempDir(), "casualties.csv")
	summary, err := Run(context.Background(), Options{
		URL:        "https://example.com/casualties",
		OutputCSV:  outputCSV,
		Timeout:    time.Second,
		HTTPClient: newFixtureClient(t),
	})
	require.NoError(t, err)

	require.Equal(t, 5, summary.Countries)
	require.Equal(t, outputCSV, summary.CSVPath)
	require.Empty(t, summary.Charts)
	require.NotEmpty(t, summary.GeneratedAt)

	records, err := dataset.ReadCSV(outputCSV)
	require.NoError(t, err)
	require.Len(t, records, 5)

	austria := records[0]
	require.Equal(t, "Austria", austria.Country)
	requireFigure(t, austria.TotalPop1939, 6650000)
	requireFigure(t, austria.MilitaryDeaths, 261000)
	requireFigure(t, austria.CivilianDeathsDueToMilitary, 58700)
	require.False(t, austria.CivilianDeathsDueToDiseaseFamine.Valid, "dash cell must be absent")
	requireFigure(t, austria.TotalDeaths, 319700)
	requireFigure(t, austria.DeathPctOf1939Pop, 4.8)
	requireFigure(t, austria.AverageDeathPctOf1939Pop, (4.62+4.97)/2)

	soviet := records[2]
	require.Equal(t, "Soviet Union", soviet.Country)
	requireFigure(t, soviet.MilitaryDeaths, 10034000)
	requireFigure(t, soviet.CivilianDeathsDueToMilitary, 7250000)
	requireFigure(t, soviet.CivilianDeathsDueToDiseaseFamine, 8500000)
	requireFigure(t, soviet.TotalDeaths, 23500000)
	requireFigure(t, soviet.AverageDeathPctOf1939Pop, (16.7+25.2)/2)

	newfoundland := records[3]
	require.Equal(t, "Newfoundland", newfoundland.Country)
	require.False(t, newfoundland.CivilianDeathsDueToMilitary.Valid)
	require.False(t, newfoundland.CivilianDeathsDueToDiseaseFamine.Valid)
	requireFigure(t, newfoundland.TotalDeaths, 1100)

	// Padded short row survives with absent figures.
	malta := records[4]
	require.Equal(t, "Malta", malta.Country)
	require.False(t, malta.TotalDeaths.Valid)

	requireFigure(t, summary.MeanDeathPct, (4.795+0.91+20.95+0.35)/4)
}

func TestRunMeanDeathPctAbsentWhenNoPercentages(t *testing.T) {
	t.Parallel()

	body := []byte(`<html><body><table class="wikitable">
		<tr>
			<th>Country</th>
			<th>Total population 1/1/1939</th>
			<th>Military deaths from all causes</th>
			<th>Civilian deaths due to military activity</th>
			<th>Civilian deaths due to war-related famine and disease</th>
			<th>Total deaths</th>
			<th>Deaths as % of 1939 population</th>
			<th>Average deaths as % of 1939 population</th>
		</tr>
		<tr>
			<td>Elbonia</td><td>1,000,000</td><td>10,000</td><td>5,000</td>
			<td>2,000</td><td>17,000</td><td>unknown</td><td>unknown</td>
		</tr>
	</table></body></html>`)
	client := &http.Client{Transport: fixtureTransport{status: http.StatusOK, body: body}}

	summary, err := Run(context.Background(), Options{
		URL:        "https://example.com/casualties",
		OutputCSV:  filepath.Join(t.TempDir(), "out.csv"),
		HTTPClient: client,
	})
	require.NoError(t, err)

	// No country has a parseable percentage; the mean is absent, not 0.
	require.False(t, summary.MeanDeathPct.Valid)
}

func TestRunRendersCharts(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	chartDir := filepath.Join(tmp, "charts")
	summary, err := Run(context.Background(), Options{
		URL:        "https://example.com/casualties",
		OutputCSV:  filepath.Join(tmp, "casualties.csv"),
		ChartDir:   chartDir,
		MinDeaths:  250000,
		Timeout:    time.Second,
		HTTPClient: newFixtureClient(t),
	})
	require.NoError(t, err)
	require.Len(t, summary.Charts, 3)

	for _, path := range summary.Charts {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}

func TestRunValidatesOptions(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Options{HTTPClient: &http.Client{}})
	require.EqualError(t, err, "url is required")

	_, err = Run(context.Background(), Options{URL: "https://example.com/"})
	require.EqualError(t, err, "http client is required")
}

func TestRunFailsOnPageWithoutTable(t *testing.T) {
	t.Parallel()

	client := &http.Client{Transport: fixtureTransport{
		status: http.StatusOK,
		body:   []byte("<html><body><p>moved</p></body></html>"),
	}}

	_, err := Run(context.Background(), Options{
		URL:        "https://example.com/casualties",
		OutputCSV:  filepath.Join(t.TempDir(), "out.csv"),
		HTTPClient: client,
	})
	require.ErrorContains(t, err, "extract table")
}

func TestTotalDeathBarsThreshold(t *testing.T) {
	t.Parallel()

	records := []dataset.Record{
		{Country: "Above", TotalDeaths: dataset.Figure{Value: 300000, Valid: true}},
		{Country: "Below", TotalDeaths: dataset.Figure{Value: 100000, Valid: true}},
		{Country: "Absent"},
		{Country: "Biggest", TotalDeaths: dataset.Figure{Value: 900000, Valid: true}},
	}

	bars := totalDeathBars(records, 250000, 10)
	require.Equal(t, []chart.Bar{
		{Label: "Biggest", Value: 900000},
		{Label: "Above", Value: 300000},
	}, bars)
}

func TestTotalDeathBarsCapsTopN(t *testing.T) {
	t.Parallel()

	records := []dataset.Record{
		{Country: "A", TotalDeaths: dataset.Figure{Value: 1, Valid: true}},
		{Country: "B", TotalDeaths: dataset.Figure{Value: 3, Valid: true}},
		{Country: "C", TotalDeaths: dataset.Figure{Value: 2, Valid: true}},
	}

	bars := totalDeathBars(records, 0, 2)
	require.Len(t, bars, 2)
	require.Equal(t, "B", bars[0].Label)
}

func TestMilitaryCivilianSeriesSkipsIncomplete(t *testing.T) {
	t.Parallel()

	records := []dataset.Record{
		{
			Country:                     "Complete",
			TotalDeaths:                 dataset.Figure{Value: 500, Valid: true},
			MilitaryDeaths:              dataset.Figure{Value: 300, Valid: true},
			CivilianDeathsDueToMilitary: dataset.Figure{Value: 200, Valid: true},
		},
		{
			Country:     "NoMilitary",
			TotalDeaths: dataset.Figure{Value: 400, Valid: true},
		},
		{
			Country:        "NoCivilian",
			TotalDeaths:    dataset.Figure{Value: 400, Valid: true},
			MilitaryDeaths: dataset.Figure{Value: 400, Valid: true},
		},
	}

	labels, military, civilian := militaryCivilianSeries(records, 10)
	require.Equal(t, []string{"Complete"}, labels)
	require.Equal(t, []float64{300}, military)
	require.Equal(t, []float64{200}, civilian)
}

func requireFigure(t *testing.T, got dataset.Figure, want float64) {
	t.Helper()

	require.True(t, got.Valid, "figure should be present")
	require.InDelta(t, want, got.Value, 1e-9)
}
