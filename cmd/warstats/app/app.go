package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/urfave/cli"

	"warstats/internal/limiter"
	"warstats/pipeline"
)

// Run executes the CLI: it scrapes the casualty table, writes the cleaned
// CSV, renders the charts, and prints a short summary to stdout.
// If URL is missing, it prints help and returns nil.
func Run(args []string, stdout, stderr io.Writer, client *http.Client, clock limiter.Timer) error {
	cliApp := cli.NewApp()
	cliApp.Name = "warstats"
	cliApp.Usage = "scrape WWII casualty figures and render summary charts"
	cliApp.UsageText = "warstats [global options] <url>"
	cliApp.Writer = stdout
	cliApp.ErrWriter = stderr
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "output",
			Usage: "path of the cleaned CSV file",
			Value: "casualties.csv",
		},
		cli.StringFlag{
			Name:  "charts-dir",
			Usage: "directory for rendered charts (empty disables charts)",
			Value: "charts",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Value: 15 * time.Second,
		},
		cli.IntFlag{
			Name:  "retries",
			Usage: "number of retries for failed requests",
			Value: 1,
		},
		cli.DurationFlag{
			Name:  "delay",
			Usage: "delay between request attempts (example: 200ms, 1s)",
			Value: 0 * time.Millisecond,
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
		},
		cli.Float64Flag{
			Name:  "min-deaths",
			Usage: "total-deaths chart threshold",
			Value: 250000,
		},
		cli.IntFlag{
			Name:  "top",
			Usage: "maximum number of countries per chart",
			Value: 12,
		},
	}
	cliApp.Action = func(c *cli.Context) error {
		pageURL := c.Args().First()
		if pageURL == "" {
			_ = cli.ShowAppHelp(c)

			return nil
		}

		client.Timeout = c.Duration("timeout")
		options := optionsFromCLI(c, pageURL, client, clock)

		summary, err := pipeline.Run(context.Background(), options)
		if err != nil {
			return err
		}

		printSummary(stdout, summary)

		return nil
	}

	err := cliApp.Run(args)
	if err != nil {
		return err
	}

	return nil
}

func optionsFromCLI(
	c *cli.Context,
	pageURL string,
	client *http.Client,
	clock limiter.Timer,
) pipeline.Options {
	return pipeline.Options{
		URL:        pageURL,
		OutputCSV:  c.String("output"),
		ChartDir:   c.String("charts-dir"),
		Timeout:    c.Duration("timeout"),
		Retries:    c.Int("retries"),
		Delay:      c.Duration("delay"),
		UserAgent:  c.String("user-agent"),
		MinDeaths:  c.Float64("min-deaths"),
		TopN:       c.Int("top"),
		HTTPClient: client,
		Clock:      clock,
	}
}

func printSummary(stdout io.Writer, summary pipeline.Summary) {
	fmt.Fprintf(stdout, "wrote %s: %d countries\n", summary.CSVPath, summary.Countries)
	if summary.MeanDeathPct.Valid {
		fmt.Fprintf(stdout, "mean deaths as %% of 1939 population: %.2f\n", summary.MeanDeathPct.Value)
	}
	for _, path := range summary.Charts {
		fmt.Fprintf(stdout, "chart: %s\n", path)
	}
}
