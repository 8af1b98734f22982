package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"snookerviz/internal/chart"
	"snookerviz/internal/clock"
	"snookerviz/internal/configuration"
	"snookerviz/internal/dashboard"
	"snookerviz/internal/filter"
	"snookerviz/internal/predict"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
	"snookerviz/internal/workbook"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// queryFlags are the filter flags shared by compare and matchups.
type queryFlags struct {
	workbook    string
	tournaments []string
	preset      string
	from        string
	to          string
}

func (qf *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&qf.workbook, "workbook", "", "workbook to read (required)")
	cmd.Flags().StringSliceVar(&qf.tournaments, "tournament", nil, "tournament to include, repeatable (default all)")
	cmd.Flags().StringVar(&qf.preset, "preset", string(filter.Last3Months), "preset date range")
	cmd.Flags().StringVar(&qf.from, "from", "", "custom range start, YYYY-MM-DD (overrides --preset)")
	cmd.Flags().StringVar(&qf.to, "to", "", "custom range end, YYYY-MM-DD (overrides --preset)")
	cmd.MarkFlagRequired("workbook")
}

func (qf *queryFlags) query(thresholds stats.Thresholds) (dashboard.Query, error) {
	q := dashboard.Query{Tournaments: qf.tournaments, Thresholds: thresholds}
	if qf.from == "" && qf.to == "" {
		preset, err := filter.ParsePreset(qf.preset)
		if err != nil {
			return q, fmt.Errorf("--preset %q: %w", qf.preset, err)
		}
		q.UsePreset, q.Preset = true, preset
		return q, nil
	}
	var err error
	if q.From, err = parseDay(qf.from); err != nil {
		return q, fmt.Errorf("--from: %w", err)
	}
	if q.To, err = parseDay(qf.to); err != nil {
		return q, fmt.Errorf("--to: %w", err)
	}
	return q, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func load(config *configuration.AppConfig, qf *queryFlags) (*snooker.Dataset, dashboard.Query, error) {
	thresholds, err := config.ThresholdSet()
	if err != nil {
		return nil, dashboard.Query{}, err
	}
	q, err := qf.query(thresholds)
	if err != nil {
		return nil, q, err
	}
	ds, err := workbook.LoadFile(qf.workbook)
	if err != nil {
		return nil, q, err
	}
	return ds, q, nil
}

func newCompareCmd(cfg func() *configuration.AppConfig) *cobra.Command {
	var (
		qf     queryFlags
		a, b   string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the ball proportions of two players",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := cfg()
			ds, q, err := load(config, &qf)
			if err != nil {
				return err
			}
			q.PlayerA, q.PlayerB = a, b

			cmp, err := dashboard.Build(ds, q, (&clock.DefaultClock{}).Now(), config.Chart.Options())
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), cmp)

			if outDir == "" {
				return nil
			}
			for slot, panel := range map[string]dashboard.Panel{"a": cmp.A, "b": cmp.B} {
				path := filepath.Join(outDir, slot+".svg")
				if err := writeChart(path, panel.Chart); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "chart %s written to %s\n", panel.Summary.Player, path)
			}
			return nil
		},
	}
	qf.register(cmd)
	cmd.Flags().StringVar(&a, "a", "", "player A (default first player)")
	cmd.Flags().StringVar(&b, "b", "", "player B (default second player)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory receiving a.svg and b.svg")
	return cmd
}

func printComparison(w io.Writer, cmp *dashboard.Comparison) {
	fmt.Fprintf(w, "%s to %s, %d games\n",
		cmp.Criteria.From.Format(dateLayout), cmp.Criteria.To.Format(dateLayout), cmp.Games)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Ball", "Threshold",
		chart.Title(cmp.A.Summary.Player, cmp.A.Summary.Games, cmp.A.Summary.Frames), "Diff",
		chart.Title(cmp.B.Summary.Player, cmp.B.Summary.Games, cmp.B.Summary.Frames), "Diff",
	})
	for i, ball := range snooker.Balls {
		ca, cb := cmp.A.Comparisons[i], cmp.B.Comparisons[i]
		table.Append([]string{
			string(ball),
			strconv.FormatFloat(cmp.Thresholds[ball], 'f', 3, 64),
			strconv.FormatFloat(ca.Average, 'f', 3, 64), ca.Label,
			strconv.FormatFloat(cb.Average, 'f', 3, 64), cb.Label,
		})
	}
	table.Render()
}

func writeChart(path string, spec chart.Spec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return chart.RenderSVG(f, spec)
}

func newMatchupsCmd(cfg func() *configuration.AppConfig) *cobra.Command {
	var (
		qf    queryFlags
		event string
	)

	cmd := &cobra.Command{
		Use:   "matchups",
		Short: "Predict ball bias for upcoming matchups",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := cfg()
			ds, q, err := load(config, &qf)
			if err != nil {
				return err
			}
			predictor, closeJournal, err := newPredictor(config)
			if err != nil {
				return err
			}
			defer closeJournal()

			ctx, cancel := context.WithTimeout(cmd.Context(), config.Scraper.Timeout+5*time.Second)
			defer cancel()
			report := predictor.Predict(ctx, predict.Request{
				Dataset:    ds,
				Criteria:   dashboard.Criteria(ds, q, (&clock.DefaultClock{}).Now()),
				Thresholds: q.Thresholds,
				Tournament: event,
			})
			if report.Error != "" {
				return errors.New(report.Error)
			}
			printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)
			return nil
		},
	}
	qf.register(cmd)
	cmd.Flags().StringVar(&event, "event", "", "only matchups of this scraped tournament")
	return cmd
}

func printReport(w, warn io.Writer, report predict.Report) {
	for _, msg := range report.Warnings {
		fmt.Fprintln(warn, "warning:", msg)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tournament", "Scheduled", "Player 1", "Player 2", "Over", "Under"})
	for _, p := range report.Predictions {
		var over, under []string
		for _, k := range p.Bias.Keys() {
			signal := fmt.Sprintf("%s %+.2f", k, p.Bias[k])
			switch p.Leanings[k] {
			case predict.LeanOver:
				over = append(over, signal)
			case predict.LeanUnder:
				under = append(under, signal)
			}
		}
		table.Append([]string{
			p.Matchup.Tournament,
			p.Matchup.Scheduled,
			fmt.Sprintf("%s (%d)", p.A.Name, p.SummaryA.Games),
			fmt.Sprintf("%s (%d)", p.B.Name, p.SummaryB.Games),
			strings.Join(over, ", "),
			strings.Join(under, ", "),
		})
	}
	table.Render()
}

func newPlayersCmd(cfg func() *configuration.AppConfig) *cobra.Command {
	var workbookPath string

	cmd := &cobra.Command{
		Use:   "players",
		Short: "List the players and tournaments of a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := workbook.LoadFile(workbookPath)
			if err != nil {
				return err
			}
			printDataset(cmd.OutOrStdout(), ds)
			return nil
		},
	}
	cmd.Flags().StringVar(&workbookPath, "workbook", "", "workbook to read (required)")
	cmd.MarkFlagRequired("workbook")
	return cmd
}

func printDataset(w io.Writer, ds *snooker.Dataset) {
	first, last := ds.DateSpan()
	fmt.Fprintf(w, "%s: %d games from %s to %s, %d rows skipped\n",
		ds.Source, len(ds.Games), first.Format(dateLayout), last.Format(dateLayout), ds.Skipped)

	counts := make(map[string]int)
	for _, g := range ds.Games {
		counts[g.Player1Name]++
		counts[g.Player2Name]++
	}
	players := tablewriter.NewWriter(w)
	players.SetHeader([]string{"Player", "Games"})
	for _, name := range ds.PlayerNames() {
		players.Append([]string{name, strconv.Itoa(counts[name])})
	}
	players.Render()

	tournaments := tablewriter.NewWriter(w)
	tournaments.SetHeader([]string{"Tournament"})
	for _, t := range ds.Tournaments() {
		tournaments.Append([]string{t})
	}
	tournaments.Render()
}
