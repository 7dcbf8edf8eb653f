// Package report renders human-readable summaries of simulations, roll
// statistics and played games.
package report

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
	"github.com/lox/crapsdice/internal/simulator"
	"github.com/lox/crapsdice/internal/statistics"
	"github.com/lox/crapsdice/internal/strategy"
)

// Printer writes styled reports to an output.
type Printer struct {
	w      io.Writer
	styles *Styles
}

// New returns a printer for w. With color false, or when w is not a
// terminal, output is plain text.
func New(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, styles: NewStyles(r)}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) header(title string) {
	p.printf("%s\n", p.styles.Header.Render(title))
}

func (p *Printer) section(title string) {
	p.printf("\n%s\n", p.styles.Section.Render("=== "+title+" ==="))
}

func (p *Printer) field(label, format string, args ...any) {
	p.printf("%s %s\n", p.styles.Label.Render(label+":"), fmt.Sprintf(format, args...))
}

// Simulation prints the outcome of a simulator run.
func (p *Printer) Simulation(res *simulator.Result) {
	s := res.Games
	p.header(fmt.Sprintf("Simulation of %s", res.Strategy))
	p.field("Run", "%s (seed %d)", res.RunID, res.Seed)
	p.field("Games", "%d", s.Games)
	p.field("Total time", "%v", res.Duration.Round(time.Millisecond))
	if secs := res.Duration.Seconds(); secs > 0 {
		p.field("Performance", "%.1f games/sec", float64(s.Games)/secs)
	}

	p.section("BANKROLL")
	low, high := s.ConfidenceInterval95()
	p.field("Mean", "%s per game", p.signed(s.Mean()))
	p.field("Median", "%.4f", s.Median())
	p.field("Std Dev", "%.4f", s.StdDev())
	p.field("95% CI", "[%.4f, %.4f]", low, high)
	p.field("Percentiles", "P5=%.2f, P25=%.2f, P75=%.2f, P95=%.2f",
		s.Percentile(0.05), s.Percentile(0.25), s.Percentile(0.75), s.Percentile(0.95))
	p.field("Winners", "%d (%s)", s.Winners, percent(s.Winners, s.Games))
	p.field("Losers", "%d (%s)", s.Losers, percent(s.Losers, s.Games))
	p.field("Best / worst", "%.2f / %.2f", s.MaxWin, s.MaxLoss)
	if !s.IsLedgerBalanced() {
		p.printf("%s\n", p.styles.Loss.Render(fmt.Sprintf("LEDGER MISMATCH: all %.6f, won %.6f, lost %.6f",
			s.AllNet, s.WinNet, s.LossNet)))
	}

	p.section("BETTING")
	p.field("Rolls per game", "%.1f", s.RollsPerGame())
	p.field("Bets placed", "%d", s.Placed)
	p.field("Bets rejected", "%d", s.Rejected)
	p.field("Strategy errors", "%d", s.Errors)

	p.rollSections(res.Rolls)
}

// RollStats prints a summary of aggregated roll statistics.
func (p *Printer) RollStats(stats *statistics.RollStats) {
	p.header("Roll statistics")
	p.field("Rolls", "%d (%d with a point on)", stats.NumRolls.Overall, stats.NumRolls.Point)
	p.rollSections(stats)
}

func (p *Printer) rollSections(stats *statistics.RollStats) {
	p.section("ROLLS")
	total := int(stats.NumRolls.Overall)
	for v := 2; v <= 12; v++ {
		n := stats.Counts[v]
		line := fmt.Sprintf("%2d  %8d  %6s", v, n, percent(int(n), total))
		if hard, ok := stats.CountsHard[v]; ok {
			line += p.styles.Muted.Render(fmt.Sprintf("  hard %d", hard))
		}
		p.printf("%s\n", line)
	}

	p.section("POINTS")
	p.printf("%s\n", p.styles.Muted.Render(fmt.Sprintf("%5s %8s %8s %8s", "point", "est", "won", "lost")))
	for _, pt := range rollevent.PointNumbers {
		p.printf("%5s %8d %s %s\n",
			p.styles.Point.Render(fmt.Sprintf("%5d", pt)),
			stats.Points.Established[pt],
			p.styles.Win.Render(fmt.Sprintf("%8d", stats.Points.Won[pt])),
			p.styles.Loss.Render(fmt.Sprintf("%8d", stats.Points.Lost[pt])))
	}

	p.section("SEVENS")
	for _, pointOnly := range []bool{false, true} {
		label := "RSR"
		if pointOnly {
			label = "RSR (point)"
		}
		rsr, err := stats.RSR(pointOnly)
		if err != nil {
			p.field(label, "%s", p.styles.Muted.Render(err.Error()))
			continue
		}
		p.field(label, "%.3f", rsr)
	}
}

// Strategy prints a compiled strategy in canonical form.
func (p *Printer) Strategy(s *strategy.Strategy) {
	p.header(s.Name)
	p.field("Complexity", "%d", s.Program.Complexity())
	p.printf("%s\n", p.styles.Box.Render(strings.TrimRight(s.Program.String(), "\n")))
}

// Turn prints one roll of a played game.
func (p *Printer) Turn(n int, r dice.Roll, turn strategy.Turn, events []craps.GameEvent, bankroll *big.Rat) {
	p.printf("%s %s\n", p.styles.Muted.Render(fmt.Sprintf("#%d", n)), p.styles.Point.Render(r.String()))
	for _, b := range turn.Placed {
		p.printf("  placed %s\n", b)
	}
	for _, err := range turn.Errors {
		p.printf("  %s\n", p.styles.Loss.Render(err.Error()))
	}
	for _, e := range events {
		p.printf("  %s\n", p.eventStyle(e.EventType()).Render(e.String()))
	}
	p.printf("  %s %s\n", p.styles.Label.Render("bankroll"), craps.FormatAmount(bankroll))
}

func (p *Printer) eventStyle(t craps.EventType) lipgloss.Style {
	switch t {
	case craps.EventTypeBetWon:
		return p.styles.Win
	case craps.EventTypeBetLost:
		return p.styles.Loss
	case craps.EventTypeBetPush:
		return p.styles.Push
	case craps.EventTypePoint:
		return p.styles.Point
	}
	return p.styles.Muted
}

func (p *Printer) signed(v float64) string {
	s := fmt.Sprintf("%+.4f", v)
	switch {
	case v > 0:
		return p.styles.Win.Render(s)
	case v < 0:
		return p.styles.Loss.Render(s)
	}
	return s
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
