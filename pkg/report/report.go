package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arnavshah/roster-assign-go/pkg/models"
)

const (
	InvalidDayMessage  = "Invalid day provided. Please choose a valid day number (1-5)."
	NoEligibleMessage  = "No eligible players found for this character."
	UnableToFillMarker = "**Unable to fill**"
)

// Options controls optional report sections
type Options struct {
	Summary bool
}

// Reporter renders day assignments as text
type Reporter struct {
	w       io.Writer
	heading lipgloss.Style
	mission lipgloss.Style
	warning lipgloss.Style
}

// New returns a reporter writing to w. Styling is dropped when w is not a terminal.
func New(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:       w,
		heading: r.NewStyle().Bold(true).Underline(true),
		mission: r.NewStyle().Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Render writes the report for one day
func (r *Reporter) Render(day *models.DayAssignments, opts Options) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n", r.heading.Render(fmt.Sprintf("Assignments for Day %d", day.Day)))

	for _, m := range day.Missions {
		fmt.Fprintf(&b, "\n%s\n", r.mission.Render(fmt.Sprintf("Mission %s:", m.Mission)))
		for _, ra := range m.Requirements {
			r.requirement(&b, ra)
		}
	}

	if opts.Summary {
		r.summary(&b, day)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Reporter) requirement(b *strings.Builder, ra models.RequirementAssignment) {
	req := ra.Requirement
	if ra.UnknownStarType {
		fmt.Fprintf(b, "%s\n", r.warning.Render(fmt.Sprintf(
			"Unknown star type %s for character %s. Please check the requirements.", req.StarType, ra.Character)))
		return
	}

	fmt.Fprintf(b, "\n  %s (%s >= %d):\n", ra.Character, req.StarType.Label(), req.Level)
	if len(ra.Selected) == 0 {
		fmt.Fprintf(b, "    %s\n", NoEligibleMessage)
	}
	for _, slot := range ra.Selected {
		fmt.Fprintf(b, "    %s - Power: %s, %s: %d\n", slot.Player, FormatPower(slot.Power), req.StarType.Label(), slot.Stat)
	}
	for i := 0; i < ra.Unfilled; i++ {
		fmt.Fprintf(b, "    %s\n", UnableToFillMarker)
	}
}

func (r *Reporter) summary(b *strings.Builder, day *models.DayAssignments) {
	fmt.Fprintf(b, "\n%s\n", r.heading.Render("Summary"))

	for _, t := range day.Totals {
		if t.Slots == 0 {
			continue
		}
		fmt.Fprintf(b, "  %s: %d\n", t.Player, t.Slots)
	}
	fmt.Fprintf(b, "  Fairness: %.1f%%\n", day.FairnessScore)

	if len(day.Conflicts) > 0 {
		fmt.Fprintf(b, "\n%s\n", r.mission.Render("Unfilled requirements:"))
		for _, c := range day.Conflicts {
			fmt.Fprintf(b, "  Mission %s, %s: %d unfilled (%s)\n", c.Mission, c.Character, c.Unfilled, strings.Join(c.Reasons, "; "))
		}
	}
}

// InvalidDay writes the invalid day message
func (r *Reporter) InvalidDay() error {
	_, err := fmt.Fprintln(r.w, InvalidDayMessage)
	return err
}

// FormatPower prints whole powers without a decimal part
func FormatPower(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
