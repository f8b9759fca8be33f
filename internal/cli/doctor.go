package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pem/internal/config"
	"github.com/rileyhilliard/pem/internal/doctor"
	"github.com/rileyhilliard/pem/internal/ui"
	"github.com/spf13/cobra"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd checks the settings and the managed files
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check settings and managed files",
	Long: `Check that the settings load, the Prometheus config and both target lists
parse, every host is present in all of them, and the restart program exists.

Nothing is changed unless --fix is given, which creates missing target lists.

Examples:
  pem doctor
  pem doctor --fix
  pem doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout(), doctorFix, doctorJSON)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "create missing target lists")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand runs every check. Broken settings don't stop it: the file
// checks then run against the defaults and SettingsCheck reports the problem.
func doctorCommand(out io.Writer, fix, asJSON bool) error {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	checks := doctor.NewChecks(cfg, cfgFile)
	results := doctor.RunAll(checks)
	if fix {
		results = doctor.FixAll(checks, results)
	}

	if asJSON {
		return outputDoctorJSON(out, checks, results)
	}
	outputDoctorText(out, checks, results, fix)
	return nil
}

// groupResults returns result indices per category, in report order.
func groupResults(checks []doctor.Check) map[string][]int {
	grouped := make(map[string][]int)
	for i, check := range checks {
		cat := check.Category()
		grouped[cat] = append(grouped[cat], i)
	}
	return grouped
}

func outputDoctorJSON(out io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := groupResults(checks)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(grouped)),
	}
	for _, cat := range doctor.CategoryOrder {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		category := CategoryOutput{Name: cat}
		for _, idx := range indices {
			category.Results = append(category.Results, results[idx])
		}
		output.Categories = append(output.Categories, category)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputDoctorText(out io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("pem Diagnostic Report"))
	fmt.Fprintln(out)

	grouped := groupResults(checks)
	for _, category := range doctor.CategoryOrder {
		indices, ok := grouped[category]
		if !ok {
			continue
		}

		fmt.Fprintln(out, headerStyle.Render(category))
		for _, idx := range indices {
			renderCheckResult(out, results[idx])
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, strings.Repeat("━", 60))
	fmt.Fprintln(out)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(out, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(out, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))

		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(out)
}

func renderCheckResult(out io.Writer, result doctor.CheckResult) {
	var symbol string
	var color lipgloss.Color

	switch result.Status {
	case doctor.StatusPass:
		symbol, color = ui.SymbolComplete, ui.ColorSuccess
	case doctor.StatusWarn:
		symbol, color = ui.SymbolWarning, ui.ColorWarning
	default:
		symbol, color = ui.SymbolFail, ui.ColorError
	}

	fmt.Fprintf(out, "  %s %s\n", lipgloss.NewStyle().Foreground(color).Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(out, "    %s\n", mutedStyle.Render(line))
		}
	}
}
