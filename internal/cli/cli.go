package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-assign-go/internal/config"
	"github.com/arnavshah/roster-assign-go/internal/logging"
	"github.com/arnavshah/roster-assign-go/pkg/loader"
	"github.com/arnavshah/roster-assign-go/pkg/names"
	"github.com/arnavshah/roster-assign-go/pkg/report"
	"github.com/arnavshah/roster-assign-go/pkg/requirements"
	"github.com/arnavshah/roster-assign-go/pkg/roster"
	"github.com/arnavshah/roster-assign-go/pkg/scheduler"
	"github.com/arnavshah/roster-assign-go/pkg/validate"
)

const dayPrompt = "Enter the day number (1-5) for assignments: "

// ErrInvalidInput is returned when the entered day is not a number
var ErrInvalidInput = errors.New("invalid input")

// UserError carries the message shown to the operator
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// App holds the dependencies shared by the commands. Zero values are filled
// in from the configuration.
type App struct {
	Logger *zap.Logger
	Source loader.Source

	configPath  string
	dataDir     string
	source      string
	day         int
	summary     bool
	enforceCap  bool
	verbose     bool
	ownedLogger bool
}

// NewRootCommand builds the assign command and its subcommands
func NewRootCommand(app *App) *cobra.Command {
	if app == nil {
		app = &App{}
	}

	root := &cobra.Command{
		Use:   "assign",
		Short: "Assign alliance members to mission slots",
		Long: `Reads the alliance roster, the mission requirements and the character name
map, then lists the lowest-power eligible players for every character
requirement of the chosen day.

Run without --day to be prompted for the day number.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runAssign(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.ownedLogger && app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "path to a YAML config file (default roster.yaml)")
	pf.StringVar(&app.dataDir, "data-dir", "", "directory holding the CSV datasets")
	pf.StringVar(&app.source, "source", "", "dataset source: csv or sql")
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")

	f := root.Flags()
	f.IntVarP(&app.day, "day", "d", 0, "day number to assign (prompted when omitted)")
	f.BoolVar(&app.summary, "summary", false, "print per-player totals and unfilled requirements")
	f.BoolVar(&app.enforceCap, "enforce-cap", false, "count every filled slot against the per-player assignment cap")

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the datasets for structural problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runValidate(cmd)
		},
	})

	return root
}

func (a *App) setup(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("source") {
		cfg.Source = a.source
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if f := flags.Lookup("enforce-cap"); f != nil && f.Changed {
		cfg.EnforceAssignmentCap = a.enforceCap
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if a.Logger == nil {
		logger, err := logging.New(cfg.Verbose)
		if err != nil {
			return cfg, err
		}
		a.Logger = logger
		a.ownedLogger = true
	}
	return cfg, nil
}

func (a *App) dataSource(cfg config.Config) (loader.Source, error) {
	if a.Source != nil {
		return a.Source, nil
	}
	if cfg.Source == config.SourceSQL {
		db, err := loader.OpenDB(cfg.DatabaseURL, cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return loader.NewSQLSource(db), nil
	}
	return cfg.CSVSource(), nil
}

func (a *App) load(ctx context.Context, cfg config.Config) (*loader.Dataset, error) {
	src, err := a.dataSource(cfg)
	if err != nil {
		a.Logger.Debug("open source failed", zap.Error(err))
		return nil, loadFailure(err, cfg)
	}
	ds, err := src.Load(ctx)
	if err != nil {
		a.Logger.Debug("load failed", zap.Error(err))
		return nil, loadFailure(err, cfg)
	}
	a.Logger.Debug("datasets loaded",
		zap.String("source", cfg.Source),
		zap.Int("roster", len(ds.Roster)),
		zap.Int("requirements", len(ds.Requirements)),
		zap.Int("names", len(ds.Names)))
	return ds, nil
}

func loadFailure(err error, cfg config.Config) error {
	var msg string
	sql := cfg.Source == config.SourceSQL
	switch {
	case errors.Is(err, loader.ErrMissing) && sql:
		msg = "Error: The database or one of the tables 'alliance', 'requirements', and 'names_map' was not found."
	case errors.Is(err, loader.ErrMissing):
		msg = fmt.Sprintf("Error: One or more CSV files were not found. Please make sure '%s', '%s', and '%s' are in the same directory.",
			cfg.RosterFile, cfg.RequirementsFile, cfg.NamesFile)
	case (errors.Is(err, loader.ErrEmpty) || errors.Is(err, names.ErrNoMappings)) && sql:
		msg = "Error: One or more tables are empty."
	case errors.Is(err, loader.ErrEmpty), errors.Is(err, names.ErrNoMappings):
		msg = "Error: One or more CSV files are empty."
	default:
		msg = "Error: " + err.Error()
	}
	return &UserError{Message: msg, Err: err}
}

func (a *App) runAssign(cmd *cobra.Command) error {
	cfg, err := a.setup(cmd)
	if err != nil {
		return err
	}

	ds, err := a.load(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	resolver, err := names.New(ds.Names)
	if err != nil {
		return loadFailure(err, cfg)
	}

	day := a.day
	if !cmd.Flags().Changed("day") {
		if day, err = promptDay(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	s := scheduler.NewScheduler(
		roster.New(ds.Roster),
		requirements.Build(ds.Requirements, resolver),
		resolver,
		cfg.SchedulerOptions(),
	)
	s.Logger = a.Logger

	reporter := report.New(cmd.OutOrStdout())
	result, err := s.ProcessAssignments(day)
	if errors.Is(err, scheduler.ErrInvalidDay) {
		a.Logger.Debug("no requirements for day", zap.Int("day", day))
		return reporter.InvalidDay()
	}
	if err != nil {
		return err
	}
	return reporter.Render(result, report.Options{Summary: a.summary})
}

func promptDay(in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, dayPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	day, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, &UserError{Message: "Invalid input. Please enter a numeric day value (1-5).", Err: ErrInvalidInput}
	}
	return day, nil
}

func (a *App) runValidate(cmd *cobra.Command) error {
	cfg, err := a.setup(cmd)
	if err != nil {
		return err
	}

	ds, err := a.load(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	res := validate.Check(ds)
	out := cmd.OutOrStdout()
	for _, issue := range res.Issues {
		if issue.Row > 0 {
			fmt.Fprintf(out, "%s: %s row %d: %s\n", issue.Severity, issue.Dataset, issue.Row, issue.Message)
		} else {
			fmt.Fprintf(out, "%s: %s: %s\n", issue.Severity, issue.Dataset, issue.Message)
		}
	}
	fmt.Fprintf(out, "%d players, %d characters, %d requirement rows over %d days, %d name mappings\n",
		res.Stats.Players, res.Stats.Characters, res.Stats.RequirementRows, res.Stats.Days, res.Stats.NameMappings)

	if !res.Valid {
		return &UserError{Message: "Error: The datasets failed validation."}
	}
	fmt.Fprintln(out, "Datasets are valid.")
	return nil
}
