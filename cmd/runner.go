package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ShadyBoukhary/traktarr/internal/filters"
	"github.com/ShadyBoukhary/traktarr/internal/formatter"
	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/notify"
	"github.com/ShadyBoukhary/traktarr/internal/omdb"
	"github.com/ShadyBoukhary/traktarr/internal/pvr"
	"github.com/ShadyBoukhary/traktarr/internal/repositories"
	"github.com/ShadyBoukhary/traktarr/internal/scheduler"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
	"github.com/ShadyBoukhary/traktarr/internal/tasks"
	"github.com/ShadyBoukhary/traktarr/internal/tmdb"
	"github.com/ShadyBoukhary/traktarr/internal/trakt"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		showCommand, movieCommand, showsCommand, moviesCommand,
		runCommand, traktAuthCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// loadConfig loads and validates the configuration named by the command's
// --config flag. An injected config (tests) wins.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if r.config != nil {
		return nil
	}

	path := cmd.String("config")
	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load %s (run `traktarr setup` to create one): %w", path, err)
	}
	r.config = config
	r.configPath = path

	if config.Core.Debug {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return nil
}

// dependencies bundles the constructed service clients for one invocation.
type dependencies struct {
	engine   *tasks.Engine
	history  *repositories.HistoryRepository
	notifier *notify.Dispatcher
	close    func()
}

// buildDependencies wires the engine from the loaded config.
func (r *Runner) buildDependencies() (*dependencies, error) {
	db, err := shared.NewDatabase(r.config.History.Path)
	if err != nil {
		return nil, err
	}
	history, err := repositories.NewHistoryRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	agents := []notify.Notifier{}
	if w := notify.NewWebhook(r.config.Notifications.Webhook); w != nil {
		agents = append(agents, w)
	}
	if p := notify.NewPushover(r.config.Notifications.Pushover); p != nil {
		agents = append(agents, p)
	}

	engine := tasks.NewEngine(
		r.config,
		trakt.NewClient(r.config.Trakt),
		pvr.NewSonarr(r.config.Sonarr),
		pvr.NewRadarr(r.config.Radarr),
		omdb.NewClient(r.config.OMDB),
		tmdb.NewClient(r.config.TMDB),
		history,
		r.logger,
	)

	return &dependencies{
		engine:   engine,
		history:  history,
		notifier: notify.NewDispatcher(r.logger, agents...),
		close:    func() { db.Close() },
	}, nil
}

// batchOptions maps batch command flags onto pipeline options.
func batchOptions(cmd *cli.Command, kind models.Kind) tasks.ProcessOptions {
	return tasks.ProcessOptions{
		Kind:             kind,
		List:             cmd.String("list"),
		Person:           cmd.String("person"),
		IncludeNonActing: cmd.Bool("include-non-acting"),
		AuthenticateUser: cmd.String("authenticate-user"),
		Limit:            int(cmd.Int("add-limit")),
		Delay:            cmd.Float("add-delay"),
		Sort:             filters.SortKey(cmd.String("sort")),
		Years:            cmd.String("years"),
		Genres:           cmd.StringSlice("genres"),
		Folder:           cmd.String("folder"),
		NoSearch:         cmd.Bool("no-search"),
		DryRun:           cmd.Bool("dry-run"),
		IgnoreBlacklist:  cmd.Bool("ignore-blacklist"),
		RemoveRejected:   cmd.Bool("remove-rejected-from-recommended"),
	}
}

// Shows runs the batch pipeline for a show list.
func (r *Runner) Shows(ctx context.Context, cmd *cli.Command) error {
	return r.runBatch(ctx, cmd, models.KindShow)
}

// Movies runs the batch pipeline for a movie list.
func (r *Runner) Movies(ctx context.Context, cmd *cli.Command) error {
	return r.runBatch(ctx, cmd, models.KindMovie)
}

func (r *Runner) runBatch(ctx context.Context, cmd *cli.Command, kind models.Kind) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	opts := batchOptions(cmd, kind)
	if opts.Sort != "" && !opts.Sort.Valid() {
		return fmt.Errorf("%w: unknown sort %q", shared.ErrInvalidArgument, opts.Sort)
	}
	if !trakt.IsPublicList(opts.List) && opts.AuthenticateUser == "" {
		r.logger.Debug("user list requested without --authenticate-user, using the token owner", "list", opts.List)
	}

	deps, err := r.buildDependencies()
	if err != nil {
		return err
	}
	defer deps.close()

	events := make(chan tasks.Event, 256)
	done := make(chan struct{})
	go r.printEvents(events, done)

	result, err := deps.engine.Process(ctx, events, opts)
	close(events)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("%s", formatter.RunSummary(result))
	if result != nil && r.shouldNotify(result.Added) && deps.notifier.Enabled() {
		deps.notifier.Send(ctx, formatter.NotificationMessage(result))
	}
	return nil
}

// shouldNotify reports whether a run summary notification goes out: always
// when something was added, and on every run in verbose mode.
func (r *Runner) shouldNotify(added int) bool {
	return r.config.Notifications.Verbose || added > 0
}

// printEvents renders per-item pipeline events until the channel closes.
// Only verbose mode shows them; the run summary always prints.
func (r *Runner) printEvents(events <-chan tasks.Event, done chan<- struct{}) {
	defer close(done)
	for ev := range events {
		if !r.config.Notifications.Verbose {
			continue
		}
		if line := formatter.ItemLine(ev); line != "" {
			r.writePlainln(line)
		}
	}
}

// Show adds one show by Trakt id or slug.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	return r.addSingle(ctx, cmd, models.KindShow)
}

// Movie adds one movie by Trakt id or slug.
func (r *Runner) Movie(ctx context.Context, cmd *cli.Command) error {
	return r.addSingle(ctx, cmd, models.KindMovie)
}

func (r *Runner) addSingle(ctx context.Context, cmd *cli.Command, kind models.Kind) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	deps, err := r.buildDependencies()
	if err != nil {
		return err
	}
	defer deps.close()

	opts := tasks.AddOptions{
		Folder:   cmd.String("folder"),
		NoSearch: cmd.Bool("no-search"),
		DryRun:   cmd.Bool("dry-run"),
	}

	var item *models.Media
	if kind == models.KindShow {
		item, err = deps.engine.AddShow(ctx, cmd.String("id"), opts)
	} else {
		item, err = deps.engine.AddMovie(ctx, cmd.String("id"), opts)
	}
	if err != nil {
		return err
	}

	verb := "Added"
	if opts.DryRun {
		verb = "Would have added"
	}
	return r.writePlainln("%s %s", verb, formatter.MediaLabel(item))
}

// Run starts automatic mode: recurring sweeps of the configured lists.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	deps, err := r.buildDependencies()
	if err != nil {
		return err
	}
	defer deps.close()

	dryRun := cmd.Bool("dry-run")
	noSearch := cmd.Bool("no-search")
	runNow := cmd.Bool("run-now")
	delay := cmd.Float("add-delay")

	sweep := func(kind models.Kind, scope tasks.Scope) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			result, err := deps.engine.Automatic(ctx, nil, tasks.AutomaticOptions{
				Kind:     kind,
				Scope:    scope,
				Delay:    delay,
				DryRun:   dryRun,
				NoSearch: noSearch,
			})
			if err != nil {
				return err
			}
			if r.shouldNotify(result.Added) && deps.notifier.Enabled() {
				deps.notifier.Send(ctx, fmt.Sprintf("Automatic mode added %d %s", result.Added, kind.Plural()))
			}
			return nil
		}
	}

	sched := scheduler.New(r.logger, nil)
	if delay > 0 {
		sched.Spacing = time.Duration(delay * float64(time.Second))
	}
	for _, task := range []struct {
		name     string
		kind     models.Kind
		scope    tasks.Scope
		interval float64 // hours
	}{
		{"shows/public", models.KindShow, tasks.PublicLists, r.config.Automatic.Shows.Intervals.PublicLists},
		{"shows/user", models.KindShow, tasks.UserLists, r.config.Automatic.Shows.Intervals.UserLists},
		{"movies/public", models.KindMovie, tasks.PublicLists, r.config.Automatic.Movies.Intervals.PublicLists},
		{"movies/user", models.KindMovie, tasks.UserLists, r.config.Automatic.Movies.Intervals.UserLists},
	} {
		if task.interval <= 0 {
			continue
		}
		sched.Add(scheduler.Task{
			Name:     task.name,
			Interval: hoursToDuration(task.interval),
			RunNow:   runNow,
			Run:      sweep(task.kind, task.scope),
		})
	}

	err = sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		r.logger.Info("automatic mode stopped")
		return nil
	}
	return err
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// TraktAuth runs the OAuth device flow and prints the resulting token for
// the config file.
func (r *Runner) TraktAuth(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	client := trakt.NewClient(r.config.Trakt)
	token, err := client.DeviceAuth(ctx, func(userCode, verificationURL string) {
		r.writePlainln("Visit %s and enter code: %s", verificationURL, userCode)
		r.writePlainln("Waiting for approval...")
	})
	if err != nil {
		return err
	}

	r.writePlainln("Authentication successful.")
	r.writePlainln("Set trakt.access_token in %s to:\n\n  %s", cmd.String("config"), token.AccessToken)
	return nil
}

// History prints the recorded adds.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	deps, err := r.buildDependencies()
	if err != nil {
		return err
	}
	defer deps.close()

	var kind models.Kind
	switch cmd.String("type") {
	case "show", "shows":
		kind = models.KindShow
	case "movie", "movies":
		kind = models.KindMovie
	case "":
	default:
		return fmt.Errorf("%w: unknown media type %q", shared.ErrInvalidArgument, cmd.String("type"))
	}

	entries, err := deps.history.Recent(kind, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if err := r.writePlain("%s", formatter.HistoryTable(entries)); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	total, err := deps.history.Count(kind)
	if err != nil {
		return err
	}
	return r.writePlainln("%d of %d recorded adds shown.", len(entries), total)
}

// Setup writes a starter config file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlainln("Created %s, fill in your credentials before running.", path)
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}
