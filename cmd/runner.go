package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/downloader"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tagger"
	"github.com/desertthunder/ytsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators left nil are built from the loaded configuration when a command needs them.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette
	source     services.PlaylistService
	downloader downloader.Downloader
	tagger     tagger.Tagger
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Source     services.PlaylistService
	Downloader downloader.Downloader
	Tagger     tagger.Tagger
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    ui.Default(),
		source:     opts.Source,
		downloader: opts.Downloader,
		tagger:     opts.Tagger,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, configCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfigPath picks --config, then the path given to [NewRunner], then the XDG default.
func (r *Runner) resolveConfigPath(cmd *cli.Command) string {
	if p := cmd.String("config"); p != "" {
		return shared.ExpandHome(p)
	}
	if r.configPath != "" {
		return shared.ExpandHome(r.configPath)
	}
	return shared.DefaultConfigPath()
}

// loadConfig returns the injected config or reads it from disk.
//
// With create set, a missing file is written with placeholder values and [shared.ErrMissingConfig] is
// still returned so the user edits it before the first run.
func (r *Runner) loadConfig(cmd *cli.Command, create bool) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := r.resolveConfigPath(cmd)
	config, err := shared.LoadConfig(path)
	if err == nil {
		r.logger.Debug("loaded config", "path", path)
		r.config = config
		return config, nil
	}

	if !create || !errors.Is(err, shared.ErrMissingConfig) {
		return nil, err
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return nil, err
	}
	r.writePlain("Created default config at %s\n", filepath.Dir(path))
	r.writePlain("%s\n", r.palette.Warn("No config, wrote default. Ensure to edit appropriately"))
	return nil, fmt.Errorf("%w: edit %s", shared.ErrMissingConfig, path)
}

func (r *Runner) playlistService(config *shared.Config) services.PlaylistService {
	if r.source != nil {
		return r.source
	}

	switch config.Source {
	case shared.SourceInnertube:
		r.source = services.NewInnertubeService(0)
	default:
		r.source = services.NewYouTubeService(config.APIKey, config.AccessToken, config.AllPages)
	}
	return r.source
}

func (r *Runner) mediaDownloader(config *shared.Config) (downloader.Downloader, error) {
	if r.downloader != nil {
		return r.downloader, nil
	}

	dl, err := downloader.New(config.Downloader.Backend, downloader.Options{
		Command:     config.Downloader.Command,
		AudioFormat: config.Downloader.AudioFormat,
		ExtraArgs:   config.Downloader.ExtraArgs,
		Timeout:     config.Downloader.Timeout.Std(),
	})
	if err != nil {
		return nil, err
	}
	r.downloader = dl
	return dl, nil
}

func (r *Runner) fileTagger(config *shared.Config) (tagger.Tagger, error) {
	if r.tagger != nil {
		return r.tagger, nil
	}

	t, err := tagger.New(config.Tagger.Backend, config.Tagger.Command, config.Tagger.Fallbacks)
	if err != nil {
		return nil, err
	}
	r.tagger = t
	return t, nil
}

// openHistory opens the run history database named by config, applying migrations.
func (r *Runner) openHistory(config *shared.Config) (*sql.DB, *repositories.RunRepository, error) {
	path := config.Database.Path
	if path == "" {
		path = shared.DefaultDatabasePath()
	}

	db, err := shared.OpenHistory(path)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug("opened history", "path", path)
	return db, repositories.NewRunRepository(db), nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.palette.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
