package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes a default configuration file to the resolved config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := r.resolveConfigPath(cmd)

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: config file already exists at %s (use --force to overwrite)", shared.ErrInvalidArgument, path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("Created default config at %s\n", path)
	r.writePlain("%s\n", r.palette.Help("Set the playlist id, API key and destination before syncing."))
	return nil
}

// ConfigPath prints the configuration file path that would be used.
func (r *Runner) ConfigPath(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("%s\n", r.resolveConfigPath(cmd))
}

// ConfigShow prints the loaded configuration in its file format, with credentials masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd, false)
	if err != nil {
		return err
	}

	masked := *config
	masked.APIKey = maskSecret(config.APIKey)
	masked.AccessToken = maskSecret(config.AccessToken)

	data, err := shared.EncodeConfig(&masked, r.resolveConfigPath(cmd))
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// maskSecret keeps the last four characters of s; placeholders are shown as is.
func maskSecret(s string) string {
	switch {
	case s == "", s == shared.PlaceholderAPIKey:
		return s
	case len(s) <= 4:
		return strings.Repeat("*", len(s))
	default:
		return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
	}
}
