package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pankaj-dahiya-devops/posture/internal/config"
	"github.com/pankaj-dahiya-devops/posture/internal/logging"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/version"
)

var (
	// errEnforcementFailed is returned by scan when the policy's
	// fail_on_severity threshold is met.
	errEnforcementFailed = errors.New("enforcement failed")

	// errUnhealthy is returned by validate after rendering a result with
	// problems.
	errUnhealthy = errors.New("validation failed")
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"concurrency": config.KeyConcurrency,
	"timeout":     config.KeyTimeout,
	"output":      config.KeyOutput,
	"output-file": config.KeyOutputFile,
	"policy":      config.KeyPolicy,
	"color":       config.KeyColor,
	"log-level":   config.KeyLogLevel,
	"log-format":  config.KeyLogFormat,
}

// app carries state shared by every subcommand of one root command.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:               "posture",
		Short:             "posture: security posture checks for Azure, AWS, and Kubernetes",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default $HOME/.config/posture/config.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", logging.FormatConsole, "Log format: console or json")
	pf.String("color", config.ColorAuto, "Colorize output: auto, always, or never")

	root.AddCommand(newScanCmd(a))
	root.AddCommand(newChecksCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// setup binds the executing command's flags to viper, resolves the config,
// and attaches the logger to the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	path, explicit := a.cfgFile, a.cfgFile != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(a.v, path, explicit)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

// colored resolves the color setting for output written to w.
func (a *app) colored(w io.Writer) bool {
	switch a.cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return logging.IsTerminal(w)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// parseProviders converts --provider values, rejecting unknown names.
func parseProviders(values []string) ([]models.Provider, error) {
	var out []models.Provider
	for _, v := range values {
		p, ok := models.ParseProvider(v)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q; valid values: %v", v, models.Providers())
		}
		out = append(out, p)
	}
	return out, nil
}
