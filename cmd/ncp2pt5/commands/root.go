package commands

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/leftmike/pt5/internal/config"
	"github.com/leftmike/pt5/internal/logger"
)

type app struct {
	configPath string
	jsonLog    bool
	verbosity  int
	cfg        *config.Config
}

// NewRootCmd returns the ncp2pt5 command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ncp2pt5",
		Short: "Convert NCP motion programs to PT5",
		Long: `ncp2pt5 converts CNC motion programs written in the NCP dialect into the
PT5 dialect. PT5 programs are always delta encoded, in micrometers.

Examples:
  ncp2pt5 convert part.ncp           # writes part.pt5
  ncp2pt5 convert -o out/ *.ncp      # writes out/<name>.pt5
  ncp2pt5 convert - < part.ncp       # reads stdin, writes stdout
  ncp2pt5 preview part.ncp           # writes part.html
  ncp2pt5 watch jobs/                # converts files as they change
  ncp2pt5 config show                # prints the effective configuration`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "",
		"config file (default ./"+config.FileName+" or the user config directory)")
	flags.BoolVar(&a.jsonLog, "json-log", false, "log as JSON")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")

	root.AddCommand(a.convertCmd())
	root.AddCommand(a.previewCmd())
	root.AddCommand(a.watchCmd())
	root.AddCommand(a.configCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	return logger.Initialize(cfg.Log.JSON || a.jsonLog, a.verbosity)
}

// ensureDir creates the output directory, if one is set.
func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}
	return nil
}
