package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/leftmike/pt5/internal/batch"
	"github.com/leftmike/pt5/internal/logger"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Convert NCP files in a directory whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			log := logger.Named("watch")

			changed := func(src string) {
				job := batch.Job{
					Source: src,
					Target: batch.TargetPath(src, a.cfg.Output.Dir, a.cfg.Output.Extension),
				}
				if _, err := batch.ConvertFile(job, log); err != nil {
					pterm.Error.WithWriter(cmd.ErrOrStderr()).Printfln("%s: %v", src, err)
					return
				}
				pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s -> %s", job.Source,
					job.Target)
			}

			if err := ensureDir(a.cfg.Output.Dir); err != nil {
				return err
			}

			w, err := batch.NewWatcher(dir,
				time.Duration(a.cfg.Watch.DebounceMS)*time.Millisecond, changed, log)
			if err != nil {
				return err
			}

			pterm.Info.WithWriter(cmd.OutOrStdout()).Printfln("watching %s for %s files", dir,
				batch.SourceExt)
			return w.Run(cmd.Context())
		},
	}
}
