package commands

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/leftmike/pt5/internal/batch"
	"github.com/leftmike/pt5/internal/logger"
	"github.com/leftmike/pt5/ncp"
	"github.com/leftmike/pt5/preview"
)

func (a *app) previewCmd() *cobra.Command {
	var out string
	var centers, animate bool

	cmd := &cobra.Command{
		Use:   "preview <file.ncp>",
		Short: "Write an HTML preview of an NCP tool path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			if out == "" {
				out = batch.TargetPath(src, "", ".html")
			}
			if filepath.Clean(out) == filepath.Clean(src) {
				return errors.WithHint(errors.Newf("preview %s would overwrite its source", out),
					"use -o to choose another preview file")
			}
			if !cmd.Flags().Changed("centers") {
				centers = a.cfg.Preview.Centers
			}
			if !cmd.Flags().Changed("animate") {
				animate = a.cfg.Preview.Animate
			}

			f, err := os.Open(src)
			if err != nil {
				return errors.Wrap(err, "failed to open source")
			}
			defer f.Close()

			prog, err := ncp.ParseReader(f, ncp.WithLogger(logger.Named("preview")))
			if err != nil {
				return errors.Wrap(err, src)
			}

			w, err := os.Create(out)
			if err != nil {
				return errors.Wrap(err, "failed to create preview")
			}
			err = preview.WriteHTML(w, prog, preview.Options{
				Title:   filepath.Base(src),
				Size:    a.cfg.Preview.Size,
				Scale:   a.cfg.Preview.Scale,
				Centers: centers,
				Animate: animate,
			})
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return errors.Wrapf(err, "failed to write preview %s", out)
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s -> %s", src, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "preview file (default <name>.html)")
	cmd.Flags().BoolVar(&centers, "centers", false, "mark arc centers")
	cmd.Flags().BoolVar(&animate, "animate", false, "draw the path progressively")
	return cmd
}
