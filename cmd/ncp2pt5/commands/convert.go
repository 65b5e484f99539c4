package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/leftmike/pt5/internal/batch"
	"github.com/leftmike/pt5/internal/logger"
)

func (a *app) convertCmd() *cobra.Command {
	var outDir, ext string

	cmd := &cobra.Command{
		Use:   "convert <file.ncp>... | -",
		Short: "Convert NCP files to PT5",
		Long: `Convert each NCP file to a PT5 file with the same name and the output
extension. With -, read a program from stdin and write it to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Named("convert")

			if len(args) == 1 && args[0] == "-" {
				_, err := batch.Convert(cmd.InOrStdin(), cmd.OutOrStdout(), log)
				return err
			}

			if !cmd.Flags().Changed("output-dir") {
				outDir = a.cfg.Output.Dir
			}
			if !cmd.Flags().Changed("ext") {
				ext = a.cfg.Output.Extension
			}
			if err := ensureDir(outDir); err != nil {
				return err
			}

			var jobs []batch.Job
			for _, src := range args {
				jobs = append(jobs, batch.Job{
					Source: src,
					Target: batch.TargetPath(src, outDir, ext),
				})
			}

			results := batch.ConvertAll(cmd.Context(), jobs, a.cfg.Convert.Workers, log)

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed += 1
					pterm.Error.WithWriter(cmd.ErrOrStderr()).Printfln("%s: %v", r.Source, r.Err)
					for _, hint := range errors.GetAllHints(r.Err) {
						pterm.Info.WithWriter(cmd.ErrOrStderr()).Println(hint)
					}
					continue
				}
				pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s -> %s (%d commands)",
					r.Source, r.Target, r.PT5Commands)
			}
			if failed > 0 {
				return errors.Newf("%d of %d files failed to convert", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "",
		"directory for converted files (default next to the source)")
	cmd.Flags().StringVar(&ext, "ext", "", "extension of converted files (default .pt5)")
	return cmd
}
