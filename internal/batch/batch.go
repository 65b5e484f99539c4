// Package batch converts NCP files on disk to PT5.
package batch

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leftmike/pt5/convert"
	"github.com/leftmike/pt5/ncp"
)

const SourceExt = ".ncp"

type Job struct {
	Source string
	Target string
}

type Stats struct {
	NCPCommands int
	PT5Commands int
	Bytes       int64
}

type Result struct {
	Job
	Stats
	Err error
}

// TargetPath derives the output path of src: the same name with ext as the
// extension, in dir if dir is not empty.
func TargetPath(src, dir, ext string) string {
	target := strings.TrimSuffix(src, filepath.Ext(src)) + ext
	if dir != "" {
		target = filepath.Join(dir, filepath.Base(target))
	}
	return target
}

// IsSource reports whether path names an NCP file.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceExt)
}

// Convert reads an NCP program from r and writes it to w as PT5.
func Convert(r io.Reader, w io.Writer, log *zap.SugaredLogger) (Stats, error) {
	prog, err := ncp.ParseReader(r, ncp.WithLogger(log))
	if err != nil {
		return Stats{}, err
	}
	out := convert.ToPT5(prog, convert.WithLogger(log))

	bw := bufio.NewWriter(w)
	n, err := out.WriteTo(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to write output")
	}

	return Stats{
		NCPCommands: len(prog.Commands),
		PT5Commands: len(out.Commands),
		Bytes:       n,
	}, nil
}

// ConvertFile converts job.Source into job.Target. The target is only
// replaced once the whole program has been converted.
func ConvertFile(job Job, log *zap.SugaredLogger) (Stats, error) {
	src, err := os.Open(job.Source)
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to open source")
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(job.Target), "."+filepath.Base(job.Target)+".*")
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to create target")
	}
	defer os.Remove(tmp.Name())

	stats, err := Convert(src, tmp, log.With("file", job.Source))
	if err != nil {
		tmp.Close()
		return Stats{}, errors.Wrap(err, "failed to convert")
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return Stats{}, errors.Wrap(err, "failed to set target mode")
	}
	if err := tmp.Close(); err != nil {
		return Stats{}, errors.Wrap(err, "failed to close target")
	}
	if err := os.Rename(tmp.Name(), job.Target); err != nil {
		return Stats{}, errors.Wrap(err, "failed to replace target")
	}

	log.Infow("converted", "source", job.Source, "target", job.Target,
		"ncp_commands", stats.NCPCommands, "pt5_commands", stats.PT5Commands)
	return stats, nil
}

// ConvertAll converts jobs with at most workers running at once. A failed
// job does not stop the others; results are in the order of jobs. Jobs not
// started when ctx is done fail with the context's error.
func ConvertAll(ctx context.Context, jobs []Job, workers int, log *zap.SugaredLogger) []Result {
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	results := make([]Result, len(jobs))
	for jdx, job := range jobs {
		g.Go(func() error {
			results[jdx].Job = job
			if err := ctx.Err(); err != nil {
				results[jdx].Err = err
				return nil
			}
			results[jdx].Stats, results[jdx].Err = ConvertFile(job, log)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
