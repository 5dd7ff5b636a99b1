// Package batch implements wring subcommand: it reads stylesheets, runs them
// through the engine and writes results.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/h2non/filetype"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cssw/archive"
	"cssw/config"
	"cssw/css"
	"cssw/state"
	"cssw/wring"
)

// Flags returns command line flags understood by Run.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "preserve-hacks", Aliases: []string{"ph"}, Usage: `keep "*prop", "_prop" and "prop/**/:" hacks`},
		&cli.BoolFlag{Name: "remove-all-comments", Aliases: []string{"rc"}, Usage: `remove "/*! */" comments as well, source map annotations are always kept`},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
		&cli.StringFlag{Name: "suffix", Usage: "treat all arguments as inputs, write results next to them replacing extension with `SUFFIX`"},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "process up to `N` stylesheets at once"},
		&cli.StringFlag{Name: "charset", Usage: "`ENCODING` of inputs without @charset rule (see IANA.org for character set names)"},
	}
}

// Run is the action of wring subcommand.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("wring")

	if err := applyFlags(env, cmd); err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return errors.New("no input source has been specified")
	}

	jobs, err := plan(args, cmd.IsSet("suffix"), env.Suffix)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.Int("inputs", len(jobs)), zap.Int("parallel", env.Parallel),
		zap.Bool("preserve_hacks", env.Options.PreserveHacks), zap.Bool("remove_all_comments", env.Options.RemoveAllComments))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	r := &runner{env: env, log: log, stdin: os.Stdin, stdout: os.Stdout}
	return r.run(ctx, jobs)
}

// applyFlags puts explicitly specified flags on top of configured values.
func applyFlags(env *state.LocalEnv, cmd *cli.Command) error {
	if cmd.IsSet("preserve-hacks") {
		env.Options.PreserveHacks = cmd.Bool("preserve-hacks")
	}
	if cmd.IsSet("remove-all-comments") {
		env.Options.RemoveAllComments = cmd.Bool("remove-all-comments")
	}
	if cmd.IsSet("overwrite") {
		env.Overwrite = cmd.Bool("overwrite")
	}
	if cmd.IsSet("suffix") {
		if s := cmd.String("suffix"); len(s) > 0 {
			env.Suffix = s
		}
	}
	if cmd.IsSet("jobs") {
		if n := cmd.Int("jobs"); n > 0 {
			env.Parallel = n
		}
	}
	if cmd.IsSet("charset") {
		if err := env.SetCodePage(cmd.String("charset")); err != nil {
			return err
		}
	}
	return nil
}

type runner struct {
	env    *state.LocalEnv
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer

	outMu sync.Mutex
}

// run processes jobs in parallel. Failure of a single stylesheet does not stop
// others, all errors are returned together.
func (r *runner) run(ctx context.Context, jobs []job) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.env.Parallel))

	var (
		mu   sync.Mutex
		errs error
	)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.process(gctx, i, j); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errs
}

// process handles single stylesheet, idx is used to keep report entries apart.
func (r *runner) process(ctx context.Context, idx int, j job) (rerr error) {
	log := r.log.With(zap.String("from", j.name()))

	log.Debug("Wringing starting")
	defer func(start time.Time) {
		if rec := recover(); rec != nil {
			log.Error("Wringing ended with panic",
				zap.Any("panic", rec), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("wringing panic (%s): %v", j.name(), rec)
		}
	}(time.Now())

	data, err := r.read(j)
	if err != nil {
		return err
	}
	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		return fmt.Errorf("%s looks like %s, not a stylesheet", j.name(), kind.MIME.Value)
	}

	text, enc, err := decode(data, r.env.CodePage)
	if err != nil {
		return fmt.Errorf("unable to decode %s: %w", j.name(), err)
	}

	rpt := r.env.Rpt
	prefix := config.InputEntry(idx, j.name())
	if rpt != nil {
		if j.stdin() || len(j.entry) > 0 {
			rpt.StoreData(prefix+"/original.css", data)
		} else if err := rpt.StoreCopy(prefix+"/original.css", j.src); err != nil {
			log.Warn("Unable to store original stylesheet in report", zap.Error(err))
		}
	}

	sheet, err := css.NewParser(log).Parse(text, j.name())
	if err != nil {
		return err
	}
	if rpt != nil {
		rpt.StoreText(prefix+"/tree-before.txt", sheet.Dump())
	}

	w := wring.New(log, r.env.Options)
	out := w.Process(sheet).String()

	if rpt != nil {
		rpt.StoreText(prefix+"/tree-after.txt", sheet.Dump())
		rpt.StoreText(prefix+"/result.css", out)
	}

	result, err := encode(out, enc)
	if err != nil {
		return fmt.Errorf("unable to encode result for %s: %w", j.name(), err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.write(j, result, log); err != nil {
		return err
	}
	if rpt != nil && !j.stdout() {
		rpt.Store(prefix+"/output-"+config.CleanFileName(filepath.Base(j.dst)), j.dst)
	}

	log.Info("Stylesheet wrung", zap.String("to", j.output()),
		zap.Int("size", len(data)), zap.Int("wrung", len(result)), zap.Object("removed", w.Stats()))
	return nil
}

func (r *runner) read(j job) ([]byte, error) {
	if j.stdin() {
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read standard input: %w", err)
		}
		return data, nil
	}
	if len(j.entry) > 0 {
		data, err := archive.ReadFile(j.src, j.entry)
		if err != nil {
			return nil, fmt.Errorf("unable to read bundle entry: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(j.src)
	if err != nil {
		return nil, fmt.Errorf("unable to read input file: %w", err)
	}
	return data, nil
}

func (r *runner) write(j job, data []byte, log *zap.Logger) error {
	if j.stdout() {
		r.outMu.Lock()
		defer r.outMu.Unlock()

		if _, err := r.stdout.Write(data); err != nil {
			return fmt.Errorf("unable to write standard output: %w", err)
		}
		return nil
	}

	// Check if output file already exists
	if _, err := os.Stat(j.dst); err == nil {
		if !r.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", j.dst)
		}
		log.Warn("Overwriting existing file", zap.String("file", j.dst))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(j.dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(j.dst, data, 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	return nil
}
