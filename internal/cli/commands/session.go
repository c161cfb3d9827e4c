package commands

import (
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/modeler/internal/cli/config"
	"github.com/conduit-lang/modeler/internal/cli/ui"
	"github.com/conduit-lang/modeler/internal/design/emit"
	"github.com/conduit-lang/modeler/internal/design/loader"
	"github.com/conduit-lang/modeler/internal/design/project"
)

// session is the configured state one command runs with
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	noColor bool
	out     io.Writer
	errOut  io.Writer
}

// open loads the project configuration. Without a modeler.yml above the
// working directory the defaults apply to the directory itself.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	dir := o.dir
	if root, err := config.FindProjectRoot(dir); err == nil {
		dir = root
	}

	cfg, err := config.Load(dir)
	if err != nil {
		cmd.PrintErr(ui.ConfigError(err.Error(), o.noColor))
		return nil, reportedError{err}
	}

	noColor := o.noColor || cfg.Output.NoColor
	if noColor {
		color.NoColor = true
	}

	return &session{
		cfg:     cfg,
		logger:  newLogger(cmd.ErrOrStderr(), o.verbose, cfg.LogLevel()),
		noColor: noColor,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

// newLogger logs to w: human readable at debug level when verbose,
// JSON at the configured level otherwise
func newLogger(w io.Writer, verbose bool, level zapcore.Level) *zap.Logger {
	sink := zapcore.Lock(zapcore.AddSync(w))
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, sink, zapcore.DebugLevel), zap.AddCaller())
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, sink, level))
}

// build loads every design file of the project and links the design
func (s *session) build(reverse bool) (*project.Design, error) {
	defer s.logger.Sync() //nolint:errcheck

	l := loader.New(
		loader.WithLogger(s.logger),
		loader.WithDefaultModule(s.cfg.Design.Module),
	)
	if err := l.LoadGlob(s.cfg.Design.Files...); err != nil {
		return nil, err
	}
	return l.Build(project.WithReverseOrder(reverse || s.cfg.Link.ReverseOrder))
}

// sink opens the output for name. An empty name is standard output; a
// relative name lands in the configured output directory.
func (s *session) sink(name string) (emit.Sink, string, error) {
	if name == "" {
		return emit.NewWriterSink(s.out), "", nil
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.Output.Dir, path)
	}
	fs, err := emit.CreateFile(path)
	if err != nil {
		return nil, "", err
	}
	return fs, path, nil
}
