package optdoc

import (
	"time"

	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/gitmeta"
)

// generateOptions contains options for configuring the behavior of the [Generate] function.
type generateOptions struct {
	logger      *zap.Logger
	revision    *gitmeta.Info
	version     string
	now         func() time.Time
	filterPaths []string
}

type GenerateOption func(options generateOptions) generateOptions

// WithLogger sets the logger receiving scan diagnostics. The default discards them.
func WithLogger(logger *zap.Logger) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.logger = logger
		return options
	}
}

// WithRevision sets the commit and branch instead of reading them from git.
func WithRevision(info gitmeta.Info) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.revision = &info
		return options
	}
}

// WithVersion sets the documented version instead of reading it from package.json.
func WithVersion(version string) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.version = version
		return options
	}
}

// WithClock sets the source of the generation timestamp.
func WithClock(now func() time.Time) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.now = now
		return options
	}
}

// WithFilteredPaths specifies option paths that should be excluded from the generated documentation.
// Paths use the dotted notation of the option tree (e.g., "plotOptions.series.internal").
func WithFilteredPaths(paths ...string) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.filterPaths = append(options.filterPaths, paths...)
		return options
	}
}

func buildOptions(opts []GenerateOption) generateOptions {
	options := generateOptions{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		options = opt(options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}
	return options
}
