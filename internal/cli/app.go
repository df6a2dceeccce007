package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/internal/config"
	"github.com/aretw0/triplet/internal/logging"
	"github.com/aretw0/triplet/internal/metrics"
	"github.com/aretw0/triplet/pkg/adapters/dataset"
	"github.com/aretw0/triplet/pkg/adapters/process"
	"github.com/aretw0/triplet/pkg/adapters/tokenizer"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/persistence/middleware"
	"github.com/aretw0/triplet/pkg/ports"
	"github.com/google/uuid"
)

// Flags are command line overrides. Zero values leave the file value alone.
type Flags struct {
	Dataset    string
	OutputDir  string
	Store      string
	Separator  string
	NumTriples int
	Debug      bool
}

// LoadConfig reads the config file and applies flag overrides on top.
func LoadConfig(path string, f Flags) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Dataset != "" {
		cfg.Dataset = f.Dataset
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.Store != "" {
		cfg.Store.Backend = f.Store
	}
	if f.Separator != "" {
		cfg.Separator = f.Separator
	}
	if f.NumTriples != 0 {
		cfg.NumTriples = f.NumTriples
	}
	if f.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// App holds everything a command needs to build a Desk.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Store   ports.AnnotationStore
	Tokens  ports.TokenProvider
	Items   []domain.Item
	RunID   string

	closeStore func() error
}

// AppOption configures Open.
type AppOption func(*appOptions)

type appOptions struct {
	logOutput io.Writer
	quiet     bool
}

// WithLogOutput redirects logs (default os.Stderr).
func WithLogOutput(w io.Writer) AppOption {
	return func(o *appOptions) { o.logOutput = w }
}

// WithQuietLogs drops non-debug logs, for full screen terminal sessions.
func WithQuietLogs(on bool) AppOption {
	return func(o *appOptions) { o.quiet = on }
}

// Open loads the dataset and connects the store.
func Open(ctx context.Context, cfg *config.Config, opts ...AppOption) (*App, error) {
	o := appOptions{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	runID := uuid.NewString()
	logger := createLogger(o.logOutput, cfg.Debug, cfg.LogFormat, o.quiet).With("run_id", runID)

	if cfg.Dataset == "" {
		return nil, errors.New("no dataset: set dataset in the config file or pass --dataset")
	}
	items, err := dataset.New(cfg.Dataset, dataset.WithFields(cfg.IDField, cfg.TextField)).Load(ctx)
	if err != nil {
		return nil, err
	}

	tokens, err := buildTokenizer(cfg)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	store = middleware.Chain(store, middleware.NewInstrumentMiddleware(logger, m.ObserveStore))

	logger.Debug("Desk Opened", "dataset", cfg.Dataset, "items", len(items), "store", cfg.DescribeStore())

	return &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
		Store:      store,
		Tokens:     tokens,
		Items:      items,
		RunID:      runID,
		closeStore: closeStore,
	}, nil
}

// NewDesk creates a Desk over the dataset, resuming at the first item
// without a stored record.
func (a *App) NewDesk(ctx context.Context) (*triplet.Desk, error) {
	hooks := a.Metrics.Hooks()
	if a.Config.Debug {
		hooks = createDebugHooks(a.Logger).Merge(hooks)
	}
	return triplet.New(ctx, a.Items, a.Store, a.Tokens,
		triplet.WithLogger(a.Logger),
		triplet.WithLifecycleHooks(hooks),
		triplet.WithNumTriples(a.Config.NumTriples),
	)
}

// Close releases the store connection.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

// createLogger configures the application logger.
// Debug wins over quiet; quiet is used while the terminal UI owns the screen.
func createLogger(w io.Writer, debug bool, format string, quiet bool) *slog.Logger {
	switch {
	case debug:
		return logging.NewWithWriter(w, logging.ParseFormat(format), slog.LevelDebug)
	case quiet:
		return logging.NewNop()
	default:
		return logging.NewWithWriter(w, logging.ParseFormat(format), slog.LevelInfo)
	}
}

func buildTokenizer(cfg *config.Config) (ports.TokenProvider, error) {
	opts := []tokenizer.Option{
		tokenizer.WithSeparator(cfg.Separator),
		tokenizer.WithLowercase(cfg.Tokenizer.Lowercase),
	}
	if len(cfg.Tokenizer.Command) > 0 {
		seg, err := process.NewSegmenter(cfg.Tokenizer.Command, cfg.Tokenizer.Timeout)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: %w", err)
		}
		opts = append(opts, tokenizer.WithSegmenter(seg))
	}
	return tokenizer.New(opts...), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnItemEnter: func(ctx context.Context, e *domain.ItemEvent) {
			logger.Debug("Enter Item", "item_id", e.ItemID, "index", e.Index, "direction", e.Direction, "moved", e.Moved)
		},
		OnRecordSave: func(ctx context.Context, e *domain.RecordEvent) {
			logger.Debug("Record Saved", "item_id", e.ItemID, "skipped", e.Skipped, "triples", e.Triples)
		},
		OnTokenize: func(ctx context.Context, e *domain.TokenizeEvent) {
			if e.Err != nil {
				logger.Debug("Tokenize (Error)", "item_id", e.ItemID, "err", e.Err)
				return
			}
			logger.Debug("Tokenize", "item_id", e.ItemID, "turns", e.Turns, "duration", e.Duration)
		},
	}
}
