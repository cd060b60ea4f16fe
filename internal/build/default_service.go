package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/docatlas/internal/aggregate"
	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/classifier"
	"git.home.luguber.info/inful/docatlas/internal/config"
	"git.home.luguber.info/inful/docatlas/internal/convert"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/git"
	"git.home.luguber.info/inful/docatlas/internal/linkverify"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/manifest"
	"git.home.luguber.info/inful/docatlas/internal/metrics"
	"git.home.luguber.info/inful/docatlas/internal/observability"
	"git.home.luguber.info/inful/docatlas/internal/publish"
	"git.home.luguber.info/inful/docatlas/internal/resolver"
)

// Stage names used for logging and metrics.
const (
	StageAggregate = "aggregate"
	StageClassify  = "classify"
	StageConvert   = "convert"
	StageVerify    = "verify_links"
	StagePublish   = "publish"
	StageManifest  = "manifest"
)

// OpenerFactory creates the repository opener for a playbook.
type OpenerFactory func(cfg *config.Config, recorder metrics.Recorder) aggregate.Opener

// EventPublisherFactory connects to the broken link event bus.
type EventPublisherFactory func(cfg config.LinkEventsConfig) (linkverify.EventPublisher, error)

// DefaultService is the standard Service.
type DefaultService struct {
	openerFactory OpenerFactory
	eventsFactory EventPublisherFactory
	renderer      convert.Renderer
	recorder      metrics.Recorder
	logger        *slog.Logger
}

// NewService creates a DefaultService that reads sources with the git client,
// caching remote clones below the playbook cache directory.
func NewService() *DefaultService {
	return &DefaultService{
		openerFactory: func(cfg *config.Config, recorder metrics.Recorder) aggregate.Opener {
			return git.NewClient(cfg.Content.CacheDir, cfg.RetryPolicy()).WithRecorder(recorder)
		},
		eventsFactory: func(cfg config.LinkEventsConfig) (linkverify.EventPublisher, error) {
			return linkverify.NewNATSClient(cfg)
		},
		recorder: metrics.NoopRecorder{},
		logger:   observability.Logger(nil),
	}
}

// WithOpenerFactory replaces the repository opener (for testing).
func (s *DefaultService) WithOpenerFactory(f OpenerFactory) *DefaultService {
	s.openerFactory = f
	return s
}

// WithEventPublisherFactory replaces the broken link event publisher.
func (s *DefaultService) WithEventPublisherFactory(f EventPublisherFactory) *DefaultService {
	s.eventsFactory = f
	return s
}

// WithRenderer sets the AsciiDoc renderer passed to the converter.
func (s *DefaultService) WithRenderer(r convert.Renderer) *DefaultService {
	s.renderer = r
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	s.recorder = metrics.OrNoop(r)
	return s
}

// WithLogger sets the base logger.
func (s *DefaultService) WithLogger(l *slog.Logger) *DefaultService {
	if l != nil {
		s.logger = observability.Logger(l)
	}
	return s
}

// Run executes the complete pipeline.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{StartTime: time.Now(), RunID: manifest.NewRunID()}
	ctx = observability.WithRunID(ctx, result.RunID)

	if req.Config == nil {
		return s.finish(ctx, result, ferrors.ConfigError("config required").Build())
	}
	cfg := req.Config
	result.OutputPath = req.OutputDir
	if result.OutputPath == "" {
		result.OutputPath = cfg.Output.Dir
	}
	s.logger.InfoContext(ctx, "Starting build",
		logfields.Count(len(cfg.Content.Sources)),
		logfields.Path(result.OutputPath))

	var groups []aggregate.Group
	err := s.stage(ctx, StageAggregate, func(ctx context.Context) error {
		var err error
		groups, err = aggregate.NewAggregator(s.openerFactory(cfg, s.recorder)).Aggregate(ctx, cfg.Content.Sources)
		return err
	})
	if err != nil {
		return s.finish(ctx, result, fmt.Errorf("%w: %w", ErrAggregate, err))
	}

	var reader catalog.Reader
	err = s.stage(ctx, StageClassify, func(ctx context.Context) error {
		cat, err := classifier.ClassifyContent(groups, classifier.SiteOptions{
			HTMLExtensionStyle: cfg.URLs.HTMLExtensionStyle,
			SiteURL:            cfg.Site.URL,
			StartPage:          cfg.Site.StartPage,
			OnClassified: func(f *catalog.File) {
				result.FilesClassified++
				s.recorder.IncFileClassified(f.Src.Family.String())
			},
			OnDropped: func(p string) {
				result.FilesDropped++
				s.recorder.IncFileDropped()
				s.logger.DebugContext(ctx, "Skipping file outside content structure", logfields.Path(p))
			},
		})
		if err != nil {
			return err
		}
		reader = cat.Freeze()
		for _, c := range reader.GetComponents() {
			result.ComponentVersions += len(c.Versions)
		}
		s.recorder.SetComponentVersions(result.ComponentVersions)
		return nil
	})
	if err != nil {
		return s.finish(ctx, result, err)
	}
	result.Catalog = reader

	err = s.stage(ctx, StageConvert, func(ctx context.Context) error {
		cached, err := resolver.NewCached(reader, resolver.DefaultCacheSize)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "create resolver cache").Build()
		}
		opts := []convert.Option{
			convert.WithRecorder(s.recorder),
			convert.WithLogger(observability.Bind(ctx, s.logger)),
		}
		if s.renderer != nil {
			opts = append(opts, convert.WithRenderer(s.renderer))
		}
		result.PagesConverted, err = convert.New(cached, opts...).ConvertAll(reader.GetFiles())
		return err
	})
	if err != nil {
		return s.finish(ctx, result, fmt.Errorf("%w: %w", ErrConvert, err))
	}

	if req.Options.CheckLinks || cfg.Runtime.CheckLinks {
		_ = s.stage(ctx, StageVerify, func(ctx context.Context) error {
			s.verifyLinks(ctx, cfg, result)
			return nil
		})
	}

	if req.Options.DryRun {
		s.logger.InfoContext(ctx, "Dry run, skipping publish")
		return s.finish(ctx, result, nil)
	}

	err = s.stage(ctx, StagePublish, func(ctx context.Context) error {
		p := publish.New(osfs.New(result.OutputPath), publish.WithClean(cfg.Output.Clean))
		var err error
		result.Published, err = p.Publish(reader)
		return err
	})
	if err != nil {
		return s.finish(ctx, result, fmt.Errorf("%w: %w", ErrPublish, err))
	}

	manifestPath := req.Options.ManifestPath
	if manifestPath == "" {
		manifestPath = cfg.Output.Manifest
	}
	if manifestPath != "" {
		err = s.stage(ctx, StageManifest, func(ctx context.Context) error {
			return s.recordManifest(ctx, manifestPath, result.RunID, reader)
		})
		if err != nil {
			return s.finish(ctx, result, err)
		}
	}

	return s.finish(ctx, result, nil)
}

func (s *DefaultService) verifyLinks(ctx context.Context, cfg *config.Config, result *Result) {
	result.BrokenLinks = linkverify.Verify(result.Catalog.GetFiles(), cfg.Site.URL)
	s.recorder.IncBrokenLinks(len(result.BrokenLinks))
	for _, b := range result.BrokenLinks {
		s.logger.WarnContext(ctx, "Broken link",
			logfields.Path(b.PagePath),
			logfields.URL(b.Link.URL),
			slog.String("target", b.Target))
	}
	if len(result.BrokenLinks) == 0 || cfg.Runtime.LinkEvents.NATSURL == "" {
		return
	}

	pub, err := s.eventsFactory(cfg.Runtime.LinkEvents)
	if err != nil {
		s.logger.WarnContext(ctx, "Broken link events not published", logfields.Error(err))
		return
	}
	defer func() {
		if err := pub.Close(); err != nil {
			s.logger.WarnContext(ctx, "Failed to close event publisher", logfields.Error(err))
		}
	}()
	result.EventsPublished, err = linkverify.PublishAll(ctx, pub, result.BrokenLinks, result.RunID)
	if err != nil {
		s.logger.WarnContext(ctx, "Broken link events partially published",
			logfields.Count(result.EventsPublished),
			logfields.Error(err))
	}
}

func (s *DefaultService) recordManifest(ctx context.Context, path, runID string, reader catalog.Reader) error {
	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.logger.WarnContext(ctx, "Failed to close manifest", logfields.Error(err))
		}
	}()
	n, err := store.Record(ctx, runID, reader)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Recorded manifest", logfields.Path(path), logfields.Count(n))
	return nil
}

// stage runs fn with the stage name in ctx and records its duration and result.
func (s *DefaultService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	if err := ctx.Err(); err != nil {
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.recorder.ObserveStageDuration(name, elapsed)

	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
		s.logger.DebugContext(ctx, "Stage complete", logfields.DurationMS(float64(elapsed.Milliseconds())))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
		s.logger.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	}
	return err
}

func (s *DefaultService) finish(ctx context.Context, result *Result, err error) (*Result, error) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		s.logger.InfoContext(ctx, "Build complete",
			slog.Int("component_versions", result.ComponentVersions),
			slog.Int("pages", result.PagesConverted),
			slog.Int("files_written", result.Published.Files),
			slog.Int("broken_links", len(result.BrokenLinks)),
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		result.Status = StatusCanceled
	default:
		result.Status = StatusFailed
	}
	s.recorder.IncBuildOutcome(string(result.Status))
	s.recorder.ObserveBuildDuration(result.Duration)
	return result, err
}
