package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/internal/config"
	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/internal/logger"
	"github.com/samvad-hq/samvad-headline-relay/internal/relay"
	"github.com/samvad-hq/samvad-headline-relay/internal/storage"
	"github.com/samvad-hq/samvad-headline-relay/pkg/destination"
	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
	"github.com/samvad-hq/samvad-headline-relay/pkg/notifiers"
	"github.com/samvad-hq/samvad-headline-relay/pkg/providers"
)

// Relay is the headline relay runtime. It owns the pipeline for the configured provider,
// the outcome reporter and the resources both depend on.
type Relay struct {
	cfg      *config.Config
	pipeline *relay.Pipeline
	reporter *relay.Reporter
	fanout   *notifiers.Fanout
	store    storage.Store
	interval time.Duration
	log      logger.Logger
}

// NewRelay builds a relay runtime from config and config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := resolveProvider(cfg, log)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	source, err := providers.NewSource(provider, providers.DefaultFetcherRegistry(client), cfg.NewsAPIKey)
	if err != nil {
		return nil, fmt.Errorf("build article source: %w", err)
	}

	dest, err := destination.NewClient(client, destination.Options{
		BaseURL:      cfg.PublicAppURL,
		BotCookie:    cfg.BotCookie,
		UploadMode:   cfg.ImageUploadMode,
		PublicUpload: cfg.ImageUploadPublic,
	})
	if err != nil {
		return nil, fmt.Errorf("build destination client: %w", err)
	}

	var imageOpts []relay.ImageRelayOption
	if cfg.ImageTransform == config.ImageTransformResize {
		imageOpts = append(imageOpts, relay.WithTransformer(relay.ResizeTransformer(cfg.ImageMaxDimension, cfg.ImageJPEGQuality)))
	}
	images, err := relay.NewImageRelay(client, dest, log, imageOpts...)
	if err != nil {
		return nil, fmt.Errorf("build image relay: %w", err)
	}

	publisher, err := relay.NewPublisher(dest, cfg.PostMaxChars)
	if err != nil {
		return nil, fmt.Errorf("build publisher: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	pipeOpts := []relay.PipelineOption{relay.WithLogger(log)}
	if dedupeEnabled(cfg.StorageType) {
		pipeOpts = append(pipeOpts, relay.WithDeduper(store))
	}
	pipeline, err := relay.NewPipeline(source, relay.FreshnessGate{Window: cfg.FreshnessWindow}, images, publisher, pipeOpts...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	fanout, err := buildNotifiers(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	log.InfoObj("relay initialized", "relay_meta", map[string]any{
		"provider_id":      provider.ID,
		"provider_type":    provider.Type,
		"freshness_window": cfg.FreshnessWindow.String(),
		"post_max_chars":   cfg.PostMaxChars,
		"upload_endpoint":  dest.UploadEndpoint(),
		"image_transform":  cfg.ImageTransform,
		"notifiers_count":  fanout.Size(),
	})

	return &Relay{
		cfg:      cfg,
		pipeline: pipeline,
		reporter: relay.NewReporter(log, fanout),
		fanout:   fanout,
		store:    store,
		interval: cfg.PollInterval,
		log:      log,
	}, nil
}

// resolveProvider picks the configured provider, falling back to the built-in GNews
// provider when no providers file exists.
func resolveProvider(cfg *config.Config, log logger.Logger) (providers.Provider, error) {
	var (
		reg *providers.Registry
		err error
	)
	if strings.TrimSpace(cfg.ProvidersFile) != "" {
		reg, err = providers.LoadRegistry(cfg.ProvidersFile)
	}
	if reg == nil && (err == nil || errors.Is(err, fs.ErrNotExist)) {
		log.WarnObj("providers file not found, using default provider", "providers_file", cfg.ProvidersFile)
		reg, err = providers.NewRegistry(providers.DefaultProvider())
	}
	if err != nil {
		return providers.Provider{}, fmt.Errorf("load providers registry: %w", err)
	}

	provider, err := reg.Resolve(cfg.ProviderID)
	if err != nil {
		return providers.Provider{}, err
	}
	log.InfoObj("provider selected", "provider", map[string]any{
		"id":        provider.ID,
		"type":      provider.Type,
		"selection": provider.Selection,
		"country":   provider.Country,
	})
	return provider, nil
}

// buildNotifiers loads the optional notifiers file. A missing file means no sinks.
func buildNotifiers(ctx context.Context, cfg *config.Config, log logger.Logger) (*notifiers.Fanout, error) {
	if strings.TrimSpace(cfg.NotifiersFile) == "" {
		return notifiers.NewFanout(nil), nil
	}
	reg, err := notifiers.LoadRegistry(cfg.NotifiersFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.DebugObj("notifiers file not found, outcome notifications disabled", "notifiers_file", cfg.NotifiersFile)
		return notifiers.NewFanout(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}

	enabled := reg.Enabled()
	list, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, n := range enabled {
		summaries = append(summaries, map[string]string{"id": n.ID, "type": n.Type})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(summaries),
		"notifiers": summaries,
	})
	return notifiers.NewFanout(list), nil
}

func dedupeEnabled(storageType string) bool {
	switch strings.ToLower(strings.TrimSpace(storageType)) {
	case "", "none", "disabled":
		return false
	default:
		return true
	}
}

// RunOnce executes a single invocation and reports its outcome.
func (r *Relay) RunOnce(ctx context.Context) domain.Outcome {
	out := r.pipeline.Run(ctx)
	r.reporter.Report(ctx, out)
	return out
}

// Run invokes the relay immediately and then on every poll interval until ctx is cancelled.
// Ticks are independent; nothing is carried between them.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.pipeline == nil {
		return fmt.Errorf("relay is not initialized")
	}

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"poll_interval": r.interval.String(),
	})

	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// Close releases the store and notifier connections.
func (r *Relay) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close notifiers: %w", err))
	}
	return errors.Join(errs...)
}
