package configstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/RewardArcade_Go/internal/configstore/schema"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/repository"
	"github.com/osse101/RewardArcade_Go/internal/validation"
)

// Service holds the versioned economy tunables
type Service interface {
	// Load returns the active config. The result is a private copy.
	Load(ctx context.Context) (*domain.EconomyConfig, error)
	// Update replaces one section. The new version is persisted and cached only if
	// the whole resulting config validates.
	Update(ctx context.Context, section string, payload json.RawMessage, actorID string) (*domain.EconomyConfig, error)
	Validate(cfg *domain.EconomyConfig) []error
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, blob []byte, actorID string) (*domain.EconomyConfig, error)
	// EnsureSeeded stores seed as version 1 when nothing has been stored yet
	EnsureSeeded(ctx context.Context, seed *domain.EconomyConfig) error
	Invalidate()
}

// ExportBlob is the document produced by Export and accepted by Import
type ExportBlob struct {
	SchemaVersion string                `json:"schema_version"`
	ExportedAt    time.Time             `json:"exported_at"`
	Config        *domain.EconomyConfig `json:"config"`
}

type service struct {
	repo      repository.ConfigRepository
	publisher event.Publisher
	schemas   validation.SchemaValidator
	cache     *expirable.LRU[string, *domain.EconomyConfig]
	now       func() time.Time

	// writeMu serializes Update/Import within the process; cross-process writers are
	// caught by the version check in SaveConfig.
	writeMu  sync.Mutex
	mu       sync.RWMutex
	lastGood *domain.EconomyConfig
}

// NewService creates a config store. A non-positive ttl uses DefaultCacheTTL.
func NewService(repo repository.ConfigRepository, publisher event.Publisher, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if publisher == nil {
		publisher = event.Nop{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		schemas:   validation.NewSchemaValidator(schema.FS),
		cache:     expirable.NewLRU[string, *domain.EconomyConfig](cacheSize, nil, ttl),
		now:       time.Now,
	}
}

func (s *service) Load(ctx context.Context) (*domain.EconomyConfig, error) {
	log := logger.FromContext(ctx)

	if cfg, ok := s.cache.Get(cacheKey); ok {
		log.Debug(LogMsgConfigCacheHit, "version", cfg.Version)
		return cfg.Clone(), nil
	}

	cfg, err := s.repo.GetLatestConfig(ctx)
	if err != nil {
		s.mu.RLock()
		stale := s.lastGood
		s.mu.RUnlock()
		if stale != nil {
			log.Warn(LogMsgConfigStale, "version", stale.Version, "error", err)
			return stale.Clone(), nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadConfig, err)
	}
	if cfg == nil {
		log.Debug(LogMsgConfigDefaults)
		cfg = domain.DefaultEconomyConfig()
	} else {
		log.Debug(LogMsgConfigLoaded, "version", cfg.Version)
	}

	s.swap(cfg)
	return cfg.Clone(), nil
}

func (s *service) swap(cfg *domain.EconomyConfig) {
	s.cache.Add(cacheKey, cfg)
	s.mu.Lock()
	s.lastGood = cfg
	s.mu.Unlock()
}

func (s *service) Invalidate() {
	s.cache.Remove(cacheKey)
}

// current reads the newest stored version, bypassing the cache
func (s *service) current(ctx context.Context) (*domain.EconomyConfig, error) {
	cfg, err := s.repo.GetLatestConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadConfig, err)
	}
	if cfg == nil {
		return domain.DefaultEconomyConfig(), nil
	}
	return cfg, nil
}

func (s *service) Update(ctx context.Context, section string, payload json.RawMessage, actorID string) (*domain.EconomyConfig, error) {
	log := logger.FromContext(ctx)
	if !slices.Contains(domain.ConfigSections, section) {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrValidation, domain.ErrMsgConfigSectionUnknown, section)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	base, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	next := base.Clone()
	if err := applySection(next, section, payload); err != nil {
		return nil, err
	}

	saved, err := s.persist(ctx, next, base.Version, section, actorID)
	if err != nil {
		log.Warn(LogMsgConfigRejected, "section", section, "error", err)
		return nil, err
	}

	log.Info(LogMsgConfigUpdated, "section", section, "version", saved.Version)
	return saved.Clone(), nil
}

// persist validates cfg, stores it as baseVersion+1 and swaps the cache
func (s *service) persist(ctx context.Context, cfg *domain.EconomyConfig, baseVersion int64, section, actorID string) (*domain.EconomyConfig, error) {
	if problems := s.Validate(cfg); len(problems) > 0 {
		return nil, domain.ConfigInvalidError{Problems: problems}
	}

	cfg.Version = baseVersion + 1
	cfg.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveConfig(ctx, cfg, section, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSaveConfig, err)
	}
	s.swap(cfg)

	evt := event.New(event.ConfigUpdated, domain.ConfigUpdatedPayload{
		Version: cfg.Version,
		Section: section,
		ActorID: actorID,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "error", err)
	}
	return cfg, nil
}

// applySection decodes payload over one section of cfg. Struct sections are merged
// field by field; map sections are merged by key, each given entry replacing the
// stored entry whole.
func applySection(cfg *domain.EconomyConfig, section string, payload json.RawMessage) error {
	var target interface{}
	switch section {
	case domain.SectionDifficulty:
		target = &cfg.Difficulty
	case domain.SectionBoost:
		target = &cfg.Boost
	case domain.SectionWinCap:
		target = &cfg.WinCap
	case domain.SectionExchange:
		target = &cfg.Exchange
	case domain.SectionTiers:
		target = &cfg.Tiers
	case domain.SectionExpiration:
		target = &cfg.Expiration
	case domain.SectionOdds:
		target = &cfg.Odds
	case domain.SectionGames:
		target = &cfg.Games
	case domain.SectionPrizes:
		target = &cfg.Prizes
	case domain.SectionPools:
		target = &cfg.Pools
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: "+ErrMsgDecodeSection+": %v", domain.ErrValidation, section, err)
	}
	return nil
}

func (s *service) Export(ctx context.Context) ([]byte, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ExportBlob{
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    s.now().UTC(),
		Config:        cfg,
	}, "", "  ")
}

func (s *service) Import(ctx context.Context, blob []byte, actorID string) (*domain.EconomyConfig, error) {
	if err := s.schemas.ValidateBytes(blob, schema.ExportSchema); err != nil {
		return nil, domain.ConfigInvalidError{Problems: []error{fmt.Errorf("%s: %w", ErrMsgSchemaViolation, err)}}
	}

	var doc ExportBlob
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, ErrMsgDecodeBlob, err)
	}
	if doc.Config == nil {
		return nil, fmt.Errorf("%w: %s: missing config", domain.ErrValidation, ErrMsgDecodeBlob)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	base, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.persist(ctx, doc.Config, base.Version, sectionImport, actorID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgConfigRejected, "section", sectionImport, "error", err)
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgConfigImported, "version", saved.Version)
	return saved.Clone(), nil
}

func (s *service) EnsureSeeded(ctx context.Context, seed *domain.EconomyConfig) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.repo.GetLatestConfig(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadConfig, err)
	}
	if existing != nil {
		return nil
	}

	saved, err := s.persist(ctx, seed.Clone(), 0, sectionSeed, "")
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgConfigSeeded, "version", saved.Version)
	return nil
}
