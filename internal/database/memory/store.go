// Package memory is an in-process Store. A transaction holds the store's single
// writer slot for its whole life and records an undo log, so Rollback restores
// every write it made. Reads outside a transaction wait for the slot too.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

const (
	// DefaultLockTimeout matches the engine's default play lock timeout
	DefaultLockTimeout = 5 * time.Second

	ErrMsgSlotTimeout = "store busy"
)

type configRow struct {
	cfg     *domain.EconomyConfig
	section string
	actorID string
}

// Store keeps every record in maps guarded by a one-slot semaphore.
type Store struct {
	slot        chan struct{}
	lockTimeout time.Duration

	employees map[string]*domain.Employee
	games     map[uuid.UUID]*domain.Game
	gameOrder map[string][]uuid.UUID
	ledger    []domain.TokenTransaction
	pools     map[string]*domain.GlobalPrizePool
	limits    map[domain.PoolKey]*domain.PrizeLimitRecord

	cfgMu   sync.RWMutex
	configs []configRow

	faultMu sync.Mutex
	faults  map[string]error
}

var _ repository.Store = (*Store)(nil)

// Option tunes a Store
type Option func(*Store)

// WithLockTimeout bounds how long BeginTx waits behind another transaction.
// Non-positive values keep DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		slot:        make(chan struct{}, 1),
		lockTimeout: DefaultLockTimeout,
		employees:   make(map[string]*domain.Employee),
		games:       make(map[uuid.UUID]*domain.Game),
		gameOrder:   make(map[string][]uuid.UUID),
		pools:       make(map[string]*domain.GlobalPrizePool),
		limits:      make(map[domain.PoolKey]*domain.PrizeLimitRecord),
		faults:      make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailNext makes the next call of the named method return err. Transaction methods
// and the config reads and writes honor it.
func (s *Store) FailNext(method string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[method] = err
}

func (s *Store) fault(method string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err, ok := s.faults[method]
	if ok {
		delete(s.faults, method)
	}
	return err
}

// acquire waits for the writer slot at most lockTimeout, failing closed
// like a postgres lock_timeout.
func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.slot <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: %s after %s", domain.ErrConcurrencyConflict, ErrMsgSlotTimeout, s.lockTimeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, ctx.Err())
	}
}

func (s *Store) release() {
	<-s.slot
}

func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return &tx{s: s}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Config versions live behind their own lock so they can be read while a
// transaction is open.

func (s *Store) GetLatestConfig(ctx context.Context) (*domain.EconomyConfig, error) {
	if err := s.fault("GetLatestConfig"); err != nil {
		return nil, err
	}
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	if len(s.configs) == 0 {
		return nil, nil
	}
	return s.configs[len(s.configs)-1].cfg.Clone(), nil
}

func (s *Store) SaveConfig(ctx context.Context, cfg *domain.EconomyConfig, section, actorID string) error {
	if err := s.fault("SaveConfig"); err != nil {
		return err
	}
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	var latest int64
	if n := len(s.configs); n > 0 {
		latest = s.configs[n-1].cfg.Version
	}
	if cfg.Version <= latest {
		return fmt.Errorf("%w: config version %d already exists", domain.ErrConcurrencyConflict, cfg.Version)
	}
	s.configs = append(s.configs, configRow{cfg: cfg.Clone(), section: section, actorID: actorID})
	return nil
}

// ConfigVersions returns the number of stored config versions
func (s *Store) ConfigVersions() int {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return len(s.configs)
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return copyEmployee(e), nil
}

func (s *Store) ListIdleTokenHolders(ctx context.Context, idleBefore time.Time, minTokens int64) ([]string, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	var ids []string
	for id, e := range s.employees {
		if !e.Active || e.TokenBalance < minTokens {
			continue
		}
		last := s.lastActivity(id)
		if last == nil {
			last = &e.CreatedAt
		}
		if last.Before(idleBefore) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) ListTransactions(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	var out []domain.TokenTransaction
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if s.ledger[i].EmployeeID != employeeID {
			continue
		}
		out = append(out, s.ledger[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) SumLedger(ctx context.Context, employeeID string) (int64, int64, int64, error) {
	if err := s.acquire(ctx); err != nil {
		return 0, 0, 0, err
	}
	defer s.release()
	var points, tokens, rows int64
	for _, t := range s.ledger {
		if t.EmployeeID == employeeID {
			points += t.PointDelta
			tokens += t.TokenDelta
			rows++
		}
	}
	return points, tokens, rows, nil
}

func (s *Store) GetGame(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return copyGame(g), nil
}

func (s *Store) ListGames(ctx context.Context, employeeID string) ([]domain.Game, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	ids := s.gameOrder[employeeID]
	out := make([]domain.Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, *copyGame(s.games[id]))
	}
	return out, nil
}

func (s *Store) GetGlobalPool(ctx context.Context, prizeType string) (*domain.GlobalPrizePool, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	p, ok := s.pools[prizeType]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetPrizeLimit(ctx context.Context, key domain.PoolKey) (*domain.PrizeLimitRecord, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	r, ok := s.limits[key]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *Store) UpsertPoolLimits(ctx context.Context, prizeType string, limits domain.PoolLimits) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	p, ok := s.pools[prizeType]
	if !ok {
		p = &domain.GlobalPrizePool{PrizeType: prizeType}
		s.pools[prizeType] = p
	}
	p.DailyLimit = limits.Daily
	p.WeeklyLimit = limits.Weekly
	p.MonthlyLimit = limits.Monthly
	return nil
}

// SetPoolUsage overwrites the counters of a pool. Used to stage scenarios.
func (s *Store) SetPoolUsage(prizeType string, daily, weekly, monthly int64, periods domain.PeriodStarts) {
	s.slot <- struct{}{}
	defer s.release()
	p, ok := s.pools[prizeType]
	if !ok {
		return
	}
	p.DailyUsed, p.WeeklyUsed, p.MonthlyUsed = daily, weekly, monthly
	p.LastDailyReset, p.LastWeeklyReset, p.LastMonthlyReset = periods.Day, periods.Week, periods.Month
}

func (s *Store) lastActivity(employeeID string) *time.Time {
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if s.ledger[i].EmployeeID == employeeID {
			t := s.ledger[i].CreatedAt
			return &t
		}
	}
	return nil
}

func copyEmployee(e *domain.Employee) *domain.Employee {
	cp := *e
	cp.LastExchangeAt = copyTime(e.LastExchangeAt)
	cp.DailyExchangeDate = copyTime(e.DailyExchangeDate)
	cp.LastBoostAt = copyTime(e.LastBoostAt)
	return &cp
}

func copyGame(g *domain.Game) *domain.Game {
	cp := *g
	cp.PlayedAt = copyTime(g.PlayedAt)
	cp.ExpiredAt = copyTime(g.ExpiredAt)
	if g.Outcome != nil {
		o := *g.Outcome
		cp.Outcome = &o
	}
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
