package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

type tx struct {
	s      *Store
	undo   []func()
	closed bool
}

func (t *tx) check(method string) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	return t.s.fault(method)
}

func (t *tx) Commit(ctx context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	if err := t.s.fault("Commit"); err != nil {
		return err
	}
	t.closed = true
	t.undo = nil
	t.s.release()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.closed = true
	t.undo = nil
	t.s.release()
	return nil
}

func (t *tx) GetEmployeeForUpdate(ctx context.Context, employeeID string) (*domain.Employee, error) {
	if err := t.check("GetEmployeeForUpdate"); err != nil {
		return nil, err
	}
	e, ok := t.s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return copyEmployee(e), nil
}

func (t *tx) InsertEmployee(ctx context.Context, employee *domain.Employee) error {
	if err := t.check("InsertEmployee"); err != nil {
		return err
	}
	if _, ok := t.s.employees[employee.ID]; ok {
		return fmt.Errorf("%w: employee %s was created concurrently", domain.ErrConcurrencyConflict, employee.ID)
	}
	t.s.employees[employee.ID] = copyEmployee(employee)
	t.undo = append(t.undo, func() { delete(t.s.employees, employee.ID) })
	return nil
}

func (t *tx) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	if err := t.check("UpdateEmployee"); err != nil {
		return err
	}
	prev, ok := t.s.employees[employee.ID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	t.s.employees[employee.ID] = copyEmployee(employee)
	t.undo = append(t.undo, func() { t.s.employees[employee.ID] = prev })
	return nil
}

func (t *tx) AppendTransaction(ctx context.Context, txn *domain.TokenTransaction) error {
	if err := t.check("AppendTransaction"); err != nil {
		return err
	}
	n := len(t.s.ledger)
	t.s.ledger = append(t.s.ledger, *txn)
	t.undo = append(t.undo, func() { t.s.ledger = t.s.ledger[:n] })
	return nil
}

func (t *tx) LastActivityAt(ctx context.Context, employeeID string) (*time.Time, error) {
	if err := t.check("LastActivityAt"); err != nil {
		return nil, err
	}
	return t.s.lastActivity(employeeID), nil
}

func (t *tx) InsertGame(ctx context.Context, game *domain.Game) error {
	if err := t.check("InsertGame"); err != nil {
		return err
	}
	t.s.games[game.ID] = copyGame(game)
	prevOrder := t.s.gameOrder[game.EmployeeID]
	t.s.gameOrder[game.EmployeeID] = append(prevOrder[:len(prevOrder):len(prevOrder)], game.ID)
	t.undo = append(t.undo, func() {
		delete(t.s.games, game.ID)
		t.s.gameOrder[game.EmployeeID] = prevOrder
	})
	return nil
}

func (t *tx) GetGameForUpdate(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	if err := t.check("GetGameForUpdate"); err != nil {
		return nil, err
	}
	g, ok := t.s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return copyGame(g), nil
}

func (t *tx) UpdateGameIfStatus(ctx context.Context, game *domain.Game, expected domain.GameStatus) (int64, error) {
	if err := t.check("UpdateGameIfStatus"); err != nil {
		return 0, err
	}
	prev, ok := t.s.games[game.ID]
	if !ok || prev.Status != expected {
		return 0, nil
	}
	t.s.games[game.ID] = copyGame(game)
	t.undo = append(t.undo, func() { t.s.games[game.ID] = prev })
	return 1, nil
}

func (t *tx) CountPlayedGames(ctx context.Context, employeeID string, category domain.GameCategory) (int, error) {
	if err := t.check("CountPlayedGames"); err != nil {
		return 0, err
	}
	count := 0
	for _, id := range t.s.gameOrder[employeeID] {
		g := t.s.games[id]
		if g.Category == category && g.Status == domain.GameStatusPlayed {
			count++
		}
	}
	return count, nil
}

func (t *tx) SumWinnings(ctx context.Context, employeeID string, category domain.GameCategory, since time.Time) (int64, error) {
	if err := t.check("SumWinnings"); err != nil {
		return 0, err
	}
	var total int64
	for _, row := range t.s.ledger {
		if row.EmployeeID != employeeID || row.Type != domain.TxTypeWin || row.GameID == nil {
			continue
		}
		if row.CreatedAt.Before(since) {
			continue
		}
		if g, ok := t.s.games[*row.GameID]; ok && g.Category == category {
			total += row.PointDelta
		}
	}
	return total, nil
}

func (t *tx) ExpireUnusedGames(ctx context.Context, category domain.GameCategory, awardedBefore, now time.Time) (int64, error) {
	if err := t.check("ExpireUnusedGames"); err != nil {
		return 0, err
	}
	var n int64
	for id, g := range t.s.games {
		if g.Category != category || g.Status != domain.GameStatusUnused || !g.AwardedAt.Before(awardedBefore) {
			continue
		}
		prev := g
		next := copyGame(g)
		next.Status = domain.GameStatusExpired
		expiredAt := now
		next.ExpiredAt = &expiredAt
		t.s.games[id] = next
		t.undo = append(t.undo, func() { t.s.games[prev.ID] = prev })
		n++
	}
	return n, nil
}

func (t *tx) ReserveGlobalPrize(ctx context.Context, prizeType string, periods domain.PeriodStarts) (bool, error) {
	if err := t.check("ReserveGlobalPrize"); err != nil {
		return false, err
	}
	p, ok := t.s.pools[prizeType]
	if !ok {
		return false, domain.ErrPoolNotFound
	}
	rolled := p.Rolled(periods)
	if rolled.ExhaustedPeriod() != "" {
		return false, nil
	}
	prev := *p
	rolled.DailyUsed++
	rolled.WeeklyUsed++
	rolled.MonthlyUsed++
	*p = rolled
	t.undo = append(t.undo, func() { *p = prev })
	return true, nil
}

func (t *tx) ReleaseGlobalPrize(ctx context.Context, prizeType string, periods domain.PeriodStarts) error {
	if err := t.check("ReleaseGlobalPrize"); err != nil {
		return err
	}
	p, ok := t.s.pools[prizeType]
	if !ok {
		return domain.ErrPoolNotFound
	}
	prev := *p
	if p.LastDailyReset.Equal(periods.Day) && p.DailyUsed > 0 {
		p.DailyUsed--
	}
	if p.LastWeeklyReset.Equal(periods.Week) && p.WeeklyUsed > 0 {
		p.WeeklyUsed--
	}
	if p.LastMonthlyReset.Equal(periods.Month) && p.MonthlyUsed > 0 {
		p.MonthlyUsed--
	}
	t.undo = append(t.undo, func() { *p = prev })
	return nil
}

func (t *tx) ReserveIndividualPrize(ctx context.Context, key domain.PoolKey, limit int64, monthStart time.Time) (bool, error) {
	if err := t.check("ReserveIndividualPrize"); err != nil {
		return false, err
	}
	r, ok := t.s.limits[key]
	if !ok {
		if limit <= 0 {
			return false, nil
		}
		t.s.limits[key] = &domain.PrizeLimitRecord{
			EmployeeID:   key.EmployeeID,
			PrizeType:    key.PrizeType,
			Tier:         key.Tier,
			MonthlyLimit: limit,
			MonthlyUsed:  1,
			LastReset:    monthStart,
		}
		t.undo = append(t.undo, func() { delete(t.s.limits, key) })
		return true, nil
	}
	next := *r
	next.MonthlyLimit = limit
	if next.LastReset.Before(monthStart) {
		next.MonthlyUsed = 0
		next.LastReset = monthStart
	}
	if next.MonthlyUsed >= next.MonthlyLimit {
		return false, nil
	}
	prev := *r
	next.MonthlyUsed++
	*r = next
	t.undo = append(t.undo, func() { *r = prev })
	return true, nil
}

func (t *tx) ReleaseIndividualPrize(ctx context.Context, key domain.PoolKey, monthStart time.Time) error {
	if err := t.check("ReleaseIndividualPrize"); err != nil {
		return err
	}
	r, ok := t.s.limits[key]
	if !ok || !r.LastReset.Equal(monthStart) || r.MonthlyUsed == 0 {
		return nil
	}
	prev := *r
	r.MonthlyUsed--
	t.undo = append(t.undo, func() { *r = prev })
	return nil
}

func (t *tx) ResetElapsedPools(ctx context.Context, periods domain.PeriodStarts) (int64, error) {
	if err := t.check("ResetElapsedPools"); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range t.s.pools {
		rolled := p.Rolled(periods)
		if rolled == *p {
			continue
		}
		prev := *p
		*p = rolled
		pp := p
		t.undo = append(t.undo, func() { *pp = prev })
		n++
	}
	return n, nil
}

func (t *tx) ResetElapsedPrizeLimits(ctx context.Context, monthStart time.Time) (int64, error) {
	if err := t.check("ResetElapsedPrizeLimits"); err != nil {
		return 0, err
	}
	var n int64
	for _, r := range t.s.limits {
		if !r.LastReset.Before(monthStart) {
			continue
		}
		prev := *r
		rr := r
		r.MonthlyUsed = 0
		r.LastReset = monthStart
		t.undo = append(t.undo, func() { *rr = prev })
		n++
	}
	return n, nil
}
