package memory

import (
	"context"
	"sync"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// Directory is an in-memory employee directory
type Directory struct {
	mu       sync.RWMutex
	profiles map[string]domain.EmployeeProfile
}

func NewDirectory(profiles ...domain.EmployeeProfile) *Directory {
	d := &Directory{profiles: make(map[string]domain.EmployeeProfile, len(profiles))}
	for _, p := range profiles {
		d.profiles[p.ID] = p
	}
	return d
}

func (d *Directory) LookupEmployee(_ context.Context, employeeID string) (*domain.EmployeeProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &p, nil
}

func (d *Directory) UpsertProfile(_ context.Context, p domain.EmployeeProfile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.ID] = p
	return nil
}
