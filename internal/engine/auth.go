package engine

import (
	"context"
	"strings"
)

// Authorizer decides whether a caller may run admin operations
type Authorizer interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}

// StaticAuthorizer treats a fixed set of ids as admins
type StaticAuthorizer struct {
	admins map[string]struct{}
}

// NewStaticAuthorizer builds an authorizer from ids; blank entries are ignored
func NewStaticAuthorizer(ids []string) *StaticAuthorizer {
	a := &StaticAuthorizer{admins: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			a.admins[id] = struct{}{}
		}
	}
	return a
}

func (a *StaticAuthorizer) IsAdmin(_ context.Context, actorID string) (bool, error) {
	_, ok := a.admins[actorID]
	return ok, nil
}
