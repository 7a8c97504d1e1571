// Package accounts maintains the known-accounts registry: a small, ordered
// list of previously-authenticated identities kept in client storage for
// quick account switching. The registry never contacts the backend.
package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/logging"
)

const registryKey = "known_accounts"

type Registry struct {
	kv  backend.KVStore
	log logging.Logger
	now func() time.Time
}

func NewRegistry(kv backend.KVStore, log logging.Logger) *Registry {
	return &Registry{kv: kv, log: log, now: time.Now}
}

// List returns the known accounts, most recently used first. An empty or
// unreadable registry yields an empty list.
func (r *Registry) List(ctx context.Context) []models.KnownAccount {
	raw, ok, err := r.kv.Get(ctx, registryKey)
	if err != nil {
		r.log.Warn(ctx, "known accounts unavailable", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	return r.decode(ctx, raw)
}

// Upsert records a successful sign-in: any existing entry for the identity is
// removed and a fresh entry with the current timestamp is prepended, so the
// list stays duplicate-free and MRU-ordered.
func (r *Registry) Upsert(ctx context.Context, identity models.Identity) error {
	if !identity.Present() {
		return nil
	}

	err := r.kv.Update(ctx, registryKey, func(old string, ok bool) (string, error) {
		var accs []models.KnownAccount
		if ok {
			accs = r.decode(ctx, old)
		}
		next := make([]models.KnownAccount, 0, len(accs)+1)
		next = append(next, models.KnownAccount{
			ID:        identity.ID,
			Email:     identity.Email,
			LastLogin: r.now().UnixMilli(),
		})
		for _, acc := range accs {
			if acc.ID != identity.ID {
				next = append(next, acc)
			}
		}
		return encode(next)
	})
	if err != nil {
		return fmt.Errorf("save known accounts: %w", err)
	}
	return nil
}

// Remove deletes the entry with the given id; absent ids are a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	err := r.kv.Update(ctx, registryKey, func(old string, ok bool) (string, error) {
		var accs []models.KnownAccount
		if ok {
			accs = r.decode(ctx, old)
		}
		filtered := make([]models.KnownAccount, 0, len(accs))
		for _, acc := range accs {
			if acc.ID != id {
				filtered = append(filtered, acc)
			}
		}
		return encode(filtered)
	})
	if err != nil {
		return fmt.Errorf("save known accounts: %w", err)
	}
	return nil
}

// Clear empties the registry.
func (r *Registry) Clear(ctx context.Context) error {
	if err := r.kv.Remove(ctx, registryKey); err != nil {
		return fmt.Errorf("clear known accounts: %w", err)
	}
	return nil
}

// decode parses a stored registry value. Unreadable data is logged and
// treated as an empty registry; the next write repairs it.
func (r *Registry) decode(ctx context.Context, raw string) []models.KnownAccount {
	var accs []models.KnownAccount
	if err := json.Unmarshal([]byte(raw), &accs); err != nil {
		r.log.Warn(ctx, "known accounts unreadable, treating as empty",
			"error", fmt.Errorf("%w: %v", apperr.ErrStorageParse, err))
		return nil
	}
	return accs
}

func encode(accs []models.KnownAccount) (string, error) {
	raw, err := json.Marshal(accs)
	if err != nil {
		return "", fmt.Errorf("encode known accounts: %w", err)
	}
	return string(raw), nil
}
