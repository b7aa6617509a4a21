package service

import (
	"errors"
	"fmt"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
)

// Every error a service returns wraps exactly one of these. Messages
// attached to ErrValidation, ErrForbidden and ErrNotFound are safe to
// show to the caller; the others are not.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream failure")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func denied(a access.Action) error {
	return fmt.Errorf("%w: not allowed to %s", ErrForbidden, a)
}

func requireCaller(caller *models.User) error {
	if caller == nil || caller.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// uniqueExcluding returns ids in first-seen order with blanks, repeats and
// skip removed.
func uniqueExcluding(ids []string, skip string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == skip || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
