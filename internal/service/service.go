// Package service holds what the record services share: store error
// mapping and the hook that tells the analytics cache a mutation happened.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/insurance-crm/internal/repository"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
)

// Invalidator is notified after every successful mutation.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// NopInvalidator ignores mutations.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context) {}

// StoreError maps a repository error onto the API error classes. Store
// messages are kept verbatim.
func StoreError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFound(resource, err)
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.NewBackend(err)
}

// RequireFields fails when any mandatory field is missing.
func RequireFields(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return errors.NewValidation(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
}

// RequireNonBlank fails when a patch sets a mandatory field to empty.
func RequireNonBlank(blank []string) error {
	if len(blank) == 0 {
		return nil
	}
	return errors.NewValidation(fmt.Sprintf("required fields cannot be empty: %s", strings.Join(blank, ", ")))
}

// InvalidEnum reports a value outside a closed set.
func InvalidEnum(field, value string) error {
	return errors.NewValidation(fmt.Sprintf("invalid %s %q", field, value))
}
