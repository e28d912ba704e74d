package github

import (
	"context"

	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
)

// fetchField satisfies reads of attributes not explicitly modeled on a
// wrapper by fetching the full remote representation and looking the field up
// by name. Absent fields fail with an unknown operation error.
func fetchField(ctx context.Context, api APIClient, path, name string) (interface{}, error) {
	rep, err := api.FetchResource(ctx, path, false)
	if err != nil {
		return nil, err
	}
	value, ok := rep[name]
	if !ok {
		return nil, apperrors.NewUnknownOperationError(name)
	}
	return value, nil
}

// probeField reports whether a field would resolve via fetchField. Each probe
// costs one full remote fetch, so callers should not probe in hot paths.
func probeField(ctx context.Context, api APIClient, path, name string) (bool, error) {
	rep, err := api.FetchResource(ctx, path, false)
	if err != nil {
		return false, err
	}
	_, ok := rep[name]
	return ok, nil
}
