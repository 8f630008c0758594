package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"plaque-gateway/internal/backend"
	"plaque-gateway/internal/metrics"
	"plaque-gateway/internal/model"
)

type BackendFetcher interface {
	FetchAll(ctx context.Context, resource model.Resource) (*backend.Response, error)
}

// BackendService relays the backend collections and implements the few
// client-side lookups the front end relies on.
type BackendService struct {
	backend BackendFetcher
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewBackendService(fetcher BackendFetcher, m *metrics.Metrics, log zerolog.Logger) *BackendService {
	return &BackendService{
		backend: fetcher,
		metrics: m,
		log:     log,
	}
}

// List returns the backend answer for a collection as-is.
func (s *BackendService) List(ctx context.Context, resource model.Resource) (*backend.Response, error) {
	resp, err := s.backend.FetchAll(ctx, resource)
	if err != nil {
		s.metrics.ObserveBackend(string(resource), 0)
		s.log.Error().Err(err).Str("resource", string(resource)).Msg("failed to fetch backend collection")
		return nil, err
	}
	s.metrics.ObserveBackend(string(resource), resp.Status)
	return resp, nil
}

// FindByID scans the full collection for a record whose id renders as id.
func (s *BackendService) FindByID(ctx context.Context, resource model.Resource, id string) (model.Record, error) {
	records, err := s.records(ctx, resource)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s not found", ErrNotFound, resource.Label())
}

// Drivers returns the users whose type marks them as drivers.
func (s *BackendService) Drivers(ctx context.Context) ([]model.Record, error) {
	users, err := s.records(ctx, model.ResourceUsers)
	if err != nil {
		return nil, err
	}

	drivers := make([]model.Record, 0, len(users))
	for _, u := range users {
		if u.IsDriver() {
			drivers = append(drivers, u)
		}
	}

	s.log.Info().
		Int("drivers", len(drivers)).
		Int("users", len(users)).
		Msg("filtered drivers")

	return drivers, nil
}

func (s *BackendService) records(ctx context.Context, resource model.Resource) ([]model.Record, error) {
	resp, err := s.List(ctx, resource)
	if err != nil {
		return nil, err
	}
	var records []model.Record
	if err := json.Unmarshal(resp.Body, &records); err != nil {
		return nil, fmt.Errorf("decode backend %s list (status %d): %w", resource, resp.Status, err)
	}
	return records, nil
}
