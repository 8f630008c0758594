package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"plaque-gateway/internal/domain/vehicle"
	"plaque-gateway/internal/metrics"
	"plaque-gateway/internal/utils"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// RegistrationProvider fetches the raw registration envelope for a plate.
type RegistrationProvider interface {
	Lookup(ctx context.Context, plate string) (*vehicle.Envelope, error)
}

type VehicleService struct {
	provider    RegistrationProvider
	concurrency int
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

func NewVehicleService(provider RegistrationProvider, concurrency int, m *metrics.Metrics, log zerolog.Logger) *VehicleService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &VehicleService{
		provider:    provider,
		concurrency: concurrency,
		metrics:     m,
		log:         log,
	}
}

// Lookup returns the normalized result for one plate. The result is always
// usable; the error is non-nil only when the provider call itself failed,
// in which case the result carries the error shape.
func (s *VehicleService) Lookup(ctx context.Context, plate string) (vehicle.Result, error) {
	if utils.IsBlank(plate) {
		s.metrics.ObserveLookup(metrics.OutcomeEmpty, 0)
		return vehicle.Unknown(plate), nil
	}

	start := time.Now()
	env, err := s.provider.Lookup(ctx, plate)
	if err != nil {
		s.metrics.ObserveLookup(metrics.OutcomeError, time.Since(start))
		s.log.Error().
			Err(err).
			Str("plate", plate).
			Msg("registration lookup failed")
		return vehicle.Failed(plate, err), err
	}

	rec, ok := env.Record()
	if !ok {
		s.metrics.ObserveLookup(metrics.OutcomeNotFound, time.Since(start))
		s.log.Info().
			Str("plate", plate).
			Msg("plate not found by registration provider")
		return vehicle.NotFound(plate), nil
	}

	result := vehicle.Normalize(plate, *rec)
	if result.CO2PerKm == nil && rec.CO2.Present() && !utils.IsBlank(rec.CO2.Text()) {
		s.log.Debug().
			Str("plate", plate).
			Str("co2", rec.CO2.Text()).
			Msg("dropped unparsable co2 value")
	}

	s.metrics.ObserveLookup(metrics.OutcomeFound, time.Since(start))
	s.log.Debug().
		Str("plate", plate).
		Str("marque", result.Marque).
		Str("modele", result.Modele).
		Msg("plate resolved")

	return result, nil
}

// LookupBatch resolves every plate independently and returns the results in
// input order. Individual failures are kept in their item; only an empty
// list is rejected.
func (s *VehicleService) LookupBatch(ctx context.Context, plates []string) ([]vehicle.Result, error) {
	if len(plates) == 0 {
		return nil, fmt.Errorf("%w: plaques list is empty", ErrInvalidInput)
	}
	s.metrics.ObserveBatch(len(plates))

	results := make([]vehicle.Result, len(plates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, plate := range plates {
		i, plate := i, plate
		g.Go(func() error {
			// ошибки по отдельным номерам не прерывают пакет
			results[i], _ = s.Lookup(gctx, plate)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Marque == vehicle.MarqueError {
			failed++
		}
	}
	s.log.Info().
		Int("plates", len(plates)).
		Int("failed", failed).
		Msg("batch lookup completed")

	return results, nil
}
