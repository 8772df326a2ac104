package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// latestKey replaces the date in cache keys of undated lookups.
	latestKey = "latest"

	defaultLookupTimeout = 15 * time.Second
)

// exchangeRateService resolves rates through three tiers: the persisted history
// (dated lookups only), the cache, then the remote provider. Hits back-fill the
// tiers that missed.
type exchangeRateService struct {
	BaseService
	rateRepo  portsrepo.ExchangeRateRepositoryFacade
	cache     providers.RateCache
	provider  providers.RateProvider
	latestTTL time.Duration
	// lookupTimeout bounds one shared trip through the tiers.
	lookupTimeout time.Duration
	inflight      singleflight.Group
}

// NewExchangeRateService creates the rate resolver. latestTTL bounds how long an
// undated ("latest") rate stays cached; rates of past days are cached without expiry.
// lookupTimeout bounds a resolution shared by concurrent callers; zero picks a default.
func NewExchangeRateService(
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	cache providers.RateCache,
	provider providers.RateProvider,
	latestTTL time.Duration,
	lookupTimeout time.Duration,
	options ...ServiceOption,
) portssvc.ExchangeRateSvcFacade {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	svc := &exchangeRateService{
		rateRepo:      rateRepo,
		cache:         cache,
		provider:      provider,
		latestTTL:     latestTTL,
		lookupTimeout: lookupTimeout,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// RateCacheKey builds the cache key of a lookup, e.g. "exchange_rate:USD:EUR:2025-07-15".
func RateCacheKey(fromCode, toCode string, date *time.Time) string {
	day := latestKey
	if date != nil {
		day = date.Format(time.DateOnly)
	}
	return fmt.Sprintf("exchange_rate:%s:%s:%s", fromCode, toCode, day)
}

func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrValidation, code)
	}
	return code, nil
}

// GetRate resolves the rate from fromCode to toCode, on date or latest when date is nil.
func (s *exchangeRateService) GetRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	from, err := normalizeCurrencyCode(fromCode)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := normalizeCurrencyCode(toCode)
	if err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	var day *time.Time
	if date != nil {
		d := dateOnly(*date)
		day = &d
	}
	key := RateCacheKey(from, to, day)

	// Concurrent lookups of the same key share one trip through the tiers. The trip
	// runs detached from whichever caller started it so that caller's cancellation
	// cannot fail the others.
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		defer cancel()
		return s.resolve(shared, from, to, day, key)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

func (s *exchangeRateService) resolve(ctx context.Context, from, to string, day *time.Time, key string) (decimal.Decimal, error) {
	logAttrs := []any{slog.String("from", from), slog.String("to", to), slog.String("cache_key", key)}

	storeMissed := false
	if day != nil {
		stored, err := s.rateRepo.FindExchangeRateOn(ctx, from, to, *day)
		switch {
		case err == nil:
			s.LogDebug(ctx, "Exchange rate served from history", logAttrs...)
			s.cache.SetRate(ctx, key, stored.Rate, s.ttlFor(day))
			return stored.Rate, nil
		case errors.Is(err, apperrors.ErrNotFound):
			storeMissed = true
		default:
			// A broken store must not block settlement while the provider still answers.
			s.LogError(ctx, err, "Failed to read exchange rate history", logAttrs...)
		}
	}

	if rate, ok := s.cache.GetRate(ctx, key); ok {
		s.LogDebug(ctx, "Exchange rate served from cache", logAttrs...)
		if storeMissed {
			if stored := s.persist(ctx, from, to, *day, rate); !stored.Equal(rate) {
				s.cache.SetRate(ctx, key, stored, s.ttlFor(day))
				rate = stored
			}
		}
		return rate, nil
	}

	rate, err := s.provider.FetchRate(ctx, from, to, day)
	if err != nil {
		s.LogError(ctx, err, "Exchange rate provider failed", logAttrs...)
		if !errors.Is(err, apperrors.ErrRateUnavailable) {
			err = fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
		}
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: provider returned non-positive rate %s for %s/%s", apperrors.ErrRateUnavailable, rate, from, to)
	}

	s.LogInfo(ctx, "Exchange rate fetched from provider", append(logAttrs, slog.String("rate", rate.String()))...)
	if day != nil {
		rate = s.persist(ctx, from, to, *day, rate)
	}
	s.cache.SetRate(ctx, key, rate, s.ttlFor(day))
	return rate, nil
}

// ttlFor returns no expiry for days already over, latestTTL otherwise.
func (s *exchangeRateService) ttlFor(day *time.Time) time.Duration {
	if day != nil && day.Before(s.Today()) {
		return 0
	}
	return s.latestTTL
}

// persist writes a historical rate and returns the rate the store now holds for the
// day, which differs from rate when another writer got there first. Failure is logged,
// not returned: the caller already holds a valid rate.
func (s *exchangeRateService) persist(ctx context.Context, from, to string, day time.Time, rate decimal.Decimal) decimal.Decimal {
	record := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             rate,
		DateEffective:    day,
		AuditFields:      domain.NewAuditFields(domain.SystemActor, s.Now()),
	}
	logAttrs := []any{slog.String("from", from), slog.String("to", to), slog.String("date", day.Format(time.DateOnly))}
	if err := s.rateRepo.SaveExchangeRate(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to persist exchange rate", logAttrs...)
		return rate
	}

	// The insert is a no-op when the day already has a row.
	stored, err := s.rateRepo.FindExchangeRateOn(ctx, from, to, day)
	if err != nil {
		s.LogError(ctx, err, "Failed to re-read persisted exchange rate", logAttrs...)
		return rate
	}
	if !stored.Rate.Equal(rate) {
		s.LogInfo(ctx, "Exchange rate already recorded for the day, keeping stored value",
			append(logAttrs, slog.String("fetched", rate.String()), slog.String("stored", stored.Rate.String()))...)
	}
	return stored.Rate
}

// Convert multiplies amount by the resolved rate and rounds to cents.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	rate, err := s.GetRate(ctx, fromCode, toCode, date)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.Convert(amount, rate), nil
}
