package weather

import (
	"context"
	"time"
)

// Source abstracts the remote weather data source. Implementations return the raw
// nested records untouched; normalization happens in the Normalizer.
type Source interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (RawCurrentReading, error)
	FetchForecast(ctx context.Context, loc Location) (RawForecast, error)
}

// Cache is the contract for an externally supplied raw-response store
// (in-memory, Redis, ...). A miss is reported as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
