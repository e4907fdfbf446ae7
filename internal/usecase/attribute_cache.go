package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/metrics"
)

// cachedExtractor stores extracted attributes in a CacheRepository keyed by catalog
// version, so a reload never serves attributes of a replaced product
type cachedExtractor struct {
	ctx     context.Context
	cache   domain.CacheRepository
	version string
	ttl     time.Duration
}

// attributeCacheKey formats "attributes:{catalog_version}:{product_id}"
func attributeCacheKey(version, productID string) string {
	return fmt.Sprintf("attributes:%s:%s", version, productID)
}

func (e *cachedExtractor) Attributes(p *domain.Product) domain.ExtractedAttributes {
	key := attributeCacheKey(e.version, p.ID)

	if raw, err := e.cache.Get(e.ctx, key); err == nil {
		var attrs domain.ExtractedAttributes
		if err := json.Unmarshal(raw, &attrs); err == nil {
			metrics.AttributeCacheHits.Inc()
			return attrs
		}
		logging.Warn().Str("key", key).Msg("Discarding undecodable cached attributes")
	}
	metrics.AttributeCacheMisses.Inc()

	attrs := ExtractAttributes(p)
	raw, err := json.Marshal(attrs)
	if err != nil {
		return attrs
	}
	// A failed write only costs a re-extraction next time
	if err := e.cache.Set(e.ctx, key, raw, e.ttl); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to cache extracted attributes")
	}
	return attrs
}
