// Package search serves filtered, sorted, paginated property queries and
// autocomplete against the index, with a TTL result cache in front.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/geo"
	"github.com/openbrik/propsearch/internal/domain/search/request"
	"github.com/openbrik/propsearch/internal/domain/search/result"
	"github.com/openbrik/propsearch/internal/logger"
	"github.com/openbrik/propsearch/internal/metrics"
	"github.com/openbrik/propsearch/internal/query"
)

// geoCandidateLimit caps how many bounding-box candidates are pulled for the
// exact haversine pass. Radius queries over denser result sets truncate;
// this bounds index load the same way the page-size cap does.
const geoCandidateLimit = 1000

// Config holds pagination and autocomplete bounds.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	AutocompleteMax int
}

// Service handles the read path: search, autocomplete, and index stats.
type Service struct {
	index IndexStore
	cache Cache
	cfg   Config
}

// New creates a search service.
func New(index IndexStore, cache Cache, cfg Config) *Service {
	return &Service{index: index, cache: cache, cfg: cfg}
}

// Search executes a property search. Results come from the cache when a
// previously computed page for the exact same request is still fresh;
// otherwise the request is translated, executed against the index, and the
// page cached. Index outage surfaces as domain.ErrIndexUnavailable, distinct
// from an empty result.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Page, error) {
	req.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err := req.Validate(); err != nil {
		return result.Page{}, err
	}

	log := logger.FromContext(ctx)

	page, err := s.cache.GetPage(ctx, req)
	if err == nil {
		metrics.SearchesTotal.WithLabelValues(metrics.CacheHit).Inc()
		return page, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		// Cache trouble must not take down the read path.
		log.Warn("query cache read failed", zap.Error(err))
	}
	metrics.SearchesTotal.WithLabelValues(metrics.CacheMiss).Inc()

	q, err := query.Translate(req)
	if err != nil {
		return result.Page{}, err
	}

	if req.Geo != nil {
		page, err = s.searchGeo(ctx, req, q)
	} else {
		page, err = s.searchPlain(ctx, req, q)
	}
	if err != nil {
		return result.Page{}, err
	}

	if err := s.cache.PutPage(ctx, req, page); err != nil {
		log.Warn("query cache write failed", zap.Error(err))
	}

	return page, nil
}

func (s *Service) searchPlain(ctx context.Context, req request.Request, q query.Query) (result.Page, error) {
	total, docs, err := s.index.Search(ctx, q, req.Offset(), req.Limit)
	if err != nil {
		return result.Page{}, err
	}
	return result.NewPage(docs, total, req.Page, req.Limit), nil
}

// searchGeo runs the bounding-box query, then applies the exact haversine
// distance filter before paginating. Pagination happens over the filtered
// set so total reflects only documents truly inside the radius.
func (s *Service) searchGeo(ctx context.Context, req request.Request, q query.Query) (result.Page, error) {
	_, candidates, err := s.index.Search(ctx, q, 0, geoCandidateLimit)
	if err != nil {
		return result.Page{}, err
	}

	within := make([]document.Document, 0, len(candidates))
	for _, doc := range candidates {
		dist := geo.Haversine(req.Geo.Lat, req.Geo.Long, doc.Lat, doc.Long)
		if dist <= req.Geo.RadiusKm {
			within = append(within, doc)
		}
	}

	total := len(within)
	offset := req.Offset()
	if offset > total {
		offset = total
	}
	end := offset + req.Limit
	if end > total {
		end = total
	}

	return result.NewPage(within[offset:end], total, req.Page, req.Limit), nil
}

// Autocomplete returns property name suggestions for a prefix.
func (s *Service) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	raw, ok := query.Autocomplete(prefix)
	if !ok {
		return nil, fmt.Errorf("%w: empty autocomplete prefix", domain.ErrInvalidRequest)
	}
	if limit <= 0 || limit > s.cfg.AutocompleteMax {
		limit = s.cfg.AutocompleteMax
	}

	log := logger.FromContext(ctx)

	names, err := s.cache.GetSuggestions(ctx, prefix, limit)
	if err == nil {
		return names, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		log.Warn("suggestion cache read failed", zap.Error(err))
	}

	names, err = s.index.Suggest(ctx, raw, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.PutSuggestions(ctx, prefix, limit, names); err != nil {
		log.Warn("suggestion cache write failed", zap.Error(err))
	}

	return names, nil
}

// Stats returns index metadata for operational visibility.
func (s *Service) Stats(ctx context.Context) (result.Stats, error) {
	return s.index.Stats(ctx)
}
