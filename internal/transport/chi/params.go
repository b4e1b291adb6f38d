package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/openbrik/propsearch/internal/domain/schema"
	"github.com/openbrik/propsearch/internal/domain/search/request"
)

// decodeSearchRequest maps query parameters onto the closed request struct.
// Multi-valued parameters accept both repetition (beds=2&beds=3) and
// comma-separated lists (beds=2,3).
func decodeSearchRequest(q url.Values) (request.Request, error) {
	req := request.Request{
		Term:        q.Get("q"),
		Status:      listParam(q, "status"),
		Type:        listParam(q, "type"),
		Beds:        listParam(q, "beds"),
		Baths:       listParam(q, "baths"),
		AreaID:      listParam(q, "areaId"),
		DeveloperID: listParam(q, "developerId"),
		CommunityID: listParam(q, "communityId"),
		AgentID:     listParam(q, "agentId"),
		Sort:        request.Sort(q.Get("sort")),
		SortAsc:     strings.EqualFold(q.Get("order"), "asc"),
	}

	var err error
	if req.Page, err = intParam(q, "page", 0); err != nil {
		return request.Request{}, err
	}
	if req.Limit, err = intParam(q, "limit", 0); err != nil {
		return request.Request{}, err
	}

	if v := q.Get("isFeatured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return request.Request{}, fmt.Errorf("invalid isFeatured: %q", v)
		}
		req.IsFeatured = &b
	}

	if req.PriceMin, err = floatParam(q, "priceMin"); err != nil {
		return request.Request{}, err
	}
	if req.PriceMax, err = floatParam(q, "priceMax"); err != nil {
		return request.Request{}, err
	}

	for _, name := range schema.MultiValueFields() {
		if values := listParam(q, name); len(values) > 0 {
			req.Features.SetByName(name, values)
		}
	}

	if err := decodeGeo(q, &req); err != nil {
		return request.Request{}, err
	}

	return req, nil
}

// decodeGeo reads the lat/long/radiusKm triple. Supplying only part of the
// triple is an error rather than a silently ignored filter.
func decodeGeo(q url.Values, req *request.Request) error {
	lat, long, radius := q.Get("lat"), q.Get("long"), q.Get("radiusKm")
	if lat == "" && long == "" && radius == "" {
		return nil
	}
	if lat == "" || long == "" || radius == "" {
		return fmt.Errorf("geo filter requires lat, long and radiusKm together")
	}

	g := request.Geo{}
	var err error
	if g.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return fmt.Errorf("invalid lat: %q", lat)
	}
	if g.Long, err = strconv.ParseFloat(long, 64); err != nil {
		return fmt.Errorf("invalid long: %q", long)
	}
	if g.RadiusKm, err = strconv.ParseFloat(radius, 64); err != nil {
		return fmt.Errorf("invalid radiusKm: %q", radius)
	}

	req.Geo = &g
	return nil
}

// listParam collects all occurrences of a parameter and splits each on commas.
func listParam(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return n, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &f, nil
}
