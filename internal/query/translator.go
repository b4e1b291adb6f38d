// Package query translates a structured search request into the index
// store's native FT.SEARCH syntax. Translation is pure: no I/O, no clock.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/geo"
	"github.com/openbrik/propsearch/internal/domain/schema"
	"github.com/openbrik/propsearch/internal/domain/search/request"
)

// Query is a composed native query with its sort directive. An empty SortBy
// means relevance (score) order.
type Query struct {
	Raw     string
	SortBy  string
	SortAsc bool
}

// Translate converts a validated request into a native query. Clauses across
// distinct filter dimensions are AND'd; values within one dimension are OR'd.
func Translate(req request.Request) (Query, error) {
	var parts []string

	if term := SanitizeTerm(req.Term); term != "" {
		parts = append(parts, buildTermClause(term))
	}

	parts = appendTagClause(parts, "status", req.Status)
	parts = appendTagClause(parts, "type", req.Type)
	parts = appendTagClause(parts, "beds", req.Beds)
	parts = appendTagClause(parts, "baths", req.Baths)
	parts = appendTagClause(parts, "areaId", req.AreaID)
	parts = appendTagClause(parts, "developerId", req.DeveloperID)
	parts = appendTagClause(parts, "communityId", req.CommunityID)
	parts = appendTagClause(parts, "agentId", req.AgentID)

	if req.IsFeatured != nil {
		parts = append(parts, buildTagClause("isFeatured", []string{strconv.FormatBool(*req.IsFeatured)}))
	}

	if req.PriceMin != nil || req.PriceMax != nil {
		parts = append(parts, buildRangeClause("price", req.PriceMin, req.PriceMax))
	}

	for _, field := range schema.MultiValueFields() {
		parts = appendTagClause(parts, field, req.Features.ByName(field))
	}

	if req.Geo != nil {
		// Index-side candidate cut; the exact haversine filter runs over the
		// candidates in the search service.
		latMin, latMax, lonMin, lonMax := geo.BoundingBox(req.Geo.Lat, req.Geo.Long, req.Geo.RadiusKm)
		parts = append(parts, buildRangeClause("lat", &latMin, &latMax))
		parts = append(parts, buildRangeClause("long", &lonMin, &lonMax))
	}

	raw := "*"
	if len(parts) > 0 {
		raw = strings.Join(parts, " ")
	}

	sortBy, err := sortField(req.Sort)
	if err != nil {
		return Query{}, err
	}

	return Query{Raw: raw, SortBy: sortBy, SortAsc: req.SortAsc}, nil
}

// Autocomplete builds a name-prefix query for suggestion lookups. Returns
// false when nothing searchable survives sanitization.
func Autocomplete(prefix string) (string, bool) {
	term := SanitizeTerm(prefix)
	if term == "" {
		return "", false
	}
	return fmt.Sprintf("@name:(%s*)", term), true
}

// SanitizeTerm strips characters outside the alphanumeric/whitespace set and
// collapses whitespace runs. Conservative by policy: free text can never
// inject query syntax.
func SanitizeTerm(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	lastSpace := true
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// buildTermClause ORs a prefix match across every weighted text field.
func buildTermClause(term string) string {
	fields := schema.TextFields()
	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, fmt.Sprintf("@%s:(%s*)", f, term))
	}
	return "(" + strings.Join(clauses, " | ") + ")"
}

func appendTagClause(parts []string, field string, values []string) []string {
	if len(values) == 0 {
		return parts
	}
	return append(parts, buildTagClause(field, values))
}

func buildTagClause(field string, values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		escaped = append(escaped, tagEscaper.Replace(v))
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

func buildRangeClause(field string, lower, upper *float64) string {
	minBound := "-inf"
	maxBound := "+inf"
	if lower != nil {
		minBound = strconv.FormatFloat(*lower, 'f', -1, 64)
	}
	if upper != nil {
		maxBound = strconv.FormatFloat(*upper, 'f', -1, 64)
	}
	return fmt.Sprintf("@%s:[%s %s]", field, minBound, maxBound)
}

func sortField(s request.Sort) (string, error) {
	switch s {
	case request.SortRelevance:
		return "", nil
	case request.SortPrice:
		return "price", nil
	case request.SortCreatedAt:
		return "createdAt", nil
	case request.SortName:
		return "name", nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidRequest, s)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)
