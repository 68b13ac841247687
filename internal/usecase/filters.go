package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"estate-core/internal/domain/entity"
)

var (
	bedroomPattern  = regexp.MustCompile(`(?i)(\d+)\s*(?:bedroom|br\b|bed\b|bhk)`)
	bathroomPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:bathroom|bath\b)`)
	maxPricePattern = regexp.MustCompile(`(?i)(?:under|below|max)\s*(\d+)`)
	minPricePattern = regexp.MustCompile(`(?i)(?:above|over|min)\s*(\d+)`)
)

// categoryKeywords maps message keywords to canonical listing categories.
// Ordered so longer/more specific words win over substrings.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"penthouse", "Penthouse"},
	{"townhouse", "Townhouse"},
	{"apartment", "Apartment"},
	{"villa", "Villa"},
	{"office", "Office"},
	{"shop", "Shop"},
	{"studio", "Apartment"},
	{"flat", "Apartment"},
}

// locationGazetteer lists the areas the directory knows about. Multi-word
// names come first so "al wakrah" is not shadowed by a shorter match.
var locationGazetteer = []string{
	"west bay",
	"the pearl",
	"al wakrah",
	"al rayyan",
	"al khor",
	"al sadd",
	"musheireb",
	"lusail",
	"doha",
}

// ExtractFilters pulls structured property filters out of a free-text
// message. It is total: unmatched text just leaves fields unset.
func ExtractFilters(message string) entity.PropertyFilters {
	var filters entity.PropertyFilters
	lower := strings.ToLower(message)

	if m := bedroomPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			filters.Bedrooms = &n
		}
	}
	if m := bathroomPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			filters.Bathrooms = &n
		}
	}
	if m := maxPricePattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			filters.MaxPrice = &n
		}
	}
	if m := minPricePattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			filters.MinPrice = &n
		}
	}

	switch {
	case strings.Contains(lower, "rent") || strings.Contains(lower, "lease"):
		filters.Type = "rent"
	case strings.Contains(lower, "buy") || strings.Contains(lower, "sale") || strings.Contains(lower, "purchase"):
		filters.Type = "sale"
	}

	for _, c := range categoryKeywords {
		if strings.Contains(lower, c.keyword) {
			filters.Category = c.category
			break
		}
	}

	for _, location := range locationGazetteer {
		if strings.Contains(lower, location) {
			filters.Location = location
			break
		}
	}

	if strings.Contains(lower, "featured") {
		featured := true
		filters.Featured = &featured
	}

	return filters
}
