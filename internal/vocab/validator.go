// Package vocab validates enumerated domain vocabularies before any data call
package vocab

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

// Category identifies a domain vocabulary.
type Category string

const (
	CategorySubSector             Category = "sub-sector"
	CategorySubIndustry           Category = "sub-industry"
	CategoryIndexCode             Category = "index"
	CategoryReportSection         Category = "section"
	CategoryRankingClassification Category = "classification"
	CategoryGainerLoserPeriod     Category = "period"
)

// Static closed vocabularies. Sub-sector and sub-industry are fetched from
// the provider instead, since those lists can grow.
var (
	// CompanyIndexCodes are the indices with a company-listing endpoint.
	CompanyIndexCodes = []string{
		"FTSE", "IDX30", "IDXBUMN20", "IDXESGL", "IDXG30", "IDXHIDIV20",
		"IDXQ30", "IDXV30", "JII70", "KOMPAS100", "LQ45", "SMINFRA18", "SRIKEHATI",
	}

	// DailyIndexCodes additionally cover the composite and STI for index-daily.
	DailyIndexCodes = []string{
		"FTSE", "IDX30", "IDXBUMN20", "IDXESGL", "IDXG30", "IDXHIDIV20",
		"IDXQ30", "IDXV30", "IHSG", "JII70", "KOMPAS100", "LQ45",
		"SMINFRA18", "SRIKEHATI", "STI",
	}

	// ReportSections are the company report sections.
	ReportSections = []string{
		"Dividend", "Financials", "Future", "Management",
		"Overview", "Ownership", "Peers", "Valuation",
	}

	// RankingClassifications are the companies/top ranking sections.
	RankingClassifications = []string{
		"Dividend Yield", "Earnings", "Market Cap", "Revenue", "Total Dividend",
	}

	// GainerLoserPeriods are the supported price-change windows.
	GainerLoserPeriods = []string{"1d", "7d", "30d", "365d"}
)

// Validator normalizes and validates categorical values against their
// vocabulary, rejecting invalid values before any outbound data call.
type Validator struct {
	sectors interfaces.SectorsClient
	logger  *common.Logger
	ttl     time.Duration
	now     func() time.Time

	mu            sync.Mutex
	subSectors    fetchedVocab
	subIndustries fetchedVocab
}

type fetchedVocab struct {
	canonical []string // title-cased, hyphen-free
	fetchedAt time.Time
}

// NewValidator creates a validator backed by the sectors client for the
// dynamic vocabularies.
func NewValidator(sectors interfaces.SectorsClient, logger *common.Logger) *Validator {
	return &Validator{
		sectors: sectors,
		logger:  logger,
		ttl:     common.FreshnessVocabulary,
		now:     time.Now,
	}
}

// Validate checks value against the category vocabulary and returns the
// canonical form. Failure is always a *models.InvalidDomainValueError
// carrying the full allowed set.
func (v *Validator) Validate(ctx context.Context, category Category, value string) (string, error) {
	switch category {
	case CategorySubSector:
		allowed, err := v.subSectorVocab(ctx)
		if err != nil {
			return "", err
		}
		return matchCanonical(category, value, allowed)
	case CategorySubIndustry:
		allowed, err := v.subIndustryVocab(ctx)
		if err != nil {
			return "", err
		}
		return matchCanonical(category, value, allowed)
	case CategoryIndexCode:
		return matchExact(category, strings.ToUpper(strings.TrimSpace(value)), DailyIndexCodes)
	case CategoryReportSection:
		return matchCanonical(category, value, ReportSections)
	case CategoryRankingClassification:
		// Accepts both "market_cap" and "Market Cap" phrasings
		return matchCanonical(category, strings.ReplaceAll(value, "_", " "), RankingClassifications)
	case CategoryGainerLoserPeriod:
		return matchExact(category, strings.ToLower(strings.TrimSpace(value)), GainerLoserPeriods)
	}
	return "", &models.InvalidDomainValueError{Category: string(category), Value: value}
}

// ValidateCompanyIndex validates against the narrower company-listing index set.
func (v *Validator) ValidateCompanyIndex(value string) (string, error) {
	return matchExact(CategoryIndexCode, strings.ToUpper(strings.TrimSpace(value)), CompanyIndexCodes)
}

// subSectorVocab returns the canonical sub-sector vocabulary, fetching when stale.
func (v *Validator) subSectorVocab(ctx context.Context) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.subSectors.fresh(v.now(), v.ttl) {
		return v.subSectors.canonical, nil
	}

	entries, err := v.sectors.ListSubSectors(ctx)
	if err != nil {
		return nil, err
	}

	canonical := make([]string, 0, len(entries))
	for _, e := range entries {
		canonical = append(canonical, Canonical(e.SubSector))
	}
	sort.Strings(canonical)

	v.subSectors = fetchedVocab{canonical: canonical, fetchedAt: v.now()}
	v.logger.Debug().Int("count", len(canonical)).Msg("Sub-sector vocabulary refreshed")
	return canonical, nil
}

// subIndustryVocab returns the canonical sub-industry vocabulary, fetching when stale.
func (v *Validator) subIndustryVocab(ctx context.Context) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.subIndustries.fresh(v.now(), v.ttl) {
		return v.subIndustries.canonical, nil
	}

	entries, err := v.sectors.ListSubIndustries(ctx)
	if err != nil {
		return nil, err
	}

	canonical := make([]string, 0, len(entries))
	for _, e := range entries {
		canonical = append(canonical, Canonical(e.SubIndustry))
	}
	sort.Strings(canonical)

	v.subIndustries = fetchedVocab{canonical: canonical, fetchedAt: v.now()}
	v.logger.Debug().Int("count", len(canonical)).Msg("Sub-industry vocabulary refreshed")
	return canonical, nil
}

func (f fetchedVocab) fresh(now time.Time, ttl time.Duration) bool {
	return !f.fetchedAt.IsZero() && now.Sub(f.fetchedAt) < ttl
}

// matchCanonical normalizes value and compares against canonical members.
func matchCanonical(category Category, value string, allowed []string) (string, error) {
	canonical := Canonical(value)
	for _, a := range allowed {
		if canonical == a {
			return a, nil
		}
	}
	return "", &models.InvalidDomainValueError{
		Category: string(category),
		Value:    value,
		Allowed:  allowed,
	}
}

// matchExact compares a pre-normalized value against closed members.
func matchExact(category Category, value string, allowed []string) (string, error) {
	for _, a := range allowed {
		if value == a {
			return a, nil
		}
	}
	return "", &models.InvalidDomainValueError{
		Category: string(category),
		Value:    value,
		Allowed:  allowed,
	}
}

// Canonical maps any casing/hyphenation of a vocabulary member to its
// canonical form: hyphens become spaces, words title-cased.
func Canonical(value string) string {
	s := strings.ReplaceAll(strings.TrimSpace(value), "-", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// ParamValue maps a canonical vocabulary member back to the provider's
// hyphenated lowercase query form.
func ParamValue(canonical string) string {
	return strings.ToLower(strings.ReplaceAll(canonical, " ", "-"))
}

// ClassificationParam maps a canonical ranking classification to the
// provider's snake_case query form.
func ClassificationParam(canonical string) string {
	return strings.ToLower(strings.ReplaceAll(canonical, " ", "_"))
}

// SectionParam maps a canonical report section to the provider's lowercase form.
func SectionParam(canonical string) string {
	return strings.ToLower(canonical)
}
