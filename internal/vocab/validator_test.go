package vocab

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/models"
)

// stubSectors serves canned vocabularies and counts fetches.
type stubSectors struct {
	subSectors    []models.SubSectorEntry
	subIndustries []models.SubIndustryEntry
	listCalls     int
	err           error
}

func (s *stubSectors) ListSubSectors(context.Context) ([]models.SubSectorEntry, error) {
	s.listCalls++
	return s.subSectors, s.err
}

func (s *stubSectors) ListSubIndustries(context.Context) ([]models.SubIndustryEntry, error) {
	s.listCalls++
	return s.subIndustries, s.err
}

func (s *stubSectors) ListIndustries(context.Context) ([]models.IndustryEntry, error) {
	return nil, nil
}

func (s *stubSectors) ListCompaniesBySubSector(context.Context, string) ([]models.CompanyEntry, error) {
	return nil, nil
}

func (s *stubSectors) ListCompaniesBySubIndustry(context.Context, string) ([]models.CompanyEntry, error) {
	return nil, nil
}

func (s *stubSectors) ListCompaniesByIndex(context.Context, string) ([]models.CompanyEntry, error) {
	return nil, nil
}

func (s *stubSectors) GetListingPerformance(context.Context, string) (*models.ListingPerformance, error) {
	return nil, nil
}

func (s *stubSectors) GetCompanyReport(context.Context, string, string) (map[string]any, error) {
	return nil, nil
}

func (s *stubSectors) GetMostTraded(context.Context, string, string, int, string) (map[string][]models.MostTradedEntry, error) {
	return nil, nil
}

func (s *stubSectors) GetTopCompanies(context.Context, string, int, int, string) (map[string][]models.TopCompanyEntry, error) {
	return nil, nil
}

func (s *stubSectors) GetTopChanges(context.Context, string, int, string, string) (map[string]map[string][]models.TopChangeEntry, error) {
	return nil, nil
}

func (s *stubSectors) GetDailyTransactions(context.Context, string, string, string) ([]models.DailyTransaction, error) {
	return nil, nil
}

func (s *stubSectors) GetTotalMarketCap(context.Context, string, string) ([]models.MarketCapPoint, error) {
	return nil, nil
}

func (s *stubSectors) GetIndexDaily(context.Context, string, string, string) ([]models.IndexDailyPoint, error) {
	return nil, nil
}

func newTestValidator(sectors *stubSectors) *Validator {
	return NewValidator(sectors, common.NewSilentLogger())
}

func TestValidateSubSectorAcceptsAnyCasingAndHyphenation(t *testing.T) {
	sectors := &stubSectors{subSectors: []models.SubSectorEntry{
		{Sector: "financials", SubSector: "banks"},
		{Sector: "infrastructures", SubSector: "telecommunication-service"},
	}}
	v := newTestValidator(sectors)

	for _, input := range []string{"Banks", "banks", "BANKS"} {
		got, err := v.Validate(context.Background(), CategorySubSector, input)
		require.NoError(t, err, input)
		assert.Equal(t, "Banks", got)
	}

	for _, input := range []string{"telecommunication-service", "Telecommunication Service", "TELECOMMUNICATION-SERVICE"} {
		got, err := v.Validate(context.Background(), CategorySubSector, input)
		require.NoError(t, err, input)
		assert.Equal(t, "Telecommunication Service", got)
	}
}

func TestValidateSubSectorRejectsUnknownWithAllowedSet(t *testing.T) {
	sectors := &stubSectors{subSectors: []models.SubSectorEntry{
		{Sector: "financials", SubSector: "banks"},
	}}
	v := newTestValidator(sectors)

	_, err := v.Validate(context.Background(), CategorySubSector, "crypto")
	var domainErr *models.InvalidDomainValueError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "sub-sector", domainErr.Category)
	assert.Equal(t, "crypto", domainErr.Value)
	assert.Contains(t, domainErr.Allowed, "Banks")
	assert.Contains(t, err.Error(), "must be one of")
}

func TestValidateCachesFetchedVocabulary(t *testing.T) {
	sectors := &stubSectors{subSectors: []models.SubSectorEntry{
		{Sector: "financials", SubSector: "banks"},
	}}
	v := newTestValidator(sectors)

	for i := 0; i < 3; i++ {
		_, err := v.Validate(context.Background(), CategorySubSector, "banks")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, sectors.listCalls)

	// Expire the cache: next validation refetches
	v.now = func() time.Time { return time.Now().Add(common.FreshnessVocabulary + time.Minute) }
	_, err := v.Validate(context.Background(), CategorySubSector, "banks")
	require.NoError(t, err)
	assert.Equal(t, 2, sectors.listCalls)
}

func TestValidateIndexCodes(t *testing.T) {
	v := newTestValidator(&stubSectors{})

	got, err := v.Validate(context.Background(), CategoryIndexCode, "lq45")
	require.NoError(t, err)
	assert.Equal(t, "LQ45", got)

	// IHSG is valid for daily series but has no company listing
	got, err = v.Validate(context.Background(), CategoryIndexCode, "ihsg")
	require.NoError(t, err)
	assert.Equal(t, "IHSG", got)

	_, err = v.ValidateCompanyIndex("IHSG")
	var domainErr *models.InvalidDomainValueError
	assert.ErrorAs(t, err, &domainErr)

	got, err = v.ValidateCompanyIndex("idx30")
	require.NoError(t, err)
	assert.Equal(t, "IDX30", got)
}

func TestValidateClassificationAcceptsBothPhrasings(t *testing.T) {
	v := newTestValidator(&stubSectors{})

	for _, input := range []string{"market_cap", "Market Cap", "MARKET_CAP"} {
		got, err := v.Validate(context.Background(), CategoryRankingClassification, input)
		require.NoError(t, err, input)
		assert.Equal(t, "Market Cap", got)
	}
	assert.Equal(t, "market_cap", ClassificationParam("Market Cap"))
}

func TestValidatePeriods(t *testing.T) {
	v := newTestValidator(&stubSectors{})

	got, err := v.Validate(context.Background(), CategoryGainerLoserPeriod, " 7D ")
	require.NoError(t, err)
	assert.Equal(t, "7d", got)

	_, err = v.Validate(context.Background(), CategoryGainerLoserPeriod, "14d")
	var domainErr *models.InvalidDomainValueError
	assert.ErrorAs(t, err, &domainErr)
}

func TestValidateReportSections(t *testing.T) {
	v := newTestValidator(&stubSectors{})

	got, err := v.Validate(context.Background(), CategoryReportSection, "overview")
	require.NoError(t, err)
	assert.Equal(t, "Overview", got)
	assert.Equal(t, "overview", SectionParam(got))
}

func TestValidatePropagatesFetchFailure(t *testing.T) {
	upstream := &models.UpstreamError{StatusCode: 500, Message: "boom", Endpoint: "/subsectors/"}
	v := newTestValidator(&stubSectors{err: upstream})

	_, err := v.Validate(context.Background(), CategorySubSector, "banks")
	assert.ErrorIs(t, err, error(upstream))
}

func TestCanonicalAndParamValue(t *testing.T) {
	assert.Equal(t, "Telecommunication Service", Canonical("telecommunication-service"))
	assert.Equal(t, "telecommunication-service", ParamValue("Telecommunication Service"))
	assert.Equal(t, "Banks", Canonical("  banks "))
}
