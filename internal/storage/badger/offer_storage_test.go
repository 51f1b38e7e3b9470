package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

func testManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}
	manager, err := NewManager(common.GetLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func sampleOffer() models.ScrapedOffer {
	return models.ScrapedOffer{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Paris",
		URL:         "https://www.linkedin.com/jobs/view/42",
		Description: "short listing text",
		Source:      "linkedin",
	}
}

func TestOfferUpsert_InsertStampsOriginAndNewFlag(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	result, err := manager.OfferStorage().Upsert(ctx, "u1", sampleOffer(), models.OriginScheduled)
	require.NoError(t, err)
	assert.True(t, result.Inserted)

	record, err := manager.OfferStorage().Get(ctx, "u1", "https://www.linkedin.com/jobs/view/42")
	require.NoError(t, err)
	assert.True(t, record.IsNew)
	assert.Equal(t, models.OriginScheduled, record.DiscoveryOrigin)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestOfferUpsert_UpdatePreservesOriginAndCreatedAt(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	_, err := manager.OfferStorage().Upsert(ctx, "u1", sampleOffer(), models.OriginScheduled)
	require.NoError(t, err)

	first, err := manager.OfferStorage().Get(ctx, "u1", "https://www.linkedin.com/jobs/view/42")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated := sampleOffer()
	updated.Description = "a much longer enriched description of the role"
	result, err := manager.OfferStorage().Upsert(ctx, "u1", updated, models.OriginManual)
	require.NoError(t, err)
	assert.False(t, result.Inserted)

	record, err := manager.OfferStorage().Get(ctx, "u1", "https://www.linkedin.com/jobs/view/42")
	require.NoError(t, err)
	assert.Equal(t, "a much longer enriched description of the role", record.Description)
	assert.Equal(t, models.OriginScheduled, record.DiscoveryOrigin, "origin is set on first insert only")
	assert.Equal(t, first.CreatedAt, record.CreatedAt)
	assert.True(t, record.UpdatedAt.After(first.UpdatedAt))
	assert.False(t, record.IsNew)
}

func TestOfferUpsert_SameURLDifferentUsersAreSeparate(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	_, err := manager.OfferStorage().Upsert(ctx, "u1", sampleOffer(), models.OriginScheduled)
	require.NoError(t, err)
	result, err := manager.OfferStorage().Upsert(ctx, "u2", sampleOffer(), models.OriginManual)
	require.NoError(t, err)
	assert.True(t, result.Inserted, "dedup is per user, not global")
}

func TestOfferStorage_ListByUser(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	offer := sampleOffer()
	_, err := manager.OfferStorage().Upsert(ctx, "u1", offer, models.OriginScheduled)
	require.NoError(t, err)
	offer.URL = "https://www.linkedin.com/jobs/view/43"
	_, err = manager.OfferStorage().Upsert(ctx, "u1", offer, models.OriginScheduled)
	require.NoError(t, err)
	offer.URL = "https://www.linkedin.com/jobs/view/44"
	_, err = manager.OfferStorage().Upsert(ctx, "other", offer, models.OriginScheduled)
	require.NoError(t, err)

	records, err := manager.OfferStorage().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunStorage_Lifecycle(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	status, err := manager.RunStorage().Create(ctx, "u1", "scheduled scrape: golang")
	require.NoError(t, err)
	assert.Equal(t, models.RunPending, status.State)
	assert.NotEmpty(t, status.ID)

	now := time.Now().UTC()
	status.State = models.RunSuccess
	status.Summary = &models.RunSummary{OffersFound: 3, OffersNew: 2}
	status.CompletedAt = &now
	require.NoError(t, manager.RunStorage().Update(ctx, status))

	loaded, err := manager.RunStorage().Get(ctx, status.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunSuccess, loaded.State)
	require.NotNil(t, loaded.Summary)
	assert.Equal(t, 2, loaded.Summary.OffersNew)
}

func TestCredentialStorage_Roundtrip(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	_, err := manager.CredentialStorage().Get(ctx, "u1", "linkedin")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	require.NoError(t, manager.CredentialStorage().Save(ctx, models.SiteCredentials{
		UserID:     "u1",
		Site:       "linkedin",
		Identifier: "user@example.com",
		Secret:     "secret",
	}))

	creds, err := manager.CredentialStorage().Get(ctx, "u1", "linkedin")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", creds.Identifier)
}

func TestCriteriaStorage_ListActiveFiltersInactive(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	require.NoError(t, manager.CriteriaStorage().Save(ctx, models.SearchCriteria{
		UserID: "u1", Query: "golang", Sites: []string{"linkedin"}, Active: true,
	}))
	require.NoError(t, manager.CriteriaStorage().Save(ctx, models.SearchCriteria{
		UserID: "u1", Query: "cobol", Sites: []string{"linkedin"}, Active: false,
	}))

	active, err := manager.CriteriaStorage().ListActive(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "golang", active[0].Query)
	assert.NotEmpty(t, active[0].ID, "save assigns an id")
}

func TestCriteriaStorage_StripsTransientSecrets(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	require.NoError(t, manager.CriteriaStorage().Save(ctx, models.SearchCriteria{
		UserID:     "u1",
		Query:      "golang",
		Sites:      []string{"linkedin"},
		Active:     true,
		Identifier: "should-not-persist",
		Secret:     "should-not-persist",
	}))

	active, err := manager.CriteriaStorage().ListActive(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Empty(t, active[0].Identifier)
	assert.Empty(t, active[0].Secret)
}

func TestKVStorage_CaseInsensitiveKeys(t *testing.T) {
	manager := testManager(t)
	ctx := context.Background()

	_, err := manager.KeyValueStorage().Get(ctx, "anthropic_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, manager.KeyValueStorage().Set(ctx, "Anthropic_API_Key", "sk-test"))

	value, err := manager.KeyValueStorage().Get(ctx, "anthropic_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", value)
}
