package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/models"
	"carecase-workers/internal/records/recordstest"
	"carecase-workers/internal/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	got  roster.Query
	page *roster.Page
	err  error
}

func (f *fakeRoster) Search(_ context.Context, q roster.Query) (*roster.Page, error) {
	f.got = q
	return f.page, f.err
}

func newRosterRouter(t *testing.T, s RosterSearcher) http.Handler {
	t.Helper()
	return NewRouter(Deps{Store: recordstest.NewMemoryStore(), Roster: s, Logger: logger.NewTestLogger(t)})
}

func TestRoster_Search(t *testing.T) {
	fake := &fakeRoster{page: &roster.Page{
		Entries: []roster.Entry{{Domain: models.DomainHomeVisit, ApplicationID: "hv-1", ActiveStep: 2}},
		Total:   1,
		Size:    20,
	}}
	r := newRosterRouter(t, fake)

	rec := do(t, r, "/api/v1/rosters/home-visit?partnerId=rhu-2&activeStep=2&recognized=true&q=visit&from=20&size=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var page roster.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "hv-1", page.Entries[0].ApplicationID)

	assert.Equal(t, models.DomainHomeVisit, fake.got.Domain)
	assert.Equal(t, "rhu-2", fake.got.PartnerID)
	assert.Equal(t, "visit", fake.got.Keywords)
	assert.Equal(t, 20, fake.got.From)
	assert.Equal(t, 5, fake.got.Size)
	require.NotNil(t, fake.got.ActiveStep)
	assert.Equal(t, 2, *fake.got.ActiveStep)
	require.NotNil(t, fake.got.Recognized)
	assert.True(t, *fake.got.Recognized)
}

func TestRoster_AllDomains(t *testing.T) {
	fake := &fakeRoster{page: &roster.Page{Entries: []roster.Entry{}}}
	r := newRosterRouter(t, fake)

	rec := do(t, r, "/api/v1/rosters?status=Approved")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fake.got.Domain)
	assert.Equal(t, "Approved", fake.got.Status)
	assert.Nil(t, fake.got.ActiveStep)
}

func TestRoster_BadInput(t *testing.T) {
	r := newRosterRouter(t, &fakeRoster{})

	rec := do(t, r, "/api/v1/rosters/dental")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "UNKNOWN_DOMAIN", decodeError(t, rec).Code)

	for _, path := range []string{
		"/api/v1/rosters?size=ten",
		"/api/v1/rosters?from=-1",
		"/api/v1/rosters?activeStep=x",
		"/api/v1/rosters?recognized=maybe",
	} {
		rec := do(t, r, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "INPUT_VALIDATION_FAILED", decodeError(t, rec).Code, path)
	}
}

func TestRoster_SearchFailure(t *testing.T) {
	r := newRosterRouter(t, &fakeRoster{err: apperrors.NewSearchQueryFailedError(errors.New("shard failure"))})

	rec := do(t, r, "/api/v1/rosters/post-treatment")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "SEARCH_QUERY_FAILED", decodeError(t, rec).Code)
}

func TestRoster_NotConfigured(t *testing.T) {
	r := newRosterRouter(t, nil)

	rec := do(t, r, "/api/v1/rosters")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "ROSTER_UNAVAILABLE", decodeError(t, rec).Code)
}
