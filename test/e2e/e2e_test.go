package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carecase-workers/internal/api"
	"carecase-workers/internal/common/config"
	"carecase-workers/internal/common/database"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/models"
	"carecase-workers/internal/records"
	"carecase-workers/internal/roster"

	rap "carecase-workers/internal/workers/application/resolve-application-progress"
	uas "carecase-workers/internal/workers/application/update-application-status"
	iap "carecase-workers/internal/workers/data-access/index-application-progress"
	qap "carecase-workers/internal/workers/data-access/query-application-progress"
)

// TestPostTreatmentLifecycle drives a post-treatment case through follow-up
// and closure against real Postgres, Redis and Elasticsearch. Run with
// E2E=1 with the services reachable on localhost.
func TestPostTreatmentLifecycle(t *testing.T) {
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 to run against live services")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}

	log := logger.NewTestLogger(t)

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "postgres ping")
	require.NoError(t, pg.Migrate(ctx))

	appID := "e2e-" + time.Now().UTC().Format("20060102150405")
	_, err = pg.DB.ExecContext(ctx, `
		INSERT INTO applications (id, domain, patient_id, partner_id, status, dates)
		VALUES ($1, 'post-treatment', 'patient-e2e', 'rhu-e2e', 'Approved', $2)
		ON CONFLICT (domain, id) DO UPDATE SET status = EXCLUDED.status`,
		appID, `{"lab_test_date":"2024-06-01","date_completed":"2024-06-10","follow_up_date":"2024-08-20"}`)
	require.NoError(t, err)

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx), "redis ping")

	store := records.NewCachedStore(records.NewPostgresStore(pg.DB), rdb.Client, time.Minute, log)

	// --- Status updates ---
	update := uas.NewHandler(uas.LoadConfig(), store, nil, nil, log)
	for _, status := range []string{models.StatusCompleted, models.StatusFollowUpRequired, models.StatusClosed} {
		out, err := update.Execute(ctx, &uas.Input{
			Domain:        models.DomainPostTreatment,
			ApplicationID: appID,
			Status:        status,
			Actor:         "e2e",
		})
		require.NoError(t, err, "update to %s", status)
		assert.Equal(t, status, out.Status)
	}

	// --- Resolution ---
	resolve := rap.NewHandler(rap.LoadConfig(), store, nil, nil, log)
	resolved, err := resolve.Execute(ctx, &rap.Input{Domain: models.DomainPostTreatment, ApplicationID: appID})
	require.NoError(t, err)
	assert.Equal(t, "with-follow-up", resolved.Variant)
	assert.Equal(t, 4, resolved.ActiveStep)
	assert.Equal(t, "Closed", resolved.CurrentStep)
	require.Len(t, resolved.Steps, 5)

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(), "elasticsearch ping")

	index := cfg.Database.Elasticsearch.ProgressIndex
	if index == "" {
		index = roster.DefaultIndex
	}
	require.NoError(t, es.EnsureIndex(ctx, index, database.ProgressIndexMapping))

	indexer := iap.NewHandler(iap.LoadConfig(index), store, es.Client, nil, nil, log)
	indexed, err := indexer.Execute(ctx, &iap.Input{Domain: models.DomainPostTreatment, ApplicationID: appID})
	require.NoError(t, err)
	assert.Equal(t, roster.DocumentID(models.DomainPostTreatment, appID), indexed.DocumentID)

	res, err := es.Client.Indices.Refresh(es.Client.Indices.Refresh.WithIndex(index))
	require.NoError(t, err)
	res.Body.Close()

	query := qap.NewHandler(qap.LoadConfig(), roster.NewSearcher(es.Client, index), nil, nil, log)
	page, err := query.Execute(ctx, &qap.Input{Domain: models.DomainPostTreatment, PartnerID: "rhu-e2e", Status: models.StatusClosed})
	require.NoError(t, err)
	found := false
	for _, e := range page.Data {
		if e.ApplicationID == appID {
			found = true
			assert.Equal(t, "with-follow-up", e.Variant)
			assert.Equal(t, 4, e.ActiveStep)
		}
	}
	assert.True(t, found, "indexed snapshot not returned by roster query")

	// --- HTTP API ---
	router := api.NewRouter(api.Deps{Store: store, Logger: log})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/applications/post-treatment/"+appID+"/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		History []models.StatusChange `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.GreaterOrEqual(t, len(history.History), 3)
}
