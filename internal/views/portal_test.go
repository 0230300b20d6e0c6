package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal-web/internal/config"
	"jobportal-web/internal/listing"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/portalapi"
	"jobportal-web/pkg/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	jobQueries []portalapi.JobQuery
	deleted   []int64
	users     []models.User
}

func (f *fakeAPI) ListJobs(ctx context.Context, token string, q portalapi.JobQuery) (*models.JobList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobQueries = append(f.jobQueries, q)
	return &models.JobList{Jobs: []models.Job{{ID: 1, Title: "Go dev"}}, TotalJobs: 12}, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeAPI) DeleteJob(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) queries() []portalapi.JobQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]portalapi.JobQuery(nil), f.jobQueries...)
}

func newTestPortal(api API) *Portal {
	cfg := config.Default()
	cfg.Listing.Debounce = 10 * time.Millisecond
	cfg.Listing.UserDebounce = 10 * time.Millisecond
	return NewPortal(newTestRegistry(), api, cfg, logging.NewNopLogger(), nil)
}

func TestAdminJobsFetchesFirstPage(t *testing.T) {
	api := &fakeAPI{}
	p := newTestPortal(api)

	v := p.AdminJobs("s1", "tok")
	require.NoError(t, v.Wait(context.Background()))

	assert.Equal(t, []portalapi.JobQuery{{Search: "", Page: 1, Limit: 10}}, api.queries())
	assert.Equal(t, 2, v.Snapshot().TotalPages)
	assert.Same(t, v, p.AdminJobs("s1", "tok"))
}

func TestDeleteRefreshesAdminJobs(t *testing.T) {
	api := &fakeAPI{}
	p := newTestPortal(api)

	v := p.AdminJobs("s1", "tok")
	require.NoError(t, v.Wait(context.Background()))

	flow := p.AdminDelete("s1")
	require.NoError(t, flow.Select(7))
	require.NoError(t, flow.Confirm(context.Background(), "tok"))

	assert.Equal(t, []int64{7}, api.deleted)
	assert.Eventually(t, func() bool { return len(api.queries()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestAdminUsersFiltersLocally(t *testing.T) {
	api := &fakeAPI{users: []models.User{
		{ID: 1, Name: "Ann", Email: "ann@acme.io", Role: "admin"},
		{ID: 2, Name: "Bob", Email: "bob@beta.io", Role: "user"},
		{ID: 3, Name: "Cleo", Email: "cleo@acme.io", Role: "user"},
	}}
	p := newTestPortal(api)

	v := p.AdminUsers("s1", "tok")
	require.NoError(t, v.Wait(context.Background()))
	assert.Equal(t, 3, v.Snapshot().Total)

	v.SubmitSearch("ACME")
	require.NoError(t, v.Wait(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, "Ann", snap.Items[0].Name)

	v.SubmitSearch("admin")
	require.NoError(t, v.Wait(context.Background()))
	assert.Equal(t, 1, v.Snapshot().Total)
}

func TestDropSessionClosesViews(t *testing.T) {
	p := newTestPortal(&fakeAPI{})
	first := p.Jobs("s1", "")
	p.DropSession("s1")

	assert.ErrorIs(t, first.Wait(context.Background()), listing.ErrClosed)
	assert.NotSame(t, first, p.Jobs("s1", ""))
}
