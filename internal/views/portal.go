package views

import (
	"context"

	"jobportal-web/internal/config"
	"jobportal-web/internal/deleteflow"
	"jobportal-web/internal/listing"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
	"jobportal-web/internal/portalapi"
	"jobportal-web/pkg/models"
)

// Names of the per-session entries
const (
	PublicJobs  = "jobs"
	AdminJobs   = "admin.jobs"
	AdminUsers  = "admin.users"
	AdminDelete = "admin.delete"
)

// API is the part of the portal client the views read from
type API interface {
	ListJobs(ctx context.Context, token string, q portalapi.JobQuery) (*models.JobList, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	DeleteJob(ctx context.Context, token string, id int64) error
}

// Portal builds and caches the job-board views of each session
type Portal struct {
	registry *Registry
	api      API
	cfg      *config.Config
	logger   logging.Logger
	metrics  *metrics.Collector
}

// NewPortal wires the portal views onto a registry
func NewPortal(registry *Registry, api API, cfg *config.Config, logger logging.Logger, m *metrics.Collector) *Portal {
	return &Portal{registry: registry, api: api, cfg: cfg, logger: logger, metrics: m}
}

// Registry returns the underlying registry
func (p *Portal) Registry() *Registry { return p.registry }

func (p *Portal) listOptions(name string) listing.Options {
	return listing.Options{
		Name:     name,
		PageSize: p.cfg.Listing.PageSize,
		Debounce: p.cfg.Listing.Debounce,
		Timeout:  p.cfg.Listing.FetchTimeout,
		Logger:   p.logger,
		Metrics:  p.metrics,
	}
}

func (p *Portal) jobsFetch(token string) listing.FetchFunc[models.Job] {
	return func(ctx context.Context, q listing.Query, pageSize int) (listing.Page[models.Job], error) {
		list, err := p.api.ListJobs(ctx, token, portalapi.JobQuery{Search: q.Search, Page: q.Page, Limit: pageSize})
		if err != nil {
			return listing.Page[models.Job]{}, err
		}
		return listing.Page[models.Job]{Items: list.Jobs, Total: list.TotalJobs}, nil
	}
}

func (p *Portal) jobsView(sessionID, token, name string) *listing.View[models.Job] {
	return Get(p.registry, sessionID, name, func() *listing.View[models.Job] {
		v := listing.NewView[models.Job](p.jobsFetch(token), p.listOptions(name))
		v.Start()
		return v
	})
}

// Jobs returns the public job board of the session
func (p *Portal) Jobs(sessionID, token string) *listing.View[models.Job] {
	return p.jobsView(sessionID, token, PublicJobs)
}

// AdminJobs returns the admin job table of the session
func (p *Portal) AdminJobs(sessionID, token string) *listing.View[models.Job] {
	return p.jobsView(sessionID, token, AdminJobs)
}

// AdminUsers returns the admin user list. The API returns every user, so
// search and pagination happen locally over name, email and role.
func (p *Portal) AdminUsers(sessionID, token string) *listing.View[models.User] {
	return Get(p.registry, sessionID, AdminUsers, func() *listing.View[models.User] {
		fetch := listing.LocalFetch[models.User](
			func(ctx context.Context) ([]models.User, error) {
				return p.api.ListUsers(ctx, token)
			},
			func(u models.User, term string) bool {
				return listing.ContainsFold(term, u.Name, u.Email, u.Role)
			},
		)

		opts := p.listOptions(AdminUsers)
		opts.Debounce = p.cfg.Listing.UserDebounce
		v := listing.NewView[models.User](fetch, opts)
		v.Start()
		return v
	})
}

// AdminDelete returns the session's job delete flow. A successful delete
// refreshes the admin job table.
func (p *Portal) AdminDelete(sessionID string) *deleteflow.Flow {
	return Get(p.registry, sessionID, AdminDelete, func() *deleteflow.Flow {
		return deleteflow.New(p.api.DeleteJob, func(int64) {
			p.RefreshAdminJobs(sessionID)
		}, p.logger.WithField("flow", AdminDelete))
	})
}

// RefreshAdminJobs refetches the admin job table if the session has one
func (p *Portal) RefreshAdminJobs(sessionID string) {
	if v, ok := Lookup[*listing.View[models.Job]](p.registry, sessionID, AdminJobs); ok {
		v.Refresh()
	}
}

// DropSession closes every view of the session
func (p *Portal) DropSession(sessionID string) {
	if n := p.registry.DropSession(sessionID); n > 0 {
		p.logger.Debug("Closed session views", map[string]interface{}{
			"session_id": sessionID,
			"closed":     n,
		})
	}
}
