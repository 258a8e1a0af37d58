package http

import (
	"context"
	"net/http"

	"gestionale/internal/core"
	"gestionale/internal/views"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	lq, err := parseListQuery(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	items, err := listSnapshot(r.Context(), s.projectViews, lq.scopeKey(), s.cacheTTL, func(ctx context.Context) ([]core.Project, error) {
		switch {
		case lq.ClientID != "":
			return s.stores.Projects.ListByClient(ctx, lq.ClientID)
		case lq.Area != "":
			return s.stores.Projects.ListByArea(ctx, lq.Area)
		default:
			return s.stores.Projects.List(ctx)
		}
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	// client_id wins the store read; area still applies here so the
	// two parameters AND-combine instead of one shadowing the other.
	items = views.Apply(items,
		views.Field(string(lq.Area), func(p core.Project) string { return string(p.Area) }),
		views.TextSearch(lq.Search, func(p core.Project) []string {
			return []string{p.Name, p.Description}
		}),
		views.Field(lq.Status, func(p core.Project) string { return string(p.Status) }),
		views.Field(lq.Category, func(p core.Project) string { return string(p.Type) }),
	)
	NewJSONResponse().Body(items).Write(w)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.stores.Projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(project).Write(w)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in core.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created, err := s.stores.Projects.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.projectViews.Prepend(*created)
	s.invalidateStats()
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, err := s.stores.Projects.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.projectViews.UpdateByID(*updated)
	s.invalidateStats()
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.stores.Projects.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	s.projectViews.RemoveByID(id)
	s.invalidateStats()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
