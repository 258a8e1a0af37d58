package http

import (
	"context"
	"net/http"

	"gestionale/internal/core"
	"gestionale/internal/views"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	lq, err := parseListQuery(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	items, err := listSnapshot(r.Context(), s.clientViews, lq.scopeKey(), s.cacheTTL, func(ctx context.Context) ([]core.Client, error) {
		return s.stores.Clients.List(ctx)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	items = views.Apply(items,
		views.TextSearch(lq.Search, func(c core.Client) []string {
			return []string{c.Name, c.Company, c.Email, c.Sector}
		}),
		views.Field(lq.Status, func(c core.Client) string { return string(c.Status) }),
	)
	NewJSONResponse().Body(items).Write(w)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.stores.Clients.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(client).Write(w)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var in core.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created, err := s.stores.Clients.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.clientViews.Prepend(*created)
	s.invalidateStats()
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, err := s.stores.Clients.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.clientViews.UpdateByID(*updated)
	s.invalidateStats()
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.stores.Clients.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	s.clientViews.RemoveByID(id)
	s.invalidateStats()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
