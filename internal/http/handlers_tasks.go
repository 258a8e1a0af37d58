package http

import (
	"context"
	"net/http"

	"gestionale/internal/core"
	"gestionale/internal/views"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	lq, err := parseListQuery(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	items, err := listSnapshot(r.Context(), s.taskViews, lq.scopeKey(), s.cacheTTL, func(ctx context.Context) ([]core.Task, error) {
		switch {
		case lq.ProjectID != "":
			return s.stores.Tasks.ListByProject(ctx, lq.ProjectID)
		case lq.Area != "":
			return s.stores.Tasks.ListByArea(ctx, lq.Area)
		default:
			return s.stores.Tasks.List(ctx)
		}
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	// project_id wins the store read; area still applies here so the
	// two parameters AND-combine instead of one shadowing the other.
	items = views.Apply(items,
		views.Field(string(lq.Area), func(t core.Task) string { return string(t.Area) }),
		views.TextSearch(lq.Search, func(t core.Task) []string {
			return []string{t.Title, t.Description, t.AssignedTo}
		}),
		views.Field(lq.Status, func(t core.Task) string { return string(t.Status) }),
		views.Field(lq.Priority, func(t core.Task) string { return string(t.Priority) }),
		views.Field(lq.Assignee, func(t core.Task) string { return t.AssignedTo }),
	)
	NewJSONResponse().Body(items).Write(w)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.stores.Tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(task).Write(w)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in core.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created, err := s.stores.Tasks.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.taskViews.Prepend(*created)
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, err := s.stores.Tasks.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.taskViews.UpdateByID(*updated)
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.stores.Tasks.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	s.taskViews.RemoveByID(id)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
