package http

import (
	"context"
	"net/http"

	"gestionale/internal/core"
	"gestionale/internal/views"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	lq, err := parseListQuery(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	items, err := listSnapshot(r.Context(), s.transactionViews, lq.scopeKey(), s.cacheTTL, func(ctx context.Context) ([]core.Transaction, error) {
		switch {
		case !lq.From.IsZero():
			return s.stores.Transactions.ListByDateRange(ctx, lq.From, lq.To)
		case lq.Area != "":
			return s.stores.Transactions.ListByArea(ctx, lq.Area)
		default:
			return s.stores.Transactions.List(ctx)
		}
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	// The store read is scoped by one parameter at most; any other
	// active parameter narrows the snapshot here so filters always
	// AND-combine.
	items = views.Apply(items,
		views.Field(string(lq.Area), func(t core.Transaction) string { return string(t.Area) }),
		views.TextSearch(lq.Search, func(t core.Transaction) []string {
			return []string{t.Category, t.Notes, t.InvoiceNumber}
		}),
		views.Field(lq.Status, func(t core.Transaction) string { return string(t.Status) }),
		views.Field(lq.Category, func(t core.Transaction) string { return t.Category }),
		views.InMonth(lq.Year, lq.Month, func(t core.Transaction) core.Date { return t.Date }),
	)
	NewJSONResponse().Body(items).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.stores.Transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(tx).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created, err := s.stores.Transactions.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.transactionViews.Prepend(*created)
	s.invalidateStats()
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, err := s.stores.Transactions.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.transactionViews.UpdateByID(*updated)
	s.invalidateStats()
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.stores.Transactions.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	s.transactionViews.RemoveByID(id)
	s.invalidateStats()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
