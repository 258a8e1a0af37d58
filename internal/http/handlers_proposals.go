package http

import (
	"context"
	"net/http"
	"time"

	"gestionale/internal/core"
	"gestionale/internal/views"
)

// proposalView adds the derived expiry flag to the stored proposal.
// Expiry is presentation only and is never written to the store.
type proposalView struct {
	core.Proposal
	Expired bool `json:"expired"`
}

func presentProposal(p core.Proposal, now time.Time) proposalView {
	return proposalView{Proposal: p, Expired: p.Expired(now)}
}

func presentProposals(items []core.Proposal, now time.Time) []proposalView {
	out := make([]proposalView, len(items))
	for i, p := range items {
		out[i] = presentProposal(p, now)
	}
	return out
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	lq, err := parseListQuery(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	items, err := listSnapshot(r.Context(), s.proposalViews, lq.scopeKey(), s.cacheTTL, func(ctx context.Context) ([]core.Proposal, error) {
		if lq.ClientID != "" {
			return s.stores.Proposals.ListByClient(ctx, lq.ClientID)
		}
		return s.stores.Proposals.List(ctx)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	items = views.Apply(items,
		views.TextSearch(lq.Search, func(p core.Proposal) []string {
			return []string{p.Title, p.Notes}
		}),
		views.Field(lq.Status, func(p core.Proposal) string { return string(p.Status) }),
	)
	NewJSONResponse().Body(presentProposals(items, time.Now())).Write(w)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := s.stores.Proposals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(presentProposal(*proposal, time.Now())).Write(w)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var in core.ProposalInput
	if err := decodeJSON(r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created, err := s.stores.Proposals.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.proposalViews.Prepend(*created)
	NewJSONResponse().Status(http.StatusCreated).Body(presentProposal(*created, time.Now())).Write(w)
}

func (s *Server) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, err := s.stores.Proposals.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	s.proposalViews.UpdateByID(*updated)
	NewJSONResponse().Body(presentProposal(*updated, time.Now())).Write(w)
}

func (s *Server) handleDeleteProposal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.stores.Proposals.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	s.proposalViews.RemoveByID(id)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
