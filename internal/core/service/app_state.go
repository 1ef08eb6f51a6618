package service

import (
	"context"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// AppState is the explicit application state handed to the view layer:
// load once at start, save after each mutation (done by the owning services).
// Deliveries are shared; the role belongs to the caller in ctx.
type AppState struct {
	Deliveries *DeliveryService
	Session    *SessionService
}

func NewAppState(deliveries *DeliveryService, session *SessionService) *AppState {
	return &AppState{Deliveries: deliveries, Session: session}
}

// Load re-hydrates the shared delivery state from storage. Roles are read
// per caller on first use.
func (a *AppState) Load(ctx context.Context) {
	a.Deliveries.Load(ctx)
}

// Snapshot returns the state as the caller in ctx sees it.
func (a *AppState) Snapshot(ctx context.Context) domain.AppState {
	role := a.Session.Current(ctx)
	st := domain.AppState{
		Role:       role,
		Dashboard:  domain.DashboardFor(role),
		Deliveries: a.Deliveries.List(),
	}
	if sel := a.Deliveries.Selected(); sel != nil {
		st.SelectedLandmarkID = sel.ID
	}
	return st
}
