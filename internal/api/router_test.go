package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
	"github.com/kasinav/kasi-nav/internal/core/service"
	"github.com/kasinav/kasi-nav/internal/infrastructure/catalog"
	"github.com/kasinav/kasi-nav/internal/infrastructure/localstore"
	"github.com/kasinav/kasi-nav/internal/infrastructure/tracking"
)

const (
	goodToken  = "good-token"
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

// tokenAuth knows three bearer tokens, one per user.
type tokenAuth struct{}

var tokenUsers = map[string]domain.User{
	goodToken:  {ID: "u1", Email: "zoleka@example.com"},
	aliceToken: {ID: "alice", Email: "alice@example.com"},
	bobToken:   {ID: "bob", Email: "bob@example.com"},
}

func (tokenAuth) SignUp(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (tokenAuth) SignIn(context.Context, string, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (tokenAuth) SignOut(context.Context, string) error { return nil }

func (tokenAuth) GetSession(_ context.Context, token string) (*domain.Session, error) {
	user, ok := tokenUsers[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Session{AccessToken: token, User: user}, nil
}

func (a tokenAuth) GetUser(ctx context.Context, token string) (*domain.User, error) {
	sess, err := a.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &sess.User, nil
}

type offlineCompleter struct{}

func (offlineCompleter) Complete(context.Context, ports.CompletionRequest) (string, error) {
	return "", errors.New("offline")
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	store := localstore.NewWithFs(afero.NewMemMapFs(), "/state/kasi-nav.json")
	cat := catalog.Default(time.Now())

	registry := service.NewRegistry(cat.Landmarks, cat.Incidents, log)
	deliveries := service.NewDeliveryService(store, registry, log)
	sessions := service.NewSessionService(store, log)
	state := service.NewAppState(deliveries, sessions)
	state.Load(context.Background())

	return NewRouter(Dependencies{
		Log:            log,
		Auth:           tokenAuth{},
		Sessions:       sessions,
		State:          state,
		Deliveries:     deliveries,
		Assistant:      service.NewAssistantService(offlineCompleter{}, time.Second, log),
		Registry:       registry,
		Drivers:        tracking.NewFleet(tracking.DefaultDrivers(), tracking.DefaultZones()),
		IncidentMaxAge: 24 * time.Hour,
	})
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// The echoprometheus middleware registers its collectors globally, so the
// whole flow shares one router.
func TestRouter_DeliveryFlow(t *testing.T) {
	e := newTestRouter(t)
	var deliveryID string

	steps := []struct {
		name     string
		method   string
		target   string
		body     string
		authed   bool
		token    string // overrides authed
		wantCode int
		check    func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{name: "liveness", method: http.MethodGet, target: "/health", wantCode: http.StatusOK},
		{name: "readiness without dependencies", method: http.MethodGet, target: "/health/ready", wantCode: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantCode: http.StatusOK},
		{name: "no token", method: http.MethodGet, target: "/v1/deliveries", wantCode: http.StatusUnauthorized},
		{
			name: "seeded example", method: http.MethodGet, target: "/v1/deliveries", authed: true, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if !strings.Contains(rec.Body.String(), `"status":"pending"`) {
					t.Errorf("expected the example delivery, got %s", rec.Body.String())
				}
			},
		},
		{
			name: "onboarding", method: http.MethodGet, target: "/v1/session", authed: true, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if !strings.Contains(rec.Body.String(), `"dashboard":"onboarding"`) {
					t.Errorf("unexpected session %s", rec.Body.String())
				}
			},
		},
		{name: "create without role", method: http.MethodPost, target: "/v1/deliveries",
			body: `{"landmark":{"mainLandmark":"Blue Container"}}`, authed: true, wantCode: http.StatusForbidden},
		{name: "hub owner is not selectable", method: http.MethodPut, target: "/v1/session/role",
			body: `{"role":"HUB_OWNER"}`, authed: true, wantCode: http.StatusUnprocessableEntity},
		{name: "become consumer", method: http.MethodPut, target: "/v1/session/role",
			body: `{"role":"consumer"}`, authed: true, wantCode: http.StatusOK},
		{name: "unparseable description", method: http.MethodPost, target: "/v1/deliveries",
			body: `{"description":"over there"}`, authed: true, wantCode: http.StatusUnprocessableEntity},
		{
			name: "create", method: http.MethodPost, target: "/v1/deliveries",
			body: `{"landmark":{"mainLandmark":"Blue Container","spatialRelation":"behind","suggestedCategory":"spaza"}}`,
			authed: true, wantCode: http.StatusCreated,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var d domain.Delivery
				if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
					t.Fatal(err)
				}
				if d.ID == "" || d.To != "Blue Container" {
					t.Fatalf("unexpected delivery %+v", d)
				}
				deliveryID = d.ID
			},
		},
		{name: "consumer cannot advance", method: http.MethodPost, target: "/v1/deliveries/{id}/status",
			body: `{"status":"accepted","courier_id":"c1"}`, authed: true, wantCode: http.StatusForbidden},
		{name: "become courier", method: http.MethodPut, target: "/v1/session/role",
			body: `{"role":"COURIER"}`, authed: true, wantCode: http.StatusOK},
		{name: "skip ahead", method: http.MethodPost, target: "/v1/deliveries/{id}/status",
			body: `{"status":"delivered"}`, authed: true, wantCode: http.StatusUnprocessableEntity},
		{name: "accept", method: http.MethodPost, target: "/v1/deliveries/{id}/status",
			body: `{"status":"accepted","courier_id":"c1"}`, authed: true, wantCode: http.StatusOK},
		{
			name: "route drawn for accepted delivery", method: http.MethodGet, target: "/v1/map/scene", authed: true, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if !strings.Contains(rec.Body.String(), `"route"`) {
					t.Errorf("expected a route, got %s", rec.Body.String())
				}
			},
		},
		{name: "svg", method: http.MethodGet, target: "/v1/map/scene.svg", authed: true, wantCode: http.StatusOK},
		{
			name: "unknown delivery", method: http.MethodGet, target: "/v1/deliveries/nope", authed: true, wantCode: http.StatusNotFound,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"delivery not found"}` {
					t.Errorf("unexpected body %s", got)
				}
			},
		},
		{name: "drivers", method: http.MethodGet, target: "/v1/drivers?zone=Soweto", authed: true, wantCode: http.StatusOK},
		{name: "payment redirect", method: http.MethodGet, target: "/v1/payments/paystack", authed: true, wantCode: http.StatusFound},
		{name: "unknown gateway", method: http.MethodGet, target: "/v1/payments/paypal", authed: true, wantCode: http.StatusNotFound},
		{name: "sign out of role", method: http.MethodDelete, target: "/v1/session/role", authed: true, wantCode: http.StatusOK},
		{
			name: "state after sign out", method: http.MethodGet, target: "/v1/state", authed: true, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var st domain.AppState
				if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
					t.Fatal(err)
				}
				if st.Role != nil || st.Dashboard != domain.DashboardOnboarding || len(st.Deliveries) != 2 {
					t.Fatalf("unexpected state %+v", st)
				}
			},
		},

		// roles belong to each user
		{name: "bob becomes consumer", method: http.MethodPut, target: "/v1/session/role",
			body: `{"role":"CONSUMER"}`, token: bobToken, wantCode: http.StatusOK},
		{name: "alice becomes courier", method: http.MethodPut, target: "/v1/session/role",
			body: `{"role":"COURIER"}`, token: aliceToken, wantCode: http.StatusOK},
		{
			name: "bob keeps his role", method: http.MethodGet, target: "/v1/session", token: bobToken, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if !strings.Contains(rec.Body.String(), `"role":"CONSUMER"`) {
					t.Errorf("unexpected session %s", rec.Body.String())
				}
			},
		},
		{name: "bob can still create", method: http.MethodPost, target: "/v1/deliveries",
			body: `{"landmark":{"mainLandmark":"Blue Container"}}`, token: bobToken, wantCode: http.StatusCreated},
		{name: "alice cannot create as courier", method: http.MethodPost, target: "/v1/deliveries",
			body: `{"landmark":{"mainLandmark":"Blue Container"}}`, token: aliceToken, wantCode: http.StatusForbidden},
		{name: "alice signs out of her role", method: http.MethodDelete, target: "/v1/session/role", token: aliceToken, wantCode: http.StatusOK},
		{
			name: "bob unaffected by alice signing out", method: http.MethodGet, target: "/v1/state", token: bobToken, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var st domain.AppState
				if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
					t.Fatal(err)
				}
				if st.Role == nil || *st.Role != domain.RoleConsumer || st.Dashboard != domain.DashboardConsumer {
					t.Fatalf("unexpected state %+v", st)
				}
			},
		},
		{
			name: "alice back on onboarding", method: http.MethodGet, target: "/v1/session", token: aliceToken, wantCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if !strings.Contains(rec.Body.String(), `"dashboard":"onboarding"`) {
					t.Errorf("unexpected session %s", rec.Body.String())
				}
			},
		},
	}

	for _, s := range steps {
		target := strings.Replace(s.target, "{id}", deliveryID, 1)
		token := s.token
		if token == "" && s.authed {
			token = goodToken
		}
		rec := do(e, s.method, target, s.body, token)
		if rec.Code != s.wantCode {
			t.Fatalf("%s: expected %d, got %d (%s)", s.name, s.wantCode, rec.Code, rec.Body.String())
		}
		if s.check != nil {
			s.check(t, rec)
		}
	}
}
