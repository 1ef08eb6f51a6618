package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

var (
	alice = WithCaller(context.Background(), "user:alice")
	bob   = WithCaller(context.Background(), "user:bob")
)

func TestSessionService_StartsAtOnboarding(t *testing.T) {
	svc := NewSessionService(&stubRoleRepo{}, discardLogger)

	if svc.Current(alice) != nil {
		t.Fatal("expected no role")
	}
	if svc.Dashboard(alice) != domain.DashboardOnboarding {
		t.Fatalf("expected onboarding, got %s", svc.Dashboard(alice))
	}
}

func TestSessionService_Choose(t *testing.T) {
	cases := []struct {
		role domain.Role
		want domain.Dashboard
	}{
		{domain.RoleConsumer, domain.DashboardConsumer},
		{domain.RoleCourier, domain.DashboardCourier},
		{domain.RoleBusiness, domain.DashboardBusiness},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			repo := &stubRoleRepo{}
			svc := NewSessionService(repo, discardLogger)

			got, err := svc.Choose(alice, tc.role)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want || svc.Dashboard(alice) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if stored, ok := repo.roles["user:alice"]; !ok || stored != tc.role {
				t.Fatalf("role not persisted under the caller: %v", repo.roles)
			}
		})
	}
}

func TestSessionService_RolesArePerCaller(t *testing.T) {
	repo := &stubRoleRepo{}
	svc := NewSessionService(repo, discardLogger)

	if _, err := svc.Choose(bob, domain.RoleConsumer); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Choose(alice, domain.RoleCourier); err != nil {
		t.Fatal(err)
	}
	if r := svc.Current(bob); r == nil || *r != domain.RoleConsumer {
		t.Fatalf("bob's role changed to %v", r)
	}

	svc.SignOut(alice)

	if svc.Current(alice) != nil {
		t.Fatal("alice should be back on onboarding")
	}
	if r := svc.Current(bob); r == nil || *r != domain.RoleConsumer {
		t.Fatalf("signing alice out cleared bob: %v", r)
	}
	if _, ok := repo.roles["user:bob"]; !ok {
		t.Fatal("bob's stored role was removed")
	}
}

func TestSessionService_Choose_RejectsHubOwner(t *testing.T) {
	repo := &stubRoleRepo{}
	svc := NewSessionService(repo, discardLogger)

	_, err := svc.Choose(alice, domain.RoleHubOwner)
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if svc.Current(alice) != nil || repo.sets != 0 {
		t.Fatal("rejected role must not be stored")
	}
}

func TestSessionService_Choose_PersistFailureKeepsRole(t *testing.T) {
	svc := NewSessionService(&stubRoleRepo{setErr: errors.New("redis down")}, discardLogger)

	if _, err := svc.Choose(alice, domain.RoleCourier); err != nil {
		t.Fatalf("persist failure must not surface: %v", err)
	}
	if r := svc.Current(alice); r == nil || *r != domain.RoleCourier {
		t.Fatalf("expected courier in memory, got %v", r)
	}
}

func TestSessionService_Restore(t *testing.T) {
	t.Run("restores stored role", func(t *testing.T) {
		svc := NewSessionService(storedRoles("user:alice", domain.RoleBusiness), discardLogger)
		if svc.Dashboard(alice) != domain.DashboardBusiness {
			t.Fatalf("got %s", svc.Dashboard(alice))
		}
		if svc.Current(bob) != nil {
			t.Fatal("another caller must not see alice's role")
		}
	})
	t.Run("hub owner maps to business", func(t *testing.T) {
		svc := NewSessionService(storedRoles("user:alice", domain.RoleHubOwner), discardLogger)
		if svc.Dashboard(alice) != domain.DashboardBusiness {
			t.Fatalf("got %s", svc.Dashboard(alice))
		}
	})
	t.Run("unknown role", func(t *testing.T) {
		svc := NewSessionService(storedRoles("user:alice", "PILOT"), discardLogger)
		if svc.Current(alice) != nil {
			t.Fatal("unknown role must be dropped")
		}
	})
	t.Run("unreadable storage", func(t *testing.T) {
		svc := NewSessionService(&stubRoleRepo{getErr: errors.New("boom")}, discardLogger)
		if svc.Dashboard(alice) != domain.DashboardOnboarding {
			t.Fatalf("got %s", svc.Dashboard(alice))
		}
	})
	t.Run("read once per caller", func(t *testing.T) {
		repo := storedRoles("user:alice", domain.RoleCourier)
		svc := NewSessionService(repo, discardLogger)
		for i := 0; i < 3; i++ {
			svc.Current(alice)
		}
		if repo.gets != 1 {
			t.Fatalf("expected one read, got %d", repo.gets)
		}
	})
}

func TestSessionService_SignOut(t *testing.T) {
	repo := &stubRoleRepo{}
	svc := NewSessionService(repo, discardLogger)
	_, _ = svc.Choose(alice, domain.RoleConsumer)

	svc.SignOut(alice)

	if svc.Current(alice) != nil || len(repo.roles) != 0 {
		t.Fatal("role must be cleared in memory and storage")
	}
	if repo.clears != 1 {
		t.Fatalf("expected one clear, got %d", repo.clears)
	}
	if svc.Dashboard(alice) != domain.DashboardOnboarding {
		t.Fatalf("expected onboarding after sign out, got %s", svc.Dashboard(alice))
	}
}

func TestAppState_Snapshot(t *testing.T) {
	deliveries := newDeliverySvc(&stubDeliveryRepo{})
	session := NewSessionService(storedRoles("user:alice", domain.RoleCourier), discardLogger)
	app := NewAppState(deliveries, session)
	app.Load(context.Background())

	if _, err := deliveries.SelectLandmark("l3"); err != nil {
		t.Fatalf("select: %v", err)
	}
	snap := app.Snapshot(alice)

	if snap.Role == nil || *snap.Role != domain.RoleCourier {
		t.Fatalf("unexpected role %v", snap.Role)
	}
	if snap.Dashboard != domain.DashboardCourier {
		t.Fatalf("unexpected dashboard %s", snap.Dashboard)
	}
	if len(snap.Deliveries) != 1 || snap.SelectedLandmarkID != "l3" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if other := app.Snapshot(bob); other.Role != nil || other.Dashboard != domain.DashboardOnboarding {
		t.Fatalf("bob sees alice's role: %+v", other)
	}
}
