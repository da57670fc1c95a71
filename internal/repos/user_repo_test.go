package repos_test

import (
	"testing"
	"time"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
)

func TestSessionsBindResolvePurge(t *testing.T) {
	users := repos.NewUserRepo(memdb(t))
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	owner := domain.Principal{Email: "owner@counterpos.test", Name: "Owner", Role: domain.RoleOwner}
	staff := domain.Principal{Email: "dara@counterpos.test", Name: "Dara", Role: domain.RoleSale}

	if err := users.BindSession(t.Context(), "live", "", owner, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := users.BindSession(t.Context(), "stale", "u-dara", staff, now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	p, err := users.SessionPrincipal(t.Context(), "live", now)
	if err != nil || *p != owner {
		t.Fatalf("live session: %v %+v", err, p)
	}
	if _, err := users.SessionPrincipal(t.Context(), "stale", now); err == nil {
		t.Fatal("stale session must not resolve")
	}

	n, err := users.PurgeSessions(t.Context(), now)
	if err != nil || n != 1 {
		t.Fatalf("purge: %v removed=%d", err, n)
	}

	if err := users.UnbindSession(t.Context(), "live"); err != nil {
		t.Fatal(err)
	}
	if _, err := users.SessionPrincipal(t.Context(), "live", now); err == nil {
		t.Fatal("unbound session must not resolve")
	}
}

func TestOpenDBSeedsDemoData(t *testing.T) {
	db := memdb(t)
	var products, users int
	if err := db.Get(&products, `SELECT COUNT(*) FROM products`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&users, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if products != 4 || users != 2 {
		t.Fatalf("seed: products=%d users=%d", products, users)
	}
	if _, err := repos.OpenDB("mysql", "x"); err == nil {
		t.Fatal("unsupported driver must fail")
	}
}
