// Package contracttest holds behavioral contracts shared by every
// userrepo.Repository implementation. Each storage adapter runs the same
// contract from its own package.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/oakmount/accounts-api/internal/domain"
	userrepoport "github.com/oakmount/accounts-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	sub := domain.SubjectID("sub-a")
	if err := repo.Create(ctx, userrepoport.User{
		ID:          aID,
		Subject:     sub,
		DisplayName: "Alice Johnson",
		Email:       "alice@example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetBySubject(ctx, sub); err != nil {
		t.Fatalf("GetBySubject: %v", err)
	}

	// Missing lookups yield the sentinel.
	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID missing: err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetBySubject(ctx, domain.SubjectID("sub-missing")); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetBySubject missing: err=%v, want ErrNotFound", err)
	}

	// Subject uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:          domain.UserID(uuid.NewString()),
		Subject:     sub,
		DisplayName: "Alice 2",
		Email:       "alice2@example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); !errors.Is(err, userrepoport.ErrSubjectAlreadyBound) {
		t.Fatalf("Create duplicate subject: err=%v, want ErrSubjectAlreadyBound", err)
	}

	// ID uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:          aID,
		Subject:     domain.SubjectID("sub-other"),
		DisplayName: "Shadow",
		Email:       "shadow@example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); !errors.Is(err, userrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate id: err=%v, want ErrAlreadyExists", err)
	}

	// Deterministic list ordering by displayName (case-insensitive).
	bID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:          bID,
		Subject:     domain.SubjectID("sub-b"),
		DisplayName: "bob",
		Email:       "bob@example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	us, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(us) < 2 || us[0].DisplayName != "Alice Johnson" {
		t.Fatalf("unexpected ordering: %#v", us)
	}

	// Inactive users are hidden unless asked for.
	inactiveID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:          inactiveID,
		Subject:     domain.SubjectID("sub-c"),
		DisplayName: "Carol Inactive",
		Email:       "carol@example.com",
		IsActive:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}
	active, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	for _, u := range active {
		if u.ID == inactiveID {
			t.Fatalf("inactive user returned in active-only list")
		}
	}

	// Update replaces mutable fields but never the subject binding.
	bio := "hello"
	a, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID before update: %v", err)
	}
	a.DisplayName = "Alice J."
	a.Bio = &bio
	a.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.DisplayName != "Alice J." || got.Bio == nil || *got.Bio != "hello" {
		t.Fatalf("update not applied: %#v", got)
	}

	a.Subject = domain.SubjectID("sub-rebound")
	if err := repo.Update(ctx, a); !errors.Is(err, userrepoport.ErrSubjectAlreadyBound) {
		t.Fatalf("Update subject rebind: err=%v, want ErrSubjectAlreadyBound", err)
	}

	missing := got
	missing.ID = domain.UserID(uuid.NewString())
	if err := repo.Update(ctx, missing); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("Update missing: err=%v, want ErrNotFound", err)
	}
}
