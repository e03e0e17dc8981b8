package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oapi-codegen/nullable"

	memclock "github.com/oakmount/accounts-api/internal/adapters/memory/clock"
	memuserrepo "github.com/oakmount/accounts-api/internal/adapters/memory/userrepo"
	"github.com/oakmount/accounts-api/internal/apperror"
	"github.com/oakmount/accounts-api/internal/domain"
)

func newTestService() (*Service, *memclock.ManualClock) {
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	return NewService(memuserrepo.NewRepo(), clk), clk
}

func TestService_GetUser_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	_, err := svc.GetUser(context.Background(), domain.UserID("missing"))
	if err == nil {
		t.Fatalf("expected error")
	}
	ae := (*apperror.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Message != "User not found" {
		t.Fatalf("err=%v (type=%T), want 404 User not found", err, err)
	}
}

func TestService_RegisterThenGet(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	created, err := svc.Register(context.Background(), domain.SubjectID("sub-1"), RegisterInput{
		DisplayName: "  Alice   Smith ",
		Email:       "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	if created.DisplayName != "Alice Smith" {
		t.Fatalf("displayName=%q", created.DisplayName)
	}
	if !created.IsActive {
		t.Fatalf("new accounts must be active")
	}

	got, err := svc.GetUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUser err=%v", err)
	}
	if got.ID != created.ID || got.Email != "alice@example.com" {
		t.Fatalf("got=%+v created=%+v", got, created)
	}
}

func TestService_Register_SubjectAlreadyBound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), domain.SubjectID("sub-1"), RegisterInput{
		DisplayName: "Alice",
		Email:       "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	_, err = svc.Register(context.Background(), domain.SubjectID("sub-1"), RegisterInput{
		DisplayName: "Alice",
		Email:       "alice2@example.com",
	})
	ae := (*apperror.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 409 {
		t.Fatalf("err=%v, want 409", err)
	}
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"empty displayName", RegisterInput{DisplayName: "   ", Email: "a@example.com"}},
		{"empty email", RegisterInput{DisplayName: "Alice", Email: ""}},
		{"bad email", RegisterInput{DisplayName: "Alice", Email: "not-an-email"}},
	}
	for _, c := range cases {
		_, err := svc.Register(context.Background(), domain.SubjectID("sub-"+c.name), c.in)
		ae := (*apperror.Error)(nil)
		if !errors.As(err, &ae) || ae.Status != 422 {
			t.Fatalf("%s: err=%v, want 422", c.name, err)
		}
	}
}

func TestService_Register_EmailInUse(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), domain.SubjectID("sub-1"), RegisterInput{
		DisplayName: "Alice",
		Email:       "alice@example.com",
	}); err != nil {
		t.Fatalf("Register err=%v", err)
	}

	_, err := svc.Register(context.Background(), domain.SubjectID("sub-2"), RegisterInput{
		DisplayName: "Other Alice",
		Email:       "Alice@Example.com", // case-insensitive match
	})
	ae := (*apperror.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 409 {
		t.Fatalf("err=%v, want 409", err)
	}
}

func TestService_GetMyProfile_NotProvisioned(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	_, err := svc.GetMyProfile(context.Background(), domain.SubjectID("sub-1"))
	ae := (*apperror.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("err=%v, want 404", err)
	}
}

func TestService_UpdateMyProfile_PatchSemantics(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService()

	bio := "hello"
	created, err := svc.Register(context.Background(), domain.SubjectID("sub-1"), RegisterInput{
		DisplayName: "Alice",
		Email:       "alice@example.com",
		Bio:         &bio,
	})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}

	clk.Advance(time.Minute)

	// Omitted fields stay; null bio clears it.
	got, err := svc.UpdateMyProfile(context.Background(), domain.SubjectID("sub-1"), UpdateMyProfileInput{
		DisplayName: nullable.NewNullableWithValue("  Alice  J  "),
		Bio:         nullable.NewNullNullable[string](),
	})
	if err != nil {
		t.Fatalf("UpdateMyProfile err=%v", err)
	}
	if got.DisplayName != "Alice J" {
		t.Fatalf("displayName=%q", got.DisplayName)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("email changed unexpectedly: %q", got.Email)
	}
	if got.Bio != nil {
		t.Fatalf("bio should be cleared, got %q", *got.Bio)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updatedAt not advanced: %v vs %v", got.UpdatedAt, created.UpdatedAt)
	}
}

func TestService_UpdateMyProfile_NullDisplayNameRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), domain.SubjectID("sub-1"), RegisterInput{
		DisplayName: "Alice",
		Email:       "alice@example.com",
	}); err != nil {
		t.Fatalf("Register err=%v", err)
	}

	_, err := svc.UpdateMyProfile(context.Background(), domain.SubjectID("sub-1"), UpdateMyProfileInput{
		DisplayName: nullable.NewNullNullable[string](),
	})
	ae := (*apperror.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 422 {
		t.Fatalf("err=%v, want 422", err)
	}
}

func TestService_ListUsers_OrderedAndFiltered(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	for _, in := range []struct {
		sub  string
		name string
	}{
		{"sub-b", "bob"},
		{"sub-a", "Alice"},
	} {
		if _, err := svc.Register(context.Background(), domain.SubjectID(in.sub), RegisterInput{
			DisplayName: in.name,
			Email:       in.sub + "@example.com",
		}); err != nil {
			t.Fatalf("Register %s: %v", in.sub, err)
		}
	}

	us, err := svc.ListUsers(context.Background(), false)
	if err != nil {
		t.Fatalf("ListUsers err=%v", err)
	}
	if len(us) != 2 || us[0].DisplayName != "Alice" || us[1].DisplayName != "bob" {
		t.Fatalf("unexpected list: %+v", us)
	}
}
