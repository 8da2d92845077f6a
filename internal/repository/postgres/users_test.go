package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	phone := "+201001234567"
	user := domain.User{
		ID:           "user-1",
		Email:        "renter@example.com",
		PasswordHash: "hash",
		FirstName:    "Raouf",
		LastName:     "Alaadin",
		Phone:        &phone,
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(`INSERT INTO rental\.users`).
		WithArgs(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Phone,
			user.ProfileImage,
			user.LockoutEnd,
			user.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	lockoutEnd := createdAt.Add(time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "phone", "profile_image", "lockout_end", "created_at",
	}).AddRow(
		"user-1", "renter@example.com", "hash", "Raouf", "Alaadin", nil, nil, lockoutEnd, createdAt,
	)

	mock.ExpectQuery(`SELECT .*FROM rental\.users`).
		WithArgs("renter@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "renter@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user id user-1, got %s", user.ID)
	}
	if user.LockoutEnd == nil || !user.LockoutEnd.Equal(lockoutEnd) {
		t.Fatalf("expected lockout end %v, got %v", lockoutEnd, user.LockoutEnd)
	}
	if user.Phone != nil {
		t.Fatalf("expected nil phone, got %v", *user.Phone)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	rows := pgxmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "phone", "profile_image", "lockout_end", "created_at",
	})

	mock.ExpectQuery(`SELECT .*FROM rental\.users`).
		WithArgs("ghost@example.com").
		WillReturnRows(rows)

	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_SetLockoutEnd(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	end := time.Now().UTC().Add(100 * 365 * 24 * time.Hour)

	mock.ExpectExec(`UPDATE rental\.users`).
		WithArgs(&end, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetLockoutEnd(context.Background(), "user-1", &end); err != nil {
		t.Fatalf("SetLockoutEnd returned error: %v", err)
	}

	mock.ExpectExec(`UPDATE rental\.users`).
		WithArgs(nil, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.SetLockoutEnd(context.Background(), "missing", nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_AddClaimsBatchesOneStatement(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	claims := []domain.UserClaim{
		{UserID: "user-1", Type: domain.ClaimTypeNameIdentifier, Value: "user-1"},
		{UserID: "user-1", Type: domain.ClaimTypeEmail, Value: "renter@example.com"},
		{UserID: "user-1", Type: domain.ClaimTypeRole, Value: domain.RoleClient},
	}

	mock.ExpectExec(`INSERT INTO rental\.user_claims`).
		WithArgs(
			"user-1", domain.ClaimTypeNameIdentifier, "user-1",
			"user-1", domain.ClaimTypeEmail, "renter@example.com",
			"user-1", domain.ClaimTypeRole, domain.RoleClient,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))

	if err := repo.AddClaims(context.Background(), claims); err != nil {
		t.Fatalf("AddClaims returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetProfiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	image := "avatars/two.png"

	rows := pgxmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "phone", "profile_image", "lockout_end", "created_at",
	}).
		AddRow("user-1", "one@example.com", "h1", "One", "User", nil, nil, nil, createdAt).
		AddRow("user-2", "two@example.com", "h2", "Two", "User", nil, image, nil, createdAt)

	mock.ExpectQuery(`SELECT .*FROM rental\.users`).
		WithArgs("user-1", "user-2").
		WillReturnRows(rows)

	profiles, err := repo.GetProfiles(context.Background(), []string{"user-1", "user-2"})
	if err != nil {
		t.Fatalf("GetProfiles returned error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles["user-2"].ProfileImage == nil || *profiles["user-2"].ProfileImage != image {
		t.Fatalf("expected profile image %q, got %v", image, profiles["user-2"].ProfileImage)
	}
}

func TestUserRepository_GetProfilesEmptyInput(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	profiles, err := repo.GetProfiles(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetProfiles returned error: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(profiles))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query issued: %v", err)
	}
}
