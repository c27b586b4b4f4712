package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"moneyflow/internal/models"
	"moneyflow/internal/testutil"
)

const missingUserID = "0192f5d2-0000-7000-8000-000000000000"

func registerTestUser(t *testing.T, svc UserServicer, email string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(email, testutil.TestPassword, "Test", "User")
	testutil.AssertNoError(t, err)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return &user
}

func TestCreateUser(t *testing.T) {
	t.Run("stores_normalized_email_and_bcrypt_hash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		user, err := svc.CreateUser("  Saver@Example.COM ", "hunter22", "Sam", "Saver")
		testutil.AssertNoError(t, err)

		if user.Email != "saver@example.com" {
			t.Errorf("expected saver@example.com, got %s", user.Email)
		}
		if user.Password == "hunter22" {
			t.Fatal("expected the password to be hashed")
		}
		if !svc.VerifyPassword(user, "hunter22") {
			t.Error("expected the stored hash to verify")
		}
		if svc.VerifyPassword(user, "hunter23") {
			t.Error("expected a different password to fail")
		}
		if !user.IsActive || user.RefreshTokenHash != "" {
			t.Errorf("expected an active user without refresh token, got %+v", user)
		}
	})

	t.Run("rejects_duplicate_regardless_of_case", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		registerTestUser(t, svc, "dup@example.com")

		_, err := svc.CreateUser("DUP@example.com", "another1", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "missing_email", email: "", password: "password123"},
		{name: "missing_password", email: "x@example.com", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(testutil.SetupTestDB(t))
			_, err := svc.CreateUser(tt.email, tt.password, "", "")
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestUserLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	active := registerTestUser(t, svc, "active@example.com")
	inactive := registerTestUser(t, svc, "inactive@example.com")
	db.Model(inactive).Update("is_active", false)

	t.Run("by_email_ignores_case", func(t *testing.T) {
		user, err := svc.GetUserByEmail("ACTIVE@example.com")
		testutil.AssertNoError(t, err)
		if user.ID != active.ID {
			t.Errorf("expected %s, got %s", active.ID, user.ID)
		}
	})

	t.Run("by_email_hides_inactive", func(t *testing.T) {
		_, err := svc.GetUserByEmail("inactive@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("by_id", func(t *testing.T) {
		user, err := svc.GetUserByID(active.ID)
		testutil.AssertNoError(t, err)
		if user.Email != "active@example.com" {
			t.Errorf("expected active@example.com, got %s", user.Email)
		}

		_, err = svc.GetUserByID(missingUserID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("unknown_email_looks_like_wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		registerTestUser(t, svc, "known@example.com")

		_, unknownErr := svc.AttemptLogin("ghost@example.com", testutil.TestPassword)
		_, wrongErr := svc.AttemptLogin("known@example.com", "not-it")

		testutil.AssertAppError(t, unknownErr, "INVALID_CREDENTIALS")
		testutil.AssertAppError(t, wrongErr, "INVALID_CREDENTIALS")
	})

	t.Run("locks_on_fifth_consecutive_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := registerTestUser(t, svc, "lock@example.com")

		for i := 1; i <= maxFailedLoginAttempts-1; i++ {
			_, err := svc.AttemptLogin(user.Email, "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}
		if got := reloadUser(t, db, user.ID); got.LockedUntil != nil || got.FailedLoginAttempts != maxFailedLoginAttempts-1 {
			t.Fatalf("expected %d attempts and no lock, got %d / %v", maxFailedLoginAttempts-1, got.FailedLoginAttempts, got.LockedUntil)
		}

		before := time.Now()
		_, err := svc.AttemptLogin(user.Email, "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		got := reloadUser(t, db, user.ID)
		if got.LockedUntil == nil {
			t.Fatal("expected the account to be locked")
		}
		if d := got.LockedUntil.Sub(before); d < lockoutDuration-time.Minute || d > lockoutDuration+time.Minute {
			t.Errorf("expected a lock of about %s, got %s", lockoutDuration, d)
		}
	})

	t.Run("correct_password_rejected_while_locked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := registerTestUser(t, svc, "locked@example.com")
		db.Model(user).Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLoginAttempts,
			"locked_until":          time.Now().Add(10 * time.Minute),
		})

		_, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")

		if got := reloadUser(t, db, user.ID); got.FailedLoginAttempts != maxFailedLoginAttempts || got.LastLoginAt != nil {
			t.Errorf("expected a locked attempt to change nothing, got %d attempts, last login %v", got.FailedLoginAttempts, got.LastLoginAt)
		}
	})

	t.Run("expired_lock_allows_login_and_resets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := registerTestUser(t, svc, "expired@example.com")
		db.Model(user).Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLoginAttempts,
			"locked_until":          time.Now().Add(-time.Minute),
		})

		loggedIn, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if loggedIn.LastLoginAt == nil {
			t.Error("expected last login to be returned")
		}

		got := reloadUser(t, db, user.ID)
		if got.FailedLoginAttempts != 0 || got.LockedUntil != nil || got.LastLoginAt == nil {
			t.Errorf("expected counters cleared and login recorded, got %d / %v / %v", got.FailedLoginAttempts, got.LockedUntil, got.LastLoginAt)
		}
	})

	t.Run("failure_after_expired_lock_locks_again", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := registerTestUser(t, svc, "relock@example.com")
		db.Model(user).Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLoginAttempts,
			"locked_until":          time.Now().Add(-time.Minute),
		})

		_, err := svc.AttemptLogin(user.Email, "still-wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		if got := reloadUser(t, db, user.ID); got.LockedUntil == nil || !got.LockedUntil.After(time.Now()) {
			t.Errorf("expected a fresh lock, got %v", got.LockedUntil)
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	user := registerTestUser(t, svc, "tokens@example.com")

	t.Run("empty_until_stored", func(t *testing.T) {
		got, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if got != "" {
			t.Errorf("expected no hash, got %q", got)
		}
	})

	t.Run("rotation_replaces_previous_hash", func(t *testing.T) {
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "first-digest"))
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "second-digest"))

		got, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if got != "second-digest" {
			t.Errorf("expected second-digest, got %q", got)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		testutil.AssertAppError(t, svc.StoreRefreshTokenHash(missingUserID, "digest"), "USER_NOT_FOUND")

		_, err := svc.GetRefreshTokenHash(missingUserID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
