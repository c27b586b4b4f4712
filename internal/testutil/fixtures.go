package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"moneyflow/internal/finance"
	"moneyflow/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestIncomeSource creates an active income source.
func CreateTestIncomeSource(t *testing.T, db *gorm.DB, userID, amount string, cycle finance.Cycle) *models.IncomeSource {
	t.Helper()

	source := &models.IncomeSource{
		UserID: userID,
		Name:   fmt.Sprintf("Test Income %d", nextID()),
		Amount: decimal.RequireFromString(amount),
		Cycle:  cycle,
		Status: finance.SourceActive,
	}
	if err := db.Create(source).Error; err != nil {
		t.Fatalf("failed to create test income source: %v", err)
	}
	return source
}

// CreateTestPausedIncomeSource creates a paused income source.
func CreateTestPausedIncomeSource(t *testing.T, db *gorm.DB, userID, amount string, cycle finance.Cycle) *models.IncomeSource {
	t.Helper()

	source := CreateTestIncomeSource(t, db, userID, amount, cycle)
	if err := db.Model(source).Update("status", finance.SourcePaused).Error; err != nil {
		t.Fatalf("failed to pause test income source: %v", err)
	}
	source.Status = finance.SourcePaused
	return source
}

// CreateTestGoal creates a PERCENT_TOTAL goal with the given target, balance
// and percentage.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID, target, current, percent string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:          userID,
		Name:            fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:    decimal.RequireFromString(target),
		CurrentAmount:   decimal.RequireFromString(current),
		AllocationType:  finance.AllocationPercentTotal,
		AllocationValue: decimal.RequireFromString(percent),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestSourceGoal creates a goal funded from one income source.
func CreateTestSourceGoal(t *testing.T, db *gorm.DB, userID, sourceID string, allocType finance.AllocationType, value string, cycle *finance.Cycle) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:          userID,
		Name:            fmt.Sprintf("Test Source Goal %d", nextID()),
		TargetAmount:    decimal.NewFromInt(10000),
		CurrentAmount:   decimal.Zero,
		AllocationType:  allocType,
		AllocationValue: decimal.RequireFromString(value),
		AllocationCycle: cycle,
		SourceIncomeID:  &sourceID,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test source goal: %v", err)
	}
	return goal
}
