package services

import (
	"context"
	"errors"
	"testing"

	"moneyflow/internal/finance"
	"moneyflow/internal/models"
	"moneyflow/internal/pagination"
	"moneyflow/internal/testutil"
)

func TestCreateIncomeSource(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		dispatcher := &recordingDispatcher{}
		svc := NewIncomeSourceService(db, dispatcher)
		user := testutil.CreateTestUser(t, db)

		source, err := svc.CreateIncomeSource(ctx, user.ID, IncomeSourceInput{
			Name: "Salary", Amount: dec("4200"), Cycle: finance.CycleMonthly,
		})
		testutil.AssertNoError(t, err)

		if source.ID == "" {
			t.Fatal("expected an ID")
		}
		if source.Status != finance.SourceActive {
			t.Errorf("expected new source to be active, got %s", source.Status)
		}
		if dispatcher.count() != 1 || dispatcher.requests[0] != user.ID {
			t.Errorf("expected one forecast request for %s, got %v", user.ID, dispatcher.requests)
		}
	})

	t.Run("invalid_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewIncomeSourceService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateIncomeSource(ctx, user.ID, IncomeSourceInput{Name: "Gig", Amount: dec("10"), Cycle: "hourly"})
		testutil.AssertAppError(t, err, "INVALID_CYCLE")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewIncomeSourceService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateIncomeSource(ctx, user.ID, IncomeSourceInput{Name: "Gig", Amount: dec("0"), Cycle: finance.CycleDaily})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("dispatch_failure_does_not_fail_create", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewIncomeSourceService(db, &recordingDispatcher{err: errors.New("broker down")})
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateIncomeSource(ctx, user.ID, IncomeSourceInput{Name: "Rent", Amount: dec("900"), Cycle: finance.CycleMonthly})
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserIncomeSources(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewIncomeSourceService(db, nil)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestIncomeSource(t, db, user.ID, "3000", finance.CycleMonthly)
	testutil.CreateTestIncomeSource(t, db, user.ID, "100", finance.CycleWeekly)
	testutil.CreateTestPausedIncomeSource(t, db, user.ID, "50", finance.CycleDaily)
	testutil.CreateTestIncomeSource(t, db, other.ID, "9999", finance.CycleMonthly)

	t.Run("all", func(t *testing.T) {
		page, err := svc.GetUserIncomeSources(ctx, user.ID, pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 sources, got %d", page.TotalItems)
		}
	})

	t.Run("paused_only", func(t *testing.T) {
		status := finance.SourcePaused
		page, err := svc.GetUserIncomeSources(ctx, user.ID, pagination.PageRequest{}, &status)
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 paused source, got %d", page.TotalItems)
		}
	})

	t.Run("paginated", func(t *testing.T) {
		page, err := svc.GetUserIncomeSources(ctx, user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, nil)
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items, %d pages", len(page.Data), page.TotalPages)
		}
	})
}

func TestGetIncomeSourceByID_OtherUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewIncomeSourceService(db, nil)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	source := testutil.CreateTestIncomeSource(t, db, owner.ID, "3000", finance.CycleMonthly)

	_, err := svc.GetIncomeSourceByID(context.Background(), intruder.ID, source.ID)
	testutil.AssertAppError(t, err, "INCOME_SOURCE_NOT_FOUND")
}

func TestUpdateIncomeSource(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := NewIncomeSourceService(db, dispatcher)
	user := testutil.CreateTestUser(t, db)
	source := testutil.CreateTestIncomeSource(t, db, user.ID, "3000", finance.CycleMonthly)

	updated, err := svc.UpdateIncomeSource(ctx, user.ID, source.ID, IncomeSourceUpdate{
		Name:  strPtr("Salary (new job)"),
		Cycle: cyclePtr(finance.CycleYearly),
	})
	testutil.AssertNoError(t, err)

	if updated.Name != "Salary (new job)" || updated.Cycle != finance.CycleYearly {
		t.Errorf("unexpected update result %+v", updated)
	}

	var stored models.IncomeSource
	db.Where("id = ?", source.ID).First(&stored)
	if stored.Cycle != finance.CycleYearly {
		t.Errorf("expected stored cycle yearly, got %s", stored.Cycle)
	}
	if dispatcher.count() != 1 {
		t.Errorf("expected 1 forecast request, got %d", dispatcher.count())
	}

	t.Run("empty_update_is_noop", func(t *testing.T) {
		_, err := svc.UpdateIncomeSource(ctx, user.ID, source.ID, IncomeSourceUpdate{})
		testutil.AssertNoError(t, err)
		if dispatcher.count() != 1 {
			t.Errorf("expected no extra forecast request, got %d", dispatcher.count())
		}
	})

	t.Run("invalid_cycle", func(t *testing.T) {
		_, err := svc.UpdateIncomeSource(ctx, user.ID, source.ID, IncomeSourceUpdate{Cycle: cyclePtr("biweekly")})
		testutil.AssertAppError(t, err, "INVALID_CYCLE")
	})
}

func TestSetIncomeSourceStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := NewIncomeSourceService(db, dispatcher)
	user := testutil.CreateTestUser(t, db)
	source := testutil.CreateTestIncomeSource(t, db, user.ID, "3000", finance.CycleMonthly)

	paused, err := svc.SetIncomeSourceStatus(ctx, user.ID, source.ID, finance.SourcePaused)
	testutil.AssertNoError(t, err)
	if paused.Status != finance.SourcePaused {
		t.Errorf("expected paused, got %s", paused.Status)
	}

	active, err := svc.GetActiveIncomeSources(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(active) != 0 {
		t.Errorf("expected no active sources while paused, got %d", len(active))
	}

	_, err = svc.SetIncomeSourceStatus(ctx, user.ID, source.ID, finance.SourcePaused)
	testutil.AssertNoError(t, err)
	if dispatcher.count() != 1 {
		t.Errorf("expected pausing twice to request one forecast, got %d", dispatcher.count())
	}

	_, err = svc.SetIncomeSourceStatus(ctx, user.ID, source.ID, finance.SourceActive)
	testutil.AssertNoError(t, err)
	active, _ = svc.GetActiveIncomeSources(ctx, user.ID)
	if len(active) != 1 {
		t.Errorf("expected resumed source to be active, got %d", len(active))
	}

	_, err = svc.SetIncomeSourceStatus(ctx, user.ID, source.ID, "archived")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestDeleteIncomeSource(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := NewIncomeSourceService(db, dispatcher)
	user := testutil.CreateTestUser(t, db)
	source := testutil.CreateTestIncomeSource(t, db, user.ID, "3000", finance.CycleMonthly)

	testutil.AssertNoError(t, svc.DeleteIncomeSource(ctx, user.ID, source.ID))

	_, err := svc.GetIncomeSourceByID(ctx, user.ID, source.ID)
	testutil.AssertAppError(t, err, "INCOME_SOURCE_NOT_FOUND")

	err = svc.DeleteIncomeSource(ctx, user.ID, source.ID)
	testutil.AssertAppError(t, err, "INCOME_SOURCE_NOT_FOUND")

	if dispatcher.count() != 1 {
		t.Errorf("expected 1 forecast request, got %d", dispatcher.count())
	}
}
