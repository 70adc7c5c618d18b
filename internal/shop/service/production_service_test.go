package service

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
)

func setupProduction(t *testing.T) (*Services, *gorm.DB, *entity.Order, *entity.Production) {
	t.Helper()
	svc, db := setupServices(t)
	client := seedClient(t, db, "Taller propio")
	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    200,
		Description: "catalog print run",
		UnitPrice:   decimalFromString(t, "1.75"),
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	production, err := svc.Production.GetByOrder(order.ID)
	if err != nil {
		t.Fatalf("GetByOrder failed: %v", err)
	}
	return svc, db, order, production
}

func TestProductionStartPushesOrder(t *testing.T) {
	svc, _, order, production := setupProduction(t)

	started, err := svc.Production.Start(production.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != entity.ProductionInProgress || started.StartedAt == nil {
		t.Fatalf("expected in-progress with start time, got %+v", started)
	}

	got, _ := svc.Sales.GetOrder(order.ID)
	if got.Status != entity.OrderStatusInProduction {
		t.Fatalf("expected order IN_PRODUCTION, got %s", got.Status)
	}

	// starting while running is rejected
	if _, err := svc.Production.Start(production.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestProductionPauseAndResume(t *testing.T) {
	svc, _, _, production := setupProduction(t)

	// pausing before start is rejected
	if _, err := svc.Production.Pause(production.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	started, err := svc.Production.Start(production.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	firstStart := *started.StartedAt

	paused, err := svc.Production.Pause(production.ID)
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if paused.Status != entity.ProductionPaused {
		t.Fatalf("expected PAUSED, got %s", paused.Status)
	}

	time.Sleep(10 * time.Millisecond)
	resumed, err := svc.Production.Start(production.ID)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if resumed.Status != entity.ProductionInProgress {
		t.Fatalf("expected IN_PROGRESS after resume, got %s", resumed.Status)
	}
	if !resumed.StartedAt.After(firstStart) {
		t.Fatal("expected start timestamp to reset on resume")
	}
}

func TestProductionFinishComputesHours(t *testing.T) {
	svc, db, order, production := setupProduction(t)

	if _, err := svc.Production.Start(production.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// backdate the start so elapsed time is a known 90 minutes
	startedAt := time.Now().Add(-90 * time.Minute)
	db.Model(&entity.Production{}).Where("id = ?", production.ID).
		Update("started_at", startedAt)

	finished, err := svc.Production.Finish(production.ID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if finished.Status != entity.ProductionFinished || finished.FinishedAt == nil {
		t.Fatalf("expected finished with timestamp, got %+v", finished)
	}
	if finished.ActualHours == nil {
		t.Fatal("expected actual hours to be set")
	}
	if !finished.ActualHours.Equal(decimalFromString(t, "1.5")) {
		t.Fatalf("expected 1.5 hours, got %s", finished.ActualHours)
	}

	got, _ := svc.Sales.GetOrder(order.ID)
	if got.Status != entity.OrderStatusFinished {
		t.Fatalf("expected order FINISHED, got %s", got.Status)
	}
}

func TestProductionDoubleFinishRejected(t *testing.T) {
	svc, _, _, production := setupProduction(t)

	if _, err := svc.Production.Start(production.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Production.Finish(production.ID); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if _, err := svc.Production.Finish(production.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double finish, got %v", err)
	}
}

func TestProductionFinishWithoutStartLeavesHoursUnset(t *testing.T) {
	svc, _, _, production := setupProduction(t)

	finished, err := svc.Production.Finish(production.ID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if finished.ActualHours != nil {
		t.Fatalf("expected hours unset, got %s", finished.ActualHours)
	}
	if finished.Status != entity.ProductionFinished {
		t.Fatalf("expected FINISHED, got %s", finished.Status)
	}
}

func TestProductionAssignAndNotes(t *testing.T) {
	svc, _, _, production := setupProduction(t)

	employee := "emp-42"
	notes := "needs the large-format press"
	hours := decimalFromString(t, "12.5")
	updated, err := svc.Production.Update(production.ID, UpdateProductionRequest{
		EmployeeID:     &employee,
		EstimatedHours: &hours,
		Notes:          &notes,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.EmployeeID != employee || updated.Notes != notes {
		t.Fatalf("assignment not applied: %+v", updated)
	}
	if !updated.EstimatedHours.Equal(hours) {
		t.Fatalf("expected estimated hours 12.5, got %s", updated.EstimatedHours)
	}
	if updated.Status != entity.ProductionNotStarted {
		t.Fatalf("planning update must not move the state machine, got %s", updated.Status)
	}
}
