package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/imprentacapital/imprenta-erp/internal/config"
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
)

func createDeliveredOrder(t *testing.T, svc *Services, clientID string, n int) *entity.Order {
	t.Helper()
	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    clientID,
		Quantity:    1,
		Description: fmt.Sprintf("delivered order %d", n),
		UnitPrice:   decimalFromString(t, "10.00"),
		Status:      entity.OrderStatusDelivered,
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	return order
}

func createDeliveredJob(t *testing.T, svc *Services, clientID string, n int) *entity.Job {
	t.Helper()
	job, err := svc.Sales.CreateJob(CreateJobRequest{
		ClientID:    clientID,
		Quantity:    1,
		Description: fmt.Sprintf("delivered job %d", n),
		UnitPrice:   decimalFromString(t, "5.00"),
		Status:      entity.OrderStatusDelivered,
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	return job
}

func TestOrderPricing(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Imprenta Luna")

	discount := decimalFromString(t, "10")
	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    3,
		Description: "tri-fold brochures",
		UnitPrice:   decimalFromString(t, "10.00"),
		DiscountPct: &discount,
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.TotalPrice.Equal(decimalFromString(t, "27.00")) {
		t.Fatalf("expected total 27.00, got %s", order.TotalPrice)
	}
}

func TestOrderPricingRecomputedOnUpdate(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Grafica Centro")

	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    2,
		Description: "posters",
		UnitPrice:   decimalFromString(t, "8.00"),
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.TotalPrice.Equal(decimalFromString(t, "16.00")) {
		t.Fatalf("expected total 16.00, got %s", order.TotalPrice)
	}

	qty := 5
	updated, err := svc.Sales.UpdateOrder(order.ID, UpdateOrderRequest{Quantity: &qty})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if !updated.TotalPrice.Equal(decimalFromString(t, "40.00")) {
		t.Fatalf("expected total 40.00 after update, got %s", updated.TotalPrice)
	}
}

func TestFrequentClientDefaultDiscount(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Cliente fiel")
	db.Model(client).Updates(map[string]interface{}{"is_frequent": true, "completed_count": 7})

	// no explicit discount: the tier discount applies
	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    3,
		Description: "business cards",
		UnitPrice:   decimalFromString(t, "10.00"),
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.DiscountPct.Equal(decimalFromString(t, "10")) {
		t.Fatalf("expected tier discount 10, got %s", order.DiscountPct)
	}
	if !order.TotalPrice.Equal(decimalFromString(t, "27.00")) {
		t.Fatalf("expected total 27.00, got %s", order.TotalPrice)
	}

	// an explicit discount always wins
	zero := decimalFromString(t, "0")
	order2, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    1,
		Description: "no discount",
		UnitPrice:   decimalFromString(t, "10.00"),
		DiscountPct: &zero,
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order2.TotalPrice.Equal(decimalFromString(t, "10.00")) {
		t.Fatalf("expected total 10.00, got %s", order2.TotalPrice)
	}
}

func TestTierCrossingAcrossOrdersAndJobs(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Taller Mixto")

	// 2 delivered orders + 2 delivered jobs: still below the threshold of 5
	for i := 0; i < 2; i++ {
		createDeliveredOrder(t, svc, client.ID, i)
		createDeliveredJob(t, svc, client.ID, i)
	}
	got, err := svc.Tiering.GetClient(client.ID)
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}
	if got.CompletedCount != 4 || got.IsFrequent {
		t.Fatalf("expected 4 completed, not frequent; got %d frequent=%v", got.CompletedCount, got.IsFrequent)
	}

	// the 5th delivered transaction crosses the threshold
	job := createDeliveredJob(t, svc, client.ID, 99)
	got, _ = svc.Tiering.GetClient(client.ID)
	if got.CompletedCount != 5 || !got.IsFrequent {
		t.Fatalf("expected 5 completed and frequent; got %d frequent=%v", got.CompletedCount, got.IsFrequent)
	}

	// deleting one moves the flag back down
	if err := svc.Sales.DeleteJob(job.ID); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}
	got, _ = svc.Tiering.GetClient(client.ID)
	if got.CompletedCount != 4 || got.IsFrequent {
		t.Fatalf("expected 4 completed, not frequent after delete; got %d frequent=%v", got.CompletedCount, got.IsFrequent)
	}
}

func TestNonDeliveredTransactionsDoNotCount(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Cliente nuevo")

	for _, status := range []string{
		entity.OrderStatusPending,
		entity.OrderStatusInProgress,
		entity.OrderStatusFinished,
		entity.OrderStatusCancelled,
	} {
		if _, err := svc.Sales.CreateOrder(CreateOrderRequest{
			ClientID:    client.ID,
			Quantity:    1,
			Description: "status " + status,
			UnitPrice:   decimalFromString(t, "1.00"),
			Status:      status,
		}, "user-1"); err != nil {
			t.Fatalf("CreateOrder(%s) failed: %v", status, err)
		}
	}

	got, _ := svc.Tiering.GetClient(client.ID)
	if got.CompletedCount != 0 || got.IsFrequent {
		t.Fatalf("expected 0 completed, got %d frequent=%v", got.CompletedCount, got.IsFrequent)
	}
}

func TestTierThresholdConfigurable(t *testing.T) {
	svc, db := setupServicesWithConfig(t, config.ShopConfig{
		FrequentThreshold:   3,
		FrequentDiscountPct: 15,
	})
	client := seedClient(t, db, "Umbral bajo")

	for i := 0; i < 3; i++ {
		createDeliveredOrder(t, svc, client.ID, i)
	}
	got, _ := svc.Tiering.GetClient(client.ID)
	if !got.IsFrequent {
		t.Fatalf("expected frequent at threshold 3, got count %d", got.CompletedCount)
	}
	if !svc.Tiering.DiscountFor(got).Equal(decimalFromString(t, "15")) {
		t.Fatalf("expected discount 15, got %s", svc.Tiering.DiscountFor(got))
	}
}

func TestDiscountForIsPure(t *testing.T) {
	svc, _ := setupServices(t)

	if !svc.Tiering.DiscountFor(nil).IsZero() {
		t.Fatal("nil client must get zero discount")
	}
	if !svc.Tiering.DiscountFor(&entity.Client{}).IsZero() {
		t.Fatal("unsaved non-frequent client must get zero discount")
	}
	if !svc.Tiering.DiscountFor(&entity.Client{IsFrequent: true}).Equal(decimalFromString(t, "10")) {
		t.Fatal("frequent client must get the configured discount")
	}
}

func TestOrderCreationEnsuresProduction(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Con produccion")

	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:       client.ID,
		Quantity:       100,
		Description:    "magazine run",
		UnitPrice:      decimalFromString(t, "2.50"),
		EstimatedHours: decimalFromString(t, "6"),
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	production, err := svc.Production.GetByOrder(order.ID)
	if err != nil {
		t.Fatalf("expected production record, got %v", err)
	}
	if production.Status != entity.ProductionNotStarted {
		t.Fatalf("expected NOT_STARTED, got %s", production.Status)
	}
	if !production.EstimatedHours.Equal(decimalFromString(t, "6")) {
		t.Fatalf("expected estimated hours 6, got %s", production.EstimatedHours)
	}
}

func TestDeleteOrderRemovesProduction(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Se arrepintio")

	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    1,
		Description: "cancelled run",
		UnitPrice:   decimalFromString(t, "3.00"),
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := svc.Sales.DeleteOrder(order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := svc.Production.GetByOrder(order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected production gone with order, got %v", err)
	}
}

func TestDeliveredStatusStampsDate(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Puntual")

	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    1,
		Description: "flyers",
		UnitPrice:   decimalFromString(t, "4.00"),
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.DeliveredDate != nil {
		t.Fatal("pending order must not carry a delivery date")
	}

	delivered, err := svc.Sales.UpdateOrderStatus(order.ID, entity.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if delivered.DeliveredDate == nil {
		t.Fatal("expected delivery date to be stamped")
	}
}

func TestOrderStatusValidation(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Estado raro")

	if _, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    client.ID,
		Quantity:    1,
		Description: "bad status",
		UnitPrice:   decimalFromString(t, "1.00"),
		Status:      "SHIPPED",
	}, "user-1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if _, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:    "missing",
		Quantity:    1,
		Description: "bad client",
		UnitPrice:   decimalFromString(t, "1.00"),
	}, "user-1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing client, got %v", err)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Se va del pais")

	order := createDeliveredOrder(t, svc, client.ID, 0)
	createDeliveredJob(t, svc, client.ID, 0)

	if err := svc.Tiering.DeleteClient(client.ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}

	if _, err := svc.Sales.GetOrder(order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected order gone with client, got %v", err)
	}
	var productions int64
	db.Model(&entity.Production{}).Where("order_id = ?", order.ID).Count(&productions)
	if productions != 0 {
		t.Fatal("expected production gone with client cascade")
	}
	var jobs int64
	db.Model(&entity.Job{}).Where("client_id = ?", client.ID).Count(&jobs)
	if jobs != 0 {
		t.Fatal("expected jobs gone with client cascade")
	}
}

func TestDeleteProductProtectedByJobs(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Cliente tarjetas")
	product := seedProduct(t, db, "Tarjetas premium", 0.50)

	if _, err := svc.Sales.CreateJob(CreateJobRequest{
		ClientID:    client.ID,
		ProductID:   product.ID,
		Quantity:    500,
		Description: "business cards",
		UnitPrice:   decimalFromString(t, "0.50"),
	}, "user-1"); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	if err := svc.Catalog.DeleteProduct(product.ID); !errors.Is(err, ErrProtected) {
		t.Fatalf("expected ErrProtected, got %v", err)
	}
}

func TestMalformedEstimatedDateRejected(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Fecha rota")

	if _, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:      client.ID,
		Quantity:      1,
		Description:   "bad date",
		UnitPrice:     decimalFromString(t, "1.00"),
		EstimatedDate: "not-a-date",
	}, "user-1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad estimated date, got %v", err)
	}
	var orders int64
	db.Model(&entity.Order{}).Where("client_id = ?", client.ID).Count(&orders)
	if orders != 0 {
		t.Fatalf("expected no order created, found %d", orders)
	}

	if _, err := svc.Sales.CreateJob(CreateJobRequest{
		ClientID:      client.ID,
		Quantity:      1,
		Description:   "bad date",
		UnitPrice:     decimalFromString(t, "1.00"),
		EstimatedDate: "31/12/2026",
	}, "user-1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad job date, got %v", err)
	}

	order, err := svc.Sales.CreateOrder(CreateOrderRequest{
		ClientID:      client.ID,
		Quantity:      1,
		Description:   "good date",
		UnitPrice:     decimalFromString(t, "1.00"),
		EstimatedDate: "2026-09-15",
	}, "user-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.EstimatedDate == nil || order.EstimatedDate.Format("2006-01-02") != "2026-09-15" {
		t.Fatalf("expected estimated date 2026-09-15, got %v", order.EstimatedDate)
	}

	if _, err := svc.Sales.UpdateOrder(order.ID, UpdateOrderRequest{
		EstimatedDate: "soon",
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation on update, got %v", err)
	}
	got, _ := svc.Sales.GetOrder(order.ID)
	if got.EstimatedDate == nil || got.EstimatedDate.Format("2006-01-02") != "2026-09-15" {
		t.Fatalf("rejected update must not touch the date, got %v", got.EstimatedDate)
	}
}

func TestRecountToleratesMissingClient(t *testing.T) {
	svc, db := setupServices(t)
	client := seedClient(t, db, "Fantasma")
	order := createDeliveredOrder(t, svc, client.ID, 0)

	// client vanishes out from under the order
	if err := db.Where("id = ?", client.ID).Delete(&entity.Client{}).Error; err != nil {
		t.Fatalf("failed to remove client: %v", err)
	}

	if err := svc.Sales.DeleteOrder(order.ID); err != nil {
		t.Fatalf("DeleteOrder with missing client failed: %v", err)
	}
}
