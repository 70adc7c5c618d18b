package service

import (
	"errors"
	"testing"

	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
)

func TestApplyMovementSemantics(t *testing.T) {
	svc, db := setupServices(t)
	material := seedMaterial(t, db, "Bond paper", 20, 5)

	// OUT subtracts
	updated, err := svc.Inventory.ApplyMovement(ApplyMovementRequest{
		MaterialID: material.ID,
		Type:       entity.MovementOut,
		Quantity:   5,
		Reason:     "order consumption",
	}, "user-1")
	if err != nil {
		t.Fatalf("OUT movement failed: %v", err)
	}
	if updated.Quantity != 15 {
		t.Fatalf("expected quantity 15 after OUT, got %d", updated.Quantity)
	}

	// IN adds
	updated, err = svc.Inventory.ApplyMovement(ApplyMovementRequest{
		MaterialID: material.ID,
		Type:       entity.MovementIn,
		Quantity:   10,
		Reason:     "restock",
	}, "user-1")
	if err != nil {
		t.Fatalf("IN movement failed: %v", err)
	}
	if updated.Quantity != 25 {
		t.Fatalf("expected quantity 25 after IN, got %d", updated.Quantity)
	}

	// ADJUST sets the absolute level
	updated, err = svc.Inventory.ApplyMovement(ApplyMovementRequest{
		MaterialID: material.ID,
		Type:       entity.MovementAdjust,
		Quantity:   7,
		Reason:     "physical count",
	}, "user-1")
	if err != nil {
		t.Fatalf("ADJUST movement failed: %v", err)
	}
	if updated.Quantity != 7 {
		t.Fatalf("expected quantity 7 after ADJUST, got %d", updated.Quantity)
	}

	movements, total, err := svc.Inventory.ListMovements(material.ID, 1, 20)
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if total != 3 || len(movements) != 3 {
		t.Fatalf("expected 3 ledger entries, got %d", total)
	}
}

func TestApplyMovementAllowsNegativeStock(t *testing.T) {
	svc, db := setupServices(t)
	material := seedMaterial(t, db, "Glossy paper", 3, 5)

	updated, err := svc.Inventory.ApplyMovement(ApplyMovementRequest{
		MaterialID: material.ID,
		Type:       entity.MovementOut,
		Quantity:   10,
		Reason:     "rush job",
	}, "user-1")
	if err != nil {
		t.Fatalf("OUT movement failed: %v", err)
	}
	if updated.Quantity != -7 {
		t.Fatalf("expected quantity -7, got %d", updated.Quantity)
	}
}

func TestApplyMovementValidation(t *testing.T) {
	svc, db := setupServices(t)
	material := seedMaterial(t, db, "Ink", 10, 2)

	cases := []struct {
		name string
		req  ApplyMovementRequest
	}{
		{"unknown type", ApplyMovementRequest{MaterialID: material.ID, Type: "TRANSFER", Quantity: 1, Reason: "x"}},
		{"zero IN", ApplyMovementRequest{MaterialID: material.ID, Type: entity.MovementIn, Quantity: 0, Reason: "x"}},
		{"negative OUT", ApplyMovementRequest{MaterialID: material.ID, Type: entity.MovementOut, Quantity: -3, Reason: "x"}},
		{"negative ADJUST", ApplyMovementRequest{MaterialID: material.ID, Type: entity.MovementAdjust, Quantity: -1, Reason: "x"}},
	}
	for _, tc := range cases {
		if _, err := svc.Inventory.ApplyMovement(tc.req, "user-1"); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}

	if _, err := svc.Inventory.ApplyMovement(ApplyMovementRequest{
		MaterialID: "missing", Type: entity.MovementIn, Quantity: 1, Reason: "x",
	}, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing material, got %v", err)
	}
}

func TestUpdateMaterialCannotTouchQuantity(t *testing.T) {
	svc, db := setupServices(t)
	material := seedMaterial(t, db, "Vinyl", 40, 10)

	name := "Vinyl rolls"
	minQty := 15
	updated, err := svc.Inventory.UpdateMaterial(material.ID, UpdateMaterialRequest{
		Name:        name,
		MinQuantity: &minQty,
	})
	if err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}
	if updated.Quantity != 40 {
		t.Fatalf("quantity changed through master-data update: %d", updated.Quantity)
	}
	if updated.Name != name || updated.MinQuantity != 15 {
		t.Fatalf("master data not applied: %+v", updated)
	}
}

func TestDeleteMaterialProtectedByPurchases(t *testing.T) {
	svc, db := setupServices(t)
	material := seedMaterial(t, db, "Cardstock", 100, 10)
	supplier := seedSupplier(t, db, "Papelera Norte")

	if _, err := svc.Procurement.CreatePurchase(CreatePurchaseRequest{
		SupplierID: supplier.ID,
		MaterialID: material.ID,
		Quantity:   10,
		UnitCost:   decimalFromString(t, "4.50"),
	}, "user-1"); err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	if err := svc.Inventory.DeleteMaterial(material.ID); !errors.Is(err, ErrProtected) {
		t.Fatalf("expected ErrProtected, got %v", err)
	}
}

func TestDeleteMaterialCascadesMovements(t *testing.T) {
	svc, db := setupServices(t)
	material := seedMaterial(t, db, "Laminate", 10, 2)

	if _, err := svc.Inventory.ApplyMovement(ApplyMovementRequest{
		MaterialID: material.ID,
		Type:       entity.MovementIn,
		Quantity:   5,
		Reason:     "restock",
	}, "user-1"); err != nil {
		t.Fatalf("ApplyMovement failed: %v", err)
	}

	if err := svc.Inventory.DeleteMaterial(material.ID); err != nil {
		t.Fatalf("DeleteMaterial failed: %v", err)
	}

	var count int64
	db.Model(&entity.StockMovement{}).Where("material_id = ?", material.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected movements to be deleted with material, found %d", count)
	}
}

func TestStockAlerts(t *testing.T) {
	svc, db := setupServices(t)
	seedMaterial(t, db, "Normal stock", 50, 10)
	low := seedMaterial(t, db, "Low stock", 5, 10)
	out := seedMaterial(t, db, "Out of stock", 0, 10)

	alerts, err := svc.Inventory.GetAlerts()
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}

	lowMat, _ := svc.Inventory.GetMaterial(low.ID)
	if lowMat.StockStatus() != entity.StockLow {
		t.Fatalf("expected low status, got %s", lowMat.StockStatus())
	}
	outMat, _ := svc.Inventory.GetMaterial(out.ID)
	if outMat.StockStatus() != entity.StockOut {
		t.Fatalf("expected out_of_stock status, got %s", outMat.StockStatus())
	}
}
