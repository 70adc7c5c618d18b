package entity

import "testing"

func TestStockStatus(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		min      int
		want     string
	}{
		{"above minimum", 50, 10, StockNormal},
		{"just above minimum", 11, 10, StockNormal},
		{"at minimum", 10, 10, StockLow},
		{"below minimum", 3, 10, StockLow},
		{"zero", 0, 10, StockOut},
		{"negative counts as out", -5, 10, StockOut},
	}
	for _, tc := range cases {
		m := Material{Quantity: tc.quantity, MinQuantity: tc.min}
		if got := m.StockStatus(); got != tc.want {
			t.Errorf("%s: StockStatus() = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestNeedsRestock(t *testing.T) {
	if (&Material{Quantity: 11, MinQuantity: 10}).NeedsRestock() {
		t.Error("quantity above minimum must not need restock")
	}
	if !(&Material{Quantity: 10, MinQuantity: 10}).NeedsRestock() {
		t.Error("quantity at minimum must need restock")
	}
}
