package pricing

import (
	"context"
	"testing"
)

func TestManualNeverQuotes(t *testing.T) {
	if _, ok, err := (Manual{}).Quote(context.Background(), "AAPL"); ok || err != nil {
		t.Errorf("Manual.Quote = ok %v, err %v; want false, nil", ok, err)
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable(map[string]float64{"aapl": 190.5})

	price, ok, err := tbl.Quote(context.Background(), " AAPL ")
	if err != nil || !ok || price != 190.5 {
		t.Errorf("Quote(AAPL) = %v, %v, %v; want 190.5, true, nil", price, ok, err)
	}
	if _, ok, _ := tbl.Quote(context.Background(), "MSFT"); ok {
		t.Errorf("Quote(MSFT) found a price in a table without it")
	}

	prices := tbl.Prices()
	prices["AAPL"] = 1
	if p, _, _ := tbl.Quote(context.Background(), "AAPL"); p != 190.5 {
		t.Errorf("Prices() did not return a copy")
	}
}

func TestFromTable(t *testing.T) {
	if _, ok := FromTable(nil).(Manual); !ok {
		t.Errorf("FromTable(nil) should be Manual")
	}
	if _, ok := FromTable(map[string]float64{"X": 1}).(*Table); !ok {
		t.Errorf("FromTable(non-empty) should be *Table")
	}
}
