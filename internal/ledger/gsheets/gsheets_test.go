package gsheets

import (
	"reflect"
	"testing"
	"time"

	"github.com/tokano3/warikanbot/internal/ledger"
)

func TestBuildRow(t *testing.T) {
	rec := ledger.Record{
		Date:            time.Date(2024, 3, 15, 19, 30, 0, 0, time.UTC),
		Purchaser:       "Sam",
		TotalBill:       100,
		Participants:    []string{"Alice", "Bob"},
		IndividualShare: 50,
	}

	got := buildRow(rec)
	want := []interface{}{"2024-03-15", "Sam", 100.0, "Alice, Bob", 50.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildRow() = %v, want %v", got, want)
	}
}
