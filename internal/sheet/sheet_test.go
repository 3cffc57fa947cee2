package sheet_test

import (
	"bytes"
	"strings"
	"testing"

	"travel_planner/internal/domain"
	"travel_planner/internal/sheet"
)

const rawCSV = `id,City,Country,Region,Short Description,Budget Level,culture,beaches,nightlife,latitude
1,Lisbon,Portugal,Europe,Hills and tiles,budget,4.5,"3,5",4,38.7
2,,Nowhere,Europe,missing city,Budget,1,1,1,0
3,Zanzibar,Tanzania,Africa,Spice island,Ultra,2,5,1,-6.1
`

func TestReadCSV_DropAndMap(t *testing.T) {
	tbl, err := sheet.ReadCSV(strings.NewReader(rawCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cleaned := tbl.Drop(sheet.DroppedColumns...)
	for _, h := range cleaned.Header {
		switch sheet.NormalizeHeader(h) {
		case "id", "nightlife", "latitude":
			t.Fatalf("column %q should have been dropped", h)
		}
	}

	ds, errs := sheet.ToDestinations(cleaned)
	if len(ds) != 1 {
		t.Fatalf("expected 1 valid row, got %d (%v)", len(ds), errs)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 rejected rows, got %v", errs)
	}

	d := ds[0]
	if d.City != "Lisbon" || d.ShortDescription != "Hills and tiles" {
		t.Fatalf("unexpected identity: %+v", d)
	}
	if d.BudgetLevel != "Budget" {
		t.Fatalf("expected canonical budget label, got %q", d.BudgetLevel)
	}
	if d.Scores.Get(domain.Culture) != 4.5 || d.Scores.Get(domain.Beaches) != 3.5 {
		t.Fatalf("unexpected scores: %+v", d.Scores)
	}
	if d.Scores.Get(domain.Seclusion) != 0 {
		t.Fatalf("missing column should default to zero")
	}
}

func TestXLSX_WriteThenRead(t *testing.T) {
	in := sheet.Table{Header: sheet.CanonicalHeader()}
	d := domain.Destination{City: "Kyoto", Country: "Japan", Region: "Asia", ShortDescription: "Temples", BudgetLevel: "Luxury"}
	d.Scores.Set(domain.Culture, 5)
	d.Scores.Set(domain.Wellness, 3.5)
	in.Rows = append(in.Rows, sheet.FromDestination(d))

	var buf bytes.Buffer
	if err := in.WriteXLSX(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := sheet.ReadXLSX(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ds, errs := sheet.ToDestinations(out)
	if len(errs) > 0 || len(ds) != 1 {
		t.Fatalf("unexpected result: %v %v", ds, errs)
	}
	if ds[0] != d {
		t.Fatalf("got %+v, want %+v", ds[0], d)
	}
}

func TestAppendDestination_KeepsExtraColumns(t *testing.T) {
	base := sheet.Table{
		Header: []string{"City", "Budget", "added_by"},
		Rows:   [][]string{{"Lisbon", "Budget", "ana"}},
	}
	d := domain.Destination{City: "Oslo", Country: "Norway", Region: "Europe", BudgetLevel: "Luxury"}
	d.Scores.Set(domain.Nature, 4)

	out := sheet.AppendDestination(base, d)
	if len(base.Rows) != 1 {
		t.Fatalf("input table mutated")
	}
	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out.Rows))
	}
	recs := out.Records()
	if recs[0]["added_by"] != "ana" {
		t.Fatalf("extra column lost: %+v", recs[0])
	}
	if recs[1]["city"] != "Oslo" || recs[1]["budget"] != "Luxury" || recs[1]["nature"] != "4" {
		t.Fatalf("unexpected appended row: %+v", recs[1])
	}
}

func TestDecode_UnsupportedExtension(t *testing.T) {
	if _, err := sheet.Decode("data.json", []byte("{}")); err == nil {
		t.Fatalf("expected error for .json")
	}
}

func TestCities_IncludesUnmappableRows(t *testing.T) {
	tbl, err := sheet.ReadCSV(strings.NewReader(rawCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	// Zanzibar has an unknown budget level and is rejected by ToDestinations
	if got := strings.Join(sheet.Cities(tbl), ","); got != "Lisbon,Zanzibar" {
		t.Fatalf("Cities = %q", got)
	}
}
