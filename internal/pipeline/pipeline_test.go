package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/alvarogf/txt2woo/internal/db"
	"github.com/alvarogf/txt2woo/internal/product"
	"github.com/alvarogf/txt2woo/internal/woo"
	"github.com/rs/zerolog"
)

type fakeExtractor struct {
	rec   *product.Record
	err   error
	calls int
}

func (f *fakeExtractor) ExtractRecord(ctx context.Context, text string) (*product.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := f.rec.Clone()
	return &out, nil
}

type fakeUploader struct {
	got *product.Record
	err error
}

func (f *fakeUploader) CreateProduct(ctx context.Context, rec *product.Record) (*woo.Created, error) {
	f.got = rec
	if f.err != nil {
		return nil, f.err
	}
	return &woo.Created{ID: 555, Name: rec.Name}, nil
}

func openLedger(t *testing.T) *db.Handle {
	t.Helper()
	h, err := db.OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if err := h.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return h
}

func csvCell(t *testing.T, raw, column string) string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	for i, col := range rows[0] {
		if col == column {
			return rows[1][i]
		}
	}
	t.Fatalf("column %q not found", column)
	return ""
}

func TestGenerateEndToEnd(t *testing.T) {
	// "Silla de madera, 20 en stock, categorías: Muebles > Sillas" with
	// overrides built the way the CLI builds them from its flags.
	ex := &fakeExtractor{rec: &product.Record{
		Name:       "Silla de madera",
		Categories: []string{"Muebles"},
	}}
	h := openLedger(t)
	p := New(zerolog.Nop(), h.DB, ex, nil)

	stock, ok := product.ParseStockQuantity("20 en stock")
	if !ok {
		t.Fatal("stock parse failed")
	}
	ov := &product.Overrides{
		Categories:    product.SplitList("Muebles > Sillas", product.SplitOptions{AllowHierarchy: true}),
		StockQuantity: &stock,
	}

	res, err := p.Generate(context.Background(), "Silla de madera, 20 en stock, categorías: Muebles > Sillas", ov)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if want := []string{"Muebles", "Sillas"}; len(res.Record.Categories) != 2 ||
		res.Record.Categories[0] != want[0] || res.Record.Categories[1] != want[1] {
		t.Errorf("categories = %v, want %v", res.Record.Categories, want)
	}
	if res.Record.StockQuantity == nil || *res.Record.StockQuantity != 20 {
		t.Errorf("stock = %v, want 20", res.Record.StockQuantity)
	}
	if got := csvCell(t, res.CSV, "Categories"); got != "Muebles, Sillas" {
		t.Errorf("CSV Categories = %q", got)
	}
	if got := csvCell(t, res.CSV, "Stock"); got != "20" {
		t.Errorf("CSV Stock = %q", got)
	}

	var run db.GenerationRun
	if err := h.DB.Where("run_id = ?", res.RunID).Take(&run).Error; err != nil {
		t.Fatalf("run not journaled: %v", err)
	}
	if run.Status != db.RunDone || run.RecordJSON == "" {
		t.Errorf("run = %+v, want done with record json", run)
	}
}

func TestGenerateExtractionFailureJournaled(t *testing.T) {
	ex := &fakeExtractor{err: errors.New("no usable extraction result")}
	h := openLedger(t)
	p := New(zerolog.Nop(), h.DB, ex, nil)

	if _, err := p.Generate(context.Background(), "algo", nil); err == nil {
		t.Fatal("expected extraction error")
	}

	var run db.GenerationRun
	if err := h.DB.Order("id desc").Take(&run).Error; err != nil {
		t.Fatalf("run row missing: %v", err)
	}
	if run.Status != db.RunError || run.LastError == "" {
		t.Errorf("run = %+v, want error status recorded", run)
	}
}

func TestGenerateEmptyText(t *testing.T) {
	p := New(zerolog.Nop(), nil, &fakeExtractor{rec: &product.Record{Name: "x"}}, nil)
	if _, err := p.Generate(context.Background(), "   ", nil); err == nil {
		t.Error("expected error on blank text")
	}
}

func TestGenerateWithoutLedger(t *testing.T) {
	p := New(zerolog.Nop(), nil, &fakeExtractor{rec: &product.Record{Name: "x"}}, nil)
	if _, err := p.Generate(context.Background(), "x", nil); err != nil {
		t.Fatalf("Generate without ledger: %v", err)
	}
}

func TestUploadMergesExtraImages(t *testing.T) {
	up := &fakeUploader{}
	p := New(zerolog.Nop(), nil, &fakeExtractor{rec: &product.Record{Name: "x"}}, up)

	rec := product.Record{Name: "x", Images: []string{"https://a/1.jpg"}}
	created, err := p.Upload(context.Background(), "run-1", rec, []string{"https://a/2.jpg", "https://a/1.jpg"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if created.ID != 555 {
		t.Errorf("created = %+v", created)
	}
	if len(up.got.Images) != 2 {
		t.Errorf("images = %v, want deduped merge", up.got.Images)
	}
	if rec.Images[0] != "https://a/1.jpg" || len(rec.Images) != 1 {
		t.Errorf("caller record mutated: %v", rec.Images)
	}
}
