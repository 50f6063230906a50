package ledger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/label-ocr/internal/extract"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rawRows returns every row of the active sheet, header included.
func rawRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	return rows
}

func sampleRecords() []extract.Record {
	return []extract.Record{
		{ManufacturingDate: "12/05/24", BatchNumber: "A1B2C3D", NetWeight: "250g", MRP: "45,00"},
		{ManufacturingDate: extract.NotFound, BatchNumber: "ZZ00001", NetWeight: "500G", MRP: "199.00"},
		extract.Empty(),
	}
}

func TestAppend_FreshLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocr_data.xlsx")
	records := sampleRecords()

	for _, rec := range records {
		if err := Append(path, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	rows := rawRows(t, path)
	if len(rows) != 1+len(records) {
		t.Fatalf("got %d rows, want %d", len(rows), 1+len(records))
	}
	if !reflect.DeepEqual(rows[0], extract.Header) {
		t.Errorf("header = %v, want %v", rows[0], extract.Header)
	}
	for i, rec := range records {
		if !reflect.DeepEqual(rows[i+1], rec.Row()) {
			t.Errorf("row %d = %v, want %v", i+1, rows[i+1], rec.Row())
		}
	}
}

func TestAppend_PreservesPriorRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	r1 := sampleRecords()[0]
	r2 := sampleRecords()[1]

	if err := Append(path, r1); err != nil {
		t.Fatalf("Append r1: %v", err)
	}
	before := rawRows(t, path)

	if err := Append(path, r2); err != nil {
		t.Fatalf("Append r2: %v", err)
	}
	after := rawRows(t, path)

	if len(after) != 3 {
		t.Fatalf("got %d rows, want 3", len(after))
	}
	if !reflect.DeepEqual(after[:2], before) {
		t.Errorf("prior rows changed:\nbefore %v\nafter  %v", before, after[:2])
	}
	if !reflect.DeepEqual(after[2], r2.Row()) {
		t.Errorf("row 2 = %v, want %v", after[2], r2.Row())
	}
}

func TestAppend_ExistingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{"Manufacturing Date", "Batch Number", "Net Weight", "MRP"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	prior := []interface{}{"01/01/23", "OLD0001", "100g", "10.00"}
	if err := f.SetSheetRow(sheet, "A2", &prior); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rec := sampleRecords()[0]
	if err := Append(path, rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	rows := rawRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][1] != "OLD0001" {
		t.Errorf("prior row altered: %v", rows[1])
	}
	if !reflect.DeepEqual(rows[2], rec.Row()) {
		t.Errorf("appended row = %v, want %v", rows[2], rec.Row())
	}
}

func TestAppend_CorruptLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.xlsx")
	garbage := []byte("this is not a workbook")
	if err := os.WriteFile(path, garbage, 0644); err != nil {
		t.Fatal(err)
	}

	if err := Append(path, sampleRecords()[0]); err == nil {
		t.Fatal("Append should fail for a corrupt ledger")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, garbage) {
		t.Error("corrupt ledger was overwritten")
	}
}

func TestRead(t *testing.T) {
	t.Run("missing ledger", func(t *testing.T) {
		records, err := Read(filepath.Join(t.TempDir(), "absent.xlsx"))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("got %d records, want 0", len(records))
		}
	})

	t.Run("returns data rows in order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.xlsx")
		want := sampleRecords()
		for _, rec := range want {
			if err := Append(path, rec); err != nil {
				t.Fatal(err)
			}
		}

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Read = %+v, want %+v", got, want)
		}
	})
}

func TestWriter_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	w := NewWriter(path, WithLogger(quietLogger()))

	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	out := w.Save(sampleRecords()[0])
	if !out.Persisted || out.Err != nil {
		t.Fatalf("Save = %+v, want persisted", out)
	}
	if rows := rawRows(t, path); len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestWriter_SaveSwallowsErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	path := filepath.Join(t.TempDir(), "missing-dir", "ledger.xlsx")
	w := NewWriter(path, WithLogger(logger), WithAttempts(3), WithRetryDelay(0))

	out := w.Save(sampleRecords()[0])
	if out.Persisted {
		t.Fatal("Save reported success for an unwritable path")
	}
	if out.Err == nil {
		t.Fatal("Save did not report the failure")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("ledger file should not exist after a failed save")
	}
	if !strings.Contains(logs.String(), "error saving record to ledger") {
		t.Errorf("failure was not logged, got %q", logs.String())
	}
}

func TestWithAttempts_Floor(t *testing.T) {
	w := NewWriter("x.xlsx", WithAttempts(0))
	if w.attempts != 1 {
		t.Errorf("attempts = %d, want 1", w.attempts)
	}
}
