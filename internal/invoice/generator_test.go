package invoice

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleData() Data {
	return Data{
		InvoiceNumber: "INV-42-1700000000",
		OrderID:       42,
		Date:          time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		CompanyName:   "Car Spare Parts Co.",
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		CustomerPhone: "9876543210",
		Items: []Item{
			{Name: "Brake Pad", UnitPrice: 100, Quantity: 2, Total: 200},
			{Name: "Oil Filter", UnitPrice: 50, Quantity: 1, Total: 50},
		},
		Subtotal:      250,
		Discount:      0,
		Tax:           45,
		TotalAmount:   295,
		PaymentMethod: "cash",
		PaymentStatus: "paid",
	}
}

func TestRender(t *testing.T) {
	pdf, err := Render(sampleData())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("rendered PDF is empty")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestRenderWalkInDefaults(t *testing.T) {
	data := sampleData()
	data.CustomerName = ""
	data.CustomerEmail = ""
	data.CustomerPhone = ""

	pdf, err := Render(data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("rendered PDF is empty")
	}
}

func TestRenderWithDiscount(t *testing.T) {
	data := sampleData()
	data.Discount = 25
	data.Tax = 40.5
	data.TotalAmount = 265.5

	if _, err := Render(data); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestNumber(t *testing.T) {
	at := time.Unix(1700000000, 0)
	if got := Number(42, at); got != "INV-42-1700000000" {
		t.Errorf("Number = %s, want INV-42-1700000000", got)
	}

	// Different instants keep regenerated documents apart.
	later := Number(42, at.Add(time.Second))
	if later == Number(42, at) {
		t.Error("numbers for different instants collide")
	}
}

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := &DiskStore{Dir: filepath.Join(dir, "invoices"), BaseURL: "/invoices/"}

	url, err := store.Save("INV-1-123", []byte("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/invoices/INV-1-123.pdf" {
		t.Errorf("url = %s, want /invoices/INV-1-123.pdf", url)
	}

	content, err := os.ReadFile(filepath.Join(dir, "invoices", "INV-1-123.pdf"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(content) != "%PDF-1.4 test" {
		t.Errorf("stored content mismatch")
	}
}
