package khatabook

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saivarshithnaidu/car-spare/internal/models"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{},
		&models.Order{}, &models.OrderItem{}, &models.SparePart{},
		&models.KhatabookEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db, 30), db
}

func seedCustomerAndOrder(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	role := models.Role{Name: "customer"}
	db.Create(&role)
	user := models.User{Email: "ravi@example.com", FullName: "Ravi Kumar", PasswordHash: "x", RoleID: role.ID, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	order := models.Order{UserID: &user.ID, TotalAmount: 500, PaymentStatus: models.PaymentPending, PaymentMethod: "credit"}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return user.ID, order.ID
}

func TestOpen(t *testing.T) {
	svc, db := setupService(t)
	customerID, orderID := seedCustomerAndOrder(t, db)

	entry, err := svc.Open(customerID, orderID, 500)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if entry.PendingAmount != 500 {
		t.Errorf("pending = %.2f, want 500", entry.PendingAmount)
	}
	if entry.PaidAmount != 0 {
		t.Errorf("paid = %.2f, want 0", entry.PaidAmount)
	}
	if entry.Status != models.KhatabookPending {
		t.Errorf("status = %s, want pending", entry.Status)
	}

	wantDue := time.Now().AddDate(0, 0, 30)
	if diff := entry.DueDate.Sub(wantDue); diff < -time.Minute || diff > time.Minute {
		t.Errorf("due date = %v, want ~%v", entry.DueDate, wantDue)
	}
}

func TestMarkPaidForcesSettlement(t *testing.T) {
	svc, db := setupService(t)
	customerID, orderID := seedCustomerAndOrder(t, db)
	entry, err := svc.Open(customerID, orderID, 500)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Partial collection first, then a full mark-paid on top of it.
	if _, err := svc.RecordPayment(entry.ID, 120); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if err := svc.MarkPaid(entry.ID); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	var got models.KhatabookEntry
	db.First(&got, entry.ID)
	if got.PaidAmount != got.TotalAmount {
		t.Errorf("paid = %.2f, want total %.2f", got.PaidAmount, got.TotalAmount)
	}
	if got.PendingAmount != 0 {
		t.Errorf("pending = %.2f, want 0", got.PendingAmount)
	}
	if got.Status != models.KhatabookPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
}

func TestMarkPaidUnknownEntry(t *testing.T) {
	svc, _ := setupService(t)
	if err := svc.MarkPaid(4242); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestRecordPayment(t *testing.T) {
	svc, db := setupService(t)
	customerID, orderID := seedCustomerAndOrder(t, db)
	entry, _ := svc.Open(customerID, orderID, 500)

	got, err := svc.RecordPayment(entry.ID, 200)
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if got.PendingAmount != 300 {
		t.Errorf("pending = %.2f, want 300", got.PendingAmount)
	}
	if got.Status != models.KhatabookPending {
		t.Errorf("status = %s, want pending", got.Status)
	}

	// Overpayment clamps pending at zero and clears the debt.
	got, err = svc.RecordPayment(entry.ID, 600)
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if got.PendingAmount != 0 {
		t.Errorf("pending = %.2f, want 0 after overpayment", got.PendingAmount)
	}
	if got.Status != models.KhatabookPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		pending float64
		due     time.Time
		want    string
	}{
		{"cleared", 0, now.AddDate(0, 0, -10), models.KhatabookPaid},
		{"cleared before due", 0, now.AddDate(0, 0, 10), models.KhatabookPaid},
		{"outstanding in window", 100, now.AddDate(0, 0, 10), models.KhatabookPending},
		{"outstanding past due", 100, now.AddDate(0, 0, -1), models.KhatabookOverdue},
	}
	for _, tc := range cases {
		e := &models.KhatabookEntry{PendingAmount: tc.pending, DueDate: tc.due}
		if got := DeriveStatus(e, now); got != tc.want {
			t.Errorf("%s: DeriveStatus = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestListRefreshesOverdueStatus(t *testing.T) {
	svc, db := setupService(t)
	customerID, orderID := seedCustomerAndOrder(t, db)
	entry, _ := svc.Open(customerID, orderID, 500)

	// Push the due date into the past behind the service's back.
	db.Model(&models.KhatabookEntry{}).Where("id = ?", entry.ID).
		Update("due_date", time.Now().AddDate(0, 0, -5))

	entries, err := svc.List(&customerID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Status != models.KhatabookOverdue {
		t.Errorf("status = %s, want overdue", entries[0].Status)
	}

	// The refresh is persisted, not just reported.
	var got models.KhatabookEntry
	db.First(&got, entry.ID)
	if got.Status != models.KhatabookOverdue {
		t.Errorf("persisted status = %s, want overdue", got.Status)
	}
}

func TestListFiltersByCustomer(t *testing.T) {
	svc, db := setupService(t)
	customerID, orderID := seedCustomerAndOrder(t, db)
	svc.Open(customerID, orderID, 500)

	other := models.User{Email: "meena@example.com", FullName: "Meena", PasswordHash: "x", IsActive: true}
	db.Create(&other)
	otherOrder := models.Order{UserID: &other.ID, TotalAmount: 250, PaymentMethod: "credit"}
	db.Create(&otherOrder)
	svc.Open(other.ID, otherOrder.ID, 250)

	entries, err := svc.List(&customerID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].CustomerID != customerID {
		t.Errorf("customer = %d, want %d", entries[0].CustomerID, customerID)
	}

	all, err := svc.List(nil)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all entries = %d, want 2", len(all))
	}
}
