package khatabook

import (
	"time"

	"gorm.io/gorm"

	"github.com/saivarshithnaidu/car-spare/internal/models"
)

// Service owns the customer credit ledger. Entries are append-mostly:
// created on credit sales, updated by collection actions, never deleted.
type Service struct {
	db      *gorm.DB
	dueDays int
}

func NewService(db *gorm.DB, dueDays int) *Service {
	if dueDays <= 0 {
		dueDays = 30
	}
	return &Service{db: db, dueDays: dueDays}
}

// Open records a new debt for a credit sale. The whole amount starts
// pending with the due date pushed out by the configured credit period.
func (s *Service) Open(customerID, orderID uint, total float64) (*models.KhatabookEntry, error) {
	entry := models.KhatabookEntry{
		CustomerID:    customerID,
		OrderID:       orderID,
		TotalAmount:   total,
		PaidAmount:    0,
		PendingAmount: total,
		DueDate:       time.Now().AddDate(0, 0, s.dueDays),
		Status:        models.KhatabookPending,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeriveStatus returns the lifecycle state implied by the amounts and the
// due date. A cleared balance wins over the due date.
func DeriveStatus(e *models.KhatabookEntry, now time.Time) string {
	if e.PendingAmount <= 0 {
		return models.KhatabookPaid
	}
	if now.After(e.DueDate) {
		return models.KhatabookOverdue
	}
	return models.KhatabookPending
}

// MarkPaid settles an entry in full regardless of what was collected
// before: paid is forced to total, pending to zero.
func (s *Service) MarkPaid(id uint) error {
	res := s.db.Model(&models.KhatabookEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"paid_amount":    gorm.Expr("total_amount"),
			"pending_amount": 0,
			"status":         models.KhatabookPaid,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordPayment updates the collected amount. Pending is recomputed as
// total minus paid, clamped at zero, and the status re-derived; the caller
// cannot set pending directly.
func (s *Service) RecordPayment(id uint, paid float64) (*models.KhatabookEntry, error) {
	var entry models.KhatabookEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, err
	}

	entry.PaidAmount = paid
	entry.PendingAmount = entry.TotalAmount - paid
	if entry.PendingAmount < 0 {
		entry.PendingAmount = 0
	}
	entry.Status = DeriveStatus(&entry, time.Now())

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns entries, optionally filtered by customer, with their status
// refreshed against the clock so overdue debts surface without a write
// path of their own.
func (s *Service) List(customerID *uint) ([]models.KhatabookEntry, error) {
	var entries []models.KhatabookEntry
	q := s.db.Preload("Customer").Preload("Order").Order("created_at desc")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range entries {
		derived := DeriveStatus(&entries[i], now)
		if derived != entries[i].Status {
			s.db.Model(&entries[i]).Update("status", derived)
			entries[i].Status = derived
		}
	}
	return entries, nil
}
