package inventory

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/saivarshithnaidu/car-spare/internal/models"
)

// ErrInsufficientStock is returned when a decrement asks for more units
// than the part currently has. The stock row is left untouched.
var ErrInsufficientStock = errors.New("insufficient stock")

// Ledger mediates every stock mutation on spare parts.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{db: db} }

// Decrement atomically takes qty units off a part's stock. The guard lives
// in the WHERE clause, so two concurrent sales of the same part cannot both
// drive the stock negative: the loser matches zero rows and gets
// ErrInsufficientStock.
func (l *Ledger) Decrement(partID uint, qty int) error {
	if qty <= 0 {
		return errors.New("decrement quantity must be positive")
	}

	res := l.db.Model(&models.SparePart{}).
		Where("id = ? AND stock_quantity >= ?", partID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return l.decrementFallback(partID, qty, res.Error)
	}
	if res.RowsAffected == 0 {
		// Zero rows means either a missing part or short stock; one read
		// tells them apart.
		var part models.SparePart
		if err := l.db.Select("id").First(&part, partID).Error; err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// decrementFallback is the read-then-write path used only when the
// conditional update itself errors. The window between the read and the
// write is racy; this is a known limitation of the fallback, not a
// guarantee.
func (l *Ledger) decrementFallback(partID uint, qty int, cause error) error {
	log.Printf("inventory: conditional decrement failed for part %d, using fallback: %v", partID, cause)

	var part models.SparePart
	if err := l.db.First(&part, partID).Error; err != nil {
		return err
	}
	if part.StockQuantity < qty {
		return ErrInsufficientStock
	}
	return l.db.Model(&models.SparePart{}).
		Where("id = ?", partID).
		UpdateColumn("stock_quantity", part.StockQuantity-qty).Error
}

// Restock adds qty units and records a stock entry against the acting user.
func (l *Ledger) Restock(partID uint, qty int, addedBy uint) error {
	if qty <= 0 {
		return errors.New("restock quantity must be positive")
	}

	return l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.SparePart{}).
			Where("id = ?", partID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.StockEntry{
			SparePartID:   partID,
			QuantityAdded: qty,
			AddedBy:       addedBy,
		}).Error
	})
}
