package library

import (
	"context"
	"errors"
	"time"

	"library_backend/pkg/database"
	"library_backend/pkg/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BorrowInput struct {
	CustomerID uint `validate:"required"`
	BookID     uint `validate:"required"`
}

type ReturnResult struct {
	RecordID   uint
	ReturnDate time.Time
	LateFee    int
}

// Borrowing moves books between available and lent out. Every transition runs
// in one store transaction; the service itself holds no state between calls.
type Borrowing struct {
	store    *database.Gateway
	catalog  *Catalog
	policy   FeePolicy
	now      func() time.Time
	validate *validator.Validate
}

type BorrowingOption func(*Borrowing)

// WithFeePolicy overrides the fee policy. Negative fields keep their default.
func WithFeePolicy(policy FeePolicy) BorrowingOption {
	return func(b *Borrowing) {
		if policy.GraceDays >= 0 {
			b.policy.GraceDays = policy.GraceDays
		}
		if policy.PerDay >= 0 {
			b.policy.PerDay = policy.PerDay
		}
	}
}

func WithClock(now func() time.Time) BorrowingOption {
	return func(b *Borrowing) { b.now = now }
}

func NewBorrowing(store *database.Gateway, catalog *Catalog, opts ...BorrowingOption) *Borrowing {
	b := &Borrowing{
		store:    store,
		catalog:  catalog,
		policy:   DefaultFeePolicy(),
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Borrow opens a loan. Checks run in order and the first failure wins:
// customer exists, book is available, customer has no open loan.
func (b *Borrowing) Borrow(ctx context.Context, in BorrowInput) (models.BorrowingRecord, error) {
	if err := b.validate.Struct(in); err != nil {
		return models.BorrowingRecord{}, validationError(err)
	}

	var record models.BorrowingRecord
	err := b.store.Transaction(ctx, "borrow", func(tx *gorm.DB) error {
		exists, err := b.catalog.customerExists(tx, in.CustomerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrCustomerNotFound
		}

		if _, err := b.catalog.availableBook(tx, in.BookID); err != nil {
			return err
		}

		open, err := hasOpenLoan(tx, in.CustomerID)
		if err != nil {
			return err
		}
		if open {
			return ErrCustomerHasActiveLoan
		}

		// Guarded against a concurrent borrow that got here first.
		res := tx.Model(&models.Book{}).
			Where("id = ? AND status = ?", in.BookID, models.StatusAvailable).
			Update("status", models.StatusUnavailable)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookUnavailable
		}

		record = models.BorrowingRecord{
			BookID:     in.BookID,
			CustomerID: in.CustomerID,
			BorrowDate: b.now().UTC(),
		}
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrCustomerHasActiveLoan
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.BorrowingRecord{}, err
	}
	return record, nil
}

// Return closes an open loan, charging the late fee once. A record that is
// already closed is rejected and keeps its original return date and fee.
func (b *Borrowing) Return(ctx context.Context, recordID uint) (ReturnResult, error) {
	if recordID == 0 {
		return ReturnResult{}, validationError(errors.New("record id is required"))
	}

	var result ReturnResult
	err := b.store.Transaction(ctx, "return", func(tx *gorm.DB) error {
		var record models.BorrowingRecord
		err := tx.Where("id = ?", recordID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		if err != nil {
			return err
		}
		if record.ReturnDate != nil {
			return ErrAlreadyReturned
		}

		borrowed := record.BorrowDate.UTC()
		returned := b.now().UTC()
		if returned.Before(borrowed) {
			returned = borrowed
		}
		fee := b.policy.LateFee(borrowed, returned)

		res := tx.Model(&models.BorrowingRecord{}).
			Where("id = ? AND returndate IS NULL", record.ID).
			Updates(map[string]interface{}{"returndate": returned, "late_fee": fee})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}

		err = tx.Model(&models.Book{}).
			Where("id = ?", record.BookID).
			Update("status", models.StatusAvailable).Error
		if err != nil {
			return err
		}

		result = ReturnResult{RecordID: record.ID, ReturnDate: returned, LateFee: fee}
		return nil
	})
	if err != nil {
		return ReturnResult{}, err
	}
	return result, nil
}

func hasOpenLoan(tx *gorm.DB, customerID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.BorrowingRecord{}).
		Where("customerid = ? AND returndate IS NULL", customerID).
		Count(&count).Error
	return count > 0, err
}
