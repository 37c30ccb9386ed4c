package library

import (
	"context"

	"library_backend/pkg/database"
	"library_backend/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"gorm.io/gorm"
)

// LedgerFilter narrows the history. The zero value lists everything.
type LedgerFilter struct {
	CustomerID uint
	OpenOnly   bool
}

// Ledger is the read-only borrowing history joined with book and customer names.
type Ledger struct {
	store *database.Gateway
}

func NewLedger(store *database.Gateway) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) ListBorrowings(ctx context.Context, filter LedgerFilter) ([]models.LedgerRow, error) {
	query, args, err := ledgerQuery(filter).ToSQL()
	if err != nil {
		return nil, err
	}

	rows := make([]models.LedgerRow, 0)
	err = l.store.Run(ctx, "list borrowings", func(db *gorm.DB) error {
		return db.Raw(query, args...).Scan(&rows).Error
	})
	return rows, err
}

// ledgerQuery builds with goqu's default dialect: double-quoted identifiers and
// "?" placeholders, which gorm rebinds for whichever driver is in use.
func ledgerQuery(filter LedgerFilter) *goqu.SelectDataset {
	ds := goqu.From(goqu.T("borrowing_records").As("br")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("br.bookid").Eq(goqu.I("b.id")))).
		Join(goqu.T("customers").As("c"), goqu.On(goqu.I("br.customerid").Eq(goqu.I("c.id")))).
		Select(
			goqu.I("br.id"),
			goqu.I("b.title"),
			goqu.I("c.firstname"),
			goqu.I("c.lastname"),
			goqu.I("br.borrowdate"),
			goqu.I("br.returndate"),
			goqu.I("br.late_fee"),
		).
		Order(goqu.I("br.id").Asc()).
		Prepared(true)

	if filter.CustomerID != 0 {
		ds = ds.Where(goqu.I("br.customerid").Eq(filter.CustomerID))
	}
	if filter.OpenOnly {
		ds = ds.Where(goqu.I("br.returndate").IsNull())
	}
	return ds
}
