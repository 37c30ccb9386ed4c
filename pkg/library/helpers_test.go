package library

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"library_backend/pkg/database"
	"library_backend/pkg/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	db        *gorm.DB
	store     *database.Gateway
	catalog   *Catalog
	borrowing *Borrowing
	ledger    *Ledger
	clock     *testClock
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "library.db"), models.All()...)
	require.NoError(t, err)

	store := database.NewGateway(db, nil)
	t.Cleanup(func() { _ = store.Close() })

	clock := newTestClock()
	catalog := NewCatalog(store)
	return &fixture{
		db:        db,
		store:     store,
		catalog:   catalog,
		borrowing: NewBorrowing(store, catalog, WithClock(clock.Now)),
		ledger:    NewLedger(store),
		clock:     clock,
	}
}

func (f *fixture) addBook(t *testing.T, title string) models.Book {
	t.Helper()
	book, err := f.catalog.CreateBook(context.Background(), CreateBookInput{
		Title:  title,
		Author: "Test Author",
		Genre:  "Fiction",
	})
	require.NoError(t, err)
	return book
}

func (f *fixture) addCustomer(t *testing.T, first, email string) models.Customer {
	t.Helper()
	customer, err := f.catalog.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  "secret",
	})
	require.NoError(t, err)
	return customer
}

func (f *fixture) bookStatus(t *testing.T, id uint) string {
	t.Helper()
	var book models.Book
	require.NoError(t, f.db.Where("id = ?", id).First(&book).Error)
	return book.Status
}

func (f *fixture) recordCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.BorrowingRecord{}).Count(&count).Error)
	return count
}
