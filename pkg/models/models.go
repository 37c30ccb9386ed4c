package models

import (
	"time"
)

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

type Book struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	Author string `gorm:"not null" json:"author"`
	Genre  string `gorm:"not null" json:"genre"`
	Status string `gorm:"size:20;not null;default:'available'" json:"status"`
}

type Customer struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FirstName    string `gorm:"column:firstname;size:80;not null" json:"firstname"`
	LastName     string `gorm:"column:lastname;size:80;not null" json:"lastname"`
	Email        string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:passwordhash;not null" json:"-"`
}

// BorrowingRecord is open while ReturnDate is nil. The partial unique index
// keeps a customer at one open record even under concurrent borrows.
type BorrowingRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"column:bookid;not null;index" json:"bookid"`
	CustomerID uint       `gorm:"column:customerid;not null;uniqueIndex:idx_open_loan_per_customer,where:returndate IS NULL" json:"customerid"`
	BorrowDate time.Time  `gorm:"column:borrowdate;not null" json:"borrowdate"`
	ReturnDate *time.Time `gorm:"column:returndate" json:"returndate"`
	LateFee    int        `gorm:"column:late_fee;not null;default:0" json:"late_fee"`

	Book     Book     `gorm:"foreignKey:BookID" json:"-"`
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// LedgerRow is one line of the denormalized borrowing history.
type LedgerRow struct {
	ID         uint       `gorm:"column:id" json:"id"`
	Title      string     `gorm:"column:title" json:"title"`
	FirstName  string     `gorm:"column:firstname" json:"firstname"`
	LastName   string     `gorm:"column:lastname" json:"lastname"`
	BorrowDate time.Time  `gorm:"column:borrowdate" json:"borrowdate"`
	ReturnDate *time.Time `gorm:"column:returndate" json:"returndate"`
	LateFee    int        `gorm:"column:late_fee" json:"late_fee"`
}

// All lists the tables the service owns, in dependency order.
func All() []interface{} {
	return []interface{}{&Book{}, &Customer{}, &BorrowingRecord{}}
}
