package library

import (
	"context"
	"testing"

	"library_backend/pkg/models"
	"library_backend/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	f := setupFixture(t)

	book := f.addBook(t, "Dune")

	assert.NotZero(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, models.StatusAvailable, book.Status)
	assert.Equal(t, models.StatusAvailable, f.bookStatus(t, book.ID))
}

func TestCreateBookMissingField(t *testing.T) {
	f := setupFixture(t)

	_, err := f.catalog.CreateBook(context.Background(), CreateBookInput{Title: "Dune", Author: "Herbert"})

	assert.ErrorIs(t, err, ErrValidation)
	books, err := f.catalog.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestListBooks(t *testing.T) {
	f := setupFixture(t)
	f.addBook(t, "First")
	f.addBook(t, "Second")

	books, err := f.catalog.ListBooks(context.Background())

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "First", books[0].Title)
	assert.Equal(t, "Second", books[1].Title)
}

func TestCreateCustomerHashesPassword(t *testing.T) {
	f := setupFixture(t)

	customer := f.addCustomer(t, "Ada", "ada@example.com")

	var stored models.Customer
	require.NoError(t, f.db.Where("id = ?", customer.ID).First(&stored).Error)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.True(t, password.Check(stored.PasswordHash, "secret"))
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	f := setupFixture(t)
	f.addCustomer(t, "Ada", "ada@example.com")

	_, err := f.catalog.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "ada@example.com",
		Password:  "pw",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateCustomerValidation(t *testing.T) {
	f := setupFixture(t)

	tests := []struct {
		name string
		in   CreateCustomerInput
	}{
		{"missing first name", CreateCustomerInput{LastName: "L", Email: "a@b.co", Password: "pw"}},
		{"missing password", CreateCustomerInput{FirstName: "F", LastName: "L", Email: "a@b.co"}},
		{"bad email", CreateCustomerInput{FirstName: "F", LastName: "L", Email: "nope", Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.CreateCustomer(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, CodeValidation, Code(err))
		})
	}
}

func TestCreateCustomerValidationMessages(t *testing.T) {
	f := setupFixture(t)

	tests := []struct {
		name string
		in   CreateCustomerInput
		want string
	}{
		{"malformed email", CreateCustomerInput{FirstName: "F", LastName: "L", Email: "nope", Password: "pw"}, "Invalid email address"},
		{"missing field reported before email", CreateCustomerInput{FirstName: "F", Email: "nope", Password: "pw"}, "Missing required info"},
		{"missing email", CreateCustomerInput{FirstName: "F", LastName: "L", Password: "pw"}, "Missing required info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.CreateCustomer(context.Background(), tt.in)

			var rejected *Error
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.want, rejected.Message())
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestListCustomersOmitsPasswordHash(t *testing.T) {
	f := setupFixture(t)
	f.addCustomer(t, "Ada", "ada@example.com")

	customers, err := f.catalog.ListCustomers(context.Background())

	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada", customers[0].FirstName)
	assert.Equal(t, "ada@example.com", customers[0].Email)
	assert.Empty(t, customers[0].PasswordHash)
}
