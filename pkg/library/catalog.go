package library

import (
	"context"
	"errors"

	"library_backend/pkg/database"
	"library_backend/pkg/models"
	"library_backend/pkg/password"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type CreateBookInput struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Genre  string `validate:"required"`
}

type CreateCustomerInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required"`
}

// Catalog owns book and customer records.
type Catalog struct {
	store    *database.Gateway
	validate *validator.Validate
}

func NewCatalog(store *database.Gateway) *Catalog {
	return &Catalog{store: store, validate: validator.New()}
}

func (c *Catalog) CreateBook(ctx context.Context, in CreateBookInput) (models.Book, error) {
	if err := c.validate.Struct(in); err != nil {
		return models.Book{}, validationError(err)
	}

	book := models.Book{
		Title:  in.Title,
		Author: in.Author,
		Genre:  in.Genre,
		Status: models.StatusAvailable,
	}
	err := c.store.Run(ctx, "create book", func(db *gorm.DB) error {
		return db.Create(&book).Error
	})
	if err != nil {
		return models.Book{}, err
	}
	return book, nil
}

func (c *Catalog) ListBooks(ctx context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0)
	err := c.store.Run(ctx, "list books", func(db *gorm.DB) error {
		return db.Order("id").Find(&books).Error
	})
	return books, err
}

// CreateCustomer registers a customer. The password is hashed before it gets
// anywhere near the store.
func (c *Catalog) CreateCustomer(ctx context.Context, in CreateCustomerInput) (models.Customer, error) {
	if err := c.validate.Struct(in); err != nil {
		return models.Customer{}, validationError(err)
	}

	hashed, err := password.Hash(in.Password)
	if err != nil {
		return models.Customer{}, err
	}

	customer := models.Customer{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hashed,
	}
	err = c.store.Run(ctx, "create customer", func(db *gorm.DB) error {
		if err := db.Create(&customer).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Customer{}, err
	}
	return customer, nil
}

// ListCustomers never loads password hashes.
func (c *Catalog) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := make([]models.Customer, 0)
	err := c.store.Run(ctx, "list customers", func(db *gorm.DB) error {
		return db.Select("id", "firstname", "lastname", "email").Order("id").Find(&customers).Error
	})
	return customers, err
}

func (c *Catalog) customerExists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// availableBook loads the book if it exists and can be lent out.
func (c *Catalog) availableBook(tx *gorm.DB, id uint) (models.Book, error) {
	var book models.Book
	err := tx.Where("id = ? AND status = ?", id, models.StatusAvailable).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Book{}, ErrBookUnavailable
	}
	return book, err
}
