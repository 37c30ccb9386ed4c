package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"library_backend/pkg/database"
	"library_backend/pkg/library"

	"github.com/gin-gonic/gin"
)

type handlers struct {
	catalog   *library.Catalog
	borrowing *library.Borrowing
	ledger    *library.Ledger
	store     *database.Gateway
	log       *slog.Logger
}

type createBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	Genre  string `json:"genre" binding:"required"`
}

type createCustomerRequest struct {
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type borrowRequest struct {
	CustomerID uint `json:"customerid" binding:"required"`
	BookID     uint `json:"bookid" binding:"required"`
}

type returnRequest struct {
	ID uint `json:"id" binding:"required"`
}

func (h *handlers) getBooks(c *gin.Context) {
	books, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		h.writeError(c, "list books", err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *handlers) createBook(c *gin.Context) {
	var request createBookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required info"})
		return
	}

	book, err := h.catalog.CreateBook(c.Request.Context(), library.CreateBookInput{
		Title:  request.Title,
		Author: request.Author,
		Genre:  request.Genre,
	})
	if err != nil {
		h.writeError(c, "create book", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Book added successfully", "id": book.ID})
}

func (h *handlers) getCustomers(c *gin.Context) {
	customers, err := h.catalog.ListCustomers(c.Request.Context())
	if err != nil {
		h.writeError(c, "list customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *handlers) createCustomer(c *gin.Context) {
	var request createCustomerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required info"})
		return
	}

	customer, err := h.catalog.CreateCustomer(c.Request.Context(), library.CreateCustomerInput{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Password:  request.Password,
	})
	if err != nil {
		h.writeError(c, "create customer", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer added successfully", "id": customer.ID})
}

func (h *handlers) borrowBook(c *gin.Context) {
	var request borrowRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerid and bookid are required"})
		return
	}

	record, err := h.borrowing.Borrow(c.Request.Context(), library.BorrowInput{
		CustomerID: request.CustomerID,
		BookID:     request.BookID,
	})
	if err != nil {
		h.writeError(c, "borrow", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book borrowed successfully", "id": record.ID})
}

func (h *handlers) getBorrowings(c *gin.Context) {
	var filter library.LedgerFilter
	if raw := c.Query("customerid"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerid"})
			return
		}
		filter.CustomerID = uint(id)
	}
	filter.OpenOnly = c.DefaultQuery("open", "false") == "true"

	rows, err := h.ledger.ListBorrowings(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, "list borrowings", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handlers) returnBook(c *gin.Context) {
	var request returnRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	result, err := h.borrowing.Return(c.Request.Context(), request.ID)
	if err != nil {
		h.writeError(c, "return", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Book returned successfully",
		"late_fee": result.LateFee,
	})
}

func (h *handlers) healthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Error("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "Database reachable",
	})
}

// writeError maps business rejections to their status and message. Store and
// internal failures are logged in full and answered with a generic payload.
func (h *handlers) writeError(c *gin.Context, op string, err error) {
	var rejected *library.Error
	if errors.As(err, &rejected) {
		c.JSON(statusFor(library.Code(err)), gin.H{"error": rejected.Message()})
		return
	}

	h.log.Error("request failed", "op", op, "err", err, "request_id", c.GetString(requestIDKey))
	if errors.Is(err, database.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func statusFor(code library.ErrCode) int {
	switch code {
	case library.CodeRecordNotFound:
		return http.StatusNotFound
	case library.CodeAlreadyReturned, library.CodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
