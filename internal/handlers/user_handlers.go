package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/auth"
	"github.com/wyshkit/wyshkit-golang/internal/models"
)

//
// --- User Registration & Login ---
//

// RegisterUserInput is the JSON body for both registration endpoints. It is
// separate from models.User because we never accept an id, role or status
// from the client.
type RegisterUserInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	StoreName   string `json:"storeName,omitempty"` // partners only
}

// RegisterCustomer is the handler for POST /v1/register/customer.
func (h *Handlers) RegisterCustomer(c *gin.Context) {
	h.registerUser(c, models.RoleCustomer, "active")
}

// RegisterPartner is the handler for POST /v1/register/partner.
// Partners start as 'pending' until an administrator activates them.
func (h *Handlers) RegisterPartner(c *gin.Context) {
	h.registerUser(c, models.RolePartner, "pending")
}

func (h *Handlers) registerUser(c *gin.Context, role, status string) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if role == models.RolePartner && input.StoreName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storeName is required for partner accounts"})
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. --- Insert User ---
	now := time.Now()
	var storeName *string
	if input.StoreName != "" {
		storeName = &input.StoreName
	}

	query := `
		INSERT INTO users (role, status, email, password_hash, full_name, phone_number, store_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query, role, status, input.Email, password.Hash, input.FullName, input.PhoneNumber, storeName, now, now)
	if err != nil {
		// Duplicate email is by far the most common failure here.
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email may already exist"})
		return
	}

	userID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read new user ID"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"userId":  userID,
		"status":  status,
	})
}

// LoginInput is the JSON body for POST /v1/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Fetch User ---
	var user models.User
	query := "SELECT id, role, status, email, password_hash FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(&user.ID, &user.Role, &user.Status, &user.Email, &user.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// 3. --- Verify Password ---
	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if user.Status == "suspended" {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account has been suspended"})
		return
	}

	// 4. --- Issue Token ---
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":     user.ID,
			"role":   user.Role,
			"status": user.Status,
			"email":  user.Email,
		},
	})
}
