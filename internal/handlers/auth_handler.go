package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/config"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterClientRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`

	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`

	Location          string `json:"location" binding:"required"`
	InsuranceProvider string `json:"insuranceProvider" binding:"required"`
	TherapyGoals      string `json:"therapyGoals"`
}

type RegisterProviderRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`

	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`

	Credentials string `json:"credentials" binding:"required"`
	Bio         string `json:"bio" binding:"required"`
	Location    string `json:"location" binding:"required"`

	InsuranceAccepted []string `json:"insuranceAccepted"`
	Languages         []string `json:"languages"`

	YearsOfExperience int    `json:"yearsOfExperience"`
	LicensureState    string `json:"licensureState"`
	LicenseNumber     string `json:"licenseNumber"`

	Telehealth *bool `json:"telehealth"`
	InPerson   *bool `json:"inPerson"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType" binding:"required,oneof=client provider"`
}

// --------- Handlers ---------

func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailFormatValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email"})
		return
	}
	if h.config.IsProduction() && !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	var count int64
	h.db.Model(&models.Client{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	client := models.Client{
		Email:             email,
		PasswordHash:      string(hashed),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Location:          req.Location,
		InsuranceProvider: req.InsuranceProvider,
		TherapyGoals:      req.TherapyGoals,
	}

	if err := h.db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_client"})
		return
	}

	token, err := h.generateToken(client.ID, models.RoleClient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":        client.ID,
			"email":     client.Email,
			"firstName": client.FirstName,
			"lastName":  client.LastName,
			"type":      models.RoleClient,
		},
	})
}

func (h *AuthHandler) RegisterProvider(c *gin.Context) {
	var req RegisterProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailFormatValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email"})
		return
	}
	if h.config.IsProduction() && !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	var count int64
	h.db.Model(&models.Provider{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	telehealth := true
	if req.Telehealth != nil {
		telehealth = *req.Telehealth
	}
	inPerson := false
	if req.InPerson != nil {
		inPerson = *req.InPerson
	}

	provider := models.Provider{
		Email:             email,
		PasswordHash:      string(hashed),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Credentials:       req.Credentials,
		Bio:               req.Bio,
		Location:          req.Location,
		InsuranceAccepted: req.InsuranceAccepted,
		Languages:         req.Languages,
		YearsOfExperience: req.YearsOfExperience,
		LicensureState:    req.LicensureState,
		LicenseNumber:     req.LicenseNumber,
		Telehealth:        telehealth,
		InPerson:          inPerson,
		AcceptingClients:  true,
	}

	if err := h.db.Create(&provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_provider"})
		return
	}

	token, err := h.generateToken(provider.ID, models.RoleProvider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":        provider.ID,
			"email":     provider.Email,
			"firstName": provider.FirstName,
			"lastName":  provider.LastName,
			"type":      models.RoleProvider,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var (
		id           uint
		passwordHash string
		firstName    string
		lastName     string
	)

	if req.UserType == models.RoleClient {
		var client models.Client
		if err := h.db.Where("email = ?", email).First(&client).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		id, passwordHash = client.ID, client.PasswordHash
		firstName, lastName = client.FirstName, client.LastName
	} else {
		var provider models.Provider
		if err := h.db.Where("email = ?", email).First(&provider).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		id, passwordHash = provider.ID, provider.PasswordHash
		firstName, lastName = provider.FirstName, provider.LastName
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(id, req.UserType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        id,
			"email":     email,
			"firstName": firstName,
			"lastName":  lastName,
			"type":      req.UserType,
		},
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
