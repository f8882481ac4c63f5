package controllers

import (
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	Region          string `json:"region"`
}

// RegistrationData represents the pending registration stored in session
// until the email OTP is verified
type RegistrationData struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OTP        string `json:"otp"`
	OTPExpires int64  `json:"otp_expires"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Region     string `json:"region"`
}

// RegisterUser handles user registration
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}

	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.LogError("Registration attempt failed - Invalid username: %s - %s", req.Username, msg)
		utils.BadRequest(c, "Invalid username", msg)
		return
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.LogError("Registration attempt failed - Invalid email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.LogError("Registration attempt failed - Invalid password for email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.LogError("Registration attempt failed - Passwords do not match for email: %s", req.Email)
		utils.BadRequest(c, "Passwords do not match", "Password and confirm password must be the same.")
		return
	}

	if req.Phone != "" {
		valid, formattedPhone := utils.ValidatePhone(req.Phone)
		if !valid {
			utils.LogError("Registration attempt failed - Invalid phone: %s", req.Phone)
			utils.BadRequest(c, "Invalid phone number", "Please provide a valid phone number.")
			return
		}
		req.Phone = formattedPhone
	}

	// Sellers register as regular users, dealers or companies
	switch req.Role {
	case "":
		req.Role = models.RoleUser
	case models.RoleUser, models.RoleDealer, models.RoleCompany:
	default:
		utils.LogError("Registration attempt failed - Invalid role: %s", req.Role)
		utils.BadRequest(c, "Invalid role", "Role must be one of: user, dealer, company.")
		return
	}

	// Check for existing accounts
	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.LogError("Registration attempt failed - Email already registered: %s", req.Email)
		utils.Conflict(c, "Email already registered", nil)
		return
	}
	if err := config.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration attempt failed - Username already taken: %s", req.Username)
		utils.Conflict(c, "Username already taken", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	otp := utils.GenerateOTP()
	expiry := time.Now().Add(15 * time.Minute)

	// Hold the registration in the session until the OTP is verified;
	// the user row is only created after verification
	session := sessions.Default(c)
	session.Set("registration", RegistrationData{
		Email:      req.Email,
		Password:   hashedPassword,
		OTP:        otp,
		OTPExpires: expiry.Unix(),
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Role:       req.Role,
		Region:     req.Region,
	})
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save registration session for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	if err := utils.SendOTP(req.Email, otp); err != nil {
		utils.LogError("Failed to send OTP email to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification email", nil)
		return
	}

	utils.LogInfo("Registration OTP sent to %s", req.Email)
	utils.Success(c, "Verification OTP sent to your email", gin.H{
		"email":      req.Email,
		"expires_at": expiry.Format(time.RFC3339),
	})
}

// VerifyOTP completes registration after the emailed OTP is confirmed
func VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("OTP verification failed - Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	session := sessions.Default(c)
	raw := session.Get("registration")
	if raw == nil {
		utils.LogError("OTP verification failed - No pending registration for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration", "Please register first.")
		return
	}

	data, ok := raw.(RegistrationData)
	if !ok || data.Email != req.Email {
		utils.LogError("OTP verification failed - Registration data mismatch for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration for this email", nil)
		return
	}

	if time.Now().Unix() > data.OTPExpires {
		utils.LogError("OTP verification failed - OTP expired for email: %s", req.Email)
		utils.BadRequest(c, "OTP expired", "Please register again to receive a new OTP.")
		return
	}
	if data.OTP != req.OTP {
		utils.LogError("OTP verification failed - Wrong OTP for email: %s", req.Email)
		utils.BadRequest(c, "Invalid OTP", nil)
		return
	}

	user := models.User{
		Username:   data.Username,
		Email:      data.Email,
		Password:   data.Password,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Phone:      data.Phone,
		Role:       data.Role,
		Region:     data.Region,
		IsVerified: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user for email: %s: %v", data.Email, err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	session.Delete("registration")
	_ = session.Save()

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for new user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Account created but login failed, please login manually", nil)
		return
	}

	utils.LogInfo("Registration completed for user %d (%s)", user.ID, user.Email)
	utils.Created(c, "Account created successfully", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
