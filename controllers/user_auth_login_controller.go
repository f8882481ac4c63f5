package controllers

import (
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser handles user authentication
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login failed - Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Login attempt for email: %s", req.Email)

	user, err := utils.GetUserByEmail(req.Email)
	if err != nil {
		utils.LogError("Login failed - User not found for email: %s", req.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed - Wrong password for email: %s", req.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if user.IsBlocked {
		utils.LogError("Login failed - Blocked account: %s", req.Email)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	if !user.IsVerified {
		utils.LogError("Login failed - Unverified account: %s", req.Email)
		utils.Forbidden(c, "Please verify your email before logging in")
		return
	}

	user.LastLoginAt = time.Now()
	if err := config.DB.Save(user).Error; err != nil {
		utils.LogError("Failed to update last login for user %d: %v", user.ID, err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	utils.LogInfo("Login successful for user %d (%s)", user.ID, user.Email)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
			"region":     user.Region,
		},
	})
}
