package controllers

import (
	"fmt"
	"strconv"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// UserListRequest represents the request parameters for user listing
type UserListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Role   string `form:"role"`
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
}

// GetUsers handles user listing with search, pagination, and sorting
func GetUsers(c *gin.Context) {
	utils.LogInfo("GetUsers called")

	var req UserListRequest
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	req.SortBy = c.DefaultQuery("sort_by", "created_at")
	req.Order = c.DefaultQuery("order", "desc")
	req.Search = c.Query("search")
	req.Role = c.Query("role")

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 10
	}
	if req.Order != "asc" && req.Order != "desc" {
		req.Order = "desc"
	}

	query := config.DB.Model(&models.User{})

	if req.Search != "" {
		searchTerm := "%" + req.Search + "%"
		utils.LogDebug("Applying search with term: %s", req.Search)
		query = query.Where(
			"email ILIKE ? OR username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	switch req.SortBy {
	case "email":
		query = query.Order(fmt.Sprintf("email %s", req.Order))
	case "username":
		query = query.Order(fmt.Sprintf("username %s", req.Order))
	default:
		query = query.Order(fmt.Sprintf("created_at %s", req.Order))
	}

	var total int64
	query.Count(&total)

	offset := (req.Page - 1) * req.Limit
	var users []models.User
	if err := query.Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", err.Error())
		return
	}

	cleanUsers := make([]gin.H, len(users))
	for i, user := range users {
		cleanUsers[i] = gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"role":        user.Role,
			"region":      user.Region,
			"is_blocked":  user.IsBlocked,
			"is_verified": user.IsVerified,
			"created_at":  user.CreatedAt,
			"last_login":  user.LastLoginAt,
		}
	}

	utils.LogInfo("Successfully retrieved %d users", len(users))
	utils.Success(c, "Users retrieved successfully", gin.H{
		"users": cleanUsers,
		"pagination": gin.H{
			"total":       total,
			"page":        req.Page,
			"per_page":    req.Limit,
			"total_pages": (total + int64(req.Limit) - 1) / int64(req.Limit),
		},
	})
}

// BlockUser blocks a user account
func BlockUser(c *gin.Context) {
	utils.LogInfo("BlockUser called")
	setUserBlocked(c, true)
}

// UnblockUser unblocks a user account
func UnblockUser(c *gin.Context) {
	utils.LogInfo("UnblockUser called")
	setUserBlocked(c, false)
}

func setUserBlocked(c *gin.Context, blocked bool) {
	id := c.Param("id")

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		utils.LogError("User not found: %s", id)
		utils.NotFound(c, "User not found")
		return
	}

	user.IsBlocked = blocked
	if err := config.DB.Save(&user).Error; err != nil {
		utils.LogError("Failed to update user %s: %v", id, err)
		utils.InternalServerError(c, "Failed to update user", err.Error())
		return
	}

	action := "unblocked"
	if blocked {
		action = "blocked"
	}
	utils.LogInfo("User %d %s", user.ID, action)
	utils.Success(c, fmt.Sprintf("User %s successfully", action), gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"is_blocked": user.IsBlocked,
		},
	})
}
