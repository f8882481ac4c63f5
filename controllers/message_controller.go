package controllers

import (
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// SendMessage sends a message to a listing's seller
func SendMessage(c *gin.Context) {
	utils.LogInfo("SendMessage called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var req struct {
		ListingID   uint   `json:"listing_id" binding:"required"`
		RecipientID uint   `json:"recipient_id"`
		Content     string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	content := utils.SanitizeString(req.Content)
	if content == "" || len(content) > utils.MaxMessageLength {
		utils.BadRequest(c, "Message content must be between 1 and 2000 characters", nil)
		return
	}

	listing, err := utils.GetListingByID(req.ListingID)
	if err != nil {
		utils.LogError("Listing not found: %d", req.ListingID)
		utils.NotFound(c, "Listing not found")
		return
	}

	// Without an explicit recipient the message goes to the seller.
	recipientID := req.RecipientID
	if recipientID == 0 {
		recipientID = listing.UserID
	}
	if recipientID == user.ID {
		utils.BadRequest(c, "You cannot message yourself", nil)
		return
	}

	var recipient models.User
	if err := config.DB.First(&recipient, recipientID).Error; err != nil {
		utils.NotFound(c, "Recipient not found")
		return
	}

	message := models.Message{
		ListingID:   req.ListingID,
		SenderID:    user.ID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		utils.LogError("Failed to save message: %v", err)
		utils.InternalServerError(c, "Failed to send message", err.Error())
		return
	}

	go func() {
		if err := utils.SendMessageNotification(recipient.Email, listing.Title); err != nil {
			utils.LogError("Failed to send message notification email: %v", err)
		}
	}()

	utils.LogInfo("User %d sent message %d to user %d about listing %d", user.ID, message.ID, recipientID, req.ListingID)
	utils.Created(c, "Message sent", gin.H{"message_id": message.ID})
}

// GetConversation returns the message thread between the user and another user about a listing
func GetConversation(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	listingID := c.Param("listingId")
	otherID := c.Param("userId")

	var messages []models.Message
	if err := config.DB.
		Where("listing_id = ? AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			listingID, user.ID, otherID, otherID, user.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		utils.LogError("Failed to fetch conversation: %v", err)
		utils.InternalServerError(c, "Failed to fetch conversation", err.Error())
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Message{}).
		Where("listing_id = ? AND sender_id = ? AND recipient_id = ? AND read = ?", listingID, otherID, user.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now}).Error; err != nil {
		utils.LogError("Failed to mark messages read: %v", err)
	}

	utils.Success(c, "Conversation retrieved successfully", gin.H{"messages": messages})
}

// GetInbox lists the latest message per conversation for the user
func GetInbox(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var messages []models.Message
	if err := config.DB.
		Where("sender_id = ? OR recipient_id = ?", user.ID, user.ID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		utils.LogError("Failed to fetch inbox for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch inbox", err.Error())
		return
	}

	type convKey struct {
		ListingID uint
		OtherID   uint
	}
	seen := map[convKey]bool{}
	conversations := make([]gin.H, 0)
	for _, m := range messages {
		otherID := m.SenderID
		if otherID == user.ID {
			otherID = m.RecipientID
		}
		key := convKey{ListingID: m.ListingID, OtherID: otherID}
		if seen[key] {
			continue
		}
		seen[key] = true

		var unread int64
		config.DB.Model(&models.Message{}).
			Where("listing_id = ? AND sender_id = ? AND recipient_id = ? AND read = ?", m.ListingID, otherID, user.ID, false).
			Count(&unread)

		conversations = append(conversations, gin.H{
			"listing_id":    m.ListingID,
			"other_user_id": otherID,
			"last_message":  m.Content,
			"last_at":       m.CreatedAt,
			"unread_count":  unread,
		})
	}

	utils.Success(c, "Inbox retrieved successfully", gin.H{"conversations": conversations})
}

// GetUnreadCount returns the user's total unread message count
func GetUnreadCount(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var count int64
	if err := config.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		utils.LogError("Failed to count unread messages: %v", err)
		utils.InternalServerError(c, "Failed to count unread messages", err.Error())
		return
	}

	utils.Success(c, "Unread count retrieved", gin.H{"unread": count})
}
