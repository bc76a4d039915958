package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type MessageHandler struct {
	db *gorm.DB
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// ConversationSummary is one row of the inbox view.
type ConversationSummary struct {
	OtherUserID   uint            `json:"otherUserId"`
	OtherUserType string          `json:"otherUserType"`
	OtherUserName string          `json:"otherUserName"`
	LastMessage   *models.Message `json:"lastMessage"`
	UnreadCount   int             `json:"unreadCount"`
}

// ======================================================
// HANDLERS
// ======================================================

// Send creates a message. Clients can only message providers and vice
// versa, so the receiver type is derived from the sender, never trusted
// from the body.
func (h *MessageHandler) Send(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "receiverId and content are required.")
		return
	}

	receiverType := actor.CounterpartType()
	if !h.participantExists(req.ReceiverID, receiverType) {
		httperr.NotFound(c, "receiver_not_found", "Recipient not found.")
		return
	}

	msg := models.Message{
		SenderID:     actor.ID,
		SenderType:   actor.ParticipantType(),
		ReceiverID:   req.ReceiverID,
		ReceiverType: receiverType,
		Content:      req.Content,
	}

	if err := h.db.Create(&msg).Error; err != nil {
		httperr.Internal(c, "failed_to_send_message", "Error sending message.")
		return
	}

	httpresp.Created(c, gin.H{"message": msg})
}

// GetConversation returns the full thread with one counterpart, oldest
// first. Reading the thread does not touch read flags; clients report that
// explicitly through MarkRead.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	otherID, err := strconv.ParseUint(c.Param("otherUserId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	selfType := actor.ParticipantType()
	otherType := actor.CounterpartType()

	var messages []models.Message
	if err := h.db.
		Where(
			"(sender_id = ? AND sender_type = ? AND receiver_id = ? AND receiver_type = ?) OR "+
				"(sender_id = ? AND sender_type = ? AND receiver_id = ? AND receiver_type = ?)",
			actor.ID, selfType, otherID, otherType,
			otherID, otherType, actor.ID, selfType,
		).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		httperr.Internal(c, "failed_to_get_conversation", "Error retrieving conversation.")
		return
	}

	httpresp.OK(c, gin.H{
		"otherUserId":   otherID,
		"otherUserType": otherType,
		"messages":      messages,
	})
}

// ListConversations groups the caller's messages by counterpart, newest
// conversation first.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	selfType := actor.ParticipantType()
	otherType := actor.CounterpartType()

	var messages []models.Message
	if err := h.db.
		Where("(sender_id = ? AND sender_type = ?) OR (receiver_id = ? AND receiver_type = ?)",
			actor.ID, selfType, actor.ID, selfType).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		httperr.Internal(c, "failed_to_list_conversations", "Error retrieving conversations.")
		return
	}

	order := []uint{}
	byOther := map[uint]*ConversationSummary{}
	for i := range messages {
		msg := &messages[i]

		otherID := msg.SenderID
		if msg.SenderID == actor.ID && msg.SenderType == selfType {
			otherID = msg.ReceiverID
		}

		summary, seen := byOther[otherID]
		if !seen {
			summary = &ConversationSummary{
				OtherUserID:   otherID,
				OtherUserType: otherType,
				LastMessage:   msg,
			}
			byOther[otherID] = summary
			order = append(order, otherID)
		}
		if msg.ReceiverID == actor.ID && msg.ReceiverType == selfType && !msg.Read {
			summary.UnreadCount++
		}
	}

	conversations := make([]ConversationSummary, 0, len(order))
	for _, otherID := range order {
		summary := byOther[otherID]
		summary.OtherUserName = h.displayName(otherID, otherType)
		conversations = append(conversations, *summary)
	}

	httpresp.OK(c, gin.H{"conversations": conversations})
}

// MarkRead flags everything the given counterpart sent the caller as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	otherID, err := strconv.ParseUint(c.Param("otherUserId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	result := h.db.Model(&models.Message{}).
		Where("sender_id = ? AND sender_type = ? AND receiver_id = ? AND receiver_type = ? AND read = ?",
			otherID, actor.CounterpartType(), actor.ID, actor.ParticipantType(), false).
		Update("read", true)
	if result.Error != nil {
		httperr.Internal(c, "failed_to_mark_read", "Error updating messages.")
		return
	}

	httpresp.OK(c, gin.H{"updated": result.RowsAffected})
}

// ======================================================
// HELPERS
// ======================================================

func (h *MessageHandler) participantExists(id uint, participantType string) bool {
	var count int64
	if participantType == models.ParticipantClient {
		h.db.Model(&models.Client{}).Where("id = ?", id).Count(&count)
	} else {
		h.db.Model(&models.Provider{}).Where("id = ?", id).Count(&count)
	}
	return count > 0
}

// displayName tolerates deleted accounts so an old thread still renders.
func (h *MessageHandler) displayName(id uint, participantType string) string {
	if participantType == models.ParticipantClient {
		var client models.Client
		if err := h.db.Select("first_name", "last_name").First(&client, id).Error; err == nil {
			return client.FirstName + " " + client.LastName
		}
	} else {
		var provider models.Provider
		if err := h.db.Select("first_name", "last_name").First(&provider, id).Error; err == nil {
			return provider.FirstName + " " + provider.LastName
		}
	}
	return "Unknown User"
}
