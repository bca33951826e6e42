package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/usecase"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// InboxController serves the team dashboard: conversation listing, read
// receipts, archiving, and transcripts. Every route runs behind the staff
// auth middleware, which stores the verified identity in the gin context.
type InboxController struct {
	listUC     *usecase.ListConversationsUseCase
	seenUC     *usecase.MarkConversationSeenUseCase
	archiveUC  *usecase.ArchiveConversationUseCase
	messagesUC *usecase.ListMessagesUseCase
}

func NewInboxController(
	listUC *usecase.ListConversationsUseCase,
	seenUC *usecase.MarkConversationSeenUseCase,
	archiveUC *usecase.ArchiveConversationUseCase,
	messagesUC *usecase.ListMessagesUseCase,
) *InboxController {
	return &InboxController{listUC: listUC, seenUC: seenUC, archiveUC: archiveUC, messagesUC: messagesUC}
}

// StaffIdentityKey is the gin context key the auth middleware sets.
const StaffIdentityKey = "staffIdentity"

func staffIdentity(c *gin.Context) (livechat.StaffIdentity, bool) {
	v, ok := c.Get(StaffIdentityKey)
	if !ok {
		return livechat.StaffIdentity{}, false
	}
	ident, ok := v.(livechat.StaffIdentity)
	return ident, ok
}

type inboxConversation struct {
	ID                string                   `json:"id"`
	IsArchived        bool                     `json:"isArchived"`
	HasUnreadMessages bool                     `json:"hasUnreadMessages"`
	IsAttendeeLive    bool                     `json:"isAttendeeLive"`
	SortDate          string                   `json:"sortDate"`
	Attendee          livechat.AttendeePayload `json:"attendee"`
	LastMessage       *livechat.MessagePayload `json:"lastMessage,omitempty"`
}

// HandleList returns one inbox page.
// GET /conversations?type=Inbox&setId=&orderBy=sortDate&desc=true&limit=30&cursor=
func (ctl *InboxController) HandleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := staffIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "staff identity required"})
			return
		}

		f := livechat.ConversationFilters{
			Type:    livechat.ConversationTypeFilter(c.Query("type")),
			OrderBy: c.Query("orderBy"),
		}
		if v := c.Query("setId"); v != "" {
			f.SetID = &v
		}
		if v := c.Query("desc"); v != "" {
			f.OrderDesc, _ = strconv.ParseBool(v)
		}
		if v := c.Query("limit"); v != "" {
			f.Limit, _ = strconv.Atoi(v)
		}
		if v := c.Query("cursor"); v != "" {
			f.Cursor = &v
		}

		items, err := ctl.listUC.Execute(c.Request.Context(), ident.TeamID, f)
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]inboxConversation, 0, len(items))
		for _, item := range items {
			row := inboxConversation{
				ID:                item.Conversation.ID,
				IsArchived:        item.Conversation.IsArchived,
				HasUnreadMessages: item.Conversation.HasUnreadMessages(),
				IsAttendeeLive:    item.Conversation.IsAttendeeLive,
				SortDate:          item.Conversation.SortDate.UTC().Format("2006-01-02T15:04:05.000Z"),
				Attendee: livechat.AttendeePayload{
					ID:        item.Attendee.ID,
					FirstName: item.Attendee.FirstName,
					LastName:  item.Attendee.LastName,
				},
			}
			if m := item.LastMessage; m != nil {
				row.LastMessage = &livechat.MessagePayload{
					ID:             m.ID,
					FromAttendee:   m.FromAttendee,
					RoomType:       m.RoomType,
					TimeInRoomSecs: m.TimeInRoomSecs,
					TimeSent:       m.TimeSent,
					Content:        m.Content,
					Type:           m.Type,
				}
			}
			out = append(out, row)
		}
		c.JSON(http.StatusOK, gin.H{"conversations": out})
	}
}

// HandleSeen marks a conversation read as of now.
// POST /conversations/:conversationId/seen
func (ctl *InboxController) HandleSeen() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := staffIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "staff identity required"})
			return
		}
		conversation, err := ctl.seenUC.Execute(c.Request.Context(), c.Param("conversationId"), ident.TeamID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":                conversation.ID,
			"lastReadAt":        conversation.LastReadAt,
			"hasUnreadMessages": conversation.HasUnreadMessages(),
		})
	}
}

type archiveRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

// HandleArchive flips the archive flag.
// POST /conversations/:conversationId/archive
func (ctl *InboxController) HandleArchive() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := staffIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "staff identity required"})
			return
		}
		var req archiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := ctl.archiveUC.Execute(c.Request.Context(), c.Param("conversationId"), ident.TeamID, *req.Archived); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleMessages returns the full transcript, oldest first.
// GET /conversations/:conversationId/messages
func (ctl *InboxController) HandleMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := staffIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "staff identity required"})
			return
		}
		messages, err := ctl.messagesUC.Execute(c.Request.Context(), c.Param("conversationId"), ident.TeamID)
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]livechat.MessagePayload, 0, len(messages))
		for _, m := range messages {
			out = append(out, livechat.MessagePayload{
				ID:             m.ID,
				FromAttendee:   m.FromAttendee,
				RoomType:       m.RoomType,
				TimeInRoomSecs: m.TimeInRoomSecs,
				TimeSent:       m.TimeSent,
				Content:        m.Content,
				Type:           m.Type,
			})
		}
		c.JSON(http.StatusOK, gin.H{"messages": out})
	}
}
