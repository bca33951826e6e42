package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/task"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

var (
	sessionStart = time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	postedAt     = sessionStart.Add(5 * time.Minute)
)

func strptr(s string) *string { return &s }
func f64ptr(f float64) *float64 { return &f }

type fixture struct {
	state     *state
	queue     *fakeQueue
	transport *fakeTransport
	uc        *PostMessageUseCase
}

// newFixture seeds one team running one webinar set with a bound attendee
// connection, the shape every pipeline test starts from.
func newFixture() *fixture {
	s := newState()
	s.teams["t1"] = livechat.Team{ID: "t1", Name: "Acme"}
	s.users["mod1"] = livechat.User{ID: "mod1", FirstName: "Mo", LastName: "Derator", TeamID: "t1"}
	s.webinars["w1"] = livechat.Webinar{
		ID:                      "w1",
		WaitingRoomDurationSecs: 60,
		DurationSecs:            1800,
		ExitRoomDurationSecs:    300,
		PrivateWelcomeMessage:   "Hi {firstName}!",
	}
	s.sets["s1"] = livechat.WebinarSet{ID: "s1", TeamID: "t1", WebinarID: "w1", ModeratorID: strptr("mod1")}
	s.attendees["a1"] = livechat.Attendee{
		ID:        "a1",
		VisitorID: "v1",
		SetID:     "s1",
		WebinarID: "w1",
		StartTime: sessionStart,
		JoinTime:  sessionStart,
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	s.connections["conn-att"] = livechat.Connection{
		ConnectionID:  "conn-att",
		AttendeeID:    strptr("a1"),
		SetID:         strptr("s1"),
		TimeConnected: sessionStart,
	}

	queue := &fakeQueue{}
	transport := newFakeTransport()
	repos := s.repos()
	uc := NewPostMessageUseCase(
		repos,
		&fakeTx{s: s},
		queue,
		NewBroadcaster(transport, repos.Connections),
		&fakeVerifier{ident: livechat.StaffIdentity{UserID: "mod1", Role: "Admin", TeamID: "t1"}},
		nil,
		30*time.Second,
	)
	return &fixture{state: s, queue: queue, transport: transport, uc: uc}
}

func (fx *fixture) connectStaff(connectionID, userID string) {
	fx.state.mu.Lock()
	defer fx.state.mu.Unlock()
	fx.state.connections[connectionID] = livechat.Connection{
		ConnectionID:  connectionID,
		UserID:        strptr(userID),
		Role:          strptr("Admin"),
		TeamID:        strptr("t1"),
		TimeConnected: sessionStart,
	}
}

func attendeeChatEnvelope(content string) livechat.SocketEnvelope {
	return livechat.SocketEnvelope{
		ConnectionID: "conn-att",
		Post: &livechat.MessagePost{
			Chat: &livechat.MessageInput{
				FromAttendee:      true,
				TimeSent:          postedAt,
				TimeInWebinarSecs: f64ptr(300),
				Content:           content,
				Kind:              livechat.KindChat,
			},
		},
	}
}

func TestPostMessage_FirstContactCreatesConversationWithWelcome(t *testing.T) {
	fx := newFixture()

	payload, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("hello there"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if payload == nil || payload.Message == nil {
		t.Fatal("no message payload returned")
	}

	if len(fx.state.conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(fx.state.conversations))
	}
	if len(fx.state.messages) != 2 {
		t.Fatalf("messages = %d, want welcome + chat", len(fx.state.messages))
	}

	welcome := fx.state.messages[0]
	if welcome.Content != "Hi Ada!" {
		t.Errorf("welcome content = %q", welcome.Content)
	}
	if welcome.FromAttendee {
		t.Error("welcome message attributed to the attendee")
	}
	if want := sessionStart.Add(30 * time.Second); !welcome.TimeSent.Equal(want) {
		t.Errorf("welcome timeSent = %v, want %v", welcome.TimeSent, want)
	}
	if welcome.RoomType != livechat.RoomWaiting {
		t.Errorf("welcome roomType = %v, want Waiting", welcome.RoomType)
	}
	if welcome.UserID == nil || *welcome.UserID != "mod1" {
		t.Error("welcome message not attributed to the moderator")
	}

	chat := fx.state.messages[1]
	if chat.RoomType != livechat.RoomPresentation || chat.TimeInRoomSecs != 240 {
		t.Errorf("chat placed at (%v, %v), want (Presentation, 240)", chat.RoomType, chat.TimeInRoomSecs)
	}

	if !payload.Conversation.IsAttendeeLive {
		t.Error("attendee just posted but is not reported live")
	}
	if !payload.HasUnreadMessages {
		t.Error("unread flag not set on never-read conversation")
	}
}

func TestPostMessage_ModeratorOfflineEnqueuesDigest(t *testing.T) {
	fx := newFixture()

	if _, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("anyone there?")); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(fx.queue.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(fx.queue.tasks))
	}
	if fx.queue.tasks[0].Type != task.ModeratorOfflineTaskType {
		t.Errorf("task type = %q", fx.queue.tasks[0].Type)
	}
	if fx.queue.opts[0].Queue != task.NotificationQueue {
		t.Errorf("queue = %q, want %q", fx.queue.opts[0].Queue, task.NotificationQueue)
	}
}

func TestPostMessage_ModeratorOnlineSkipsDigest(t *testing.T) {
	fx := newFixture()
	fx.connectStaff("conn-mod", "mod1")

	if _, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("hi")); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fx.queue.tasks) != 0 {
		t.Fatalf("tasks = %d, want 0", len(fx.queue.tasks))
	}
	if fx.transport.deliveries("conn-mod") != 1 {
		t.Error("moderator connection did not receive the broadcast")
	}
	if fx.transport.deliveries("conn-att") != 1 {
		t.Error("attendee connection did not receive the broadcast")
	}
}

func TestPostMessage_TeammateOnlineDoesNotSuppressDigest(t *testing.T) {
	fx := newFixture()
	fx.state.users["mate"] = livechat.User{ID: "mate", TeamID: "t1"}
	fx.connectStaff("conn-mate", "mate")

	if _, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("hi")); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// The moderator of record is offline; a teammate's dashboard must not
	// swallow their notification.
	if len(fx.queue.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(fx.queue.tasks))
	}
	// The teammate still sees the message live.
	if fx.transport.deliveries("conn-mate") != 1 {
		t.Error("teammate connection did not receive the broadcast")
	}
}

func TestPostMessage_TypingNotPersistedAndSkipsTypist(t *testing.T) {
	fx := newFixture()
	fx.connectStaff("conn-mod", "mod1")

	// Seed the conversation with a real message first.
	if _, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("hello")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	persisted := len(fx.state.messages)
	attDeliveries := fx.transport.deliveries("conn-att")

	env := attendeeChatEnvelope("...")
	env.Post.Chat.Kind = livechat.KindTyping
	payload, err := fx.uc.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("typing: %v", err)
	}

	if len(fx.state.messages) != persisted {
		t.Error("typing event was persisted")
	}
	if payload.Typing == nil || payload.Message != nil {
		t.Errorf("payload = %+v, want typing only", payload)
	}
	if fx.transport.deliveries("conn-att") != attDeliveries {
		t.Error("typist received their own typing indicator")
	}
	if fx.transport.deliveries("conn-mod") != 2 {
		t.Error("staff did not receive the typing indicator")
	}
}

func TestPostMessage_StaffReplyByConversationID(t *testing.T) {
	fx := newFixture()
	fx.connectStaff("conn-mod", "mod1")

	// Attendee opens the thread, then disconnects.
	if _, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("question")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var convID string
	for id := range fx.state.conversations {
		convID = id
	}
	delete(fx.state.connections, "conn-att")
	fx.queue.tasks = nil
	fx.queue.opts = nil

	env := livechat.SocketEnvelope{
		ConnectionID: "conn-mod",
		Post: &livechat.MessagePost{
			Chat: &livechat.MessageInput{
				ConversationID: &convID,
				FromAttendee:   false,
				TimeSent:       postedAt.Add(time.Minute),
				Content:        "answer",
				Kind:           livechat.KindChat,
			},
		},
	}
	payload, err := fx.uc.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if payload.Conversation.IsAttendeeLive {
		t.Error("disconnected attendee reported live")
	}
	if len(fx.queue.tasks) != 1 || fx.queue.tasks[0].Type != task.AttendeeOfflineTaskType {
		t.Fatalf("tasks = %+v, want one attendee-offline digest", fx.queue.tasks)
	}

	conv := fx.state.conversations[convID]
	if !conv.SortDate.Equal(postedAt.Add(time.Minute)) {
		t.Errorf("sortDate = %v, want the reply's timeSent", conv.SortDate)
	}
}

func TestPostMessage_ConcurrentFirstContactCreatesOneConversation(t *testing.T) {
	fx := newFixture()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := fx.uc.Execute(context.Background(), attendeeChatEnvelope("hi")); err != nil {
				t.Errorf("Execute: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(fx.state.conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(fx.state.conversations))
	}
	// One welcome plus both chat messages.
	if len(fx.state.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(fx.state.messages))
	}
}

func TestPostMessage_TokenOnlyRebindsConnection(t *testing.T) {
	fx := newFixture()
	fx.state.connections["conn-anon"] = livechat.Connection{ConnectionID: "conn-anon", TimeConnected: sessionStart}

	env := livechat.SocketEnvelope{
		ConnectionID: "conn-anon",
		Post:         &livechat.MessagePost{Token: strptr("some.jwt.token")},
	}
	payload, err := fx.uc.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if payload != nil {
		t.Error("identity-only post produced a broadcast")
	}

	conn := fx.state.connections["conn-anon"]
	if conn.UserID == nil || *conn.UserID != "mod1" || conn.TeamID == nil || *conn.TeamID != "t1" {
		t.Errorf("staff binding not applied: %+v", conn)
	}
}

func TestPostMessage_Rejections(t *testing.T) {
	fx := newFixture()

	tests := []struct {
		name     string
		envelope livechat.SocketEnvelope
		want     error
	}{
		{
			"unknown connection",
			livechat.SocketEnvelope{ConnectionID: "nope", Post: &livechat.MessagePost{}},
			ErrNotFound,
		},
		{
			"missing connection id",
			livechat.SocketEnvelope{},
			ErrValidation,
		},
		{
			"unknown message kind",
			livechat.SocketEnvelope{
				ConnectionID: "conn-att",
				Post: &livechat.MessagePost{Chat: &livechat.MessageInput{
					FromAttendee: true, TimeSent: postedAt, Content: "x", Kind: "Reaction",
				}},
			},
			ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fx.uc.Execute(context.Background(), tt.envelope); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPostMessage_OfflineDigestCarriesPriorMessages(t *testing.T) {
	fx := newFixture()

	// Several messages, then one more while the moderator is offline.
	for i, content := range []string{"one", "two", "three"} {
		env := attendeeChatEnvelope(content)
		env.Post.Chat.TimeSent = postedAt.Add(time.Duration(i) * time.Minute)
		if _, err := fx.uc.Execute(context.Background(), env); err != nil {
			t.Fatalf("post %q: %v", content, err)
		}
	}

	last := fx.queue.tasks[len(fx.queue.tasks)-1]
	var p task.OfflineNotificationPayload
	if err := json.Unmarshal(last.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.NewMessage.Content != "three" {
		t.Errorf("new message = %q", p.NewMessage.Content)
	}
	// Chronological, excluding the triggering message itself.
	if len(p.PreviousMessages) != 3 {
		t.Fatalf("previous = %d, want welcome + two chats", len(p.PreviousMessages))
	}
	for _, m := range p.PreviousMessages {
		if m.ID == p.NewMessage.ID {
			t.Error("digest includes the triggering message")
		}
	}
	if p.PreviousMessages[1].Content != "one" || p.PreviousMessages[2].Content != "two" {
		t.Errorf("prior messages out of order: %+v", p.PreviousMessages)
	}
	if p.Team.ID != "t1" || p.Webinar.ID != "w1" || p.Attendee.ID != "a1" {
		t.Error("digest context incomplete")
	}
}
