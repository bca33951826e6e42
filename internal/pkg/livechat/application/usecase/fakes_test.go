package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	qport "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/queue/port"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// state is the shared in-memory store behind the fake repositories. All fakes
// honor the same sentinel contract as the Postgres adapters.
type state struct {
	mu            sync.Mutex
	connections   map[string]livechat.Connection
	conversations map[string]livechat.Conversation
	messages      []livechat.Message
	attendees     map[string]livechat.Attendee
	users         map[string]livechat.User
	teams         map[string]livechat.Team
	webinars      map[string]livechat.Webinar
	sets          map[string]livechat.WebinarSet
}

func newState() *state {
	return &state{
		connections:   make(map[string]livechat.Connection),
		conversations: make(map[string]livechat.Conversation),
		attendees:     make(map[string]livechat.Attendee),
		users:         make(map[string]livechat.User),
		teams:         make(map[string]livechat.Team),
		webinars:      make(map[string]livechat.Webinar),
		sets:          make(map[string]livechat.WebinarSet),
	}
}

func (s *state) repos() repository.Repositories {
	return repository.Repositories{
		Connections:   &fakeConnections{s: s},
		Conversations: &fakeConversations{s: s},
		Messages:      &fakeMessages{s: s},
		Directory:     &fakeDirectory{s: s},
	}
}

type fakeConnections struct{ s *state }

func (f *fakeConnections) Save(_ context.Context, c livechat.Connection) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.connections[c.ConnectionID] = c
	return nil
}

func (f *fakeConnections) Find(_ context.Context, connectionID string) (*livechat.Connection, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.connections[connectionID]
	if !ok {
		return nil, repository.ErrConnectionNotFound
	}
	return &c, nil
}

func (f *fakeConnections) Delete(_ context.Context, connectionID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.connections, connectionID)
	return nil
}

func (f *fakeConnections) FindLive(_ context.Context, q repository.LiveQuery) ([]livechat.Connection, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []livechat.Connection
	for _, c := range f.s.connections {
		staffMatch := c.UserID != nil && c.TeamID != nil && *c.TeamID == q.TeamID
		attendeeMatch := c.AttendeeID != nil && *c.AttendeeID == q.AttendeeID &&
			c.SetID != nil && *c.SetID == q.SetID
		if staffMatch || attendeeMatch {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnectionID < out[j].ConnectionID })
	return out, nil
}

type fakeConversations struct{ s *state }

func (f *fakeConversations) FindInTeam(_ context.Context, id, teamID string) (*livechat.Conversation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.conversations[id]
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	if set, ok := f.s.sets[c.SetID]; !ok || set.TeamID != teamID {
		return nil, repository.ErrConversationNotFound
	}
	return &c, nil
}

func (f *fakeConversations) FindForAttendee(_ context.Context, key livechat.AttendeeKey) (*livechat.Conversation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.attendeeByKeyLocked(key)
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	for _, c := range f.s.conversations {
		if c.AttendeeID == a.ID {
			return &c, nil
		}
	}
	return nil, repository.ErrConversationNotFound
}

func (f *fakeConversations) attendeeByKeyLocked(key livechat.AttendeeKey) (livechat.Attendee, bool) {
	for _, a := range f.s.attendees {
		if a.VisitorID == key.VisitorID && a.SetID == key.SetID && a.StartTime.Equal(key.StartTime) {
			return a, true
		}
	}
	return livechat.Attendee{}, false
}

func (f *fakeConversations) Create(_ context.Context, c *livechat.Conversation) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.conversations {
		if existing.AttendeeID == c.AttendeeID {
			return repository.ErrConversationExists
		}
	}
	f.s.conversations[c.ID] = *c
	return nil
}

func (f *fakeConversations) TouchOnPost(_ context.Context, id string, sortDate time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.conversations[id]
	if !ok {
		return repository.ErrConversationNotFound
	}
	c.SortDate = sortDate
	c.IsArchived = false
	f.s.conversations[id] = c
	return nil
}

func (f *fakeConversations) SetLastReadAt(_ context.Context, id string, t time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.conversations[id]
	if !ok {
		return repository.ErrConversationNotFound
	}
	c.LastReadAt = &t
	f.s.conversations[id] = c
	return nil
}

func (f *fakeConversations) SetArchived(_ context.Context, id string, archived bool) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.conversations[id]
	if !ok {
		return repository.ErrConversationNotFound
	}
	c.IsArchived = archived
	f.s.conversations[id] = c
	return nil
}

func (f *fakeConversations) ListForTeam(_ context.Context, teamID string, filters livechat.ConversationFilters) ([]livechat.ConversationListItem, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []livechat.ConversationListItem
	for _, c := range f.s.conversations {
		set, ok := f.s.sets[c.SetID]
		if !ok || set.TeamID != teamID {
			continue
		}
		switch filters.Type {
		case livechat.FilterArchived:
			if !c.IsArchived {
				continue
			}
		case livechat.FilterUnread:
			if !c.HasUnreadMessages() {
				continue
			}
		default:
			if c.IsArchived {
				continue
			}
		}
		item := livechat.ConversationListItem{
			Conversation: c,
			Attendee:     f.s.attendees[c.AttendeeID],
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Conversation.SortDate.After(out[j].Conversation.SortDate)
	})
	return out, nil
}

type fakeMessages struct{ s *state }

func (f *fakeMessages) Save(_ context.Context, m *livechat.Message) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.messages = append(f.s.messages, *m)
	return nil
}

func (f *fakeMessages) inConversationLocked(conversationID string) []livechat.Message {
	var out []livechat.Message
	for _, m := range f.s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessages) ListInConversation(_ context.Context, conversationID string) ([]livechat.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := f.inConversationLocked(conversationID)
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSent.Before(out[j].TimeSent) })
	return out, nil
}

func (f *fakeMessages) ListRecent(_ context.Context, conversationID string, limit int) ([]livechat.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := f.inConversationLocked(conversationID)
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSent.After(out[j].TimeSent) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessages) LastInConversation(_ context.Context, conversationID string) (*livechat.Message, error) {
	recent, _ := f.ListRecent(context.Background(), conversationID, 1)
	if len(recent) == 0 {
		return nil, nil
	}
	return &recent[0], nil
}

func (f *fakeMessages) ListForAttendee(_ context.Context, setID, attendeeID string) ([]livechat.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var convIDs []string
	for id, c := range f.s.conversations {
		if c.SetID == setID && c.AttendeeID == attendeeID {
			convIDs = append(convIDs, id)
		}
	}
	var out []livechat.Message
	for _, m := range f.s.messages {
		for _, id := range convIDs {
			if m.ConversationID == id {
				out = append(out, m)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSent.Before(out[j].TimeSent) })
	return out, nil
}

type fakeDirectory struct{ s *state }

func (f *fakeDirectory) FindAttendeeByKey(_ context.Context, key livechat.AttendeeKey) (*livechat.Attendee, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, a := range f.s.attendees {
		if a.VisitorID == key.VisitorID && a.SetID == key.SetID && a.StartTime.Equal(key.StartTime) {
			a := a
			return &a, nil
		}
	}
	return nil, repository.ErrAttendeeNotFound
}

func (f *fakeDirectory) FindAttendeeByID(_ context.Context, id string) (*livechat.Attendee, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.attendees[id]
	if !ok {
		return nil, repository.ErrAttendeeNotFound
	}
	return &a, nil
}

func (f *fakeDirectory) FindUser(_ context.Context, id string) (*livechat.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeDirectory) FindTeam(_ context.Context, id string) (*livechat.Team, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.teams[id]
	if !ok {
		return nil, repository.ErrTeamNotFound
	}
	return &t, nil
}

func (f *fakeDirectory) FindWebinar(_ context.Context, id string) (*livechat.Webinar, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	w, ok := f.s.webinars[id]
	if !ok {
		return nil, repository.ErrWebinarNotFound
	}
	return &w, nil
}

func (f *fakeDirectory) FindSet(_ context.Context, id string) (*livechat.WebinarSet, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	set, ok := f.s.sets[id]
	if !ok {
		return nil, repository.ErrSetNotFound
	}
	return &set, nil
}

// fakeTx hands the same fakes to the callback; the fakes are individually
// atomic, which is all the pipeline tests rely on.
type fakeTx struct{ s *state }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	return fn(ctx, f.s.repos())
}

// fakeQueue records enqueued tasks.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (f *fakeQueue) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
	if len(opts) > 0 {
		f.opts = append(f.opts, opts[0])
	} else {
		f.opts = append(f.opts, qport.EnqueueOption{})
	}
	return "task-id", nil
}

func (f *fakeQueue) Close() error { return nil }

// fakeTransport records deliveries and reports configured connections gone.
type fakeTransport struct {
	mu        sync.Mutex
	delivered map[string][][]byte
	gone      map[string]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{delivered: make(map[string][][]byte), gone: make(map[string]bool)}
}

func (f *fakeTransport) Deliver(_ context.Context, connectionID string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone[connectionID] {
		return ErrConnectionGone
	}
	f.delivered[connectionID] = append(f.delivered[connectionID], payload)
	return nil
}

func (f *fakeTransport) deliveries(connectionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered[connectionID])
}

// fakeVerifier returns a fixed identity.
type fakeVerifier struct {
	ident livechat.StaffIdentity
	err   error
}

func (f *fakeVerifier) Verify(string) (livechat.StaffIdentity, error) {
	return f.ident, f.err
}
