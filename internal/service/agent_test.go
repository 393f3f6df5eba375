package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/config"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type panicGeocoder struct{}

func (panicGeocoder) Resolve(context.Context, string) (model.Coordinates, error) {
	panic("geocoder blew up")
}

type recordingTurns struct {
	entries chan *model.ConversationEntry
}

func (r *recordingTurns) LogTurn(_ context.Context, entry *model.ConversationEntry) error {
	r.entries <- entry
	return nil
}

type agentFixture struct {
	agent  *Agent
	ai     *scriptedAI
	store  *mapStore
	hotels *fakeHotelClient
	clock  *clock.MockClock
}

func newAgentFixture(t *testing.T, replies ...ChatMessage) *agentFixture {
	t.Helper()
	f := &agentFixture{
		ai:    &scriptedAI{replies: replies},
		store: newMapStore(),
		hotels: &fakeHotelClient{hotels: []model.HotelRecord{
			{ID: 1, Name: "Hotel A", City: "Paris", CountryCode: "FR", Coordinates: model.Coordinates{Latitude: 5.5}},
			{ID: 2, Name: "Hotel B", City: "Paris", CountryCode: "FR", Coordinates: model.Coordinates{Latitude: 2.1}},
		}},
		clock: clock.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
	}
	geo := &fakeGeocoder{places: map[string]model.Coordinates{"Paris": {Latitude: 48.8566, Longitude: 2.3522}}}
	search := NewSearchService(f.hotels, geo, &Ranker{distance: latitudeAsDistance}, nil, testSearchConfig, zap.NewNop())
	f.agent = NewAgent(f.ai, search, geo, NewDateParser(f.clock), f.store, nil, f.clock,
		config.AgentConfig{MaxIterations: 5}, testSearchConfig, zap.NewNop())

	_, err := f.store.Create(context.Background())
	require.NoError(t, err)
	return f
}

func (f *agentFixture) stored(t *testing.T) *Session {
	t.Helper()
	s, err := f.store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	return s
}

func assistantCalls(calls ...ToolCall) ChatMessage {
	return ChatMessage{Role: RoleAssistant, ToolCalls: calls}
}

func assistantSays(text string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: text}
}

func TestAgent_ToolsUpdateSession(t *testing.T) {
	f := newAgentFixture(t,
		assistantCalls(
			toolCall("c1", ToolUpdatePreference, `{"updates": "adults=2, rooms=1"}`),
			toolCall("c2", ToolGeocodeLocation, `{"location": "Paris"}`),
		),
		assistantSays("When would you like to check in?"),
	)

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "Paris for 2 adults, one room")
	require.NoError(t, err)
	assert.Equal(t, "When would you like to check in?", resp.Reply)
	assert.False(t, resp.Ready)

	s := f.stored(t)
	require.NotNil(t, s.Preferences.Adults)
	assert.Equal(t, 2, *s.Preferences.Adults)
	require.NotNil(t, s.Preferences.Latitude)
	assert.Equal(t, 48.8566, *s.Preferences.Latitude)

	require.Len(t, s.History, 5)
	assert.Equal(t, RoleUser, s.History[0].Role)
	assert.Len(t, s.History[1].ToolCalls, 2)
	assert.Equal(t, RoleTool, s.History[2].Role)
	assert.Equal(t, "c1", s.History[2].ToolCallID)
	assert.Equal(t, "Updated adults to 2; Updated rooms to 1", s.History[2].Content)
	assert.True(t, strings.HasPrefix(s.History[3].Content, "Coordinates for Paris"))
	assert.Equal(t, "When would you like to check in?", s.History[4].Content)

	// the system prompt carries today's date
	first := f.ai.requests[0].Messages[0]
	assert.Equal(t, RoleSystem, first.Role)
	assert.Contains(t, first.Content, "Today is 2025-03-01.")
	assert.Len(t, f.ai.requests[0].Tools, 6)
}

func TestAgent_ToolErrorsGoBackToModel(t *testing.T) {
	f := newAgentFixture(t,
		assistantCalls(
			toolCall("c1", ToolUpdatePreference, `{"updates": "adults=-1"}`),
			toolCall("c2", ToolGeocodeLocation, `{"location": "Atlantis"}`),
			toolCall("c3", ToolBookHotel, `{}`),
		),
		assistantSays("How many adults?"),
	)

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "-1 adults to Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "How many adults?", resp.Reply)

	s := f.stored(t)
	assert.Nil(t, s.Preferences.Adults)
	assert.Equal(t, "Error: invalid adults value: -1, must be a positive number", s.History[2].Content)
	assert.Equal(t, "Error: could not find coordinates for Atlantis", s.History[3].Content)
	assert.True(t, strings.HasPrefix(s.History[4].Content, "Error: invalid arguments for book_hotel"))
}

func TestAgent_CompletionErrorKeepsSession(t *testing.T) {
	f := newAgentFixture(t, assistantCalls(toolCall("c1", ToolUpdatePreference, `{"updates": "adults=2"}`)))

	// second completion fails because the script is exhausted
	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "two adults")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, resp.Reply)

	s := f.stored(t)
	assert.Nil(t, s.Preferences.Adults)
	assert.Empty(t, s.History)
}

func TestAgent_ToolPanicEndsTurn(t *testing.T) {
	f := newAgentFixture(t,
		assistantCalls(toolCall("c1", ToolGeocodeLocation, `{"location": "Paris"}`)),
		assistantSays("unreachable"),
	)
	f.agent.geocoder = panicGeocoder{}

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "Paris")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, resp.Reply)
	assert.Empty(t, f.stored(t).History)
}

func TestAgent_IterationLimit(t *testing.T) {
	loop := assistantCalls(toolCall("c", ToolGetCurrentDate, `{}`))
	f := newAgentFixture(t, loop, loop, loop)
	f.agent.cfg.MaxIterations = 2

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "what day is it")
	require.NoError(t, err)
	assert.Equal(t, IterationLimitReply, resp.Reply)
	assert.Len(t, f.ai.requests, 2)

	s := f.stored(t)
	assert.Equal(t, "2025-03-01", s.History[2].Content)
	assert.Equal(t, IterationLimitReply, s.History[len(s.History)-1].Content)
}

func TestAgent_SearchAndBook(t *testing.T) {
	f := newAgentFixture(t,
		assistantCalls(toolCall("c1", ToolSearchHotels, `{}`)),
		assistantSays("Here are some hotels."),
		assistantCalls(toolCall("c2", ToolBookHotel, `{"hotel_name": "hotel b"}`)),
		assistantSays("Booked!"),
	)
	s := f.stored(t)
	s.Preferences.SetLocation("Paris", model.Coordinates{Latitude: 48.8566, Longitude: 2.3522})
	_, err := s.Preferences.ApplyUpdates("check_in=2025-03-10, nights=5, adults=2, rooms=1")
	require.NoError(t, err)
	require.NoError(t, f.store.Save(context.Background(), s))

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "find me a hotel")
	require.NoError(t, err)
	assert.Equal(t, "Here are some hotels.", resp.Reply)
	assert.True(t, resp.Ready)

	s = f.stored(t)
	require.Len(t, s.LastResults, 2)
	assert.Equal(t, "Hotel B", s.LastResults[0].Name)
	searchOut := s.History[2].Content
	assert.True(t, strings.HasPrefix(searchOut, "I found 2 hotels in Paris:"))
	assert.Less(t, strings.Index(searchOut, "Hotel B"), strings.Index(searchOut, "Hotel A"))

	require.Len(t, f.hotels.calls, 1)
	assert.Equal(t, "USD", f.hotels.calls[0].Currency)
	assert.Equal(t, 5, f.hotels.calls[0].Nights())

	_, err = f.agent.SendTurn(context.Background(), "sess-1", "book hotel b")
	require.NoError(t, err)

	s = f.stored(t)
	booking := s.History[len(s.History)-2].Content
	assert.True(t, strings.HasPrefix(booking, "Booking confirmed for Hotel B."))
	assert.Contains(t, booking, "Dates: 2025-03-10 to 2025-03-15")
	assert.Contains(t, booking, "Reference: BOK20250301100000")
}

func TestAgent_SearchBeforeReady(t *testing.T) {
	f := newAgentFixture(t,
		assistantCalls(
			toolCall("c1", ToolSearchHotels, `{}`),
			toolCall("c2", ToolBookHotel, `{"hotel_name": "Hotel A"}`),
		),
		assistantSays("I need a few more details."),
	)

	_, err := f.agent.SendTurn(context.Background(), "sess-1", "search now")
	require.NoError(t, err)

	s := f.stored(t)
	assert.Equal(t, "Cannot search yet. Missing information: location coordinates, check-in date, check-out date, number of adults, number of rooms.", s.History[2].Content)
	assert.Equal(t, "Please search for hotels before trying to book.", s.History[3].Content)
	assert.Empty(t, f.hotels.calls)
}

func TestAgent_UpstreamFailureReportsNoHotels(t *testing.T) {
	f := newAgentFixture(t,
		assistantCalls(toolCall("c1", ToolSearchHotels, `{"max_distance_km": 3}`)),
		assistantSays("Nothing found."),
	)
	f.hotels.err = &errs.SearchError{StatusCode: 500, Message: "boom"}
	s := f.stored(t)
	s.Preferences.SetLocation("Paris", model.Coordinates{Latitude: 48.8566, Longitude: 2.3522})
	_, err := s.Preferences.ApplyUpdates("check_in=2025-03-10, check_out=2025-03-12, adults=1, rooms=1")
	require.NoError(t, err)
	require.NoError(t, f.store.Save(context.Background(), s))

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "search")
	require.NoError(t, err)
	assert.Equal(t, "Nothing found.", resp.Reply)
	assert.Equal(t, "No hotels found matching your criteria. Try adjusting your search parameters.", f.stored(t).History[2].Content)
}

func TestAgent_SendTurnErrors(t *testing.T) {
	f := newAgentFixture(t)

	_, err := f.agent.SendTurn(context.Background(), "missing", "hello")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	_, err = f.agent.SendTurn(context.Background(), "sess-1", "   ")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestAgent_SaveFailureFallsBack(t *testing.T) {
	f := newAgentFixture(t, assistantSays("Hello!"))
	f.store.saveErr = errs.New("redis down")

	resp, err := f.agent.SendTurn(context.Background(), "sess-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, resp.Reply)
}

func TestAgent_LogsTurn(t *testing.T) {
	f := newAgentFixture(t, assistantSays("Hello!"))
	turns := &recordingTurns{entries: make(chan *model.ConversationEntry, 2)}
	f.agent.history = turns

	_, err := f.agent.SendTurn(context.Background(), "sess-1", "hi")
	require.NoError(t, err)

	user := <-turns.entries
	reply := <-turns.entries
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "hi", user.Content)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "Hello!", reply.Content)
}

func TestAgent_SessionLifecycle(t *testing.T) {
	f := newAgentFixture(t)

	s, err := f.agent.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s.ID)

	require.NoError(t, f.agent.EndSession(context.Background(), "sess-1"))
	_, err = f.agent.GetSession(context.Background(), "sess-1")
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}
