package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/config"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/metrics"
	"hotelsearch/internal/model"

	"go.uber.org/zap"
)

// Fixed replies
const (
	FallbackReply       = "Sorry, I encountered an error. Let's try that again."
	IterationLimitReply = "I'm having trouble finishing that request. Could you tell me again what you'd like to do?"
)

const maxHistoryMessages = 60

const systemPrompt = `You are a hotel booking assistant.

Your job is to help the user find and book a hotel. Before searching you must know the city, the check-in and check-out dates (or check-in and number of nights), the number of adults and the number of rooms.

Rules:
- Ask for one missing piece of information at a time, unless the user gives several at once.
- Whenever the user gives a detail, store it with update_preference before doing anything else.
- When the user names a city or place, call geocode_location so its coordinates are stored.
- Use get_current_date and parse_date for relative dates such as "tomorrow" or "next weekend". Store dates as YYYY-MM-DD.
- Only call search_hotels once all required details are stored.
- Only call book_hotel for a hotel that appeared in the latest search results.
- Never invent hotels, prices, ratings or availability. Only report what the tools return.
- Keep replies short and friendly.`

// TurnLogger records conversation messages. Implemented by the Postgres repository.
type TurnLogger interface {
	LogTurn(ctx context.Context, entry *model.ConversationEntry) error
}

// Agent drives one conversation turn at a time: it sends the transcript to the
// language model, executes the tools it asks for and returns the final reply.
type Agent struct {
	ai        AIClient
	search    *SearchService
	geocoder  Geocoder
	dates     *DateParser
	store     SessionStore
	history   TurnLogger
	clock     clock.Clock
	cfg       config.AgentConfig
	searchCfg config.SearchConfig
	logger    *zap.Logger
}

// NewAgent creates a conversational agent. history may be nil.
func NewAgent(
	ai AIClient,
	search *SearchService,
	geocoder Geocoder,
	dates *DateParser,
	store SessionStore,
	history TurnLogger,
	clk clock.Clock,
	cfg config.AgentConfig,
	searchCfg config.SearchConfig,
	logger *zap.Logger,
) *Agent {
	return &Agent{
		ai:        ai,
		search:    search,
		geocoder:  geocoder,
		dates:     dates,
		store:     store,
		history:   history,
		clock:     clk,
		cfg:       cfg,
		searchCfg: searchCfg,
		logger:    logger,
	}
}

// StartSession creates a new empty conversation
func (a *Agent) StartSession(ctx context.Context) (*Session, error) {
	return a.store.Create(ctx)
}

// GetSession returns a conversation by id
func (a *Agent) GetSession(ctx context.Context, id string) (*Session, error) {
	return a.store.Load(ctx, id)
}

// EndSession deletes a conversation
func (a *Agent) EndSession(ctx context.Context, id string) error {
	return a.store.Delete(ctx, id)
}

// SendTurn processes one user utterance. Only an unknown session is returned as
// an error; any other failure yields FallbackReply and leaves the stored session
// as it was before the turn.
func (a *Agent) SendTurn(ctx context.Context, sessionID, text string) (*model.ChatResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.Validation("message must not be empty")
	}

	sess, err := a.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log := a.logger.With(zap.String("session_id", sessionID))
	reply, working, err := a.runTurn(ctx, sess, text, log)
	if err != nil {
		metrics.AgentTurns.WithLabelValues("error").Inc()
		log.Error("turn failed", zap.Error(err))
		return &model.ChatResponse{
			SessionID: sessionID,
			Reply:     FallbackReply,
			Ready:     sess.Preferences.IsReadyForSearch(),
		}, nil
	}

	working.History = trimHistory(working.History, maxHistoryMessages)
	working.UpdatedAt = a.clock.Now()
	if err := a.store.Save(ctx, working); err != nil {
		metrics.AgentTurns.WithLabelValues("error").Inc()
		log.Error("failed to save session", zap.Error(err))
		return &model.ChatResponse{
			SessionID: sessionID,
			Reply:     FallbackReply,
			Ready:     sess.Preferences.IsReadyForSearch(),
		}, nil
	}

	metrics.AgentTurns.WithLabelValues("ok").Inc()
	a.logTurn(sessionID, text, reply)

	return &model.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Ready:     working.Preferences.IsReadyForSearch(),
	}, nil
}

// runTurn works on a copy of sess and returns the copy only when the turn completes
func (a *Agent) runTurn(ctx context.Context, sess *Session, text string, log *zap.Logger) (reply string, working *Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Mark(errs.Newf("panic during turn: %v", r), errs.ErrToolExecution)
		}
	}()

	working, err = sess.Clone()
	if err != nil {
		return "", nil, errs.Wrap(err, "clone session")
	}
	working.History = append(working.History, ChatMessage{Role: RoleUser, Content: text})

	tools := ToolDefinitions()
	for i := 0; i < a.cfg.MaxIterations; i++ {
		resp, err := a.ai.ChatCompletion(ctx, ChatCompletionRequest{
			Messages: a.transcript(working),
			Tools:    tools,
		})
		if err != nil {
			return "", nil, errs.Wrap(err, "chat completion")
		}
		if len(resp.Choices) == 0 {
			return "", nil, errs.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		msg.Role = RoleAssistant
		if len(msg.ToolCalls) == 0 {
			working.History = append(working.History, msg)
			return msg.Content, working, nil
		}

		working.History = append(working.History, msg)
		for _, call := range msg.ToolCalls {
			content, err := a.dispatch(ctx, working, call, log)
			if err != nil {
				return "", nil, err
			}
			working.History = append(working.History, ChatMessage{
				Role:       RoleTool,
				ToolCallID: call.ID,
				Content:    content,
			})
		}
	}

	log.Warn("tool iteration limit reached", zap.Int("max_iterations", a.cfg.MaxIterations))
	working.History = append(working.History, ChatMessage{Role: RoleAssistant, Content: IterationLimitReply})
	return IterationLimitReply, working, nil
}

func (a *Agent) transcript(sess *Session) []ChatMessage {
	messages := make([]ChatMessage, 0, len(sess.History)+1)
	prompt := systemPrompt + "\n\nToday is " + a.clock.Now().Format(model.DateLayout) + "."
	messages = append(messages, ChatMessage{Role: RoleSystem, Content: prompt})
	return append(messages, sess.History...)
}

// dispatch validates and runs one tool call. Validation and not-found problems
// go back to the model as text; anything else is a ToolExecutionError that ends the turn.
func (a *Agent) dispatch(ctx context.Context, sess *Session, call ToolCall, log *zap.Logger) (string, error) {
	args, err := DecodeToolCall(call)
	if err != nil {
		metrics.AgentToolCalls.WithLabelValues(call.Function.Name, "invalid").Inc()
		log.Warn("rejected tool call", zap.String("tool", call.Function.Name), zap.Error(err))
		return "Error: " + err.Error(), nil
	}
	kind := string(args.Kind())

	out, err := a.execute(ctx, sess, args)
	switch {
	case err == nil:
		metrics.AgentToolCalls.WithLabelValues(kind, "ok").Inc()
		log.Debug("tool call", zap.String("tool", kind), zap.String("arguments", call.Function.Arguments))
		return out, nil
	case errs.Is(err, errs.ErrValidation), errs.Is(err, errs.ErrNotFound):
		metrics.AgentToolCalls.WithLabelValues(kind, "rejected").Inc()
		log.Info("tool call rejected", zap.String("tool", kind), zap.Error(err))
		return "Error: " + err.Error(), nil
	default:
		metrics.AgentToolCalls.WithLabelValues(kind, "error").Inc()
		return "", errs.Mark(errs.Wrapf(err, "tool %s", kind), errs.ErrToolExecution)
	}
}

func (a *Agent) execute(ctx context.Context, sess *Session, args ToolArgs) (string, error) {
	prefs := sess.Preferences

	switch in := args.(type) {
	case UpdatePreferenceArgs:
		return prefs.ApplyUpdates(in.Updates)

	case GeocodeLocationArgs:
		coords, err := a.geocoder.Resolve(ctx, in.Location)
		if err != nil {
			return "", errs.NotFound("could not find coordinates for %s", in.Location)
		}
		prefs.SetLocation(in.Location, coords)
		return fmt.Sprintf("Coordinates for %s: %.4f, %.4f (saved as the search location)",
			in.Location, coords.Latitude, coords.Longitude), nil

	case ParseDateArgs:
		d, err := a.dates.Parse(in.Expression)
		if err != nil {
			return "", err
		}
		return d.Format(model.DateLayout), nil

	case GetCurrentDateArgs:
		return a.dates.Today().Format(model.DateLayout), nil

	case SearchHotelsArgs:
		return a.searchHotels(ctx, sess, in)

	case BookHotelArgs:
		if len(sess.LastResults) == 0 {
			return "Please search for hotels before trying to book.", nil
		}
		hotel, ok := findHotel(sess.LastResults, in.HotelName)
		if !ok {
			return "", errs.NotFound("no hotel named %q in the latest search results", in.HotelName)
		}
		return formatBooking(newBookingConfirmation(hotel, prefs, a.clock.Now())), nil
	}

	return "", errs.Newf("unhandled tool %T", args)
}

func (a *Agent) searchHotels(ctx context.Context, sess *Session, in SearchHotelsArgs) (string, error) {
	prefs := sess.Preferences
	if !prefs.IsReadyForSearch() {
		return fmt.Sprintf("Cannot search yet. Missing information: %s.", strings.Join(prefs.Missing(), ", ")), nil
	}
	criteria, err := prefs.Criteria(a.searchCfg.DefaultCurrency)
	if err != nil {
		return "", err
	}

	maxKm := a.searchCfg.DefaultMaxDistanceKm
	if in.MaxDistanceKm != nil {
		maxKm = *in.MaxDistanceKm
	}

	searchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	results := a.search.Run(searchCtx, criteria, maxKm)
	sess.LastResults = results

	if len(results) == 0 {
		return "No hotels found matching your criteria. Try adjusting your search parameters.", nil
	}
	return formatResults(results, prefs, a.searchCfg.AgentResultLimit), nil
}

func formatResults(results []model.RankedHotelRecord, prefs *PreferenceState, limit int) string {
	area := "the area"
	if prefs.City != nil && *prefs.City != "" {
		area = *prefs.City
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d hotels in %s:\n\n", len(results), area)
	for i, h := range results {
		if i == limit {
			break
		}
		rating := "N/A"
		if h.ReviewScore != nil {
			rating = fmt.Sprintf("%.1f", *h.ReviewScore)
		}
		fmt.Fprintf(&b, "%d. **%s**\n   Price: %s\n   Rating: %s/10\n   Distance: %.2f km from center\n\n",
			i+1, h.Name, h.Price, rating, h.DistanceKm)
	}
	b.WriteString("Would you like to book one of these hotels or see more options?")
	return b.String()
}

// logTurn stores the user message and the final reply without blocking the turn
func (a *Agent) logTurn(sessionID, userText, reply string) {
	if a.history == nil {
		return
	}
	now := a.clock.Now()
	entries := []*model.ConversationEntry{
		{SessionID: sessionID, Role: RoleUser, Content: userText, CreatedAt: now},
		{SessionID: sessionID, Role: RoleAssistant, Content: reply, CreatedAt: now},
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, e := range entries {
			if err := a.history.LogTurn(ctx, e); err != nil {
				a.logger.Warn("failed to log conversation turn", zap.String("session_id", sessionID), zap.Error(err))
				return
			}
		}
	}()
}
