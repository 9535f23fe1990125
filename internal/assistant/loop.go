package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/llm"
	"github.com/fullydoved/mealz/internal/repo"
)

const (
	// historyWindow bounds how much of the stored conversation is replayed
	// to the completion service; storage itself is never truncated.
	historyWindow = 20

	// textChunkRunes is the emission granularity for text blocks. The
	// upstream call is not token-streamed, so chunking is purely for
	// perceived responsiveness.
	textChunkRunes = 20

	defaultMaxRounds = 8
)

// ErrSessionNotFound is returned by Run for an unknown session ID.
var ErrSessionNotFound = errors.New("chat session not found")

// ErrEmptyMessage is returned by Run for a blank user message.
var ErrEmptyMessage = errors.New("message must not be empty")

// Loop drives one assistant turn: it persists the user message, exchanges
// rounds with the completion service, executes requested tools, and emits
// the resulting event stream.
type Loop struct {
	DB        *gorm.DB
	Completer llm.Completer
	Executor  *Executor

	// MaxRounds caps the tool-use rounds per turn; zero means the default.
	MaxRounds int

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// Run processes one inbound user message, emitting events as they are
// produced. Exactly one done event is emitted, always last, including on
// upstream failure. The returned error reports what went wrong for logging;
// by the time it is returned, the stream has already been terminated.
func (l *Loop) Run(ctx context.Context, sessionID uint, userMessage string, emit Emitter) error {
	tr := otel.Tracer("assistant/Loop")
	ctx, span := tr.Start(ctx, "Run",
		trace.WithAttributes(attribute.Int("session.id", int(sessionID))),
	)
	defer span.End()

	if strings.TrimSpace(userMessage) == "" {
		return ErrEmptyMessage
	}
	session, err := repo.GetChatSession(ctx, l.DB, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	// The user message is durable regardless of what the turn produces.
	if _, err := repo.CreateChatMessage(ctx, l.DB, session.ID, domain.RoleUser, userMessage); err != nil {
		return err
	}

	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	system, err := buildSystem(ctx, l.DB, session, now)
	if err != nil {
		return err
	}

	recent, err := repo.RecentChatMessages(ctx, l.DB, session.ID, historyWindow)
	if err != nil {
		return err
	}
	messages := make([]llm.Message, 0, len(recent))
	for _, msg := range recent {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: []llm.ContentBlock{llm.TextBlock(msg.Content)},
		})
	}

	maxRounds := l.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}

	var finalText strings.Builder
	defer func() {
		if finalText.Len() > 0 {
			if _, err := repo.CreateChatMessage(ctx, l.DB, session.ID, domain.RoleAssistant, finalText.String()); err != nil {
				log.Error().Err(err).Uint("session_id", session.ID).Msg("persist assistant message")
			}
		}
		emit(Event{Type: EventDone})
	}()

	for round := 0; round < maxRounds; round++ {
		resp, err := l.Completer.Complete(ctx, system, messages, Tools())
		if err != nil {
			log.Error().Err(err).Uint("session_id", session.ID).Msg("completion round failed")
			emit(Event{Type: EventError, Error: "assistant is temporarily unavailable"})
			return err
		}

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				finalText.WriteString(block.Text)
				for _, chunk := range chunkText(block.Text, textChunkRunes) {
					emit(Event{Type: EventText, Content: chunk})
				}
			case "tool_use":
				emit(Event{Type: EventToolStart, Tool: block.Name, Label: toolLabel(block.Name)})
			}
		}

		if resp.StopReason != "tool_use" {
			return nil
		}

		var results []llm.ContentBlock
		for _, block := range resp.Content {
			if block.Type != "tool_use" {
				continue
			}
			result, err := l.Executor.Execute(ctx, block.Name, block.Input)
			if err != nil {
				// A failed tool never ends the turn.
				log.Warn().Err(err).Str("tool", block.Name).Uint("session_id", session.ID).Msg("tool execution failed")
				payload, _ := json.Marshal(map[string]string{"error": err.Error()})
				results = append(results, llm.ContentBlock{
					Type:      "tool_result",
					ToolUseID: block.ID,
					Content:   string(payload),
					IsError:   true,
				})
				emit(Event{Type: EventToolError, Tool: block.Name, Error: err.Error()})
				continue
			}
			payload, merr := json.Marshal(result)
			if merr != nil {
				payload = []byte("{}")
			}
			results = append(results, llm.ContentBlock{
				Type:      "tool_result",
				ToolUseID: block.ID,
				Content:   string(payload),
			})
			emit(Event{Type: EventToolDone, Tool: block.Name, Result: result})
		}

		messages = append(messages,
			llm.Message{Role: domain.RoleAssistant, Content: resp.Content},
			llm.Message{Role: domain.RoleUser, Content: results},
		)
	}

	log.Warn().Uint("session_id", session.ID).Int("max_rounds", maxRounds).Msg("tool loop hit round cap")
	return nil
}

// chunkText splits s into rune-bounded chunks of at most n runes.
func chunkText(s string, n int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+n-1)/n)
	for start := 0; start < len(runes); start += n {
		end := start + n
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
