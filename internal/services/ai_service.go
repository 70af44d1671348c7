// Package services – AIService
//
// This file implements AIService, the application-level component behind
// the assistant chat surface. It validates prompts, builds the role-tagged
// history from stored messages, calls the injected completion provider, and
// persists the user/assistant exchange atomically. A conversation is
// created lazily on the first prompt with an auto-generated title.
//
// The provider is injected at construction time together with its settings;
// nothing reads provider configuration lazily at request time.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/teamchat/go-team-chat/internal/ai"
	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/repo"
)

// ErrAIConversationNotFound indicates that the requested assistant
// conversation does not exist or is not owned by the current user.
var ErrAIConversationNotFound = errors.New("conversation not found")

// TopicSource resolves optional topic context sent to the provider as the
// system instruction. A nil source means conversations carry no topic.
type TopicSource interface {
	Content(ctx context.Context, topicID int64) (string, error)
}

// AIExchange is the persisted outcome of one Ask call.
type AIExchange struct {
	ConversationID int64                  `json:"conversation_id"`
	Title          string                 `json:"title"`
	UserMessage    *domain.AIMessage      `json:"user_message"`
	Reply          *domain.AIMessage      `json:"reply"`
	Conversation   *domain.AIConversation `json:"-"`
}

// AIService coordinates assistant conversations and provider calls.
type AIService struct {
	DB       *gorm.DB
	Provider ai.Provider
	Topics   TopicSource

	// TitleMaxLen caps auto-generated titles by rune length.
	TitleMaxLen int
	// TitleLocale drives title casing.
	TitleLocale language.Tag
}

// NewAIService constructs an AIService with sane defaults for title
// handling.
func NewAIService(db *gorm.DB, provider ai.Provider) *AIService {
	return &AIService{
		DB:          db,
		Provider:    provider,
		TitleMaxLen: 60,
		TitleLocale: language.Und,
	}
}

// Ask sends a prompt to the provider inside the given conversation and
// persists both sides of the exchange in one transaction. conversationID=0
// creates a new conversation titled from the prompt; topicID is only
// honored at creation time.
func (s *AIService) Ask(ctx context.Context, userID, conversationID, topicID int64, prompt string) (*AIExchange, error) {
	tr := otel.Tracer("services/AIService")
	ctx, span := tr.Start(ctx, "Ask",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.Int64("conversation.id", conversationID),
		),
	)
	defer span.End()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyMessage
	}
	if s.Provider == nil {
		return nil, ai.ErrNotConfigured
	}

	var (
		conv    *domain.AIConversation
		history []domain.AIMessage
		err     error
	)
	if conversationID != 0 {
		conv, err = repo.GetAIConversation(ctx, s.DB, conversationID, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrAIConversationNotFound
			}
			return nil, err
		}
		history, err = repo.ListAIMessages(ctx, s.DB, conv.ID)
		if err != nil {
			return nil, err
		}
	}

	system := ""
	if s.Topics != nil {
		tid := topicID
		if conv != nil {
			tid = conv.TopicID
		}
		if tid != 0 {
			if system, err = s.Topics.Content(ctx, tid); err != nil {
				return nil, err
			}
		}
	}

	msgs := make([]ai.Message, 0, len(history)+1)
	for _, m := range history {
		role := ai.RoleUser
		if m.IsAI {
			role = ai.RoleAssistant
		}
		msgs = append(msgs, ai.Message{Role: role, Content: m.Message})
	}
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: prompt})

	reply, err := s.Provider.Complete(ctx, system, msgs)
	if err != nil {
		return nil, err
	}

	out := &AIExchange{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if conv == nil {
			c, err := repo.CreateAIConversation(ctx, tx, userID, topicID, s.titleFromPrompt(prompt))
			if err != nil {
				return err
			}
			conv = c
		}
		um, err := repo.CreateAIMessage(ctx, tx, conv.ID, userID, prompt, false)
		if err != nil {
			return err
		}
		am, err := repo.CreateAIMessage(ctx, tx, conv.ID, userID, reply, true)
		if err != nil {
			return err
		}
		if err := repo.TouchAIConversation(ctx, tx, conv.ID, am.CreatedAt); err != nil {
			return err
		}
		out.UserMessage = um
		out.Reply = am
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.ConversationID = conv.ID
	out.Title = conv.Title
	out.Conversation = conv
	return out, nil
}

// Conversation returns the conversation and its messages in chronological
// order, enforcing ownership.
func (s *AIService) Conversation(ctx context.Context, id, userID int64) (*domain.AIConversation, []domain.AIMessage, error) {
	conv, err := repo.GetAIConversation(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrAIConversationNotFound
		}
		return nil, nil, err
	}
	msgs, err := repo.ListAIMessages(ctx, s.DB, id)
	if err != nil {
		return nil, nil, err
	}
	return conv, msgs, nil
}

// UserConversations returns the user's conversations, most recently active
// first.
func (s *AIService) UserConversations(ctx context.Context, userID int64) ([]domain.AIConversation, error) {
	return repo.ListAIConversations(ctx, s.DB, userID)
}

// titleFromPrompt derives a short title-cased name from the first prompt.
func (s *AIService) titleFromPrompt(prompt string) string {
	title := strings.Join(strings.Fields(prompt), " ")
	title = strings.TrimRight(title, " .!?")
	if title == "" {
		title = "New conversation"
	}
	title = cases.Title(s.TitleLocale).String(title)
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		title = string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}
