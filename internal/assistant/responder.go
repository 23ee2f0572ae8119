package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"heavyhaul-assistant/internal/llm"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/models"
	"heavyhaul-assistant/internal/speech"
)

var roleSystemPrompts = map[models.UserRole]string{
	models.RoleDriver: "You are an AI voice assistant for Truck Drivers. " +
		"Provide direct and short answers about order details and driving instructions. " +
		"Answer from the details provided wisely and response should be relevant to the query.",
	models.RoleClient: "You are an AI assistant for Clients. " +
		"Provide direct and short answers about order status and details. " +
		"Answer from the details provided wisely and response should be relevant to the query.",
	models.RoleAdmin: "You are an AI assistant for Administrators. " +
		"Provide comprehensive information about orders and system details. " +
		"Answer from the details provided wisely and response should be relevant to the query.",
}

// ChatStreamer is the LLM surface the responder needs.
type ChatStreamer interface {
	Stream(ctx context.Context, messages []llm.Message, onChunk func(string) error) error
	CompleteFast(ctx context.Context, messages []llm.Message) (string, error)
}

// OrderSource provides order lookups for context resolution and detail
// fetching.
type OrderSource interface {
	OrderChecker
	OrderByID(ctx context.Context, id int) (*models.OrderDocument, error)
}

// Responder answers order queries by resolving context, fetching details, and
// streaming an LLM answer sentence by sentence to the synthesizer.
type Responder struct {
	store  OrderSource
	chat   ChatStreamer
	tts    speech.Synthesizer
	logger *logging.Logger
}

func NewResponder(store OrderSource, chat ChatStreamer, tts speech.Synthesizer, logger *logging.Logger) *Responder {
	return &Responder{store: store, chat: chat, tts: tts, logger: logger}
}

// RespondOrderQuery generates and speaks an answer about the resolved order.
// The returned string is empty on success (the answer was already spoken) or
// carries an error message for the caller to deliver.
func (r *Responder) RespondOrderQuery(ctx context.Context, sess *Session, query string) string {
	shouldSwitch, orderIDs, explanation := ResolveOrderContext(ctx, r.store, query, sess.CurrentOrderID(), sess.User)

	if shouldSwitch || sess.CurrentOrderID() == 0 {
		if len(orderIDs) > 0 {
			newID := orderIDs[0]

			if cached, cachedExplanation := sess.Cache.Load(newID, sess.User.Role); cached != nil {
				sess.currentOrderID = newID
				sess.currentDoc = cached
				sess.explanation = cachedExplanation
			} else {
				doc, err := r.store.OrderByID(ctx, newID)
				if err != nil {
					r.logger.Errorf("Error fetching order %d: %v", newID, err)
					return "Sorry, couldn't fetch order details from the database."
				}
				sess.SetCurrentOrder(doc, explanation)
			}
		}
	}

	if sess.CurrentOrder() == nil {
		if explanation != "" {
			return explanation
		}
		return "Sorry, no order details are currently available."
	}

	details, err := json.MarshalIndent(sess.CurrentOrder(), "", "  ")
	if err != nil {
		r.logger.Errorf("Error encoding order details: %v", err)
		return "Sorry, I encountered an error while processing your request."
	}

	sysPrompt, ok := roleSystemPrompts[sess.User.Role]
	if !ok {
		sysPrompt = roleSystemPrompts[models.RoleAdmin]
	}

	userMessage := fmt.Sprintf(
		"Query: %s, Order Selection: %s, Available Order Details: %s, "+
			"Provide a direct and short answer using only the information "+
			"from the specified order. Put '.' at last if a sentence.",
		query, sess.Explanation(), string(details),
	)

	messages := []llm.Message{
		{Role: "system", Content: sysPrompt},
		{Role: "user", Content: userMessage},
	}

	response, err := r.streamSpoken(ctx, messages)
	if err != nil {
		r.logger.Errorf("Error generating response: %v", err)
		return "Sorry, I encountered an error while processing your request."
	}
	sess.Conversation.Save(query, response)
	return ""
}

// streamSpoken streams an LLM response, flushing complete sentences to the
// synthesizer as they arrive. A period directly after a digit does not end a
// sentence (decimal numbers, order IDs).
func (r *Responder) streamSpoken(ctx context.Context, messages []llm.Message) (string, error) {
	var response, buffer strings.Builder

	err := r.chat.Stream(ctx, messages, func(chunk string) error {
		response.WriteString(chunk)
		buffer.WriteString(chunk)

		buf := buffer.String()
		if strings.HasSuffix(buf, ".") || strings.HasSuffix(buf, ":") {
			if strings.HasSuffix(buf, ".") && len(buf) > 1 && isDigit(buf[len(buf)-2]) {
				return nil
			}
			if err := r.tts.Speak(ctx, buf); err != nil {
				return err
			}
			buffer.Reset()
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if remainder := strings.TrimSpace(buffer.String()); remainder != "" {
		if err := r.tts.Speak(ctx, remainder); err != nil {
			return "", err
		}
	}
	return response.String(), nil
}

// speakSentences splits a complete response into sentences and speaks each.
func (r *Responder) speakSentences(ctx context.Context, text string) error {
	for _, sentence := range splitSentences(text) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if err := r.tts.Speak(ctx, sentence); err != nil {
			return err
		}
	}
	return nil
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') &&
			!(text[i] == '.' && i > 0 && isDigit(text[i-1])) {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
