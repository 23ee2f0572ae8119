package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"heavyhaul-assistant/internal/db"
	"heavyhaul-assistant/internal/llm"
)

// stateLoop runs the state provision Q&A until the user switches systems.
// The triggering query is answered first, then the loop listens for more.
func (a *App) stateLoop(ctx context.Context, query string) (Intent, error) {
	var currentState string

	for {
		if query == "" {
			q, err := a.recognizer.Listen(ctx)
			if err != nil {
				return IntentOrderQuery, err
			}
			query = q
		}

		lower := strings.ToLower(query)
		if lower == "quit" || lower == "exit" || lower == "" {
			return IntentProvision, nil
		}
		if containsAny(lower, orderSwitchKeywords) {
			a.tts.Speak(ctx, "Switching back to order system...")
			return IntentOrderQuery, nil
		}
		if containsAny(lower, permitSwitchKeywords) {
			return IntentPermit, nil
		}

		if state := ExtractStateName(query); state != "" {
			currentState = state
		}
		if currentState == "" {
			a.tts.Speak(ctx, "Please mention a valid state name in your question.")
			query = ""
			continue
		}

		info, err := a.store.StateInfo(ctx, currentState)
		if errors.Is(err, db.ErrStateNotFound) {
			a.tts.Speak(ctx, "State not found in database. Please try another state.")
			currentState = ""
			query = ""
			continue
		}
		if err != nil {
			a.logger.Errorf("Error fetching state info: %v", err)
			a.tts.Speak(ctx, "Sorry, I couldn't look up that state right now.")
			query = ""
			continue
		}

		prompt := fmt.Sprintf(
			"Based on this information about %s: State Information: %v\n\n"+
				"Question: %s\n(Response should be short, relevant to the question).",
			currentState, info, query,
		)

		a.tts.Speak(ctx, "Let me check that information for you.")

		answer, err := a.chat.CompleteFast(ctx, []llm.Message{{Role: "user", Content: prompt}})
		if err != nil {
			a.logger.Errorf("Error generating state response: %v", err)
			a.tts.Speak(ctx, "Sorry, I couldn't answer that question.")
			query = ""
			continue
		}
		if err := a.responder.speakSentences(ctx, answer); err != nil {
			return IntentOrderQuery, err
		}
		a.sess.Conversation.Save(query, answer)
		query = ""
	}
}
