package assistant

import (
	"context"
	"fmt"
	"strings"

	"heavyhaul-assistant/internal/llm"
)

const permitSystemPrompt = "You are a helpful assistant that answers questions about permit information. " +
	"Response should be short and to the point. " +
	"When listing information in bullet points, end each point with a period. " +
	"For example:\n" +
	"- First point: value.\n" +
	"- Second point: another value.\n"

// statePermitInfo fetches the permit details for one state of an order.
func (a *App) statePermitInfo(ctx context.Context, orderID int, stateName string) map[string]interface{} {
	doc, err := a.store.OrderByID(ctx, orderID)
	if err != nil {
		a.logger.Errorf("Error fetching order %d for permits: %v", orderID, err)
		return nil
	}
	for _, route := range doc.Order.Routes {
		if strings.EqualFold(route.StateName, stateName) && len(route.PermitInfo) > 0 {
			return route.PermitInfo
		}
	}
	return nil
}

// permitLoop runs the per-state permit Q&A until the user switches systems.
func (a *App) permitLoop(ctx context.Context, orderID int) (Intent, error) {
	var currentState string
	var currentPermitInfo map[string]interface{}

	if err := a.tts.Speak(ctx, "What would you like to know about permits?"); err != nil {
		return IntentOrderQuery, err
	}

	for {
		query, err := a.recognizer.Listen(ctx)
		if err != nil {
			return IntentOrderQuery, err
		}
		if query == "" {
			continue
		}

		lower := strings.ToLower(query)
		if containsAny(lower, orderSwitchKeywords) {
			a.tts.Speak(ctx, "Switching back to order system")
			return IntentOrderQuery, nil
		}
		if containsAny(lower, provisionKeywords) {
			return IntentProvision, nil
		}
		if lower == "exit" {
			return IntentOrderQuery, errExit
		}

		if newState := ExtractStateName(query); newState != "" && newState != currentState {
			info := a.statePermitInfo(ctx, orderID, newState)
			if info == nil {
				a.tts.Speak(ctx, fmt.Sprintf("No permit information found for %s.", newState))
				continue
			}
			currentState = newState
			currentPermitInfo = info
			a.tts.Speak(ctx, fmt.Sprintf("Switching to %s permit information.", currentState))
		}

		if currentState == "" {
			a.tts.Speak(ctx, "Please specify a state first.")
			continue
		}

		messages := []llm.Message{
			{Role: "system", Content: fmt.Sprintf("%sHere is the permit information for %s: %v",
				permitSystemPrompt, currentState, currentPermitInfo)},
			{Role: "user", Content: query},
		}

		answer, err := a.chat.CompleteFast(ctx, messages)
		if err != nil {
			a.logger.Errorf("Error generating permit response: %v", err)
			a.tts.Speak(ctx, "Sorry, I couldn't answer that permit question.")
			continue
		}
		if err := a.responder.speakSentences(ctx, answer); err != nil {
			return IntentOrderQuery, err
		}
		a.sess.Conversation.Save(query, answer)
	}
}
