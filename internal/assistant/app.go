package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/monitor"
	"heavyhaul-assistant/internal/speech"
	"heavyhaul-assistant/internal/weather"
)

// errExit signals a user-requested shutdown of the interactive loop.
var errExit = errors.New("exit requested")

// Store is the database surface the assistant uses.
type Store interface {
	OrderSource
	StateInfo(ctx context.Context, stateName string) (map[string]interface{}, error)
}

// App is the interactive voice assistant loop: wake word handling, command
// routing, and proactive alert delivery between interactions.
type App struct {
	store      Store
	chat       ChatStreamer
	weather    *weather.Client
	monitor    *monitor.Monitor
	responder  *Responder
	sess       *Session
	recognizer speech.Recognizer
	tts        speech.Synthesizer
	logger     *logging.Logger

	wakeWords          []string
	proactiveEnabled   bool
	alertCheckInterval time.Duration

	now func() time.Time
}

func NewApp(cfg config.Config, store Store, chat ChatStreamer, wc *weather.Client, mon *monitor.Monitor, sess *Session, recognizer speech.Recognizer, tts speech.Synthesizer, logger *logging.Logger) *App {
	return &App{
		store:              store,
		chat:               chat,
		weather:            wc,
		monitor:            mon,
		responder:          NewResponder(store, chat, tts, logger),
		sess:               sess,
		recognizer:         recognizer,
		tts:                tts,
		logger:             logger,
		wakeWords:          cfg.WakeWords,
		proactiveEnabled:   cfg.Proactive.Enabled,
		alertCheckInterval: time.Duration(cfg.Proactive.AlertCheckInterval) * time.Second,
		now:                time.Now,
	}
}

// Run drives the interactive loop until the user says goodbye or the context
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.tts.Speak(ctx, fmt.Sprintf("Welcome %s, I'm ready to assist you", a.sess.User.Role))
	a.greet(ctx)

	lastProactiveCheck := a.now()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if a.proactiveEnabled && a.monitor != nil && a.now().Sub(lastProactiveCheck) >= a.alertCheckInterval {
			a.deliverAlerts(ctx, false)
			lastProactiveCheck = a.now()
		}

		query, err := a.recognizer.Listen(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			a.logger.Errorf("Error in main loop: %v", err)
			a.tts.Speak(ctx, "Sorry, I encountered an error. Please try again.")
			continue
		}
		if query == "" {
			continue
		}

		// Strip a leading wake word; bare wake word gets a prompt back.
		words := strings.Fields(query)
		if len(words) > 0 && a.isWakeWord(words[0]) {
			query = strings.Join(words[1:], " ")
			if query == "" {
				response := "Yes, how can I help you?"
				a.tts.Speak(ctx, response)
				a.sess.Conversation.Save("Wake word detected", response)
				continue
			}
		}

		if err := a.processCommand(ctx, query); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Errorf("Error in main loop: %v", err)
			a.tts.Speak(ctx, "Sorry, I encountered an error. Please try again.")
		}
	}
}

func (a *App) isWakeWord(word string) bool {
	word = strings.ToLower(word)
	for _, w := range a.wakeWords {
		if word == w {
			return true
		}
	}
	return false
}

// greet speaks a time-appropriate greeting.
func (a *App) greet(ctx context.Context) {
	hour := a.now().Hour()
	var greeting string
	switch {
	case hour >= 6 && hour < 12:
		greeting = "Good morning Sir, How may I assist you?"
	case hour >= 12 && hour < 16:
		greeting = "Good afternoon Sir, How may I assist you?"
	case hour >= 16 && hour < 21:
		greeting = "Good evening Sir, How may I assist you?"
	default:
		greeting = "Hello Sir, How may I assist you?"
	}
	a.tts.Speak(ctx, greeting)
}

// processCommand dispatches a single user command.
func (a *App) processCommand(ctx context.Context, query string) error {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "ok bye"):
		hour := a.now().Hour()
		farewell := "Have a good day sir!"
		if hour >= 21 || hour < 6 {
			farewell = "Good night sir, take care!"
		}
		a.tts.Speak(ctx, farewell)
		a.sess.Conversation.Save(query, farewell)
		if a.monitor != nil {
			a.monitor.Stop()
		}
		return errExit

	case IsProactiveStatusQuery(query):
		a.deliverAlerts(ctx, true)
		return nil

	case strings.Contains(lower, "where am i") ||
		strings.Contains(lower, "my location") ||
		strings.Contains(lower, "current location"):
		location, err := a.weather.Location(ctx)
		if err != nil {
			a.logger.Errorf("Location lookup failed: %v", err)
			a.tts.Speak(ctx, "Sorry, I couldn't determine your location.")
			return nil
		}
		a.tts.Speak(ctx, location)
		a.sess.Conversation.Save(query, location)
		return nil

	case strings.Contains(lower, "weather of") || strings.Contains(lower, "weather in"):
		separator := "weather of"
		if strings.Contains(lower, "weather in") {
			separator = "weather in"
		}
		parts := strings.SplitN(lower, separator, 2)
		city := strings.TrimSpace(parts[len(parts)-1])
		if city == "" {
			a.tts.Speak(ctx, "Please specify a city for the weather information.")
			return nil
		}
		a.tts.Speak(ctx, fmt.Sprintf("Checking the weather in %s.", city))
		a.speakCityWeather(ctx, query, city)
		return nil

	case strings.Contains(lower, "weather") || strings.Contains(lower, "temperature") ||
		strings.Contains(lower, "how hot") || strings.Contains(lower, "how cold"):
		city, err := a.weather.LocalCity(ctx)
		if err != nil {
			a.logger.Errorf("Local city lookup failed: %v", err)
			a.tts.Speak(ctx, "Sorry, I couldn't determine your location for the weather.")
			return nil
		}
		a.speakCityWeather(ctx, query, city)
		return nil
	}

	return a.routeQuery(ctx, query)
}

// routeQuery runs the intent router and the subsystem loops it selects.
// Subsystem loops chain: the permit loop can hand off to the state loop and
// back.
func (a *App) routeQuery(ctx context.Context, query string) error {
	intent := RouteQuery(query)

	for {
		switch intent {
		case IntentProvision:
			a.tts.Speak(ctx, "Switching to State Information System...")
			next, err := a.stateLoop(ctx, query)
			if err != nil {
				return err
			}
			if next == IntentProvision {
				return nil
			}
			intent = next
			query = ""

		case IntentPermit:
			if a.sess.CurrentOrderID() == 0 {
				a.tts.Speak(ctx, "Please select an order first before checking permits.")
				return nil
			}
			a.tts.Speak(ctx, "Switching to Permit System...")
			next, err := a.permitLoop(ctx, a.sess.CurrentOrderID())
			if err != nil {
				return err
			}
			if next == IntentOrderQuery {
				return nil
			}
			intent = next
			query = ""

		case IntentOrderSwitch:
			a.tts.Speak(ctx, "Switching to Orders...")
			return nil

		default:
			if response := a.responder.RespondOrderQuery(ctx, a.sess, query); response != "" {
				a.tts.Speak(ctx, response)
				a.sess.Conversation.Save(query, response)
			}
			return nil
		}
	}
}

func (a *App) speakCityWeather(ctx context.Context, query, city string) {
	report, err := a.weather.Fetch(ctx, city)
	if err != nil {
		a.logger.Errorf("Weather lookup failed for %s: %v", city, err)
		a.tts.Speak(ctx, fmt.Sprintf("Sorry, I couldn't get the weather for %s.", city))
		return
	}
	info := report.Formatted()
	a.tts.Speak(ctx, info)
	a.sess.Conversation.Save(query, info)
}

// deliverAlerts speaks a summary of pending proactive alerts. With force set,
// it also confirms when there is nothing to report.
func (a *App) deliverAlerts(ctx context.Context, force bool) {
	if a.monitor == nil {
		if force {
			a.tts.Speak(ctx, "Proactive monitoring is not enabled.")
		}
		return
	}

	if !a.monitor.HasAlerts() {
		if force {
			a.tts.Speak(ctx, "No new updates or alerts at the moment. Everything looks good.")
			a.sess.Conversation.Save("Status check", "No new updates.")
		}
		return
	}

	summary := a.monitor.Summary(ctx)
	if summary == "" {
		if force {
			a.tts.Speak(ctx, "No new updates or alerts at the moment.")
		}
		return
	}

	a.tts.Speak(ctx, summary)
	a.sess.Conversation.Save("Proactive notification", summary)

	for _, alert := range a.monitor.PendingAlerts() {
		a.monitor.MarkDelivered(alert)
	}
}
