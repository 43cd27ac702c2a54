// Package models contains data types and constants for relaychat.
package models

// ChatPath is appended to the configured base URL to reach the chat endpoint
const ChatPath = "/chat"

// Fixed user-facing texts
const (
	// PendingText is shown while an exchange is outstanding
	PendingText = "AI is thinking..."

	// ApologyText replaces the pending indicator whenever an exchange fails.
	// Failure details never reach the display.
	ApologyText = "Sorry, there was a problem connecting to the AI. Please try again later."

	// WelcomeText opens every remote conversation
	WelcomeText = "Hello! I'm your AI assistant. How can I help you today?"
)

// Strategy selects how bot replies are produced
type Strategy string

const (
	// StrategyRemote relays each message to the remote chat endpoint
	StrategyRemote Strategy = "remote"
	// StrategyScript walks the user through a fixed list of questions
	StrategyScript Strategy = "script"
)

// AllStrategies returns the supported conversation strategies
func AllStrategies() []Strategy {
	return []Strategy{StrategyRemote, StrategyScript}
}

// StrategyFromName returns the Strategy for name, defaulting to remote
func StrategyFromName(name string) Strategy {
	switch Strategy(name) {
	case StrategyScript:
		return StrategyScript
	default:
		return StrategyRemote
	}
}
