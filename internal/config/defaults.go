package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiTemperature = 1.2
	DefaultGeminiTimeout     = 2 * time.Minute

	DefaultDBPath         = "storage.db"
	DefaultContextTurns   = 20
	DefaultRetentionTurns = 0 // keep everything; only the context read is bounded

	DefaultServerAddr              = ":8080"
	DefaultServerThrottleLimit     = 20
	DefaultServerShutdownTimeout   = 10 * time.Second
	DefaultServerReadHeaderTimeout = 5 * time.Second

	DefaultMaintenanceSchedule = "0 0 4 * * *" // daily at 04:00
)

// DefaultReplies are the fixed reply strings. The fallback reply is what
// every completion-service failure turns into.
var DefaultReplies = RepliesConfig{
	Greeting:     "Hey there! 👋 Took you long enough to say hi.",
	Identity:     "I'm Banterbot, Patrick's pet project with opinions. I chat, I remember, I occasionally sass.",
	Creator:      "Patrick? Oh, he's the guy who built me. Writes code, drinks too much coffee, and thought giving a bot sarcasm was a good idea.",
	Fallback:     "Oops, something went wrong there! But hey, I'm still awesome, right? 😎",
	GeneralError: "❌ An error occurred. Please try again later.",
	Welcome:      "👋 Welcome! Just send me a message to start a conversation.",
}
