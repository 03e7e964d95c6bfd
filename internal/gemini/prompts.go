package gemini

import "strings"

// completionInstruction is the fixed instruction embedded in every prompt.
// The reply style is part of the bot's identity, so it lives here rather
// than in config.
const completionInstruction = `You are a chat bot replying to one person in a private conversation. Read the conversation below and reply to the latest human message. Keep it short: one or two sentences, informal tone, a little sarcastic. Reply with the message text only, no "Bot:" prefix.`

// buildPrompt assembles the single prompt string: instruction, then the
// history oldest-first and newline-separated, ending with the latest human
// line. The latest message is appended only if the history read did not
// already include it, so a racing append never drops it from the prompt.
func buildPrompt(history []string, latest string) string {
	latestLine := "Human: " + latest

	var sb strings.Builder
	sb.WriteString(completionInstruction)
	sb.WriteString("\n\nConversation:\n")

	for _, line := range history {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(history) == 0 || history[len(history)-1] != latestLine {
		sb.WriteString(latestLine)
		sb.WriteString("\n")
	}

	return sb.String()
}
