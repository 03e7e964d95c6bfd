// Package rules implements the fixed short-circuit responder that answers a
// small set of recognized inputs without touching the completion service.
package rules

import "strings"

// Rule pairs a recognition predicate with its fixed reply.
type rule struct {
	matches func(normalized string) bool
	reply   string
}

// Matcher checks incoming messages against a fixed, priority-ordered rule
// table. It is a pure function of its input: no side effects, no
// persistence access. The resolver records whichever reply is produced.
type Matcher struct {
	rules []rule
}

// Replies holds the fixed reply strings for the recognized inputs.
type Replies struct {
	Greeting string
	Identity string
	Creator  string
}

// NewMatcher builds the rule table. Rules are evaluated in order and the
// first match wins; later rules are not evaluated.
func NewMatcher(replies Replies) *Matcher {
	return &Matcher{
		rules: []rule{
			{
				// Exact match only: "hiya" must fall through to the gateway.
				matches: func(s string) bool { return s == "hi" },
				reply:   replies.Greeting,
			},
			{
				matches: func(s string) bool { return strings.Contains(s, "who are you") },
				reply:   replies.Identity,
			},
			{
				matches: func(s string) bool { return strings.Contains(s, "tell me more about patrick") },
				reply:   replies.Creator,
			},
		},
	}
}

// Match reports the fixed reply for message, if any rule recognizes it.
// Comparison is case-insensitive on the trimmed message.
func (m *Matcher) Match(message string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, r := range m.rules {
		if r.matches(normalized) {
			return r.reply, true
		}
	}
	return "", false
}
