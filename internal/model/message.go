package model

// Severity classifies a rule signal. Blocking messages gate the Next action;
// warnings are informational only.
type Severity string

const (
	SeverityBlocking Severity = "BLOCKING"
	SeverityWarning  Severity = "WARNING"
)

// Message is a user-facing validation or eligibility signal with a stable code.
type Message struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Blocking builds a blocking message.
func Blocking(code, text string) Message {
	return Message{Code: code, Severity: SeverityBlocking, Text: text}
}

// Warning builds a warning message.
func Warning(code, text string) Message {
	return Message{Code: code, Severity: SeverityWarning, Text: text}
}

// HasBlocking reports whether any message in msgs gates navigation.
func HasBlocking(msgs []Message) bool {
	for _, m := range msgs {
		if m.Severity == SeverityBlocking {
			return true
		}
	}
	return false
}
