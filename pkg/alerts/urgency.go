package alerts

import "strings"

// Urgency classifies an alert and decides where it lands in a history.
type Urgency string

const (
	UrgencyUrgent      Urgency = "urgent"
	UrgencyInformative Urgency = "informative"
)

// Classifier derives the urgency of an alert from its content.
type Classifier func(content string) Urgency

// ClassifyContent marks content containing an upper-case "U" as urgent and
// everything else as informative.
func ClassifyContent(content string) Urgency {
	if strings.Contains(content, "U") {
		return UrgencyUrgent
	}
	return UrgencyInformative
}

// insertByUrgency puts urgent alerts in front of the history and appends
// informative ones, so the latest urgent alert always comes first.
func insertByUrgency(history []*Alert, a *Alert) []*Alert {
	if a.urgency != UrgencyUrgent {
		return append(history, a)
	}
	history = append(history, nil)
	copy(history[1:], history)
	history[0] = a
	return history
}

// filterAlerts returns the alerts matching keep, preserving their order.
func filterAlerts(history []*Alert, keep func(*Alert) bool) []*Alert {
	out := make([]*Alert, 0, len(history))
	for _, a := range history {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
