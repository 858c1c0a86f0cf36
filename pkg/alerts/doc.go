// Package alerts provides an in-process publish/subscribe alert core:
// topics accumulate alerts, users subscribe to topics and keep their own
// history of received alerts with a per-user read status.
//
// # Architecture
//
//   - Registry: owns topics and users and the shared collaborators (clock,
//     identity generator, urgency classifier, logger, delivery feed)
//   - Topic: subscriber set and the history of alerts sent through it
//   - User: history of received alerts and read/query operations
//   - Alert: content, urgency, expiration and one Record per recipient
//
// Alerts reference their topic by name and topics reference subscribers by
// ID, so the object graph has no ownership cycles.
//
// # Ordering
//
// Topic and user histories share one rule: urgent alerts are inserted at the
// front, informative alerts are appended. Sending U1, U2 and I1 yields
// U2, U1, I1.
//
// # Basic Usage
//
//	r := alerts.NewRegistry()
//	topic, _ := r.NewTopic("billing")
//	alice := r.NewUser("alice")
//	alice.Subscribe(topic)
//
//	topic.Broadcast("Invoice available")
//	if _, err := topic.SendToUser("URGENT: card declined", alice.ID()); err != nil {
//	    // errors.Is(err, alerts.ErrInvalidRecipient)
//	}
//
//	for _, a := range alice.UnreadNonExpired() {
//	    alice.MarkRead(a)
//	}
//
// # Urgency
//
// Alerts created without an explicit urgency are classified by
// ClassifyContent: content containing "U" is urgent. Replace it with
// WithClassifier.
//
// # Expiration
//
// Expiration is evaluated lazily against the registry clock on every query.
// Nothing is removed when an alert expires.
//
// # Errors
//
//   - ErrInvalidRecipient: unicast to a user that is not subscribed
//   - ErrNotSubscribed: Receive by a user not subscribed to the alert topic
//   - ErrUnknownRecipient: MarkRead or IsRead for a user without a record
//
// User.MarkRead discards ErrUnknownRecipient; Alert.MarkRead returns it.
package alerts
