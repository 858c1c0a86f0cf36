package alerts_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/alertkit/pkg/alerts"
)

func ExampleTopic_Broadcast() {
	r := alerts.NewRegistry()
	topic, _ := r.NewTopic("deployments")

	alice := r.NewUser("alice")
	bob := r.NewUser("bob")
	alice.Subscribe(topic)
	bob.Subscribe(topic)

	a := topic.Broadcast("Rollback Underway")

	fmt.Println(a.Urgency(), a.RecipientCount(), a.IsForSpecificUser())
	fmt.Println(len(alice.UnreadNonExpired()), len(bob.UnreadNonExpired()))
	// Output:
	// urgent 2 false
	// 1 1
}

func ExampleTopic_SendToUser() {
	r := alerts.NewRegistry()
	topic, _ := r.NewTopic("billing")

	alice := r.NewUser("alice")
	carol := r.NewUser("carol")
	alice.Subscribe(topic)

	if _, err := topic.SendToUser("card expires soon", alice.ID()); err != nil {
		fmt.Println(err)
	}

	_, err := topic.SendToUser("card expires soon", carol.ID())
	fmt.Println(errors.Is(err, alerts.ErrInvalidRecipient))
	fmt.Println(len(topic.History()))
	// Output:
	// true
	// 1
}

func ExampleUser_UnreadNonExpired() {
	r := alerts.NewRegistry()
	topic, _ := r.NewTopic("ops")
	alice := r.NewUser("alice")
	alice.Subscribe(topic)

	in := func(d time.Duration) time.Time { return time.Now().Add(d) }

	_ = topic.SendAlertToUser(alice.ID(), alerts.NewAlert("disk at 80%", topic, in(time.Hour)))
	_ = topic.SendAlertToUser(alice.ID(), alerts.NewAlert("UPS on battery", topic, in(time.Hour)))
	_ = topic.SendAlertToUser(alice.ID(), alerts.NewAlert("backup done", topic, in(-time.Hour)))

	for _, a := range alice.UnreadNonExpired() {
		fmt.Println(a.Urgency(), a.Content())
	}

	alice.MarkAllRead()
	fmt.Println(alice.UnreadCount())
	// Output:
	// urgent UPS on battery
	// informative disk at 80%
	// 0
}
