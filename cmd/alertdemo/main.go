package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrymomot/alertkit/pkg/alerts"
	"github.com/dmitrymomot/alertkit/pkg/config"
	"github.com/dmitrymomot/alertkit/pkg/logger"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
}

func main() {
	if len(os.Args) > 1 {
		if err := config.LoadEnv(os.Args[1:]...); err != nil {
			log.Fatalf("Failed to load env files: %v", err)
		}
	}

	var app appConfig
	config.MustLoad(&app)
	var cfg alerts.Config
	config.MustLoad(&cfg)

	l := logger.New(
		logger.WithEnvironment(app.Env, "alertdemo"),
		logger.WithLevelName(app.LogLevel),
		logger.WithOutput(os.Stderr),
	)
	logger.SetAsDefault(l)

	r := alerts.NewRegistry(alerts.WithConfig(cfg), alerts.WithLogger(l))
	defer r.Close()

	sub := r.Watch(context.Background())

	ops, err := r.NewTopic("ops")
	if err != nil {
		log.Fatalf("Failed to create topic: %v", err)
	}
	alice := r.NewUser("alice")
	bob := r.NewUser("bob")
	carol := r.NewUser("carol")
	alice.Subscribe(ops)
	bob.Subscribe(ops)

	ops.Broadcast("disk usage at 80%")
	ops.Broadcast("UPS running on battery")
	if _, err := ops.SendToUser("rotate your credentials", alice.ID()); err != nil {
		log.Fatalf("Failed to send alert: %v", err)
	}
	if _, err := ops.SendToUser("rotate your credentials", carol.ID()); err != nil {
		fmt.Printf("carol: %v\n", err)
	}

	bob.MarkAllRead()

	for _, u := range []*alerts.User{alice, bob, carol} {
		fmt.Printf("%s: %d unread\n", u.Name(), u.UnreadCount())
		for _, a := range u.UnreadNonExpired() {
			fmt.Printf("  [%s] %s\n", a.Urgency(), a.Content())
		}
	}

	delivered := 0
	for len(sub.Receive()) > 0 {
		<-sub.Receive()
		delivered++
	}
	fmt.Printf("topic %q: %d alerts, %d deliveries\n", ops.Name(), len(ops.ListNonExpired()), delivered)
}
