package alerts

import "time"

// Config holds the registry settings that can be provided through the environment.
//
//	var cfg alerts.Config
//	config.MustLoad(&cfg)
//	r := alerts.NewRegistry(alerts.WithConfig(cfg))
type Config struct {
	DefaultTTL     time.Duration `env:"ALERTS_DEFAULT_TTL" envDefault:"336h"`
	FeedBufferSize int           `env:"ALERTS_FEED_BUFFER" envDefault:"64"`
}
