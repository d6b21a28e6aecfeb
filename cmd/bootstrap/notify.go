package bootstrap

import (
	"context"
	"log/slog"

	"venue-reservation/internal/infra/notification"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/usecase/commands"

	"go.uber.org/fx"
)

// With an AMQP URL notices go through the queue and a consumer delivers them; without
// one the mailer is called inline.
var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewMailer,
		NewNotifier,
	),
	fx.Invoke(StartNotificationConsumer),
)

func NewMailer(cfg config.Config) notification.Mailer {
	if cfg.Notify.ResendAPIKey == "" {
		slog.Info("RESEND_API_KEY not set; notices are logged instead of emailed")
		return notification.NewLogMailer()
	}
	return notification.NewResendMailer(cfg.Notify)
}

func NewNotifier(lc fx.Lifecycle, cfg config.Config, mailer notification.Mailer) commands.Notifier {
	if cfg.Notify.AMQPURL == "" {
		return mailer
	}

	publisher := notification.NewPublisher(cfg.Notify.AMQPURL, cfg.Notify.Queue)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher
}

func StartNotificationConsumer(lc fx.Lifecycle, cfg config.Config, mailer notification.Mailer) {
	if cfg.Notify.AMQPURL == "" || !cfg.Notify.ConsumerEnabled {
		return
	}

	consumer := notification.NewConsumer(cfg.Notify.AMQPURL, cfg.Notify.Queue, mailer, cfg.Notify.SendTimeout)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			consumer.Stop()
			return nil
		},
	})
}
