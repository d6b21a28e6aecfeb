package components

import (
	"venue-reservation/internal/handler"
	"venue-reservation/internal/handler/api"
	"venue-reservation/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPublicReservationHandler,
		api.NewAdminReservationHandler,
		api.NewWebhookHandler,
		middleware.NewAuthMiddleware,
		func(public *api.PublicReservationHandler, admin *api.AdminReservationHandler, webhook *api.WebhookHandler) handler.Handlers {
			return handler.Handlers{Public: public, Admin: admin, Webhook: webhook}
		},
	),
	fx.Invoke(handler.NewRouter),
)
