package bootstrap

import (
	"venue-reservation/internal/infra/paystack"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewPaymentGateway,
	),
)

func NewPaymentGateway(cfg config.Config) commands.PaymentGateway {
	return paystack.NewClient(cfg.Paystack)
}
