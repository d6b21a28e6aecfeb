package components

import (
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/usecase"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewReservationSettings,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewReferenceGenerator,
		commands.NewConflictChecker,
		commands.NewReservationUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewReservationSettings(cfg config.Config) commands.Settings {
	return commands.Settings{
		PaymentDeadline: cfg.Reservation.PaymentDeadline,
		AmountMinor:     cfg.Reservation.AmountMinor,
		Currency:        cfg.Reservation.Currency,
		GatewayTimeout:  cfg.Paystack.Timeout,
		CallbackURL:     cfg.Paystack.CallbackURL,
		PublicPayURL:    cfg.Notify.PublicPayURL,
	}
}

func NewReferenceGenerator(cfg config.Config, clk clock.Clock) *commands.ReferenceGenerator {
	return commands.NewReferenceGenerator(cfg.Reservation.ReferencePrefix, clk)
}
