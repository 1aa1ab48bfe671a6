package reservation

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/reservation/controller"
	"reserva/internal/reservation/usecase"
	"reserva/internal/reservation/validator"
)

func NewModule(client *reservaapi.Client, v *validator.Validator, requireUser func(http.Handler) http.Handler, logger *zap.Logger) *controller.ReservationController {
	booking := usecase.NewBookingUseCase(client, v, time.Now, logger)
	reservations := usecase.NewReservationUseCase(client, time.Now, logger)

	return controller.NewReservationController(booking, reservations, requireUser, logger)
}
