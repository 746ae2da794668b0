// Package scheduledelivery manages delivery layer of scheduled payments.
package scheduledelivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"
	"github.com/go-vera/ledger-bank/pkg/jsonresponse"
)

// Service provides service layer interface needed by schedule delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package scheduledelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateScheduledPaymentParams) (domain.ScheduledPayment, error)
	Cancel(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.ScheduledPayment, error)
}

// Handler facilitates schedule delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns schedule handler.
func NewHandler(ss Service) *Handler {
	return &Handler{service: ss}
}

type createRequest struct {
	FromAccount string `json:"from_account" binding:"required,accountnumber"`
	ToAccount   string `json:"to_account" binding:"required,accountnumber"`
	Amount      string `json:"amount" binding:"required"`
	Frequency   string `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY"`
}

type paymentData struct {
	ScheduledPayment domain.ScheduledPayment `json:"scheduled_payment"`
}

type paymentResponse struct {
	Data paymentData `json:"data"`
}

// Create handles http request to schedule a recurring transfer.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	arg := domain.CreateScheduledPaymentParams{
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      req.Amount,
		Frequency:   domain.Frequency(req.Frequency),
	}

	payment, err := h.service.Create(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrNonPositiveAmount, domain.ErrInvalidFrequency:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, paymentResponse{Data: paymentData{ScheduledPayment: payment}})
}

// Cancel handles http request to cancel a scheduled payment. Cancelling an
// already cancelled payment succeeds.
func (h *Handler) Cancel(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	id, err := strconv.ParseInt(gctx.Param("id"), 10, 64)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	if err := h.service.Cancel(ctx, id); err != nil {
		if err == domain.ErrScheduledPaymentNotFound {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Status(http.StatusNoContent)
}

type listData struct {
	ScheduledPayments []domain.ScheduledPayment `json:"scheduled_payments"`
}

type listResponse struct {
	Data listData `json:"data"`
}

// List handles http request to list all scheduled payments.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	payments, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{ScheduledPayments: payments}})
}
