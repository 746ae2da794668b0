// Package ledgerdelivery manages delivery layer of ledger operations.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"
	"github.com/go-vera/ledger-bank/pkg/jsonresponse"
)

// ErrRejected is returned to callers when an operation fails its
// preconditions (unknown account, bad amount, insufficient balance). The
// ledger reports these as a false result, not an error, so the handler
// supplies the message.
var ErrRejected = errors.New("operation rejected")

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Deposit(ctx context.Context, number, amount string) (bool, error)
	Withdraw(ctx context.Context, number, amount string) (bool, error)
	Transfer(ctx context.Context, from, to, amount string) (bool, error)
	ListTransactions(ctx context.Context, number string, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type result struct {
	OK bool `json:"ok"`
}

type resultResponse struct {
	Data result `json:"data"`
}

type depositRequest struct {
	AccountNumber string `json:"account_number" binding:"required,accountnumber"`
	Amount        string `json:"amount" binding:"required"`
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	ok, err := h.service.Deposit(ctx, req.AccountNumber, req.Amount)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
		return
	}

	if !ok {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(ErrRejected))
		return
	}

	gctx.JSON(http.StatusOK, resultResponse{Data: result{OK: true}})
}

type withdrawRequest struct {
	AccountNumber string `json:"account_number" binding:"required,accountnumber"`
	Amount        string `json:"amount" binding:"required"`
}

// Withdraw handles http request to debit an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req withdrawRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	ok, err := h.service.Withdraw(ctx, req.AccountNumber, req.Amount)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
		return
	}

	if !ok {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(ErrRejected))
		return
	}

	gctx.JSON(http.StatusOK, resultResponse{Data: result{OK: true}})
}

type transferRequest struct {
	FromAccount string `json:"from_account" binding:"required,accountnumber"`
	ToAccount   string `json:"to_account" binding:"required,accountnumber"`
	Amount      string `json:"amount" binding:"required"`
}

// Transfer handles http request to move money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	ok, err := h.service.Transfer(ctx, req.FromAccount, req.ToAccount, req.Amount)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
		return
	}

	if !ok {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(ErrRejected))
		return
	}

	gctx.JSON(http.StatusOK, resultResponse{Data: result{OK: true}})
}

type listTransactionsURI struct {
	Number string `uri:"number" binding:"required,accountnumber"`
}

type listTransactionsQuery struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type transactionsResponse struct {
	Data transactionsData `json:"data"`
}

// ListTransactions handles http request to page through an account's history.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri listTransactionsURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	var query listTransactionsQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	transactions, err := h.service.ListTransactions(ctx, uri.Number, query.PageSize, query.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, transactionsResponse{Data: transactionsData{Transactions: transactions}})
}
