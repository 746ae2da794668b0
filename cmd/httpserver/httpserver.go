// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-vera/ledger-bank/internal/accountdelivery"
	"github.com/go-vera/ledger-bank/internal/accountrepo"
	"github.com/go-vera/ledger-bank/internal/accountservice"
	"github.com/go-vera/ledger-bank/internal/interestservice"
	"github.com/go-vera/ledger-bank/internal/ledgerdelivery"
	"github.com/go-vera/ledger-bank/internal/ledgerrepo"
	"github.com/go-vera/ledger-bank/internal/ledgerservice"
	"github.com/go-vera/ledger-bank/internal/middleware"
	"github.com/go-vera/ledger-bank/internal/scheduledelivery"
	"github.com/go-vera/ledger-bank/internal/schedulerepo"
	"github.com/go-vera/ledger-bank/internal/scheduleservice"
	"github.com/go-vera/ledger-bank/internal/transactionrepo"
	"github.com/go-vera/ledger-bank/pkg/configpkg"
)

// Server holds db connection, handlers router, background jobs and configuration.
type Server struct {
	DB        *sql.DB
	Engine    *gin.Engine
	Config    configpkg.Config
	Interest  *interestservice.Service
	Scheduler *scheduleservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
//
// The interest accrual job and the payment sweep are constructed here but
// not started; the caller runs them alongside the http listener so that all
// three share one shutdown context.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)
	scheduleRepo := schedulerepo.NewRepoPGS(conn)

	accountService := accountservice.New(accountRepo)
	ledgerService := ledgerservice.New(ledgerRepo, accountService, transactionRepo)
	interestService := interestservice.New(accountRepo, ledgerService, config.AccrualHour)
	scheduleService := scheduleservice.New(scheduleRepo, ledgerService, config.SweepInterval)

	accountHandler := accountdelivery.NewHandler(accountService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	scheduleHandler := scheduledelivery.NewHandler(scheduleService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountnumber", accountdelivery.ValidAccountNumber); err != nil {
			return nil, err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/deposits", ledgerHandler.Deposit)
	engine.POST("/withdrawals", ledgerHandler.Withdraw)
	engine.POST("/transfers", ledgerHandler.Transfer)

	engine.GET("/accounts/:number", accountHandler.Get)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:number/transactions", ledgerHandler.ListTransactions)

	engine.POST("/scheduled-payments", scheduleHandler.Create)
	engine.GET("/scheduled-payments", scheduleHandler.List)
	engine.DELETE("/scheduled-payments/:id", scheduleHandler.Cancel)

	server := &Server{
		DB:        conn,
		Engine:    engine,
		Config:    config,
		Interest:  interestService,
		Scheduler: scheduleService,
	}

	return server, nil
}
