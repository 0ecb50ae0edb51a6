// Package http exposes the ledger over a gin REST API. Handlers bind and
// validate the payload, delegate to the ledger service and wrap the result in
// the response envelope; no balance arithmetic happens here.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/ledger"
)

type Server struct {
	cfg     *config.Config
	svc     *ledger.Service
	batch   *gojsonschema.Schema
	log     *slog.Logger
	timeout time.Duration
}

func NewServer(cfg *config.Config, svc *ledger.Service, log *slog.Logger) *gin.Engine {
	schema, err := newBatchSchema()
	if err != nil {
		panic(err)
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		svc:     svc,
		batch:   schema,
		log:     log,
		timeout: time.Duration(cfg.ReqTimeoutSec) * time.Second,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(logging(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api/v1")
	api.Use(Auth(cfg.JWTSecret))
	{
		account := api.Group("/account")
		{
			account.POST("/create", s.createAccount)
			account.GET("/get", s.listAccounts)
			account.PUT("/:accountId", s.updateAccount)
			account.DELETE("/:accountId", s.deleteAccount)

			account.POST("/transaction", s.createTransaction)
			account.POST("/transaction/multitxn", s.createTransactions)
			account.GET("/transaction", s.listTransactions)
			account.PUT("/transaction/:transactionId", s.updateTransaction)
			account.DELETE("/transaction/:transactionId", s.deleteTransaction)
			account.GET("/transaction/expense", s.listExpenses)
			account.GET("/transaction/income", s.listIncome)
			account.GET("/transaction/summary", s.summary)
			account.GET("/transaction/incomeExpenseSummary", s.incomeExpenseSummary)

			account.POST("/transfer", s.transfer)
		}

		category := api.Group("/category")
		{
			category.GET("/get", s.listCategories)
			category.POST("/create", s.createCategory)
		}
	}

	return r
}

func userID(c *gin.Context) uint {
	return c.GetUint("userID")
}
