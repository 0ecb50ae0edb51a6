package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-ledger-go/internal/ledger"
	"finance-ledger-go/internal/models"
)

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.svc.ListCategories(c.Request.Context(), userID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, categories, "Categories fetched successfully")
}

type createCategoryRequest struct {
	Name            string                 `json:"name"`
	Color           string                 `json:"color"`
	TransactionType models.TransactionType `json:"transactionType"`
	Icon            string                 `json:"icon"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	category, err := s.svc.CreateCategory(c.Request.Context(), userID(c), ledger.CreateCategoryInput{
		Name:            req.Name,
		Color:           req.Color,
		TransactionType: req.TransactionType,
		Icon:            req.Icon,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, category, "Category created successfully")
}
