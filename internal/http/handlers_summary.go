package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finance-ledger-go/internal/ledger"
)

func (s *Server) summary(c *gin.Context) {
	var req ledger.SummaryRequest
	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid month")
			return
		}
		req.Month = month
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid year")
			return
		}
		req.Year = year
	}
	if v := c.Query("startDate"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			badRequest(c, "invalid startDate")
			return
		}
		req.StartDate = &date
	}
	if v := c.Query("endDate"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			badRequest(c, "invalid endDate")
			return
		}
		end := endOfDay(date)
		req.EndDate = &end
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	summary, err := s.svc.Summary(ctx, userID(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary, "Summary fetched successfully")
}

func (s *Server) incomeExpenseSummary(c *gin.Context) {
	req := ledger.SeriesRequest{
		FilterType: c.DefaultQuery("filterType", ledger.SeriesMonthly),
		Date:       c.Query("date"),
	}
	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid month")
			return
		}
		req.Month = month
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid year")
			return
		}
		req.Year = year
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	buckets, err := s.svc.IncomeExpenseSeries(ctx, userID(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, buckets, "Income and expense summary fetched successfully")
}
