package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
)

type createTaxRateRequest struct {
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (s *Server) CreateTaxRate(c *gin.Context) {
	var req createTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Create(c.Request.Context(), taxdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Rate:        req.Rate,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxRates(c *gin.Context) {
	var (
		resp []taxdomain.TaxRate
		err  error
	)
	if c.Query("active") == "true" {
		resp, err = s.taxSvc.ListActive(c.Request.Context())
	} else {
		resp, err = s.taxSvc.List(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableTaxRate(c *gin.Context) {
	if err := s.taxSvc.Disable(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "disabled"}})
}
