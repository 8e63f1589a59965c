package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	discountdomain "github.com/snusnumrick/dojoflow/internal/discount/domain"
	"github.com/snusnumrick/dojoflow/internal/discount/engine"
	"github.com/snusnumrick/dojoflow/internal/money"
)

type createDiscountCodeRequest struct {
	Code          string     `json:"code"`
	Kind          string     `json:"kind"`
	AmountCents   int64      `json:"amount_cents"`
	Percent       float64    `json:"percent"`
	MinSpendCents int64      `json:"min_spend_cents"`
	UsageLimit    *int32     `json:"usage_limit"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to"`
}

func (s *Server) CreateDiscountCode(c *gin.Context) {
	var req createDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.discountSvc.Create(c.Request.Context(), discountdomain.CreateCodeRequest{
		Code:       strings.TrimSpace(req.Code),
		Kind:       engine.Kind(strings.TrimSpace(req.Kind)),
		Amount:     money.FromCentsIn(req.AmountCents, s.cfg.Currency),
		Percent:    req.Percent,
		MinSpend:   money.FromCentsIn(req.MinSpendCents, s.cfg.Currency),
		UsageLimit: req.UsageLimit,
		ValidFrom:  req.ValidFrom,
		ValidTo:    req.ValidTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDiscountCodes(c *gin.Context) {
	resp, err := s.discountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type previewDiscountCodeRequest struct {
	Code          string `json:"code"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

func (s *Server) PreviewDiscountCode(c *gin.Context) {
	var req previewDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.discountSvc.Preview(c.Request.Context(), req.Code, money.FromCentsIn(req.SubtotalCents, s.cfg.Currency))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableDiscountCode(c *gin.Context) {
	if err := s.discountSvc.Disable(c.Request.Context(), c.Param("code")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "disabled"}})
}
