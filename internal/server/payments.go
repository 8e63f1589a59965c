package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snusnumrick/dojoflow/internal/money"
	paymentdomain "github.com/snusnumrick/dojoflow/internal/payment/domain"
)

type recordPaymentRequest struct {
	InvoiceID   string     `json:"invoice_id"`
	Method      string     `json:"method"`
	AmountCents int64      `json:"amount_cents"`
	Reference   *string    `json:"reference"`
	Notes       *string    `json:"notes"`
	ReceivedAt  *time.Time `json:"received_at"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), paymentdomain.RecordPaymentRequest{
		InvoiceID:  strings.TrimSpace(req.InvoiceID),
		Method:     paymentdomain.PaymentMethod(strings.TrimSpace(req.Method)),
		Amount:     money.FromCentsIn(req.AmountCents, s.cfg.Currency),
		Reference:  req.Reference,
		Notes:      req.Notes,
		ReceivedAt: req.ReceivedAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPayment(c *gin.Context) {
	resp, err := s.paymentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoicePayments(c *gin.Context) {
	resp, err := s.paymentSvc.ListByInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
