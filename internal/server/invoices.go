package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	"github.com/snusnumrick/dojoflow/internal/money"
)

type invoiceItemRequest struct {
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	Quantity       int64    `json:"quantity"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	DiscountRate   float64  `json:"discount_rate"`
	TaxRateIDs     []string `json:"tax_rate_ids"`
}

func (s *Server) itemInput(req invoiceItemRequest) invoicedomain.ItemInput {
	return invoicedomain.ItemInput{
		Type:         strings.TrimSpace(req.Type),
		Description:  strings.TrimSpace(req.Description),
		Quantity:     req.Quantity,
		UnitPrice:    money.FromCentsIn(req.UnitPriceCents, s.cfg.Currency),
		DiscountRate: req.DiscountRate,
		TaxRateIDs:   req.TaxRateIDs,
	}
}

type createInvoiceRequest struct {
	FamilyID string               `json:"family_id"`
	DueAt    *time.Time           `json:"due_at"`
	Metadata map[string]any       `json:"metadata"`
	Items    []invoiceItemRequest `json:"items"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]invoicedomain.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, s.itemInput(item))
	}

	resp, err := s.invoiceSvc.CreateDraft(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		FamilyID: strings.TrimSpace(req.FamilyID),
		DueAt:    req.DueAt,
		Metadata: req.Metadata,
		Items:    items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest
	if familyID := c.Query("family_id"); familyID != "" {
		req.FamilyID = &familyID
	}
	if status := c.Query("status"); status != "" {
		st := invoicedomain.InvoiceStatus(strings.ToUpper(status))
		req.Status = &st
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFamilyInvoices(c *gin.Context) {
	familyID := c.Param("id")
	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		FamilyID: &familyID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddInvoiceItem(c *gin.Context) {
	var req invoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.AddItem(c.Request.Context(), c.Param("id"), s.itemInput(req))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveInvoiceItem(c *gin.Context) {
	if err := s.invoiceSvc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("item_id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "removed"}})
}

type applyDiscountCodeRequest struct {
	Code string `json:"code"`
}

// ApplyDiscountCode redeems a code against the draft's current pre-tax
// subtotal and records the result as a credit line on the invoice.
func (s *Server) ApplyDiscountCode(c *gin.Context) {
	var req applyDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	detail, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if detail.Invoice.Status != invoicedomain.InvoiceStatusDraft {
		AbortWithError(c, invoicedomain.ErrInvoiceNotDraft)
		return
	}

	subtotal := money.Zero(s.cfg.Currency)
	for _, item := range detail.Items {
		line := money.FromCentsIn(item.UnitPrice, s.cfg.Currency).MulInt(item.Quantity)
		line = line.Sub(line.PercentOf(item.DiscountRate))
		subtotal = subtotal.Add(line)
	}

	app, err := s.discountSvc.Redeem(c.Request.Context(), req.Code, subtotal)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.invoiceSvc.AddItem(c.Request.Context(), c.Param("id"), invoicedomain.ItemInput{
		Type:        "discount",
		Description: "Discount " + app.Code,
		Quantity:    1,
		UnitPrice:   app.Discount.Neg(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"application": app, "item": item}})
}

func (s *Server) FinalizeInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type voidInvoiceRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) VoidInvoice(c *gin.Context) {
	var req voidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invoiceSvc.Void(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Reason)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "voided"}})
}
