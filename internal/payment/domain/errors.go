package domain

import "errors"

var (
	ErrInvalidPaymentID = errors.New("invalid_payment_id")
	ErrPaymentNotFound  = errors.New("payment_not_found")
	ErrInvalidMethod    = errors.New("invalid_payment_method")
	ErrInvalidAmount    = errors.New("invalid_payment_amount")
	ErrOverpayment      = errors.New("payment_exceeds_balance")
	ErrInvoiceNotOpen   = errors.New("invoice_not_open_for_payment")
)
