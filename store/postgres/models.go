package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/billing/customer"
	"github.com/xraph/billing/id"
	"github.com/xraph/billing/invoice"
	"github.com/xraph/billing/payment"
	"github.com/xraph/billing/types"
)

// ==================== Customer models ====================

type customerModel struct {
	grove.BaseModel `grove:"table:billing_customers"`

	ID        string    `grove:"id,pk"`
	Currency  string    `grove:"currency"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toCustomerModel(c *customer.Customer) *customerModel {
	return &customerModel{
		ID:        c.ID.String(),
		Currency:  c.Currency,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromCustomerModel(m *customerModel) (*customer.Customer, error) {
	customerID, err := id.ParseCustomerID(m.ID)
	if err != nil {
		return nil, err
	}

	return &customer.Customer{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       customerID,
		Currency: m.Currency,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	grove.BaseModel `grove:"table:billing_invoices"`

	ID             string    `grove:"id,pk"`
	CustomerID     string    `grove:"customer_id"`
	AmountCents    int64     `grove:"amount_cents"`
	AmountCurrency string    `grove:"amount_currency"`
	Status         string    `grove:"status"`
	CreatedAt      time.Time `grove:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	return &invoiceModel{
		ID:             inv.ID.String(),
		CustomerID:     inv.CustomerID.String(),
		AmountCents:    inv.Amount.Amount,
		AmountCurrency: inv.Amount.Currency,
		Status:         string(inv.Status),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	invID, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, err
	}

	return &invoice.Invoice{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         invID,
		CustomerID: customerID,
		Amount:     types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		Status:     invoice.Status(m.Status),
	}, nil
}

// ==================== Payment models ====================

type paymentModel struct {
	grove.BaseModel `grove:"table:billing_payments"`

	ID         string     `grove:"id,pk"`
	CustomerID string     `grove:"customer_id"`
	InvoiceID  string     `grove:"invoice_id"`
	LastBilled *time.Time `grove:"last_billed"`
	Status     string     `grove:"status"`
	CreatedAt  time.Time  `grove:"created_at"`
	UpdatedAt  time.Time  `grove:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	var lastBilled *time.Time
	if p.LastBilled != nil {
		t := p.LastBilled.Time()
		lastBilled = &t
	}

	return &paymentModel{
		ID:         p.ID.String(),
		CustomerID: p.CustomerID.String(),
		InvoiceID:  p.InvoiceID.String(),
		LastBilled: lastBilled,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	paymentID, err := id.ParsePaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := id.ParseCustomerID(m.CustomerID)
	if err != nil {
		return nil, err
	}
	invID, err := id.ParseInvoiceID(m.InvoiceID)
	if err != nil {
		return nil, err
	}

	var lastBilled *types.Date
	if m.LastBilled != nil {
		d := types.DateOf(*m.LastBilled)
		lastBilled = &d
	}

	return &payment.Payment{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         paymentID,
		CustomerID: customerID,
		InvoiceID:  invID,
		LastBilled: lastBilled,
		Status:     payment.Status(m.Status),
	}, nil
}
