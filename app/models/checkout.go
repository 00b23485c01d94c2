package models

import "strings"

type PaymentMethod string

const (
	PaymentUPI PaymentMethod = "upi"
	PaymentCOD PaymentMethod = "cod"
)

// ParsePaymentMethod accepts the short form and the spelled-out
// "cash-on-delivery" alias.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upi":
		return PaymentUPI, true
	case "cod", "cash-on-delivery", "cash_on_delivery":
		return PaymentCOD, true
	}
	return "", false
}

type WizardStep string

const (
	StepAddress   WizardStep = "address"
	StepPayment   WizardStep = "payment"
	StepConfirmed WizardStep = "confirmed"
)

// AddressForm is the delivery address captured by the checkout and by the
// saved-addresses page.
type AddressForm struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Address  string `json:"address" validate:"required,min=10,max=500"`
	City     string `json:"city" validate:"required,min=2,max=100"`
	State    string `json:"state" validate:"required,min=2,max=100"`
	Pincode  string `json:"pincode" validate:"required,pincode"`
}

type CheckoutDraft struct {
	Address       AddressForm   `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Step          WizardStep    `json:"step"`
}

func NewCheckoutDraft() CheckoutDraft {
	return CheckoutDraft{
		PaymentMethod: PaymentUPI,
		Step:          StepAddress,
	}
}
