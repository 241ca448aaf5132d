package checkout

import (
	"strings"

	"ecofinds/internal/apperr"
	"ecofinds/internal/payment"
)

// Details holds whatever the buyer has typed for the selected method.
type Details struct {
	CardNumber      string `json:"card_number,omitempty"`
	CardExpiry      string `json:"card_expiry,omitempty"`
	CardCVV         string `json:"card_cvv,omitempty"`
	CardName        string `json:"card_name,omitempty"`
	UPIID           string `json:"upi_id,omitempty"`
	Bank            string `json:"bank,omitempty"`
	Wallet          string `json:"wallet,omitempty"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
}

// merge overwrites fields of d with the non-empty fields of other.
func (d *Details) merge(other Details) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&d.CardNumber, other.CardNumber)
	set(&d.CardExpiry, other.CardExpiry)
	set(&d.CardCVV, other.CardCVV)
	set(&d.CardName, other.CardName)
	set(&d.UPIID, other.UPIID)
	set(&d.Bank, other.Bank)
	set(&d.Wallet, other.Wallet)
	set(&d.PaymentMethodID, other.PaymentMethodID)
}

// validate checks that every field required by method is present.
func (d Details) validate(method payment.Method) error {
	switch method {
	case payment.MethodCreditCard:
		if d.PaymentMethodID != "" {
			return nil
		}
		if d.CardNumber == "" || d.CardExpiry == "" || d.CardCVV == "" || d.CardName == "" {
			return apperr.Validation("Please fill in all card details")
		}
	case payment.MethodUPI:
		if d.UPIID == "" {
			return apperr.Validation("Please enter your UPI ID")
		}
	case payment.MethodNetBanking:
		if d.Bank == "" {
			return apperr.Validation("Please select your bank")
		}
	case payment.MethodWallet:
		if d.Wallet == "" {
			return apperr.Validation("Please select a wallet")
		}
	default:
		return payment.ErrMethodNotSupported
	}
	return nil
}

// record is the part of the details safe to keep on the purchase.
func (d Details) record(method payment.Method) map[string]interface{} {
	out := map[string]interface{}{"method": string(method)}
	switch method {
	case payment.MethodCreditCard:
		if digits := payment.NormalizeCardNumber(d.CardNumber); len(digits) >= 4 {
			out["card_last4"] = digits[len(digits)-4:]
		}
		if d.CardName != "" {
			out["card_name"] = d.CardName
		}
	case payment.MethodUPI:
		out["upi_id"] = d.UPIID
	case payment.MethodNetBanking:
		out["bank"] = d.Bank
	case payment.MethodWallet:
		out["wallet"] = d.Wallet
	}
	return out
}
