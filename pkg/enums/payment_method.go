package enums

// PaymentMethod is how the buyer says they will pay at checkout.
type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodNetBanking PaymentMethod = "netBanking"
)

var paymentMethods = closedSet[PaymentMethod]{PaymentMethodUPI, PaymentMethodWallet, PaymentMethodNetBanking}

var paymentLabels = map[PaymentMethod]string{
	PaymentMethodUPI:        "UPI",
	PaymentMethodWallet:     "Wallet",
	PaymentMethodNetBanking: "Net banking",
}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool { return paymentMethods.has(p) }

// Label is the customer-facing name used in receipts.
func (p PaymentMethod) Label() string {
	if label, ok := paymentLabels[p]; ok {
		return label
	}
	return string(p)
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return paymentMethods.parse("payment method", value)
}
