package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "sajavathub"

// DomainMetrics counts checkout and vendor onboarding outcomes.
type DomainMetrics struct {
	ordersPlaced    *prometheus.CounterVec
	orderRejections *prometheus.CounterVec
	orderValue      prometheus.Counter
	otpRequests     *prometheus.CounterVec
	otpVerification *prometheus.CounterVec
	vendorsCreated  prometheus.Counter
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	m := &DomainMetrics{
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders persisted, by payment method.",
		}, []string{"payment_method"}),
		orderRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_rejections_total",
			Help:      "Orders rejected before persistence, by reason.",
		}, []string{"reason"}),
		orderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_value_inr_total",
			Help:      "Sum of placed order totals in INR.",
		}),
		otpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_requests_total",
			Help:      "OTP issuance attempts, by outcome.",
		}, []string{"outcome"}),
		otpVerification: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_verifications_total",
			Help:      "OTP verification attempts, by outcome.",
		}, []string{"outcome"}),
		vendorsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendors_registered_total",
			Help:      "Vendors registered after OTP verification.",
		}),
	}
	reg.MustRegister(m.ordersPlaced, m.orderRejections, m.orderValue, m.otpRequests, m.otpVerification, m.vendorsCreated)
	return m
}

func (m *DomainMetrics) OrderPlaced(paymentMethod string, total int64) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	if total > 0 {
		m.orderValue.Add(float64(total))
	}
}

func (m *DomainMetrics) OrderRejected(reason string) {
	if m == nil || m.orderRejections == nil {
		return
	}
	m.orderRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *DomainMetrics) OTPRequested(outcome string) {
	if m == nil || m.otpRequests == nil {
		return
	}
	m.otpRequests.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *DomainMetrics) OTPVerified(outcome string) {
	if m == nil || m.otpVerification == nil {
		return
	}
	m.otpVerification.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *DomainMetrics) VendorRegistered() {
	if m == nil || m.vendorsCreated == nil {
		return
	}
	m.vendorsCreated.Inc()
}
