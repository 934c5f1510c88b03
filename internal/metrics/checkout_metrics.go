package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики создания заказов и захвата платежей.
// Все методы безопасны для nil получателя.
type CheckoutMetrics struct {
	ordersCreated       prometheus.Counter
	checkoutRejected    *prometheus.CounterVec
	integrityMismatches prometheus.Counter
	promoEvaluated      *prometheus.CounterVec
	captureResults      *prometheus.CounterVec
	reconcileResults    *prometheus.CounterVec
	checkoutDuration    prometheus.Histogram
}

// NewCheckoutMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewCheckoutMetrics() *CheckoutMetrics {
	return NewCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCheckoutMetricsWithRegisterer регистрирует метрики в переданном registerer.
func NewCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Total number of pending orders created",
		}),
		checkoutRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_rejected_total",
			Help: "Total number of checkout requests rejected before persistence",
		}, []string{"reason"}),
		integrityMismatches: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_integrity_mismatches_total",
			Help: "Total number of carts whose client hash did not match the server hash",
		}),
		promoEvaluated: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_promo_evaluated_total",
			Help: "Promo code evaluations by outcome",
		}, []string{"reason"}),
		captureResults: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_capture_results_total",
			Help: "Payment capture results by status",
		}, []string{"status"}),
		reconcileResults: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_reconcile_results_total",
			Help: "Pending order reconciliation results",
		}, []string{"result"}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Duration of checkout requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *CheckoutMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordCheckoutRejected увеличивает счётчик отклонённых корзин.
func (m *CheckoutMetrics) RecordCheckoutRejected(reason string) {
	if m == nil {
		return
	}
	m.checkoutRejected.WithLabelValues(reason).Inc()
}

// RecordIntegrityMismatch увеличивает счётчик расхождений хеша.
func (m *CheckoutMetrics) RecordIntegrityMismatch() {
	if m == nil {
		return
	}
	m.integrityMismatches.Inc()
}

// RecordPromoEvaluated учитывает результат проверки промокода.
func (m *CheckoutMetrics) RecordPromoEvaluated(reason string) {
	if m == nil {
		return
	}
	m.promoEvaluated.WithLabelValues(reason).Inc()
}

// RecordCapture учитывает результат захвата платежа.
func (m *CheckoutMetrics) RecordCapture(status string) {
	if m == nil {
		return
	}
	m.captureResults.WithLabelValues(status).Inc()
}

// RecordReconcile учитывает результат сверки pending заказа.
func (m *CheckoutMetrics) RecordReconcile(result string) {
	if m == nil {
		return
	}
	m.reconcileResults.WithLabelValues(result).Inc()
}

// RecordCheckoutDuration записывает время обработки checkout.
func (m *CheckoutMetrics) RecordCheckoutDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.checkoutDuration.Observe(duration.Seconds())
}
