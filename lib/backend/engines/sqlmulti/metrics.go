package sqlmulti

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// opMetrics holds the per-operation counters of one backend instance. The
// counters live in the process-wide default registry and are exposed by the
// serve command's metrics endpoint.
type opMetrics struct {
	set    *metrics.Counter
	get    *metrics.Counter
	delete *metrics.Counter
	has    *metrics.Counter
	scan   *metrics.Counter
	query  *metrics.Counter
	errors *metrics.Counter
}

func newOpMetrics(engine Engine) *opMetrics {
	counter := func(op string) *metrics.Counter {
		return metrics.GetOrCreateCounter(
			fmt.Sprintf(`skv_backend_ops_total{engine=%q,op=%q}`, engine, op))
	}
	return &opMetrics{
		set:    counter("set"),
		get:    counter("get"),
		delete: counter("delete"),
		has:    counter("has"),
		scan:   counter("scan"),
		query:  counter("query"),
		errors: metrics.GetOrCreateCounter(
			fmt.Sprintf(`skv_backend_errors_total{engine=%q}`, engine)),
	}
}

// countErr increments the error counter for non-nil errors and passes the
// error through, so call sites can wrap their return expression.
func (m *opMetrics) countErr(err error) error {
	if err != nil {
		m.errors.Inc()
	}
	return err
}
