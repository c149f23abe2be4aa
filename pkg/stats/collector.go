package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"go-predecode/pkg/predecode"
)

// Collector exposes decoder activity to prometheus
type Collector struct {
	Events         *prometheus.CounterVec
	Queues         *prometheus.CounterVec
	EnvelopeErrors prometheus.Counter
	LastHour       prometheus.Gauge
	LastWeekday    prometheus.Gauge
}

func NewCollector() *Collector {
	return &Collector{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predecode_events_total",
				Help: "Total number of decoded records by recognized timestamp format.",
			},
			[]string{"format"},
		),
		Queues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predecode_queue_events_total",
				Help: "Total number of decoded records by queue type.",
			},
			[]string{"queue"},
		),
		EnvelopeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "predecode_envelope_errors_total",
			Help: "Total number of records dropped due to malformed envelope.",
		}),
		LastHour: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "predecode_last_hour",
			Help: "Hour of day of the most recently decoded record.",
		}),
		LastWeekday: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "predecode_last_weekday",
			Help: "Weekday of the most recently decoded record, sunday is 0.",
		}),
	}
}

func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.Events,
		c.Queues,
		c.EnvelopeErrors,
		c.LastHour,
		c.LastWeekday,
	)
}

// Observe records a decoded event
// Hour and weekday gauges come from the event clock snapshot
func (c *Collector) Observe(ev *predecode.Event) {
	if ev == nil {
		return
	}
	c.Events.WithLabelValues(ev.Format.String()).Inc()
	c.Queues.WithLabelValues(ev.Queue.String()).Inc()
	c.LastHour.Set(float64(ev.Time.Hour()))
	c.LastWeekday.Set(float64(ev.Time.Weekday()))
}

func (c *Collector) EnvelopeError() { c.EnvelopeErrors.Inc() }
