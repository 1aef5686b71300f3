package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// NewMetricsMiddleware считает запросы по методу, шаблону маршрута и статусу.
func NewMetricsMiddleware(reg prometheus.Registerer) fiber.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aits_fakeapi",
		Name:      "requests_total",
		Help:      "Requests served by method, route and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(requests)

	return func(c fiber.Ctx) error {
		err := c.Next()
		requests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(c.Response().StatusCode())).Inc()
		return err
	}
}
