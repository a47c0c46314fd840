package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestObserver lo implementa *metrics.HTTPRecorder.
type requestObserver interface {
	Observe(route, method, code string, elapsed time.Duration)
}

// MetricsMiddleware registra ruta (patrón, no path concreto), método, código y latencia.
func MetricsMiddleware(obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		obs.Observe(c.Route().Path, c.Method(), strconv.Itoa(status), time.Since(start))
		return err
	}
}
