// Package http expone el API de reportes en modo solo lectura: la fuente de
// verdad siguen siendo los archivos de BrickLink, el API solo corre la
// reconciliación y devuelve el resultado.
package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Report *ReportHandler
}

// Router registra las rutas del API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/report", deps.Report.GetReport)
	api.Get("/runs", deps.Report.GetRuns)
}
