package httpapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/cwa-station-overlay/internal/measure"
	"github.com/i474232898/cwa-station-overlay/internal/overlay"
	"github.com/i474232898/cwa-station-overlay/internal/search"
	"github.com/i474232898/cwa-station-overlay/internal/views"
	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

var validate = validator.New()

// Deps are the components the HTTP API reads and drives.
type Deps struct {
	Service   *weather.Service
	Resolver  *search.Resolver
	Canvas    *overlay.Canvas
	Labels    *overlay.LabelController
	Navigator *overlay.Navigator
	Logger    *slog.Logger

	// RefreshTimeout bounds a refresh started over HTTP.
	RefreshTimeout time.Duration
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterOps wires health, readiness and metrics endpoints.
func RegisterOps(app *fiber.App, service *weather.Service, appName string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	app.Get("/readyz", func(c *fiber.Ctx) error {
		if err := service.CheckReadiness(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return views.RenderSummaries(c, views.NewSummaryPage(d.Service.Status()))
	})

	v1 := app.Group("/api/v1")

	v1.Get("/summaries", func(c *fiber.Ctx) error {
		return c.JSON(d.Service.Status())
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(d.Service.Stations())
	})

	v1.Get("/stations/:id", func(c *fiber.Ctx) error {
		rec, err := d.Service.GetStation(c.Params("id"))
		if err != nil {
			if errors.Is(err, weather.ErrStationNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no station with requested id")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read station")
		}
		return c.JSON(rec)
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		var q searchQuery
		if err := c.QueryParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := d.Resolver.Resolve(q.Q)
		if err != nil {
			if errors.Is(err, search.ErrInvalidCoordinate) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "search failed")
		}

		var marker overlay.MarkerID
		switch res.Kind {
		case search.KindCoordinate:
			marker, err = d.Navigator.FocusCoordinate(*res.Position)
		case search.KindStationMatch:
			marker, err = d.Navigator.FocusStation(*res.Station)
		default:
			d.Navigator.Clear()
			return fiber.NewError(fiber.StatusNotFound, "no station or coordinate matches the query")
		}
		if err != nil && !errors.Is(err, overlay.ErrNoMarker) {
			d.Logger.Warn("focus search result", "query", q.Q, "error", err)
		}

		return c.JSON(fiber.Map{
			"result": res,
			"marker": marker,
		})
	})

	v1.Put("/labels", func(c *fiber.Ctx) error {
		var req visibilityRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		d.Labels.SetVisible(*req.Visible)
		return c.JSON(fiber.Map{"visible": d.Labels.Visible()})
	})

	v1.Put("/layers/:layer", func(c *fiber.Ctx) error {
		var req visibilityRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		layer := overlay.Layer(c.Params("layer"))
		if err := d.Canvas.SetLayerVisible(layer, *req.Visible); err != nil {
			if errors.Is(err, overlay.ErrUnknownLayer) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to toggle layer")
		}
		return c.JSON(fiber.Map{"layer": layer, "visible": *req.Visible})
	})

	v1.Get("/overlay", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"labelsVisible": d.Labels.Visible(),
			"surface":       d.Canvas.Snapshot(),
		})
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		if err := d.Service.RefreshAsync(d.RefreshTimeout); err != nil {
			if errors.Is(err, weather.ErrRefreshInProgress) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to start refresh")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "refresh started"})
	})

	v1.Post("/measure", func(c *fiber.Ctx) error {
		var req measure.Request
		if err := bindBody(c, &req); err != nil {
			return err
		}
		shape, err := req.Shape()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		desc, err := shape.Describe()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{"kind": req.Kind, "description": desc})
	})
}

type searchQuery struct {
	Q string `query:"q" validate:"max=200"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
