package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/export"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// requestTimeout bounds the outbound fetches made on behalf of one request.
const requestTimeout = 15 * time.Second

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cityname", func(fl validator.FieldLevel) bool {
		return common.ValidCityName(fl.Field().String())
	})
	return v
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		reading, err := service.Current(ctx, loc.toLocation())
		if err != nil {
			return pipelineError(err)
		}
		return c.JSON(reading)
	})

	v1.Get("/weather/current/details", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		details, err := service.CurrentDetails(ctx, loc.toLocation())
		if err != nil {
			return pipelineError(err)
		}
		return c.JSON(details)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		readings, err := service.Forecast(ctx, loc.toLocation())
		if err != nil {
			return pipelineError(err)
		}
		return c.JSON(fiber.Map{
			"location": loc.toLocation(),
			"readings": readings,
		})
	})

	v1.Get("/weather/forecast/daily", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		days, err := service.Daily(ctx, loc.toLocation())
		if err != nil {
			return pipelineError(err)
		}
		return c.JSON(fiber.Map{
			"location": loc.toLocation(),
			"days":     days,
		})
	})

	v1.Get("/weather/forecast/pressure", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		series, err := service.PressureSeries(ctx, loc.toLocation())
		if err != nil {
			return pipelineError(err)
		}
		return c.JSON(series)
	})

	v1.Get("/weather/export", func(c *fiber.Ctx) error {
		var req exportQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		// Render fully before responding so a failure never yields a truncated file.
		var buf bytes.Buffer
		loc := req.Location.toLocation()
		dataset := export.Dataset(req.Dataset)

		switch dataset {
		case export.DatasetCurrent:
			reading, err := service.Current(ctx, loc)
			if err != nil {
				return pipelineError(err)
			}
			err = export.WriteReadings(&buf, []weather.NormalizedReading{reading})
			if err != nil {
				return err
			}
		case export.DatasetForecast:
			readings, err := service.Forecast(ctx, loc)
			if err != nil {
				return pipelineError(err)
			}
			if err := export.WriteReadings(&buf, readings); err != nil {
				return err
			}
		case export.DatasetDaily:
			days, err := service.Daily(ctx, loc)
			if err != nil {
				return pipelineError(err)
			}
			if err := export.WriteDaily(&buf, days); err != nil {
				return err
			}
		}

		c.Attachment(export.FileName(loc.City, dataset))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	})
}

// pipelineError maps a fetch/normalize failure to an HTTP error.
func pipelineError(err error) error {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found; please check the name")
	case weather.IsNormalizationError(err):
		log.Errorf("[api] unusable weather data: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		log.Errorf("[api] weather fetch failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required,cityname"`
	Country string `validate:"omitempty,alpha,max=3"`
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: l.Country,
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.City = strings.TrimSpace(c.Query("city"))
	q.Country = strings.TrimSpace(c.Query("country"))

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// exportQuery holds query parameters for the CSV export endpoint.
type exportQuery struct {
	Location locationQuery
	Dataset  string `validate:"required,oneof=current forecast daily"`
}

func (e *exportQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	e.Location = loc
	e.Dataset = c.Query("dataset", string(export.DatasetForecast))

	return validate.Struct(e)
}

// ErrorHandler renders every error as a JSON body with the matching status code.
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
