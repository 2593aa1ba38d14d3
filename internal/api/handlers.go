package api

import (
	"bytes"
	"time"

	"vehicle-fit/internal/domain"
	"vehicle-fit/internal/importer"
	"vehicle-fit/internal/metrics"
	"vehicle-fit/internal/report"
	"vehicle-fit/internal/service"
	"vehicle-fit/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, feasibilityService *service.FeasibilityService) {
	health := HealthCheckHandler(feasibilityService)
	app.Get("/healthz", health)
	app.Get("/actuator/health", health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := app.Group("/api/v1")
	v1.Get("/vehicles", CatalogHandler(feasibilityService))
	v1.Post("/feasibility/compute", ComputeHandler(feasibilityService))

	sessions := v1.Group("/sessions")
	sessions.Post("/", CreateSessionHandler(feasibilityService))
	sessions.Get("/:id", GetSessionHandler(feasibilityService))
	sessions.Delete("/:id", DeleteSessionHandler(feasibilityService))
	sessions.Post("/:id/loads", AddLoadHandler(feasibilityService))
	sessions.Post("/:id/loads/import", ImportLoadsHandler(feasibilityService))
	sessions.Delete("/:id/loads", ClearLoadsHandler(feasibilityService))
	sessions.Delete("/:id/loads/:index", RemoveLoadHandler(feasibilityService))
	sessions.Post("/:id/compute", SessionComputeHandler(feasibilityService))
	sessions.Get("/:id/report.xlsx", ReportHandler(feasibilityService, formatExcel))
	sessions.Get("/:id/report.pdf", ReportHandler(feasibilityService, formatPDF))
}

func HealthCheckHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "UP",
			"service": "Vehicle Fit API",
			"version": "1.0.0",
			"engine":  feasibilityService.HealthCheck(),
		})
	}
}

type sessionResponse struct {
	ID             string             `json:"id"`
	Loads          []domain.LoadItem  `json:"loads"`
	Totals         domain.Totals      `json:"totals"`
	LastEvaluation *domain.Evaluation `json:"last_evaluation,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	loads := sess.Loads.Snapshot()
	return sessionResponse{
		ID:             sess.ID,
		Loads:          loads,
		Totals:         domain.ComputeTotals(loads),
		LastEvaluation: sess.Last,
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
	}
}

func CatalogHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cat := feasibilityService.Catalog()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"vehicles":    cat.Vehicles(),
			"names":       cat.Names(),
			"envelope":    cat.Envelope(),
			"fill_factor": domain.FillFactor,
		})
	}
}

func ComputeHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var request domain.ComputeRequest
		if err := c.BodyParser(&request); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(domain.ErrorResponse{
				Error: domain.ErrorDetail{
					Code:    fiber.StatusBadRequest,
					Message: "Invalid JSON format",
					Details: err.Error(),
				},
			})
		}

		evaluation, err := feasibilityService.Evaluate(request)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(evaluation)
	}
}

func CreateSessionHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := feasibilityService.CreateSession(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newSessionResponse(sess))
	}
}

func GetSessionHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := feasibilityService.Session(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(newSessionResponse(sess))
	}
}

func DeleteSessionHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := feasibilityService.DeleteSession(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func AddLoadHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input domain.LoadInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(domain.ErrorResponse{
				Error: domain.ErrorDetail{
					Code:    fiber.StatusBadRequest,
					Message: "Invalid JSON format",
					Details: err.Error(),
				},
			})
		}

		sess, err := feasibilityService.AddLoad(c.UserContext(), c.Params("id"), input)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newSessionResponse(sess))
	}
}

func ImportLoadsHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
		}
		file, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer file.Close()

		result := importer.Import(header.Filename, file)
		if !result.OK() {
			return c.Status(fiber.StatusBadRequest).JSON(domain.ErrorResponse{
				Error: domain.ErrorDetail{
					Code:    fiber.StatusBadRequest,
					Message: "import failed",
					Details: fiber.Map{"errors": result.Errors, "warnings": result.Warnings},
				},
			})
		}

		sess, err := feasibilityService.ImportLoads(c.UserContext(), c.Params("id"), result.Loads)
		if err != nil {
			return writeError(c, err)
		}
		resp := newSessionResponse(sess)
		resp.Warnings = result.Warnings
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

func RemoveLoadHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "load index must be an integer")
		}
		sess, err := feasibilityService.RemoveLoad(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(newSessionResponse(sess))
	}
}

func ClearLoadsHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := feasibilityService.ClearLoads(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(newSessionResponse(sess))
	}
}

func SessionComputeHandler(feasibilityService *service.FeasibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var request domain.ComputeRequest
		if len(bytes.TrimSpace(c.Body())) > 0 {
			if err := c.BodyParser(&request); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON format")
			}
		}
		if len(request.Loads) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "session compute uses the session's loads; add them with POST /loads")
		}

		evaluation, err := feasibilityService.Compute(c.UserContext(), c.Params("id"), request.Vehicles)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(evaluation)
	}
}

type reportFormat struct {
	name        string
	contentType string
	filename    string
	write       func(*bytes.Buffer, *domain.Evaluation) error
}

var (
	formatExcel = reportFormat{
		name:        "xlsx",
		contentType: report.ExcelContentType,
		filename:    "feasible_vehicles.xlsx",
		write: func(buf *bytes.Buffer, eval *domain.Evaluation) error {
			return report.WriteExcel(buf, eval)
		},
	}
	formatPDF = reportFormat{
		name:        "pdf",
		contentType: report.PDFContentType,
		filename:    "feasible_vehicles.pdf",
		write: func(buf *bytes.Buffer, eval *domain.Evaluation) error {
			return report.WritePDF(buf, eval)
		},
	}
)

// ReportHandler exports the session's last successful evaluation.
func ReportHandler(feasibilityService *service.FeasibilityService, format reportFormat) fiber.Handler {
	return func(c *fiber.Ctx) error {
		evaluation, err := feasibilityService.LastEvaluation(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}

		var buf bytes.Buffer
		if err := format.write(&buf, evaluation); err != nil {
			return writeError(c, err)
		}
		metrics.ReportsGenerated.WithLabelValues(format.name).Inc()

		c.Attachment(format.filename)
		c.Set(fiber.HeaderContentType, format.contentType)
		return c.Status(fiber.StatusOK).Send(buf.Bytes())
	}
}
