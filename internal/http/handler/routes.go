package handler

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/export"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/ingest"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/recon"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers translate transport concerns only; business rules live in the
// services.
func RegisterRoutes(app *fiber.App, batchSvc service.BatchService, reconSvc service.ReconService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck())
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/batches", UploadBatch(batchSvc))
	app.Get("/batches", ListBatches(batchSvc))
	app.Get("/batches/:id", GetBatch(batchSvc))
	app.Delete("/batches/:id", DeleteBatch(batchSvc))
	app.Post("/batches/:id/clean", CleanBatch(batchSvc))
	app.Get("/batches/:id/download", DownloadBatch(batchSvc))

	app.Post("/reconciliations", RunReconciliation(reconSvc))
	app.Get("/reconciliations", ListReports(reconSvc))
	app.Get("/reconciliations/:id", GetReport(reconSvc))
	app.Get("/reconciliations/:id/export", ExportReport(reconSvc))
}

// HealthCheck reports readiness. Batches and reports live in process memory,
// so a responding process is a healthy one.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// UploadBatch accepts a multipart upload (field "file") with a "family" form
// value of gstr2a or invoice, validates it can be parsed, and stores it.
func UploadBatch(svc service.BatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		family := model.FileFamily(c.FormValue("family"))
		if !family.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FAMILY", "family must be gstr2a or invoice")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		batch, err := svc.Upload(c.UserContext(), f, fh.Filename, family, ct, fh.Size)
		if err != nil {
			return writeUploadError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(batch)
	}
}

func writeUploadError(c *fiber.Ctx, err error) error {
	var missing *ingest.MissingColumnsError
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the upload size limit")
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT", "only CSV and XLSX files are accepted")
	case errors.Is(err, ingest.ErrNoHeader):
		return writeError(c, fiber.StatusUnprocessableEntity, "NO_HEADER", "file has no header row")
	case errors.As(err, &missing):
		return writeError(c, fiber.StatusUnprocessableEntity, "MISSING_COLUMNS", missing.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ListBatches lists batches with limit & offset pagination.
func ListBatches(svc service.BatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetBatch returns one batch by ID.
func GetBatch(svc service.BatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		batch, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrBatchNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "batch not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(batch)
	}
}

// DeleteBatch removes a batch and its stored original. Reports produced from
// the batch remain.
func DeleteBatch(svc service.BatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrBatchNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "batch not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CleanBatch normalizes an uploaded batch into matchable records.
func CleanBatch(svc service.BatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		batch, err := svc.Clean(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrBatchNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "batch not found")
			case errors.Is(err, service.ErrBatchNotCleanable):
				return writeError(c, fiber.StatusConflict, "NOT_CLEANABLE", "batch is not in uploaded state")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(batch)
	}
}

// DownloadBatch returns a time-limited presigned URL for the batch's stored
// original file.
func DownloadBatch(svc service.BatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.DownloadURL(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrBatchNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "batch not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// runReconciliationRequest is the POST /reconciliations body. Tolerance is
// optional; absent fields fall back to the configured defaults.
type runReconciliationRequest struct {
	AuthorityBatchID string           `json:"authority_batch_id"`
	InvoiceBatchID   string           `json:"invoice_batch_id"`
	Tolerance        *recon.Tolerance `json:"tolerance,omitempty"`
}

// RunReconciliation runs the matching engine over two cleaned batches and
// returns the stored report.
func RunReconciliation(svc service.ReconService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req runReconciliationRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.AuthorityBatchID == "" || req.InvoiceBatchID == "" {
			return writeError(c, fiber.StatusBadRequest, "IDS_REQUIRED", "authority_batch_id and invoice_batch_id are required")
		}

		report, err := svc.Run(c.UserContext(), req.AuthorityBatchID, req.InvoiceBatchID, req.Tolerance)
		if err != nil {
			return writeRunError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	}
}

func writeRunError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "batch not found")
	case errors.Is(err, service.ErrSameBatch):
		return writeError(c, fiber.StatusBadRequest, "SAME_BATCH", "authority and invoice batch must differ")
	case errors.Is(err, service.ErrFamilyMismatch):
		return writeError(c, fiber.StatusConflict, "FAMILY_MISMATCH", "batch family does not fit the requested side")
	case errors.Is(err, service.ErrBatchNotCleaned):
		return writeError(c, fiber.StatusConflict, "NOT_CLEANED", "batch has not been cleaned")
	case errors.Is(err, recon.ErrInvalidTolerance):
		return writeError(c, fiber.StatusBadRequest, "INVALID_TOLERANCE", "tolerance configuration is invalid")
	case errors.Is(err, recon.ErrInput):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNPROCESSABLE_INPUT", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ListReports lists reconciliation reports, newest first.
func ListReports(svc service.ReconService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetReport returns one report by ID.
func GetReport(svc service.ReconService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		report, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrReportNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "report not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(report)
	}
}

// ExportReport streams a report as an XLSX download.
func ExportReport(svc service.ReconService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var buf bytes.Buffer
		filename, err := svc.Export(c.UserContext(), id, &buf)
		if err != nil {
			if errors.Is(err, service.ErrReportNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "report not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, export.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}

