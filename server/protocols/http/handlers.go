package http

import (
	"fmt"
	"io"
	"time"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/credentials"
	"github.com/TebbyShelby/pricecatcher/server/drive"
	"github.com/TebbyShelby/pricecatcher/server/query"
	"github.com/TebbyShelby/pricecatcher/server/workspace"
	"github.com/gofiber/fiber/v2"
)

// notification is the transient toast payload the page renders
type notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// queryRequest is the body of POST /api/query
type queryRequest struct {
	SQL string `json:"sql"`
}

// handleIndex serves the embedded single page
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(uiPage)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    "pricecatcher-http",
	})
}

// handleCredentials accepts the uploaded service-account document,
// either as a raw JSON body or as a multipart form file. Any
// well-formed JSON is stored; malformed input is rejected without
// touching previously stored credentials.
func (s *Server) handleCredentials(c *fiber.Ctx) error {
	body := c.Body()

	if fh, err := c.FormFile("credentials"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return s.fail(c, errors.New(ErrInvalidInput, "failed to read uploaded file", err))
		}
		defer f.Close()
		body, err = io.ReadAll(f)
		if err != nil {
			return s.fail(c, errors.New(ErrInvalidInput, "failed to read uploaded file", err))
		}
	}

	if len(body) == 0 {
		return s.fail(c, errors.New(ErrMissingBody, "no credentials file in request", nil))
	}

	summary, err := currentWorkspace(c).SetCredentials(body)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"summary":      summary,
		"notification": notification{Level: "success", Message: "Credentials loaded"},
	})
}

// handleConnect downloads the remote database and opens the session
func (s *Server) handleConnect(c *fiber.Ctx) error {
	ws := currentWorkspace(c)

	if err := ws.Connect(c.Context()); err != nil {
		return s.fail(c, err)
	}

	schema, err := ws.Schema()
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"state":        ws.State(),
		"schema":       schema,
		"notification": notification{Level: "success", Message: "Connected successfully!"},
	})
}

// handleSchema returns the schema snapshot of the connected database
func (s *Server) handleSchema(c *fiber.Ctx) error {
	schema, err := currentWorkspace(c).Schema()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"schema": schema})
}

// handleQuery executes the submitted SQL verbatim
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, errors.New(ErrInvalidInput, "invalid query request body", err))
	}

	ws := currentWorkspace(c)
	result, err := ws.ExecuteQuery(c.Context(), req.SQL)
	if err != nil {
		return s.fail(c, err)
	}

	seconds := result.ElapsedSeconds()
	return c.JSON(fiber.Map{
		"queryId":          result.QueryID,
		"columns":          result.Columns,
		"rows":             result.Rows,
		"rowCount":         result.RowCount,
		"executionSeconds": seconds,
		"notification": notification{
			Level:   "success",
			Message: fmt.Sprintf("Query executed in %.2f seconds", seconds),
		},
	})
}

// handleExport returns the last result as a CSV attachment
func (s *Server) handleExport(c *fiber.Ctx) error {
	out, err := currentWorkspace(c).ExportCSV()
	if err != nil {
		return s.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="results.csv"`)
	return c.SendString(out)
}

// handleStatus reports the workspace and server state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	ws := currentWorkspace(c)
	return c.JSON(fiber.Map{
		"state":          ws.State(),
		"hasCredentials": ws.HasCredentials(),
		"server":         s.GetStatus(),
	})
}

// fail converts an error into a JSON response with a toast payload.
// The message text is surfaced verbatim so engine errors reach the
// user unchanged; the error code picks the status.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	s.logger.Error().Err(err).Str("path", c.Path()).Msg("Request failed")

	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error":        err.Error(),
		"code":         errors.GetCode(err),
		"notification": notification{Level: "error", Message: err.Error()},
	})
}

// statusForError maps tagged error codes onto HTTP statuses
func statusForError(err error) int {
	switch {
	case errors.HasCode(err, workspace.ErrCredentialsMissing),
		errors.HasCode(err, workspace.ErrNotConnected),
		errors.HasCode(err, workspace.ErrNoResult),
		errors.HasCode(err, ErrMissingBody),
		errors.HasCode(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.HasCode(err, credentials.ErrInvalidJSON),
		errors.HasCode(err, credentials.ErrEmptyUpload):
		return fiber.StatusBadRequest
	// Bad SQL is the user's input, not a server fault
	case errors.HasCode(err, query.ErrExecutionFailed):
		return fiber.StatusBadRequest
	case errors.HasCode(err, drive.ErrNotFound):
		return fiber.StatusNotFound
	case errors.HasCode(err, drive.ErrAuthFailed):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
