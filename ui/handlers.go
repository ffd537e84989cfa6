package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"csvexplorer/app"
	domain "csvexplorer/domain/dataset"
	"csvexplorer/internal/charts"
	"csvexplorer/internal/errors"
	"csvexplorer/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// pageView is what the layout template renders
type pageView struct {
	*app.Page
	Kind        charts.Kind
	MaxUploadMB int64
}

func (s *Server) view(page *app.Page) pageView {
	v := pageView{Page: page, MaxUploadMB: s.opts.MaxUploadBytes >> 20}
	if page.Charts != nil {
		v.Kind = page.Charts.Plan.Kind
	}
	return v
}

// handleIndex renders the explorer for the current session
func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, http.StatusOK, interaction(c, c.Query("tab")))
}

// handleUpload ingests a multipart CSV upload and renders the page with the outcome
func (s *Server) handleUpload(c *gin.Context) {
	in := interaction(c, c.Query("tab"))
	limit := s.opts.MaxUploadBytes + uploadOverhead

	if c.Request.ContentLength > limit {
		s.rejectUpload(c, in, http.StatusRequestEntityTooLarge, s.tooLarge())
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			s.rejectUpload(c, in, http.StatusRequestEntityTooLarge, s.tooLarge())
		case stderrors.Is(err, http.ErrMissingFile):
			s.rejectUpload(c, in, http.StatusBadRequest, "Please choose a CSV file to upload.")
		default:
			s.rejectUpload(c, in, http.StatusBadRequest, "Could not read the upload: "+err.Error())
		}
		return
	}
	defer file.Close()

	msg, err := s.explorer.Upload(c.Request.Context(), sessionID(c), &domain.DatasetUpload{
		Filename: header.Filename,
		File:     file,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
	})
	if err != nil {
		s.logger.Error("[Upload] Session %s: %v", sessionID(c), err)
		c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if msg.Level == app.LevelError {
		status = http.StatusBadRequest
	}
	in.Messages = append(in.Messages, msg)
	s.renderPage(c, status, in)
}

func (s *Server) tooLarge() string {
	return fmt.Sprintf("file exceeds the maximum allowed size of %d bytes", s.opts.MaxUploadBytes)
}

func (s *Server) rejectUpload(c *gin.Context, in app.Interaction, status int, text string) {
	s.logger.Warn("[Upload] Rejected for session %s: %s", sessionID(c), text)
	in.Messages = append(in.Messages, app.Message{Level: app.LevelError, Text: "Error reading the CSV: " + text})
	s.renderPage(c, status, in)
}

// handleReset drops the session's dataset and sends the browser back to the page
func (s *Server) handleReset(c *gin.Context) {
	if err := s.explorer.Reset(c.Request.Context(), sessionID(c)); err != nil {
		s.logger.Error("[Reset] Session %s: %v", sessionID(c), err)
		c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	target := "/"
	if tab := c.Query("tab"); tab != "" {
		target += "?tab=" + string(app.ParseTab(tab))
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) renderPage(c *gin.Context, status int, in app.Interaction) {
	page, err := s.explorer.Render(c.Request.Context(), sessionID(c), in)
	if err != nil {
		s.logger.Error("[Page] Session %s: %v", sessionID(c), err)
		c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	s.renderTemplate(c, status, fragments.Index, s.view(page))
}

// handleSummary returns the overview and statistics projections as JSON
func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.explorer.Summary(c.Request.Context(), sessionID(c))
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleCleaning returns the missing value report as JSON
func (s *Server) handleCleaning(c *gin.Context) {
	report, err := s.explorer.Cleaning(c.Request.Context(), sessionID(c), queryBool(c.Query("missing_rows")), queryInt(c.Query("limit")))
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleChart streams the chart as PNG, or explains as JSON why nothing was drawn
func (s *Server) handleChart(c *gin.Context) {
	req := chartRequest(c)
	if _, ok := charts.ParseKind(string(req.Kind)); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown chart kind", "notice": charts.NoticeUnknownKind, "kinds": charts.Kinds})
		return
	}

	result, err := s.explorer.Chart(c.Request.Context(), sessionID(c), req)
	if err != nil {
		s.apiError(c, err)
		return
	}
	if result.Chart == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"notice":   result.Plan.Notice,
			"warnings": result.Plan.Warnings,
			"plan":     result.Plan,
		})
		return
	}

	for _, w := range result.Plan.Warnings {
		c.Writer.Header().Add("X-Chart-Warning", w)
	}
	c.Data(http.StatusOK, "image/png", result.Chart.PNG)
}

func (s *Server) apiError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
	if errors.GetCode(err) == errors.CodeNoDataset {
		body["notice"] = app.NoDatasetNotice
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, body)
}
