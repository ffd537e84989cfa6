package app

import (
	"context"
	"fmt"
	"time"

	"csvexplorer/domain/core"
	domain "csvexplorer/domain/dataset"
	"csvexplorer/internal"
	"csvexplorer/internal/charts"
	"csvexplorer/internal/cleaning"
	"csvexplorer/internal/dataset"
	"csvexplorer/internal/errors"
	"csvexplorer/internal/profiling"
	"csvexplorer/internal/session"
	"csvexplorer/ports"
)

// ViewConfig holds per-render view limits
type ViewConfig struct {
	PreviewRows      int
	MissingRowsLimit int
}

// ExplorerService is the render loop: it loads session state, applies the transitions views
// propose and builds pages from the result
type ExplorerService struct {
	sessions  ports.SessionRepository
	processor *dataset.Processor
	metrics   *Metrics
	logger    *internal.Logger
	views     ViewConfig
}

// NewExplorerService creates an explorer service
func NewExplorerService(sessions ports.SessionRepository, processor *dataset.Processor, metrics *Metrics, logger *internal.Logger, views ViewConfig) *ExplorerService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if views.PreviewRows <= 0 {
		views.PreviewRows = profiling.DefaultPreviewRows
	}
	if views.MissingRowsLimit <= 0 {
		views.MissingRowsLimit = cleaning.DefaultRowsLimit
	}
	return &ExplorerService{
		sessions:  sessions,
		processor: processor,
		metrics:   metrics,
		logger:    logger,
		views:     views,
	}
}

// Upload ingests a CSV and, only if it parses, replaces the session's dataset.
// Parse problems come back as a page message; the returned error is reserved for
// session store failures.
func (s *ExplorerService) Upload(ctx context.Context, sid core.SessionID, upload *domain.DatasetUpload) (Message, error) {
	start := time.Now()

	ds, err := s.processor.ProcessUpload(ctx, upload)
	if err != nil {
		s.metrics.upload(false)
		s.logger.Warn("[ExplorerService] Upload rejected for session %s: %v", sid, err)
		return Message{Level: LevelError, Text: fmt.Sprintf("Error reading the CSV: %v", err)}, nil
	}

	if _, err := s.sessions.Apply(ctx, sid, session.Replace(ds)); err != nil {
		s.metrics.upload(false)
		return Message{}, errors.Wrap(err, "failed to store dataset")
	}

	s.metrics.upload(true)
	s.logger.Info("[ExplorerService] Session %s loaded %s (%d rows x %d columns) in %s",
		sid, ds.Filename, ds.Nrow(), ds.Ncol(), time.Since(start).Round(time.Millisecond))
	return Message{Level: LevelSuccess, Text: "CSV file loaded successfully!"}, nil
}

// Reset drops the session's dataset
func (s *ExplorerService) Reset(ctx context.Context, sid core.SessionID) error {
	if _, err := s.sessions.Apply(ctx, sid, cleaning.ResetTransition()); err != nil {
		return errors.Wrap(err, "failed to reset session")
	}
	s.logger.Info("[ExplorerService] Session %s reset", sid)
	return nil
}

// Render builds the full page for one interaction
func (s *ExplorerService) Render(ctx context.Context, sid core.SessionID, in Interaction) (*Page, error) {
	state, err := s.sessions.Load(ctx, sid)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}

	if in.PreviewRows <= 0 {
		in.PreviewRows = s.views.PreviewRows
	}
	if in.MissingRowsLimit <= 0 {
		in.MissingRowsLimit = s.views.MissingRowsLimit
	}

	page := BuildPage(state, in)
	s.metrics.render(page.Tab)
	if page.Charts != nil && page.Tab == TabCharts {
		s.metrics.chart(page.Charts.Plan.Kind, chartOutcome(page.Charts.Plan, page.Charts.Chart))
	}

	s.logger.Debug("[ExplorerService] Rendered %s tab for session %s", page.Tab, sid)
	return page, nil
}

// Chart draws a single chart for the session's dataset
func (s *ExplorerService) Chart(ctx context.Context, sid core.SessionID, req charts.Request) (charts.Result, error) {
	state, err := s.loadDataset(ctx, sid)
	if err != nil {
		return charts.Result{}, err
	}

	result, err := charts.Draw(state.Dataset, req)
	if err != nil {
		s.metrics.chart(result.Plan.Kind, "failed")
		s.logger.Error("[ExplorerService] Chart %s failed for session %s: %v", result.Plan.Kind, sid, err)
		return result, err
	}
	s.metrics.chart(result.Plan.Kind, chartOutcome(result.Plan, result.Chart))
	s.logger.Trace("[ExplorerService] Chart plan for session %s: kind=%s x=%q y=%q group=%q ready=%t",
		sid, result.Plan.Kind, result.Plan.X, result.Plan.Y, result.Plan.Group, result.Plan.Ready)
	return result, nil
}

// Summary returns the overview and statistics projections
func (s *ExplorerService) Summary(ctx context.Context, sid core.SessionID) (*profiling.Summary, error) {
	state, err := s.loadDataset(ctx, sid)
	if err != nil {
		return nil, err
	}
	summary := profiling.Build(state.Dataset, s.views.PreviewRows)
	return &summary, nil
}

// Cleaning returns the missing value report
func (s *ExplorerService) Cleaning(ctx context.Context, sid core.SessionID, showRows bool, limit int) (*cleaning.Report, error) {
	state, err := s.loadDataset(ctx, sid)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.views.MissingRowsLimit
	}
	report := cleaning.Inspect(state.Dataset, showRows, limit)
	return &report, nil
}

func (s *ExplorerService) loadDataset(ctx context.Context, sid core.SessionID) (session.State, error) {
	state, err := s.sessions.Load(ctx, sid)
	if err != nil {
		return state, errors.Wrap(err, "failed to load session")
	}
	if !state.HasDataset() {
		return state, errors.NoDataset()
	}
	return state, nil
}

func chartOutcome(plan charts.Plan, c *charts.Chart) string {
	switch {
	case c != nil:
		return "rendered"
	case plan.Notice != "":
		return "notice"
	default:
		return "unselected"
	}
}
