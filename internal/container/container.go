// Package container provides dependency injection for the up-budget
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/up-budget/internal/budget"
	"fjacquet/up-budget/internal/config"
	"fjacquet/up-budget/internal/dashboard"
	"fjacquet/up-budget/internal/datasource"
	"fjacquet/up-budget/internal/dateutils"
	"fjacquet/up-budget/internal/export"
	"fjacquet/up-budget/internal/ledger"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/mockdata"
	"fjacquet/up-budget/internal/report"
	"fjacquet/up-budget/internal/store"
	"fjacquet/up-budget/internal/upapi"
)

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger logging.Logger
	source datasource.Source
	now    func() time.Time
}

// WithLogger replaces the logger built from configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSource replaces the configured banking data source.
func WithSource(source datasource.Source) Option {
	return func(o *options) { o.source = source }
}

// WithClock fixes the time the dashboard treats as now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation apart from the lazily opened ledger.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	location  *time.Location
	mode      string
	source    datasource.Source
	mappings  *store.MappingStore
	aiClient  *budget.GeminiClient
	matcher   *budget.Matcher
	dashboard *dashboard.Service
	reports   *report.ReportGenerator
	csv       *export.Writer
	now       func() time.Time

	ledgerMu sync.Mutex
	ledger   *ledger.Ledger
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	loc, err := dateutils.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, err
	}

	source, mode := buildSource(cfg, o.source, logger)

	mappingStore := store.NewMappingStore(cfg.Budget.MappingFile, logger)
	table, err := mappingStore.LoadMappings()
	if err != nil {
		return nil, fmt.Errorf("load budget mappings: %w", err)
	}

	strategies := []budget.MatchStrategy{
		budget.NewMappingStrategy(table, logger),
		budget.NewSubstringStrategy(),
	}

	var aiClient *budget.GeminiClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		aiClient, err = budget.NewGeminiClient(ctx, budget.GeminiConfig{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
			Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, budget.NewAIStrategy(aiClient, logger))
		logger.Info("AI category matching enabled")
	} else {
		logger.Debug("AI category matching disabled")
	}
	matcher := budget.NewMatcher(logger, strategies...)

	svc := dashboard.NewService(source, matcher, dashboard.Config{
		Mode:                     mode,
		Location:                 loc,
		ExcludeInternalFromTrend: cfg.Aggregate.ExcludeInternalFromTrend,
		Now:                      o.now,
	}, logger)

	now := o.now
	if now == nil {
		now = time.Now
	}

	logger.Debug("Container initialized successfully",
		logging.F("mode", mode),
		logging.F("timezone", loc.String()),
		logging.F("strategies", matcher.Strategies()))

	return &Container{
		logger:    logger,
		config:    cfg,
		location:  loc,
		mode:      mode,
		source:    source,
		mappings:  mappingStore,
		aiClient:  aiClient,
		matcher:   matcher,
		dashboard: svc,
		reports:   report.NewReportGenerator(logger),
		csv:       export.NewWriter(delimiter(cfg.CSV.Delimiter), logger),
		now:       now,
	}, nil
}

// buildSource serves the mock dataset in mock mode, otherwise the Up API
// with the mock dataset as fallback.
func buildSource(cfg *config.Config, override datasource.Source, logger logging.Logger) (datasource.Source, string) {
	if override != nil {
		return override, dashboard.ModeLive
	}
	if cfg.MockMode() {
		logger.Info("No Up API token configured, using mock data")
		return mockdata.NewSource(), dashboard.ModeMock
	}

	client := upapi.NewClient(upapi.Config{
		Token:           cfg.UpAPI.Token,
		BaseURL:         cfg.UpAPI.BaseURL,
		Timeout:         time.Duration(cfg.UpAPI.TimeoutSeconds) * time.Second,
		PageSize:        cfg.UpAPI.PageSize,
		MaxTransactions: cfg.UpAPI.MaxTransactions,
	}, logger)
	return datasource.NewFallbackSource(client, mockdata.NewSource(), logger), dashboard.ModeLive
}

func delimiter(s string) rune {
	for _, r := range s {
		return r
	}
	return ','
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetLocation returns the reporting timezone.
func (c *Container) GetLocation() *time.Location {
	return c.location
}

// GetDashboard returns the query service.
func (c *Container) GetDashboard() *dashboard.Service {
	return c.dashboard
}

// GetMatcher returns the budget category matcher.
func (c *Container) GetMatcher() *budget.Matcher {
	return c.matcher
}

// GetMappingStore returns the budget mapping store.
func (c *Container) GetMappingStore() *store.MappingStore {
	return c.mappings
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetCSVWriter returns the CSV writer configured with the CSV delimiter.
func (c *Container) GetCSVWriter() *export.Writer {
	return c.csv
}

// Now returns the current time in the reporting timezone.
func (c *Container) Now() time.Time {
	return c.now().In(c.location)
}

// Ledger opens the manual entry ledger on first use.
func (c *Container) Ledger(ctx context.Context) (*ledger.Ledger, error) {
	c.ledgerMu.Lock()
	defer c.ledgerMu.Unlock()

	if c.ledger != nil {
		return c.ledger, nil
	}
	l, err := ledger.Open(ctx, c.config.Ledger.Path, c.logger)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", c.config.Ledger.Path, err)
	}
	c.ledger = l
	return l, nil
}

// Close releases the ledger database and the AI client.
func (c *Container) Close() error {
	var firstErr error

	c.ledgerMu.Lock()
	if c.ledger != nil {
		if err := c.ledger.Close(); err != nil {
			firstErr = err
		}
		c.ledger = nil
	}
	c.ledgerMu.Unlock()

	if c.aiClient != nil {
		if err := c.aiClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.logger.Debug("Container closed")
	return firstErr
}
