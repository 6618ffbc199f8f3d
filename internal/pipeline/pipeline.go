// Package pipeline orchestrates one pane render: fetch the exchange,
// apply the pane's HTTPQL filter, extract its input, run the
// transformation, and memoize the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"panekit/internal/cache"
	"panekit/internal/extract"
	"panekit/internal/host"
	"panekit/internal/httpql"
	"panekit/internal/model"
	paneotel "panekit/internal/otel"
	"panekit/internal/runner"
	"panekit/internal/shellexpand"
	"panekit/internal/store"
	"panekit/internal/workflow"
)

var tracer = otel.Tracer("panekit/pipeline")

var (
	// ErrPaneNotFound means the pane ID resolves to nothing in either tier.
	ErrPaneNotFound = errors.New("pane not found")
	// ErrPaneDisabled means the pane exists but is switched off.
	ErrPaneDisabled = errors.New("pane is disabled")
	// ErrRequestNotFound means the host has no exchange for the request ID.
	ErrRequestNotFound = errors.New("request not found")
	// ErrEmptyInput means extraction produced nothing to transform.
	ErrEmptyInput = errors.New("no input to transform")
)

// defaultTimeoutSeconds applies when a command pane leaves Timeout unset.
const defaultTimeoutSeconds = 30

// Result is the outcome of one pane render.
type Result struct {
	Output string
	// Cached marks output served from the result cache.
	Cached bool
	// Filtered marks an exchange the pane's HTTPQL query did not match.
	// Output is empty and nothing was executed.
	Filtered bool
}

// Pipeline wires the store, host services, transformation backends, and
// the result cache together.
type Pipeline struct {
	store    *store.Store
	requests host.Requests
	gate     *httpql.Gate
	bridge   *workflow.Bridge
	cache    *cache.Cache
	metrics  *paneotel.Metrics
	log      zerolog.Logger

	defaultShell       string
	defaultShellConfig string
}

// Config carries the pipeline's collaborators and defaults.
type Config struct {
	Store    *store.Store
	Requests host.Requests
	Bridge   *workflow.Bridge
	Cache    *cache.Cache
	Metrics  *paneotel.Metrics
	Logger   zerolog.Logger

	// DefaultShell runs command panes that configure no shell of their own.
	DefaultShell       string
	DefaultShellConfig string
}

// New assembles a pipeline. A nil Cache gets the default TTL and capacity.
func New(cfg Config) *Pipeline {
	c := cfg.Cache
	if c == nil {
		c = cache.New(cache.DefaultTTL, cache.DefaultCapacity)
	}
	return &Pipeline{
		store:              cfg.Store,
		requests:           cfg.Requests,
		gate:               httpql.NewGate(cfg.Requests, cfg.Logger),
		bridge:             cfg.Bridge,
		cache:              c,
		metrics:            cfg.Metrics,
		log:                cfg.Logger.With().Str("component", "pipeline").Logger(),
		defaultShell:       cfg.DefaultShell,
		defaultShellConfig: cfg.DefaultShellConfig,
	}
}

// Transform renders one pane against one request. Filtered exchanges
// return a Result with Filtered set and no error.
func (p *Pipeline) Transform(ctx context.Context, paneID, requestID string) (Result, error) {
	pane, ok := p.store.Pane(paneID)
	if !ok {
		return Result{}, fmt.Errorf("pane %s: %w", paneID, ErrPaneNotFound)
	}
	if !pane.Enabled {
		return Result{}, fmt.Errorf("pane %s: %w", paneID, ErrPaneDisabled)
	}
	return p.transform(ctx, pane, requestID)
}

func (p *Pipeline) transform(ctx context.Context, pane model.Pane, requestID string) (Result, error) {
	ctx, span := tracer.Start(ctx, "transform_pane",
		trace.WithAttributes(
			attribute.String("pane.id", pane.ID),
			attribute.String("pane.transform_type", string(pane.Transformation.Type)),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	log := p.log
	if pane.DevMode {
		log = log.Level(zerolog.DebugLevel)
	}
	log = log.With().Str("pane_id", pane.ID).Str("request_id", requestID).Logger()

	if out, ok := p.cache.Get(pane.ID, requestID); ok {
		p.metrics.RecordCacheHit(ctx)
		log.Debug().Msg("served from result cache")
		return Result{Output: out, Cached: true}, nil
	}
	p.metrics.RecordCacheMiss(ctx)

	exchange, err := p.requests.Get(ctx, requestID)
	if err != nil {
		p.recordOutcome(ctx, pane, "error")
		return Result{}, fmt.Errorf("fetching request %s: %w", requestID, err)
	}
	if exchange == nil {
		p.recordOutcome(ctx, pane, "error")
		return Result{}, fmt.Errorf("request %s: %w", requestID, ErrRequestNotFound)
	}

	if !p.gate.Matches(ctx, pane.HTTPQL, exchange.Request, exchange.Response) {
		p.recordOutcome(ctx, pane, "filtered")
		log.Debug().Str("httpql", pane.HTTPQL).Msg("exchange filtered out")
		return Result{Filtered: true}, nil
	}

	input := extract.Input(exchange.Request, exchange.Response, pane.Input)
	if input == "" {
		p.recordOutcome(ctx, pane, "error")
		return Result{}, fmt.Errorf("pane %s input %s: %w", pane.ID, pane.Input, ErrEmptyInput)
	}

	var output string
	switch pane.Transformation.Type {
	case model.TransformationCommand:
		output, err = p.runCommand(ctx, pane, exchange, input)
	case model.TransformationWorkflow:
		output, err = p.bridge.RunConvert(ctx, pane.Transformation.WorkflowID, input)
	default:
		err = fmt.Errorf("unknown transformation type %q", pane.Transformation.Type)
	}
	if err != nil {
		p.recordOutcome(ctx, pane, "error")
		span.SetAttributes(attribute.String("error.type", "transform"))
		return Result{}, err
	}

	p.cache.Put(pane.ID, requestID, output)
	p.recordOutcome(ctx, pane, "ok")
	log.Debug().Int("output_bytes", len(output)).Msg("transformation complete")
	return Result{Output: output}, nil
}

func (p *Pipeline) runCommand(ctx context.Context, pane model.Pane, exchange *host.Exchange, input string) (string, error) {
	shell := pane.Transformation.Shell
	shellConfig := pane.Transformation.ShellConfig
	if shell == "" {
		shell = p.defaultShell
		shellConfig = p.defaultShellConfig
	}
	r := runner.New(shell, shellConfig, p.log)

	timeout := pane.Transformation.Timeout
	if timeout == 0 {
		timeout = defaultTimeoutSeconds
	}

	expandCtx := shellexpand.Context{
		Input:     input,
		RequestID: exchange.Request.ID(),
		Request:   exchange.Request,
		Response:  exchange.Response,
	}

	start := time.Now()
	out, err := r.Run(ctx, pane.Transformation.Command, expandCtx, timeout)
	p.metrics.RecordCommand(ctx, time.Since(start), err == nil)
	return out, err
}

func (p *Pipeline) recordOutcome(ctx context.Context, pane model.Pane, outcome string) {
	p.metrics.RecordTransform(ctx, string(pane.Transformation.Type), outcome)
}

// PanesForLocation lists enabled panes whose tab appears at the location.
func (p *Pipeline) PanesForLocation(loc model.Location) []model.Pane {
	enabled := p.store.EnabledPanes()
	out := make([]model.Pane, 0, len(enabled))
	for _, pane := range enabled {
		if pane.HasLocation(loc) {
			out = append(out, pane)
		}
	}
	return out
}

// View is one rendered pane tab. Err carries per-pane failures inline so
// one broken pane never hides its siblings.
type View struct {
	PaneID  string
	TabName string
	Result  Result
	Err     error
}

// Render transforms every enabled pane installed at a location against
// one request.
func (p *Pipeline) Render(ctx context.Context, loc model.Location, requestID string) []View {
	panes := p.PanesForLocation(loc)
	views := make([]View, 0, len(panes))
	for _, pane := range panes {
		res, err := p.transform(ctx, pane, requestID)
		views = append(views, View{
			PaneID:  pane.ID,
			TabName: pane.TabName,
			Result:  res,
			Err:     err,
		})
	}
	return views
}

// ViewModes describes the view tabs to register with the host UI for the
// current enabled panes. Response-fed panes render on the response side.
func (p *Pipeline) ViewModes() []host.ViewMode {
	enabled := p.store.EnabledPanes()
	modes := make([]host.ViewMode, 0, len(enabled))
	for _, pane := range enabled {
		locs := make([]string, 0, len(pane.Locations))
		for _, l := range pane.Locations {
			locs = append(locs, string(l))
		}
		modes = append(modes, host.ViewMode{
			ID:          pane.ID,
			TabName:     pane.TabName,
			Locations:   locs,
			Orientation: orientationFor(pane.Input),
			CodeBlock:   pane.CodeBlock,
			Language:    pane.Language,
		})
	}
	return modes
}

func orientationFor(kind model.InputKind) host.Orientation {
	switch kind {
	case model.InputResponseBody, model.InputResponseHeaders, model.InputResponseRaw:
		return host.OrientationResponse
	default:
		return host.OrientationRequest
	}
}
