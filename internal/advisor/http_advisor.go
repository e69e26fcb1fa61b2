package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

// HTTPConfig configures HTTPAdvisor
type HTTPConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration

	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// HTTPAdvisor calls a remote model service. It implements both
// AssignmentAdvisor and DiagnosticAdvisor and shares one breaker between them.
type HTTPAdvisor struct {
	cfg     HTTPConfig
	client  *http.Client
	breaker *Breaker
	log     *logger.Logger
}

var (
	_ AssignmentAdvisor = (*HTTPAdvisor)(nil)
	_ DiagnosticAdvisor = (*HTTPAdvisor)(nil)
)

// NewHTTPAdvisor creates an advisor client
func NewHTTPAdvisor(cfg HTTPConfig, log *logger.Logger) *HTTPAdvisor {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &HTTPAdvisor{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: NewBreaker("advisor", cfg.BreakerThreshold, cfg.BreakerCooldown, log),
		log:     log.Named("advisor"),
	}
}

// Breaker exposes the breaker for health reporting
func (a *HTTPAdvisor) Breaker() *Breaker {
	return a.breaker
}

type assignPayload struct {
	Model string `json:"model,omitempty"`
	AssignmentRequest
}

type assignReply struct {
	Name string `json:"name"`
}

type diagnosePayload struct {
	Model string `json:"model,omitempty"`
	Issue string `json:"issue"`
}

type diagnoseReply struct {
	Text string `json:"text"`
}

// Suggest posts the candidates to /assign and returns the trimmed name
func (a *HTTPAdvisor) Suggest(ctx context.Context, req AssignmentRequest) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "advisor.suggest")
	defer span.End()
	span.SetAttributes(attribute.Int("candidates", len(req.Candidates)))

	var reply assignReply
	if err := a.call(ctx, "/assign", assignPayload{Model: a.cfg.Model, AssignmentRequest: req}, &reply); err != nil {
		telemetry.SetSpanError(ctx, err)
		return "", err
	}
	return strings.TrimSpace(reply.Name), nil
}

// Diagnose posts the issue to /diagnose. An empty answer becomes NoDiagnostic.
func (a *HTTPAdvisor) Diagnose(ctx context.Context, issue string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "advisor.diagnose")
	defer span.End()

	var reply diagnoseReply
	if err := a.call(ctx, "/diagnose", diagnosePayload{Model: a.cfg.Model, Issue: issue}, &reply); err != nil {
		telemetry.SetSpanError(ctx, err)
		return "", err
	}
	if text := strings.TrimSpace(reply.Text); text != "" {
		return text, nil
	}
	return NoDiagnostic, nil
}

func (a *HTTPAdvisor) call(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode advisor request: %w", err)
	}

	err = a.breaker.Execute(ctx, func(ctx context.Context) error {
		return a.post(ctx, path, body, out)
	})
	if err == nil {
		return nil
	}

	a.log.Warn("advisor call failed", zap.String("path", path), zap.Error(err))
	if errors.Is(err, domain.ErrAdvisorUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrAdvisorUnavailable, err)
}

func (a *HTTPAdvisor) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(a.cfg.URL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", a.cfg.APIKey)
	}
	telemetry.InjectHTTPHeaders(ctx, req.Header)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode advisor reply: %w", err)
	}
	return nil
}
