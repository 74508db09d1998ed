package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kevin07696/card-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateway/pkg/errors"
	pkghttp "github.com/kevin07696/card-gateway/pkg/http"
	"github.com/kevin07696/card-gateway/pkg/observability"
)

// errEmptyResponse marks a 2xx answer without a body. The gateway always
// answers with at least a response code, so an empty body means the
// connection failed mid-response.
var errEmptyResponse = errors.New("gateway returned an empty response body")

// errResponseTooLarge marks a body longer than MaxResponseBytes. Such a body
// is never handed to the parser.
var errResponseTooLarge = errors.New("gateway response exceeds size limit")

// HTTPSPosterConfig contains configuration for the HTTPS transport
type HTTPSPosterConfig struct {
	// Per-post timeout, applied on top of the caller's context
	Timeout time.Duration

	// Outbound rate limit in posts per second. Zero disables limiting.
	RateLimit float64
	RateBurst int

	// Response bodies larger than this fail the post. Zero disables the limit.
	MaxResponseBytes int64

	// Sandbox certificates are not always publicly trusted
	InsecureSkipVerify bool

	CircuitBreaker CircuitBreakerConfig
}

// DefaultHTTPSPosterConfig returns default configuration for the HTTPS transport
func DefaultHTTPSPosterConfig() *HTTPSPosterConfig {
	return &HTTPSPosterConfig{
		Timeout:          30 * time.Second,
		MaxResponseBytes: 64 << 10,
		CircuitBreaker:   DefaultCircuitBreakerConfig(),
	}
}

// HTTPSPoster implements ports.Transport with a single HTTPS POST per call.
// It never retries; any failure to get a body is a *pkgerrors.ConnectionError.
type HTTPSPoster struct {
	config         *HTTPSPosterConfig
	httpClient     ports.HTTPClient
	logger         ports.Logger
	circuitBreaker *CircuitBreaker
	limiter        *rate.Limiter
}

// NewHTTPSPoster creates a transport around an injected HTTP client
func NewHTTPSPoster(config *HTTPSPosterConfig, httpClient ports.HTTPClient, logger ports.Logger) *HTTPSPoster {
	if logger == nil {
		logger = ports.NopLogger{}
	}

	cbConfig := config.CircuitBreaker
	userHook := cbConfig.OnStateChange
	cbConfig.OnStateChange = func(state CircuitState) {
		observability.SetCircuitBreakerState(int(state))
		logger.Warn("Gateway circuit breaker changed state", ports.String("state", state.String()))
		if userHook != nil {
			userHook(state)
		}
	}

	p := &HTTPSPoster{
		config:         config,
		httpClient:     httpClient,
		logger:         logger,
		circuitBreaker: NewCircuitBreaker(cbConfig),
	}
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}
	return p
}

// NewHTTPSPosterWithDefaults creates a transport with the pooled gateway client
func NewHTTPSPosterWithDefaults(config *HTTPSPosterConfig, logger ports.Logger) *HTTPSPoster {
	clientConfig := pkghttp.GatewayClientConfig()
	clientConfig.InsecureSkipVerify = config.InsecureSkipVerify
	return NewHTTPSPoster(config, pkghttp.NewHTTPClient(clientConfig, config.Timeout), logger)
}

// Post sends body to url as application/x-www-form-urlencoded
func (p *HTTPSPoster) Post(ctx context.Context, url, body string) (string, error) {
	done := observability.TrackTransportRequest()
	startTime := time.Now()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			done("rate_limited", time.Since(startTime).Seconds())
			p.logger.Warn("Gateway post cancelled while rate limited", ports.Err(err))
			return "", pkgerrors.NewConnectionError(url, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	var responseBody string
	err := p.circuitBreaker.Call(func() error {
		var callErr error
		responseBody, callErr = p.do(ctx, url, body)
		return callErr
	})

	elapsed := time.Since(startTime)
	if err != nil {
		outcome := "connection_error"
		if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyTrials) {
			outcome = "circuit_open"
			p.logger.Warn("Circuit breaker is open, rejecting gateway post",
				ports.String("circuit_state", p.circuitBreaker.State().String()),
			)
		} else {
			var statusErr *statusError
			if errors.As(err, &statusErr) {
				outcome = "http_error"
			}
			p.logger.Error("Gateway post failed",
				ports.Err(err),
				ports.Duration("elapsed", elapsed),
			)
		}
		done(outcome, elapsed.Seconds())
		return "", pkgerrors.NewConnectionError(url, err)
	}

	done("ok", elapsed.Seconds())
	p.logger.Debug("Received gateway response",
		ports.Int("body_length", len(responseBody)),
		ports.Duration("elapsed", elapsed),
	)
	return responseBody, nil
}

func (p *HTTPSPoster) do(ctx context.Context, url, body string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	reader := io.Reader(httpResp.Body)
	if p.config.MaxResponseBytes > 0 {
		reader = io.LimitReader(httpResp.Body, p.config.MaxResponseBytes+1)
	}
	respBody, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if p.config.MaxResponseBytes > 0 && int64(len(respBody)) > p.config.MaxResponseBytes {
		return "", fmt.Errorf("%w: more than %d bytes", errResponseTooLarge, p.config.MaxResponseBytes)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return "", &statusError{code: httpResp.StatusCode}
	}
	if strings.TrimSpace(string(respBody)) == "" {
		return "", errEmptyResponse
	}

	return string(respBody), nil
}

// CircuitState exposes the breaker state for health checks
func (p *HTTPSPoster) CircuitState() CircuitState {
	return p.circuitBreaker.State()
}

// HealthCheck fails while the gateway circuit is open
func (p *HTTPSPoster) HealthCheck(ctx context.Context) error {
	if state := p.circuitBreaker.State(); state == StateOpen {
		return fmt.Errorf("gateway circuit is %s", state)
	}
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d", e.code)
}
