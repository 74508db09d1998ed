package aim

import (
	"context"
	"time"

	"github.com/kevin07696/card-gateway/internal/adapters/ports"
	"github.com/kevin07696/card-gateway/pkg/observability"
	"github.com/kevin07696/card-gateway/pkg/security"
)

const (
	// DefaultSandboxURL is the gateway's test endpoint
	DefaultSandboxURL = "https://sandbox.cardgateway.net/gateway/transact.dll"
	// DefaultLiveURL is the gateway's production endpoint
	DefaultLiveURL = "https://secure.cardgateway.net/gateway/transact.dll"

	DefaultDelimChar = ","
	DefaultEncapChar = "|"
)

// Config contains configuration for the gateway adapter
type Config struct {
	Credentials Credentials

	// Endpoints, selected by Credentials.Sandbox
	SandboxURL string
	LiveURL    string

	// Response framing. This gateway variant always answers with a
	// query-string body; only EncapChar is used when decoding it.
	DelimChar string
	EncapChar string
}

// DefaultConfig returns the standard endpoints and framing for creds
func DefaultConfig(creds Credentials) *Config {
	return &Config{
		Credentials: creds,
		SandboxURL:  DefaultSandboxURL,
		LiveURL:     DefaultLiveURL,
		DelimChar:   DefaultDelimChar,
		EncapChar:   DefaultEncapChar,
	}
}

// Endpoint returns the URL requests are posted to
func (c *Config) Endpoint() string {
	if c.Credentials.Sandbox {
		return c.SandboxURL
	}
	return c.LiveURL
}

// Option customizes an Adapter
type Option func(*Adapter)

// WithResponseCodeTable replaces the default response code table
func WithResponseCodeTable(codes *ResponseCodeTable) Option {
	return func(a *Adapter) {
		a.parser = NewParser(codes)
	}
}

// Adapter runs single card transactions against the gateway. It holds no
// per-transaction state and may be shared between goroutines; each
// transaction needs its own RequestBuilder.
type Adapter struct {
	config    *Config
	transport ports.Transport
	parser    *Parser
	logger    ports.Logger
}

// NewAdapter creates a gateway adapter. Credentials are fixed for the
// adapter's lifetime.
func NewAdapter(config *Config, transport ports.Transport, logger ports.Logger, opts ...Option) *Adapter {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	a := &Adapter{
		config:    config,
		transport: transport,
		parser:    NewParser(nil),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuthorizeAndCapture authorizes amount on the card and captures it for settlement
func (a *Adapter) AuthorizeAndCapture(ctx context.Context, b *RequestBuilder, amount, cardNum, expDate string) (*TransactionResult, error) {
	return a.run(ctx, b, TransactionTypeAuthCapture,
		FieldAmount, amount,
		FieldCardNum, cardNum,
		FieldExpDate, expDate,
	)
}

// AuthorizeOnly places a hold for amount without capturing it
func (a *Adapter) AuthorizeOnly(ctx context.Context, b *RequestBuilder, amount, cardNum, expDate string) (*TransactionResult, error) {
	return a.run(ctx, b, TransactionTypeAuthOnly,
		FieldAmount, amount,
		FieldCardNum, cardNum,
		FieldExpDate, expDate,
	)
}

// PriorAuthCapture captures an earlier AuthorizeOnly. Set FieldAmount on b to
// capture less than the authorized amount.
func (a *Adapter) PriorAuthCapture(ctx context.Context, b *RequestBuilder, transID string) (*TransactionResult, error) {
	return a.run(ctx, b, TransactionTypePriorAuthCapture,
		FieldTransID, transID,
	)
}

// Void cancels an unsettled transaction
func (a *Adapter) Void(ctx context.Context, b *RequestBuilder, transID string) (*TransactionResult, error) {
	return a.run(ctx, b, TransactionTypeVoid,
		FieldTransID, transID,
	)
}

// CaptureOnly submits a transaction authorized outside the gateway (voice auth)
func (a *Adapter) CaptureOnly(ctx context.Context, b *RequestBuilder, authCode, amount, cardNum, expDate string) (*TransactionResult, error) {
	return a.run(ctx, b, TransactionTypeCaptureOnly,
		FieldAuthCode, authCode,
		FieldAmount, amount,
		FieldCardNum, cardNum,
		FieldExpDate, expDate,
	)
}

// Credit refunds amount against a settled transaction. cardNum may be the
// last four digits of the original card.
func (a *Adapter) Credit(ctx context.Context, b *RequestBuilder, transID, amount, cardNum string) (*TransactionResult, error) {
	return a.run(ctx, b, TransactionTypeCredit,
		FieldTransID, transID,
		FieldAmount, amount,
		FieldCardNum, cardNum,
	)
}

// run sets the explicit fields for t on b (a fresh builder when nil) and submits it
func (a *Adapter) run(ctx context.Context, b *RequestBuilder, t TransactionType, kv ...string) (*TransactionResult, error) {
	if b == nil {
		b = NewRequestBuilder()
	}
	if err := b.SetTransactionType(t); err != nil {
		return nil, a.rejected(t, err)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if err := b.SetField(kv[i], kv[i+1]); err != nil {
			return nil, a.rejected(t, err)
		}
	}
	return a.Submit(ctx, b)
}

// Submit builds b and posts it. The returned error is non-nil only for
// caller mistakes (invalid or reused builder); declines and connection
// failures come back as results.
func (a *Adapter) Submit(ctx context.Context, b *RequestBuilder) (*TransactionResult, error) {
	if b == nil {
		return nil, a.rejected("", ErrNilBuilder)
	}
	req, err := b.Build()
	if err != nil {
		return nil, a.rejected(b.txType, err)
	}

	a.logger.Info("Submitting gateway transaction",
		ports.String("transaction_type", string(req.TransactionType())),
		ports.String("card", security.MaskPAN(req.Field(FieldCardNum))),
		ports.String("invoice_num", req.Field(FieldInvoiceNum)),
		ports.Bool("sandbox", a.config.Credentials.Sandbox),
	)

	startTime := time.Now()
	raw, err := a.transport.Post(ctx, a.config.Endpoint(), req.Serialize(a.config.Credentials))
	elapsed := time.Since(startTime)

	var result *TransactionResult
	if err != nil {
		a.logger.Error("Gateway connection failed",
			ports.Err(err),
			ports.String("transaction_type", string(req.TransactionType())),
			ports.Duration("elapsed", elapsed),
		)
		result = a.parser.ConnectionFailure(req)
	} else {
		result = a.parser.Parse(raw, a.config.EncapChar, req)
	}

	observability.RecordGatewayTransaction(
		string(result.TransactionType),
		string(result.State),
		result.ResponseCode,
		ToMinorUnits(result.Amount),
		elapsed.Seconds(),
	)

	a.logger.Info("Gateway transaction completed",
		ports.String("transaction_type", string(result.TransactionType)),
		ports.String("state", string(result.State)),
		ports.String("response_code", result.ResponseCode),
		ports.String("reason", result.Reason),
		ports.String("transaction_id", result.TransactionID),
		ports.String("card_brand", string(result.CardBrand)),
		ports.Duration("elapsed", elapsed),
	)

	return result, nil
}

func (a *Adapter) rejected(t TransactionType, err error) error {
	observability.RecordRejectedRequest(string(t))
	a.logger.Error("Rejected gateway request",
		ports.Err(err),
		ports.String("transaction_type", string(t)),
	)
	return err
}
