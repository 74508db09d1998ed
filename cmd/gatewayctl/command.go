package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kevin07696/card-gateway/internal/adapters/aim"
	"github.com/kevin07696/card-gateway/internal/util"
)

// Operation names accepted by -op
const (
	opSale        = "sale"
	opAuthorize   = "authorize"
	opCapture     = "capture"
	opVoid        = "void"
	opCaptureOnly = "capture-only"
	opCredit      = "credit"
)

// keyValues collects repeated -custom name=value flags in order
type keyValues [][2]string

func (kv *keyValues) String() string {
	parts := make([]string, len(*kv))
	for i, p := range *kv {
		parts[i] = p[0] + "=" + p[1]
	}
	return strings.Join(parts, ",")
}

func (kv *keyValues) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	*kv = append(*kv, [2]string{name, val})
	return nil
}

// options holds one parsed command line
type options struct {
	envFile   string
	operation string
	amount    string
	cardNum   string
	expDate   string
	cardCode  string
	transID   string
	authCode  string
	invoice   string

	// Optional standard fields, keyed by registry name
	fields map[string]*string
	custom keyValues

	unvalidated bool
	holdMetrics time.Duration
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("gatewayctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{fields: map[string]*string{}}
	fs.StringVar(&opts.envFile, "env", ".env", "optional env file with GATEWAY_* settings")
	fs.StringVar(&opts.operation, "op", opSale, "operation: sale, authorize, capture, void, capture-only, credit")
	fs.StringVar(&opts.amount, "amount", "", "amount in major units, e.g. 10.50")
	fs.StringVar(&opts.cardNum, "card", "", "card number")
	fs.StringVar(&opts.expDate, "exp", "", "expiration as MMYY")
	fs.StringVar(&opts.cardCode, "cvv", "", "card security code")
	fs.StringVar(&opts.transID, "trans-id", "", "gateway transaction id of the original transaction")
	fs.StringVar(&opts.authCode, "auth-code", "", "voice authorization code for capture-only")
	fs.StringVar(&opts.invoice, "invoice", "", "invoice number (generated when empty)")
	fs.BoolVar(&opts.unvalidated, "unvalidated", false, "send field names outside the registry")
	fs.DurationVar(&opts.holdMetrics, "hold-metrics", 0, "keep the metrics server up this long after the transaction")
	fs.Var(&opts.custom, "custom", "custom name=value echoed back on the result (repeatable)")

	for _, name := range []string{
		aim.FieldFirstName, aim.FieldLastName, aim.FieldAddress, aim.FieldCity,
		aim.FieldState, aim.FieldZip, aim.FieldCountry, aim.FieldEmail,
		aim.FieldPhone, aim.FieldDescription, aim.FieldCustID,
	} {
		opts.fields[name] = fs.String(strings.ReplaceAll(name, "_", "-"), "", name+" field")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// newBuilder loads the optional fields onto a fresh builder
func (o *options) newBuilder() (*aim.RequestBuilder, error) {
	b := aim.NewRequestBuilder()
	if o.unvalidated {
		b = aim.NewUnvalidatedRequestBuilder()
	}

	if o.cardCode != "" {
		if err := b.SetField(aim.FieldCardCode, o.cardCode); err != nil {
			return nil, err
		}
	}

	invoice := o.invoice
	if invoice == "" {
		_, invoice = util.NewInvoiceNumber()
	}
	if err := b.SetField(aim.FieldInvoiceNum, invoice); err != nil {
		return nil, err
	}

	for name, value := range o.fields {
		if *value == "" {
			continue
		}
		if err := b.SetField(name, *value); err != nil {
			return nil, err
		}
	}
	for _, kv := range o.custom {
		if err := b.SetCustomField(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// execute runs the selected operation against adapter
func execute(ctx context.Context, adapter *aim.Adapter, o *options) (*aim.TransactionResult, error) {
	b, err := o.newBuilder()
	if err != nil {
		return nil, err
	}

	switch o.operation {
	case opSale:
		return adapter.AuthorizeAndCapture(ctx, b, o.amount, o.cardNum, o.expDate)
	case opAuthorize:
		return adapter.AuthorizeOnly(ctx, b, o.amount, o.cardNum, o.expDate)
	case opCapture:
		if o.amount != "" {
			if err := b.SetField(aim.FieldAmount, o.amount); err != nil {
				return nil, err
			}
		}
		return adapter.PriorAuthCapture(ctx, b, o.transID)
	case opVoid:
		return adapter.Void(ctx, b, o.transID)
	case opCaptureOnly:
		return adapter.CaptureOnly(ctx, b, o.authCode, o.amount, o.cardNum, o.expDate)
	case opCredit:
		return adapter.Credit(ctx, b, o.transID, o.amount, o.cardNum)
	default:
		return nil, fmt.Errorf("unknown operation %q", o.operation)
	}
}

// resultView is the JSON shape printed for a result. Card data is never
// part of a TransactionResult, so nothing here needs masking.
type resultView struct {
	State           string            `json:"state"`
	TransactionType string            `json:"transaction_type"`
	ResponseCode    string            `json:"response_code,omitempty"`
	Reason          string            `json:"reason"`
	Category        string            `json:"category,omitempty"`
	GatewayMessage  string            `json:"gateway_message,omitempty"`
	AuthCode        string            `json:"auth_code,omitempty"`
	TransactionID   string            `json:"transaction_id,omitempty"`
	Amount          string            `json:"amount"`
	CardBalance     string            `json:"card_balance,omitempty"`
	AVSCode         string            `json:"avs_code,omitempty"`
	CVV2Response    string            `json:"cvv2_response,omitempty"`
	CardBrand       string            `json:"card_brand,omitempty"`
	ProcessedAt     time.Time         `json:"processed_at"`
	Fields          map[string]string `json:"fields,omitempty"`
	CustomFields    map[string]string `json:"custom_fields,omitempty"`
}

func newResultView(r *aim.TransactionResult) resultView {
	view := resultView{
		State:           string(r.State),
		TransactionType: string(r.TransactionType),
		ResponseCode:    r.ResponseCode,
		Reason:          r.Reason,
		Category:        string(r.Category),
		GatewayMessage:  r.GatewayMessage,
		AuthCode:        r.AuthCode,
		TransactionID:   r.TransactionID,
		Amount:          r.Amount.StringFixed(2),
		AVSCode:         r.AVSCode,
		CVV2Response:    r.CVV2Response,
		CardBrand:       string(r.CardBrand),
		ProcessedAt:     r.ProcessedAt,
		Fields:          r.Fields(),
		CustomFields:    r.CustomFields(),
	}
	if !r.CardBalance.IsZero() {
		view.CardBalance = r.CardBalance.StringFixed(2)
	}
	return view
}

func printResult(w io.Writer, r *aim.TransactionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newResultView(r))
}

// exitCode maps the outcome class to the process status
func exitCode(r *aim.TransactionResult) int {
	switch r.State {
	case aim.ApprovalStateApproved:
		return 0
	case aim.ApprovalStateDeclined:
		return 2
	default:
		return 3
	}
}
