package aim

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kevin07696/card-gateway/pkg/errors"
)

// ConnectionFailedMessage is the reason on every result whose gateway call
// produced no response body.
const ConnectionFailedMessage = "Connection to the payment gateway failed"

// Response keys returned by the gateway
const (
	respKeyResponseCode = "ResponseCode"
	respKeyTranNr       = "tranNr"
	respKeyAmount       = "Amount"
	respKeyAuth         = "Auth"
	respKeyAVSCode      = "AVSCode"
	respKeyCVV2Response = "CVV2Response"
	respKeyCardBalance  = "CardBalance"
	respKeyError        = "error"
)

// authDeclined is the literal the gateway puts in Auth on a decline
const authDeclined = "Declined"

// ApprovalState is the outcome class of a transaction
type ApprovalState string

const (
	ApprovalStateApproved ApprovalState = "approved"
	ApprovalStateDeclined ApprovalState = "declined"
	ApprovalStateError    ApprovalState = "error"
)

// TransactionResult is the parsed outcome of one gateway call. Field maps are
// private copies; use the accessors.
type TransactionResult struct {
	State           ApprovalState
	TransactionType TransactionType
	ResponseCode    string
	Reason          string // From the response code table
	Category        pkgerrors.ErrorCategory
	GatewayMessage  string // Raw "error" text from the gateway, if any
	AuthCode        string
	TransactionID   string
	Amount          decimal.Decimal
	CardBalance     decimal.Decimal
	AVSCode         string
	CVV2Response    string
	CardBrand       CardBrand
	ProcessedAt     time.Time

	codeInfo     ResponseCodeInfo
	fields       map[string]string
	customFields map[string]string
}

// Err returns nil for an approval. A decline is a *pkgerrors.PaymentError
// built from the response code; a connection failure is a retriable
// PaymentError in CategoryNetworkError.
func (r *TransactionResult) Err() error {
	switch r.State {
	case ApprovalStateApproved:
		return nil
	case ApprovalStateError:
		return pkgerrors.NewPaymentError("", r.Reason, pkgerrors.CategoryNetworkError, true)
	default:
		return r.codeInfo.ToPaymentError(r.GatewayMessage)
	}
}

// Approved reports whether the gateway approved the transaction
func (r *TransactionResult) Approved() bool {
	return r.State == ApprovalStateApproved
}

// Declined reports whether the gateway answered and declined
func (r *TransactionResult) Declined() bool {
	return r.State == ApprovalStateDeclined
}

// Failed reports whether no gateway answer was obtained
func (r *TransactionResult) Failed() bool {
	return r.State == ApprovalStateError
}

// Field returns an echoed request field. Card number, expiration and card
// code are never available.
func (r *TransactionResult) Field(name string) string {
	return r.fields[name]
}

// Fields returns a copy of the echoed request fields
func (r *TransactionResult) Fields() map[string]string {
	return copyMap(r.fields)
}

// CustomField returns an echoed custom field
func (r *TransactionResult) CustomField(name string) string {
	return r.customFields[name]
}

// CustomFields returns a copy of the echoed custom fields
func (r *TransactionResult) CustomFields() map[string]string {
	return copyMap(r.customFields)
}

// Parser turns raw gateway bodies into TransactionResults
type Parser struct {
	codes *ResponseCodeTable
	now   func() time.Time
}

// NewParser returns a parser that resolves reasons through codes. A nil table
// means DefaultResponseCodeTable.
func NewParser(codes *ResponseCodeTable) *Parser {
	if codes == nil {
		codes = DefaultResponseCodeTable()
	}
	return &Parser{codes: codes, now: time.Now}
}

// Parse decodes raw into a result. req supplies the card and customer data
// the gateway does not echo back. Parse never fails: an empty body is a
// connection error result, and an unknown code is a generic decline.
func (p *Parser) Parse(raw, encap string, req *Request) *TransactionResult {
	if strings.TrimSpace(raw) == "" {
		return p.ConnectionFailure(req)
	}

	values := decodeResponse(raw, encap)

	result := p.baseResult(req)
	result.ResponseCode = values.Get(respKeyResponseCode)
	result.TransactionID = values.Get(respKeyTranNr)
	result.AuthCode = values.Get(respKeyAuth)
	result.AVSCode = values.Get(respKeyAVSCode)
	result.CVV2Response = values.Get(respKeyCVV2Response)
	result.GatewayMessage = values.Get(respKeyError)
	result.Amount = parseMinorUnits(values.Get(respKeyAmount))
	result.CardBalance = parseMinorUnits(values.Get(respKeyCardBalance))
	result.codeInfo = p.codes.Lookup(result.ResponseCode)
	result.Reason = result.codeInfo.Description
	result.Category = result.codeInfo.Category

	if isApproval(result.AuthCode) {
		result.State = ApprovalStateApproved
	} else {
		result.State = ApprovalStateDeclined
		result.AuthCode = ""
	}

	return result
}

// ConnectionFailure builds the error result for a call that got no answer
func (p *Parser) ConnectionFailure(req *Request) *TransactionResult {
	result := p.baseResult(req)
	result.State = ApprovalStateError
	result.Reason = ConnectionFailedMessage
	result.Category = pkgerrors.CategoryNetworkError
	return result
}

func (p *Parser) baseResult(req *Request) *TransactionResult {
	result := &TransactionResult{
		Amount:       decimal.Zero,
		CardBalance:  decimal.Zero,
		ProcessedAt:  p.now(),
		fields:       map[string]string{},
		customFields: map[string]string{},
	}
	if req == nil {
		return result
	}

	result.TransactionType = req.TransactionType()
	result.CardBrand = InferCardBrand(req.Field(FieldCardNum))
	for name, value := range req.fields {
		if isSensitive(name) {
			continue
		}
		result.fields[name] = value
	}
	for _, cf := range req.customFields {
		result.customFields[cf.name] = cf.value
	}
	return result
}

// decodeResponse strips the encapsulation character from both ends and
// decodes the query-string body. Malformed pairs are skipped.
func decodeResponse(raw, encap string) url.Values {
	body := strings.TrimSpace(raw)
	if encap != "" {
		body = strings.TrimPrefix(body, encap)
		body = strings.TrimSuffix(body, encap)
	}

	values := url.Values{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		values.Add(k, strings.TrimSpace(v))
	}
	return values
}

func isApproval(auth string) bool {
	auth = strings.TrimSpace(auth)
	return auth != "" && auth != authDeclined
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
