package aim

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kevin07696/card-gateway/pkg/errors"
)

// TransactionType is the gateway transaction tag
type TransactionType string

const (
	TransactionTypeAuthCapture      TransactionType = "AUTH_CAPTURE"       // Authorize and capture (sale)
	TransactionTypeAuthOnly         TransactionType = "AUTH_ONLY"          // Authorization only
	TransactionTypePriorAuthCapture TransactionType = "PRIOR_AUTH_CAPTURE" // Capture an earlier AUTH_ONLY
	TransactionTypeVoid             TransactionType = "VOID"               // Void an unsettled transaction
	TransactionTypeCaptureOnly      TransactionType = "CAPTURE_ONLY"       // Capture with a voice/offline auth code
	TransactionTypeCredit           TransactionType = "CREDIT"             // Refund a settled transaction
)

// requiredFields lists what the gateway rejects a transaction type without.
// The builder does not enforce these; callers must supply them.
var requiredFields = map[TransactionType][]string{
	TransactionTypeAuthCapture:      {FieldAmount, FieldCardNum, FieldExpDate},
	TransactionTypeAuthOnly:         {FieldAmount, FieldCardNum, FieldExpDate},
	TransactionTypePriorAuthCapture: {FieldTransID},
	TransactionTypeVoid:             {FieldTransID},
	TransactionTypeCaptureOnly:      {FieldAuthCode, FieldAmount, FieldCardNum, FieldExpDate},
	TransactionTypeCredit:           {FieldTransID, FieldAmount, FieldCardNum},
}

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	_, ok := requiredFields[t]
	return ok
}

// RequiredFields returns the standard fields the gateway needs for t
func (t TransactionType) RequiredFields() []string {
	return append([]string(nil), requiredFields[t]...)
}

// IndustryCode is sent with every request. 2 = card-not-present e-commerce.
const IndustryCode = "2"

// Wire keys for the always-present entries
const (
	wireKeyAccountID       = "MerchantID"
	wireKeyRegistrationKey = "RegKey"
	wireKeyIndustryCode    = "IndustryCode"
	wireKeyTransType       = "TransType"
	wireKeyFullName        = "NameOnCard"
	wireKeyLineItem        = "LineItem"
)

// wireKeys maps standard field names to gateway keys. Registered names not
// listed here are sent under their own name.
var wireKeys = map[string]string{
	FieldAmount:      "Amount",
	FieldCardNum:     "CCNumber",
	FieldExpDate:     "CCExpDate",
	FieldCardCode:    "CVV2",
	FieldAddress:     "AVSAddress",
	FieldZip:         "AVSZip",
	FieldCity:        "City",
	FieldState:       "State",
	FieldCountry:     "Country",
	FieldEmail:       "Email",
	FieldPhone:       "Phone",
	FieldCompany:     "Company",
	FieldInvoiceNum:  "RefID",
	FieldDescription: "Description",
	FieldTransID:     "TransID",
	FieldAuthCode:    "AuthCode",
	FieldCustID:      "CustomerID",
	FieldCustomerIP:  "CustomerIP",
	FieldTax:         "Tax",
	FieldFreight:     "Freight",
	FieldPONum:       "PONumber",
}

// leadingFields are emitted first, in this order, when present
var leadingFields = []string{
	FieldAmount,
	FieldCardNum,
	FieldExpDate,
	FieldCardCode,
	FieldTransID,
	FieldAuthCode,
}

// ErrBuilderConsumed is returned when a builder is used after Build
var ErrBuilderConsumed = errors.New("request builder already consumed")

// ErrNilBuilder is returned by Adapter.Submit for a nil builder
var ErrNilBuilder = errors.New("request builder is nil")

// Credentials identify the merchant account at the gateway.
// String prints neither the account id nor the registration key.
type Credentials struct {
	AccountID       string
	RegistrationKey string
	Sandbox         bool
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccountID: [REDACTED], RegistrationKey: [REDACTED], Sandbox: %t}", c.Sandbox)
}

// GoString keeps %#v from printing either credential
func (c Credentials) GoString() string {
	return c.String()
}

// LineItem is one itemized entry on the order
type LineItem struct {
	ID          string
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Taxable     bool
}

func (li LineItem) encode() string {
	taxable := "N"
	if li.Taxable {
		taxable = "Y"
	}
	return strings.Join([]string{
		li.ID,
		li.Name,
		li.Description,
		fmt.Sprintf("%d", li.Quantity),
		li.UnitPrice.StringFixed(2),
		taxable,
	}, "<|>")
}

type customField struct {
	name  string
	value string
}

// RequestBuilder accumulates the fields of exactly one transaction attempt.
// It is not safe for concurrent use and cannot be reused after Build.
type RequestBuilder struct {
	validate     bool
	txType       TransactionType
	fields       map[string]string
	customFields []customField
	lineItems    []LineItem
	consumed     bool
}

// NewRequestBuilder returns a builder that rejects field names outside the
// registry.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		validate: true,
		fields:   make(map[string]string),
	}
}

// NewUnvalidatedRequestBuilder returns a builder that accepts any field name
// and sends it verbatim.
func NewUnvalidatedRequestBuilder() *RequestBuilder {
	b := NewRequestBuilder()
	b.validate = false
	return b
}

// SetField stores value under name, replacing any earlier value
func (b *RequestBuilder) SetField(name, value string) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	if b.validate && !IsRecognized(name) {
		return pkgerrors.NewValidationError(name, "field is not recognized by the gateway")
	}
	if name == FieldAmount && !MinorUnitsInRange(ParseMajorUnits(value)) {
		return pkgerrors.NewValidationError(name, fmt.Sprintf("amount %q is out of range", value))
	}
	b.fields[name] = value
	return nil
}

// SetCustomField stores a caller bookkeeping value that is sent untouched
// after the standard fields and echoed back on the result. Custom names are
// not checked against the registry, but a name the gateway already reads
// (a wire key or a recognized field name) is rejected.
func (b *RequestBuilder) SetCustomField(name, value string) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	if _, ok := reservedWireNames[name]; ok {
		return pkgerrors.NewValidationError(name, "custom field name is reserved by the gateway")
	}
	for i := range b.customFields {
		if b.customFields[i].name == name {
			b.customFields[i].value = value
			return nil
		}
	}
	b.customFields = append(b.customFields, customField{name: name, value: value})
	return nil
}

// SetTransactionType sets the transaction tag
func (b *RequestBuilder) SetTransactionType(t TransactionType) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	if !t.Valid() {
		return pkgerrors.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", t))
	}
	b.txType = t
	return nil
}

// AddLineItem appends an itemized order line
func (b *RequestBuilder) AddLineItem(item LineItem) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	b.lineItems = append(b.lineItems, item)
	return nil
}

// Build freezes the accumulated values into a Request and clears the builder
// so no card data survives into another transaction.
func (b *RequestBuilder) Build() (*Request, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	if b.txType == "" {
		return nil, pkgerrors.NewValidationError("type", "transaction type must be set before building")
	}

	req := &Request{
		txType:       b.txType,
		fields:       b.fields,
		customFields: b.customFields,
		lineItems:    b.lineItems,
	}

	b.consumed = true
	b.fields = nil
	b.customFields = nil
	b.lineItems = nil

	return req, nil
}

// Request is an immutable, built transaction request
type Request struct {
	txType       TransactionType
	fields       map[string]string
	customFields []customField
	lineItems    []LineItem
}

// TransactionType returns the request's transaction tag
func (r *Request) TransactionType() TransactionType {
	return r.txType
}

// Field returns the value of a standard field, or "" when unset
func (r *Request) Field(name string) string {
	return r.fields[name]
}

// Fields returns a copy of the standard fields
func (r *Request) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// CustomFields returns a copy of the custom fields
func (r *Request) CustomFields() map[string]string {
	out := make(map[string]string, len(r.customFields))
	for _, cf := range r.customFields {
		out[cf.name] = cf.value
	}
	return out
}

// LineItems returns a copy of the line items
func (r *Request) LineItems() []LineItem {
	return append([]LineItem(nil), r.lineItems...)
}

type wirePair struct {
	key   string
	value string
}

// Serialize encodes the request as the gateway's URL-encoded body
func (r *Request) Serialize(creds Credentials) string {
	pairs := r.wirePairs(creds)
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = url.QueryEscape(p.key) + "=" + url.QueryEscape(p.value)
	}
	return strings.Join(parts, "&")
}

func (r *Request) wirePairs(creds Credentials) []wirePair {
	pairs := []wirePair{
		{wireKeyAccountID, creds.AccountID},
		{wireKeyRegistrationKey, creds.RegistrationKey},
		{wireKeyIndustryCode, IndustryCode},
		{wireKeyTransType, string(r.txType)},
	}

	emitted := make(map[string]bool, len(r.fields))
	emit := func(name string) {
		value, ok := r.fields[name]
		if !ok || emitted[name] {
			return
		}
		emitted[name] = true
		pairs = append(pairs, wirePair{wireKey(name), encodeFieldValue(name, value)})
	}

	for _, name := range leadingFields {
		emit(name)
	}

	first, hasFirst := r.fields[FieldFirstName]
	last, hasLast := r.fields[FieldLastName]
	if hasFirst || hasLast {
		pairs = append(pairs, wirePair{wireKeyFullName, first + " " + last})
	}
	emitted[FieldFirstName] = true
	emitted[FieldLastName] = true

	rest := make([]string, 0, len(r.fields))
	for name := range r.fields {
		if !emitted[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		emit(name)
	}

	for _, item := range r.lineItems {
		pairs = append(pairs, wirePair{wireKeyLineItem, item.encode()})
	}

	for _, cf := range r.customFields {
		pairs = append(pairs, wirePair{cf.name, cf.value})
	}

	return pairs
}

// reservedWireNames holds every key a serialized request can already carry
var reservedWireNames = func() map[string]struct{} {
	reserved := map[string]struct{}{
		wireKeyAccountID:       {},
		wireKeyRegistrationKey: {},
		wireKeyIndustryCode:    {},
		wireKeyTransType:       {},
		wireKeyFullName:        {},
		wireKeyLineItem:        {},
	}
	for _, key := range wireKeys {
		reserved[key] = struct{}{}
	}
	for name := range recognizedFields {
		reserved[name] = struct{}{}
		reserved[wireKey(name)] = struct{}{}
	}
	return reserved
}()

func wireKey(name string) string {
	if key, ok := wireKeys[name]; ok {
		return key
	}
	return name
}

func encodeFieldValue(name, value string) string {
	switch name {
	case FieldAmount:
		return encodeAmount(value)
	case FieldExpDate:
		return swapExpiration(value)
	case FieldState:
		return StateAbbreviation(value)
	default:
		return value
	}
}

// swapExpiration re-encodes MMYY as YYMM. Values that are not four
// characters long are sent unchanged.
func swapExpiration(mmyy string) string {
	if len(mmyy) != 4 {
		return mmyy
	}
	return mmyy[2:] + mmyy[:2]
}
