package aim

import (
	pkgerrors "github.com/kevin07696/card-gateway/pkg/errors"
)

// DeclinedMessage is the reason text for any response code missing from the table
const DeclinedMessage = "Declined"

// ResponseCodeInfo contains detailed information about a response code
type ResponseCodeInfo struct {
	Code        string
	Description string
	IsApproved  bool
	IsRetriable bool
	Category    pkgerrors.ErrorCategory
}

// ResponseCodeTable is an immutable, exact-match lookup from gateway response
// code to description. Build one with NewResponseCodeTable to swap code sets
// (sandbox vs live) without touching the parser.
type ResponseCodeTable struct {
	codes map[string]ResponseCodeInfo
}

// NewResponseCodeTable copies codes into a new table. Later changes to the
// map do not affect the table.
func NewResponseCodeTable(codes map[string]ResponseCodeInfo) *ResponseCodeTable {
	copied := make(map[string]ResponseCodeInfo, len(codes))
	for code, info := range codes {
		info.Code = code
		copied[code] = info
	}
	return &ResponseCodeTable{codes: copied}
}

// DefaultResponseCodeTable returns the table of codes the gateway documents
func DefaultResponseCodeTable() *ResponseCodeTable {
	return NewResponseCodeTable(gatewayResponseCodes)
}

// Lookup retrieves response code information. Unknown codes degrade to a
// generic decline rather than an error.
func (t *ResponseCodeTable) Lookup(code string) ResponseCodeInfo {
	if info, exists := t.codes[code]; exists {
		return info
	}
	return ResponseCodeInfo{
		Code:        code,
		Description: DeclinedMessage,
		Category:    pkgerrors.CategoryDeclined,
	}
}

// Describe returns the human-readable text for code
func (t *ResponseCodeTable) Describe(code string) string {
	return t.Lookup(code).Description
}

// Len returns the number of codes in the table
func (t *ResponseCodeTable) Len() int {
	return len(t.codes)
}

// ToPaymentError converts a response code to a PaymentError
func (r ResponseCodeInfo) ToPaymentError(gatewayMessage string) *pkgerrors.PaymentError {
	return &pkgerrors.PaymentError{
		Code:           r.Code,
		Message:        r.Description,
		GatewayMessage: gatewayMessage,
		IsRetriable:    r.IsRetriable,
		Category:       r.Category,
		Details:        map[string]interface{}{"approved": r.IsApproved},
	}
}

var gatewayResponseCodes = map[string]ResponseCodeInfo{
	// Approval
	"00": {Description: "Approved", IsApproved: true, Category: pkgerrors.CategoryApproved},
	"08": {Description: "Honor with identification", IsApproved: true, Category: pkgerrors.CategoryApproved},
	"10": {Description: "Partial approval", IsApproved: true, Category: pkgerrors.CategoryApproved},
	"11": {Description: "VIP approval", IsApproved: true, Category: pkgerrors.CategoryApproved},
	"85": {Description: "No reason to decline", IsApproved: true, Category: pkgerrors.CategoryApproved},

	// Referral / generic decline
	"01": {Description: "Refer to card issuer", Category: pkgerrors.CategoryDeclined},
	"02": {Description: "Refer to card issuer, special condition", Category: pkgerrors.CategoryDeclined},
	"05": {Description: "Do not honor", Category: pkgerrors.CategoryDeclined},
	"21": {Description: "No action taken", Category: pkgerrors.CategoryDeclined},
	"57": {Description: "Transaction not permitted to cardholder", Category: pkgerrors.CategoryDeclined},
	"58": {Description: "Transaction not permitted to terminal", Category: pkgerrors.CategoryDeclined},
	"61": {Description: "Exceeds withdrawal amount limit", Category: pkgerrors.CategoryDeclined},
	"65": {Description: "Exceeds withdrawal frequency limit", Category: pkgerrors.CategoryDeclined},
	"93": {Description: "Transaction cannot be completed, violation of law", Category: pkgerrors.CategoryDeclined},

	// Request problems
	"03": {Description: "Invalid merchant", Category: pkgerrors.CategoryInvalidRequest},
	"06": {Description: "Error", Category: pkgerrors.CategoryInvalidRequest},
	"12": {Description: "Invalid transaction", Category: pkgerrors.CategoryInvalidRequest},
	"13": {Description: "Invalid amount", Category: pkgerrors.CategoryInvalidRequest},
	"25": {Description: "Unable to locate record", Category: pkgerrors.CategoryInvalidRequest},
	"30": {Description: "Format error", Category: pkgerrors.CategoryInvalidRequest},
	"76": {Description: "Unable to locate previous message", Category: pkgerrors.CategoryInvalidRequest},
	"77": {Description: "Inconsistent with original transaction", Category: pkgerrors.CategoryInvalidRequest},
	"79": {Description: "Already reversed", Category: pkgerrors.CategoryInvalidRequest},
	"80": {Description: "Invalid date", Category: pkgerrors.CategoryInvalidRequest},
	"94": {Description: "Duplicate transaction", Category: pkgerrors.CategoryInvalidRequest},

	// Card problems
	"14": {Description: "Invalid card number", Category: pkgerrors.CategoryInvalidCard},
	"15": {Description: "No such issuer", Category: pkgerrors.CategoryInvalidCard},
	"39": {Description: "No credit account", Category: pkgerrors.CategoryInvalidCard},
	"52": {Description: "No checking account", Category: pkgerrors.CategoryInvalidCard},
	"53": {Description: "No savings account", Category: pkgerrors.CategoryInvalidCard},
	"54": {Description: "Expired card", Category: pkgerrors.CategoryExpiredCard},
	"55": {Description: "Incorrect PIN", Category: pkgerrors.CategoryInvalidCard},
	"62": {Description: "Restricted card", Category: pkgerrors.CategoryInvalidCard},
	"75": {Description: "Allowable number of PIN tries exceeded", Category: pkgerrors.CategoryInvalidCard},
	"78": {Description: "Blocked, first use", Category: pkgerrors.CategoryInvalidCard},
	"82": {Description: "CVV verification failed", Category: pkgerrors.CategoryInvalidCard},
	"86": {Description: "Cannot verify PIN", Category: pkgerrors.CategoryInvalidCard},

	// Funds
	"51": {Description: "Insufficient funds", IsRetriable: true, Category: pkgerrors.CategoryInsufficientFunds},
	"N4": {Description: "Exceeds issuer withdrawal limit", Category: pkgerrors.CategoryInsufficientFunds},

	// Fraud / security
	"04": {Description: "Pick up card", Category: pkgerrors.CategoryFraud},
	"07": {Description: "Pick up card, special condition", Category: pkgerrors.CategoryFraud},
	"41": {Description: "Lost card, pick up", Category: pkgerrors.CategoryFraud},
	"43": {Description: "Stolen card, pick up", Category: pkgerrors.CategoryFraud},
	"59": {Description: "Suspected fraud", Category: pkgerrors.CategoryFraud},
	"63": {Description: "Security violation", Category: pkgerrors.CategoryFraud},
	"R0": {Description: "Stop payment order", Category: pkgerrors.CategoryFraud},
	"R1": {Description: "Revocation of authorization order", Category: pkgerrors.CategoryFraud},
	"R3": {Description: "Revocation of all authorizations order", Category: pkgerrors.CategoryFraud},

	// Verification
	"A1": {Description: "Address verification failed", Category: pkgerrors.CategoryInvalidCard},
	"N7": {Description: "CVV2 value mismatch", Category: pkgerrors.CategoryInvalidCard},
	"Q1": {Description: "Card authentication failed", Category: pkgerrors.CategoryInvalidCard},
	"1A": {Description: "Additional customer authentication required", Category: pkgerrors.CategoryDeclined},

	// System errors (retriable)
	"19": {Description: "Re-enter transaction", IsRetriable: true, Category: pkgerrors.CategorySystemError},
	"28": {Description: "File temporarily unavailable", IsRetriable: true, Category: pkgerrors.CategorySystemError},
	"91": {Description: "Issuer or switch inoperative", IsRetriable: true, Category: pkgerrors.CategorySystemError},
	"92": {Description: "Unable to route transaction", IsRetriable: true, Category: pkgerrors.CategorySystemError},
	"96": {Description: "System malfunction", IsRetriable: true, Category: pkgerrors.CategorySystemError},
	"N3": {Description: "Cash back service not available", Category: pkgerrors.CategorySystemError},
}
