package aim

// FieldRegistryVersion identifies the revision of the recognized field list.
// Bump it whenever a name is added or removed.
const FieldRegistryVersion = "3.1"

// Standard request field names
const (
	FieldAddress          = "address"
	FieldAllowPartialAuth = "allow_partial_auth"
	FieldAmount           = "amount"
	FieldAuthCode         = "auth_code"
	FieldCardCode         = "card_code"
	FieldCardNum          = "card_num"
	FieldCity             = "city"
	FieldCompany          = "company"
	FieldCountry          = "country"
	FieldCustID           = "cust_id"
	FieldCustomerIP       = "customer_ip"
	FieldDescription      = "description"
	FieldDuplicateWindow  = "duplicate_window"
	FieldEmail            = "email"
	FieldEmailCustomer    = "email_customer"
	FieldExpDate          = "exp_date"
	FieldFax              = "fax"
	FieldFirstName        = "first_name"
	FieldFreight          = "freight"
	FieldInvoiceNum       = "invoice_num"
	FieldLastName         = "last_name"
	FieldPhone            = "phone"
	FieldPONum            = "po_num"
	FieldShipToAddress    = "ship_to_address"
	FieldShipToCity       = "ship_to_city"
	FieldShipToCompany    = "ship_to_company"
	FieldShipToCountry    = "ship_to_country"
	FieldShipToFirstName  = "ship_to_first_name"
	FieldShipToLastName   = "ship_to_last_name"
	FieldShipToState      = "ship_to_state"
	FieldShipToZip        = "ship_to_zip"
	FieldState            = "state"
	FieldTax              = "tax"
	FieldTaxExempt        = "tax_exempt"
	FieldTransID          = "trans_id"
	FieldZip              = "zip"
)

var recognizedFields = map[string]struct{}{
	FieldAddress:          {},
	FieldAllowPartialAuth: {},
	FieldAmount:           {},
	FieldAuthCode:         {},
	FieldCardCode:         {},
	FieldCardNum:          {},
	FieldCity:             {},
	FieldCompany:          {},
	FieldCountry:          {},
	FieldCustID:           {},
	FieldCustomerIP:       {},
	FieldDescription:      {},
	FieldDuplicateWindow:  {},
	FieldEmail:            {},
	FieldEmailCustomer:    {},
	FieldExpDate:          {},
	FieldFax:              {},
	FieldFirstName:        {},
	FieldFreight:          {},
	FieldInvoiceNum:       {},
	FieldLastName:         {},
	FieldPhone:            {},
	FieldPONum:            {},
	FieldShipToAddress:    {},
	FieldShipToCity:       {},
	FieldShipToCompany:    {},
	FieldShipToCountry:    {},
	FieldShipToFirstName:  {},
	FieldShipToLastName:   {},
	FieldShipToState:      {},
	FieldShipToZip:        {},
	FieldState:            {},
	FieldTax:              {},
	FieldTaxExempt:        {},
	FieldTransID:          {},
	FieldZip:              {},
}

// sensitiveFields never leave the adapter in a TransactionResult.
var sensitiveFields = map[string]struct{}{
	FieldCardNum:  {},
	FieldExpDate:  {},
	FieldCardCode: {},
}

// IsRecognized reports whether name is part of the standard field registry.
func IsRecognized(name string) bool {
	_, ok := recognizedFields[name]
	return ok
}

// RecognizedFields returns the registry as a slice, in no particular order.
func RecognizedFields() []string {
	names := make([]string, 0, len(recognizedFields))
	for name := range recognizedFields {
		names = append(names, name)
	}
	return names
}

func isSensitive(name string) bool {
	_, ok := sensitiveFields[name]
	return ok
}
