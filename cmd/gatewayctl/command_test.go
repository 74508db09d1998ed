package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/card-gateway/internal/adapters/aim"
	"github.com/kevin07696/card-gateway/test/mocks"
)

func newTestAdapter(body string) (*aim.Adapter, *mocks.MockTransport) {
	transport := mocks.NewMockTransport(body)
	creds := aim.Credentials{AccountID: "acct", RegistrationKey: "secret", Sandbox: true}
	return aim.NewAdapter(aim.DefaultConfig(creds), transport, nil), transport
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{
		"-op", "credit",
		"-amount", "5.00",
		"-card", "1111",
		"-trans-id", "100001",
		"-first-name", "Ada",
		"-state", "Oregon",
		"-custom", "order_id=ord-1",
		"-custom", "note=a=b",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, opCredit, opts.operation)
	assert.Equal(t, "5.00", opts.amount)
	assert.Equal(t, "Ada", *opts.fields[aim.FieldFirstName])
	assert.Equal(t, "Oregon", *opts.fields[aim.FieldState])
	assert.Equal(t, keyValues{{"order_id", "ord-1"}, {"note", "a=b"}}, opts.custom)
	assert.Equal(t, ".env", opts.envFile)
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad custom", args: []string{"-custom", "novalue"}},
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "positional args", args: []string{"sale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptions(tt.args, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestExecute_Operations(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantType string
		wantKey  string
		wantVal  string
	}{
		{name: "sale", args: []string{"-op", "sale", "-amount", "1.00", "-card", "4111111111111111", "-exp", "0529"}, wantType: "AUTH_CAPTURE", wantKey: "Amount", wantVal: "100"},
		{name: "authorize", args: []string{"-op", "authorize", "-amount", "2", "-card", "4111111111111111", "-exp", "0529"}, wantType: "AUTH_ONLY", wantKey: "CCExpDate", wantVal: "2905"},
		{name: "capture with amount", args: []string{"-op", "capture", "-trans-id", "9", "-amount", "0.50"}, wantType: "PRIOR_AUTH_CAPTURE", wantKey: "Amount", wantVal: "50"},
		{name: "void", args: []string{"-op", "void", "-trans-id", "9"}, wantType: "VOID", wantKey: "TransID", wantVal: "9"},
		{name: "capture only", args: []string{"-op", "capture-only", "-auth-code", "V1", "-amount", "3", "-card", "4111111111111111", "-exp", "0529"}, wantType: "CAPTURE_ONLY", wantKey: "AuthCode", wantVal: "V1"},
		{name: "credit", args: []string{"-op", "credit", "-trans-id", "9", "-amount", "3", "-card", "1111"}, wantType: "CREDIT", wantKey: "CCNumber", wantVal: "1111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.args, io.Discard)
			require.NoError(t, err)
			adapter, transport := newTestAdapter("ResponseCode=00&Auth=OK1")

			result, err := execute(context.Background(), adapter, opts)
			require.NoError(t, err)
			assert.True(t, result.Approved())

			form := transport.LastCall().Form()
			assert.Equal(t, tt.wantType, form.Get("TransType"))
			assert.Equal(t, tt.wantVal, form.Get(tt.wantKey))
			assert.NotEmpty(t, form.Get("RefID"), "invoice number is always sent")
		})
	}
}

func TestExecute_UnknownOperation(t *testing.T) {
	opts, err := parseOptions([]string{"-op", "refund"}, io.Discard)
	require.NoError(t, err)
	adapter, transport := newTestAdapter("")

	_, err = execute(context.Background(), adapter, opts)

	assert.Error(t, err)
	assert.Equal(t, 0, transport.CallCount())
}

func TestExecute_UnvalidatedCustomFields(t *testing.T) {
	opts, err := parseOptions([]string{
		"-op", "void", "-trans-id", "9", "-invoice", "42",
		"-custom", "order_id=ord-1",
	}, io.Discard)
	require.NoError(t, err)
	adapter, transport := newTestAdapter("ResponseCode=00&Auth=OK1")

	result, err := execute(context.Background(), adapter, opts)
	require.NoError(t, err)

	form := transport.LastCall().Form()
	assert.Equal(t, "42", form.Get("RefID"))
	assert.Equal(t, "ord-1", form.Get("order_id"))
	assert.Equal(t, "ord-1", result.CustomField("order_id"))
}

func TestPrintResult(t *testing.T) {
	opts, err := parseOptions([]string{"-op", "sale", "-amount", "10.50", "-card", "4111111111111111", "-exp", "0529", "-cvv", "123", "-invoice", "7"}, io.Discard)
	require.NoError(t, err)
	adapter, _ := newTestAdapter("|ResponseCode=00&Auth=1234AB&tranNr=555&Amount=1050|")

	result, err := execute(context.Background(), adapter, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, result))

	assert.NotContains(t, buf.String(), "4111111111111111")
	assert.NotContains(t, buf.String(), "secret")

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, "approved", view["state"])
	assert.Equal(t, "AUTH_CAPTURE", view["transaction_type"])
	assert.Equal(t, "1234AB", view["auth_code"])
	assert.Equal(t, "555", view["transaction_id"])
	assert.Equal(t, "10.50", view["amount"])
	assert.Equal(t, "Visa", view["card_brand"])
	assert.NotContains(t, view, "card_balance")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(&aim.TransactionResult{State: aim.ApprovalStateApproved}))
	assert.Equal(t, 2, exitCode(&aim.TransactionResult{State: aim.ApprovalStateDeclined}))
	assert.Equal(t, 3, exitCode(&aim.TransactionResult{State: aim.ApprovalStateError}))
}

func TestRun_NeverLogsCredentials(t *testing.T) {
	var posted url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		posted, _ = url.ParseQuery(string(raw))
		w.Write([]byte("|ResponseCode=00&Auth=1234AB&tranNr=555&Amount=1050|"))
	}))
	defer server.Close()

	t.Setenv("GATEWAY_ACCOUNT_ID", "SECRET-ACCT-42")
	t.Setenv("GATEWAY_REGISTRATION_KEY", "SECRET-KEY-99")
	t.Setenv("GATEWAY_URL", server.URL)
	t.Setenv("GATEWAY_SANDBOX", "true")
	t.Setenv("GATEWAY_TIMEOUT", "5")
	t.Setenv("GATEWAY_RATE_LIMIT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-env", filepath.Join(t.TempDir(), "missing.env"),
		"-op", "sale", "-amount", "10.50", "-card", "4111111111111111", "-exp", "0529",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "SECRET-ACCT-42", posted.Get("MerchantID"))

	logs := stderr.String()
	assert.Contains(t, logs, "Starting gatewayctl")
	assert.NotContains(t, logs, "SECRET-ACCT-42")
	assert.NotContains(t, logs, "SECRET-KEY-99")
	assert.NotContains(t, logs, "4111111111111111")

	assert.NotContains(t, stdout.String(), "SECRET-ACCT-42")
	assert.Contains(t, stdout.String(), `"state": "approved"`)
}

func TestRun_DeclineLogsCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ResponseCode=54&Auth=Declined"))
	}))
	defer server.Close()

	t.Setenv("GATEWAY_ACCOUNT_ID", "acct")
	t.Setenv("GATEWAY_REGISTRATION_KEY", "key")
	t.Setenv("GATEWAY_URL", server.URL)
	t.Setenv("GATEWAY_TIMEOUT", "5")
	t.Setenv("GATEWAY_RATE_LIMIT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_DEVELOPMENT", "")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-env", filepath.Join(t.TempDir(), "missing.env"),
		"-op", "void", "-trans-id", "100001",
	}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Transaction not approved")
	assert.Contains(t, stderr.String(), "expired_card")
	assert.Contains(t, stdout.String(), `"category": "expired_card"`)
}
