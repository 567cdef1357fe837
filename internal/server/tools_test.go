package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	calls    atomic.Int64
	lastPath string
}

// newTestServer builds a Server pointed at a fake upstream that replies with
// the given status and body, counting every request it receives.
func newTestServer(t *testing.T, status int, body string) (*Server, *fakeUpstream) {
	t.Helper()
	up := &fakeUpstream{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.calls.Add(1)
		up.lastPath = r.URL.Path
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return New(Config{APIKey: "test-key", APIBaseURL: ts.URL}), up
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	handler, ok := s.tools[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestRegistryComplete(t *testing.T) {
	s, _ := newTestServer(t, http.StatusOK, `{}`)

	want := []string{
		"list_campaigns",
		"get_campaign",
		"create_campaign",
		"update_campaign_schedule",
		"update_campaign_settings",
		"save_campaign_sequence",
		"patch_campaign_status",
		"get_campaign_analytics",
		"get_campaign_sequence",
		"get_campaign_sequence_analytics",
		"get_campaigns_by_lead_id",
		"export_campaign_data",
	}
	assert.Len(t, s.tools, len(want))
	for _, name := range want {
		assert.Contains(t, s.tools, name)
	}
}

func TestGetCampaignSuccess(t *testing.T) {
	body := `{"id":372,"name":"My Epic Campaign","status":"ACTIVE"}`
	s, up := newTestServer(t, http.StatusOK, body)

	res := callTool(t, s, "get_campaign", map[string]any{"campaign_id": "372"})
	assert.False(t, res.IsError)
	assert.JSONEq(t, body, resultText(t, res))
	assert.Equal(t, int64(1), up.calls.Load())
	assert.Equal(t, "/campaigns/372", up.lastPath)
}

func TestListCampaignsSuccess(t *testing.T) {
	body := `[{"id":372},{"id":373}]`
	s, up := newTestServer(t, http.StatusOK, body)

	res := callTool(t, s, "list_campaigns", nil)
	assert.False(t, res.IsError)
	assert.JSONEq(t, body, resultText(t, res))
	assert.Equal(t, "/campaigns", up.lastPath)
}

func TestExportCampaignDataReturnsCSV(t *testing.T) {
	csv := "id,email\n1,a@example.com\n"
	s, up := newTestServer(t, http.StatusOK, csv)

	res := callTool(t, s, "export_campaign_data", map[string]any{"campaign_id": "372"})
	assert.False(t, res.IsError)
	assert.Equal(t, csv, resultText(t, res))
	assert.Equal(t, "/campaigns/372/leads-export", up.lastPath)
}

func TestMissingRequiredArgument(t *testing.T) {
	s, up := newTestServer(t, http.StatusOK, `{}`)

	for _, tc := range []struct {
		tool string
		args map[string]any
	}{
		{"get_campaign", map[string]any{}},
		{"create_campaign", map[string]any{}},
		{"get_campaign_analytics", map[string]any{"campaign_id": "372"}},
		{"get_campaigns_by_lead_id", nil},
		{"export_campaign_data", map[string]any{}},
		{"patch_campaign_status", map[string]any{"campaign_id": "372"}},
	} {
		res := callTool(t, s, tc.tool, tc.args)
		assert.True(t, res.IsError, "%s should fail validation", tc.tool)
	}
	assert.Equal(t, int64(0), up.calls.Load(), "validation failures must not reach upstream")
}

func TestStatusEnumRejected(t *testing.T) {
	s, up := newTestServer(t, http.StatusOK, `{"ok":true}`)

	res := callTool(t, s, "patch_campaign_status", map[string]any{
		"campaign_id": "372",
		"status":      "RUNNING",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "RUNNING")
	assert.Equal(t, int64(0), up.calls.Load())
}

func TestScheduleValidation(t *testing.T) {
	s, up := newTestServer(t, http.StatusOK, `{"ok":true}`)

	// Missing timezone.
	res := callTool(t, s, "update_campaign_schedule", map[string]any{
		"campaign_id":      "372",
		"days_of_the_week": []any{1, 2, 3},
		"start_hour":       "10:00",
		"end_hour":         "18:00",
	})
	assert.True(t, res.IsError)

	// Day out of range.
	res = callTool(t, s, "update_campaign_schedule", map[string]any{
		"campaign_id":      "372",
		"timezone":         "Europe/Helsinki",
		"days_of_the_week": []any{1, 7},
		"start_hour":       "10:00",
		"end_hour":         "18:00",
	})
	assert.True(t, res.IsError)
	assert.Equal(t, int64(0), up.calls.Load())

	// Valid.
	res = callTool(t, s, "update_campaign_schedule", map[string]any{
		"campaign_id":      "372",
		"timezone":         "Europe/Helsinki",
		"days_of_the_week": []any{1, 2, 3, 4, 5},
		"start_hour":       "10:00",
		"end_hour":         "18:00",
	})
	assert.False(t, res.IsError)
	assert.Equal(t, int64(1), up.calls.Load())
	assert.Equal(t, "/campaigns/372/schedule", up.lastPath)
}

func TestSequenceValidation(t *testing.T) {
	s, up := newTestServer(t, http.StatusOK, `{"ok":true,"data":"success"}`)

	// Empty sequence list.
	res := callTool(t, s, "save_campaign_sequence", map[string]any{
		"campaign_id": "3070",
		"sequences":   []any{},
	})
	assert.True(t, res.IsError)

	// Follow-up with zero delay.
	res = callTool(t, s, "save_campaign_sequence", map[string]any{
		"campaign_id": "3070",
		"sequences": []any{
			map[string]any{
				"seq_number":        2,
				"seq_delay_details": map[string]any{"delay_in_days": 0},
				"subject":           "",
				"email_body":        "<p>Bump</p>",
			},
		},
	})
	assert.True(t, res.IsError)
	assert.Equal(t, int64(0), up.calls.Load())

	// Valid two-step sequence.
	res = callTool(t, s, "save_campaign_sequence", map[string]any{
		"campaign_id": "3070",
		"sequences": []any{
			map[string]any{
				"seq_number":                1,
				"seq_delay_details":         map[string]any{"delay_in_days": 1},
				"variant_distribution_type": "MANUAL_EQUAL",
				"seq_variants": []any{
					map[string]any{"subject": "Subject", "email_body": "<p>Hi</p>", "variant_label": "A"},
				},
			},
			map[string]any{
				"seq_number":        2,
				"seq_delay_details": map[string]any{"delay_in_days": 1},
				"subject":           "",
				"email_body":        "<p>Bump up right!</p>",
			},
		},
	})
	assert.False(t, res.IsError)
	assert.Equal(t, int64(1), up.calls.Load())
}

func TestUpstream404SurfacesStatus(t *testing.T) {
	s, up := newTestServer(t, http.StatusNotFound, `{"message":"campaign not found"}`)

	res := callTool(t, s, "get_campaign", map[string]any{"campaign_id": "999"})
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "404")
	assert.Contains(t, text, "campaign not found")
	assert.Equal(t, int64(1), up.calls.Load())
}

func TestNetworkTimeoutIsDistinctFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(ts.Close)
	s := New(Config{APIKey: "test-key", APIBaseURL: ts.URL, HTTPTimeout: 30 * time.Millisecond})

	res := callTool(t, s, "list_campaigns", nil)
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "upstream request failed")
	assert.NotContains(t, text, "status")
}

func TestUnknownToolDispatch(t *testing.T) {
	s, up := newTestServer(t, http.StatusOK, `{}`)
	ctx := context.Background()

	s.mcp.HandleMessage(ctx, json.RawMessage(`{
		"jsonrpc":"2.0","id":1,"method":"initialize",
		"params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}
	}`))

	resp := s.mcp.HandleMessage(ctx, json.RawMessage(`{
		"jsonrpc":"2.0","id":2,"method":"tools/call",
		"params":{"name":"delete_everything","arguments":{}}
	}`))
	require.NotNil(t, resp)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), "error")
	assert.Equal(t, int64(0), up.calls.Load())
}
