package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"smartlead-mcp/internal/logging"
	"smartlead-mcp/internal/smartlead"
)

// mcpTool pairs a tool definition with its handler.
type mcpTool struct {
	tool    mcp.Tool
	handler mcpserver.ToolHandlerFunc
}

// registerTools declares every tool and registers it with the MCP server.
// The registry is populated once here and read-only afterwards.
func (s *Server) registerTools() {
	tools := []mcpTool{
		{
			tool: mcp.NewTool("list_campaigns",
				mcp.WithDescription("List all campaigns in the Smartlead account"),
			),
			handler: s.handleListCampaigns,
		},
		{
			tool: mcp.NewTool("get_campaign",
				mcp.WithDescription("Fetch a campaign by its ID"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign to fetch")),
			),
			handler: s.handleGetCampaign,
		},
		{
			tool: mcp.NewTool("create_campaign",
				mcp.WithDescription("Create a new campaign"),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the campaign")),
				mcp.WithNumber("client_id", mcp.Description("Client to attach the campaign to")),
			),
			handler: s.handleCreateCampaign,
		},
		{
			tool: mcp.NewTool("update_campaign_schedule",
				mcp.WithDescription("Update a campaign's sending schedule"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign to update")),
				mcp.WithString("timezone", mcp.Required(), mcp.Description("IANA timezone name, e.g. America/Los_Angeles")),
				mcp.WithArray("days_of_the_week", mcp.Required(),
					mcp.Description("Days to send on, 0 (Sunday) through 6 (Saturday)"),
					mcp.Items(map[string]any{"type": "number"})),
				mcp.WithString("start_hour", mcp.Required(), mcp.Description("Sending window start in 24-hour HH:MM format")),
				mcp.WithString("end_hour", mcp.Required(), mcp.Description("Sending window end in 24-hour HH:MM format")),
				mcp.WithNumber("min_time_btw_emails", mcp.Description("Minutes between successive emails")),
				mcp.WithNumber("max_new_leads_per_day", mcp.Description("Maximum number of new leads per day")),
				mcp.WithString("schedule_start_time", mcp.Description("ISO timestamp to start the schedule at")),
			),
			handler: s.handleUpdateSchedule,
		},
		{
			tool: mcp.NewTool("update_campaign_settings",
				mcp.WithDescription("Update a campaign's general settings; only provided fields are changed"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign to update")),
				mcp.WithString("name", mcp.Description("New campaign name")),
				mcp.WithArray("track_settings",
					mcp.Description("Tracking opt-outs: DONT_TRACK_EMAIL_OPEN and/or DONT_TRACK_LINK_CLICK"),
					mcp.Items(map[string]any{"type": "string"})),
				mcp.WithString("stop_lead_settings",
					mcp.Description("When to stop processing a lead"),
					mcp.Enum("REPLY_TO_AN_EMAIL", "CLICK_ON_A_LINK", "OPEN_AN_EMAIL")),
				mcp.WithString("unsubscribe_text", mcp.Description("Custom unsubscribe link text")),
				mcp.WithBoolean("send_as_plain_text", mcp.Description("Send emails as plain text")),
				mcp.WithBoolean("force_plain_text", mcp.Description("Force plain text even for formatted emails")),
				mcp.WithBoolean("enable_ai_esp_matching", mcp.Description("Match leads with similar ESP mailboxes")),
				mcp.WithNumber("follow_up_percentage", mcp.Description("Percent of leads to receive follow-ups (0-100)")),
				mcp.WithNumber("client_id", mcp.Description("Client identifier")),
				mcp.WithBoolean("add_unsubscribe_tag", mcp.Description("Add an unsubscribe tag to emails")),
				mcp.WithBoolean("auto_pause_domain_leads_on_reply", mcp.Description("Pause same-domain leads when one replies")),
				mcp.WithBoolean("ignore_ss_mailbox_sending_limit", mcp.Description("Ignore the shared-mailbox sending limit")),
				mcp.WithString("bounce_autopause_threshold", mcp.Description("Bounce percentage that auto-pauses the campaign, as a string")),
				mcp.WithObject("out_of_office_detection_settings", mcp.Description("Out-of-office reply handling options")),
				mcp.WithArray("ai_categorisation_options",
					mcp.Description("Category IDs for AI-based reply categorization"),
					mcp.Items(map[string]any{"type": "number"})),
			),
			handler: s.handleUpdateSettings,
		},
		{
			tool: mcp.NewTool("save_campaign_sequence",
				mcp.WithDescription("Save a campaign's email sequence. Each step needs seq_number and seq_delay_details.delay_in_days; A/B steps add variant_distribution_type and seq_variants"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign to save the sequence for")),
				mcp.WithArray("sequences", mcp.Required(),
					mcp.Description("Ordered sequence steps"),
					mcp.Items(map[string]any{"type": "object"})),
			),
			handler: s.handleSaveSequence,
		},
		{
			tool: mcp.NewTool("patch_campaign_status",
				mcp.WithDescription("Change a campaign's status"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign to patch")),
				mcp.WithString("status", mcp.Required(),
					mcp.Description("New status"),
					mcp.Enum("PAUSED", "STOPPED", "START")),
			),
			handler: s.handlePatchStatus,
		},
		{
			tool: mcp.NewTool("get_campaign_analytics",
				mcp.WithDescription("Fetch campaign analytics for a date range"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign")),
				mcp.WithString("start_date", mcp.Required(), mcp.Description("Range start, YYYY-MM-DD")),
				mcp.WithString("end_date", mcp.Required(), mcp.Description("Range end, YYYY-MM-DD")),
			),
			handler: s.handleAnalytics,
		},
		{
			tool: mcp.NewTool("get_campaign_sequence",
				mcp.WithDescription("Fetch a campaign's sequence data"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign")),
			),
			handler: s.handleGetSequence,
		},
		{
			tool: mcp.NewTool("get_campaign_sequence_analytics",
				mcp.WithDescription("Fetch per-step engagement metrics for a campaign's sequence"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign")),
				mcp.WithString("start_date", mcp.Required(), mcp.Description("Range start, YYYY-MM-DD HH:MM:SS")),
				mcp.WithString("end_date", mcp.Required(), mcp.Description("Range end, YYYY-MM-DD HH:MM:SS")),
				mcp.WithString("time_zone", mcp.Description("Timezone for the date range, e.g. Europe/London")),
			),
			handler: s.handleSequenceAnalytics,
		},
		{
			tool: mcp.NewTool("get_campaigns_by_lead_id",
				mcp.WithDescription("Fetch all campaigns a lead belongs to"),
				mcp.WithString("lead_id", mcp.Required(), mcp.Description("The target lead ID")),
			),
			handler: s.handleCampaignsByLead,
		},
		{
			tool: mcp.NewTool("export_campaign_data",
				mcp.WithDescription("Export all leads of a campaign as CSV"),
				mcp.WithString("campaign_id", mcp.Required(), mcp.Description("The ID of the campaign to export")),
			),
			handler: s.handleExport,
		},
	}

	s.tools = make(map[string]mcpserver.ToolHandlerFunc, len(tools))
	for _, t := range tools {
		s.mcp.AddTool(t.tool, t.handler)
		s.tools[t.tool.Name] = t.handler
	}
}

// jsonResult returns the upstream JSON body as the tool result text.
func jsonResult(raw json.RawMessage) *mcp.CallToolResult {
	return mcp.NewToolResultText(string(raw))
}

// upstreamError maps a client error to a tool error. Upstream HTTP errors
// carry the status; transport failures do not.
func upstreamError(tool string, err error) *mcp.CallToolResult {
	logging.Error("%s: %v", tool, err)
	var apiErr *smartlead.APIError
	if errors.As(err, &apiErr) {
		return mcp.NewToolResultError(apiErr.Error())
	}
	return mcp.NewToolResultError("upstream request failed: " + err.Error())
}

func argError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("invalid arguments: " + err.Error())
}

func (s *Server) handleListCampaigns(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := s.client.ListCampaigns(ctx)
	if err != nil {
		return upstreamError("list_campaigns", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleGetCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	raw, err := s.client.GetCampaign(ctx, campaignID)
	if err != nil {
		return upstreamError("get_campaign", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleCreateCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p smartlead.CreateCampaignParams
	if err := req.BindArguments(&p); err != nil {
		return argError(err), nil
	}
	if p.Name == "" {
		return argError(errors.New("name is required")), nil
	}
	raw, err := s.client.CreateCampaign(ctx, p)
	if err != nil {
		return upstreamError("create_campaign", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleUpdateSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		CampaignID string `json:"campaign_id"`
		smartlead.ScheduleParams
	}
	if err := req.BindArguments(&args); err != nil {
		return argError(err), nil
	}
	if err := validateSchedule(args.CampaignID, args.ScheduleParams); err != nil {
		return argError(err), nil
	}
	raw, err := s.client.UpdateCampaignSchedule(ctx, args.CampaignID, args.ScheduleParams)
	if err != nil {
		return upstreamError("update_campaign_schedule", err), nil
	}
	return jsonResult(raw), nil
}

func validateSchedule(campaignID string, p smartlead.ScheduleParams) error {
	if campaignID == "" {
		return errors.New("campaign_id is required")
	}
	if p.Timezone == "" {
		return errors.New("timezone is required")
	}
	if len(p.DaysOfTheWeek) == 0 {
		return errors.New("days_of_the_week is required")
	}
	for _, d := range p.DaysOfTheWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("days_of_the_week contains %d, want 0 through 6", d)
		}
	}
	if p.StartHour == "" || p.EndHour == "" {
		return errors.New("start_hour and end_hour are required")
	}
	return nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	var p smartlead.SettingsParams
	if err := req.BindArguments(&p); err != nil {
		return argError(err), nil
	}
	raw, err := s.client.UpdateCampaignSettings(ctx, campaignID, p)
	if err != nil {
		return upstreamError("update_campaign_settings", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleSaveSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		CampaignID string               `json:"campaign_id"`
		Sequences  []smartlead.Sequence `json:"sequences"`
	}
	if err := req.BindArguments(&args); err != nil {
		return argError(err), nil
	}
	if args.CampaignID == "" {
		return argError(errors.New("campaign_id is required")), nil
	}
	if len(args.Sequences) == 0 {
		return argError(errors.New("sequences must not be empty")), nil
	}
	for i, seq := range args.Sequences {
		if seq.SeqNumber < 1 {
			return argError(fmt.Errorf("sequences[%d]: seq_number must be 1 or greater", i)), nil
		}
		// Follow-up steps cannot fire immediately.
		if seq.SeqNumber > 1 && seq.SeqDelayDetails.DelayInDays < 1 {
			return argError(fmt.Errorf("sequences[%d]: seq_delay_details.delay_in_days must be at least 1 for follow-ups", i)), nil
		}
	}
	raw, err := s.client.SaveCampaignSequence(ctx, args.CampaignID, args.Sequences)
	if err != nil {
		return upstreamError("save_campaign_sequence", err), nil
	}
	return jsonResult(raw), nil
}

var validStatuses = map[string]bool{"PAUSED": true, "STOPPED": true, "START": true}

func (s *Server) handlePatchStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return argError(err), nil
	}
	if !validStatuses[status] {
		return argError(fmt.Errorf("status %q, want PAUSED, STOPPED, or START", status)), nil
	}
	raw, err := s.client.PatchCampaignStatus(ctx, campaignID, status)
	if err != nil {
		return upstreamError("patch_campaign_status", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	startDate, err := req.RequireString("start_date")
	if err != nil {
		return argError(err), nil
	}
	endDate, err := req.RequireString("end_date")
	if err != nil {
		return argError(err), nil
	}
	raw, err := s.client.CampaignAnalytics(ctx, campaignID, startDate, endDate)
	if err != nil {
		return upstreamError("get_campaign_analytics", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleGetSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	raw, err := s.client.CampaignSequence(ctx, campaignID)
	if err != nil {
		return upstreamError("get_campaign_sequence", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleSequenceAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	startDate, err := req.RequireString("start_date")
	if err != nil {
		return argError(err), nil
	}
	endDate, err := req.RequireString("end_date")
	if err != nil {
		return argError(err), nil
	}
	timeZone := req.GetString("time_zone", "")
	raw, err := s.client.CampaignSequenceAnalytics(ctx, campaignID, startDate, endDate, timeZone)
	if err != nil {
		return upstreamError("get_campaign_sequence_analytics", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleCampaignsByLead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	leadID, err := req.RequireString("lead_id")
	if err != nil {
		return argError(err), nil
	}
	raw, err := s.client.CampaignsByLead(ctx, leadID)
	if err != nil {
		return upstreamError("get_campaigns_by_lead_id", err), nil
	}
	return jsonResult(raw), nil
}

func (s *Server) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID, err := req.RequireString("campaign_id")
	if err != nil {
		return argError(err), nil
	}
	csv, err := s.client.ExportCampaignLeads(ctx, campaignID)
	if err != nil {
		return upstreamError("export_campaign_data", err), nil
	}
	return mcp.NewToolResultText(csv), nil
}
