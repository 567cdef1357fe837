package smartlead

// CreateCampaignParams is the payload for creating a campaign.
type CreateCampaignParams struct {
	Name     string `json:"name"`
	ClientID *int   `json:"client_id,omitempty"`
}

// ScheduleParams is the payload for updating a campaign schedule.
// Timezone is an IANA name, hours are 24-hour HH:MM, and DaysOfTheWeek
// holds values 0 through 6.
type ScheduleParams struct {
	Timezone          string `json:"timezone"`
	DaysOfTheWeek     []int  `json:"days_of_the_week"`
	StartHour         string `json:"start_hour"`
	EndHour           string `json:"end_hour"`
	MinTimeBtwEmails  *int   `json:"min_time_btw_emails,omitempty"`
	MaxNewLeadsPerDay *int   `json:"max_new_leads_per_day,omitempty"`
	ScheduleStartTime string `json:"schedule_start_time,omitempty"`
}

// OutOfOfficeSettings controls how out-of-office replies are treated.
type OutOfOfficeSettings struct {
	IgnoreOOOAsReply       *bool `json:"ignoreOOOasReply,omitempty"`
	AutoReactivateOOO      *bool `json:"autoReactivateOOO,omitempty"`
	ReactivateOOOWithDelay *int  `json:"reactivateOOOwithDelay,omitempty"`
	AutoCategorizeOOO      *bool `json:"autoCategorizeOOO,omitempty"`
}

// SettingsParams is the payload for updating a campaign's general settings.
// All fields are optional; nil fields are omitted so upstream keeps the
// existing value.
type SettingsParams struct {
	Name                         *string              `json:"name,omitempty"`
	TrackSettings                []string             `json:"track_settings,omitempty"`
	StopLeadSettings             *string              `json:"stop_lead_settings,omitempty"`
	UnsubscribeText              *string              `json:"unsubscribe_text,omitempty"`
	SendAsPlainText              *bool                `json:"send_as_plain_text,omitempty"`
	ForcePlainText               *bool                `json:"force_plain_text,omitempty"`
	EnableAIESPMatching          *bool                `json:"enable_ai_esp_matching,omitempty"`
	FollowUpPercentage           *int                 `json:"follow_up_percentage,omitempty"`
	ClientID                     *int                 `json:"client_id,omitempty"`
	AddUnsubscribeTag            *bool                `json:"add_unsubscribe_tag,omitempty"`
	AutoPauseDomainLeadsOnReply  *bool                `json:"auto_pause_domain_leads_on_reply,omitempty"`
	IgnoreSSMailboxSendingLimit  *bool                `json:"ignore_ss_mailbox_sending_limit,omitempty"`
	BounceAutopauseThreshold     *string              `json:"bounce_autopause_threshold,omitempty"`
	OutOfOfficeDetectionSettings *OutOfOfficeSettings `json:"out_of_office_detection_settings,omitempty"`
	AICategorisationOptions      []int                `json:"ai_categorisation_options,omitempty"`
}

// SequenceDelay sets the wait before a sequence step is sent.
type SequenceDelay struct {
	DelayInDays int `json:"delay_in_days"`
}

// SequenceVariant is one A/B variant of a sequence step.
type SequenceVariant struct {
	Subject                       string `json:"subject"`
	EmailBody                     string `json:"email_body"`
	VariantLabel                  string `json:"variant_label"`
	VariantDistributionPercentage *int   `json:"variant_distribution_percentage,omitempty"`
}

// Sequence is one step of a campaign's email sequence. Subject is a pointer
// so a blank subject (continue the thread) stays distinct from an absent one.
type Sequence struct {
	SeqNumber                  int               `json:"seq_number"`
	SeqDelayDetails            SequenceDelay     `json:"seq_delay_details"`
	VariantDistributionType    string            `json:"variant_distribution_type,omitempty"`
	WinningMetricProperty      string            `json:"winning_metric_property,omitempty"`
	LeadDistributionPercentage *int              `json:"lead_distribution_percentage,omitempty"`
	Subject                    *string           `json:"subject,omitempty"`
	EmailBody                  string            `json:"email_body,omitempty"`
	SeqVariants                []SequenceVariant `json:"seq_variants,omitempty"`
}
