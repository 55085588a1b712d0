package statusapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
	StatusUnknown    Status = "unknown"
)

// Terminal reports whether the status ends the job on the server side.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError || s == StatusUnknown
}

// FlexID tolerates both string and numeric identifiers; the backend has
// historically returned result ids in either form.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("result id is neither string nor number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// JobStatus is the payload returned by the generation-status endpoint.
// Progress is a pointer because the backend omits it while a job is still
// queued.
type JobStatus struct {
	Status   Status   `json:"status"`
	Progress *float64 `json:"progress,omitempty"`
	Stage    string   `json:"stage,omitempty"`
	ResultID FlexID   `json:"result_id,omitempty"`

	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
	Reason    string `json:"reason,omitempty"`

	CorrelationID string `json:"correlation_id,omitempty"`
	RequestID     string `json:"request_id,omitempty"`

	CreditsRefunded      bool `json:"credits_refunded,omitempty"`
	SupportContactAction bool `json:"support_contact_action,omitempty"`
	SupportChatEnabled   bool `json:"support_chat_enabled,omitempty"`
}

// GenerateResponse is returned when the backend accepts a generation request.
type GenerateResponse struct {
	TaskID string `json:"task_id"`
}
