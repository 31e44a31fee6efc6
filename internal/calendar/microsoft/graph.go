// internal/calendar/microsoft/graph.go
package microsoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	commonhttp "careers-scheduling/internal/common/http"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// GraphClient is a thin Microsoft Graph REST client covering the single
// call this module needs: creating a calendar event under an organizer.
type GraphClient struct {
	baseURL    string
	httpClient *commonhttp.Client
}

func NewGraphClient(httpClient *commonhttp.Client) *GraphClient {
	return &GraphClient{
		baseURL:    graphBaseURL,
		httpClient: httpClient,
	}
}

type graphEvent struct {
	Subject string `json:"subject"`
	Body    struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	Start                 graphDateTime   `json:"start"`
	End                   graphDateTime   `json:"end"`
	Location              *graphLocation  `json:"location,omitempty"`
	Attendees             []graphAttendee `json:"attendees,omitempty"`
	IsOnlineMeeting       bool            `json:"isOnlineMeeting"`
	OnlineMeetingProvider string          `json:"onlineMeetingProvider,omitempty"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphLocation struct {
	DisplayName string `json:"displayName"`
}

type graphAttendee struct {
	EmailAddress struct {
		Address string `json:"address"`
		Name    string `json:"name,omitempty"`
	} `json:"emailAddress"`
	Type string `json:"type"`
}

type graphEventResponse struct {
	ID            string `json:"id"`
	WebLink       string `json:"webLink"`
	OnlineMeeting *struct {
		JoinURL string `json:"joinUrl"`
	} `json:"onlineMeeting"`
}

// CreateEvent posts the event to /users/{organizer}/events.
func (c *GraphClient) CreateEvent(ctx context.Context, accessToken, organizer string, event *graphEvent) (*graphEventResponse, error) {
	url := fmt.Sprintf("%s/users/%s/events", c.baseURL, organizer)

	jsonData, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to create event (status %d): %s", resp.StatusCode, string(body))
	}

	var created graphEventResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &created, nil
}
