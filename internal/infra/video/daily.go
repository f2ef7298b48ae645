package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrProvisionFailed = errors.New("room provisioning failed")

type roomProperties struct {
	EnableChat    bool  `json:"enable_chat"`
	StartVideoOff bool  `json:"start_video_off"`
	StartAudioOff bool  `json:"start_audio_off"`
	Exp           int64 `json:"exp"`
}

type createRoomRequest struct {
	Properties roomProperties `json:"properties"`
}

type createRoomResponse struct {
	URL string `json:"url"`
}

// DailyProvisioner mints rooms through the Daily.co REST API.
type DailyProvisioner struct {
	baseURL string
	apiKey  string
	ttl     time.Duration
	client  *http.Client
	now     func() time.Time
}

func NewDailyProvisioner(baseURL, apiKey string, ttl time.Duration) *DailyProvisioner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DailyProvisioner{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		ttl:     ttl,
		client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

// CreateRoom requests a chat-enabled room, camera and microphone off on
// join, expiring ttl from now. It does not retry.
func (p *DailyProvisioner) CreateRoom(ctx context.Context) (string, error) {
	body, err := json.Marshal(createRoomRequest{
		Properties: roomProperties{
			EnableChat:    true,
			StartVideoOff: true,
			StartAudioOff: true,
			Exp:           p.now().Add(p.ttl).Unix(),
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrProvisionFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out createRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrProvisionFailed, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: empty room url", ErrProvisionFailed)
	}
	return out.URL, nil
}
