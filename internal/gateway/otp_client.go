package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"journeycompass/internal/utils"
)

const (
	MsgNetworkError = "Network error, try again"
	MsgOTPExpired   = "OTP expired, please resend"
	MsgInvalidOTP   = "Invalid OTP"
)

// ErrOTPNetwork marks a send or verify call that never reached the OTP service.
var ErrOTPNetwork = errors.New(MsgNetworkError)

// OTPSender is the one-time-password collaborator used by sign-in.
type OTPSender interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) VerifyResult
}

// VerifyResult is {success:true} or {success:false, error}.
type VerifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OTPClient talks to the OTP webhook. Both actions POST to the same URL.
type OTPClient struct {
	URL    string
	client *http.Client
}

func NewOTPClient(url string, timeout time.Duration) *OTPClient {
	return &OTPClient{URL: url, client: newHTTPClient(nil, timeout)}
}

type otpRequest struct {
	Action string `json:"action"`
	Email  string `json:"email"`
	OTP    string `json:"otp,omitempty"`
}

type otpResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Send asks the service to email a code. A non-2xx response is an error
// carrying the response text.
func (c *OTPClient) Send(ctx context.Context, email string) error {
	status, body, err := postJSON(ctx, c.httpClient(), c.URL, otpRequest{
		Action: "send",
		Email:  utils.NormalizeEmail(email),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOTPNetwork, err)
	}
	if status < 200 || status >= 300 {
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = fmt.Sprintf("Failed to send OTP (%d)", status)
		}
		return errors.New(text)
	}
	return nil
}

// Verify checks a code. Only an explicit "SUCCESS" status counts as success.
func (c *OTPClient) Verify(ctx context.Context, email, code string) VerifyResult {
	status, body, err := postJSON(ctx, c.httpClient(), c.URL, otpRequest{
		Action: "verify",
		Email:  utils.NormalizeEmail(email),
		OTP:    strings.TrimSpace(code),
	})
	if err != nil {
		return VerifyResult{Error: MsgNetworkError}
	}

	var data otpResponse
	// the service sometimes answers with an empty or non-JSON body
	_ = json.Unmarshal(bytes.TrimSpace(body), &data)

	if status < 200 || status >= 300 {
		if data.Error != "" {
			return VerifyResult{Error: data.Error}
		}
		return VerifyResult{Error: fmt.Sprintf("Verification failed (%d)", status)}
	}
	if data.Status == "SUCCESS" {
		return VerifyResult{Success: true}
	}
	if strings.Contains(strings.ToLower(data.Error), "expire") {
		return VerifyResult{Error: MsgOTPExpired}
	}
	if data.Error != "" {
		return VerifyResult{Error: data.Error}
	}
	return VerifyResult{Error: MsgInvalidOTP}
}

func (c *OTPClient) httpClient() *http.Client {
	if c.client == nil {
		c.client = newHTTPClient(nil, 0)
	}
	return c.client
}
