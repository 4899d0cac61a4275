package gateway

import (
	"context"
	"sync"

	"journeycompass/internal/domain/models"
	"journeycompass/internal/utils"
)

// OTPMock accepts a fixed code per email.
type OTPMock struct {
	mock sync.Mutex

	Codes   map[string]string
	Sent    []string
	SendErr error
}

func (m *OTPMock) Send(ctx context.Context, email string) error {
	m.mock.Lock()
	defer m.mock.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, utils.NormalizeEmail(email))
	return nil
}

func (m *OTPMock) Verify(ctx context.Context, email, code string) VerifyResult {
	m.mock.Lock()
	defer m.mock.Unlock()
	want, ok := m.Codes[utils.NormalizeEmail(email)]
	if !ok || want != code {
		return VerifyResult{Error: MsgInvalidOTP}
	}
	return VerifyResult{Success: true}
}

// NotifierMock records notices.
type NotifierMock struct {
	mock sync.Mutex

	Confirmed []models.BookingNotice
	Cancelled []models.BookingNotice
	Err       error
}

func (m *NotifierMock) NotifyBookingConfirmed(ctx context.Context, notice models.BookingNotice) error {
	m.mock.Lock()
	defer m.mock.Unlock()
	m.Confirmed = append(m.Confirmed, notice)
	return m.Err
}

func (m *NotifierMock) NotifyBookingCancelled(ctx context.Context, notice models.BookingNotice) error {
	m.mock.Lock()
	defer m.mock.Unlock()
	m.Cancelled = append(m.Cancelled, notice)
	return m.Err
}
