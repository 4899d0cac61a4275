package handlers

import (
	"errors"
	"net/http"
	"strings"

	"journeycompass/internal/gateway"
	"journeycompass/internal/http/middleware"
	"journeycompass/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler signs riders in with a one-time password sent to their email.
type AuthHandler struct {
	OTP      gateway.OTPSender
	Sessions middleware.Sessions
	Log      *zap.Logger
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// POST /api/auth/otp/send
func (h AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	email := utils.NormalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		respondError(c, http.StatusBadRequest, "validation_error", "a valid email is required", nil)
		return
	}

	if err := h.OTP.Send(c.Request.Context(), email); err != nil {
		h.log().Warn("otp send failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		msg := err.Error()
		if errors.Is(err, gateway.ErrOTPNetwork) {
			msg = gateway.MsgNetworkError
		}
		respondError(c, http.StatusBadGateway, "otp_send_failed", msg, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent", "email": email})
}

// POST /api/auth/otp/verify
func (h AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	email := utils.NormalizeEmail(req.Email)
	if !strings.Contains(email, "@") || strings.TrimSpace(req.OTP) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "email and otp are required", nil)
		return
	}

	res := h.OTP.Verify(c.Request.Context(), email, req.OTP)
	if !res.Success {
		respondError(c, http.StatusUnauthorized, "otp_invalid", res.Error, nil)
		return
	}

	token, err := h.Sessions.Issue(email)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "token_failed", "could not create session", nil)
		return
	}
	utils.LogEvent(h.log(), middleware.GetRequestID(c), "auth", "verify_otp", "signed in")
	c.JSON(http.StatusOK, gin.H{"token": token, "email": email})
}

func (h AuthHandler) log() *zap.Logger {
	if h.Log != nil {
		return h.Log
	}
	return zap.NewNop()
}
