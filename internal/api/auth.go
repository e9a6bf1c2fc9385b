package api

import (
	"errors"

	"power-vend-api/internal/apperrors"
	"power-vend-api/internal/middleware"
	"power-vend-api/internal/models"
	"power-vend-api/internal/response"
	"power-vend-api/internal/services"
	"power-vend-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// AuthController handles partner signup, login, email verification, password
// reset, and activation.
type AuthController struct {
	Partners *services.PartnerService
	Tokens   *services.TokenService
	Cypher   *services.Cypher
	Store    services.TokenStore
	Email    services.EmailSender
}

// SignupRequest is the partner signup request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Signup registers a partner, issues an email-verification token, generates
// the partner's API key pair, and mails the verification token.
func (ctl *AuthController) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return
	}

	partner, err := ctl.Partners.Create(req.Name, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	claim := services.PartnerClaim{ID: partner.ID, Email: partner.Email}

	token, err := ctl.Tokens.Issue(ctx, claim, services.TokenTypeEmailVerification)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to issue verification token", err))
		return
	}

	apiKey, apiSecret, err := ctl.Cypher.GenerateAPIKeyPair(partner.ID)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to generate API credentials", err))
		return
	}

	// The API-key middleware looks the encrypted secret blob up by the raw
	// secret header value, so that is the cache key.
	encryptedSecret, err := ctl.Cypher.EncryptString(apiSecret)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to generate API credentials", err))
		return
	}
	if err := ctl.Store.Set(ctx, apiSecret, encryptedSecret, 0); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to store API credentials", err))
		return
	}

	if ctl.Email != nil {
		if err := ctl.Email.SendVerificationEmail(ctx, partner.Email, token); err != nil {
			logging.Errorf("Failed to send verification email to %s: %v", partner.Email, err)
		}
	}

	response.CreatedJSON(c, gin.H{
		"partner": gin.H{
			"id":    partner.ID,
			"email": partner.Email,
			"name":  partner.Name,
		},
		"apiKey":    apiKey,
		"apiSecret": apiSecret,
		"token":     token,
	})
}

// VerifyEmail marks the authenticated partner's email as verified. The
// verification token is single-use: its cache entry is dropped on success.
func (ctl *AuthController) VerifyEmail(c *gin.Context) {
	payload, ok := middleware.GetAuthPayload(c)
	if !ok {
		_ = c.Error(services.ErrInvalidToken)
		return
	}

	if err := ctl.Partners.MarkEmailVerified(payload.Partner.ID); err != nil {
		_ = c.Error(err)
		return
	}

	if err := ctl.Tokens.Revoke(c.Request.Context(), services.TokenTypeEmailVerification, payload.Partner.ID); err != nil {
		logging.Errorf("Failed to revoke verification token for %s: %v", payload.Partner.ID, err)
	}

	c.JSON(200, response.SuccessMessage("Email verified successfully"))
}

// ResendVerificationEmail issues a fresh verification token, invalidating
// any previous one, and mails it.
func (ctl *AuthController) ResendVerificationEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Email is required"))
		return
	}

	partner, err := ctl.Partners.GetByEmail(email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if partner.EmailVerified {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Email is already verified"))
		return
	}

	ctx := c.Request.Context()
	token, err := ctl.Tokens.Issue(ctx, services.PartnerClaim{ID: partner.ID, Email: partner.Email}, services.TokenTypeEmailVerification)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to issue verification token", err))
		return
	}

	if ctl.Email != nil {
		if err := ctl.Email.SendVerificationEmail(ctx, partner.Email, token); err != nil {
			_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to send verification email", err))
			return
		}
	}

	c.JSON(200, response.SuccessMessage("Verification email sent"))
}

// ForgotPasswordRequest is the forgot-password request body
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a password-reset token and mails it. Issuing a new
// reset token invalidates any prior one for the partner.
func (ctl *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return
	}

	partner, err := ctl.Partners.GetByEmail(req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	token, err := ctl.Tokens.Issue(ctx, services.PartnerClaim{ID: partner.ID, Email: partner.Email}, services.TokenTypePasswordReset)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to issue reset token", err))
		return
	}

	if ctl.Email != nil {
		if err := ctl.Email.SendPasswordResetEmail(ctx, partner.Email, token); err != nil {
			_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to send reset email", err))
			return
		}
	}

	c.JSON(200, response.SuccessMessage("Password reset email sent"))
}

// ResetPasswordRequest is the reset-password request body
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ResetPassword updates the authenticated partner's password. The reset
// token is single-use.
func (ctl *AuthController) ResetPassword(c *gin.Context) {
	payload, ok := middleware.GetAuthPayload(c)
	if !ok {
		_ = c.Error(services.ErrInvalidToken)
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return
	}

	if err := ctl.Partners.UpdatePassword(payload.Partner.ID, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}

	if err := ctl.Tokens.Revoke(c.Request.Context(), services.TokenTypePasswordReset, payload.Partner.ID); err != nil {
		logging.Errorf("Failed to revoke reset token for %s: %v", payload.Partner.ID, err)
	}

	c.JSON(200, response.SuccessMessage("Password reset successfully"))
}

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a partner and issues an access token
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return
	}

	partner, err := ctl.Partners.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrPartnerNotFound) {
			_ = c.Error(apperrors.New(apperrors.Unauthenticated, "Invalid email or password"))
			return
		}
		_ = c.Error(err)
		return
	}

	if !ctl.Partners.CheckPassword(partner, req.Password) {
		_ = c.Error(apperrors.New(apperrors.Unauthenticated, "Invalid email or password"))
		return
	}
	if !partner.IsActive {
		_ = c.Error(apperrors.New(apperrors.Unauthenticated, "Account is deactivated"))
		return
	}
	if !partner.EmailVerified {
		_ = c.Error(apperrors.New(apperrors.Unauthenticated, "Email is not verified"))
		return
	}

	token, err := ctl.Tokens.Issue(c.Request.Context(), services.PartnerClaim{ID: partner.ID, Email: partner.Email}, services.TokenTypeAccess)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to issue access token", err))
		return
	}

	response.SuccessJSON(c, gin.H{
		"partner": gin.H{
			"id":    partner.ID,
			"email": partner.Email,
			"name":  partner.Name,
		},
		"token": token,
	})
}

// PartnerStateRequest is the activate/deactivate request body
type PartnerStateRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// DeactivatePartner disables a partner account and revokes its access token
func (ctl *AuthController) DeactivatePartner(c *gin.Context) {
	partner, ok := ctl.bindPartnerState(c)
	if !ok {
		return
	}

	if err := ctl.Partners.SetActive(partner.ID, false); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctl.Tokens.Revoke(c.Request.Context(), services.TokenTypeAccess, partner.ID); err != nil {
		logging.Errorf("Failed to revoke access token for %s: %v", partner.ID, err)
	}

	c.JSON(200, response.SuccessMessage("Partner deactivated"))
}

// ActivatePartner re-enables a partner account
func (ctl *AuthController) ActivatePartner(c *gin.Context) {
	partner, ok := ctl.bindPartnerState(c)
	if !ok {
		return
	}

	if err := ctl.Partners.SetActive(partner.ID, true); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, response.SuccessMessage("Partner activated"))
}

// GetPartner returns the profile of the partner identified by the API key
// pair. Exercised behind the ValidateAPIKey middleware.
func (ctl *AuthController) GetPartner(c *gin.Context) {
	partnerID, ok := middleware.GetAPIKeyPartnerID(c)
	if !ok {
		_ = c.Error(services.ErrInvalidAPIKey)
		return
	}

	partner, err := ctl.Partners.GetByID(partnerID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.SuccessJSON(c, gin.H{
		"partner": partner,
	})
}

func (ctl *AuthController) bindPartnerState(c *gin.Context) (*models.Partner, bool) {
	var req PartnerStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return nil, false
	}

	partner, err := ctl.Partners.GetByEmail(req.Email)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return partner, true
}
