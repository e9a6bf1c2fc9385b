package api

import (
	"power-vend-api/internal/middleware"
	"power-vend-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine, auth *AuthController, vendor *VendorController) {
	r.Use(middleware.ErrorHandler())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", auth.Signup)
		authGroup.POST("/verifyemail",
			middleware.BasicAuth(auth.Tokens, services.TokenTypeEmailVerification),
			auth.VerifyEmail)
		authGroup.GET("/verifyemail", auth.ResendVerificationEmail)
		authGroup.POST("/forgotpassword", auth.ForgotPassword)
		authGroup.POST("/resetpassword",
			middleware.BasicAuth(auth.Tokens, services.TokenTypePasswordReset),
			auth.ResetPassword)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/deactivate", auth.DeactivatePartner)
		authGroup.POST("/activate", auth.ActivatePartner)
		authGroup.GET("/partner",
			middleware.ValidateAPIKey(auth.Cypher, auth.Store),
			auth.GetPartner)
	}

	vendorGroup := r.Group("/vendor")
	{
		vendorGroup.POST("/validatemeter", vendor.ValidateMeter)
		vendorGroup.GET("/token", vendor.RequestToken)
		vendorGroup.POST("/complete", vendor.CompleteTransaction)
		vendorGroup.GET("/discos", vendor.GetDiscos)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "power-vend-api",
		})
	})
}
