package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"power-vend-api/internal/apperrors"
	"power-vend-api/internal/models"
	"power-vend-api/internal/response"
	"power-vend-api/internal/services"
	"power-vend-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// VendorController orchestrates meter validation, token vending, transaction
// completion, and disco listing.
type VendorController struct {
	// Vend is the startup-selected default backend used by the vend flow.
	Vend     services.VendorBackend
	BuyPower services.VendorBackend
	Baxi     services.VendorBackend

	Transactions *services.TransactionService
	Users        *services.UserService
	Meters       *services.MeterService
	PowerUnits   *services.PowerUnitService
	Email        services.EmailSender
}

// ValidateMeterRequest is the meter validation request body
type ValidateMeterRequest struct {
	MeterNumber string `json:"meterNumber" binding:"required"`
	Provider    string `json:"provider" binding:"required,oneof=BUYPOWERNG BAXI"`
	Disco       string `json:"disco" binding:"required"`
	VendType    string `json:"vendType" binding:"required,oneof=PREPAID POSTPAID"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

// ValidateMeter creates a PENDING transaction, validates the meter with the
// requested provider, and records the owning user and meter. A failure after
// the transaction row exists triggers compensating cleanup so no orphaned
// PENDING row is left behind.
func (ctl *VendorController) ValidateMeter(c *gin.Context) {
	var req ValidateMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return
	}

	backend := ctl.backendForProvider(req.Provider)

	transaction := &models.Transaction{
		Amount:               "0",
		Status:               models.StatusPending,
		Provider:             req.Provider,
		PaymentType:          models.PaymentTypePayment,
		TransactionTimestamp: time.Now(),
		Disco:                req.Disco,
		Superagent:           req.Provider,
	}
	if err := ctl.Transactions.Create(transaction); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to create transaction", err))
		return
	}

	info, err := backend.ValidateMeter(c.Request.Context(), req.Disco, req.MeterNumber, req.VendType)
	if err != nil {
		ctl.rollbackTransaction(transaction.ID)
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Meter validation failed", err))
		return
	}

	user, err := ctl.Users.FindOrCreate(&models.User{
		Name:        info.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     info.Address,
	})
	if err != nil {
		ctl.rollbackTransaction(transaction.ID)
		_ = c.Error(apperrors.Wrap(apperrors.PartialCreation, "Failed to record meter owner", err))
		return
	}

	meter, err := ctl.Meters.FindOrCreate(&models.Meter{
		MeterNumber: req.MeterNumber,
		Address:     info.Address,
		Disco:       req.Disco,
		VendType:    models.VendType(req.VendType),
		UserID:      user.ID,
	})
	if err != nil {
		ctl.rollbackTransaction(transaction.ID)
		_ = c.Error(apperrors.Wrap(apperrors.PartialCreation, "Failed to record meter", err))
		return
	}

	response.SuccessJSON(c, gin.H{
		"transaction": gin.H{
			"transactionId": transaction.ID,
			"status":        transaction.Status,
		},
		"meter": gin.H{
			"disco":    meter.Disco,
			"number":   meter.MeterNumber,
			"address":  meter.Address,
			"phone":    user.PhoneNumber,
			"vendType": meter.VendType,
			"name":     user.Name,
		},
	})
}

// RequestToken vends a token against a validated meter. Preconditions are
// checked in order; each failure is a hard rejection. The transaction is
// annotated with the bank reference but stays PENDING — completion is a
// separate call.
func (ctl *VendorController) RequestToken(c *gin.Context) {
	meterNumber := c.Query("meterNumber")
	transactionID := c.Query("transactionId")
	phoneNumber := c.Query("phoneNumber")
	bankRefID := c.Query("bankRefId")
	bankComment := c.Query("bankComment")
	amount := c.Query("amount")
	disco := c.Query("disco")
	vendType := c.Query("vendType")

	isDebit, _ := strconv.ParseBool(c.Query("isDebit"))
	if !isDebit {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Missing required field"))
		return
	}
	if bankRefID == "" {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Transaction reference is required"))
		return
	}

	up, err := ctl.Vend.CheckDiscoUp(c.Request.Context(), disco)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to check disco status", err))
		return
	}
	if !up {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Disco is currently down"))
		return
	}

	// Replay guard: the bank reference must never have been used. The
	// unique index on bank_ref_id backstops this pre-check against
	// concurrent requests.
	if _, err := ctl.Transactions.GetByBankRefID(bankRefID); err == nil {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Transaction reference has been used before"))
		return
	} else if !errors.Is(err, services.ErrTransactionNotFound) {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to check transaction reference", err))
		return
	}

	transaction, err := ctl.Transactions.GetByID(transactionID)
	if err == nil && transaction.Status == models.StatusComplete {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Transaction has been completed before"))
		return
	} else if err != nil && !errors.Is(err, services.ErrTransactionNotFound) {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to look up transaction", err))
		return
	}

	// Meter lookup is best-effort: a missing meter degrades to empty
	// id/address rather than failing the vend.
	var meterID, meterAddress, ownerID string
	if meter, err := ctl.Meters.GetByMeterNumber(meterNumber); err == nil {
		meterID = meter.ID
		meterAddress = meter.Address
		ownerID = meter.UserID
	}

	result, err := ctl.Vend.VendToken(c.Request.Context(), services.VendRequest{
		TransactionID: transactionID,
		MeterNumber:   meterNumber,
		Disco:         disco,
		Amount:        amount,
		Phone:         phoneNumber,
		VendType:      vendType,
	})
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Token vend failed", err))
		return
	}

	powerUnit := &models.PowerUnit{
		TransactionID: transactionID,
		MeterID:       meterID,
		Disco:         disco,
		Amount:        amount,
		Token:         result.Token,
		TokenNumber:   result.TokenNumber,
		TokenUnits:    result.Units,
		Superagent:    vendType,
		Address:       meterAddress,
	}
	if err := ctl.PowerUnits.Create(powerUnit); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to record power unit", err))
		return
	}

	if err := ctl.Transactions.UpdateVendDetails(transactionID, amount, bankRefID, bankComment); err != nil {
		_ = c.Error(err)
		return
	}

	ctl.sendTokenReceipt(ownerID, meterNumber, result)

	response.SuccessJSON(c, gin.H{
		"powerUnit": powerUnit,
	})
}

// CompleteTransactionRequest is the completion request body
type CompleteTransactionRequest struct {
	BankRefID string `json:"bankRefId" binding:"required"`
}

// CompleteTransaction transitions a vended transaction to COMPLETE. This is
// the only place a transaction reaches its terminal state.
func (ctl *VendorController) CompleteTransaction(c *gin.Context) {
	var req CompleteTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.BadRequest, "Invalid request body", err))
		return
	}

	transaction, err := ctl.Transactions.GetByBankRefID(req.BankRefID)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			_ = c.Error(apperrors.New(apperrors.BadRequest, "Transaction not found"))
			return
		}
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to look up transaction", err))
		return
	}

	if transaction.Status == models.StatusComplete {
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Transaction is already complete"))
		return
	}

	if err := ctl.Transactions.UpdateStatus(transaction.ID, models.StatusComplete); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to complete transaction", err))
		return
	}

	c.JSON(200, response.SuccessMessage("Transaction has been completed"))
}

// GetDiscos lists the discos available through the requested provider
func (ctl *VendorController) GetDiscos(c *gin.Context) {
	var backend services.VendorBackend
	switch c.Query("provider") {
	case "buypower":
		backend = ctl.BuyPower
	case "baxi":
		backend = ctl.Baxi
	default:
		_ = c.Error(apperrors.New(apperrors.BadRequest, "Invalid provider"))
		return
	}

	discos, err := backend.FetchDiscos(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.Internal, "Failed to fetch discos", err))
		return
	}

	response.SuccessJSON(c, gin.H{
		"discos": discos,
	})
}

func (ctl *VendorController) backendForProvider(provider string) services.VendorBackend {
	if provider == services.ProviderBaxi {
		return ctl.Baxi
	}
	return ctl.BuyPower
}

// rollbackTransaction is the compensating cleanup for the validation flow
func (ctl *VendorController) rollbackTransaction(id string) {
	if err := ctl.Transactions.Delete(id); err != nil {
		logging.Errorf("Failed to roll back transaction %s: %v", id, err)
	}
}

// sendTokenReceipt emails the issued token to the meter owner when known.
// Fire and forget: receipt failures must not fail the vend.
func (ctl *VendorController) sendTokenReceipt(ownerID, meterNumber string, result *services.VendResult) {
	if ctl.Email == nil || ownerID == "" {
		return
	}
	owner, err := ctl.Users.GetByID(ownerID)
	if err != nil || owner.Email == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := ctl.Email.SendTokenReceipt(ctx, owner.Email, result.Token, result.Units, meterNumber); err != nil {
			logging.Errorf("Failed to send token receipt to %s: %v", owner.Email, err)
		}
	}()
}
