package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/pagination"
	"skillswap/internal/pkg/response"
	"skillswap/internal/pkg/validator"
)

// TransactionHandler handles the coin ledger endpoints
type TransactionHandler struct {
	transactionService *services.TransactionService
	cfg                *config.Config
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *services.TransactionService, cfg *config.Config) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, cfg: cfg}
}

// normalizeAliases rewrites legacy field names still sent by older
// clients: user_id means the paying side, amount means coins.
func normalizeAliases(body map[string]interface{}) {
	if _, ok := body["from_user_id"]; !ok {
		if v, ok := body["user_id"]; ok {
			body["from_user_id"] = v
		}
	}
	if _, ok := body["coins"]; !ok {
		if v, ok := body["amount"]; ok {
			body["coins"] = v
		}
	}
}

// List lists transactions. Users see rows where they are either party;
// admins see everything.
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PaginatedResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.cfg.Pagination.MaxPerPage)

	input := &services.ListTransactionsInput{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Offset: params.Offset,
		Limit:  params.PerPage,
	}
	if isAdmin(c) {
		if userID := c.QueryInt("user_id"); userID > 0 {
			input.UserID = uint(userID)
		}
	} else {
		input.UserID = actorID(c)
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			input.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			input.DateTo = &end
		}
	}

	items, total, err := h.transactionService.List(c.UserContext(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list transactions")
	}

	return response.Paginated(c, items, params, total)
}

// Get returns one transaction (party or admin)
// @Summary Get transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	tx, err := h.transactionService.GetByID(c.UserContext(), id, actorID(c), isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			return response.NotFound(c, "Transaction not found")
		case errors.Is(err, services.ErrNotTransactionParty):
			return response.Forbidden(c, "You are not a party to this transaction")
		default:
			return response.InternalServerError(c, "Failed to get transaction")
		}
	}

	return response.Success(c, "Transaction retrieved successfully", tx)
}

// Create records a new coin transfer in pending state
// @Summary Create transaction
// @Description Record a typed coin transfer; legacy aliases user_id and amount are accepted
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	normalizeAliases(body)

	v := validator.New(body)
	v.Required("to_user_id").Integer("to_user_id").Min("to_user_id", 1)
	v.Required("coins").Integer("coins").Min("coins", 1)
	v.Required("type").In("type", models.TransactionTypes...)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	toUserID, _ := bodyInt(body, "to_user_id")
	coins, _ := bodyInt(body, "coins")

	// The paying side defaults to the caller; only admins may record a
	// transfer on behalf of another user.
	fromUserID := actorID(c)
	if n, ok := bodyInt(body, "from_user_id"); ok && n > 0 {
		if uint(n) != actorID(c) && !isAdmin(c) {
			return response.Forbidden(c, "You can only create transactions from your own account")
		}
		fromUserID = uint(n)
	}

	input := &services.CreateTransactionInput{
		ServiceID:  bodyUintPtr(body, "service_id"),
		DemandID:   bodyUintPtr(body, "demand_id"),
		FromUserID: fromUserID,
		ToUserID:   uint(toUserID),
		Coins:      coins,
		Type:       bodyString(body, "type"),
		Notes:      bodyString(body, "notes"),
	}

	tx, err := h.transactionService.Create(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTxType):
			return response.BadRequest(c, "Invalid transaction type")
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Coin amount must be positive")
		case errors.Is(err, services.ErrPartyNotFound):
			return response.NotFound(c, "Transaction party not found")
		default:
			return response.InternalServerError(c, "Failed to create transaction")
		}
	}

	return response.Created(c, "Transaction created successfully", tx)
}

// UpdateStatus moves a transaction through its lifecycle (admin)
// @Summary Update transaction status
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validator.New(body)
	v.Required("status").In("status", models.TransactionStatuses...)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	tx, err := h.transactionService.UpdateStatus(c.UserContext(), id, actorID(c), bodyString(body, "status"), requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			return response.NotFound(c, "Transaction not found")
		case errors.Is(err, services.ErrInvalidTxStatus):
			return response.BadRequest(c, "Invalid transaction status")
		default:
			return response.InternalServerError(c, "Failed to update transaction status")
		}
	}

	return response.Success(c, "Transaction status updated successfully", tx)
}

// BuyCoins credits purchased coins to the caller's balance
// @Summary Buy coins
// @Description Credit purchased coins to the caller's balance in a single atomic step
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /transactions/buy-coins [post]
func (h *TransactionHandler) BuyCoins(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	normalizeAliases(body)

	v := validator.New(body)
	v.Required("coins").Integer("coins").Min("coins", 1)
	if v.Fails() {
		return response.ValidationFailed(c, v.Errors())
	}

	coins, _ := bodyInt(body, "coins")

	tx, newBalance, err := h.transactionService.BuyCoins(c.UserContext(), actorID(c), coins)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Coin amount must be positive")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to buy coins")
		}
	}

	return response.Created(c, "Coins purchased successfully", fiber.Map{
		"transaction": tx,
		"balance":     newBalance,
	})
}
