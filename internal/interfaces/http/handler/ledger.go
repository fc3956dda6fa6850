package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/nursery-erp/backend/internal/application/ledger"
)

// LedgerHandler handles counterparty account ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// PostEntry appends a debit or credit entry to a counterparty account
func (h *LedgerHandler) PostEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActorID == nil {
		req.ActorID = getActorID(c)
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// ReverseEntry posts the compensating entry for an earlier one
func (h *LedgerHandler) ReverseEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	var req ledgerapp.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.ledgerService.ReverseEntry(c.Request.Context(), tenantID, entryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// Balance returns the current balance of a counterparty account
func (h *LedgerHandler) Balance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	counterpartyID, err := uuid.Parse(c.Param("counterparty_id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), tenantID, counterpartyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}

// Statement returns a counterparty's entries together with its balance
func (h *LedgerHandler) Statement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	counterpartyID, err := uuid.Parse(c.Param("counterparty_id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	statement, err := h.ledgerService.Statement(c.Request.Context(), tenantID, counterpartyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// ListEntries lists ledger entries within a date range
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, err := h.ledgerService.EntriesInRange(c.Request.Context(), tenantID, start, end, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, int64(len(entries)), filter.Page, filter.PageSize)
}

// EntriesForDocument lists the entries posted against one source document
func (h *LedgerHandler) EntriesForDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	entries, err := h.ledgerService.EntriesForDocument(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}
