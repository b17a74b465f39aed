package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/catalog"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/messaging"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ownership"
)

// Handler defines the REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// ListTokens retrieves a page of tokens with ownership merged in
	// GET /api/v1/tokens?rarity_tier=<tier>&trait=<type>:<value>&search=<text>&sort=<field>&order=<asc|desc>&limit=<limit>&offset=<offset>
	ListTokens(c *gin.Context)

	// GetToken retrieves a single token by its number
	// GET /api/v1/tokens/:id
	GetToken(c *gin.Context)

	// GetCounts retrieves the aggregate live/sold counts
	// GET /api/v1/counts
	GetCounts(c *gin.Context)

	// CreatePurchase accepts the wallet layer's confirmation of a settled buy
	// POST /api/v1/purchases
	CreatePurchase(c *gin.Context)

	// StreamPurchases pushes applied purchase events as server-sent events
	// GET /api/v1/purchases/stream
	StreamPurchases(c *gin.Context)

	// TriggerRefresh forces re-resolution of the given tokens (requires authentication)
	// POST /api/v1/refresh
	TriggerRefresh(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	catalog    catalog.Catalog
	reconciler ownership.Reconciler
	publisher  messaging.Publisher // nil disables cross-process propagation
	clock      adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(cat catalog.Catalog, reconciler ownership.Reconciler, publisher messaging.Publisher, clock adapter.Clock) Handler {
	return &handler{
		catalog:    cat,
		reconciler: reconciler,
		publisher:  publisher,
		clock:      clock,
	}
}

// ListTokens retrieves a page of tokens with ownership merged in
func (h *handler) ListTokens(c *gin.Context) {
	params, err := ParseListTokensQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	tokens, total := h.catalog.Select(params.CatalogQuery())

	tokenNumbers := make([]uint64, len(tokens))
	for i, token := range tokens {
		tokenNumbers[i] = token.TokenNumber
	}

	snapshot := h.resolveOwnership(c, tokenNumbers)

	items := make([]TokenDTO, len(tokens))
	for i, token := range tokens {
		items[i] = newTokenDTO(token, snapshot)
	}

	c.JSON(http.StatusOK, ListTokensResponse{
		Items:  items,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// GetToken retrieves a single token by its number
func (h *handler) GetToken(c *gin.Context) {
	tokenNumber, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Token number must be a non-negative integer")
		return
	}

	token, err := h.catalog.Get(tokenNumber)
	if err != nil {
		respondNotFound(c, "Token not found")
		return
	}

	snapshot := h.resolveOwnership(c, []uint64{tokenNumber})
	c.JSON(http.StatusOK, newTokenDTO(token, snapshot))
}

// GetCounts retrieves the aggregate live/sold counts
func (h *handler) GetCounts(c *gin.Context) {
	counts := h.reconciler.Counts()
	c.JSON(http.StatusOK, CountsResponse{
		Live:       counts.Live,
		Sold:       counts.Sold,
		Total:      counts.Total(),
		ComputedAt: counts.ComputedAt,
	})
}

// CreatePurchase accepts the wallet layer's confirmation of a settled buy
func (h *handler) CreatePurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if _, err := h.catalog.Get(req.TokenNumber); err != nil {
		respondNotFound(c, "Token not found")
		return
	}

	event := domain.NewPurchaseEvent(req.TokenNumber, req.Buyer, req.PriceWei, req.TxHash, h.clock.Now())
	if !event.Valid() {
		respondValidationError(c, "buyer must be a non-zero Ethereum address")
		return
	}

	if err := h.reconciler.HandlePurchase(c.Request.Context(), &event); err != nil {
		respondInternalError(c, err, "Failed to apply purchase")
		return
	}

	// NATS carries the event to the other API replicas. A broker outage does
	// not fail the request; the periodic refresh converges them.
	if h.publisher != nil {
		if err := h.publisher.PublishPurchase(c.Request.Context(), &event); err != nil {
			logger.WarnCtx(c.Request.Context(), "Failed to publish purchase event to NATS",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusAccepted, PurchaseResponse{EventID: event.ID})
}

// StreamPurchases pushes applied purchase events to the client as server-sent
// events until the client disconnects. Purchases applied by other replicas
// arrive here too, via NATS and the reconciler.
func (h *handler) StreamPurchases(c *gin.Context) {
	events := make(chan domain.PurchaseEvent, 16)
	unsubscribe := h.reconciler.PurchaseBus().Subscribe(func(event domain.PurchaseEvent) {
		select {
		case events <- event:
		default:
			// A consumer that cannot keep up misses events; the counts
			// endpoint resyncs it on its next poll
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event := <-events:
			c.SSEvent("purchase", event)
			c.Writer.Flush()
		}
	}
}

// TriggerRefresh forces re-resolution of the given tokens
func (h *handler) TriggerRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if len(req.TokenNumbers) == 0 {
		respondValidationError(c, "token_numbers is required")
		return
	}

	for _, tokenNumber := range req.TokenNumbers {
		if _, err := h.catalog.Get(tokenNumber); err != nil {
			respondNotFound(c, fmt.Sprintf("Token %d not found", tokenNumber))
			return
		}
	}

	if err := h.reconciler.Refresh(c.Request.Context(), req.TokenNumbers); err != nil {
		respondInternalError(c, err, "Failed to refresh ownership")
		return
	}

	c.JSON(http.StatusAccepted, RefreshResponse{Refreshed: len(req.TokenNumbers)})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ownership-indexer-api",
	})
}

// resolveOwnership fetches ownership for the tokens, degrading to whatever the
// cache holds when resolution fails. Grid and detail reads never hard-fail on
// a provider outage.
func (h *handler) resolveOwnership(c *gin.Context, tokenNumbers []uint64) ownership.Snapshot {
	if len(tokenNumbers) == 0 {
		return ownership.Snapshot{}
	}

	snapshot, err := h.reconciler.Get(c.Request.Context(), tokenNumbers)
	if err != nil {
		logger.WarnCtx(c.Request.Context(), "Ownership resolution degraded to cached state",
			zap.Int("tokens", len(tokenNumbers)),
			zap.Error(err),
		)
	}
	return snapshot
}
