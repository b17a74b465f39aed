package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshe-sluggers/ownership-indexer/internal/api/rest"
	"github.com/satoshe-sluggers/ownership-indexer/internal/bus"
	"github.com/satoshe-sluggers/ownership-indexer/internal/catalog"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/mocks"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ownership"
)

const (
	testAPIKey            = "test-admin-key"
	testMarketplaceWallet = "0x396343362be2A4dA1cE0C1C210945346fb82Aa49"
	testBuyer             = "0x1234567890123456789012345678901234567890"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	m.Run()
}

type handlerMocks struct {
	catalog    *mocks.MockCatalog
	reconciler *mocks.MockOwnershipReconciler
	publisher  *mocks.MockPublisher
	clock      *mocks.MockClock
}

func newTestRouter(t *testing.T) (*gin.Engine, handlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := handlerMocks{
		catalog:    mocks.NewMockCatalog(ctrl),
		reconciler: mocks.NewMockOwnershipReconciler(ctrl),
		publisher:  mocks.NewMockPublisher(ctrl),
		clock:      mocks.NewMockClock(ctrl),
	}
	m.clock.EXPECT().Now().Return(time.Unix(1_700_000_000, 0)).AnyTimes()

	handler := rest.NewHandler(m.catalog, m.reconciler, m.publisher, m.clock)

	router := gin.New()
	rest.SetupRoutes(router, handler, config.AuthConfig{APIKeys: []string{testAPIKey}})
	return router, m
}

func staticToken(tokenNumber uint64, name string) *domain.Token {
	return &domain.Token{
		TokenNumber: tokenNumber,
		Name:        name,
		RarityTier:  "Rookie",
		RarityRank:  tokenNumber,
		PriceWei:    "100000000000000000",
	}
}

func soldRecord(tokenNumber uint64) domain.OwnershipRecord {
	return domain.NewOwnershipRecord(tokenNumber, testBuyer, testMarketplaceWallet, time.Unix(1_699_999_000, 0))
}

func liveRecord(tokenNumber uint64) domain.OwnershipRecord {
	return domain.NewOwnershipRecord(tokenNumber, testMarketplaceWallet, testMarketplaceWallet, time.Unix(1_699_999_000, 0))
}

func doRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListTokens(t *testing.T) {
	router, m := newTestRouter(t)

	tokens := []*domain.Token{staticToken(1, "Slugger #1"), staticToken(2, "Slugger #2"), staticToken(3, "Slugger #3")}
	m.catalog.EXPECT().
		Select(gomock.Any()).
		DoAndReturn(func(q catalog.Query) ([]*domain.Token, int) {
			assert.Equal(t, catalog.SortTokenNumber, q.Sort)
			assert.Equal(t, 20, q.Limit)
			assert.Equal(t, 0, q.Offset)
			return tokens, 3
		})

	snapshot := ownership.Snapshot{
		Fresh: map[uint64]domain.OwnershipRecord{1: soldRecord(1)},
		Stale: map[uint64]domain.OwnershipRecord{2: liveRecord(2)},
	}
	m.reconciler.EXPECT().
		Get(gomock.Any(), []uint64{1, 2, 3}).
		Return(snapshot, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/tokens", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.ListTokensResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 20, resp.Limit)
	require.Len(t, resp.Items, 3)

	require.NotNil(t, resp.Items[0].Ownership)
	assert.True(t, resp.Items[0].Ownership.Sold)
	assert.False(t, resp.Items[0].Ownership.Stale)
	assert.Equal(t, common.HexToAddress(testBuyer).Hex(), resp.Items[0].Ownership.Owner)

	require.NotNil(t, resp.Items[1].Ownership)
	assert.False(t, resp.Items[1].Ownership.Sold)
	assert.True(t, resp.Items[1].Ownership.Stale)

	// Token 3 has no resolution anywhere; the storefront shows it buyable
	assert.Nil(t, resp.Items[2].Ownership)
}

func TestListTokens_Filters(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().
		Select(gomock.Any()).
		DoAndReturn(func(q catalog.Query) ([]*domain.Token, int) {
			assert.Equal(t, "Legendary", q.RarityTier)
			assert.Equal(t, map[string]string{"Jersey": "Pinstripe"}, q.Attributes)
			assert.Equal(t, "slugger", q.Search)
			assert.Equal(t, catalog.SortRarityRank, q.Sort)
			assert.True(t, q.Descending)
			assert.Equal(t, 5, q.Limit)
			assert.Equal(t, 10, q.Offset)
			return []*domain.Token{}, 0
		})

	path := "/api/v1/tokens?rarity_tier=Legendary&trait=Jersey:Pinstripe&search=slugger&sort=rarity_rank&order=desc&limit=5&offset=10"
	w := doRequest(router, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListTokens_InvalidSort(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/tokens?sort=price", nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListTokens_ResolutionFailureDegrades(t *testing.T) {
	router, m := newTestRouter(t)

	tokens := []*domain.Token{staticToken(1, "Slugger #1")}
	m.catalog.EXPECT().Select(gomock.Any()).Return(tokens, 1)

	// Every tier failed; the cached stale record still goes out
	snapshot := ownership.Snapshot{
		Stale:   map[uint64]domain.OwnershipRecord{1: soldRecord(1)},
		Missing: []uint64{},
	}
	m.reconciler.EXPECT().
		Get(gomock.Any(), []uint64{1}).
		Return(snapshot, errors.New("all resolution tiers failed"))

	w := doRequest(router, http.MethodGet, "/api/v1/tokens", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.ListTokensResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Ownership)
	assert.True(t, resp.Items[0].Ownership.Stale)
}

func TestGetToken(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(42)).Return(staticToken(42, "Slugger #42"), nil)
	m.reconciler.EXPECT().
		Get(gomock.Any(), []uint64{42}).
		Return(ownership.Snapshot{Fresh: map[uint64]domain.OwnershipRecord{42: liveRecord(42)}}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/tokens/42", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.TokenDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.TokenNumber)
	require.NotNil(t, resp.Ownership)
	assert.False(t, resp.Ownership.Sold)
	assert.True(t, resp.Ownership.HasOwner)
}

func TestGetToken_NotFound(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(9999)).Return(nil, domain.ErrTokenNotFound)

	w := doRequest(router, http.MethodGet, "/api/v1/tokens/9999", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetToken_InvalidNumber(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/tokens/abc", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCounts(t *testing.T) {
	router, m := newTestRouter(t)

	computedAt := time.Unix(1_700_000_000, 0)
	m.reconciler.EXPECT().Counts().Return(domain.AggregateCounts{
		Live:       7000,
		Sold:       777,
		ComputedAt: computedAt,
	})

	w := doRequest(router, http.MethodGet, "/api/v1/counts", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.CountsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7000), resp.Live)
	assert.Equal(t, uint64(777), resp.Sold)
	assert.Equal(t, uint64(7777), resp.Total)
}

func TestCreatePurchase(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(42)).Return(staticToken(42, "Slugger #42"), nil)

	var applied *domain.PurchaseEvent
	m.reconciler.EXPECT().
		HandlePurchase(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.PurchaseEvent) error {
			applied = event
			return nil
		})
	m.publisher.EXPECT().
		PublishPurchase(gomock.Any(), gomock.Any()).
		Return(nil)

	body := rest.PurchaseRequest{
		TokenNumber: 42,
		Buyer:       testBuyer,
		PriceWei:    "100000000000000000",
		TxHash:      "0xdeadbeef",
	}
	w := doRequest(router, http.MethodPost, "/api/v1/purchases", body, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp rest.PurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.EventID)

	require.NotNil(t, applied)
	assert.Equal(t, resp.EventID, applied.ID)
	assert.Equal(t, uint64(42), applied.TokenNumber)
	assert.Equal(t, common.HexToAddress(testBuyer).Hex(), applied.Buyer)
	assert.Equal(t, "0xdeadbeef", applied.TxHash)
}

func TestCreatePurchase_UnknownToken(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(9999)).Return(nil, domain.ErrTokenNotFound)

	body := rest.PurchaseRequest{TokenNumber: 9999, Buyer: testBuyer}
	w := doRequest(router, http.MethodPost, "/api/v1/purchases", body, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePurchase_ZeroAddressBuyer(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(42)).Return(staticToken(42, "Slugger #42"), nil)

	body := rest.PurchaseRequest{TokenNumber: 42, Buyer: domain.ETHEREUM_ZERO_ADDRESS}
	w := doRequest(router, http.MethodPost, "/api/v1/purchases", body, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreatePurchase_MissingBuyer(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/purchases", rest.PurchaseRequest{TokenNumber: 42}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreatePurchase_ReconcilerError(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(42)).Return(staticToken(42, "Slugger #42"), nil)
	m.reconciler.EXPECT().
		HandlePurchase(gomock.Any(), gomock.Any()).
		Return(errors.New("journal unavailable"))

	body := rest.PurchaseRequest{TokenNumber: 42, Buyer: testBuyer}
	w := doRequest(router, http.MethodPost, "/api/v1/purchases", body, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreatePurchase_BrokerOutageStillAccepted(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(42)).Return(staticToken(42, "Slugger #42"), nil)
	m.reconciler.EXPECT().HandlePurchase(gomock.Any(), gomock.Any()).Return(nil)
	m.publisher.EXPECT().
		PublishPurchase(gomock.Any(), gomock.Any()).
		Return(errors.New("no responders"))

	body := rest.PurchaseRequest{TokenNumber: 42, Buyer: testBuyer}
	w := doRequest(router, http.MethodPost, "/api/v1/purchases", body, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestTriggerRefresh(t *testing.T) {
	router, m := newTestRouter(t)

	m.catalog.EXPECT().Get(uint64(1)).Return(staticToken(1, "Slugger #1"), nil)
	m.catalog.EXPECT().Get(uint64(2)).Return(staticToken(2, "Slugger #2"), nil)
	m.reconciler.EXPECT().
		Refresh(gomock.Any(), []uint64{1, 2}).
		Return(nil)

	body := rest.RefreshRequest{TokenNumbers: []uint64{1, 2}}
	headers := map[string]string{"Authorization": "ApiKey " + testAPIKey}
	w := doRequest(router, http.MethodPost, "/api/v1/refresh", body, headers)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp rest.RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Refreshed)
}

func TestTriggerRefresh_Unauthorized(t *testing.T) {
	router, _ := newTestRouter(t)

	body := rest.RefreshRequest{TokenNumbers: []uint64{1}}
	w := doRequest(router, http.MethodPost, "/api/v1/refresh", body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTriggerRefresh_WrongKey(t *testing.T) {
	router, _ := newTestRouter(t)

	body := rest.RefreshRequest{TokenNumbers: []uint64{1}}
	headers := map[string]string{"Authorization": "ApiKey wrong-key"}
	w := doRequest(router, http.MethodPost, "/api/v1/refresh", body, headers)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTriggerRefresh_EmptyBody(t *testing.T) {
	router, _ := newTestRouter(t)

	headers := map[string]string{"Authorization": "ApiKey " + testAPIKey}
	w := doRequest(router, http.MethodPost, "/api/v1/refresh", rest.RefreshRequest{}, headers)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

// streamRecorder synchronizes reads against the streaming handler's writes
// and signals when the first event body lands
type streamRecorder struct {
	*httptest.ResponseRecorder
	mu    sync.Mutex
	wrote chan struct{}
	once  sync.Once
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		wrote:            make(chan struct{}),
	}
}

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.ResponseRecorder.Write(p)
	r.once.Do(func() { close(r.wrote) })
	return n, err
}

func (r *streamRecorder) bodyString() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Body.String()
}

func TestStreamPurchases(t *testing.T) {
	router, m := newTestRouter(t)

	purchaseBus := bus.New[domain.PurchaseEvent]()
	m.reconciler.EXPECT().PurchaseBus().Return(purchaseBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/stream", nil).WithContext(ctx)
	rec := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	// The handler must be on the bus before the purchase lands
	require.Eventually(t, func() bool {
		return purchaseBus.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := domain.NewPurchaseEvent(42, testBuyer, "100000000000000000", "0xabc123", time.Unix(1_700_000_000, 0))
	purchaseBus.Publish(event)

	select {
	case <-rec.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("no event was streamed")
	}

	// Client disconnect ends the stream and removes the subscription
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop on disconnect")
	}

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.bodyString()
	assert.Contains(t, body, "event:purchase")
	assert.Contains(t, body, event.ID)
	assert.Contains(t, body, `"token_number":42`)
	assert.Zero(t, purchaseBus.SubscriberCount())
}
