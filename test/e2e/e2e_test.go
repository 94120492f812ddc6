// test/e2e/e2e_test.go
package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adserve-core/internal/api"
	"adserve-core/internal/catalog"
	commonerrors "adserve-core/internal/common/errors"
	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/observability"
	"adserve-core/internal/crawler"
	"adserve-core/internal/embedding"
	"adserve-core/internal/matching"
	"adserve-core/internal/models"
	"adserve-core/internal/pagecontext"
	"adserve-core/internal/pipeline"
	"adserve-core/internal/styling"
	"adserve-core/pkg/registry"
)

// ==========================
// External Service Stubs
// ==========================

// actorStub emulates the crawl actor's REST API with a scripted single run.
type actorStub struct {
	server     *httptest.Server
	submits    int32
	failSubmit bool
	item       map[string]interface{}
}

func newActorStub(item map[string]interface{}) *actorStub {
	s := &actorStub{item: item}

	mux := http.NewServeMux()
	mux.HandleFunc("/acts/apify~site-crawler/runs", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.submits, 1)
		if s.failSubmit {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": "run-1", "status": "RUNNING"},
		})
	})
	mux.HandleFunc("/actor-runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id": "run-1", "status": "SUCCEEDED", "defaultDatasetId": "ds-1",
			},
		})
	})
	mux.HandleFunc("/datasets/ds-1/items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{s.item})
	})

	s.server = httptest.NewServer(mux)
	return s
}

func (s *actorStub) submitCount() int {
	return int(atomic.LoadInt32(&s.submits))
}

// restyleStub emulates the image styling service.
type restyleStub struct {
	server *httptest.Server
	calls  int32
	down   bool
}

func newRestyleStub() *restyleStub {
	s := &restyleStub{}

	mux := http.NewServeMux()
	mux.HandleFunc("/edits", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.calls, 1)
		if s.down {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req struct {
			ImageURL string `json:"image_url"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"image_url": req.ImageURL + "?styled=1"})
	})

	s.server = httptest.NewServer(mux)
	return s
}

// ==========================
// Test Harness
// ==========================

type harness struct {
	router  *gin.Engine
	actor   *actorStub
	restyle *restyleStub
}

func headphonesCrawlItem() map[string]interface{} {
	return map[string]interface{}{
		"title":       "The Best Wireless Headphones of the Year",
		"description": "Hands-on review of this year's top wireless headphones.",
		"mainContent": "We tested noise cancelling wireless headphones for sound quality, comfort and battery life.",
		"headings":    []string{"Sound Quality", "Battery Life"},
		"keywords":    []string{"headphones", "wireless", "audio", "noise cancelling"},
		"topics":      []string{"audio", "consumer electronics"},
		"visualStyles": map[string]interface{}{
			"theme":           "dark",
			"backgroundColor": "#101820",
			"primaryColor":    "#e63946",
		},
	}
}

func writeProduct(t *testing.T, dir, base, name, url, price, description string) {
	t.Helper()
	desc := "name: " + name + "\nurl: " + url + "\n"
	if price != "" {
		desc += "price: " + price + "\n"
	}
	desc += "\n" + description + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+"_description.txt"), []byte(desc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+".jpg"), []byte("img"), 0o644))
}

func newHarness(t *testing.T, item map[string]interface{}) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)

	actor := newActorStub(item)
	t.Cleanup(actor.server.Close)
	restyle := newRestyleStub()
	t.Cleanup(restyle.server.Close)

	productsDir := t.TempDir()
	writeProduct(t, productsDir, "wireless_headphones",
		"Wireless Headphones", "https://shop.example.com/headphones", "199.00",
		"Premium over-ear wireless headphones with active noise cancellation and long battery life.")
	writeProduct(t, productsDir, "running_shoes",
		"Running Shoes", "https://shop.example.com/shoes", "89.00",
		"Lightweight running shoes with responsive cushioning for daily training.")
	writeProduct(t, productsDir, "ceramic_mug",
		"Ceramic Coffee Mug", "https://shop.example.com/mug", "18.00",
		"Handmade ceramic coffee mug with a matte glaze finish.")

	embedder := embedding.NewHashingEmbedder(256)
	store, err := catalog.NewLoader(embedder, "http://localhost:8080/assets/products", log).Load(productsDir)
	require.NoError(t, err)

	crawlCfg := crawler.Config{
		BaseURL:        actor.server.URL,
		ActorID:        "apify~site-crawler",
		PollInterval:   5 * time.Millisecond,
		MaxWait:        2 * time.Second,
		RequestTimeout: 2 * time.Second,
	}
	enricher := crawler.NewOrchestrator(crawler.NewActorClient(crawlCfg), crawlCfg, log)

	styleCfg := styling.Config{
		Enabled: true,
		BaseURL: restyle.server.URL,
		Timeout: 2 * time.Second,
	}
	styler := styling.NewOrchestrator(styling.NewRestyleClient(styleCfg), styleCfg, log)

	coordinator := pipeline.NewCoordinator(
		pagecontext.NewMemoryCache(time.Hour),
		enricher,
		matching.NewMatcher(embedder, store, 0, log),
		styler,
		nil,
		3,
		&observability.Observability{},
		log,
	)

	publishers := &registry.PublisherRegistry{
		Publishers: []registry.Publisher{
			{ID: "pub_demo", DisplayName: "Demo", Enabled: true},
			{ID: "pub_suspended", Enabled: false},
		},
	}

	handler := api.NewHandler(coordinator, publishers,
		commonerrors.NewErrorHandler(log), productsDir, "e2e", log)

	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.POST("/api/ad-request", handler.ServeAd)
	router.GET("/assets/products/:filename", handler.ProductImage)

	return &harness{router: router, actor: actor, restyle: restyle}
}

func (h *harness) serveAd(t *testing.T, body string) (*httptest.ResponseRecorder, *models.AdResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ad-request", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return w, nil
	}
	var resp models.AdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, &resp
}

const adRequestBody = `{
	"publisher_id": "pub_demo",
	"url": "https://example.com/articles/best-headphones",
	"slot_id": "sidebar-1",
	"page_title": "Best Headphones",
	"device_type": "desktop"
}`

// ==========================
// End-to-End Tests
// ==========================

func TestEndToEnd_EnrichedRequest(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())

	w, resp := h.serveAd(t, adRequestBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)

	assert.True(t, resp.Context.HasEnriched)
	assert.Equal(t, "https://example.com/articles/best-headphones", resp.Context.URL)
	assert.Equal(t, "Best Headphones", resp.Context.Title, "title from the page itself wins over the crawl")
	assert.Contains(t, resp.Context.Keywords, "headphones")
	assert.Contains(t, resp.Context.Topics, "audio")

	require.NotEmpty(t, resp.MatchedProducts)
	assert.LessOrEqual(t, len(resp.MatchedProducts), 3)
	assert.Equal(t, "Wireless Headphones", resp.MatchedProducts[0].Name)

	for i := 1; i < len(resp.MatchedProducts); i++ {
		assert.GreaterOrEqual(t,
			resp.MatchedProducts[i-1].MatchScore,
			resp.MatchedProducts[i].MatchScore)
	}

	for _, p := range resp.MatchedProducts {
		assert.NotEmpty(t, p.ImageURL)
		assert.Equal(t, p.ImageURL+"?styled=1", p.EditedImageURL)
		assert.NotEmpty(t, p.LandingURL)
	}
}

func TestEndToEnd_SecondRequestHitsCache(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())

	h.serveAd(t, adRequestBody)
	_, resp := h.serveAd(t, adRequestBody)

	require.NotNil(t, resp)
	assert.True(t, resp.Context.HasEnriched)
	assert.Equal(t, 1, h.actor.submitCount(), "cached context must not trigger a second crawl")
}

func TestEndToEnd_CrawlFailureDegrades(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())
	h.actor.failSubmit = true

	w, resp := h.serveAd(t, adRequestBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.False(t, resp.Context.HasEnriched)
	assert.Equal(t, "Best Headphones", resp.Context.Title)
	assert.NotEmpty(t, resp.MatchedProducts, "degraded requests still serve products")

	// The degraded description is not cached, so the next request crawls
	// again and comes back enriched once the actor recovers.
	h.actor.failSubmit = false
	w, resp = h.serveAd(t, adRequestBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Context.HasEnriched)
	assert.Equal(t, 2, h.actor.submitCount())
}

func TestEndToEnd_StylingFailureKeepsOriginalImages(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())
	h.restyle.down = true

	w, resp := h.serveAd(t, adRequestBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.MatchedProducts)
	for _, p := range resp.MatchedProducts {
		assert.NotEmpty(t, p.ImageURL)
		assert.Empty(t, p.EditedImageURL)
	}
}

func TestEndToEnd_UnknownPublisherRejected(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())

	w, _ := h.serveAd(t, `{"publisher_id": "pub_nobody", "url": "https://example.com/page"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, h.actor.submitCount())
}

func TestEndToEnd_DisabledPublisherRejected(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())

	w, _ := h.serveAd(t, `{"publisher_id": "pub_suspended", "url": "https://example.com/page"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEndToEnd_Health(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestEndToEnd_ProductImageServed(t *testing.T) {
	h := newHarness(t, headphonesCrawlItem())

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/products/wireless_headphones.jpg", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "img", w.Body.String())
}
