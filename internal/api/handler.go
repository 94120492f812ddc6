// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	commonerrors "adserve-core/internal/common/errors"
	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/validation"
	"adserve-core/internal/models"
	"adserve-core/pkg/registry"
)

// maxRequestBody bounds the inbound JSON payload.
const maxRequestBody = 64 * 1024

// AdServer is the pipeline entry point the handler delegates to.
type AdServer interface {
	Handle(ctx context.Context, req *models.AdRequest) *models.AdResponse
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	server      AdServer
	publishers  *registry.PublisherRegistry
	errHandler  *commonerrors.ErrorHandler
	productsDir string
	version     string
	logger      logger.Logger
}

func NewHandler(
	server AdServer,
	publishers *registry.PublisherRegistry,
	errHandler *commonerrors.ErrorHandler,
	productsDir string,
	version string,
	log logger.Logger,
) *Handler {
	return &Handler{
		server:      server,
		publishers:  publishers,
		errHandler:  errHandler,
		productsDir: productsDir,
		version:     version,
		logger:      log,
	}
}

// Root returns basic service identification.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "adserve-core",
		"status":  "running",
		"version": h.version,
	})
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "adserve-core",
		"version": h.version,
	})
}

// ServeAd handles POST /api/ad-request.
func (h *Handler) ServeAd(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBody))
	if err != nil {
		h.abortWithError(c, commonerrors.NewInvalidRequestError("unable to read request body"))
		return
	}

	result, err := validation.ValidateAdRequest(body)
	if err != nil {
		h.abortWithError(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}
	if !result.Valid {
		h.abortWithError(c, commonerrors.NewInvalidRequestError(
			strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	var req models.AdRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.abortWithError(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}

	if !validation.ValidateURL(req.URL) {
		h.abortWithError(c, commonerrors.NewInvalidRequestError("url must be an absolute http(s) URL"))
		return
	}

	pub := h.publishers.Lookup(req.PublisherID)
	if pub == nil {
		h.abortWithError(c, commonerrors.NewPublisherUnknownError(req.PublisherID))
		return
	}
	if !pub.Enabled {
		h.abortWithError(c, commonerrors.NewPublisherDisabledError(req.PublisherID))
		return
	}

	resp := h.server.Handle(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// ProductImage serves a catalog image from the products directory.
func (h *Handler) ProductImage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := filepath.Join(h.productsDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	requestID := c.GetHeader("X-Request-ID")
	status, body := h.errHandler.HandleRequestError(requestID, err)
	c.AbortWithStatusJSON(status, body)
}
