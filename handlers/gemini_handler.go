package handlers

import (
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/gofiber/fiber/v2"
)

// GeminiHandler proxies the AI data service's control surface. Every
// endpoint forwards one request through the gateway and serves whatever
// comes back, live or fallback, without reshaping it.
type GeminiHandler struct {
	GatewayService *services.GatewayService
}

func NewGeminiHandler(gatewayService *services.GatewayService) *GeminiHandler {
	return &GeminiHandler{GatewayService: gatewayService}
}

func (h *GeminiHandler) proxyOperation(c *fiber.Ctx, operation string) error {
	result := h.GatewayService.Proxy(c.Context(), operation, "", c.Body())

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(result.StatusCode).Send(result.Body)
}

// GetStatus reports the upstream AI service state
func (h *GeminiHandler) GetStatus(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiStatus)
}

// Initialize asks the upstream AI service to initialize itself
func (h *GeminiHandler) Initialize(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiInitialize)
}

// TestConnection checks upstream AI connectivity
func (h *GeminiHandler) TestConnection(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiTestConnection)
}

// GetIPOs fetches the upstream's current IPO list
func (h *GeminiHandler) GetIPOs(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiIPOs)
}

// GetMarketSentiment fetches upstream AI market sentiment
func (h *GeminiHandler) GetMarketSentiment(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiMarketSentiment)
}

// ForceUpdate triggers an immediate upstream data refresh
func (h *GeminiHandler) ForceUpdate(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiForceUpdate)
}

// StartDailyUpdates enables the upstream's daily update task
func (h *GeminiHandler) StartDailyUpdates(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiStartDaily)
}

// StopDailyUpdates disables the upstream's daily update task
func (h *GeminiHandler) StopDailyUpdates(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpGeminiStopDaily)
}
