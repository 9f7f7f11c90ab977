package handlers

import (
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/gofiber/fiber/v2"
)

// RealtimeHandler proxies the real-time scraping service and its task
// scheduler. Like the Gemini surface, responses pass through verbatim.
type RealtimeHandler struct {
	GatewayService *services.GatewayService
}

func NewRealtimeHandler(gatewayService *services.GatewayService) *RealtimeHandler {
	return &RealtimeHandler{GatewayService: gatewayService}
}

func (h *RealtimeHandler) proxyOperation(c *fiber.Ctx, operation, pathParam string) error {
	result := h.GatewayService.Proxy(c.Context(), operation, pathParam, c.Body())

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(result.StatusCode).Send(result.Body)
}

// Start launches the upstream real-time service
func (h *RealtimeHandler) Start(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpRealtimeStart, "")
}

// Stop halts the upstream real-time service
func (h *RealtimeHandler) Stop(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpRealtimeStop, "")
}

// GetStatus reports the upstream real-time service state
func (h *RealtimeHandler) GetStatus(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpRealtimeStatus, "")
}

// GetMetrics fetches upstream service and scheduler metrics
func (h *RealtimeHandler) GetMetrics(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpRealtimeMetrics, "")
}

// GetTasks lists the upstream scheduler's configured tasks
func (h *RealtimeHandler) GetTasks(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpRealtimeTasks, "")
}

// ForceTask triggers a named scheduler task immediately
func (h *RealtimeHandler) ForceTask(c *fiber.Ctx) error {
	return h.proxyOperation(c, services.OpRealtimeForceTask, c.Params("taskType"))
}
