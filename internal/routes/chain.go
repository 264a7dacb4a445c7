package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/congo_chain/internal/node"
)

// RegisterChainRoutes exposes block submission and state queries.
func RegisterChainRoutes(r fiber.Router, h *node.Handler) {
	r.Get("/chain/head", h.Head)
	r.Post("/blocks", h.SubmitBlock)
	r.Post("/blocks/next", h.SubmitNext)
	r.Get("/accounts/:account", h.Account)
	r.Get("/claims", h.Claim)
	r.Get("/state", h.State)
}
