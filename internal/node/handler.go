package node

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/congo_chain/internal/runtime"
	"github.com/congo-pay/congo_chain/internal/types"
)

// Handler exposes the node over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds a node HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type headResponse struct {
	BlockNumber types.BlockNumber `json:"block_number"`
}

type claimResponse struct {
	Content types.Content   `json:"content"`
	Owner   types.AccountID `json:"owner"`
}

// Head returns the current block number.
func (h *Handler) Head(c *fiber.Ctx) error {
	return c.JSON(headResponse{BlockNumber: h.service.Head()})
}

// SubmitBlock executes a block carrying its own header.
func (h *Handler) SubmitBlock(c *fiber.Ctx) error {
	block, err := runtime.DecodeBlock(c.Body())
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.Submit(c.UserContext(), block)
	if err != nil {
		return blockError(err)
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// SubmitNext executes extrinsics as the next block.
func (h *Handler) SubmitNext(c *fiber.Ctx) error {
	extrinsics, err := runtime.DecodeExtrinsics(c.Body())
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.SubmitNext(c.UserContext(), extrinsics)
	if err != nil {
		return blockError(err)
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// Account returns the balance and nonce of the :account path parameter.
func (h *Handler) Account(c *fiber.Ctx) error {
	who := strings.TrimSpace(c.Params("account"))
	if who == "" {
		return fiber.NewError(http.StatusBadRequest, "account is required")
	}
	return c.JSON(h.service.Account(types.AccountID(who)))
}

// Claim looks up the owner of the content query parameter. The raw content
// is hashed the same way claims are.
func (h *Handler) Claim(c *fiber.Ctx) error {
	raw := c.Query("content")
	if raw == "" {
		return fiber.NewError(http.StatusBadRequest, "content query parameter is required")
	}
	content := types.ContentOf(raw)
	owner, ok := h.service.Claim(content)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "content is not claimed")
	}
	return c.JSON(claimResponse{Content: content, Owner: owner})
}

// State dumps the whole runtime.
func (h *Handler) State(c *fiber.Ctx) error {
	return c.JSON(h.service.Snapshot())
}

func blockError(err error) error {
	if errors.Is(err, runtime.ErrBlockNumberMismatch) {
		return fiber.NewError(http.StatusConflict, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}
