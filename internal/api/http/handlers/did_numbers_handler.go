package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/didnumber-service/internal/api/dto"
	"github.com/spec-kit/didnumber-service/internal/auth"
	"github.com/spec-kit/didnumber-service/internal/service"
)

const (
	// NoDidNumbersMessage is returned instead of a page when the inventory is empty.
	NoDidNumbersMessage = "no DID numbers registered"
	// DidNumberDeletedMessage acknowledges a delete.
	DidNumberDeletedMessage = "The DID number has successfully been deleted."
)

// DidNumbersHandler manages the DID number inventory endpoints.
type DidNumbersHandler struct {
	service  *service.DidNumberService
	validate *validator.Validate
}

// NewDidNumbersHandler constructs handler.
func NewDidNumbersHandler(didService *service.DidNumberService) *DidNumbersHandler {
	return &DidNumbersHandler{service: didService, validate: newValidator()}
}

// List handles GET /didnumbers and /didnumbers/page/:page.
func (h *DidNumbersHandler) List(c *fiber.Ctx) error {
	page, err := parseInt(c.Params("page"), "page", 1)
	if err != nil {
		return err
	}
	perPage, err := parseInt(c.Query("per_page"), "per_page", h.service.DefaultPageSize())
	if err != nil {
		return err
	}

	result, err := h.service.List(c.UserContext(), page, perPage)
	if err != nil {
		return err
	}
	if result.Count == 0 {
		return c.JSON(dto.MessageResponse{Message: NoDidNumbersMessage})
	}

	items := make([]dto.DidNumberView, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewDidNumberView(&result.Items[i]))
	}
	view := dto.DidNumberPageView{
		Items: items,
		Start: result.Start,
		Limit: result.PerPage,
		Count: result.Count,
	}
	if result.HasPrevious() {
		view.PreviousLink = h.pageLink(result.Page-1, result.PerPage)
	}
	if result.HasNext() {
		view.NextLink = h.pageLink(result.Page+1, result.PerPage)
	}
	return c.JSON(view)
}

func (h *DidNumbersHandler) pageLink(page, perPage int) string {
	link := fmt.Sprintf("/didnumbers/page/%d", page)
	if perPage != h.service.DefaultPageSize() {
		link += fmt.Sprintf("?per_page=%d", perPage)
	}
	return link
}

// Get handles GET /didnumbers/:id.
func (h *DidNumbersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	did, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDidNumberView(did))
}

// Add handles POST /didnumbers/add.
func (h *DidNumbersHandler) Add(c *fiber.Ctx) error {
	var req dto.DidNumberRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	did, err := h.service.Add(c.UserContext(), actorID(c), didInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewDidNumberView(did))
}

// Edit handles PUT /didnumbers/edit/:id. An unknown id is reported before the payload is checked.
func (h *DidNumbersHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Get(c.UserContext(), id); err != nil {
		return err
	}

	var req dto.DidNumberRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	did, err := h.service.Edit(c.UserContext(), actorID(c), id, didInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDidNumberView(did))
}

// Delete handles DELETE /didnumbers/delete/:id.
func (h *DidNumbersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actorID(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: DidNumberDeletedMessage})
}

func didInput(req dto.DidNumberRequest) service.DidNumberInput {
	return service.DidNumberInput{
		Value:        req.Value,
		MonthlyPrice: *req.MonthlyPrice,
		SetupPrice:   *req.SetupPrice,
		Currency:     req.Currency,
	}
}

func actorID(c *fiber.Ctx) int64 {
	employee, ok := auth.EmployeeFromContext(c)
	if !ok {
		return 0
	}
	return employee.ID
}

