package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dinecat/dinecat/internal/catalog"
)

func (s *Server) handleListDishes(c *fiber.Ctx) error {
	dishes, err := s.dishes.ReadAll(c.UserContext(), c.Params("submenuID"))
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, dishes)
}

func (s *Server) handleCreateDish(c *fiber.Ctx) error {
	var input catalog.DishInput
	if err := c.BodyParser(&input); err != nil {
		return RespondBadRequest(c, ErrMsgBadRequest, err.Error())
	}

	dish, err := s.dishes.Create(c.UserContext(), c.Params("menuID"), c.Params("submenuID"), input)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidPrice) {
			return RespondValidationError(c, "invalid dish price", err.Error())
		}
		return respondCatalogError(c, err)
	}
	return RespondCreated(c, dish)
}

func (s *Server) handleGetDish(c *fiber.Ctx) error {
	dish, err := s.dishes.Read(c.UserContext(), c.Params("dishID"))
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, dish)
}

func (s *Server) handleUpdateDish(c *fiber.Ctx) error {
	var input catalog.DishInput
	if err := c.BodyParser(&input); err != nil {
		return RespondBadRequest(c, ErrMsgBadRequest, err.Error())
	}

	dish, err := s.dishes.Update(c.UserContext(),
		c.Params("menuID"), c.Params("submenuID"), c.Params("dishID"), input)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidPrice) {
			return RespondValidationError(c, "invalid dish price", err.Error())
		}
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, dish)
}

func (s *Server) handleDeleteDish(c *fiber.Ctx) error {
	if err := s.dishes.Delete(c.UserContext(),
		c.Params("menuID"), c.Params("submenuID"), c.Params("dishID")); err != nil {
		return respondCatalogError(c, err)
	}
	return RespondMessage(c, "dish deleted")
}
