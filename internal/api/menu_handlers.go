package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinecat/dinecat/internal/catalog"
)

func (s *Server) handleListMenus(c *fiber.Ctx) error {
	menus, err := s.menus.ReadAll(c.UserContext())
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, menus)
}

func (s *Server) handleCreateMenu(c *fiber.Ctx) error {
	var input catalog.MenuInput
	if err := c.BodyParser(&input); err != nil {
		return RespondBadRequest(c, ErrMsgBadRequest, err.Error())
	}

	menu, err := s.menus.Create(c.UserContext(), input)
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondCreated(c, menu)
}

func (s *Server) handleGetMenu(c *fiber.Ctx) error {
	menu, err := s.menus.Read(c.UserContext(), c.Params("menuID"))
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, menu)
}

func (s *Server) handleGetMenuCounts(c *fiber.Ctx) error {
	counts, err := s.menus.ReadCounts(c.UserContext(), c.Params("menuID"))
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, counts)
}

func (s *Server) handleUpdateMenu(c *fiber.Ctx) error {
	var input catalog.MenuInput
	if err := c.BodyParser(&input); err != nil {
		return RespondBadRequest(c, ErrMsgBadRequest, err.Error())
	}

	menu, err := s.menus.Update(c.UserContext(), c.Params("menuID"), input)
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, menu)
}

func (s *Server) handleDeleteMenu(c *fiber.Ctx) error {
	if err := s.menus.Delete(c.UserContext(), c.Params("menuID")); err != nil {
		return respondCatalogError(c, err)
	}
	return RespondMessage(c, "menu deleted")
}
