package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinecat/dinecat/internal/catalog"
)

func (s *Server) handleListSubmenus(c *fiber.Ctx) error {
	submenus, err := s.submenus.ReadAll(c.UserContext(), c.Params("menuID"))
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, submenus)
}

func (s *Server) handleCreateSubmenu(c *fiber.Ctx) error {
	var input catalog.SubmenuInput
	if err := c.BodyParser(&input); err != nil {
		return RespondBadRequest(c, ErrMsgBadRequest, err.Error())
	}

	submenu, err := s.submenus.Create(c.UserContext(), c.Params("menuID"), input)
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondCreated(c, submenu)
}

func (s *Server) handleGetSubmenu(c *fiber.Ctx) error {
	submenu, err := s.submenus.Read(c.UserContext(), c.Params("submenuID"))
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, submenu)
}

func (s *Server) handleUpdateSubmenu(c *fiber.Ctx) error {
	var input catalog.SubmenuInput
	if err := c.BodyParser(&input); err != nil {
		return RespondBadRequest(c, ErrMsgBadRequest, err.Error())
	}

	submenu, err := s.submenus.Update(c.UserContext(), c.Params("menuID"), c.Params("submenuID"), input)
	if err != nil {
		return respondCatalogError(c, err)
	}
	return RespondSuccess(c, submenu)
}

func (s *Server) handleDeleteSubmenu(c *fiber.Ctx) error {
	if err := s.submenus.Delete(c.UserContext(), c.Params("menuID"), c.Params("submenuID")); err != nil {
		return respondCatalogError(c, err)
	}
	return RespondMessage(c, "submenu deleted")
}
