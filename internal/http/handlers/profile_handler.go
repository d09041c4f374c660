package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kemstore/internal/domain"
	applog "kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type ProfileHandler struct {
	Profile *services.ProfileService
}

func (h *ProfileHandler) UpdateContact(c *fiber.Ctx) error {
	var in services.ContactUpdate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "リクエストの形式が正しくありません。")
	}
	p, err := h.Profile.UpdateContact(c.UserContext(), session(c), in)
	if err != nil {
		return fail(c, "profile.update.fail", err)
	}
	applog.Audit(c, "profile.update", nil)
	return c.JSON(fiber.Map{"user": p})
}

func (h *ProfileHandler) AddAddress(c *fiber.Ctx) error {
	var in domain.SavedAddress
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "リクエストの形式が正しくありません。")
	}
	a, err := h.Profile.AddAddress(c.UserContext(), session(c), in)
	if err != nil {
		return fail(c, "profile.address.add.fail", err)
	}
	applog.Audit(c, "profile.address.add", map[string]any{"address": a.ID})
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *ProfileHandler) RemoveAddress(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "住所が見つかりません。")
	}
	p, err := h.Profile.RemoveAddress(c.UserContext(), session(c), id)
	if err != nil {
		return fail(c, "profile.address.remove.fail", err)
	}
	applog.Audit(c, "profile.address.remove", map[string]any{"address": id})
	return c.JSON(fiber.Map{"user": p})
}

func (h *ProfileHandler) SetDefaultAddress(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "住所が見つかりません。")
	}
	p, err := h.Profile.SetDefaultAddress(c.UserContext(), session(c), id)
	if err != nil {
		return fail(c, "profile.address.default.fail", err)
	}
	return c.JSON(fiber.Map{"user": p})
}
