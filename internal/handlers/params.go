package handlers

import (
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func parsePagination(c *fiber.Ctx) repositories.Pagination {
	return repositories.Pagination{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	}
}
