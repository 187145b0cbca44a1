package controller

import (
	"encoding/json"
	"io"
	"strings"

	"characterhub-be/internal/apperr"
	"characterhub-be/internal/dto"
	"characterhub-be/internal/pkg/serverutils"
	"characterhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICharacterController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	SearchByTags(ctx *fiber.Ctx) error
}

type characterController struct {
	characterService service.ICharacterService
}

func NewCharacterController(characterService service.ICharacterService) ICharacterController {
	return &characterController{
		characterService: characterService,
	}
}

func (c *characterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/character/v1")

	// Search routes accept anonymous callers; visibility narrows to public.
	h.Get("search", serverutils.OptionalJwtMiddleware, c.Search)
	h.Get("by-tags", serverutils.OptionalJwtMiddleware, c.SearchByTags)

	h.Post("", serverutils.JwtMiddleware, c.Create)
	h.Put(":id", serverutils.JwtMiddleware, c.Update)
	h.Delete(":id", serverutils.JwtMiddleware, c.Delete)
}

func (c *characterController) Create(ctx *fiber.Ctx) error {
	userId := resolveUserId(ctx)

	var req dto.CreateCharacterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid form data", map[string]string{"body": err.Error()})
	}

	avatar, err := readFormFile(ctx, "avatar")
	if err != nil {
		return err
	}
	banner, err := readFormFile(ctx, "banner")
	if err != nil {
		return err
	}
	req.Avatar = avatar
	req.Banner = banner

	res, err := c.characterService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create character", res))
}

func (c *characterController) Update(ctx *fiber.Ctx) error {
	userId := resolveUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("Invalid character id", map[string]string{"id": "must be a valid UUID"})
	}

	var req dto.UpdateCharacterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid form data", map[string]string{"body": err.Error()})
	}
	req.Id = id

	avatar, err := readFormFile(ctx, "avatar")
	if err != nil {
		return err
	}
	banner, err := readFormFile(ctx, "banner")
	if err != nil {
		return err
	}
	req.Avatar = avatar
	req.Banner = banner

	res, err := c.characterService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update character", res))
}

func (c *characterController) Delete(ctx *fiber.Ctx) error {
	userId := resolveUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("Invalid character id", map[string]string{"id": "must be a valid UUID"})
	}

	if err := c.characterService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete character", nil))
}

func (c *characterController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q", "")
	limit := ctx.QueryInt("limit", 0)

	var userId *uuid.UUID
	if id := resolveUserId(ctx); id != uuid.Nil {
		userId = &id
	}

	res, err := c.characterService.Search(ctx.Context(), userId, query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search characters", res))
}

func (c *characterController) SearchByTags(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	// Tags arrive either as a JSON array or a comma-separated list.
	rawTags := ctx.Query("tags", "")
	var tags []string
	if strings.HasPrefix(strings.TrimSpace(rawTags), "[") {
		if err := json.Unmarshal([]byte(rawTags), &tags); err != nil {
			tags = nil
		}
	} else if rawTags != "" {
		for _, t := range strings.Split(rawTags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	res, err := c.characterService.SearchByTags(ctx.Context(), tags, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search characters by tags", res))
}

// resolveUserId reads the identity set by the JWT middleware. Anonymous or
// malformed identities come back as uuid.Nil and are rejected downstream.
func resolveUserId(ctx *fiber.Ctx) uuid.UUID {
	raw := ctx.Locals("user_id")
	if raw == nil {
		return uuid.Nil
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil
	}
	id, _ := uuid.Parse(idStr)
	return id
}

func readFormFile(ctx *fiber.Ctx, field string) (*dto.FilePayload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		// Absent file fields are fine; only an unreadable part is an error.
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Validation("Invalid form data", map[string]string{field: "file could not be read"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Validation("Invalid form data", map[string]string{field: "file could not be read"})
	}

	return &dto.FilePayload{
		Filename: fh.Filename,
		Data:     data,
	}, nil
}
