package handlers

import (
	"strings"

	"coursehub/internal/adapters/http/middleware"
	"coursehub/internal/core/domain"
	"coursehub/internal/core/services"
	"coursehub/internal/pkg/pagination"
	"coursehub/internal/pkg/response"
	"coursehub/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminCourseHandler handles course management for admins.
// Every operation is scoped to courses the caller created.
type AdminCourseHandler struct {
	courseService *services.CourseService
}

// NewAdminCourseHandler creates a new admin course handler
func NewAdminCourseHandler(courseService *services.CourseService) *AdminCourseHandler {
	return &AdminCourseHandler{courseService: courseService}
}

// List lists the caller's courses
// @Summary List my courses (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/courses [get]
func (h *AdminCourseHandler) List(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)
	p := pagination.FromQuery(c)

	courses, total, err := h.courseService.ListForCreator(c.UserContext(), auth.UserID, p.Offset(), p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "courses fetched successfully", pagination.NewPage(courses, p, total))
}

// Get returns one of the caller's courses
// @Summary Get my course (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/courses/{courseId} [get]
func (h *AdminCourseHandler) Get(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	course, err := h.courseService.GetOwned(c.UserContext(), c.Params("courseId"), auth.UserID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "course fetched successfully", fiber.Map{"course": course})
}

// Create creates a course from a multipart form
// @Summary Create course (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param price formData number true "Price"
// @Param image formData file true "Course image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /admin/courses [post]
func (h *AdminCourseHandler) Create(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	price, err := formPrice(c.FormValue("price"))
	if err != nil {
		return response.FromError(c, err)
	}

	input := services.CreateCourseInput{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Price:       price,
	}
	if err := validate.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	image, closer, err := formImage(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	course, err := h.courseService.Create(c.UserContext(), auth.UserID, input, image)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "course created successfully", fiber.Map{"course": course})
}

// Update merges the supplied fields into one of the caller's courses.
// Accepts multipart (optionally with a new image) or JSON.
// @Summary Update course (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/courses/{courseId} [put]
func (h *AdminCourseHandler) Update(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	var input services.UpdateCourseInput
	var image *domain.ImageFile

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return response.FromError(c, domain.Wrap(domain.ErrInvalidInput, err))
		}
		if v, ok := form.Value["title"]; ok && len(v) > 0 {
			title := strings.TrimSpace(v[0])
			input.Title = &title
		}
		if v, ok := form.Value["description"]; ok && len(v) > 0 {
			description := strings.TrimSpace(v[0])
			input.Description = &description
		}
		if v, ok := form.Value["price"]; ok && len(v) > 0 {
			price, err := formPrice(v[0])
			if err != nil {
				return response.FromError(c, err)
			}
			input.Price = &price
		}

		img, closer, err := formImage(c)
		if err != nil {
			return response.FromError(c, err)
		}
		if closer != nil {
			defer closer.Close()
		}
		image = img
	} else if err := c.BodyParser(&input); err != nil {
		return response.FromError(c, domain.ErrInvalidInput)
	}

	if err := validate.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	course, err := h.courseService.Update(c.UserContext(), c.Params("courseId"), auth.UserID, input, image)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "course updated successfully", fiber.Map{"course": course})
}

// Delete deletes one of the caller's courses
// @Summary Delete course (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/courses/{courseId} [delete]
func (h *AdminCourseHandler) Delete(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	if err := h.courseService.Delete(c.UserContext(), c.Params("courseId"), auth.UserID); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "course deleted successfully", nil)
}
