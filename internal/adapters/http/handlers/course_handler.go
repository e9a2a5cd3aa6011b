package handlers

import (
	"coursehub/internal/adapters/http/middleware"
	"coursehub/internal/core/domain"
	"coursehub/internal/core/services"
	"coursehub/internal/pkg/pagination"
	"coursehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles the catalog, purchases and cart of signed-in users
type CourseHandler struct {
	courseService   *services.CourseService
	purchaseService *services.PurchaseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *services.CourseService, purchaseService *services.PurchaseService) *CourseHandler {
	return &CourseHandler{
		courseService:   courseService,
		purchaseService: purchaseService,
	}
}

// List lists all courses
// @Summary List courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	p := pagination.FromQuery(c)

	courses, total, err := h.courseService.ListAll(c.UserContext(), p.Offset(), p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "courses fetched successfully", pagination.NewPage(courses, p, total))
}

// Get returns a course
// @Summary Get course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{courseId} [get]
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := h.courseService.GetByID(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return response.FromError(c, err)
	}
	if course == nil {
		return response.FromError(c, domain.ErrCourseNotFound)
	}

	return response.Success(c, "course fetched successfully", fiber.Map{"course": course})
}

// Purchase buys a course for the caller
// @Summary Purchase course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /courses/{courseId}/purchase [post]
func (h *CourseHandler) Purchase(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	purchase, err := h.purchaseService.Purchase(c.UserContext(), auth.UserID, c.Params("courseId"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "course purchased successfully", fiber.Map{"purchase": purchase})
}

// MyCourses lists the caller's purchased courses
// @Summary My purchased courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /me/courses [get]
func (h *CourseHandler) MyCourses(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	purchases, err := h.purchaseService.MyCourses(c.UserContext(), auth.UserID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "purchased courses fetched successfully", fiber.Map{"purchases": purchases})
}

// Cart lists the caller's cart
// @Summary My cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /me/cart [get]
func (h *CourseHandler) Cart(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	items, err := h.purchaseService.Cart(c.UserContext(), auth.UserID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "cart fetched successfully", fiber.Map{"items": items})
}

// AddToCart puts a course in the caller's cart
// @Summary Add to cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /me/cart/{courseId} [post]
func (h *CourseHandler) AddToCart(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	item, err := h.purchaseService.AddToCart(c.UserContext(), auth.UserID, c.Params("courseId"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "course added to cart", fiber.Map{"item": item})
}

// RemoveFromCart takes a course out of the caller's cart
// @Summary Remove from cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /me/cart/{courseId} [delete]
func (h *CourseHandler) RemoveFromCart(c *fiber.Ctx) error {
	auth, _ := middleware.CurrentUser(c)

	if err := h.purchaseService.RemoveFromCart(c.UserContext(), auth.UserID, c.Params("courseId")); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "course removed from cart", nil)
}
