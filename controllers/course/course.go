package controllers

import (
	"kursai/middleware"
	"kursai/services"
	commonValidator "kursai/validators/common"

	"github.com/gofiber/fiber/v2"
)

type CourseController struct {
	courses *services.CourseService
}

func NewCourseController(courses *services.CourseService) *CourseController {
	return &CourseController{courses: courses}
}

func (ctl *CourseController) GetAllCourses(c *fiber.Ctx) error {
	query, _ := c.Locals("validatedCourseQuery").(*services.CourseQuery)
	if query == nil {
		query = &services.CourseQuery{}
	}

	courses, err := ctl.courses.List(c.UserContext(), *query)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (ctl *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	course, err := ctl.courses.Get(c.UserContext(), commonValidator.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (ctl *CourseController) GetMyCourses(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := ctl.courses.ListMine(c.UserContext(), p)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (ctl *CourseController) CreateCourse(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedCourse").(*services.CourseInput)

	course, err := ctl.courses.Create(c.UserContext(), p, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (ctl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedCourse").(*services.CourseInput)

	course, err := ctl.courses.Update(c.UserContext(), p, commonValidator.ID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func (ctl *CourseController) DeleteCourse(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := ctl.courses.Delete(c.UserContext(), p, commonValidator.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
