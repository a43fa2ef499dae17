package courseValidator

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"kursai/middleware"
	"kursai/services"
	"kursai/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CourseList validates the catalog query string
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.CourseQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if len(reqData.Search) > 200 {
			errors["search"] = "Search must be at most 200 characters!"
		}
		if len(reqData.Category) > 100 {
			errors["category"] = "Category must be at most 100 characters!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseQuery", reqData)
		return c.Next()
	}
}

// CourseBody parses a course from JSON or from a multipart form with an
// optional "attachment" file part.
func CourseBody(maxAttachmentBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.CourseInput)
		errors := make(map[string]string)

		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			form, err := c.MultipartForm()
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid form data!", nil)
			}
			for field, msg := range parseCourseForm(form, reqData, maxAttachmentBytes) {
				errors[field] = msg
			}
		} else if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		for field, msg := range services.CourseFieldErrors(*reqData) {
			if _, ok := errors[field]; !ok {
				errors[field] = msg
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func parseCourseForm(form *multipart.Form, reqData *services.CourseInput, maxAttachmentBytes int64) map[string]string {
	errs := make(map[string]string)
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	reqData.Title = value("title")
	reqData.Description = value("description")
	reqData.Category = value("category")
	if raw := strings.TrimSpace(value("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			errs["price"] = "Invalid price!"
		}
		reqData.Price = price
	}

	// an existing attachment can be kept by sending its fields back
	reqData.AttachmentFileName = value("attachmentFileName")
	reqData.AttachmentFileType = value("attachmentFileType")
	reqData.AttachmentFileURL = value("attachmentFileUrl")
	if raw := strings.TrimSpace(value("attachmentFileSize")); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs["attachmentFileSize"] = "Invalid attachment size!"
		}
		reqData.AttachmentFileSize = size
	}

	if files := form.File["attachment"]; len(files) > 0 {
		att, err := utils.ReadAttachment(files[0], maxAttachmentBytes)
		switch {
		case errors.Is(err, utils.ErrAttachmentTooLarge):
			errs["attachment"] = "Attachment must be at most " + strconv.FormatInt(maxAttachmentBytes, 10) + " bytes!"
		case err != nil:
			errs["attachment"] = "Invalid attachment!"
		default:
			reqData.AttachmentFileName = att.FileName
			reqData.AttachmentFileType = att.FileType
			reqData.AttachmentFileURL = att.FileURL
			reqData.AttachmentFileSize = att.FileSize
		}
	}
	return errs
}
