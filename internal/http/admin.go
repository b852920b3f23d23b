package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokhel/ink/internal/auth"
	"github.com/tokhel/ink/internal/catalog"
)

// AdminController handles the novel management forms behind the session gate.
// Every mutation redirects back to the dashboard with a banner message, so a
// failed operation never strands the admin on an error page.
type AdminController struct {
	catalog *catalog.Service
}

func NewAdminController(svc *catalog.Service) *AdminController {
	return &AdminController{catalog: svc}
}

// Dashboard renders the admin panel with the full catalog and any banner
// message carried over from the previous form submission.
func (controller *AdminController) Dashboard(c *gin.Context) {
	novels := controller.catalog.List(c.Request.Context())

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":     "توخيل | لوحة التحكم",
		"Novels":    novels,
		"CSRFToken": auth.GetCSRFToken(c),
		"Error":     c.Query("error"),
		"Success":   c.Query("success"),
	})
}

// CreateNovel handles the multipart create form. The cover image and PDF are
// optional; so are the description and the novel content used to generate one.
func (controller *AdminController) CreateNovel(c *gin.Context) {
	input := catalog.CreateInput{
		Title:        c.PostForm("title"),
		Quote:        c.PostForm("quote"),
		Description:  c.PostForm("description"),
		NovelContent: c.PostForm("novelContent"),
	}

	cover, coverClose, err := formUpload(c, "coverImage")
	if err != nil {
		redirectWithError(c, "تعذر قراءة صورة الغلاف.")
		return
	}
	if coverClose != nil {
		defer coverClose()
	}
	input.Cover = cover

	pdf, pdfClose, err := formUpload(c, "pdfFile")
	if err != nil {
		redirectWithError(c, "تعذر قراءة ملف الرواية.")
		return
	}
	if pdfClose != nil {
		defer pdfClose()
	}
	input.PDF = pdf

	if _, err := controller.catalog.Create(c.Request.Context(), input); err != nil {
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			redirectWithError(c, firstValidationMessage(verr))
		case errors.Is(err, catalog.ErrUpload):
			redirectWithError(c, "تعذر رفع الملفات. حاول مرة أخرى.")
		default:
			redirectWithError(c, "تعذر إضافة الرواية. حاول مرة أخرى.")
		}
		return
	}

	redirectWithSuccess(c, "تمت إضافة الرواية بنجاح.")
}

// EditNovel updates the title, quote and description of an existing novel.
func (controller *AdminController) EditNovel(c *gin.Context) {
	id := c.Param("id")
	input := catalog.EditInput{
		Title:       c.PostForm("title"),
		Quote:       c.PostForm("quote"),
		Description: c.PostForm("description"),
	}

	if err := controller.catalog.Edit(c.Request.Context(), id, input); err != nil {
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			redirectWithError(c, firstValidationMessage(verr))
		case errors.Is(err, catalog.ErrNotFound):
			redirectWithError(c, "الرواية غير موجودة.")
		default:
			redirectWithError(c, "تعذر تعديل الرواية. حاول مرة أخرى.")
		}
		return
	}

	redirectWithSuccess(c, "تم تعديل الرواية بنجاح.")
}

// DeleteNovel removes a novel from the catalog.
func (controller *AdminController) DeleteNovel(c *gin.Context) {
	id := c.Param("id")

	if err := controller.catalog.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			redirectWithError(c, "الرواية غير موجودة.")
		} else {
			redirectWithError(c, "تعذر حذف الرواية. حاول مرة أخرى.")
		}
		return
	}

	redirectWithSuccess(c, "تم حذف الرواية.")
}

// FeatureNovel makes the identified novel the featured one.
func (controller *AdminController) FeatureNovel(c *gin.Context) {
	id := c.Param("id")

	if err := controller.catalog.SetFeatured(c.Request.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			redirectWithError(c, "الرواية غير موجودة.")
		} else {
			redirectWithError(c, "تعذر تمييز الرواية. حاول مرة أخرى.")
		}
		return
	}

	redirectWithSuccess(c, "تم تمييز الرواية.")
}

// formUpload opens an optional multipart file field. A missing field is not
// an error; the returned close func is nil in that case.
func formUpload(c *gin.Context, field string) (*catalog.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &catalog.Upload{
		Filename:    header.Filename,
		ContentType: contentTypeOf(header),
		Data:        file,
	}, func() { file.Close() }, nil
}

func contentTypeOf(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
