package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/entities"
)

// PublicController serves the reader-facing pages. Reads go through the
// catalog service so a broken store degrades to the placeholder novels
// instead of an error page.
type PublicController struct {
	catalog *catalog.Service
}

func NewPublicController(svc *catalog.Service) *PublicController {
	return &PublicController{catalog: svc}
}

// HomePage renders the landing page with the featured novel as the hero
// section and the rest of the catalog below it.
func (controller *PublicController) HomePage(c *gin.Context) {
	novels := controller.catalog.List(c.Request.Context())

	var featured *entities.Novel
	others := make([]entities.Novel, 0, len(novels))
	for _, n := range novels {
		if n.IsFeatured && featured == nil {
			n := n
			featured = &n
			continue
		}
		others = append(others, n)
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":    "توخيل | الصفحة الرئيسية",
		"Featured": featured,
		"Novels":   others,
	})
}

// NovelsPage renders the full catalog, featured first.
func (controller *PublicController) NovelsPage(c *gin.Context) {
	novels := controller.catalog.List(c.Request.Context())

	c.HTML(http.StatusOK, "novels.html", gin.H{
		"Title":  "توخيل | الروايات",
		"Novels": novels,
	})
}

// AboutPage renders the author biography.
func (controller *PublicController) AboutPage(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{
		"Title": "توخيل | عن الكاتبة",
	})
}

// ContactPage renders the contact details.
func (controller *PublicController) ContactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"Title": "توخيل | تواصل",
	})
}

// ListNovels returns the catalog as JSON, in the same featured-first order
// the pages use.
func (controller *PublicController) ListNovels(c *gin.Context) {
	novels := controller.catalog.List(c.Request.Context())
	c.JSON(http.StatusOK, novels)
}
