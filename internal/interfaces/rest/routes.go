package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/config"
	"github.com/summitcrest/realty/internal/interfaces/middleware"
)

// RegisterRoutes mounts the public site API, investor portal and back office
func RegisterRoutes(router *gin.Engine, sm *services.ServiceManager, cfg *config.Config) {
	secure := cfg.IsProduction()

	contentHandler := NewContentHandler(sm.Content)
	leadHandler := NewLeadHandler(sm.Leads)
	previewHandler := NewPreviewHandler(sm.Preview, secure)
	seoHandler := NewSEOHandler(sm.Sitemap, sm.OGImage)
	portalHandler := NewPortalHandler(sm.Investors, sm.Content, sm.LOIs, sm.Documents)
	adminHandler := NewAdminHandler(AdminDeps{
		Auth:         sm.AdminAuth,
		Dashboard:    sm.Dashboard,
		Leads:        sm.Leads,
		Investors:    sm.Investors,
		Documents:    sm.Documents,
		LOIs:         sm.LOIs,
		Prospectuses: sm.Content,
	}, cfg.SiteName, secure)

	requireInvestor := middleware.RequireInvestor(sm.Identity, sm.Investors)
	requireAdmin := middleware.RequireAdmin(sm.AdminAuth)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Crawlers and social cards
	router.GET("/sitemap.xml", seoHandler.Sitemap)
	router.GET("/robots.txt", seoHandler.Robots)
	router.GET("/og/:kind/:slug", seoHandler.OGImage)

	api := router.Group("/api")
	{
		content := api.Group("/content", middleware.Preview(sm.Preview))
		{
			content.GET("/settings", contentHandler.Settings)
			content.GET("/properties", contentHandler.ListProperties)
			content.GET("/properties/:slug", contentHandler.GetProperty)
			content.GET("/projects", contentHandler.ListProjects)
			content.GET("/projects/:slug", contentHandler.GetProject)
			content.GET("/testimonials", contentHandler.ListTestimonials)
			content.GET("/services", contentHandler.ListServices)
			content.GET("/pages/:slug", contentHandler.GetPage)
		}

		api.POST("/leads", leadHandler.Submit)

		preview := api.Group("/preview")
		{
			preview.GET("/enable", previewHandler.Enable)
			preview.GET("/disable", previewHandler.Disable)
		}

		portal := api.Group("/portal", requireInvestor)
		{
			portal.GET("/me", portalHandler.Me)
			portal.PUT("/me", portalHandler.UpdateMe)

			portal.GET("/prospectuses", portalHandler.ListProspectuses)
			portal.GET("/prospectuses/:slug", portalHandler.GetProspectus)
			portal.GET("/prospectuses/:slug/pdf", portalHandler.ProspectusPDF)

			portal.GET("/lois", portalHandler.ListLOIs)
			portal.POST("/lois", portalHandler.CreateLOI)
			portal.GET("/lois/:id", portalHandler.GetLOI)
			portal.GET("/lois/:id/pdf", portalHandler.LOIPDF)

			portal.GET("/documents", portalHandler.ListDocuments)
			portal.POST("/documents", portalHandler.UploadDocument)
			portal.DELETE("/documents/:id", portalHandler.DeleteDocument)
		}

		admin := api.Group("/admin", requireAdmin)
		{
			admin.GET("/summary", adminHandler.Summary)

			admin.GET("/leads", adminHandler.ListLeads)
			admin.GET("/leads/export", adminHandler.ExportLeads)
			admin.PATCH("/leads/:id", adminHandler.UpdateLead)
			admin.DELETE("/leads/:id", adminHandler.DeleteLead)

			admin.GET("/investors", adminHandler.ListInvestors)
			admin.GET("/investors/:id", adminHandler.GetInvestor)
			admin.PATCH("/investors/:id/accreditation", adminHandler.SetAccreditation)
			admin.GET("/investors/:id/documents", adminHandler.InvestorDocuments)

			admin.GET("/lois", adminHandler.ListLOIs)
			admin.GET("/lois/:id", adminHandler.GetLOI)
			admin.POST("/lois/:id/transition", adminHandler.TransitionLOI)
			admin.POST("/lois/:id/countersign", adminHandler.CountersignLOI)
			admin.GET("/lois/:id/pdf", adminHandler.LOIPDF)

			admin.PATCH("/prospectuses/:id/status", adminHandler.SetProspectusStatus)
		}
	}

	// Back-office pages
	router.GET("/admin/login", adminHandler.LoginPage)
	router.POST("/admin/login", adminHandler.Login)
	router.POST("/admin/logout", adminHandler.Logout)
	router.GET("/admin", requireAdmin, adminHandler.Dashboard)
}
