package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/collections"
	"github.com/NikhilKtyl/map-work-nexus-sub000/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateUnversionedBOMs(app); err != nil {
			log.Printf("Warning: BOM version migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestLogMiddleware())

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/api/customers", handlers.HandleCustomerList(app))
		se.Router.POST("/api/customers", handlers.HandleCustomerCreate(app))
		se.Router.PATCH("/api/customers/{id}", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/api/customers/{id}", handlers.HandleCustomerDelete(app))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/api/projects", handlers.HandleProjectList(app))
		se.Router.POST("/api/projects", handlers.HandleProjectCreate(app))
		se.Router.GET("/api/projects/{id}", handlers.HandleProjectGet(app))
		se.Router.PATCH("/api/projects/{id}", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/api/projects/{id}", handlers.HandleProjectDelete(app))

		// ── Crews ────────────────────────────────────────────────
		se.Router.GET("/api/crews", handlers.HandleCrewList(app))
		se.Router.POST("/api/crews", handlers.HandleCrewCreate(app))
		se.Router.DELETE("/api/crews/{id}", handlers.HandleCrewDelete(app))
		se.Router.GET("/api/projects/{id}/crews", handlers.HandleProjectCrewList(app))
		se.Router.POST("/api/projects/{id}/crews", handlers.HandleProjectCrewLink(app))
		se.Router.DELETE("/api/projects/{id}/crews/{crewId}", handlers.HandleProjectCrewUnlink(app))

		// ── Unit type catalog ────────────────────────────────────
		se.Router.GET("/api/unit-types", handlers.HandleUnitTypeList(app))
		se.Router.POST("/api/unit-types", handlers.HandleUnitTypeCreate(app))
		se.Router.PATCH("/api/unit-types/{id}", handlers.HandleUnitTypeUpdate(app))
		se.Router.DELETE("/api/unit-types/{id}", handlers.HandleUnitTypeDelete(app))

		// ── Units ────────────────────────────────────────────────
		se.Router.GET("/api/projects/{id}/units", handlers.HandleUnitList(app))
		se.Router.POST("/api/projects/{id}/units", handlers.HandleUnitCreate(app))
		se.Router.PATCH("/api/units/{id}", handlers.HandleUnitUpdate(app))
		se.Router.DELETE("/api/units/{id}", handlers.HandleUnitDelete(app))

		// ── Unit bulk import ─────────────────────────────────────
		se.Router.GET("/api/units/import/template", handlers.HandleUnitTemplateDownload(app))
		se.Router.POST("/api/projects/{id}/units/import/validate", handlers.HandleUnitImportValidate(app))
		se.Router.POST("/api/projects/{id}/units/import", handlers.HandleUnitImportCommit(app))
		se.Router.POST("/api/units/import/errors", handlers.HandleUnitImportErrorReport(app))

		// ── BOM templates ────────────────────────────────────────
		se.Router.GET("/api/bom-templates", handlers.HandleTemplateList(app))
		se.Router.POST("/api/bom-templates", handlers.HandleTemplateCreate(app))
		se.Router.GET("/api/bom-templates/catalog-check", handlers.HandleTemplateCatalogCheck(app))
		se.Router.PATCH("/api/bom-templates/{id}", handlers.HandleTemplateUpdate(app))
		se.Router.DELETE("/api/bom-templates/{id}", handlers.HandleTemplateDelete(app))

		// ── BOM generation and review ────────────────────────────
		se.Router.POST("/api/projects/{id}/bom/generate", handlers.HandleBOMGenerate(app))
		se.Router.GET("/api/projects/{id}/boms", handlers.HandleBOMList(app))
		se.Router.GET("/api/boms/{bomId}", handlers.HandleBOMGet(app))
		se.Router.POST("/api/boms/{bomId}/approve", handlers.HandleBOMApprove(app))
		se.Router.DELETE("/api/boms/{bomId}", handlers.HandleBOMDelete(app))
		se.Router.PATCH("/api/bom-lines/{lineId}", handlers.HandleBOMLineUpdate(app))

		// ── BOM export ───────────────────────────────────────────
		se.Router.GET("/api/boms/{bomId}/export/csv", handlers.HandleBOMExportCSV(app))
		se.Router.GET("/api/boms/{bomId}/export/excel", handlers.HandleBOMExportExcel(app))
		se.Router.GET("/api/boms/{bomId}/export/pdf", handlers.HandleBOMExportPDF(app))

		// ── Change orders ────────────────────────────────────────
		se.Router.GET("/api/projects/{id}/change-orders", handlers.HandleChangeOrderList(app))
		se.Router.POST("/api/projects/{id}/change-orders", handlers.HandleChangeOrderCreate(app))
		se.Router.PATCH("/api/change-orders/{coId}", handlers.HandleChangeOrderUpdateStatus(app))
		se.Router.DELETE("/api/change-orders/{coId}", handlers.HandleChangeOrderDelete(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
