package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/henn-dt/carbonitor-v2/internal/application/usecase"
)

// RouterDeps collects the dependencies the router wires into handlers.
type RouterDeps struct {
	AuthUC        *usecase.AuthUseCase
	CategoryUC    *usecase.CategoryUseCase
	AssociationUC *usecase.CategoryAssociationUseCase
	ProductUC     *usecase.ProductUseCase
	BuildupUC     *usecase.BuildupUseCase
	JWTSecret     string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Everything else requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Categories and their schema properties
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	associationHandler := NewAssociationHandler(deps.AssociationUC)
	categories.Post("/", categoryHandler.Create)
	categories.Post("/batch", categoryHandler.CreateList)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Post("/:id/properties", categoryHandler.AddProperty)
	categories.Put("/:id/properties/:propertyId", categoryHandler.UpdateProperty)
	categories.Delete("/:id/properties/:propertyId", categoryHandler.RemoveProperty)
	categories.Get("/:id/associations", associationHandler.ListByCategory)
	categories.Get("/:id/entities", associationHandler.ListEntityIDsByCategory)
	categories.Get("/:id/properties/:propertyId/values", associationHandler.PropertyValues)

	// Associations
	associations := protected.Group("/associations")
	associations.Post("/", associationHandler.Assign)
	associations.Post("/batch", associationHandler.AssignToList)
	associations.Post("/categories", associationHandler.AssignCategories)
	associations.Post("/categories/batch", associationHandler.AssignCategoriesToList)
	associations.Get("/:id", associationHandler.GetByID)

	// Entity-scoped association views and value edits
	entities := protected.Group("/entities")
	entities.Post("/query", associationHandler.QueryEntities)
	entities.Get("/:id/category-properties", associationHandler.EntityCategoryProperties)
	entities.Get("/:type/:id/associations", associationHandler.ListByEntity)
	entities.Get("/:type/:id/categories", associationHandler.ListCategoriesByEntity)
	entities.Get("/:type/:id/values", associationHandler.EntityValues)
	entities.Put("/:type/:id/categories/:categoryId/values", associationHandler.UpdateValues)
	entities.Put("/:type/:id/categories/:categoryId/values/:propertyId", associationHandler.SetPropertyValue)
	entities.Delete("/:type/:id/categories/:categoryId/values/:propertyId", associationHandler.DeletePropertyValue)
	entities.Delete("/:type/:id/categories/:categoryId", associationHandler.Delete)
	entities.Delete("/:type/:id/categories", associationHandler.DeleteAllForEntity)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Buildups
	buildups := protected.Group("/buildups")
	buildupHandler := NewBuildupHandler(deps.BuildupUC)
	buildups.Post("/", buildupHandler.Create)
	buildups.Get("/", buildupHandler.List)
	buildups.Get("/:id", buildupHandler.GetByID)
	buildups.Put("/:id", buildupHandler.Update)
	buildups.Delete("/:id", buildupHandler.Delete)
}
