package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/api/validators"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/catalog"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

const maxSearchTermLen = 200

type idArgs struct {
	ID string `json:"id"`
}

type categoryIDArgs struct {
	CategoryID string `json:"categoryId"`
}

type brandIDArgs struct {
	BrandID string `json:"brandId"`
}

type subCategoryArgs struct {
	SubCategory enums.FurnitureSubCategory `json:"subCategory" validate:"required"`
}

type searchArgs struct {
	Term string `json:"term"`
}

type productPayload struct {
	ID              string                `json:"id"`
	Name            string                `json:"name" validate:"required"`
	Description     string                `json:"description"`
	ImageURL        string                `json:"imageUrl"`
	BrandID         string                `json:"brandId" validate:"required"`
	PriceINR        int64                 `json:"priceINR" validate:"gte=0"`
	Inventory       int64                 `json:"inventory" validate:"gte=0"`
	StylePreference types.StylePreference `json:"stylePreference"`
	RoomType        types.RoomType        `json:"roomType"`
}

type addProductArgs struct {
	Product productPayload `json:"product"`
}

func (a addProductArgs) toInput() catalog.ProductInput {
	p := a.Product
	return catalog.ProductInput{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		ImageURL:        p.ImageURL,
		BrandID:         p.BrandID,
		PriceINR:        p.PriceINR,
		Inventory:       p.Inventory,
		StylePreference: p.StylePreference,
		RoomType:        p.RoomType,
	}
}

type addBrandArgs struct {
	Brand struct {
		ID          string `json:"id"`
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		LogoURL     string `json:"logoUrl"`
	} `json:"brand"`
}

type addCategoryArgs struct {
	Category struct {
		ID          string   `json:"id"`
		Name        string   `json:"name" validate:"required"`
		Description string   `json:"description"`
		ProductIDs  []string `json:"productIds"`
	} `json:"category"`
}

type addFurnitureCategoryArgs struct {
	Category struct {
		ID          string                     `json:"id"`
		Name        string                     `json:"name" validate:"required"`
		SubCategory enums.FurnitureSubCategory `json:"subCategory" validate:"required"`
		ProductIDs  []string                   `json:"productIds"`
	} `json:"category"`
}

func GetProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, _ *noArgs) ([]models.Product, error) {
		return svc.GetProducts(ctx)
	})
}

// FindProduct returns the product or null when the id is unknown.
func FindProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *idArgs) (*models.Product, error) {
		return svc.FindProduct(ctx, args.ID)
	})
}

func GetProductsByCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *categoryIDArgs) ([]models.Product, error) {
		return svc.GetProductsByCategory(ctx, args.CategoryID)
	})
}

func GetProductsByBrand(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *brandIDArgs) ([]models.Product, error) {
		return svc.GetProductsByBrand(ctx, args.BrandID)
	})
}

func GetProductsByFurnitureCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *categoryIDArgs) ([]models.Product, error) {
		return svc.GetProductsByFurnitureCategory(ctx, args.CategoryID)
	})
}

func GetProductsByFurnitureSubCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *subCategoryArgs) ([]models.Product, error) {
		return svc.GetProductsByFurnitureSubCategory(ctx, args.SubCategory)
	})
}

// GlobalProductSearch matches the term against names and descriptions.
func GlobalProductSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *searchArgs) ([]models.Product, error) {
		return svc.GlobalProductSearch(ctx, validators.SanitizeString(args.Term, maxSearchTermLen))
	})
}

func SearchFurnitureProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *searchArgs) ([]models.Product, error) {
		return svc.SearchFurnitureProducts(ctx, validators.SanitizeString(args.Term, maxSearchTermLen))
	})
}

func GetProductCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, _ *noArgs) ([]models.ProductCategory, error) {
		return svc.GetProductCategories(ctx)
	})
}

func GetProductBrands(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, _ *noArgs) ([]models.ProductBrand, error) {
		return svc.GetProductBrands(ctx)
	})
}

func GetFurnitureCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, _ *noArgs) ([]models.FurnitureCategory, error) {
		return svc.GetFurnitureCategories(ctx)
	})
}

func AddProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addProductArgs) (*models.Product, error) {
		return svc.AddProduct(ctx, caller, args.toInput())
	})
}

// DeleteProduct reports whether a product was removed.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *idArgs) (bool, error) {
		return svc.DeleteProduct(ctx, caller, args.ID)
	})
}

func AddProductBrand(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addBrandArgs) (*models.ProductBrand, error) {
		b := args.Brand
		return svc.AddProductBrand(ctx, caller, catalog.BrandInput{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			LogoURL:     b.LogoURL,
		})
	})
}

func AddProductCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addCategoryArgs) (*models.ProductCategory, error) {
		c := args.Category
		return svc.AddProductCategory(ctx, caller, catalog.CategoryInput{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ProductIDs:  c.ProductIDs,
		})
	})
}

func AddFurnitureCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addFurnitureCategoryArgs) (*models.FurnitureCategory, error) {
		c := args.Category
		return svc.AddFurnitureCategory(ctx, caller, catalog.FurnitureCategoryInput{
			ID:          c.ID,
			Name:        c.Name,
			SubCategory: c.SubCategory,
			ProductIDs:  c.ProductIDs,
		})
	})
}
