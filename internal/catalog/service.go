package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// Service is the catalog store: product listings, brands and categories.
type Service interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	GetProductsByBrand(ctx context.Context, brandID string) ([]models.Product, error)
	GetProductsByFurnitureCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	GetProductsByFurnitureSubCategory(ctx context.Context, sub enums.FurnitureSubCategory) ([]models.Product, error)
	GlobalProductSearch(ctx context.Context, term string) ([]models.Product, error)
	SearchFurnitureProducts(ctx context.Context, term string) ([]models.Product, error)
	GetProductCategories(ctx context.Context) ([]models.ProductCategory, error)
	GetProductBrands(ctx context.Context) ([]models.ProductBrand, error)
	GetFurnitureCategories(ctx context.Context) ([]models.FurnitureCategory, error)

	AddProduct(ctx context.Context, caller string, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, caller, id string) (bool, error)
	AddProductBrand(ctx context.Context, caller string, input BrandInput) (*models.ProductBrand, error)
	AddProductCategory(ctx context.Context, caller string, input CategoryInput) (*models.ProductCategory, error)
	AddFurnitureCategory(ctx context.Context, caller string, input FurnitureCategoryInput) (*models.FurnitureCategory, error)

	// ResolveProducts returns the products for ids in the given order,
	// skipping unknown and repeated ids.
	ResolveProducts(ctx context.Context, ids []string) ([]models.Product, error)
	// MissingProducts lists the ids that do not reference a product.
	MissingProducts(ctx context.Context, ids []string) ([]string, error)
}

type service struct {
	repo  *Repository
	authz users.Authorizer
	clock clock.Clock
	logg  *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo *Repository, authz users.Authorizer, clk clock.Clock, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authorizer required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, authz: authz, clock: clk, logg: logg}, nil
}

func (s *service) GetProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	row, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return row, nil
}

func (s *service) GetProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category == nil {
		return []models.Product{}, nil
	}
	return s.ResolveProducts(ctx, category.ProductIDs)
}

func (s *service) GetProductsByBrand(ctx context.Context, brandID string) ([]models.Product, error) {
	rows, err := s.repo.ListProductsByBrand(ctx, brandID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brand products")
	}
	return rows, nil
}

func (s *service) GetProductsByFurnitureCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	category, err := s.repo.FindFurnitureCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load furniture category")
	}
	if category == nil {
		return []models.Product{}, nil
	}
	return s.ResolveProducts(ctx, category.ProductIDs)
}

// GetProductsByFurnitureSubCategory concatenates the categories tagged with
// sub in directory order, then de-duplicates.
func (s *service) GetProductsByFurnitureSubCategory(ctx context.Context, sub enums.FurnitureSubCategory) ([]models.Product, error) {
	if !sub.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid furniture sub category %q", sub)
	}
	categories, err := s.repo.ListFurnitureCategoriesBySubCategory(ctx, sub)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list furniture categories")
	}
	var ids []string
	for _, category := range categories {
		ids = append(ids, category.ProductIDs...)
	}
	return s.ResolveProducts(ctx, ids)
}

func (s *service) GlobalProductSearch(ctx context.Context, term string) ([]models.Product, error) {
	rows, err := s.repo.SearchProducts(ctx, strings.TrimSpace(term), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return rows, nil
}

func (s *service) SearchFurnitureProducts(ctx context.Context, term string) ([]models.Product, error) {
	categories, err := s.repo.ListFurnitureCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list furniture categories")
	}
	var ids []string
	for _, category := range categories {
		ids = append(ids, category.ProductIDs...)
	}
	rows, err := s.repo.SearchProducts(ctx, strings.TrimSpace(term), dedupeIDs(ids))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search furniture products")
	}
	return rows, nil
}

func (s *service) GetProductCategories(ctx context.Context) ([]models.ProductCategory, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) GetProductBrands(ctx context.Context) ([]models.ProductBrand, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

func (s *service) GetFurnitureCategories(ctx context.Context) ([]models.FurnitureCategory, error) {
	rows, err := s.repo.ListFurnitureCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list furniture categories")
	}
	return rows, nil
}

func (s *service) AddProduct(ctx context.Context, caller string, input ProductInput) (*models.Product, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	ok, err := s.repo.BrandExists(ctx, strings.TrimSpace(input.BrandID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check brand")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown brand").WithDetails(map[string]string{"brandId": input.BrandID})
	}

	product := input.toModel(s.clock.Now())
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, mapCreateError(err, "product", product.ID)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"product_id": product.ID, "brand_id": product.BrandID}), "product added")
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, caller, id string) (bool, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return false, err
	}
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if deleted {
		s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product deleted")
	}
	return deleted, nil
}

func (s *service) AddProductBrand(ctx context.Context, caller string, input BrandInput) (*models.ProductBrand, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid brand").WithDetails(map[string]string{"name": "is required"})
	}
	brand := &models.ProductBrand{
		ID:          idOrNew(input.ID),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		LogoURL:     strings.TrimSpace(input.LogoURL),
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, mapCreateError(err, "brand", brand.ID)
	}
	return brand, nil
}

func (s *service) AddProductCategory(ctx context.Context, caller string, input CategoryInput) (*models.ProductCategory, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category").WithDetails(map[string]string{"name": "is required"})
	}
	ids, err := s.requireProducts(ctx, input.ProductIDs)
	if err != nil {
		return nil, err
	}
	category := &models.ProductCategory{
		ID:          idOrNew(input.ID),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ProductIDs:  ids,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, mapCreateError(err, "category", category.ID)
	}
	return category, nil
}

func (s *service) AddFurnitureCategory(ctx context.Context, caller string, input FurnitureCategoryInput) (*models.FurnitureCategory, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	details := map[string]string{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if !input.SubCategory.IsValid() {
		details["subCategory"] = "is invalid"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid furniture category").WithDetails(details)
	}
	ids, err := s.requireProducts(ctx, input.ProductIDs)
	if err != nil {
		return nil, err
	}
	category := &models.FurnitureCategory{
		ID:          idOrNew(input.ID),
		Name:        name,
		SubCategory: input.SubCategory,
		ProductIDs:  ids,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateFurnitureCategory(ctx, category); err != nil {
		return nil, mapCreateError(err, "furniture category", category.ID)
	}
	return category, nil
}

func (s *service) ResolveProducts(ctx context.Context, ids []string) ([]models.Product, error) {
	ids = dedupeIDs(ids)
	found, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve products")
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := found[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (s *service) MissingProducts(ctx context.Context, ids []string) ([]string, error) {
	ids = dedupeIDs(ids)
	found, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve products")
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *service) requireProducts(ctx context.Context, ids []string) ([]string, error) {
	ids = dedupeIDs(ids)
	missing, err := s.MissingProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown products").WithDetails(map[string]any{"productIds": missing})
	}
	return ids, nil
}

func mapCreateError(err error, entity, id string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "%s %q already exists", entity, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create "+entity)
}
