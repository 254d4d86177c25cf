package catalog

import (
	"context"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
)

const directoryOrder = "created_at ASC, id ASC"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository persists products, brands and both category kinds.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindProduct returns nil when the id is unknown.
func (r *Repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	return findProduct(r.DB(ctx), id)
}

func findProduct(db *gorm.DB, id string) (*models.Product, error) {
	return repo.Optional[models.Product](db.Where("id = ?", id))
}

// FindProductsByIDs loads the products that exist among ids, keyed by id.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) ListProductsByBrand(ctx context.Context, brandID string) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).Where("brand_id = ?", brandID).Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchProducts matches term case-insensitively against name and
// description. LIKE wildcards in term are literal. When restrictTo is non-nil
// only those ids are considered.
//
// sqlite's LOWER folds ASCII only, so on that driver the match runs in Go
// with the same Unicode folding applied to both sides.
func (r *Repository) SearchProducts(ctx context.Context, term string, restrictTo []string) ([]models.Product, error) {
	if restrictTo != nil && len(restrictTo) == 0 {
		return []models.Product{}, nil
	}
	query := r.DB(ctx).Model(&models.Product{})
	if restrictTo != nil {
		query = query.Where("id IN ?", restrictTo)
	}
	needle := strings.ToLower(term)
	foldInGo := needle != "" && query.Dialector.Name() == "sqlite"
	if needle != "" && !foldInGo {
		pattern := "%" + likeEscaper.Replace(needle) + "%"
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	var rows []models.Product
	if err := query.Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	if foldInGo {
		rows = slices.DeleteFunc(rows, func(p models.Product) bool {
			return !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle)
		})
	}
	return rows, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// DeleteProduct reports whether a row was removed.
func (r *Repository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementInventory subtracts qty only while enough stock remains. It
// reports whether the row was updated.
func (r *Repository) DecrementInventory(ctx context.Context, tx *gorm.DB, productID string, qty int64) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND inventory >= ?", productID, qty).
		UpdateColumn("inventory", gorm.Expr("inventory - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindProductTx reads a product through tx.
func (r *Repository) FindProductTx(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error) {
	return findProduct(tx.WithContext(ctx), id)
}

func (r *Repository) BrandExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.ProductBrand{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListBrands(ctx context.Context) ([]models.ProductBrand, error) {
	var rows []models.ProductBrand
	if err := r.DB(ctx).Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CreateBrand(ctx context.Context, brand *models.ProductBrand) error {
	return r.DB(ctx).Create(brand).Error
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	var rows []models.ProductCategory
	if err := r.DB(ctx).Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindCategory(ctx context.Context, id string) (*models.ProductCategory, error) {
	return repo.Optional[models.ProductCategory](r.DB(ctx).Where("id = ?", id))
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.ProductCategory) error {
	return r.DB(ctx).Create(category).Error
}

func (r *Repository) ListFurnitureCategories(ctx context.Context) ([]models.FurnitureCategory, error) {
	var rows []models.FurnitureCategory
	if err := r.DB(ctx).Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListFurnitureCategoriesBySubCategory(ctx context.Context, sub enums.FurnitureSubCategory) ([]models.FurnitureCategory, error) {
	var rows []models.FurnitureCategory
	if err := r.DB(ctx).Where("sub_category = ?", sub).Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindFurnitureCategory(ctx context.Context, id string) (*models.FurnitureCategory, error) {
	return repo.Optional[models.FurnitureCategory](r.DB(ctx).Where("id = ?", id))
}

func (r *Repository) CreateFurnitureCategory(ctx context.Context, category *models.FurnitureCategory) error {
	return r.DB(ctx).Create(category).Error
}
