package roompackages

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// ProductResolver resolves weak product references held by packages.
type ProductResolver interface {
	ResolveProducts(ctx context.Context, ids []string) ([]models.Product, error)
	MissingProducts(ctx context.Context, ids []string) ([]string, error)
}

// PackageInput describes a new room package. An empty ID is generated.
type PackageInput struct {
	ID          string
	Name        string
	Description string
	Style       types.StylePreference
	RoomType    types.RoomType
	PriceINR    int64
	ProductIDs  []string
}

// Service is the room package engine.
type Service interface {
	GetRoomPackages(ctx context.Context) ([]models.RoomPackage, error)
	GetPackagesByPriceRange(ctx context.Context, min, max int64) ([]models.RoomPackage, error)
	GetRoomPackagesByRoomType(ctx context.Context, room types.RoomType) ([]models.RoomPackage, error)
	GetRoomPackagesByStyle(ctx context.Context, style types.StylePreference) ([]models.RoomPackage, error)
	GetRoomPackagesByStyleAndRoomType(ctx context.Context, style types.StylePreference, room types.RoomType) ([]models.RoomPackage, error)
	GetRoomPackageByID(ctx context.Context, id string) (*models.RoomPackage, error)
	GetProductsForRoomPackage(ctx context.Context, packageID string) ([]models.Product, error)
	GetStyleOptionsForRoomType(ctx context.Context, room types.RoomType) ([]types.StylePreference, error)
	AddRoomPackage(ctx context.Context, caller string, input PackageInput) (*models.RoomPackage, error)
	DeleteRoomPackage(ctx context.Context, caller, id string) (bool, error)
}

type service struct {
	repo     *Repository
	products ProductResolver
	authz    users.Authorizer
	clock    clock.Clock
	logg     *logger.Logger
}

func NewService(repo *Repository, products ProductResolver, authz users.Authorizer, clk clock.Clock, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("room package repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
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
	return &service{repo: repo, products: products, authz: authz, clock: clk, logg: logg}, nil
}

func (s *service) GetRoomPackages(ctx context.Context) ([]models.RoomPackage, error) {
	return wrapList(s.repo.List(ctx))
}

func (s *service) GetPackagesByPriceRange(ctx context.Context, min, max int64) ([]models.RoomPackage, error) {
	if min < 0 || max < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price bounds must be at least 0")
	}
	if min > max {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price").
			WithDetails(map[string]int64{"min": min, "max": max})
	}
	return wrapList(s.repo.ListByPriceRange(ctx, min, max))
}

func (s *service) GetRoomPackagesByRoomType(ctx context.Context, room types.RoomType) ([]models.RoomPackage, error) {
	if !room.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid room type")
	}
	return wrapList(s.repo.ListByRoomType(ctx, room))
}

func (s *service) GetRoomPackagesByStyle(ctx context.Context, style types.StylePreference) ([]models.RoomPackage, error) {
	if !style.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid style preference")
	}
	return wrapList(s.repo.ListByStyle(ctx, style))
}

func (s *service) GetRoomPackagesByStyleAndRoomType(ctx context.Context, style types.StylePreference, room types.RoomType) ([]models.RoomPackage, error) {
	if !style.IsValid() || !room.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid style or room type")
	}
	return wrapList(s.repo.ListByStyleAndRoomType(ctx, style, room))
}

func (s *service) GetRoomPackageByID(ctx context.Context, id string) (*models.RoomPackage, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room package")
	}
	return row, nil
}

// GetProductsForRoomPackage resolves the package's products in stored order
// with their live inventory. Deleted products are dropped.
func (s *service) GetProductsForRoomPackage(ctx context.Context, packageID string) ([]models.Product, error) {
	pkg, err := s.GetRoomPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return []models.Product{}, nil
	}
	return s.products.ResolveProducts(ctx, pkg.ProductIDs)
}

// GetStyleOptionsForRoomType lists the distinct styles offered for room in
// first-seen directory order.
func (s *service) GetStyleOptionsForRoomType(ctx context.Context, room types.RoomType) ([]types.StylePreference, error) {
	packages, err := s.GetRoomPackagesByRoomType(ctx, room)
	if err != nil {
		return nil, err
	}
	styles := make([]types.StylePreference, 0, len(packages))
	for _, pkg := range packages {
		if !types.ContainsStyle(styles, pkg.Style) {
			styles = append(styles, pkg.Style)
		}
	}
	return styles, nil
}

func (s *service) AddRoomPackage(ctx context.Context, caller string, input PackageInput) (*models.RoomPackage, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	details := map[string]any{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if !input.Style.IsValid() {
		details["style"] = "is invalid"
	}
	if !input.RoomType.IsValid() {
		details["roomType"] = "is invalid"
	}
	if input.PriceINR < 0 {
		details["priceINR"] = "must be at least 0"
	}
	productIDs := dedupe(input.ProductIDs)
	if len(productIDs) == 0 {
		details["productIds"] = "must reference at least one product"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid room package").WithDetails(details)
	}

	missing, err := s.products.MissingProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown products").WithDetails(map[string]any{"productIds": missing})
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}
	pkg := &models.RoomPackage{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Style:       input.Style,
		RoomType:    input.RoomType,
		PriceINR:    input.PriceINR,
		ProductIDs:  productIDs,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, pkg); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "room package %q already exists", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create room package")
	}
	s.logg.Info(s.logg.WithField(ctx, "package_id", pkg.ID), "room package added")
	return pkg, nil
}

func (s *service) DeleteRoomPackage(ctx context.Context, caller, id string) (bool, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return false, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete room package")
	}
	return deleted, nil
}

func wrapList(rows []models.RoomPackage, err error) ([]models.RoomPackage, error) {
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list room packages")
	}
	return rows, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
