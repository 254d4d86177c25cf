package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/roompackages"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

type priceRangeArgs struct {
	Min int64 `json:"min" validate:"gte=0"`
	Max int64 `json:"max" validate:"gte=0"`
}

type roomTypeArgs struct {
	RoomType types.RoomType `json:"roomType"`
}

type styleArgs struct {
	Style types.StylePreference `json:"style"`
}

type styleAndRoomArgs struct {
	Style    types.StylePreference `json:"style"`
	RoomType types.RoomType        `json:"roomType"`
}

type packageIDArgs struct {
	PackageID string `json:"packageId"`
}

type addRoomPackageArgs struct {
	Package struct {
		ID          string                `json:"id"`
		Name        string                `json:"name" validate:"required"`
		Description string                `json:"description"`
		Style       types.StylePreference `json:"style"`
		RoomType    types.RoomType        `json:"roomType"`
		PriceINR    int64                 `json:"priceINR" validate:"gte=0"`
		ProductIDs  []string              `json:"productIds" validate:"min=1"`
	} `json:"package"`
}

func (a addRoomPackageArgs) toInput() roompackages.PackageInput {
	p := a.Package
	return roompackages.PackageInput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Style:       p.Style,
		RoomType:    p.RoomType,
		PriceINR:    p.PriceINR,
		ProductIDs:  p.ProductIDs,
	}
}

func GetRoomPackages(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, _ *noArgs) ([]models.RoomPackage, error) {
		return svc.GetRoomPackages(ctx)
	})
}

// GetPackagesByPriceRange filters on the inclusive [min, max] price window.
func GetPackagesByPriceRange(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *priceRangeArgs) ([]models.RoomPackage, error) {
		return svc.GetPackagesByPriceRange(ctx, args.Min, args.Max)
	})
}

func GetRoomPackagesByRoomType(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *roomTypeArgs) ([]models.RoomPackage, error) {
		return svc.GetRoomPackagesByRoomType(ctx, args.RoomType)
	})
}

func GetRoomPackagesByStyle(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *styleArgs) ([]models.RoomPackage, error) {
		return svc.GetRoomPackagesByStyle(ctx, args.Style)
	})
}

func GetRoomPackagesByStyleAndRoomType(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *styleAndRoomArgs) ([]models.RoomPackage, error) {
		return svc.GetRoomPackagesByStyleAndRoomType(ctx, args.Style, args.RoomType)
	})
}

func GetRoomPackageByID(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *idArgs) (*models.RoomPackage, error) {
		return svc.GetRoomPackageByID(ctx, args.ID)
	})
}

func GetProductsForRoomPackage(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *packageIDArgs) ([]models.Product, error) {
		return svc.GetProductsForRoomPackage(ctx, args.PackageID)
	})
}

func GetStyleOptionsForRoomType(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *roomTypeArgs) ([]types.StylePreference, error) {
		return svc.GetStyleOptionsForRoomType(ctx, args.RoomType)
	})
}

func AddRoomPackage(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addRoomPackageArgs) (*models.RoomPackage, error) {
		return svc.AddRoomPackage(ctx, caller, args.toInput())
	})
}

func DeleteRoomPackage(svc roompackages.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *idArgs) (bool, error) {
		return svc.DeleteRoomPackage(ctx, caller, args.ID)
	})
}
