package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/designers"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

type addDesignerArgs struct {
	Designer struct {
		ID        string                  `json:"id"`
		Name      string                  `json:"name" validate:"required"`
		Bio       string                  `json:"bio"`
		Styles    []types.StylePreference `json:"styles" validate:"min=1"`
		Portfolio []types.PortfolioItem   `json:"portfolio"`
	} `json:"designer"`
}

type recommendArgs struct {
	RoomType types.RoomType          `json:"roomType"`
	Styles   []types.StylePreference `json:"styles"`
}

type briefIDArgs struct {
	BriefID string `json:"briefId"`
}

func GetDesigners(svc designers.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, _ *noArgs) ([]models.Designer, error) {
		return svc.GetDesigners(ctx)
	})
}

func GetDesignerByID(svc designers.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *idArgs) (*models.Designer, error) {
		return svc.GetDesignerByID(ctx, args.ID)
	})
}

func AddDesigner(svc designers.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addDesignerArgs) (*models.Designer, error) {
		d := args.Designer
		return svc.AddDesigner(ctx, caller, designers.DesignerInput{
			ID:        d.ID,
			Name:      d.Name,
			Bio:       d.Bio,
			Styles:    d.Styles,
			Portfolio: d.Portfolio,
		})
	})
}

// GetRecommendedDesigners falls back to the head of the directory when no
// designer declares a requested style.
func GetRecommendedDesigners(svc designers.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *recommendArgs) ([]models.Designer, error) {
		return svc.GetRecommendedDesigners(ctx, args.RoomType, args.Styles)
	})
}

func GetRecommendedDesignersForBrief(svc designers.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *briefIDArgs) ([]models.Designer, error) {
		return svc.GetRecommendedDesignersForBrief(ctx, caller, args.BriefID)
	})
}
