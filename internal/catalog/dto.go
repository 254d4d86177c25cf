package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// ProductInput describes a new listing. An empty ID is generated.
type ProductInput struct {
	ID              string
	Name            string
	Description     string
	ImageURL        string
	BrandID         string
	PriceINR        int64
	Inventory       int64
	StylePreference types.StylePreference
	RoomType        types.RoomType
}

func (in ProductInput) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(in.BrandID) == "" {
		details["brandId"] = "is required"
	}
	if in.PriceINR < 0 {
		details["priceINR"] = "must be at least 0"
	}
	if in.Inventory < 0 {
		details["inventory"] = "must be at least 0"
	}
	if !in.StylePreference.IsValid() {
		details["stylePreference"] = "is invalid"
	}
	if !in.RoomType.IsValid() {
		details["roomType"] = "is invalid"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func (in ProductInput) toModel(createdAt int64) *models.Product {
	return &models.Product{
		ID:              idOrNew(in.ID),
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		ImageURL:        strings.TrimSpace(in.ImageURL),
		BrandID:         strings.TrimSpace(in.BrandID),
		PriceINR:        in.PriceINR,
		Inventory:       in.Inventory,
		StylePreference: in.StylePreference,
		RoomType:        in.RoomType,
		CreatedAt:       createdAt,
	}
}

type BrandInput struct {
	ID          string
	Name        string
	Description string
	LogoURL     string
}

type CategoryInput struct {
	ID          string
	Name        string
	Description string
	ProductIDs  []string
}

type FurnitureCategoryInput struct {
	ID          string
	Name        string
	SubCategory enums.FurnitureSubCategory
	ProductIDs  []string
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// dedupeIDs trims ids and drops blanks and repeats, keeping first-seen order.
func dedupeIDs(ids []string) []string {
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
