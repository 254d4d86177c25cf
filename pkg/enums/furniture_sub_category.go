package enums

// FurnitureSubCategory groups furniture categories for browsing.
type FurnitureSubCategory string

const (
	FurnitureSubCategorySofas    FurnitureSubCategory = "sofas"
	FurnitureSubCategoryBeds     FurnitureSubCategory = "beds"
	FurnitureSubCategoryTables   FurnitureSubCategory = "tables"
	FurnitureSubCategoryChairs   FurnitureSubCategory = "chairs"
	FurnitureSubCategoryStorage  FurnitureSubCategory = "storage"
	FurnitureSubCategoryLighting FurnitureSubCategory = "lighting"
	FurnitureSubCategoryDecor    FurnitureSubCategory = "decor"
	FurnitureSubCategoryRugs     FurnitureSubCategory = "rugs"
)

var furnitureSubCategories = closedSet[FurnitureSubCategory]{
	FurnitureSubCategorySofas, FurnitureSubCategoryBeds, FurnitureSubCategoryTables,
	FurnitureSubCategoryChairs, FurnitureSubCategoryStorage, FurnitureSubCategoryLighting,
	FurnitureSubCategoryDecor, FurnitureSubCategoryRugs,
}

func (f FurnitureSubCategory) String() string { return string(f) }

func (f FurnitureSubCategory) IsValid() bool { return furnitureSubCategories.has(f) }

func ParseFurnitureSubCategory(value string) (FurnitureSubCategory, error) {
	return furnitureSubCategories.parse("furniture sub category", value)
}
