package roompackages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/catalog"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/dbtest"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

const admin = "admin-principal"

type staticAuthorizer map[string]bool

func (a staticAuthorizer) IsAdmin(_ context.Context, principal string) (bool, error) {
	return a[principal], nil
}

type fixture struct {
	svc     Service
	catalog catalog.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	clk := clock.NewFixed(1_000)
	authz := staticAuthorizer{admin: true}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()), authz, clk, logger.Nop())
	require.NoError(t, err)
	svc, err := NewService(NewRepository(client.DB()), catalogSvc, authz, clk, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = catalogSvc.AddProductBrand(ctx, admin, catalog.BrandInput{ID: "b1", Name: "Brand"})
	require.NoError(t, err)
	for _, id := range []string{"p1", "p2", "p3"} {
		_, err = catalogSvc.AddProduct(ctx, admin, catalog.ProductInput{
			ID: id, Name: "Product " + id, BrandID: "b1", PriceINR: 100, Inventory: 4,
			StylePreference: types.StyleModern, RoomType: types.RoomBedroom,
		})
		require.NoError(t, err)
	}
	return fixture{svc: svc, catalog: catalogSvc}
}

func (f fixture) add(t *testing.T, id string, style types.StylePreference, room types.RoomType, price int64, products ...string) {
	t.Helper()
	_, err := f.svc.AddRoomPackage(context.Background(), admin, PackageInput{
		ID: id, Name: "Package " + id, Style: style, RoomType: room, PriceINR: price, ProductIDs: products,
	})
	require.NoError(t, err)
}

func packageIDs(rows []models.RoomPackage) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func TestAddRoomPackageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddRoomPackage(ctx, "visitor", PackageInput{Name: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.AddRoomPackage(ctx, admin, PackageInput{
		Name: "Empty", Style: types.StyleBoho, RoomType: types.RoomOffice, PriceINR: 10,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.AddRoomPackage(ctx, admin, PackageInput{
		Name: "Ghost", Style: types.StyleBoho, RoomType: types.RoomOffice, PriceINR: 10, ProductIDs: []string{"p1", "ghost"},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	f.add(t, "k1", types.StyleBoho, types.RoomOffice, 10, "p1")
	_, err = f.svc.AddRoomPackage(ctx, admin, PackageInput{
		ID: "k1", Name: "Dup", Style: types.StyleBoho, RoomType: types.RoomOffice, PriceINR: 10, ProductIDs: []string{"p1"},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestPriceRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "k1", types.StyleModern, types.RoomBedroom, 100, "p1")
	f.add(t, "k2", types.StyleModern, types.RoomBedroom, 200, "p1")
	f.add(t, "k3", types.StyleModern, types.RoomBedroom, 300, "p1")

	got, err := f.svc.GetPackagesByPriceRange(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, packageIDs(got))

	got, err = f.svc.GetPackagesByPriceRange(ctx, 150, 150)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.svc.GetPackagesByPriceRange(ctx, 300, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStyleAndRoomFiltersUseVariantEquality(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "k1", types.StyleModern, types.RoomBedroom, 100, "p1")
	f.add(t, "k2", types.OtherStyle("Japandi"), types.RoomBedroom, 100, "p1")
	f.add(t, "k3", types.OtherStyle("japandi"), types.OtherRoom("Balcony"), 100, "p1")
	f.add(t, "k4", types.StyleModern, types.RoomOffice, 100, "p1")

	got, err := f.svc.GetRoomPackagesByStyle(ctx, types.OtherStyle("Japandi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"k2"}, packageIDs(got))

	got, err = f.svc.GetRoomPackagesByRoomType(ctx, types.RoomBedroom)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, packageIDs(got))

	got, err = f.svc.GetRoomPackagesByStyleAndRoomType(ctx, types.StyleModern, types.RoomOffice)
	require.NoError(t, err)
	assert.Equal(t, []string{"k4"}, packageIDs(got))

	got, err = f.svc.GetRoomPackagesByRoomType(ctx, types.OtherRoom("Balcony"))
	require.NoError(t, err)
	assert.Equal(t, []string{"k3"}, packageIDs(got))
}

func TestStyleOptionsForRoomTypeAreDistinctFirstSeen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "k1", types.StyleRustic, types.RoomBedroom, 100, "p1")
	f.add(t, "k2", types.StyleModern, types.RoomBedroom, 100, "p1")
	f.add(t, "k3", types.StyleRustic, types.RoomBedroom, 100, "p1")
	f.add(t, "k4", types.StyleBoho, types.RoomOffice, 100, "p1")

	got, err := f.svc.GetStyleOptionsForRoomType(ctx, types.RoomBedroom)
	require.NoError(t, err)
	assert.Equal(t, []types.StylePreference{types.StyleRustic, types.StyleModern}, got)

	got, err = f.svc.GetStyleOptionsForRoomType(ctx, types.RoomKidsRoom)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductsForRoomPackageDropDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "k1", types.StyleModern, types.RoomBedroom, 100, "p3", "p1", "p2")

	_, err := f.catalog.DeleteProduct(ctx, admin, "p1")
	require.NoError(t, err)

	got, err := f.svc.GetProductsForRoomPackage(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p3", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)
	assert.EqualValues(t, 4, got[0].Inventory)

	got, err = f.svc.GetProductsForRoomPackage(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	pkg, err := f.svc.GetRoomPackageByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, pkg)
}

func TestDeleteRoomPackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "k1", types.StyleModern, types.RoomBedroom, 100, "p1")

	deleted, err := f.svc.DeleteRoomPackage(ctx, admin, "k1")
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := f.svc.GetRoomPackages(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
