package designers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

type briefStub map[string]*models.ProjectBrief

func (b briefStub) GetProjectBrief(_ context.Context, caller, id string) (*models.ProjectBrief, error) {
	brief, ok := b[id]
	if !ok || brief.UserID != caller {
		return nil, nil
	}
	return brief, nil
}

func newTestService(t *testing.T, briefs briefStub) Service {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), briefs, staticAuthorizer{admin: true}, clock.NewFixed(1_000), logger.Nop())
	require.NoError(t, err)
	return svc
}

func seed(t *testing.T, svc Service, styles ...[]types.StylePreference) {
	t.Helper()
	for i, set := range styles {
		_, err := svc.AddDesigner(context.Background(), admin, DesignerInput{
			ID:     fmt.Sprintf("d%d", i+1),
			Name:   fmt.Sprintf("Designer %d", i+1),
			Styles: set,
		})
		require.NoError(t, err)
	}
}

func designerIDs(rows []models.Designer) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func TestAddDesignerValidation(t *testing.T) {
	svc := newTestService(t, briefStub{})
	ctx := context.Background()

	_, err := svc.AddDesigner(ctx, "visitor", DesignerInput{Name: "A", Styles: []types.StylePreference{types.StyleBoho}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = svc.AddDesigner(ctx, admin, DesignerInput{Name: "A"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	d, err := svc.AddDesigner(ctx, admin, DesignerInput{
		Name:      "Asha",
		Styles:    []types.StylePreference{types.StyleBoho},
		Portfolio: []types.PortfolioItem{{ImageURL: "https://img/1.jpg", Style: types.StyleBoho}},
	})
	require.NoError(t, err)
	require.Len(t, d.Portfolio, 1)
	assert.NotEmpty(t, d.Portfolio[0].ID)

	stored, err := svc.GetDesignerByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, d.Portfolio, stored.Portfolio)
}

func TestRecommendationsMatchAnyStyleInDirectoryOrder(t *testing.T) {
	svc := newTestService(t, briefStub{})
	seed(t, svc,
		[]types.StylePreference{types.StyleModern},
		[]types.StylePreference{types.StyleBoho, types.OtherStyle("Japandi")},
		[]types.StylePreference{types.StyleRustic},
		[]types.StylePreference{types.StyleModern, types.StyleRustic},
	)

	got, err := svc.GetRecommendedDesigners(context.Background(), types.RoomBedroom,
		[]types.StylePreference{types.StyleRustic, types.OtherStyle("Japandi")})
	require.NoError(t, err)
	assert.Equal(t, []string{"d2", "d3", "d4"}, designerIDs(got))
}

func TestRecommendationsFallBackToFirstThree(t *testing.T) {
	svc := newTestService(t, briefStub{})
	seed(t, svc,
		[]types.StylePreference{types.StyleModern},
		[]types.StylePreference{types.StyleModern},
		[]types.StylePreference{types.StyleModern},
		[]types.StylePreference{types.StyleModern},
	)

	got, err := svc.GetRecommendedDesigners(context.Background(), types.RoomOffice,
		[]types.StylePreference{types.OtherStyle("modern")})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3"}, designerIDs(got), "other(\"modern\") is not the modern tag")
}

func TestMatchFallbackWithShortDirectory(t *testing.T) {
	directory := []models.Designer{{ID: "only", Styles: []types.StylePreference{types.StyleBoho}}}
	assert.Equal(t, []string{"only"}, designerIDs(Match(directory, nil)))
	assert.Empty(t, Match(nil, []types.StylePreference{types.StyleBoho}))
}

func TestRecommendationsForBrief(t *testing.T) {
	briefs := briefStub{
		"brief-1": {ID: "brief-1", UserID: "owner", RoomType: types.RoomBedroom, StylePreferences: []types.StylePreference{types.StyleRustic}},
	}
	svc := newTestService(t, briefs)
	seed(t, svc,
		[]types.StylePreference{types.StyleModern},
		[]types.StylePreference{types.StyleRustic},
	)
	ctx := context.Background()

	got, err := svc.GetRecommendedDesignersForBrief(ctx, "owner", "brief-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, designerIDs(got))

	got, err = svc.GetRecommendedDesignersForBrief(ctx, "owner", "unknown")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = svc.GetRecommendedDesignersForBrief(ctx, "stranger", "brief-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.GetRecommendedDesignersForBrief(ctx, "", "brief-1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
