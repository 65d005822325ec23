package department

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
)

type fakeGeoRepo struct {
	counties    []*model.County
	subCounties map[uuid.UUID][]*model.SubCounty
	listCalls   int
}

func (r *fakeGeoRepo) ListCounties(ctx context.Context) ([]*model.County, error) {
	r.listCalls++
	return r.counties, nil
}

func (r *fakeGeoRepo) ListSubCounties(ctx context.Context, countyID uuid.UUID) ([]*model.SubCounty, error) {
	r.listCalls++
	return r.subCounties[countyID], nil
}

func (r *fakeGeoRepo) CreateCounty(ctx context.Context, county *model.County) error { return nil }

func (r *fakeGeoRepo) CreateSubCounty(ctx context.Context, subCounty *model.SubCounty) error {
	return nil
}

func TestGeoLookupsServeFromCache(t *testing.T) {
	nairobi := &model.County{Name: "Nairobi"}
	nairobi.ID = uuid.New()
	geo := &fakeGeoRepo{
		counties: []*model.County{nairobi},
		subCounties: map[uuid.UUID][]*model.SubCounty{
			nairobi.ID: {{Name: "Westlands"}},
		},
	}
	svc := NewService(nil, geo)

	for i := 0; i < 3; i++ {
		counties, err := svc.ListCounties(context.Background())
		require.NoError(t, err)
		require.Len(t, counties, 1)
		assert.Equal(t, "Nairobi", counties[0].Name)
	}
	assert.Equal(t, 1, geo.listCalls, "reference data is fetched once per TTL")

	for i := 0; i < 2; i++ {
		subCounties, err := svc.ListSubCounties(context.Background(), nairobi.ID)
		require.NoError(t, err)
		require.Len(t, subCounties, 1)
	}
	assert.Equal(t, 2, geo.listCalls)
}
