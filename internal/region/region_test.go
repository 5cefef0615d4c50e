package region

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func fptr(v float64) *float64 { return &v }

// square returns a unit square polygon offset by (dx, dy).
func square(dx, dy float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		dx, dy, dx + 1, dy, dx + 1, dy + 1, dx, dy + 1, dx, dy,
	}, []int{10}).SetSRID(SRIDGeographic)
}

func testCollection() *Collection {
	return &Collection{
		SRID: SRIDGeographic,
		Records: []Record{
			{District: "Kathmandu", Geometry: square(85, 27), Population: fptr(2000), SchoolCount: fptr(10), SchoolsPerKPop: fptr(5)},
			{District: "Lalitpur", Geometry: square(85, 28), Population: fptr(1000), SchoolCount: fptr(3), SchoolsPerKPop: fptr(3)},
			{District: "Mustang", Geometry: square(84, 29), Population: fptr(500)},
		},
	}
}

func TestRecordValue(t *testing.T) {
	rec := Record{District: "Kaski", Population: fptr(100)}

	v, ok := rec.Value(VarPopulation)
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)

	_, ok = rec.Value(VarSchoolCount)
	assert.False(t, ok)

	_, ok = rec.Value("no_such_column")
	assert.False(t, ok)
}

func TestDropMissing(t *testing.T) {
	coll := testCollection()

	dropped := coll.DropMissing(VarSchoolsPerK)
	assert.Equal(t, 2, dropped.Len())
	assert.Equal(t, "Kathmandu", dropped.Records[0].District)
	assert.Equal(t, "Lalitpur", dropped.Records[1].District)

	// Input untouched.
	assert.Equal(t, 3, coll.Len())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		coll    *Collection
		wantErr string
	}{
		{
			name: "valid",
			coll: testCollection(),
		},
		{
			name: "duplicate district",
			coll: &Collection{Records: []Record{
				{District: "Kaski", Geometry: square(0, 0)},
				{District: "Kaski", Geometry: square(1, 0)},
			}},
			wantErr: "duplicate district",
		},
		{
			name: "nil geometry",
			coll: &Collection{Records: []Record{
				{District: "Kaski"},
			}},
			wantErr: "no geometry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coll.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReprojectRoundTrip(t *testing.T) {
	coll := testCollection()

	proj, err := coll.Reproject(SRIDWebMercator)
	require.NoError(t, err)
	assert.Equal(t, SRIDWebMercator, proj.SRID)
	assert.Equal(t, coll.Len(), proj.Len())

	back, err := proj.Reproject(SRIDGeographic)
	require.NoError(t, err)
	require.Equal(t, coll.Len(), back.Len())

	for i, rec := range back.Records {
		assert.Equal(t, coll.Records[i].District, rec.District)
		want := coll.Records[i].Geometry.FlatCoords()
		got := rec.Geometry.FlatCoords()
		require.Equal(t, len(want), len(got))
		for j := range want {
			assert.InDelta(t, want[j], got[j], 1e-7)
		}
	}
}

func TestReprojectKnownPoint(t *testing.T) {
	// Null island maps to the mercator origin.
	x, y := lonLatToMercator(0, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	// 180 degrees longitude maps to half the mercator circumference.
	x, _ = lonLatToMercator(180, 0)
	assert.InDelta(t, 20037508.34, x, 1.0)
}

func TestRepresentativePointInsideConcave(t *testing.T) {
	// U-shaped polygon whose centroid falls in the notch.
	u := geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 10, 0, 10, 10, 8, 10, 8, 2, 2, 2, 2, 10, 0, 10, 0, 0,
	}, []int{18})

	c, err := RepresentativePoint(u)
	require.NoError(t, err)

	// The notch spans x in (2, 8) above y=2; the point must avoid it.
	inNotch := c[0] > 2 && c[0] < 8 && c[1] > 2
	assert.False(t, inNotch, "representative point (%v) fell outside the shape", c)
}

func TestRepresentativePointMultiPolygon(t *testing.T) {
	small := square(0, 0)
	big := geom.NewPolygonFlat(geom.XY, []float64{
		10, 10, 14, 10, 14, 14, 10, 14, 10, 10,
	}, []int{10})

	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(small))
	require.NoError(t, mp.Push(big))

	c, err := RepresentativePoint(mp)
	require.NoError(t, err)

	// Anchors on the largest part.
	assert.GreaterOrEqual(t, c[0], 10.0)
	assert.GreaterOrEqual(t, c[1], 10.0)
}

func TestJoinStatsCSV(t *testing.T) {
	boundaries := &Collection{
		SRID: SRIDGeographic,
		Records: []Record{
			{District: "Kathmandu", Geometry: square(85, 27)},
			{District: "Lalitpur", Geometry: square(85, 28)},
		},
	}

	csvData := strings.Join([]string{
		"district,population,schoolcnt",
		"Kathmandu,2000,10",
		"Lalitpur,1000,",
		"Atlantis,99,1",
	}, "\n")

	joined, err := joinStats(boundaries, strings.NewReader(csvData), "test.csv")
	require.NoError(t, err)
	require.Equal(t, 2, joined.Len())

	ktm := joined.Records[0]
	require.NotNil(t, ktm.Population)
	require.NotNil(t, ktm.SchoolsPerKPop)
	assert.Equal(t, 2000.0, *ktm.Population)
	assert.InDelta(t, 5.0, *ktm.SchoolsPerKPop, 1e-12)

	// Missing school count leaves the rate missing too.
	lal := joined.Records[1]
	require.NotNil(t, lal.Population)
	assert.Nil(t, lal.SchoolCount)
	assert.Nil(t, lal.SchoolsPerKPop)

	// Input untouched.
	assert.Nil(t, boundaries.Records[0].Population)
}

func TestJoinStatsCSVNoDistrictColumn(t *testing.T) {
	boundaries := &Collection{Records: []Record{{District: "Kaski", Geometry: square(0, 0)}}}
	_, err := joinStats(boundaries, strings.NewReader("name,population\nKaski,1"), "test.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no district column")
}
