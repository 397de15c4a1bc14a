package boundary

import (
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// writeTestShapefile writes shapes and their DBF attribute rows to a
// fresh .shp (plus .shx/.dbf) fixture and returns its path.
func writeTestShapefile(t *testing.T, shapeType shp.ShapeType, shapes []shp.Shape, fields []shp.Field, attrs [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.shp")
	w, err := shp.Create(path, shapeType)
	require.NoError(t, err)
	w.SetFields(fields)
	for i, s := range shapes {
		w.Write(s)
		for j, val := range attrs[i] {
			w.WriteAttribute(i, j, val)
		}
	}
	w.Close()
	return path
}

func TestConvertShapefile_Points(t *testing.T) {
	path := writeTestShapefile(t, shp.POINT,
		[]shp.Shape{
			&shp.Point{X: -80.19, Y: 25.77},
			&shp.Point{X: -118.24, Y: 34.05},
		},
		[]shp.Field{shp.StringField("GEOID", 10), shp.StringField("NAME", 25)},
		[][]string{
			{"12086", "Miami-Dade"},
			{"06037", "Los Angeles"},
		},
	)

	fc, err := ConvertShapefile(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	pt, ok := fc.Features[0].Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{-80.19, 25.77}, pt.FlatCoords())

	assert.Equal(t, "12086", fc.Features[0].Properties["GEOID"])
	assert.Equal(t, "Miami-Dade", fc.Features[0].Properties["NAME"])
	assert.Equal(t, "06037", fc.Features[1].Properties["GEOID"])
	assert.Equal(t, "Los Angeles", fc.Features[1].Properties["NAME"])
}

func TestConvertShapefile_MultiPartPolygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			// Ring 1
			{X: -80.0, Y: 25.0},
			{X: -80.0, Y: 26.0},
			{X: -79.0, Y: 26.0},
			{X: -79.0, Y: 25.0},
			{X: -80.0, Y: 25.0},
			// Ring 2
			{X: -81.0, Y: 26.0},
			{X: -81.0, Y: 27.0},
			{X: -80.0, Y: 27.0},
			{X: -80.0, Y: 26.0},
			{X: -81.0, Y: 26.0},
		},
	}
	path := writeTestShapefile(t, shp.POLYGON,
		[]shp.Shape{poly},
		[]shp.Field{shp.StringField("GEOID", 10)},
		[][]string{{"12086"}},
	)

	fc, err := ConvertShapefile(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	mp, ok := fc.Features[0].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	require.Equal(t, 2, mp.NumPolygons())

	assert.Equal(t,
		[]float64{-80, 25, -80, 26, -79, 26, -79, 25, -80, 25},
		mp.Polygon(0).LinearRing(0).FlatCoords())
	assert.Equal(t,
		[]float64{-81, 26, -81, 27, -80, 27, -80, 26, -81, 26},
		mp.Polygon(1).LinearRing(0).FlatCoords())
}

func TestConvertShapefile_PolyLine(t *testing.T) {
	pl := &shp.PolyLine{
		NumParts:  2,
		NumPoints: 5,
		Parts:     []int32{0, 2},
		Points: []shp.Point{
			{X: -80.0, Y: 25.0},
			{X: -80.1, Y: 25.1},
			{X: -80.2, Y: 25.2},
			{X: -80.3, Y: 25.3},
			{X: -80.4, Y: 25.4},
		},
	}
	path := writeTestShapefile(t, shp.POLYLINE,
		[]shp.Shape{pl},
		[]shp.Field{shp.StringField("NAME", 25)},
		[][]string{{"I-95"}},
	)

	fc, err := ConvertShapefile(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	mls, ok := fc.Features[0].Geometry.(*geom.MultiLineString)
	require.True(t, ok)
	require.Equal(t, 2, mls.NumLineStrings())

	assert.Equal(t, []float64{-80, 25, -80.1, 25.1}, mls.LineString(0).FlatCoords())
	assert.Equal(t, []float64{-80.2, 25.2, -80.3, 25.3, -80.4, 25.4}, mls.LineString(1).FlatCoords())
}

func TestConvertShapefile_OpenError(t *testing.T) {
	_, err := ConvertShapefile(filepath.Join(t.TempDir(), "missing.shp"))
	require.Error(t, err)
}

func TestShapeGeometry_Unsupported(t *testing.T) {
	assert.Nil(t, shapeGeometry(nil))
	assert.Nil(t, shapeGeometry(&shp.Null{}))
	assert.Nil(t, shapeGeometry(&shp.Polygon{}))
	assert.Nil(t, shapeGeometry(&shp.PolyLine{}))
}

func TestPartCoords(t *testing.T) {
	parts := []int32{0, 2}
	points := []shp.Point{
		{X: 1, Y: 1},
		{X: 2, Y: 2},
		{X: 3, Y: 3},
		{X: 4, Y: 4},
		{X: 5, Y: 5},
	}

	// Middle parts end at the next offset; the last part runs to the
	// end of the point array.
	assert.Equal(t, []float64{1, 1, 2, 2}, partCoords(parts, points, 0))
	assert.Equal(t, []float64{3, 3, 4, 4, 5, 5}, partCoords(parts, points, 1))
}
