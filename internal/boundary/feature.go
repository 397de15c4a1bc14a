// Package boundary loads geographic boundary files (GeoJSON and
// shapefiles) into feature collections and attaches join keys so
// features can be matched against classified table rows.
package boundary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ErrMissingProperty indicates a feature lacks the named join-key
// property. A bad join key aborts the run; features never receive a
// sentinel null id.
var ErrMissingProperty = eris.New("boundary: feature is missing join property")

// ParseGeoJSON decodes a GeoJSON feature collection.
func ParseGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "boundary: parse geojson")
	}
	return &fc, nil
}

// AttachIDs returns a feature collection in which every feature's id
// is the value of properties[propertyKey]. The input collection is
// left untouched: returned features are fresh structs sharing geometry
// with the originals. A feature without the property (or with a null
// value) fails the whole call.
func AttachIDs(fc *geojson.FeatureCollection, propertyKey string) (*geojson.FeatureCollection, error) {
	out := &geojson.FeatureCollection{Features: make([]*geojson.Feature, len(fc.Features))}
	for i, feat := range fc.Features {
		v, ok := feat.Properties[propertyKey]
		if !ok || v == nil {
			return nil, eris.Wrapf(ErrMissingProperty, "feature %d, key %q", i, propertyKey)
		}
		clone := *feat
		clone.ID = formatID(v)
		out.Features[i] = &clone
	}
	return out, nil
}

// formatID renders a property value as a join id. Floats are formatted
// without exponent notation so numeric FIPS-style codes survive.
func formatID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// PropertyKeys returns the sorted union of property keys across the
// first n features (all features when n <= 0). Used to discover which
// property carries the join key.
func PropertyKeys(fc *geojson.FeatureCollection, n int) []string {
	if n <= 0 || n > len(fc.Features) {
		n = len(fc.Features)
	}
	seen := map[string]struct{}{}
	for _, feat := range fc.Features[:n] {
		for k := range feat.Properties {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
