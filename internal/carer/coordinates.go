package carer

import (
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// coordinatePairs lists the latitude/longitude field names seen across profile versions, in priority order.
var coordinatePairs = [][2]string{
	{"latitude", "longitude"},
	{"lat", "lng"},
	{"lat", "long"},
	{"latitude", "long"},
	{"_lat", "_long"},
	{"_latitude", "_longitude"},
	{"y", "x"},
}

// nestedLocationFields hold sub-objects that may themselves carry a point.
var nestedLocationFields = []string{"location", "position", "geo", "geopoint"}

// locationCandidates are the top-level document fields searched, in priority order.
var locationCandidates = [][]string{
	{"location"},
	{"coordinates"},
	{"position"},
	{"geo"},
	{"geopoint"},
	{"profile", "location"},
	{"profile", "coordinates"},
	{"profile", "position"},
	{"profile", "geo"},
	{"profile", "geopoint"},
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ResolveLocation returns the first point found across the known location fields of doc.
func ResolveLocation(doc map[string]any) *Location {
	for _, path := range locationCandidates {
		v, ok := lookup(doc, path)
		if !ok {
			continue
		}
		if loc := ExtractCoordinates(v); loc != nil {
			return loc
		}
	}
	return nil
}

// ExtractCoordinates searches v for a latitude/longitude pair. It accepts two-element
// [lng, lat] lists, strings holding two or three numbers, Firestore GeoPoints and objects
// using any of the known field conventions, nested to any depth. Reference cycles are
// detected, so the search always terminates. It returns nil when no finite pair exists.
func ExtractCoordinates(v any) *Location {
	e := extractor{visited: make(map[visitKey]struct{})}
	return e.extract(v)
}

// visitKey identifies a map or list. Slices sharing a backing array differ by length.
type visitKey struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

type extractor struct {
	visited map[visitKey]struct{}
}

// enter marks a map or list as visited and reports whether it was seen before.
func (e *extractor) enter(v any) bool {
	rv := reflect.ValueOf(v)
	key := visitKey{kind: rv.Kind(), ptr: rv.Pointer(), len: rv.Len()}
	if _, seen := e.visited[key]; seen {
		return false
	}
	e.visited[key] = struct{}{}
	return true
}

func (e *extractor) extract(v any) *Location {
	switch t := v.(type) {
	case nil:
		return nil
	case *latlng.LatLng:
		if t == nil {
			return nil
		}
		return finite(t.GetLatitude(), t.GetLongitude())
	case Location:
		return finite(t.Lat, t.Lng)
	case *Location:
		if t == nil {
			return nil
		}
		return finite(t.Lat, t.Lng)
	case string:
		return fromString(t)
	case map[string]any:
		return e.fromMap(t)
	default:
		if list, ok := asList(v); ok {
			return e.fromList(v, list)
		}
		return nil
	}
}

func (e *extractor) fromList(orig any, list []any) *Location {
	if len(list) == 0 || !e.enter(orig) {
		return nil
	}
	if len(list) == 2 {
		first, ok1 := toFloat(list[0])
		second, ok2 := toFloat(list[1])
		if ok1 && ok2 {
			return &Location{Lat: second, Lng: first}
		}
	}
	for _, item := range list {
		if loc := e.extract(item); loc != nil {
			return loc
		}
	}
	return nil
}

func (e *extractor) fromMap(m map[string]any) *Location {
	if len(m) == 0 || !e.enter(m) {
		return nil
	}

	tried := make(map[string]bool)
	for _, pair := range coordinatePairs {
		latRaw, hasLat := m[pair[0]]
		lngRaw, hasLng := m[pair[1]]
		if !hasLat || !hasLng {
			continue
		}
		tried[pair[0]], tried[pair[1]] = true, true
		lat, ok1 := toFloat(latRaw)
		lng, ok2 := toFloat(lngRaw)
		if ok1 && ok2 {
			return &Location{Lat: lat, Lng: lng}
		}
	}

	for _, field := range append([]string{"latLng", "coordinates"}, nestedLocationFields...) {
		sub, ok := m[field]
		if !ok {
			continue
		}
		tried[field] = true
		if loc := e.extract(sub); loc != nil {
			return loc
		}
	}

	// Exhaustive pass over every remaining property, in key order.
	keys := make([]string, 0, len(m))
	for k := range m {
		if !tried[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if loc := e.extract(m[k]); loc != nil {
			return loc
		}
	}
	return nil
}

// fromString parses "lat, lng" style text. With three numbers the leading one may be an index
// or altitude, so the shifted pair is tried when the first reading is implausible.
func fromString(s string) *Location {
	matches := numberPattern.FindAllString(s, -1)
	if len(matches) < 2 || len(matches) > 3 {
		return nil
	}
	nums := make([]float64, len(matches))
	for i, raw := range matches {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		nums[i] = f
	}
	if len(nums) == 3 {
		return preferPlausible(nums[0], nums[1], nums[1], nums[2])
	}
	return finite(nums[0], nums[1])
}

// preferPlausible returns the primary reading when it lies on the globe, else the alternative
// when that does, else the primary as long as it is finite.
func preferPlausible(lat, lng, altLat, altLng float64) *Location {
	switch {
	case plausible(lat, lng):
		return &Location{Lat: lat, Lng: lng}
	case plausible(altLat, altLng):
		return &Location{Lat: altLat, Lng: altLng}
	default:
		return finite(lat, lng)
	}
}

func plausible(lat, lng float64) bool {
	return math.Abs(lat) <= 90 && math.Abs(lng) <= 180
}

func finite(lat, lng float64) *Location {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil
	}
	return &Location{Lat: lat, Lng: lng}
}

func lookup(doc map[string]any, path []string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}
