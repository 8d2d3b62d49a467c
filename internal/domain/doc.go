// Package domain models earthquake event data from the USGS Comprehensive
// Earthquake Catalog (ComCat) and the per-year aggregates derived from it.
//
// # Data Source
//
// Events come from the FDSN event web service at
// https://earthquake.usgs.gov/fdsnws/event/1/. The query endpoint returns a
// GeoJSON FeatureCollection; each feature carries a "properties" object with
// the fields used here and a Point geometry of [longitude, latitude, depth].
//
// # ComCat Conventions
//
// Time:
//
//	"time" is an integer count of milliseconds since 1970-01-01T00:00:00Z.
//	See https://earthquake.usgs.gov/data/comcat/index.php#time.
//	Years are taken in UTC so the same feed always buckets the same way.
//
// Magnitude:
//
//	"mag" is a decimal on the scale named by "magType" (ml, mb, mw, md, ...).
//	It is null for events the network has not yet assigned a magnitude to.
//	A null magnitude still counts as an event, but is left out of averages.
//
// # Aggregation
//
// The aggregation functions are pure: they take a slice of Quake and return
// fresh year-keyed maps, so running them twice on the same input yields the
// same result. Rendering and transport live in other packages and only
// consume the maps built here.
package domain
