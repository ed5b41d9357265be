// Package domain models USGS earthquake events and the map styling derived
// from them.
//
// # Data Source
//
// Events come from the USGS real-time GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// The feed is a FeatureCollection; each Feature is one event. The feed
// adapter parses it into [Quake] values, this package never sees raw JSON.
//
// # USGS Feed Conventions
//
// Coordinates:
//
//	geometry.coordinates = [longitude, latitude, depth]
//	Longitude first, as in all GeoJSON. Depth is in kilometres, positive
//	down. Shallow events near the surface may report small negative
//	depths (above the reference ellipsoid).
//
// Magnitude:
//
//	properties.mag is a decimal on whatever scale the contributing network
//	used (ml, md, mb, mww, ...). It may be null for very recent events,
//	which parses as 0.
//
// Time:
//
//	properties.time is milliseconds since the Unix epoch, UTC.
//
// # Styling
//
// Marker radius is linear in magnitude ([MarkerScale] pixels per unit).
// Fill colour comes from the depth bucket table ([DepthBuckets]), which is
// also the single source of the legend ([Legend]), so the map key cannot
// drift from the markers it describes.
package domain
