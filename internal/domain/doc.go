// Package domain models location reports and their plus-code enrichment.
//
// # Data Source
//
// Upstream collectors publish one flat JSON record per observed location to
// the Kafka source topic. A record identifies a place in one of three ways:
//
//	{"lat": "37.4220", "lon": "-122.0841"}                  coordinates
//	{"code": "849VCWC8+R9"}                                 full plus code
//	{"code": "CWC8+R9", "locality": "Mountain View",
//	 "region": "CA"}                                        short code + locality
//
// Coordinates are strings so that "0" and a missing value differ. When a
// record carries coordinates, any code it also carries is kept as InputCode
// but not used.
//
// # Enrichment
//
// [EnrichLocationEvent] produces the full code, its cell bounds and the cell
// centre. The code length comes from the record's code_length or the service
// default, and follows the codec's rules (2, 4, 6, 8, or 10 to 15).
//
// [EnrichWithGeocoding] then relates the event to a named locality:
//
//	reverse  coordinates -> nearest locality -> short code "CWC8+R9 Mountain View"
//	forward  short code + locality -> locality centre -> recovered full code
//
// A reverse match too far from the code to shorten safely leaves ShortCode
// empty. Geocoding failures never drop an event; they set GeoSource to
// "failed".
//
// # ID Generation
//
// Records without an "id" get a deterministic SHA-256 hash of
// lat|lon|code|locality|region, so replays produce the same key downstream.
package domain
