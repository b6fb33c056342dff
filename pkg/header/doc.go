// Package header provides the case-insensitive header store shared by the wire
// codec and the multipart decoder.
//
// Names are lower-cased on the way in, so a Header never holds two entries that
// differ only in case. ParseValue splits parameterised values:
//
//	v, params := header.ParseValue("multipart/form-data; boundary=XYZ")
//	// v == "multipart/form-data", params.Get("Boundary") == "XYZ"
//
// CanonicalKey restores the conventional spelling when headers are written back
// to the wire.
package header
