// Package multipart decodes and encodes multipart/form-data bodies.
//
// Decoding is a line-driven state machine (start, headers, body, done). The
// line break in front of every boundary belongs to the delimiter, so content is
// returned byte-for-byte as it was encoded:
//
//	parts, err := multipart.Decode("XYZ", body)
//	if err != nil {
//		return err
//	}
//	form := multipart.NewForm(parts)
//	title, err := form.Value("title")
//
// Writer and Encode produce bodies that Decode reads back unchanged. Content
// that contains the delimiter is rejected with ErrBoundaryInContent.
package multipart
