// Package jsondoc provides the JSON document type used for every external
// payload and internal schema fragment in edgenode.
//
// This package manages:
//   - A tagged-union document tree (object / array / scalar variants)
//   - Insertion-order preservation for object keys
//   - Recursive structural merging of two documents
//   - Ordered JSON encoding/decoding
//
// # Why not map[string]any
//
// Adoption descriptors and schema fragments are rendered back to JSON for
// controllers and UIs, where property order is meaningful (schema editors
// display properties in declaration order). Go maps do not preserve
// insertion order, so documents are kept as an explicit tree with an
// ordered key list per object.
//
// # Merging
//
// Merge combines a source document into a destination in place. Objects
// merge key-by-key recursively; anything else replaces the destination
// value. Inserted values are deep copies, so the source and destination
// never alias after a merge.
//
// # Usage
//
//	doc, err := jsondoc.Parse(payload)
//	if err != nil {
//	    return err
//	}
//	if v, ok := doc.Get("restart"); ok && v.Bool() {
//	    restart()
//	}
package jsondoc
