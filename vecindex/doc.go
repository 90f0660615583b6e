// Package vecindex provides the exact nearest-neighbor index backing chunk
// retrieval.
//
// The index is flat: every search compares the query against every stored
// row, so rankings are reproducible for identical inputs. Rows are
// positionally aligned with the corpus chunks, which makes the row number the
// chunk id.
//
// Persistence lives in storage/snapshot; use Vectors and FromVectors to move
// rows in and out of a core.Snapshot.
package vecindex
