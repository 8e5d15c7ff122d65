// Package csvio is relq's CSV codec and source layer.
//
// A table reference is a location: a local path (resolved against a base
// directory when relative) or an s3://bucket/key URL. Opening a location
// yields a Table whose Reader produces raw records, header first, after
// decoding the configured character encoding to UTF-8. Writer renders
// typed rows back to CSV.
package csvio
