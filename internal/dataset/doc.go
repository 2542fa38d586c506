// Package dataset loads the lookup-encoded data.json document into
// domain observations.
//
// The document carries string tables under "lookup" and one positional
// array per observation under "data"; row cells index into the tables.
// Decoding fails with a PARSING error naming the offending row, and each
// decoded observation is checked against its validate tags.
package dataset
