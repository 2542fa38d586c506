// Package exporter writes report artifacts.
//
// JSONWriter encodes a value as JSON to a file or stream. File writes go
// to a temporary file in the target directory that is renamed into place,
// so readers never observe a partial report.
//
//	w := exporter.NewJSONWriter(logger)
//	err := w.WriteFile("out/report.json", rep, exporter.WriteOptions{Indent: true})
package exporter
