// Package http contains the HTTP transport layer: chi handlers for
// spreadsheet upload, annotated workbook download, range table inspection
// and reload, and health checks. Handlers translate pipeline errors into
// structured responses and never let them crash the serving process.
package http
