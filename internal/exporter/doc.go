// Package exporter provides CSV export functionality for the Gamezone order
// pipeline.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Renders the clean record set and every analytics report
// (RFM, daily sales, product revenue, monthly trends, customer LTV, recency
// histogram) into their CSV file layouts.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	reports := exporter.NewReportExporter(writer, logger)
//
//	err := reports.ExportCleanSet(ctx, cleanSet)
//	err = reports.ExportRFM(ctx, rfmRows)
package exporter
