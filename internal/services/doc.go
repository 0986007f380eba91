// Package services provides the application service layer between the HTTP
// transport and the pipeline core. ReportService derives analytics reports
// from the persisted clean record set on demand; HealthService reports
// readiness of the data directories and input files.
package services
