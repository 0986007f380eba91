package operations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamezone/internal/analytics"
	"gamezone/internal/cleaning"
	"gamezone/internal/config"
	"gamezone/internal/exporter"
	"gamezone/internal/ingest"
	"gamezone/pkg/contracts/domain"
)

func pipelinePaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		RawDir:        filepath.Join(base, "data", "raw"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func writeRawOrders(t *testing.T, paths *config.Paths) {
	t.Helper()
	content := "order_id,user_id,product_name,purchase_ts,ship_ts,price,platform,marketing_channel,account_creation_method,country_code\n" +
		"o1,a,Xbox   Series X,2024-01-01 10:00:00,2024-01-03 08:00:00,10.00,website,email,google,US\n" +
		"o2,a,controller,2024-06-01 09:00:00,2024-05-30 00:00:00,5.00,website,unknown,google,US\n" +
		"o3,b,headset,2024-04-02 12:00:00,,100.00,mobile app,,apple,DE\n" +
		"o4,c,cable,not a date,,NaN,,,,\n"
	require.NoError(t, os.WriteFile(paths.RawOrdersPath(), []byte(content), 0o644))
}

func newPipelineSteps(t *testing.T, paths *config.Paths) []Step {
	t.Helper()
	pipelineCfg := config.PipelineConfig{
		ChurnThresholdDays: 90,
		TopProducts:        5,
		TopCustomers:       10,
	}

	csvReader := ingest.NewCSVReader(nil)
	excelReader := ingest.NewExcelReader(nil)
	cleanPipeline := cleaning.NewPipeline(cleaning.DefaultConfig(), nil)
	aggregator := analytics.NewAggregator(nil)
	classifier := analytics.NewClassifier(pipelineCfg.ChurnThresholdDays)
	reports := exporter.NewReportExporter(exporter.NewCSVWriter(paths), nil)

	return []Step{
		NewLoadStep(csvReader, excelReader, nil, paths, nil),
		NewCleanStep(cleanPipeline, nil),
		NewAggregateStep(aggregator, classifier, pipelineCfg, nil),
		NewExportStep(reports, paths, nil),
	}
}

func TestPipelineRun_EndToEnd(t *testing.T) {
	paths := pipelinePaths(t)
	writeRawOrders(t, paths)

	m := NewManager(newPipelineSteps(t, paths), nil, nil)
	state, err := m.Execute(context.Background(), RunRequest{Source: SourceCSV})
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, state.GetStatus())

	// The clean set carries every input record.
	val, ok := state.GetContext(ContextKeyCleanSet)
	require.True(t, ok)
	clean := val.(domain.RecordSet)
	assert.Equal(t, domain.MaturityClean, clean.Maturity)
	assert.Len(t, clean.Records, 4)

	// The whitespace-collapsed product name survived cleaning.
	require.NotNil(t, clean.Records[0].ProductName)
	assert.Equal(t, "xbox series x", *clean.Records[0].ProductName)

	// o2 shipped before purchase.
	assert.True(t, clean.Records[1].ShipBeforePurchase)

	// o4's malformed instant and price coerced to missing.
	assert.Nil(t, clean.Records[3].PurchaseAt)
	assert.Nil(t, clean.Records[3].PriceUSD)

	// RFM covers every customer, including the one with no parseable purchase.
	val, ok = state.GetContext(ContextKeyRFM)
	require.True(t, ok)
	rfm := val.([]domain.RFMRow)
	require.Len(t, rfm, 3)
	assert.Equal(t, "a", rfm[0].UserID)
	assert.Equal(t, 2, rfm[0].Frequency)
	assert.Equal(t, 0, rfm[0].RecencyDays)
	assert.False(t, rfm[0].Churned)
	// b last purchased 59 full days before the snapshot instant.
	assert.Equal(t, 59, rfm[1].RecencyDays)
	assert.False(t, rfm[1].Churned)
	// c has no parseable purchase.
	assert.Equal(t, -1, rfm[2].RecencyDays)

	// Reports landed on disk.
	assert.FileExists(t, paths.CleanOrdersPath())
	assert.FileExists(t, paths.ReportPath(exporter.RFMReportCSV))
	assert.FileExists(t, paths.ReportPath(exporter.DailySalesReportCSV))
	assert.FileExists(t, paths.ReportPath(exporter.ProductReportCSV))
	assert.FileExists(t, paths.ReportPath(exporter.TrendsReportCSV))
	assert.FileExists(t, paths.ReportPath(exporter.LTVReportCSV))
	assert.FileExists(t, paths.ReportPath(exporter.RecencyHistogramCSV))

	// Step metadata recorded the coercion failures.
	cleanStep := state.GetStep(StepIDClean).Snapshot()
	assert.Equal(t, 1, cleanStep.Metadata["purchase_failures"])
	assert.Equal(t, 1, cleanStep.Metadata["price_failures"])
}

func TestPipelineRun_MissingRawInput(t *testing.T) {
	paths := pipelinePaths(t)

	m := NewManager(newPipelineSteps(t, paths), nil, nil)
	state, err := m.Execute(context.Background(), RunRequest{Source: SourceCSV})
	require.Error(t, err)
	assert.Equal(t, RunStatusFailed, state.GetStatus())
	assert.Equal(t, StepStatusFailed, state.GetStep(StepIDLoad).Status)
	assert.Equal(t, StepStatusSkipped, state.GetStep(StepIDClean).Status)
}

func TestLoadStep_Validate(t *testing.T) {
	paths := pipelinePaths(t)
	step := NewLoadStep(ingest.NewCSVReader(nil), ingest.NewExcelReader(nil), nil, paths, nil)

	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{name: "default source", source: "", wantErr: false},
		{name: "csv", source: SourceCSV, wantErr: false},
		{name: "excel", source: SourceExcel, wantErr: false},
		{name: "warehouse without config", source: SourceWarehouse, wantErr: true},
		{name: "unknown", source: "ftp", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewRunState("id", RunRequest{Source: tt.source})
			err := step.Validate(state)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
