package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, info core.DatasetInfo) (core.RawTable, error) {
	args := m.Called(ctx, info)
	raw, _ := args.Get(0).(core.RawTable)
	return raw, args.Error(1)
}

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, def core.DatasetDefinition, table *core.Table) (int64, error) {
	args := m.Called(ctx, def, table)
	return args.Get(0).(int64), args.Error(1)
}

func dailyLog(key string) core.DatasetDefinition {
	return core.DatasetDefinition{
		Info:           core.DatasetInfo{Key: key, TargetTable: key, SheetIndex: 6},
		Keywords:       []string{"timestamp", "feed", "mortality"},
		Mapping:        core.ColumnMapping{"timestamp": "record_date", "feed(gram)": "feed_eaten"},
		DateColumns:    []string{"record_date"},
		NumericColumns: []string{"feed_eaten", "mortality"},
		FieldSpecs: []core.FieldSpec{
			{Name: "record_date", Type: core.FieldDate},
			{Name: "feed_eaten", Type: core.FieldNumeric},
			{Name: "mortality", Type: core.FieldNumeric},
		},
	}
}

func dailyRaw() core.RawTable {
	return core.RawFromStrings([][]string{
		{"Farm Daily Log"},
		{"Timestamp", "Feed(gram)", "Mortality"},
		{"2024-01-05", "120", "2"},
		{"2024-01-06", "", ""},
	})
}

func isTable(rows int) any {
	return mock.MatchedBy(func(t *core.Table) bool { return t.NumRows() == rows })
}

// ----------------------------------------------------------------------------
// Pipeline.Run
// ----------------------------------------------------------------------------

func TestRun_Loads(t *testing.T) {
	def := dailyLog("daily_log")
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, def.Info).Return(dailyRaw(), nil)
	ld := new(mockLoader)
	ld.On("Load", mock.Anything, mock.Anything, isTable(2)).Return(int64(2), nil)

	ctx := core.ContextWithRunID(context.Background(), "run-1")
	report := New(ext, ld, Options{PreviewRows: 1}).Run(ctx, def)

	assert.Equal(t, core.StatusLoaded, report.Status)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "daily_log", report.Dataset)
	assert.Equal(t, 4, report.Extracted)
	assert.Equal(t, int64(2), report.Loaded)
	assert.Equal(t, 1, report.Transform.Header.HeaderIndex)
	assert.Len(t, report.Profile, 3)
	assert.Len(t, report.Preview, 1)
	assert.Empty(t, report.Error)
	ext.AssertExpectations(t)
	ld.AssertExpectations(t)
}

func TestRun_ExtractFailure(t *testing.T) {
	def := dailyLog("daily_log")
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, def.Info).
		Return(nil, fmt.Errorf("%w: farm.xlsx has 3 sheets", core.ErrSheetNotFound))
	ld := new(mockLoader)

	report := New(ext, ld, Options{}).Run(context.Background(), def)

	assert.True(t, report.Failed())
	assert.Equal(t, "EXT001", report.ErrorCode)
	assert.Contains(t, report.Error, "sheet not found")
	ld.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_EmptyInputSkipsLoad(t *testing.T) {
	def := dailyLog("daily_log")
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, def.Info).Return(core.RawTable{}, nil)
	ld := new(mockLoader)

	report := New(ext, ld, Options{}).Run(context.Background(), def)

	assert.Equal(t, core.StatusEmpty, report.Status)
	assert.False(t, report.Failed())
	ld.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SchemaMismatch(t *testing.T) {
	def := dailyLog("daily_log")
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, def.Info).Return(dailyRaw(), nil)
	ld := new(mockLoader)
	ld.On("Load", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), &core.SchemaError{Dataset: "daily_log", Missing: []string{"feed_eaten"}})

	report := New(ext, ld, Options{}).Run(context.Background(), def)

	assert.True(t, report.Failed())
	assert.Equal(t, "SCH001", report.ErrorCode)
	assert.Zero(t, report.Loaded)
}

func TestRun_DryRun(t *testing.T) {
	def := dailyLog("daily_log")
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, def.Info).Return(dailyRaw(), nil)
	ld := new(mockLoader)
	ld.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(int64(2), nil)

	report := New(ext, ld, Options{DryRun: true}).Run(context.Background(), def)

	assert.Equal(t, core.StatusDryRun, report.Status)
	assert.Equal(t, int64(2), report.Loaded)
}

func TestRun_AppliesTimeoutAndDataset(t *testing.T) {
	def := dailyLog("daily_log")
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, def.Info).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, ok := ctx.Deadline()
			assert.True(t, ok, "expected a deadline")
			assert.Equal(t, "daily_log", core.DatasetFromContext(ctx))
		}).
		Return(core.RawTable{}, nil)

	New(ext, new(mockLoader), Options{Timeout: time.Minute}).Run(context.Background(), def)

	ext.AssertExpectations(t)
}

// ----------------------------------------------------------------------------
// Pipeline.RunAll
// ----------------------------------------------------------------------------

func TestRunAll_ContinuesAfterFailure(t *testing.T) {
	broken, healthy := dailyLog("broken"), dailyLog("healthy")
	broken.Info.SheetIndex = 40

	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, broken.Info).Return(nil, core.ErrSheetNotFound)
	ext.On("Extract", mock.Anything, healthy.Info).Return(dailyRaw(), nil)
	ld := new(mockLoader)
	ld.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(int64(2), nil)

	summary := New(ext, ld, Options{}).RunAll(context.Background(), []core.DatasetDefinition{broken, healthy})

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, core.StatusFailed, summary.Reports[0].Status)
	assert.Equal(t, core.StatusLoaded, summary.Reports[1].Status)
	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, int64(2), summary.Loaded())
	assert.ErrorContains(t, summary.Err(), "broken")

	_, err := uuid.Parse(summary.RunID)
	assert.NoError(t, err)
	for _, r := range summary.Reports {
		assert.Equal(t, summary.RunID, r.RunID)
	}
}

func TestRunAll_CancelledContextSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := new(mockExtractor)
	summary := New(ext, new(mockLoader), Options{}).
		RunAll(ctx, []core.DatasetDefinition{dailyLog("a"), dailyLog("b")})

	require.Len(t, summary.Reports, 2)
	for _, r := range summary.Reports {
		assert.Equal(t, core.StatusSkipped, r.Status)
	}
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	assert.NoError(t, summary.Err())
}
