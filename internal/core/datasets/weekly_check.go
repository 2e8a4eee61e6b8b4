package datasets

import "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"

func init() {
	registerWeeklyCheck()
}

func registerWeeklyCheck() {
	core.Register(core.DatasetDefinition{
		Info: core.DatasetInfo{
			Key:         "weekly_check",
			Label:       "Weekly Check",
			SheetIndex:  12,
			TargetTable: "weekly_check",
			Order:       5,
		},
		Keywords: []string{
			"date", "pond", "week", "weight", "sgr",
			"fcr", "biomas", "note",
		},
		Mapping: core.ColumnMapping{
			"timestamp":  "record_date",
			"date":       "record_date",
			"pond":       "pond_id",
			"week":       "week_no",
			"avg_weight": "average_weight",
			"biomass":    "biomas",
			"note":       "notes",
		},
		DateColumns:    []string{"record_date"},
		NumericColumns: []string{"average_weight", "sgr", "fcr", "biomas", "week_no"},
		StringColumns:  []string{"pond_id", "notes"},
		FieldSpecs: []core.FieldSpec{
			{Name: "record_date", Type: core.FieldDate},
			{Name: "pond_id", Type: core.FieldText},
			{Name: "average_weight", Type: core.FieldNumeric},
			{Name: "sgr", Type: core.FieldNumeric},
			{Name: "fcr", Type: core.FieldNumeric},
			{Name: "biomas", Type: core.FieldNumeric},
			{Name: "week_no", Type: core.FieldNumeric},
			{Name: "notes", Type: core.FieldText},
		},
	})
}
