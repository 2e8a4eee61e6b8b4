package datasets

import "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"

func init() {
	registerDailyRecord()
}

func registerDailyRecord() {
	core.Register(core.DatasetDefinition{
		Info: core.DatasetInfo{
			Key:         "daily_record",
			Label:       "Daily Record",
			SheetIndex:  6,
			TargetTable: "daily_record",
			Order:       1,
		},
		Keywords: []string{
			"timestamp", "date", "pond", "feed", "mortality",
			"behaviour", "temperature", "note", "week",
		},
		Mapping: core.ColumnMapping{
			"timestamp":         "record_date",
			"date":              "record_date",
			"pond":              "pond_id",
			"pond_name":         "pond_id",
			"feed_eaten(gram)":  "feed_eaten",
			"feed_eaten_(gram)": "feed_eaten",
			"0":                 "feed_eaten",
			"feed_size(mm)":     "feed_size",
			"note":              "notes",
			"temperature":       "water_temp",
			"water_temperature": "water_temp",
			"week":              "week_no",
		},
		DateColumns:       []string{"record_date"},
		NumericColumns:    []string{"feed_eaten", "mortality", "week_no", "feed_allocated_(grams)"},
		TemperatureColumn: "water_temp",
		StringColumns:     []string{"pond_id", "fish_behaviour", "feed_size", "notes"},
		FieldSpecs: []core.FieldSpec{
			{Name: "record_date", Type: core.FieldDate},
			{Name: "pond_id", Type: core.FieldText},
			{Name: "feed_eaten", Type: core.FieldNumeric},
			{Name: "mortality", Type: core.FieldNumeric},
			{Name: "fish_behaviour", Type: core.FieldText},
			{Name: "feed_size", Type: core.FieldText},
			{Name: "notes", Type: core.FieldText},
			{Name: "water_temp", Type: core.FieldNumeric},
		},
	})
}
