package datasets

import "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"

func init() {
	registerWaterManagement()
}

func registerWaterManagement() {
	core.Register(core.DatasetDefinition{
		Info: core.DatasetInfo{
			Key:         "water_management",
			Label:       "Water Management",
			SheetIndex:  7,
			TargetTable: "water_management",
			Order:       4,
		},
		Keywords: []string{
			"date", "pond", "ph", "oxygen", "temperature",
			"ammonia", "nitrite", "nitrate", "turbidity", "conductivity",
			"depth", "alkalinity", "hardness",
		},
		Mapping: core.ColumnMapping{
			"timestamp":               "record_date",
			"date":                    "record_date",
			"pond":                    "pond_id",
			"do":                      "dissolved_oxygen",
			"dissolved_oxygen_(mg_l)": "dissolved_oxygen",
			"temperature":             "water_temperature",
			"water_temp":              "water_temperature",
			"depth":                   "water_depth",
			"note":                    "notes",
		},
		DateColumns: []string{"record_date"},
		NumericColumns: []string{
			"ph", "dissolved_oxygen", "ammonia", "nitrate", "nitrite",
			"alkalinity", "total_hardness", "carbonate", "turbidity",
			"conductivity", "water_depth",
		},
		TemperatureColumn: "water_temperature",
		StringColumns:     []string{"pond_id", "water_change", "notes"},
		FieldSpecs: []core.FieldSpec{
			{Name: "record_date", Type: core.FieldDate},
			{Name: "pond_id", Type: core.FieldText},
			{Name: "ph", Type: core.FieldNumeric},
			{Name: "dissolved_oxygen", Type: core.FieldNumeric},
			{Name: "water_temperature", Type: core.FieldNumeric},
			{Name: "ammonia", Type: core.FieldNumeric},
			{Name: "nitrite", Type: core.FieldNumeric},
			{Name: "nitrate", Type: core.FieldNumeric},
			{Name: "turbidity", Type: core.FieldNumeric},
			{Name: "conductivity", Type: core.FieldNumeric},
			{Name: "water_depth", Type: core.FieldNumeric},
			{Name: "notes", Type: core.FieldText},
		},
	})
}
