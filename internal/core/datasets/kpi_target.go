package datasets

import "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"

func init() {
	registerKPITarget()
}

func registerKPITarget() {
	core.Register(core.DatasetDefinition{
		Info: core.DatasetInfo{
			Key:         "kpi_target",
			Label:       "KPI Target",
			SheetIndex:  14,
			TargetTable: "kpi_target",
			Order:       6,
		},
		Keywords: []string{
			"date", "target", "biomass", "weight", "gain",
			"fcr", "mortality", "category", "note",
		},
		Mapping: core.ColumnMapping{
			"date":             "record_date",
			"timestamp":        "record_date",
			"target_fcr":       "fcr_target",
			"fcr":              "fcr_target",
			"target_mortality": "mortality_target",
			"mortality":        "mortality_target",
			"note":             "notes",
		},
		DateColumns: []string{"record_date"},
		NumericColumns: []string{
			"target_biomass", "target_weekly_gain", "target_avg_weight",
			"fcr_target", "mortality_target",
		},
		StringColumns: []string{"category", "notes"},
		FieldSpecs: []core.FieldSpec{
			{Name: "record_date", Type: core.FieldDate},
			{Name: "target_biomass", Type: core.FieldNumeric},
			{Name: "target_avg_weight", Type: core.FieldNumeric},
			{Name: "fcr_target", Type: core.FieldNumeric},
			{Name: "mortality_target", Type: core.FieldNumeric},
		},
	})
}
