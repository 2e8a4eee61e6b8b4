package datasets

import "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"

func init() {
	registerExpenses()
}

func registerExpenses() {
	core.Register(core.DatasetDefinition{
		Info: core.DatasetInfo{
			Key:         "expenses",
			Label:       "Expenses",
			SheetIndex:  4,
			TargetTable: "expenses",
			Order:       2,
		},
		Keywords: []string{
			"timestamp", "date", "item", "category", "supplier",
			"vendor", "description", "quantity", "cost",
		},
		Mapping: core.ColumnMapping{
			"timestamp": "purchase_date",
			"date":      "purchase_date",
			"supplier":  "vendor",
			"qty":       "quantity",
			"amount":    "cost",
		},
		DateColumns:    []string{"purchase_date"},
		NumericColumns: []string{"cost", "quantity"},
		StringColumns:  []string{"category", "item", "vendor", "description"},
		FieldSpecs: []core.FieldSpec{
			{Name: "purchase_date", Type: core.FieldDate},
			{Name: "item", Type: core.FieldText},
			{Name: "vendor", Type: core.FieldText},
			{Name: "description", Type: core.FieldText},
			{Name: "quantity", Type: core.FieldNumeric},
			{Name: "cost", Type: core.FieldNumeric},
		},
	})
}
