package datasets

import "github.com/nosagieenabulele/aquaculture-data-engineering/internal/core"

func init() {
	registerInventory()
}

// Inventory columns are renamed on the way into the database: the sheet's
// manufacturer is stored as supplier and the purchase date as last_updated.
func registerInventory() {
	core.Register(core.DatasetDefinition{
		Info: core.DatasetInfo{
			Key:         "inventory",
			Label:       "Inventory",
			SheetIndex:  2,
			TargetTable: "inventory",
			Order:       3,
		},
		Keywords: []string{
			"name", "item", "stock", "quantity", "unit",
			"cost", "manufacturer", "purchased",
		},
		Mapping: core.ColumnMapping{
			"name":           "item",
			"item_name":      "item",
			"item_no.":       "category",
			"stock_quantity": "quantity",
			"cost_per_item":  "cost",
			"unit_price":     "cost",
		},
		DateColumns:    []string{"date_purchased"},
		NumericColumns: []string{"quantity", "cost"},
		StringColumns:  []string{"item", "category", "unit", "manufacturer"},
		FieldSpecs: []core.FieldSpec{
			{Name: "item", DBColumn: "item_name", Type: core.FieldText},
			{Name: "category", Type: core.FieldText},
			{Name: "quantity", Type: core.FieldNumeric},
			{Name: "unit", Type: core.FieldText},
			{Name: "cost", DBColumn: "unit_price", Type: core.FieldNumeric},
			{Name: "manufacturer", DBColumn: "supplier", Type: core.FieldText},
			{Name: "date_purchased", DBColumn: "last_updated", Type: core.FieldDate},
		},
	})
}
