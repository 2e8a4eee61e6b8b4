// Package core holds the transformation engine for farm spreadsheet data.
//
// It has no I/O: extractors hand it a [RawTable], loaders take the typed
// [Table] it returns. Every stage is a function from one table to a new one,
// paired with a report value describing what the stage did.
//
// # Stages
//
// A [Transformer] built from a [DatasetDefinition] runs, in order:
//
//  1. [HeaderResolver.Resolve]: score the first rows against the dataset
//     vocabulary, promote the best row to the header, drop title rows and
//     header echoes, canonicalize names.
//  2. [MapColumns]: rename canonical headers to the dataset vocabulary,
//     collapsing synonyms into one column.
//  3. [CleanDates], [CleanNumeric], [CleanTemperature], [CleanStrings]:
//     coerce role columns to pgtype vectors where Valid=false is missing.
//  4. [FilterIncomplete]: drop rows with fewer than
//     floor(columns × threshold) present values.
//
// # Dataset Registry
//
// Datasets are registered at init time using [Register], usually by
// importing the datasets package for its side effects:
//
//	core.Register(core.DatasetDefinition{
//	    Info:     core.DatasetInfo{Key: "expenses", SheetIndex: 4},
//	    Keywords: []string{"date", "item", "cost"},
//	    Mapping:  core.ColumnMapping{"timestamp": "purchase_date"},
//	    NumericColumns: []string{"cost", "quantity"},
//	})
//
// # Error Handling
//
// Unreadable cells become NULLs and never fail a run. Shape problems surface
// from [ValidateSchema] as a [*SchemaError]. [MapError] turns any pipeline
// error into a coded [UserMessage].
package core
