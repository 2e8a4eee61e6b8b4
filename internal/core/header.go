package core

// header.go locates the real header row inside a human-edited worksheet.
//
// Farm workbooks often start with title rows, blank rows or merged-cell
// artifacts, and sometimes repeat the header just below itself. The resolver
// scores the first rows against a keyword vocabulary, promotes the best row to
// the header and drops echoes of it from the top of the data.

import (
	"fmt"
	"strings"
)

const (
	// DefaultScanLimit is the number of leading rows scored as header candidates.
	DefaultScanLimit = 5

	// duplicateScanRows is the number of data rows checked for header echoes.
	duplicateScanRows = 3
)

// DefaultKeywords is the shared header vocabulary across all farm datasets.
var DefaultKeywords = []string{
	"date", "timestamp", "time", "pond", "week",
	"feed", "mortality", "behaviour", "temperature", "temp",
	"ph", "oxygen", "ammonia", "nitrite", "nitrate",
	"alkalinity", "hardness", "carbonate", "turbidity", "water",
	"item", "category", "quantity", "cost", "price",
	"supplier", "vendor", "description", "manufacturer", "stock",
	"unit", "target", "biomass", "biomas", "weight",
	"fcr", "sgr", "note",
}

// HeaderReport records the decisions the resolver made.
type HeaderReport struct {
	HeaderIndex       int  `json:"headerIndex"`
	Score             int  `json:"score"`
	Fallback          bool `json:"fallback"`
	RowsAbove         int  `json:"rowsAbove"`
	DuplicatesDropped int  `json:"duplicatesDropped"`
	Columns           int  `json:"columns"`
	DataRows          int  `json:"dataRows"`
}

// HeaderResolver turns a RawTable into a Table with canonical column names.
// It holds no state between calls.
type HeaderResolver struct {
	scanLimit int
	keywords  []string
}

// NewHeaderResolver creates a resolver. A non-positive scan limit selects
// DefaultScanLimit; an empty vocabulary selects DefaultKeywords.
func NewHeaderResolver(scanLimit int, keywords []string) *HeaderResolver {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	seen := make(map[string]bool, len(keywords))
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kw = append(kw, k)
	}

	return &HeaderResolver{scanLimit: scanLimit, keywords: kw}
}

// Score counts the keywords found as a case-insensitive substring of at
// least one cell in the row. Each keyword counts once.
func (r *HeaderResolver) Score(row []Cell) int {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if !c.IsMissing() {
			cells = append(cells, strings.ToLower(c.String()))
		}
	}

	score := 0
	for _, k := range r.keywords {
		for _, cell := range cells {
			if strings.Contains(cell, k) {
				score++
				break
			}
		}
	}
	return score
}

// Resolve selects the header row and returns the data beneath it as raw
// columns named by the canonicalized header.
//
// When no scanned row matches any keyword the first row is kept as the
// header unchanged in position and no duplicate suppression happens.
func (r *HeaderResolver) Resolve(raw RawTable) (*Table, HeaderReport) {
	report := HeaderReport{HeaderIndex: -1}
	if len(raw) == 0 {
		return EmptyTable(), report
	}

	limit := min(r.scanLimit, len(raw))
	headerIdx, maxScore := 0, 0
	for i := 0; i < limit; i++ {
		if s := r.Score(raw[i]); s > maxScore {
			headerIdx, maxScore = i, s
		}
	}

	report.HeaderIndex = headerIdx
	report.Score = maxScore
	report.RowsAbove = headerIdx

	data := raw[headerIdx+1:]
	if maxScore == 0 {
		report.Fallback = true
	} else {
		data, report.DuplicatesDropped = r.dropEchoes(data)
	}

	width := max(len(raw[headerIdx]), RawTable(data).Width())
	headers := make([]string, width)
	for j, c := range raw[headerIdx] {
		headers[j] = c.String()
	}
	names := CanonicalHeaders(headers)

	cols := make([]Column, width)
	for j := range cols {
		cells := make([]Cell, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		cols[j] = Column{Name: names[j], Type: ColumnRaw, Raw: cells}
	}

	report.Columns = width
	report.DataRows = len(data)
	return NewTable(cols), report
}

// dropEchoes removes header-like rows from the first few data rows.
func (r *HeaderResolver) dropEchoes(data RawTable) (RawTable, int) {
	n := min(duplicateScanRows, len(data))
	kept := make(RawTable, 0, len(data))
	dropped := 0
	for i := 0; i < n; i++ {
		if r.Score(data[i]) > 0 {
			dropped++
			continue
		}
		kept = append(kept, data[i])
	}
	kept = append(kept, data[n:]...)
	return kept, dropped
}

var headerReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"/", "_",
	"[", "",
	"]", "",
)

// CanonicalName lowercases and trims a header and replaces spaces, hyphens
// and slashes with underscores, removing square brackets.
func CanonicalName(s string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// CanonicalHeaders canonicalizes a header row. Blank names become
// column_<1-based index>; repeated names get _1, _2, ... suffixes in
// positional order, skipping any suffix that is already taken.
func CanonicalHeaders(headers []string) []string {
	names := make([]string, len(headers))
	for i, h := range headers {
		name := CanonicalName(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		names[i] = name
	}

	taken := make(map[string]bool, len(names))
	next := make(map[string]int)
	for i, base := range names {
		name := base
		for taken[name] {
			next[base]++
			name = fmt.Sprintf("%s_%d", base, next[base])
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
