package publicdata

import "github.com/tidwall/gjson"

// ParseRows flattens the administrative-code lookup response into its rows.
//
// Shape A is an array of blocks (either the root or the first array member
// of the root object), each block optionally holding a "row" array:
//
//	{"StanReginCd": [{"head": [...]}, {"row": [{...}, {...}]}]}
//
// Shape B nests the rows at response.body.items:
//
//	{"response": {"body": {"items": [{...}, {...}]}}}
//
// Anything else yields no rows.
func ParseRows(raw []byte) []gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	doc := gjson.ParseBytes(raw)

	if blocks, ok := blockArray(doc); ok {
		var rows []gjson.Result
		for _, block := range blocks.Array() {
			if r := block.Get("row"); r.IsArray() {
				rows = append(rows, r.Array()...)
			}
		}
		if len(rows) > 0 {
			return rows
		}
	}

	return itemsArray(doc.Get("response.body.items"))
}

// blockArray finds the Shape A block list.
func blockArray(doc gjson.Result) (gjson.Result, bool) {
	if doc.IsArray() {
		return doc, true
	}
	if !doc.IsObject() {
		return gjson.Result{}, false
	}

	var found gjson.Result
	doc.ForEach(func(_, value gjson.Result) bool {
		if value.IsArray() {
			found = value
			return false
		}
		return true
	})
	return found, found.Exists()
}

// itemsArray accepts an items value that is either the row array itself or
// an object wrapping it (or a single row) under "item".
func itemsArray(items gjson.Result) []gjson.Result {
	switch {
	case items.IsArray():
		return items.Array()
	case items.IsObject():
		item := items.Get("item")
		if item.IsArray() {
			return item.Array()
		}
		if item.IsObject() {
			return []gjson.Result{item}
		}
	}
	return nil
}
