package api

import (
	"encoding/base64"
	"fmt"

	"github.com/parkerhayes/cdwire/pkg/item"
	"github.com/parkerhayes/cdwire/pkg/view"
)

// renderValue converts a decoded item value to a JSON-friendly shape.
// Scalars map to JSON scalars, ranges to arrays (pairs as two-element
// arrays), Empty to null and Unsupported to an object carrying the raw
// bytes.
func renderValue(v item.Value) interface{} {
	switch val := v.(type) {
	case item.Text:
		return string(val)
	case item.TextList:
		return []string(val)
	case item.Number:
		return float64(val)
	case item.Time:
		return item.Timestamp(val).String()
	case item.NumberRange:
		out := make([]interface{}, len(val))
		for i, e := range val {
			if e.IsPair {
				out[i] = [2]float64{e.Lower, e.Upper}
			} else {
				out[i] = e.Lower
			}
		}
		return out
	case item.TimeRange:
		out := make([]interface{}, len(val))
		for i, e := range val {
			if e.IsPair {
				out[i] = [2]string{e.Lower.String(), e.Upper.String()}
			} else {
				out[i] = e.Lower.String()
			}
		}
		return out
	case item.Empty:
		return nil
	case item.Unsupported:
		return map[string]interface{}{
			"type": val.Type.String(),
			"raw":  base64.StdEncoding.EncodeToString(val.Raw),
		}
	default:
		return fmt.Sprintf("%v", v)
	}
}

func renderColumns(entries []item.Entry) []interface{} {
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = renderValue(e.Value)
	}
	return out
}

func renderSummary(summary map[string]item.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(summary))
	for name, v := range summary {
		out[name] = renderValue(v)
	}
	return out
}

// renderEntry converts one decoded collection entry.
func renderEntry(e view.Entry) EntryInfo {
	info := EntryInfo{
		NoteID:          e.NoteID,
		NoteClass:       e.NoteClass,
		SiblingCount:    e.SiblingCount,
		ChildCount:      e.ChildCount,
		DescendantCount: e.DescendantCount,
		AnyUnread:       e.AnyUnread,
		Unread:          e.Unread,
		Score:           e.Score,
	}
	if e.Mask.Has(view.ReadUNID) {
		info.UNID = e.UNID.String()
	}
	if e.Mask.Has(view.ReadPosition) {
		info.Position = e.PositionString()
	}
	if e.Columns != nil {
		info.Columns = renderColumns(e.Columns)
	}
	if e.Summary != nil {
		info.Summary = renderSummary(e.Summary)
	}
	return info
}
