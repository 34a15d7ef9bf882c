package macros

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// Date layouts accepted by epoch, most specific first.
var epochLayouts = []string{
	"2006-01-02:15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02:15:04",
	"2006-01-02",
}

// funcMap returns the template functions available to def. Dates without a
// zone are read in loc.
func funcMap(def *Definition, loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"anyOf":   anyOf,
		"epoch":   func(s string) (string, error) { return epoch(s, loc) },
		"join":    func(sep string, items []string) string { return strings.Join(items, sep) },
		"quote":   quote,
		"default": func(def, v string) string { return orDefault(v, def) },
		"lower":   strings.ToLower,
		"upper":   strings.ToUpper,
		"aliases": def.expandAliases,
	}
}

// anyOf turns a comma list into field=a OR field=b ...
func anyOf(field, list string) string {
	var terms []string
	for _, v := range strings.Split(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			terms = append(terms, field+"="+v)
		}
	}
	return strings.Join(terms, " OR ")
}

// epoch converts a date or date-time to Unix seconds written with a ".0"
// fraction. Numeric input is passed through in the same format.
func epoch(s string, loc *time.Location) (string, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', 1, 64), nil
	}
	for _, layout := range epochLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return strconv.FormatInt(t.Unix(), 10) + ".0", nil
		}
	}
	return "", fmt.Errorf("epoch: cannot parse %q as a date", s)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
