// Package services provides the BOM generation engine and the pure
// calculation, export and import logic for the fiber construction tracker.
package services

import "math"

// UnitTypeInfo is the catalog entry for one category of constructible work,
// e.g. "Directional Bore" or "Handhole".
type UnitTypeInfo struct {
	ID       string
	Code     string
	Name     string
	Category string // "line" or "marker"
}

// UnitInput is one concrete work item belonging to a project.
type UnitInput struct {
	ID         string
	UnitTypeID string
	Length     float64
	HasLength  bool
}

// UnitGroup aggregates a project's units of one type.
type UnitGroup struct {
	Type        UnitTypeInfo
	TotalLength float64
	Count       int
}

// TemplateLine is one recipe row of a BOM template.
type TemplateLine struct {
	ItemCode    string
	Description string
	UOM         string
	Category    string // "material", "labor" or "equipment"
	Formula     string // "per_foot", "per_unit" or "fixed"
	Multiplier  float64
	UnitCost    float64
}

// Template is a reusable BOM recipe applicable to one or more unit types
// under a soil condition.
type Template struct {
	ID        string
	Name      string
	AppliesTo []string
	SoilType  string
	IsActive  bool
	Lines     []TemplateLine
}

// GeneratedLine is one engine output row, possibly consolidated across
// several unit-type groups.
type GeneratedLine struct {
	TemplateID        string
	ItemCode          string
	Description       string
	UOM               string
	Category          string
	SuggestedQty      float64
	UnitCost          float64
	TotalCost         float64
	SourceUnitTypeIDs []string
}

// AggregateUnits groups units by unit type, summing counts and lengths.
// Units referencing an unknown unit type are skipped rather than failing the
// whole run. A unit without a length contributes 1 toward TotalLength so
// marker units still feed length-based formulas; that default is policy, not
// an accident. Group order is first-seen order of each unit type.
func AggregateUnits(units []UnitInput, catalog []UnitTypeInfo) []UnitGroup {
	byID := make(map[string]UnitTypeInfo, len(catalog))
	for _, ut := range catalog {
		byID[ut.ID] = ut
	}

	index := make(map[string]int)
	var groups []UnitGroup

	for _, u := range units {
		ut, ok := byID[u.UnitTypeID]
		if !ok {
			continue
		}

		length := 1.0
		if u.HasLength {
			length = u.Length
		}

		if i, seen := index[u.UnitTypeID]; seen {
			groups[i].Count++
			groups[i].TotalLength += length
		} else {
			index[u.UnitTypeID] = len(groups)
			groups = append(groups, UnitGroup{Type: ut, TotalLength: length, Count: 1})
		}
	}

	return groups
}

// SelectTemplate picks the template for one unit-type group. Candidates are
// the active templates whose applies-to set contains the group's unit type,
// in catalog order. An exact soil-type match wins; otherwise the first
// candidate is used. The fallback-to-first rule is deliberate and must not
// be replaced with any other ranking. The second return value is false when
// no active template applies and the group should be skipped.
func SelectTemplate(group UnitGroup, soilType string, templates []Template) (Template, bool) {
	var candidates []Template
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		for _, id := range t.AppliesTo {
			if id == group.Type.ID {
				candidates = append(candidates, t)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return Template{}, false
	}

	for _, t := range candidates {
		if t.SoilType == soilType {
			return t, true
		}
	}
	return candidates[0], true
}

// CalcLineQty evaluates a template line's formula against the group and
// rounds the result up to a whole quantity. Partial units of material or
// labor are never under-ordered, so the returned quantity is always >= the
// raw formula result.
func CalcLineQty(line TemplateLine, group UnitGroup) float64 {
	var raw float64
	switch line.Formula {
	case "per_foot":
		raw = group.TotalLength * line.Multiplier
	case "per_unit":
		raw = float64(group.Count) * line.Multiplier
	default:
		raw = line.Multiplier
	}
	return math.Ceil(raw)
}

// GenerateLines runs template selection and quantity calculation for every
// group, producing one line per template row. Groups with no applicable
// active template are skipped silently.
func GenerateLines(groups []UnitGroup, soilType string, templates []Template) []GeneratedLine {
	var lines []GeneratedLine
	for _, group := range groups {
		tpl, ok := SelectTemplate(group, soilType, templates)
		if !ok {
			continue
		}
		for _, tl := range tpl.Lines {
			qty := CalcLineQty(tl, group)
			lines = append(lines, GeneratedLine{
				TemplateID:        tpl.ID,
				ItemCode:          tl.ItemCode,
				Description:       tl.Description,
				UOM:               tl.UOM,
				Category:          tl.Category,
				SuggestedQty:      qty,
				UnitCost:          tl.UnitCost,
				TotalCost:         qty * tl.UnitCost,
				SourceUnitTypeIDs: []string{group.Type.ID},
			})
		}
	}
	return lines
}

// ConsolidateLines merges generated lines sharing an item code into single
// lines, summing quantities and recomputing totals. The key is strictly the
// item code: two templates emitting the same code merge, with the last seen
// unit cost winning (the catalog is expected to keep unit costs consistent
// per item code; ValidateTemplateCatalog flags violations). Output order is
// first-appearance order of each item code.
func ConsolidateLines(lines []GeneratedLine) []GeneratedLine {
	index := make(map[string]int)
	var out []GeneratedLine

	for _, line := range lines {
		i, seen := index[line.ItemCode]
		if !seen {
			index[line.ItemCode] = len(out)
			merged := line
			merged.SourceUnitTypeIDs = append([]string(nil), line.SourceUnitTypeIDs...)
			out = append(out, merged)
			continue
		}

		out[i].SuggestedQty += line.SuggestedQty
		out[i].UnitCost = line.UnitCost
		out[i].TotalCost = out[i].SuggestedQty * out[i].UnitCost
		for _, src := range line.SourceUnitTypeIDs {
			if !containsString(out[i].SourceUnitTypeIDs, src) {
				out[i].SourceUnitTypeIDs = append(out[i].SourceUnitTypeIDs, src)
			}
		}
	}

	return out
}

// GenerateBOM is the full pipeline: aggregate, select, calculate,
// consolidate.
func GenerateBOM(units []UnitInput, catalog []UnitTypeInfo, soilType string, templates []Template) []GeneratedLine {
	groups := AggregateUnits(units, catalog)
	return ConsolidateLines(GenerateLines(groups, soilType, templates))
}

// CatalogWarning flags an item code defined with differing unit costs
// across active templates. Consolidation totals become order-dependent for
// such codes.
type CatalogWarning struct {
	ItemCode  string    `json:"item_code"`
	UnitCosts []float64 `json:"unit_costs"`
	Templates []string  `json:"templates"`
}

// ValidateTemplateCatalog scans active templates for item codes that appear
// with more than one unit cost. Warnings are advisory; generation proceeds.
func ValidateTemplateCatalog(templates []Template) []CatalogWarning {
	type seen struct {
		costs     []float64
		templates []string
	}
	var codes []string
	byCode := make(map[string]*seen)

	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		for _, l := range t.Lines {
			s, ok := byCode[l.ItemCode]
			if !ok {
				s = &seen{}
				byCode[l.ItemCode] = s
				codes = append(codes, l.ItemCode)
			}
			if !containsFloat(s.costs, l.UnitCost) {
				s.costs = append(s.costs, l.UnitCost)
				s.templates = append(s.templates, t.Name)
			}
		}
	}

	var warnings []CatalogWarning
	for _, code := range codes {
		s := byCode[code]
		if len(s.costs) > 1 {
			warnings = append(warnings, CatalogWarning{
				ItemCode:  code,
				UnitCosts: s.costs,
				Templates: s.templates,
			})
		}
	}
	return warnings
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsFloat(list []float64, f float64) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}
