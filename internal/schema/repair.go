package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"tuteai/internal/domain"
	"tuteai/internal/payload"
	"tuteai/internal/util"
)

// Repairer applies the registered schema tables to extracted payloads.
type Repairer struct {
	newID func(prefix string) string
	isID  func(id, prefix string) bool
}

// NewRepairer returns a Repairer that stamps identifiers with util.NewID.
func NewRepairer() *Repairer {
	return &Repairer{newID: util.NewID, isID: util.IsID}
}

// Report lists the dotted paths of every field that was defaulted or coerced.
type Report struct {
	ParseFailed bool
	Repaired    []string
}

func (r *Report) add(path string) {
	r.Repaired = append(r.Repaired, path)
}

// Repair turns an extraction result into an object that satisfies the schema of
// kind. A failed extraction is repaired from an empty object, so the only error
// is an unknown kind.
func (r *Repairer) Repair(kind domain.EntityKind, res payload.Result, h domain.Hints) (map[string]any, Report, error) {
	s, ok := For(kind)
	if !ok {
		return nil, Report{}, domain.NewUnknownKindError(kind)
	}

	var report Report
	src := res.Value
	if !res.OK() || src == nil {
		report.ParseFailed = true
		src = map[string]any{}
	}
	return r.repairObject(s, src, h, 0, "", &report), report, nil
}

// Build repairs the payload and decodes it into the typed entity for kind.
func (r *Repairer) Build(kind domain.EntityKind, res payload.Result, h domain.Hints) (domain.Entity, Report, error) {
	obj, report, err := r.Repair(kind, res, h)
	if err != nil {
		return nil, report, err
	}
	entity, err := Decode(kind, obj)
	if err != nil {
		return nil, report, err
	}
	return entity, report, nil
}

// Decode converts a repaired object into its typed entity.
func Decode(kind domain.EntityKind, obj map[string]any) (domain.Entity, error) {
	entity := domain.NewEntity(kind)
	if entity == nil {
		return nil, domain.NewUnknownKindError(kind)
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode repaired payload", err)
	}
	if err := json.Unmarshal(raw, entity); err != nil {
		return nil, domain.NewInternalError("failed to decode repaired payload", err)
	}
	return entity, nil
}

func (r *Repairer) repairObject(s *Schema, src map[string]any, h domain.Hints, index int, prefix string, report *Report) map[string]any {
	out := make(map[string]any, len(s.Fields)+1)

	if s.IDField != "" {
		id, _ := src[s.IDField].(string)
		if !r.isID(id, s.IDPrefix) {
			id = r.newID(s.IDPrefix)
			report.add(prefix + s.IDField)
		}
		out[s.IDField] = id
	}

	for _, f := range s.Fields {
		path := prefix + f.Name
		if f.Override {
			out[f.Name] = f.Default(h, index)
			continue
		}
		raw, present := src[f.Name]

		switch f.Type {
		case String:
			if v, ok := normalizeString(raw, f.Allowed); ok {
				out[f.Name] = v
				continue
			}
			out[f.Name] = f.Default(h, index)
			report.add(path)

		case OptionalString:
			if v, ok := normalizeString(raw, nil); ok {
				out[f.Name] = v
			} else if present {
				report.add(path)
			}

		case StringList:
			minItems := f.MinItems
			if minItems == 0 {
				minItems = 1
			}
			items, coerced := normalizeStringList(raw)
			if len(items) >= minItems {
				out[f.Name] = items
				if coerced {
					report.add(path)
				}
				continue
			}
			out[f.Name] = f.Default(h, index)
			report.add(path)

		case Int:
			if v, ok := normalizeInt(raw); ok {
				clamped := min(max(v, f.Min), f.Max)
				if clamped != v {
					report.add(path)
				}
				out[f.Name] = clamped
				continue
			}
			out[f.Name] = f.Default(h, index)
			report.add(path)

		case ObjectList:
			elems, _ := raw.([]any)
			if len(elems) == 0 {
				elems = []any{map[string]any{}}
				report.add(path)
			}
			items := make([]any, 0, len(elems))
			for i, elem := range elems {
				itemPath := fmt.Sprintf("%s[%d].", path, i)
				obj, ok := elem.(map[string]any)
				if !ok {
					obj = map[string]any{}
					report.add(strings.TrimSuffix(itemPath, "."))
				}
				items = append(items, r.repairObject(f.Item, obj, h, i, itemPath, report))
			}
			out[f.Name] = items
		}
	}

	if s.Fixup != nil {
		for _, name := range s.Fixup(out) {
			report.add(prefix + name)
		}
	}
	return out
}

func normalizeString(raw any, allowed []string) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(allowed) == 0 {
		return s, true
	}
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a, true
		}
	}
	return "", false
}

// normalizeStringList keeps the non-empty strings of a list and wraps a lone
// string. coerced is true when the input was not already a clean list.
func normalizeStringList(raw any) (items []any, coerced bool) {
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []any{s}, true
		}
		return nil, true
	case []any:
		items = make([]any, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				coerced = true
				continue
			}
			trimmed := strings.TrimSpace(s)
			if trimmed == "" || trimmed != s {
				coerced = true
			}
			if trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return items, coerced
	default:
		return nil, raw != nil
	}
}

func normalizeInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Round(v)), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}
