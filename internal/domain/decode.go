package domain

import (
	"bytes"
	"encoding/json"
)

// The content tree decodes leniently: a sub-structure of the wrong shape
// (missing, null, or not an array where one is expected) becomes an empty
// list, and an element that fails to decode becomes a zero value in place so
// later positions, and therefore task identifiers, do not shift.

func (r *Roadmap) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title      json.RawMessage `json:"title"`
		Keywords   json.RawMessage `json:"keywords"`
		Weeks      json.RawMessage `json:"weeks"`
		SkillTree  json.RawMessage `json:"skillTree"`
		Interviews Categories      `json:"interviews"`
		Checklists Categories      `json:"checklists"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Roadmap{
		Title:      lenientString(raw.Title),
		Keywords:   lenientList[string](raw.Keywords),
		Weeks:      lenientList[Week](raw.Weeks),
		SkillTree:  lenientList[Skill](raw.SkillTree),
		Interviews: raw.Interviews,
		Checklists: raw.Checklists,
	}
	return nil
}

func (w *Week) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title    json.RawMessage `json:"title"`
		Goal     json.RawMessage `json:"goal"`
		Outcomes json.RawMessage `json:"outcomes"`
		Quests   json.RawMessage `json:"quests"`
		Days     json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Week{
		Title:    lenientString(raw.Title),
		Goal:     lenientString(raw.Goal),
		Outcomes: lenientList[string](raw.Outcomes),
		Quests:   lenientList[string](raw.Quests),
		Days:     lenientList[Day](raw.Days),
	}
	return nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title json.RawMessage `json:"title"`
		Focus json.RawMessage `json:"focus"`
		Tasks json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Day{
		Title: lenientString(raw.Title),
		Focus: lenientString(raw.Focus),
		Tasks: lenientList[Task](raw.Tasks),
	}
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var label string
		if err := json.Unmarshal(trimmed, &label); err != nil {
			return err
		}
		*t = Task{Label: label}
		return nil
	}

	var raw struct {
		Label     json.RawMessage `json:"label"`
		Text      json.RawMessage `json:"text"`
		Title     json.RawMessage `json:"title"`
		Steps     json.RawMessage `json:"steps"`
		Decisions json.RawMessage `json:"decisions"`
		DoneWhen  json.RawMessage `json:"doneWhen"`
		Pitfalls  json.RawMessage `json:"pitfalls"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*t = Task{
		Label:     CoalesceStr(lenientString(raw.Label), lenientString(raw.Text), lenientString(raw.Title)),
		Steps:     lenientList[string](raw.Steps),
		Decisions: lenientList[string](raw.Decisions),
		DoneWhen:  lenientList[string](raw.DoneWhen),
		Pitfalls:  lenientList[string](raw.Pitfalls),
	}
	return nil
}

func (s *Skill) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name json.RawMessage `json:"name"`
		Why  json.RawMessage `json:"why"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Skill{Name: lenientString(raw.Name), Why: lenientString(raw.Why)}
	return nil
}

// UnmarshalJSON reads a JSON object of name → list while keeping key order.
// Anything other than an object decodes as no categories.
func (c *Categories) UnmarshalJSON(data []byte) error {
	*c = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	var out Categories
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		name, _ := keyTok.(string)
		var items json.RawMessage
		if err := dec.Decode(&items); err != nil {
			return nil
		}
		out = append(out, Category{Name: name, Items: lenientList[string](items)})
	}
	*c = out
	return nil
}

// MarshalJSON writes categories back as an ordered JSON object.
func (c Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		items := cat.Items
		if items == nil {
			items = []string{}
		}
		list, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(list)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func lenientList[T any](raw json.RawMessage) []T {
	var elems []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &elems) != nil {
		return nil
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err == nil {
			out[i] = v
		}
	}
	return out
}
