package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRoadmap = `{
  "title": "Backend in 4 weeks",
  "keywords": ["go", "sql"],
  "weeks": [
    {
      "title": "Foundations",
      "goal": "Ship a CLI",
      "outcomes": ["a binary"],
      "quests": ["read the tour"],
      "days": [
        {"title": "Day 1", "focus": "syntax", "tasks": [
          "Install Go",
          {"label": "Write hello", "steps": ["go mod init"], "doneWhen": ["it prints"], "pitfalls": ["GOPATH"]}
        ]},
        {"title": "Day 2", "tasks": "oops"}
      ]
    },
    {"title": "Broken", "days": null}
  ],
  "skillTree": [{"name": "Go", "why": "core"}],
  "interviews": {"zeta": ["z1"], "alpha": ["a1", "a2"]},
  "checklists": {"ship": ["tests"]}
}`

func TestRoadmap_UnmarshalJSON(t *testing.T) {
	var r Roadmap
	require.NoError(t, json.Unmarshal([]byte(sampleRoadmap), &r))

	assert.Equal(t, "Backend in 4 weeks", r.Title)
	assert.Equal(t, []string{"go", "sql"}, r.Keywords)
	require.Len(t, r.Weeks, 2)

	w := r.Weeks[0]
	assert.Equal(t, "Ship a CLI", w.Goal)
	require.Len(t, w.Days, 2)
	require.Len(t, w.Days[0].Tasks, 2)
	assert.Equal(t, "Install Go", w.Days[0].Tasks[0].Label)
	assert.False(t, w.Days[0].Tasks[0].HasGuidance())

	structured := w.Days[0].Tasks[1]
	assert.Equal(t, "Write hello", structured.Label)
	assert.Equal(t, []string{"go mod init"}, structured.Steps)
	assert.Equal(t, []string{"it prints"}, structured.DoneWhen)
	assert.Equal(t, []string{"GOPATH"}, structured.Pitfalls)
	assert.True(t, structured.HasGuidance())

	assert.Empty(t, w.Days[1].Tasks, "non-array tasks decode as empty")
	assert.Empty(t, r.Weeks[1].Days, "null days decode as empty")

	assert.Equal(t, []Skill{{Name: "Go", Why: "core"}}, r.SkillTree)
	require.Len(t, r.Interviews, 2)
	assert.Equal(t, "zeta", r.Interviews[0].Name, "categories keep document order")
	assert.Equal(t, "alpha", r.Interviews[1].Name)
	assert.Equal(t, []string{"tests"}, r.Checklists[0].Items)
}

func TestTask_BadElementKeepsPosition(t *testing.T) {
	var d Day
	require.NoError(t, json.Unmarshal([]byte(`{"tasks": ["a", 42, "c"]}`), &d))
	require.Len(t, d.Tasks, 3)
	assert.Equal(t, "", d.Tasks[1].Label)
	assert.Equal(t, "c", d.Tasks[2].Label)
}

func TestTask_LabelFallbacks(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"text": "from text"}`), &task))
	assert.Equal(t, "from text", task.Label)
}

func TestCategories_NonObjectIsEmpty(t *testing.T) {
	var r Roadmap
	require.NoError(t, json.Unmarshal([]byte(`{"interviews": ["x"], "checklists": 3}`), &r))
	assert.Empty(t, r.Interviews)
	assert.Empty(t, r.Checklists)
}

func TestCategories_MarshalKeepsOrder(t *testing.T) {
	c := Categories{{Name: "b", Items: []string{"1"}}, {Name: "a"}}
	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":["1"],"a":[]}`, string(out))
	assert.Equal(t, `{"b":["1"],"a":[]}`, string(out))
}

func TestRoadmap_Lookups(t *testing.T) {
	var r Roadmap
	require.NoError(t, json.Unmarshal([]byte(sampleRoadmap), &r))

	assert.Equal(t, 2, r.TaskCount())
	assert.Equal(t, []string{"w1-d1-t1", "w1-d1-t2"}, r.TaskIDs())

	task, ref, ok := r.TaskByID("w1-d1-t2")
	require.True(t, ok)
	assert.Equal(t, "Write hello", task.Label)
	assert.Equal(t, TaskRef{Week: 0, Day: 0, Task: 1}, ref)

	_, _, ok = r.TaskByID("w1-d2-t1")
	assert.False(t, ok, "day 2 has no tasks")
	_, _, ok = r.TaskByID("w9-d1-t1")
	assert.False(t, ok)

	w, d, ok := r.FirstDay()
	require.True(t, ok)
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, d)

	_, ok = r.Day(1, 0)
	assert.False(t, ok)
}
