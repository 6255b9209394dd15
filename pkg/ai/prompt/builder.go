package prompt

import (
	"fmt"
	"strings"

	"topic-memory-be/pkg/topic"
)

// Prompt slice bounds. Memory and imported context are trimmed so the
// prompt stays within the context window of small local models.
const (
	MaxMemoryItems   = 40
	MaxContextSlice  = 20
	MaxRecentSummary = 5
)

// ImportedEntry is one row of externally imported raw context fed into
// action prompts.
type ImportedEntry struct {
	Text      string
	Author    string
	Tags      []string
	Source    string
	CreatedAt string
}

// ActionBuilder assembles the action-generation prompt for one delta.
type ActionBuilder struct {
	state    *topic.State
	delta    *topic.MeetingDelta
	memory   []topic.ContextItem
	imported []ImportedEntry
	extra    string
}

func NewActionBuilder(state *topic.State, delta *topic.MeetingDelta) *ActionBuilder {
	return &ActionBuilder{state: state, delta: delta}
}

// WithMemory attaches the persisted memory slice (truncated to MaxMemoryItems).
func (b *ActionBuilder) WithMemory(items []topic.ContextItem) *ActionBuilder {
	if len(items) > MaxMemoryItems {
		items = items[:MaxMemoryItems]
	}
	b.memory = items
	return b
}

// WithImported attaches recently imported raw context (truncated to MaxContextSlice).
func (b *ActionBuilder) WithImported(entries []ImportedEntry) *ActionBuilder {
	if len(entries) > MaxContextSlice {
		entries = entries[:MaxContextSlice]
	}
	b.imported = entries
	return b
}

// WithExtra attaches free-text context supplied by the caller.
func (b *ActionBuilder) WithExtra(extra string) *ActionBuilder {
	b.extra = strings.TrimSpace(extra)
	return b
}

func (b *ActionBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("你是项目经理助手，根据会议增量 + 主题上下文生成\"动作列表\"，用 JSON 数组返回，每个元素：\n")
	prompt.WriteString(`{"action_type": "notify"|"ask"|"escalate", "target_user": "<user_id 或 all>", "message": "...", "severity": "info|warning|critical", "tags": ["..."]}` + "\n")
	prompt.WriteString("规则：\n")
	prompt.WriteString("- 高风险/阻塞用 warning/critical\n")
	prompt.WriteString("- 不要编造未在上下文出现的用户\n")
	prompt.WriteString("- 如需澄清，action_type 用 ask，message 用问题句\n")
	prompt.WriteString("- 如果内容很普通，可返回空数组\n\n")

	writeTopicHeader(&prompt, b.state)

	if len(b.memory) > 0 {
		prompt.WriteString("\n已沉淀记忆：\n")
		for _, item := range b.memory {
			prompt.WriteString("- ")
			prompt.WriteString(topic.FormatItem(&item))
			prompt.WriteString("\n")
		}
	}

	if len(b.imported) > 0 {
		prompt.WriteString("\n最近导入的原始上下文：\n")
		for _, entry := range b.imported {
			prompt.WriteString(fmt.Sprintf("- [%s] %s\n", entry.Author, entry.Text))
		}
	}

	if b.extra != "" {
		prompt.WriteString("\n补充上下文：\n")
		prompt.WriteString(b.extra)
		prompt.WriteString("\n")
	}

	prompt.WriteString("\n会议增量：\n")
	writeDelta(&prompt, b.delta)

	prompt.WriteString("\n只返回 JSON 数组，不要代码块。\n")
	return prompt.String()
}

// DeltaBuilder assembles the transcript-to-delta extraction prompt.
type DeltaBuilder struct {
	state      *topic.State
	transcript string
}

func NewDeltaBuilder(state *topic.State, transcript string) *DeltaBuilder {
	return &DeltaBuilder{state: state, transcript: transcript}
}

func (b *DeltaBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("你是项目记忆提取助手。根据会议内容提炼结构化增量，输出 JSON，字段：facts, decisions, risks, tasks, notes。\n")
	prompt.WriteString(`- facts/decisions/risks/notes: 数组，元素形如 {"text": "...", "actors": ["user"], "tags": ["..."]}` + "\n")
	prompt.WriteString(`- tasks: 数组，元素形如 {"title": "...", "owner": "user_id", "due": "YYYY-MM-DD", "notes": "...", "tags": ["..."], "related_actors": ["user_id"]}` + "\n")
	prompt.WriteString("要求：\n")
	prompt.WriteString("- 只填有用内容，没提到就留空数组\n")
	prompt.WriteString("- 文本精简，不要添加额外解释\n\n")

	writeTopicHeader(&prompt, b.state)

	prompt.WriteString("\n会议内容：\n")
	prompt.WriteString(b.transcript)
	prompt.WriteString("\n\n请直接输出 JSON，不要包裹代码块。\n")
	return prompt.String()
}

func writeTopicHeader(prompt *strings.Builder, state *topic.State) {
	prompt.WriteString("主题信息：\n")
	prompt.WriteString("- title: " + state.Title + "\n")
	goal := state.Goal
	if goal == "" {
		goal = "未提供"
	}
	prompt.WriteString("- goal: " + goal + "\n")
	prompt.WriteString("- members:\n")
	if len(state.Members) == 0 {
		prompt.WriteString("无\n")
	}
	for _, m := range state.Members {
		role := m.Role
		if role == "" {
			role = "member"
		}
		resp := strings.Join(m.Responsibilities, ", ")
		if resp == "" {
			resp = "无职责标签"
		}
		prompt.WriteString(fmt.Sprintf("- %s (%s): %s\n", m.UserID, role, resp))
	}
	prompt.WriteString("- 最近摘要:\n")
	notes := state.RecentNotes
	if len(notes) > MaxRecentSummary {
		notes = notes[:MaxRecentSummary]
	}
	if len(notes) == 0 {
		prompt.WriteString("无\n")
	} else {
		prompt.WriteString(strings.Join(notes, "\n") + "\n")
	}
}

func writeDelta(prompt *strings.Builder, delta *topic.MeetingDelta) {
	if delta == nil {
		prompt.WriteString("无\n")
		return
	}
	if delta.MeetingID != "" {
		prompt.WriteString("- meeting_id: " + delta.MeetingID + "\n")
	}
	if delta.Summary != "" {
		prompt.WriteString("- summary: " + delta.Summary + "\n")
	}
	writeGroup(prompt, "facts", delta.Facts)
	writeGroup(prompt, "decisions", delta.Decisions)
	writeGroup(prompt, "risks", delta.Risks)
	if len(delta.Tasks) > 0 {
		prompt.WriteString("- tasks:\n")
		for _, t := range delta.Tasks {
			line := "  - " + t.Title
			if t.Owner != "" {
				line += " (owner " + t.Owner + ")"
			}
			if t.Due != "" {
				line += " (due " + t.Due + ")"
			}
			prompt.WriteString(line + "\n")
		}
	}
	writeGroup(prompt, "notes", delta.Notes)
}

func writeGroup(prompt *strings.Builder, name string, entries []topic.ContextDelta) {
	if len(entries) == 0 {
		return
	}
	prompt.WriteString("- " + name + ":\n")
	for _, e := range entries {
		line := "  - " + e.Text
		if len(e.Actors) > 0 {
			line += " (actors: " + strings.Join(e.Actors, ", ") + ")"
		}
		prompt.WriteString(line + "\n")
	}
}
