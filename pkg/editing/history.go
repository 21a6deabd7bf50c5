package editing

// History は編集状態のアンドゥ・リドゥ履歴です。
// 先頭は常に無変換状態で、カーソルは必ず履歴内の有効な位置を指します。
// 新しいコミットはカーソルより先のリドゥ分岐を破棄します。
type History struct {
	states []EditState
	cursor int
}

// NewHistory は無変換状態だけを持つ履歴を返します。
func NewHistory() *History {
	return &History{states: []EditState{Identity()}}
}

// Current はカーソル位置の編集状態を返します。
func (h *History) Current() EditState {
	return h.states[h.cursor]
}

// Commit は新しい状態を履歴に積みます。現在の状態と同一なら何もしません。
// カーソルより先にリドゥ分岐が残っている場合は破棄されます。
func (h *History) Commit(state EditState) {
	if state == h.Current() {
		return
	}
	h.states = append(h.states[:h.cursor+1], state)
	h.cursor++
}

// Undo はカーソルを1つ戻し、戻した後の状態を返します。
// 先頭にいる場合は何もせず false を返します。
func (h *History) Undo() (EditState, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Redo はカーソルを1つ進め、進めた後の状態を返します。
// 末尾にいる場合は何もせず false を返します。
func (h *History) Redo() (EditState, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Reset は無変換状態を新しいコミットとして積みます。
// 既に無変換ならば履歴は変化しません。アンドゥでリセット前に戻れます。
func (h *History) Reset() EditState {
	h.Commit(Identity())
	return h.Current()
}

// CanUndo はアンドゥ可能かどうかを返します。
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo はリドゥ可能かどうかを返します。
func (h *History) CanRedo() bool {
	return h.cursor < len(h.states)-1
}

// Len は履歴の長さを返します。
func (h *History) Len() int {
	return len(h.states)
}
