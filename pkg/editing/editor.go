package editing

import "sync"

// Editor は1枚のアセットに対する編集セッションです。
// ライブ状態（未コミットのプレビュー値)と確定済みの履歴を分けて持ちます。
// スライダーのスクラブ中は Apply が連打されるため、全メソッドは
// 並行呼び出しに対して安全です。
type Editor struct {
	mu      sync.Mutex
	history *History
	live    EditState
}

// NewEditor は無変換状態の編集セッションを返します。
func NewEditor() *Editor {
	return &Editor{
		history: NewHistory(),
		live:    Identity(),
	}
}

// Apply はライブ状態を差し替えます。履歴には積まれません。
func (e *Editor) Apply(state EditState) EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live = state
	return e.live
}

// Commit はライブ状態を履歴に確定します。
func (e *Editor) Commit() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Commit(e.live)
	return e.history.Current()
}

// Undo は1つ前の確定状態に戻し、ライブ状態も同期します。
func (e *Editor) Undo() (EditState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.history.Undo()
	if ok {
		e.live = state
	}
	return e.live, ok
}

// Redo は1つ先の確定状態に進め、ライブ状態も同期します。
func (e *Editor) Redo() (EditState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.history.Redo()
	if ok {
		e.live = state
	}
	return e.live, ok
}

// Reset はライブ状態と履歴を無変換に戻します。リセット自体も1コミットです。
func (e *Editor) Reset() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live = Identity()
	return e.history.Reset()
}

// Live は現在のライブ状態を返します。
func (e *Editor) Live() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// CanUndo はアンドゥ可能かどうかを返します。
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo はリドゥ可能かどうかを返します。
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}
