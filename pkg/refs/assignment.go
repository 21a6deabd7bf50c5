package refs

import "github.com/shouni/go-persona-studio/pkg/domain"

// Assignment は単一画像エディター向けのロール割り当てです。
// 不変条件: contentRef と styleRef が同じ画像IDを指すことはありません。
type Assignment struct {
	contentRef string
	styleRef   string
}

// NewAssignment は空のロール割り当てを生成します。
func NewAssignment() *Assignment {
	return &Assignment{}
}

// SetContent はコンテンツ参照を設定します。同じIDを再指定すると解除されます。
// スタイル参照が同じIDを保持していた場合はそちらを先にクリアします。
func (a *Assignment) SetContent(id string) {
	if a.styleRef == id {
		a.styleRef = ""
	}
	if a.contentRef == id {
		a.contentRef = ""
		return
	}
	a.contentRef = id
}

// SetStyle はスタイル参照を設定します。SetContent と対称です。
func (a *Assignment) SetStyle(id string) {
	if a.contentRef == id {
		a.contentRef = ""
	}
	if a.styleRef == id {
		a.styleRef = ""
		return
	}
	a.styleRef = id
}

// ContentRef は現在のコンテンツ参照IDを返します（未設定なら空文字列）。
func (a *Assignment) ContentRef() string { return a.contentRef }

// StyleRef は現在のスタイル参照IDを返します（未設定なら空文字列）。
func (a *Assignment) StyleRef() string { return a.styleRef }

// OnRemoved は画像が所有コレクションから削除された際のスロット掃除です。
func (a *Assignment) OnRemoved(id string) {
	if a.contentRef == id {
		a.contentRef = ""
	}
	if a.styleRef == id {
		a.styleRef = ""
	}
}

// RepairAfterPrimaryChange はプライマリ画像の差し替え後の自動選択ルールです。
// 明示的でまだ有効なコンテンツ参照があるときは決して上書きしません。
// 参照が未設定か、指していた画像がもう存在しない場合のみ、新しい
// プライマリをデフォルトのコンテンツ参照にします。
func (a *Assignment) RepairAfterPrimaryChange(store *Store) {
	if store.PrimaryID() == "" {
		return
	}
	if a.contentRef != "" && store.Has(a.contentRef) {
		return
	}
	a.contentRef = store.PrimaryID()
	if a.styleRef == a.contentRef {
		a.styleRef = ""
	}
}

// ResolveContent はコンテンツ参照画像を解決します。
func (a *Assignment) ResolveContent(store *Store) (domain.ReferenceImage, bool) {
	if a.contentRef == "" {
		return domain.ReferenceImage{}, false
	}
	return store.Lookup(a.contentRef)
}

// ResolveStyle はスタイル参照画像を解決します。
func (a *Assignment) ResolveStyle(store *Store) (domain.ReferenceImage, bool) {
	if a.styleRef == "" {
		return domain.ReferenceImage{}, false
	}
	return store.Lookup(a.styleRef)
}
