package refs

import "github.com/shouni/go-persona-studio/pkg/domain"

// グループ合成に許されるメンバー数の範囲です。
const (
	MinGroupMembers = 2
	MaxGroupMembers = 10
)

// GroupSelection はグループ写真コンポーザー向けのメンバー集合です。
// ペイロード順序を決定的にするため、追加順を保持します。
// 不変条件: メンバーが1人でもいる限り primaryRef はメンバーの中から選ばれます。
type GroupSelection struct {
	memberRefs []string
	primaryRef string
}

// NewGroupSelection は空のグループ選択を生成します。
func NewGroupSelection() *GroupSelection {
	return &GroupSelection{}
}

// Toggle はメンバーの選択状態を反転します。追加された場合は true を返します。
func (g *GroupSelection) Toggle(id string) bool {
	for i, ref := range g.memberRefs {
		if ref == id {
			g.memberRefs = append(g.memberRefs[:i], g.memberRefs[i+1:]...)
			g.repairPrimary()
			return false
		}
	}
	g.memberRefs = append(g.memberRefs, id)
	g.repairPrimary()
	return true
}

// Remove はメンバー集合からIDを取り除きます（所有コレクション削除時の掃除）。
func (g *GroupSelection) Remove(id string) {
	for i, ref := range g.memberRefs {
		if ref == id {
			g.memberRefs = append(g.memberRefs[:i], g.memberRefs[i+1:]...)
			break
		}
	}
	g.repairPrimary()
}

// SetPrimary は代表メンバーを指定します。メンバー外のIDは無視されます。
func (g *GroupSelection) SetPrimary(id string) {
	for _, ref := range g.memberRefs {
		if ref == id {
			g.primaryRef = id
			return
		}
	}
}

// repairPrimary は primaryRef ∈ memberRefs の不変条件を回復します。
// 指定されていた代表が外れた場合は残りの先頭を代表にします。
func (g *GroupSelection) repairPrimary() {
	if len(g.memberRefs) == 0 {
		g.primaryRef = ""
		return
	}
	for _, ref := range g.memberRefs {
		if ref == g.primaryRef {
			return
		}
	}
	g.primaryRef = g.memberRefs[0]
}

// Members は追加順のメンバーID一覧のコピーを返します。
func (g *GroupSelection) Members() []string {
	out := make([]string, len(g.memberRefs))
	copy(out, g.memberRefs)
	return out
}

// PrimaryRef は代表メンバーのIDを返します。
func (g *GroupSelection) PrimaryRef() string { return g.primaryRef }

// Count はメンバー数を返します。
func (g *GroupSelection) Count() int { return len(g.memberRefs) }

// Validate は合成リクエストを許可できるかを検査します。
func (g *GroupSelection) Validate() error {
	if len(g.memberRefs) < MinGroupMembers || len(g.memberRefs) > MaxGroupMembers {
		return domain.ErrGroupSize
	}
	return nil
}

// ResolveMembers はメンバー画像を追加順で解決します。
// ストアに存在しないIDはスキップされます（ダングリング防止の最終ガード）。
func (g *GroupSelection) ResolveMembers(store *Store) []domain.ReferenceImage {
	out := make([]domain.ReferenceImage, 0, len(g.memberRefs))
	for _, ref := range g.memberRefs {
		if img, ok := store.Lookup(ref); ok {
			out = append(out, img)
		}
	}
	return out
}
