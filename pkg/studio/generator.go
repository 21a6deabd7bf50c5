package studio

import (
	"sync"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

// Kind は生成オーケストレーターの種別です。種別ごとに独立した
// 状態スロットを持ち、互いの失敗は波及しません。
type Kind string

const (
	KindImageEdit  Kind = "image-edit"
	KindGroupPhoto Kind = "group-photo"
	KindVideo      Kind = "video"
	KindEnhance    Kind = "enhance"
	KindUpscale    Kind = "upscale"
	KindAvatar     Kind = "avatar"
)

// allKinds は状態スロットを持つ全種別です。
var allKinds = []Kind{
	KindImageEdit, KindGroupPhoto, KindVideo, KindEnhance, KindUpscale, KindAvatar,
}

// generator は1種別ぶんの単一飛行ガード付き状態スロットです。
// 処理中の再ディスパッチは domain.ErrBusy で拒否され、ネットワークに届きません。
// 完了報告は開始時に払い出したトークンで照合し、古い完了が新しい状態を
// 上書きしないようにします。
type generator struct {
	mu         sync.Mutex
	state      domain.GenerationState
	invocation uint64
}

// begin は生成を開始し、完了報告用のトークンを返します。
// 既に処理中の場合は domain.ErrBusy を返します。
func (g *generator) begin(message string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Status == domain.StatusLoading {
		return 0, domain.ErrBusy
	}
	g.invocation++
	g.state = domain.GenerationState{Status: domain.StatusLoading, Message: message}
	return g.invocation, nil
}

// progress は処理中の進捗文言を更新します。古いトークンは無視されます。
func (g *generator) progress(token uint64, message string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if token != g.invocation || g.state.Status != domain.StatusLoading {
		return
	}
	g.state.Message = message
}

// finish は生成の完了を記録します。古いトークンによる報告は破棄されます。
func (g *generator) finish(token uint64, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if token != g.invocation {
		return
	}
	if err != nil {
		g.state = domain.GenerationState{Status: domain.StatusError, Message: domain.UserMessage(err)}
		return
	}
	g.state = domain.GenerationState{Status: domain.StatusIdle}
}

// snapshot は現在の状態を返します。
func (g *generator) snapshot() domain.GenerationState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
