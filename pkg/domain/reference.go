package domain

import "fmt"

// Origin は参照画像の出自（どのコレクションが所有しているか）を表す型です。
// 文字列IDのプレフィックスで出自を推測するのではなく、明示的なタグで管理します。
type Origin int

const (
	// OriginPrimary はプロフィールのプライマリ（アバター）スロットが所有する画像です。
	OriginPrimary Origin = iota
	// OriginCanon はプロフィールのカノンギャラリーが所有する画像です。
	OriginCanon
	// OriginLocal はジェネレーターごとの一時的なローカル参照です。
	OriginLocal
)

// String は Origin のラベルを返します。
func (o Origin) String() string {
	switch o {
	case OriginPrimary:
		return "primary"
	case OriginCanon:
		return "canon"
	case OriginLocal:
		return "local"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// ReferenceImage は生成リクエストに添付できる参照画像です。
// Data は生のバイト列で、MimeType と必ずペアで扱います。
type ReferenceImage struct {
	ID       string
	Name     string
	Data     []byte
	MimeType string
	Origin   Origin
}

// Clone は参照画像の防御的コピーを返します。
// 内部ストアが呼び出し元によって変更されるのを防ぐためです。
func (r ReferenceImage) Clone() ReferenceImage {
	copied := r
	if r.Data != nil {
		copied.Data = make([]byte, len(r.Data))
		copy(copied.Data, r.Data)
	}
	return copied
}

// ImagePayload は外部サービスに渡す画像バイト列と MIME タイプのペアです。
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// Payload は参照画像を送信用ペイロードに変換します。
func (r ReferenceImage) Payload() ImagePayload {
	return ImagePayload{Data: r.Data, MimeType: r.MimeType}
}
