// Package editing は非破壊の画像編集状態とその履歴を管理します。
// 編集はパラメータの集合として保持し、書き出し時にのみラスタライズします。
package editing

// EditState は1枚のアセットに適用する編集パラメータです。
// Brightness / Contrast / Saturation は 100 が無変換のパーセント値、
// Rotation は度、Blur はピクセル単位のぼかし半径です。
type EditState struct {
	Rotation   int     `json:"rotation"`
	Brightness int     `json:"brightness"`
	Contrast   int     `json:"contrast"`
	Saturation int     `json:"saturation"`
	Blur       float64 `json:"blur"`
}

// Identity は無変換の編集状態を返します。
func Identity() EditState {
	return EditState{
		Rotation:   0,
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Blur:       0,
	}
}

// IsIdentity は無変換状態かどうかを返します。
func (s EditState) IsIdentity() bool {
	return s == Identity()
}
