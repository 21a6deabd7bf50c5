package domain

// CharacterProfile は架空のキャラクターの永続的な定義を保持します。
// ライフタイムはセッションと同じで、ユーザー編集によって更新されます。
type CharacterProfile struct {
	Name        string `json:"name"`
	Age         uint   `json:"age"`
	Ethnicity   string `json:"ethnicity"`
	Persona     string `json:"persona"`
	Description string `json:"description"`

	// PrimaryImage はキャラクターを代表するカノニカルなポートレートです。
	// 未生成の場合は nil になります。
	PrimaryImage *ReferenceImage `json:"-"`

	// CanonImages はキャラクターの公式参照ギャラリーです（順序を保持）。
	CanonImages []ReferenceImage `json:"-"`
}

// DisplayName はプロンプト補間用の名前を返します。未設定なら "character" です。
func (p CharacterProfile) DisplayName() string {
	if p.Name == "" {
		return "character"
	}
	return p.Name
}
