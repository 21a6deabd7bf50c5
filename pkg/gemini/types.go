package gemini

// Gemini REST API のワイヤ型です。SDK には依存せず、必要なフィールドだけを
// 自前で定義します。inlineData の Data は encoding/json が base64 で
// 相互変換するため []byte のまま保持します。

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature        float64         `json:"temperature,omitempty"`
	TopP               float64         `json:"topP,omitempty"`
	ResponseModalities []string        `json:"responseModalities,omitempty"`
	ThinkingConfig     *thinkingConfig `json:"thinkingConfig,omitempty"`
	ImageConfig        *imageConfig    `json:"imageConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// Veo の長時間実行オペレーションのワイヤ型です。

type videoRequest struct {
	Instances  []videoInstance  `json:"instances"`
	Parameters *videoParameters `json:"parameters,omitempty"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoImage struct {
	BytesBase64Encoded []byte `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoParameters struct {
	NumberOfVideos int `json:"numberOfVideos,omitempty"`
}

type operationResponse struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Response *videoOperation `json:"response,omitempty"`
}

type videoOperation struct {
	GenerateVideoResponse *videoResult `json:"generateVideoResponse,omitempty"`
}

type videoResult struct {
	GeneratedSamples []videoSample `json:"generatedSamples"`
}

type videoSample struct {
	Video videoRef `json:"video"`
}

type videoRef struct {
	URI string `json:"uri"`
}
