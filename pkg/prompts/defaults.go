package prompts

import "strings"

// DefaultImagePrompt は画像エディターの初期プロンプトです。{name} を補間します。
const DefaultImagePrompt = `Candid, photorealistic photograph of {name}. Expression: authentic, cheerful smile. Pose: looking slightly off-camera, caught in a natural, unposed moment. Environment: luxury beachfront resort terrace, beautiful soft bokeh from the ocean and palm trees in the background. Lighting: warm, dramatic golden hour side-lighting casting long, soft shadows. Outfit: crisp white linen shirt with realistic fabric texture and wrinkles, slightly unbuttoned. Captured on a Sony A7R IV with a 85mm GM lens, f/1.4 aperture for extremely shallow depth of field. Film-like color grading (emulating Kodak Portra 400), ultra-detailed, sharp focus, realistic skin texture with subsurface scattering.`

// DefaultVideoPrompt は動画ジェネレーターの初期プロンプトです。
const DefaultVideoPrompt = `A short, cinematic, 4k, photorealistic video of {name}. Pose: looking directly at the camera with a subtle, confident expression. Environment: a minimalist, high-end apartment with soft, natural light coming from a large window. Action: {name} slowly turns their head from side to side, then gives a slight nod. The movement should be smooth and natural. Focus on creating a sense of calm and elegance. The video should have a shallow depth of field, with the background softly blurred.`

// UpscaleInstruction はアップスケール操作で editImage に渡す正規の指示文です。
const UpscaleInstruction = `URGENT: Upscale this image to a much higher resolution. Enhance all details, textures, and sharpness for maximum clarity and photorealism. **Crucially, you must not change the character's face, pose, clothing, or the background composition.** The output must be a higher-resolution, sharper version of the original input, maintaining the aspect ratio perfectly.`

// EnhanceSystemInstruction はプロンプト強化のシステム指示です。
const EnhanceSystemInstruction = `You are a world-class prompt engineer specializing in hyper-realistic generative AI imagery. Your mission is to elevate a user's prompt into a masterpiece of photographic realism. The final output must be utterly indistinguishable from a professional photograph. Enhance the prompt with extreme detail, focusing on: camera specifics (e.g., Canon EOS R5, 85mm f/1.2L lens), cinematic lighting (e.g., chiaroscuro, Rembrandt lighting), and analog film emulation (e.g., Kodak Portra 400, Fuji Pro 400H). Introduce subtle, organic imperfections like film grain, chromatic aberration, and natural skin texture with visible pores. **YOUR PRIMARY DIRECTIVE IS TO AGGRESSIVELY ELIMINATE THE 'AI LOOK'.** This means destroying any trace of plastic skin, the uncanny valley effect, overly perfect symmetry, dead or vacant eyes, and airbrushed textures. Do not alter the core subject or intent of the user's prompt. Your output must be only the enhanced prompt, ready for the AI.`

// SupportedAspectRatios は対応するアスペクト比の一覧です。
var SupportedAspectRatios = []string{"3:4", "1:1", "4:3", "16:9", "9:16"}

// Interpolate は {name} と {persona} のプレースホルダーを置換します。
func Interpolate(tpl, name, persona string) string {
	out := strings.ReplaceAll(tpl, "{name}", name)
	return strings.ReplaceAll(out, "{persona}", persona)
}
