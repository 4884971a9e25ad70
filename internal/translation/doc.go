// Package translation provides the external translator used by the
// orchestrator. It wraps the DeepL, OpenAI and Gemini APIs behind a single
// Translator interface and classifies failures into configuration,
// unsupported language, network and API errors.
package translation
