package summarizer

import "strings"

// Mode selects how the provider is driven.
type Mode string

const (
	// ModeExtractive drives a summarization model with numeric length parameters.
	ModeExtractive Mode = "extractive"
	// ModeGenerative drives a chat model with a natural-language instruction.
	ModeGenerative Mode = "generative"
)

// ParseMode resolves a configured mode name.
func ParseMode(value string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeExtractive:
		return ModeExtractive, true
	case ModeGenerative:
		return ModeGenerative, true
	default:
		return "", false
	}
}

// Style is the caller selected summary type.
type Style string

const (
	StyleShort  Style = "short"
	StyleMedium Style = "medium"
	StyleLong   Style = "long"

	StyleConcise      Style = "concise"
	StyleDetailed     Style = "detailed"
	StyleBulletPoints Style = "bullet-points"
)

// StyleSet is the ordered vocabulary of one mode, terse to verbose.
type StyleSet struct {
	Styles  []Style
	Default Style
}

// Contains reports whether style belongs to the set.
func (s StyleSet) Contains(style Style) bool {
	for _, candidate := range s.Styles {
		if candidate == style {
			return true
		}
	}
	return false
}

// Names returns the styles as plain strings.
func (s StyleSet) Names() []string {
	names := make([]string, 0, len(s.Styles))
	for _, style := range s.Styles {
		names = append(names, string(style))
	}
	return names
}

// StylesFor returns the vocabulary of mode.
func StylesFor(mode Mode) StyleSet {
	if mode == ModeGenerative {
		return StyleSet{
			Styles:  []Style{StyleConcise, StyleDetailed, StyleBulletPoints},
			Default: StyleDetailed,
		}
	}
	return StyleSet{
		Styles:  []Style{StyleShort, StyleMedium, StyleLong},
		Default: StyleMedium,
	}
}

// ExtractiveParams bound the length of an extractive summary, in model tokens.
type ExtractiveParams struct {
	MaxLength int
	MinLength int
	DoSample  bool
}

// GenerationSpec is everything a provider needs besides the transcript.
type GenerationSpec struct {
	Mode  Mode
	Style Style

	// Extractive is set in extractive mode only.
	Extractive *ExtractiveParams

	// Instruction, Temperature and MaxTokens are set in generative mode only.
	Instruction string
	Temperature float32
	MaxTokens   int
}

// Prompt concatenates the instruction with the transcript.
func (g GenerationSpec) Prompt(transcript string) string {
	if g.Instruction == "" {
		return transcript
	}
	return g.Instruction + transcript
}

const (
	generativeTemperature float32 = 0.3
	generativeMaxTokens           = 1024
)

var extractivePresets = map[Style]ExtractiveParams{
	StyleShort:  {MaxLength: 100, MinLength: 30},
	StyleMedium: {MaxLength: 150, MinLength: 50},
	StyleLong:   {MaxLength: 250, MinLength: 100},
}

var generativeTemplates = map[Style]string{
	StyleConcise: "Summarize the following video transcript in one short paragraph of at most three sentences. " +
		"Keep only the central message.\n\nTranscript:\n",
	StyleDetailed: "Summarize the following video transcript in a few well-structured paragraphs. " +
		"Cover the main topics in the order they appear, with the key facts and conclusions of each.\n\nTranscript:\n",
	StyleBulletPoints: "Summarize the following video transcript as a numbered list of the key points. " +
		"Use one line per point, five to ten points, no introduction.\n\nTranscript:\n",
}

// BuildSpec maps a style to the generation spec of mode. Styles outside the
// mode's vocabulary fall back to its default style.
func BuildSpec(mode Mode, style Style) GenerationSpec {
	styles := StylesFor(mode)
	if !styles.Contains(style) {
		style = styles.Default
	}

	if mode == ModeGenerative {
		return GenerationSpec{
			Mode:        mode,
			Style:       style,
			Instruction: generativeTemplates[style],
			Temperature: generativeTemperature,
			MaxTokens:   generativeMaxTokens,
		}
	}

	params := extractivePresets[style]
	return GenerationSpec{
		Mode:       ModeExtractive,
		Style:      style,
		Extractive: &params,
	}
}
