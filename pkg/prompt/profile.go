package prompt

import "strings"

// Profile holds the sampling parameters for one generation call.
type Profile struct {
	MaxNewTokens      int
	Temperature       float64
	TopP              float64
	TopK              int
	RepetitionPenalty float64
	NoRepeatNgramSize int
}

func DefaultProfile() Profile {
	return Profile{
		MaxNewTokens:      512,
		Temperature:       0.7,
		TopP:              0.95,
		TopK:              50,
		RepetitionPenalty: 1.1,
		NoRepeatNgramSize: 3,
	}
}

type profileOverride struct {
	match   []string
	profile Profile
}

var profileOverrides = []profileOverride{
	{
		// Qwen instruct models drift into mixed languages at high temperature;
		// short, near-greedy decoding keeps the image-prompt tasks on rails.
		match: []string{"qwen"},
		profile: Profile{
			MaxNewTokens:      200,
			Temperature:       0.3,
			TopP:              0.9,
			TopK:              40,
			RepetitionPenalty: 1.15,
			NoRepeatNgramSize: 3,
		},
	},
	{
		match: []string{"gpt-neox", "rinna", "japanese"},
		profile: Profile{
			MaxNewTokens:      768,
			Temperature:       0.9,
			TopP:              0.95,
			TopK:              50,
			RepetitionPenalty: 1.05,
			NoRepeatNgramSize: 2,
		},
	},
}

// Resolve maps a model identifier to its generation profile. Unknown
// identifiers get the default profile.
func Resolve(modelID string) Profile {
	lowered := strings.ToLower(modelID)
	for _, o := range profileOverrides {
		if matchesAny(lowered, o.match) {
			return o.profile
		}
	}
	return DefaultProfile()
}
