package constant

import "encoding/json"

// CharacterTags is the fixed vocabulary of allowed character tags.
// Tag filtering and validation both run against this list.
var CharacterTags = []string{
	"fantasy",
	"sci-fi",
	"romance",
	"adventure",
	"horror",
	"comedy",
	"drama",
	"mystery",
	"historical",
	"slice-of-life",
	"anime",
	"games",
	"assistant",
	"philosophy",
}

var characterTagSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(CharacterTags))
	for _, t := range CharacterTags {
		set[t] = struct{}{}
	}
	return set
}()

func IsValidCharacterTag(tag string) bool {
	_, ok := characterTagSet[tag]
	return ok
}

// ParseTagList decodes a JSON-encoded tag list and checks every entry
// against the vocabulary. Any decode failure or out-of-vocabulary entry
// collapses the whole list to empty rather than failing the request.
func ParseTagList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}

	for _, tag := range tags {
		if !IsValidCharacterTag(tag) {
			return []string{}
		}
	}

	if tags == nil {
		return []string{}
	}
	return tags
}
