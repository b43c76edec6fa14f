package photoanalysis

import "strings"

// Software tags written by common AI upscalers.
var upscalerTags = []string{
	"gigapixel",
	"topaz",
	"waifu2x",
	"real-esrgan",
	"upscale",
	"remini",
}

// Software tags written by common photo editors.
var editorTags = []string{
	"photoshop",
	"lightroom",
	"gimp",
	"facetune",
	"snapseed",
	"picsart",
	"affinity photo",
}

func upscalingSoftware(software string) bool {
	return matchesTag(software, upscalerTags)
}

func editingSoftware(software string) bool {
	return matchesTag(software, editorTags)
}

func matchesTag(software string, tags []string) bool {
	if software == "" {
		return false
	}
	s := strings.ToLower(software)
	for _, tag := range tags {
		if strings.Contains(s, tag) {
			return true
		}
	}
	return false
}
