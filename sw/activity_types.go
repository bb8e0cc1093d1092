package sw

import (
	"strconv"
	"strings"
)

// activityNames maps Suunto activity ids to sport names.
var activityNames = map[int]string{
	0:  "walking",
	1:  "running",
	2:  "cycling",
	3:  "cross country skiing",
	10: "mountain biking",
	11: "hiking",
	13: "downhill skiing",
	14: "paddling",
	15: "rowing",
	16: "golf",
	21: "swimming",
	22: "trail running",
	23: "gym",
	24: "nordic walking",
	29: "climbing",
	30: "snowboarding",
	31: "ski touring",
	33: "soccer",
	34: "tennis",
	35: "basketball",
	37: "baseball",
	38: "volleyball",
	51: "yoga",
	52: "indoor cycling",
	53: "treadmill",
	54: "crossfit",
	57: "indoor rowing",
	70: "trekking",
	72: "kayaking",
	82: "canoeing",
	85: "open water swimming",
}

// ActivityTypeDetector maps Suunto activity ids to a name and an emoji
type ActivityTypeDetector struct {
	keywords map[string][]string
}

// NewActivityTypeDetector creates a new activity type detector with predefined keywords
func NewActivityTypeDetector() *ActivityTypeDetector {
	return &ActivityTypeDetector{
		keywords: map[string][]string{
			"🏃":  {"running", "treadmill"},
			"🚴":  {"cycling", "biking"},
			"🏊":  {"swimming"},
			"⛷️": {"skiing", "snowboarding", "ski touring"},
			"🥾":  {"hiking", "walking", "trekking"},
			"💪":  {"gym", "crossfit"},
			"⚽":  {"soccer"},
			"🏀":  {"basketball"},
			"🎾":  {"tennis"},
			"🚣":  {"rowing", "paddling", "kayaking", "canoeing"},
			"🧘":  {"yoga"},
			"⛳":  {"golf"},
			"🧗":  {"climbing"},
			"⚾":  {"baseball"},
			"🏐":  {"volleyball"},
		},
	}
}

// Name returns the sport name for a Suunto activity id, or "unknown"
func (d *ActivityTypeDetector) Name(activityID string) string {
	id, err := strconv.Atoi(strings.TrimSpace(activityID))
	if err != nil {
		return "unknown"
	}
	if name, ok := activityNames[id]; ok {
		return name
	}
	return "unknown"
}

// DetectActivityType returns the appropriate emoji for a Suunto activity id
func (d *ActivityTypeDetector) DetectActivityType(activityID string) string {
	name := d.Name(activityID)

	// Longest keyword wins so "trail running" and "ski touring" are not shadowed
	var matchedEmoji string
	matchedLen := 0
	for emoji, keywords := range d.keywords {
		for _, keyword := range keywords {
			if strings.Contains(name, keyword) && len(keyword) > matchedLen {
				matchedEmoji = emoji
				matchedLen = len(keyword)
			}
		}
	}

	if matchedEmoji != "" {
		return matchedEmoji
	}

	// Default for unknown activity types
	return "❓"
}
