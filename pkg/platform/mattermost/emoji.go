// Copyright 2024-2026 Aiku AI

package mattermost

import "strings"

// Mattermost reactions are named emoji, while the pagination engine deals in
// Unicode triggers. These tables cover the navigation set plus the common
// reactions users tend to throw at bot messages.
var emojiNames = map[string]string{
	"\u23ea":       "rewind",
	"\u25c0\ufe0f": "arrow_backward",
	"\u25b6\ufe0f": "arrow_forward",
	"\u23e9":       "fast_forward",
	"\U0001f512":   "lock",
	"\U0001f6d1":   "octagonal_sign",
	"\U0001f44d":   "+1",
	"\U0001f44e":   "-1",
	"\u2764\ufe0f": "heart",
	"\u2705":       "white_check_mark",
	"\u274c":       "x",
	"\U0001f440":   "eyes",
	"\U0001f389":   "tada",
	"\U0001f44b":   "wave",
}

var emojiTriggers = make(map[string]string, len(emojiNames))

func init() {
	for trigger, name := range emojiNames {
		emojiTriggers[name] = trigger
	}
}

// nameForTrigger converts a Unicode trigger to a Mattermost emoji name.
// Unknown triggers pass through with colons stripped so custom emoji still
// work.
func nameForTrigger(trigger string) string {
	if name, ok := emojiNames[trigger]; ok {
		return name
	}
	// Some clients send reactions without the emoji variation selector.
	if name, ok := emojiNames[trigger+"\ufe0f"]; ok {
		return name
	}
	return strings.Trim(trigger, ":")
}

// triggerForName converts a Mattermost emoji name to a Unicode trigger.
// Unknown names come back in :name: form.
func triggerForName(name string) string {
	if trigger, ok := emojiTriggers[name]; ok {
		return trigger
	}
	return ":" + name + ":"
}
