package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Progress
	Mark
	Video
	Audio
	Combined
	Scheduled
	Link
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "+",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・)ノ",
		squares: "🟦",
	},
	Mark: {
		emoji:   "✅",
		nerd:    "",
		plain:   "*",
		kaomoji: "(* ^ ω ^)",
		squares: "🟨",
	},
	Video: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "V",
		kaomoji: "[▶]",
		squares: "🟪",
	},
	Audio: {
		emoji:   "🎧",
		nerd:    "",
		plain:   "A",
		kaomoji: "(♪)",
		squares: "🟧",
	},
	Combined: {
		emoji:   "📼",
		nerd:    "",
		plain:   "AV",
		kaomoji: "[▶♪]",
		squares: "🟫",
	},
	Scheduled: {
		emoji:   "⏰",
		nerd:    "",
		plain:   "@",
		kaomoji: "(⌐■_■)",
		squares: "⬜",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "#",
		kaomoji: "(｀・ω・´)",
		squares: "⬛",
	},
}
