package ui

// Action is what a key press asks the browser to do.
type Action string

const (
	ActionNone       Action = ""
	ActionSearch     Action = "search"
	ActionFilter     Action = "filter"
	ActionSort       Action = "sort"
	ActionPrev       Action = "prev"
	ActionNext       Action = "next"
	ActionFirst      Action = "first"
	ActionLast       Action = "last"
	ActionTable      Action = "table"
	ActionOpen       Action = "open"
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionPageUp     Action = "page_up"
	ActionPageDown   Action = "page_down"
	ActionHelp       Action = "help"
	ActionQuit       Action = "quit"
	// ActionButton selects a numbered page button; the digit is the index.
	ActionButton Action = "button"
)

// KeyBindings maps key strings (tea.KeyPressMsg.String) to actions.
var KeyBindings = map[string]Action{
	"/":      ActionSearch,
	"f":      ActionFilter,
	"s":      ActionSort,
	"left":   ActionPrev,
	"h":      ActionPrev,
	"right":  ActionNext,
	"l":      ActionNext,
	"home":   ActionFirst,
	"g":      ActionFirst,
	"end":    ActionLast,
	"G":      ActionLast,
	"t":      ActionTable,
	"enter":  ActionOpen,
	"up":     ActionScrollUp,
	"k":      ActionScrollUp,
	"down":   ActionScrollDown,
	"j":      ActionScrollDown,
	"pgup":   ActionPageUp,
	"pgdown": ActionPageDown,
	"?":      ActionHelp,
	"q":      ActionQuit,
	"ctrl+c": ActionQuit,
}

// ActionFor resolves key. Digits 1-9 resolve to ActionButton with the
// 1-based button index.
func ActionFor(key string) (Action, int) {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return ActionButton, int(key[0] - '0')
	}
	return KeyBindings[key], 0
}

// helpRows lists the key help in display order.
var helpRows = [][2]string{
	{"/", "search by name"},
	{"f", "cycle filter: all, limited, normal"},
	{"s", "cycle sort order"},
	{"←/h →/l", "previous / next page"},
	{"g/Home G/End", "first / last page"},
	{"1-9", "jump to the n-th page button"},
	{"t", "toggle compact table"},
	{"Enter", "open the selected table row as a card"},
	{"↑/k ↓/j", "scroll"},
	{"PgUp/PgDn", "scroll a screen"},
	{"?", "toggle help"},
	{"q", "quit"},
}
