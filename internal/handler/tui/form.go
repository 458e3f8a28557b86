package tui

import (
	"unicode/utf8"

	"github.com/webitel/im-room-client/internal/domain/model"
)

// termui key ids
const (
	keyTab       = "<Tab>"
	keyEnter     = "<Enter>"
	keySpace     = "<Space>"
	keyBackspace = "<Backspace>"
	keyCtrlBack  = "<C-<Backspace>>"
	keyEscape    = "<Escape>"
	keyCtrlC     = "<C-c>"
)

// form holds the two input fields: index 0 creates a room, index 1 joins one.
type form struct {
	values [2][]rune
	focus  int
}

var fieldActions = [2]model.Action{model.ActionCreate, model.ActionJoin}

// handle applies one key. submitted is set when Enter was pressed on a field;
// the field is cleared and its content returned in cmd (possibly empty).
func (f *form) handle(key string) (cmd model.RoomCommand, submitted, quit bool) {
	switch key {
	case keyEscape, keyCtrlC:
		return cmd, false, true
	case keyTab:
		f.focus = (f.focus + 1) % len(f.values)
	case keyEnter:
		cmd = model.RoomCommand{Action: fieldActions[f.focus], Room: string(f.values[f.focus])}
		f.values[f.focus] = f.values[f.focus][:0]
		return cmd, true, false
	case keySpace:
		f.values[f.focus] = append(f.values[f.focus], ' ')
	case keyBackspace, keyCtrlBack:
		if v := f.values[f.focus]; len(v) > 0 {
			f.values[f.focus] = v[:len(v)-1]
		}
	default:
		// printable keys arrive as the character itself, everything else as <Name>
		if utf8.RuneCountInString(key) == 1 {
			r, _ := utf8.DecodeRuneInString(key)
			f.values[f.focus] = append(f.values[f.focus], r)
		}
	}
	return cmd, false, false
}

func (f *form) value(i int) string { return string(f.values[i]) }
