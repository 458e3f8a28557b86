package probe

import (
	"context"
	"strings"

	"github.com/webitel/im-room-client/internal/domain/model"
	"golang.org/x/text/language"
)

// Languages lists preferred languages as BCP 47 tags: LANGUAGE (colon separated)
// first, then the first of LC_ALL, LC_MESSAGES, LANG that is set.
func (h *Host) Languages(_ context.Context) model.Optional[[]string] {
	var candidates []string
	candidates = append(candidates, strings.Split(h.env("LANGUAGE"), ":")...)
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := h.env(key); v != "" {
			candidates = append(candidates, v)
			break
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tag, ok := ParseLocale(c)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return model.None[[]string]()
	}
	return model.Some(tags)
}

// ParseLocale turns a POSIX locale ("en_US.UTF-8@euro") into a BCP 47 tag ("en-US").
// The C and POSIX locales carry no language preference.
func ParseLocale(posix string) (string, bool) {
	s := strings.TrimSpace(posix)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
