package draft

import (
	"strings"

	"guidelight-backend/internal/domains/pick"
)

type TagKind string

const (
	TagEffect TagKind = "effect"
	TagCustom TagKind = "custom"
)

func (k TagKind) Valid() bool {
	return k == TagEffect || k == TagCustom
}

// AddTag appends a trimmed tag unless an equal one (case-insensitive) exists.
// Effect tags are capped at pick.MaxEffectTags.
func (f *FormState) AddTag(kind TagKind, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrEmptyTag
	}

	tags := f.tags(kind)
	if tags == nil {
		return ErrInvalidTagKind
	}
	if indexFold(*tags, tag) >= 0 {
		return nil
	}
	if kind == TagEffect && len(*tags) >= pick.MaxEffectTags {
		return ErrTooManyEffectTags
	}
	*tags = append(*tags, tag)
	return nil
}

// RemoveTag removes a tag (case-insensitive) and reports whether it was there
func (f *FormState) RemoveTag(kind TagKind, tag string) (bool, error) {
	tags := f.tags(kind)
	if tags == nil {
		return false, ErrInvalidTagKind
	}
	i := indexFold(*tags, strings.TrimSpace(tag))
	if i < 0 {
		return false, nil
	}
	next := make([]string, 0, len(*tags)-1)
	next = append(next, (*tags)[:i]...)
	next = append(next, (*tags)[i+1:]...)
	*tags = next
	return true, nil
}

func (f *FormState) tags(kind TagKind) *[]string {
	switch kind {
	case TagEffect:
		return &f.EffectTags
	case TagCustom:
		return &f.CustomTags
	default:
		return nil
	}
}

// normalizeTags trims, drops empties and case-insensitive duplicates.
// max <= 0 means unbounded.
func normalizeTags(in []string, max int) ([]string, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || indexFold(out, t) >= 0 {
			continue
		}
		out = append(out, t)
	}
	if max > 0 && len(out) > max {
		return nil, ErrTooManyEffectTags
	}
	return out, nil
}

func indexFold(tags []string, tag string) int {
	for i, t := range tags {
		if strings.EqualFold(t, tag) {
			return i
		}
	}
	return -1
}
