package gigya

import (
	"strconv"
	"strings"
	"time"
)

type fieldSetter struct {
	source string
	set    func(*Identity, *string)
}

// identityFields lists scalar profile fields that share the source element name.
var identityFields = []fieldSetter{
	{"nickname", func(i *Identity, v *string) { i.Nickname = v }},
	{"firstName", func(i *Identity, v *string) { i.FirstName = v }},
	{"lastName", func(i *Identity, v *string) { i.LastName = v }},
	{"gender", func(i *Identity, v *string) { i.Gender = v }},
	{"age", func(i *Identity, v *string) { i.Age = v }},
	{"email", func(i *Identity, v *string) { i.Email = v }},
	{"city", func(i *Identity, v *string) { i.City = v }},
	{"state", func(i *Identity, v *string) { i.State = v }},
	{"zip", func(i *Identity, v *string) { i.Zip = v }},
	{"country", func(i *Identity, v *string) { i.Country = v }},
}

// mediaFields translates the provider's URL element names.
var mediaFields = []fieldSetter{
	{"thumbnailURL", func(i *Identity, v *string) { i.ThumbnailURL = v }},
	{"profileURL", func(i *Identity, v *string) { i.ProfileURL = v }},
	{"photoURL", func(i *Identity, v *string) { i.PhotoURL = v }},
}

// MapIdentity projects a user-info document onto the canonical identity.
// Only the first sub-record whose provider matches the login provider is applied;
// when none matches the identity carries just ID and Provider.
func MapIdentity(doc *Document) *Identity {
	id := &Identity{
		ID:       doc.UID,
		Provider: normalizeProvider(doc.LoginProvider),
	}

	for _, rec := range doc.Records() {
		if normalizeProvider(rec.Provider()) != id.Provider {
			continue
		}
		applyRecord(id, rec)
		break
	}
	return id
}

func applyRecord(id *Identity, rec Record) {
	for _, table := range [][]fieldSetter{identityFields, mediaFields} {
		for _, f := range table {
			if v, ok := rec.Get(f.source); ok {
				f.set(id, &v)
			}
		}
	}

	if bd, ok := birthday(rec); ok {
		id.Birthday = &bd
	}
}

// birthday composes a date only when month, day and year are all present
// and form a real calendar date.
func birthday(rec Record) (time.Time, bool) {
	var parts [3]int
	for i, name := range []string{"birthYear", "birthMonth", "birthDay"} {
		raw, ok := rec.Get(name)
		if !ok {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}

	year, month, day := parts[0], time.Month(parts[1]), parts[2]
	if year <= 0 || month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}
