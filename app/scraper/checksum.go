package scraper

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Checksum fingerprints the content-bearing fields of a record: date
// and the four reading sections. Metadata is excluded on purpose, so
// re-scraping identical content from a different URL or at a different
// time produces the same digest. The serialization is canonical (keys
// sorted, HTML escaping off, non-ASCII preserved), making the digest
// usable for change detection between scrapes of the same date.
//
// The second return reports whether the canonical path was taken. On
// the false path the digest is a best-effort hash of the record's
// printed form and must not be trusted for deduplication.
func Checksum(reading *Reading) (string, bool) {
	content := map[string]any{
		"date":          reading.Date,
		"firstReading":  sectionContent(reading.FirstReading, false),
		"psalm":         sectionContent(reading.Psalm, true),
		"secondReading": sectionContent(reading.SecondReading, false),
		"gospel":        sectionContent(reading.Gospel, false),
	}

	serialized, err := canonicalJSON(content)
	if err != nil {
		slog.Warn("Canonical serialization failed, falling back to non-canonical checksum",
			"date", reading.Date, "error", err)
		sum := md5.Sum([]byte(fmt.Sprintf("%+v", reading)))
		return hex.EncodeToString(sum[:]), false
	}

	sum := md5.Sum(serialized)
	return hex.EncodeToString(sum[:]), true
}

// VerifyChecksum recomputes the checksum and compares it with the
// expected digest, detecting content drift between scrapes.
func VerifyChecksum(reading *Reading, expected string) bool {
	actual, _ := Checksum(reading)
	return actual == expected
}

// sectionContent reduces a section to its content fields. Absent
// sections serialize as null so that presence itself is part of the
// fingerprint. The response key participates only for the psalm.
func sectionContent(section *Section, psalm bool) map[string]any {
	if section == nil {
		return nil
	}
	content := map[string]any{
		"reference": section.Reference,
		"citation":  section.Citation,
		"text":      section.Text,
		"title":     section.Title,
	}
	if psalm {
		content["response"] = section.Response
	}
	return content
}

// canonicalJSON serializes with map keys in sorted order and without
// HTML escaping, so "℟." and similar glyphs hash as their UTF-8 bytes.
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
